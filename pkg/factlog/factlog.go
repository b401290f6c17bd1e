// Package factlog persists an audit trail of expansion runs as Parquet
// files. Every batch leaves one file of chunk rows, one of node rows and one
// of edge rows, so extraction quality can be inspected offline without
// querying the graph store.
package factlog

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/cognee-oss/cognee-go/pkg/types"
)

// Writer appends expansion results to a directory of Parquet files.
type Writer struct {
	baseDir string
}

// NewWriter creates the chunk, node and edge subdirectories under baseDir.
func NewWriter(baseDir string) (*Writer, error) {
	for _, d := range []string{"chunks", "nodes", "edges"} {
		if err := os.MkdirAll(filepath.Join(baseDir, d), 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", d, err)
		}
	}
	return &Writer{baseDir: baseDir}, nil
}

// ChunkRow is the Parquet schema for one processed chunk.
type ChunkRow struct {
	ID         string `parquet:"id"`
	Dataset    string `parquet:"dataset"`
	SourceID   string `parquet:"source_id"`
	ChunkIndex int32  `parquet:"chunk_index"`
	Text       string `parquet:"text"`
	Entities   int32  `parquet:"entities"`
	RecordedAt int64  `parquet:"recorded_at"`
}

// NodeRow is the Parquet schema for one graph node produced by a run.
type NodeRow struct {
	ID         string `parquet:"id"`
	Label      string `parquet:"label"`
	Name       string `parquet:"name"`
	RecordedAt int64  `parquet:"recorded_at"`
}

// EdgeRow is the Parquet schema for one emitted edge.
type EdgeRow struct {
	SourceID         string `parquet:"source_id"`
	TargetID         string `parquet:"target_id"`
	RelationshipName string `parquet:"relationship_name"`
	OntologyValid    bool   `parquet:"ontology_valid"`
	RecordedAt       int64  `parquet:"recorded_at"`
}

// RecordBatch writes one expansion result. Empty slices write no file.
func (w *Writer) RecordBatch(batchID string, nodes []types.Node, edges []types.Edge) error {
	now := time.Now().UnixMilli()

	var chunkRows []ChunkRow
	var nodeRows []NodeRow
	for _, node := range nodes {
		name := ""
		switch n := node.(type) {
		case *types.DocumentChunk:
			chunkRows = append(chunkRows, ChunkRow{
				ID:         n.ID.String(),
				Dataset:    n.Dataset,
				SourceID:   n.SourceID,
				ChunkIndex: int32(n.ChunkIndex),
				Text:       n.Text,
				Entities:   int32(len(n.Contains)),
				RecordedAt: now,
			})
			continue
		case *types.Entity:
			name = n.Name
		case *types.EntityType:
			name = n.Name
		case *types.OntologyNode:
			name = n.Name
		case *types.Event:
			name = n.Name
		}
		nodeRows = append(nodeRows, NodeRow{
			ID:         node.NodeID().String(),
			Label:      node.Label(),
			Name:       name,
			RecordedAt: now,
		})
	}

	edgeRows := make([]EdgeRow, 0, len(edges))
	for _, edge := range edges {
		edgeRows = append(edgeRows, EdgeRow{
			SourceID:         edge.SourceID.String(),
			TargetID:         edge.TargetID.String(),
			RelationshipName: edge.RelationshipName,
			OntologyValid:    edge.Properties.OntologyValid,
			RecordedAt:       now,
		})
	}

	if err := writeRows(w.baseDir, "chunks", batchID, chunkRows); err != nil {
		return err
	}
	if err := writeRows(w.baseDir, "nodes", batchID, nodeRows); err != nil {
		return err
	}
	return writeRows(w.baseDir, "edges", batchID, edgeRows)
}

func writeRows[T any](baseDir, kind, batchID string, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	filename := fmt.Sprintf("%s_%s_%d.parquet", kind, batchID, time.Now().UnixNano())
	path := filepath.Join(baseDir, kind, filename)
	if err := parquet.WriteFile(path, rows); err != nil {
		return fmt.Errorf("failed to write %s parquet: %w", kind, err)
	}
	return nil
}

// Close is a no-op, kept so callers can treat the writer as a resource.
func (w *Writer) Close() error { return nil }
