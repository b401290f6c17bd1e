package cognee

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cognee-oss/cognee-go/pkg/graph"
	"github.com/cognee-oss/cognee-go/pkg/types"
)

// Cognify implements Cognee. The pipeline runs chunking, per-chunk LLM
// extraction, the existing-edge pre-check, expansion, and persistence as one
// batch: either the whole result lands in the graph store or nothing does.
func (c *Client) Cognify(ctx context.Context, dataset string, texts []string, options *CognifyOptions) (*CognifyResult, error) {
	if dataset == "" {
		return nil, types.ErrEmptyDataset
	}
	if len(texts) == 0 {
		return nil, ErrNoInput
	}
	if options == nil {
		options = &CognifyOptions{}
	}

	var chunks []*types.DocumentChunk
	for _, text := range texts {
		chunks = append(chunks, chunkText(dataset, options.SourceID, text, c.chunkSize, len(chunks))...)
	}
	if len(chunks) == 0 {
		return nil, types.ErrEmptyText
	}

	start := time.Now()
	pairs := make([]types.ChunkGraphPair, 0, len(chunks))
	for _, chunk := range chunks {
		extracted, err := c.llm.ExtractKnowledgeGraph(ctx, chunk.Text)
		if err != nil {
			return nil, fmt.Errorf("extracting chunk %d: %w", chunk.ChunkIndex, err)
		}
		pairs = append(pairs, types.ChunkGraphPair{Chunk: chunk, Graph: extracted})
	}

	seen, err := graph.RetrieveExistingEdges(ctx, pairs, c.driver)
	if err != nil {
		return nil, err
	}

	nodes, edges, err := c.expander.ExpandShared(ctx, pairs, seen)
	if err != nil {
		return nil, err
	}

	if err := c.persist(ctx, nodes, edges); err != nil {
		return nil, err
	}

	c.logger.Info("cognify batch persisted",
		"dataset", dataset,
		"chunks", len(chunks),
		"nodes", len(nodes),
		"edges", len(edges),
		"duration", time.Since(start))

	c.record(uuid.New().String(), nodes, edges)

	return &CognifyResult{Chunks: len(chunks), Nodes: nodes, Edges: edges}, nil
}

// CognifyEvent implements Cognee.
func (c *Client) CognifyEvent(ctx context.Context, name, description string) (*types.Event, error) {
	if description == "" {
		return nil, types.ErrEmptyText
	}

	attrs, err := c.llm.ExtractEventAttributes(ctx, description)
	if err != nil {
		return nil, fmt.Errorf("extracting event attributes: %w", err)
	}

	event := &types.Event{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
	}
	graph.AddEntitiesToEvent(event, attrs)

	nodes := []types.Node{event}
	if err := c.persist(ctx, nodes, nil); err != nil {
		return nil, err
	}

	c.record(event.ID.String(), nodes, nil)

	return event, nil
}

func (c *Client) persist(ctx context.Context, nodes []types.Node, edges []types.Edge) error {
	if err := c.driver.AddNodes(ctx, nodes); err != nil {
		return fmt.Errorf("persisting nodes: %w", err)
	}
	if len(edges) > 0 {
		if err := c.driver.AddEdges(ctx, edges); err != nil {
			return fmt.Errorf("persisting edges: %w", err)
		}
	}
	return nil
}

// record writes the audit trail. Failures only warn: the batch is already
// persisted and the audit log is advisory.
func (c *Client) record(batchID string, nodes []types.Node, edges []types.Edge) {
	if c.factlog == nil {
		return
	}
	if err := c.factlog.RecordBatch(batchID, nodes, edges); err != nil {
		c.logger.Warn("factlog write failed", "batch", batchID, "error", err)
	}
}
