package driver

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/cognee-oss/cognee-go/pkg/types"
)

// ErrEdgeOracle wraps whole-batch failures of HasEdges. Without existence
// information the caller cannot safely decide which edges are new, so this
// error always propagates; there is no fall-back to an empty existing-set.
var ErrEdgeOracle = errors.New("edge existence check failed")

// Backend identifies a graph database backend.
type Backend string

const (
	BackendNeo4j  Backend = "neo4j"
	BackendMemory Backend = "memory"
)

// EdgeOracle answers which candidate triples already exist in persisted
// storage. An empty candidate list yields an empty result. Implementations
// must not mutate the input slice.
type EdgeOracle interface {
	HasEdges(ctx context.Context, candidates []types.Triple) ([]types.Triple, error)
}

// GraphDriver is the persistence contract the pipeline writes through.
// AddNodes and AddEdges carry MERGE semantics: re-adding a node or edge with
// an identity already stored updates it instead of duplicating it.
type GraphDriver interface {
	EdgeOracle

	// AddNodes upserts the given nodes. DocumentChunk values are walked:
	// their contained entities, the entities' types, and the structural
	// contains / is_a edges are stored alongside the chunk itself.
	AddNodes(ctx context.Context, nodes []types.Node) error

	// AddEdges upserts the given relationship tuples.
	AddEdges(ctx context.Context, edges []types.Edge) error

	// GetEdges returns all stored edges touching the given node.
	GetEdges(ctx context.Context, nodeID uuid.UUID) ([]types.Edge, error)

	// GetNeighbors returns the ids of nodes adjacent to the given node.
	GetNeighbors(ctx context.Context, nodeID uuid.UUID) ([]uuid.UUID, error)

	Provider() Backend
	Close(ctx context.Context) error
}

// flatNode is one concrete node row derived from walking a types.Node.
type flatNode struct {
	ID         uuid.UUID
	Label      string
	Properties map[string]any
}

// flattenNodes walks the node list the expansion engine produces and derives
// every row the backend must store: chunks, their contained entities, the
// entities' types, ontology nodes, and the structural contains / is_a edges
// implied by the nesting. Duplicate ids collapse to the first occurrence.
func flattenNodes(nodes []types.Node) ([]flatNode, []types.Edge) {
	var (
		rows  []flatNode
		edges []types.Edge
		seen  = make(map[uuid.UUID]bool)
	)

	add := func(row flatNode) {
		if seen[row.ID] {
			return
		}
		seen[row.ID] = true
		rows = append(rows, row)
	}

	addEntity := func(entity *types.Entity) {
		if entity == nil {
			return
		}
		add(flatNode{
			ID:    entity.ID,
			Label: entity.Label(),
			Properties: map[string]any{
				"name":        entity.Name,
				"description": entity.Description,
			},
		})
		if entity.IsA == nil {
			return
		}
		add(flatNode{
			ID:    entity.IsA.ID,
			Label: entity.IsA.Label(),
			Properties: map[string]any{
				"name":        entity.IsA.Name,
				"type":        entity.IsA.Type,
				"description": entity.IsA.Description,
			},
		})
		edges = append(edges, structuralEdge(entity.ID, entity.IsA.ID, types.RelIsA))
	}

	for _, node := range nodes {
		switch n := node.(type) {
		case *types.DocumentChunk:
			add(flatNode{
				ID:    n.ID,
				Label: n.Label(),
				Properties: map[string]any{
					"text":        n.Text,
					"chunk_index": n.ChunkIndex,
					"dataset":     n.Dataset,
					"source_id":   n.SourceID,
				},
			})
			for _, entity := range n.Contains {
				addEntity(entity)
				edges = append(edges, structuralEdge(n.ID, entity.ID, types.RelContains))
			}
		case *types.OntologyNode:
			add(flatNode{
				ID:    n.ID,
				Label: n.Label(),
				Properties: map[string]any{
					"name":        n.Name,
					"origin_type": string(n.Origin),
				},
			})
		case *types.Entity:
			addEntity(n)
		case *types.EntityType:
			add(flatNode{
				ID:    n.ID,
				Label: n.Label(),
				Properties: map[string]any{
					"name":        n.Name,
					"type":        n.Type,
					"description": n.Description,
				},
			})
		case *types.Event:
			add(flatNode{
				ID:    n.ID,
				Label: n.Label(),
				Properties: map[string]any{
					"name":        n.Name,
					"description": n.Description,
				},
			})
			for _, rel := range n.Attributes {
				for _, entity := range rel.Entities {
					addEntity(entity)
					edges = append(edges, structuralEdge(n.ID, entity.ID, rel.Relationship))
				}
			}
		}
	}
	return rows, edges
}

func structuralEdge(source, target uuid.UUID, relationship string) types.Edge {
	return types.Edge{
		SourceID:         source,
		TargetID:         target,
		RelationshipName: relationship,
		Properties: types.EdgeProperties{
			RelationshipName: relationship,
			SourceNodeID:     source,
			TargetNodeID:     target,
		},
	}
}
