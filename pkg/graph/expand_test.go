package graph

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognee-oss/cognee-go/pkg/identity"
	"github.com/cognee-oss/cognee-go/pkg/ontology"
	"github.com/cognee-oss/cognee-go/pkg/types"
)

// stubResolver serves canned subgraphs keyed by "category:term" and records
// every lookup it receives.
type stubResolver struct {
	subgraphs map[string]*ontology.Subgraph
	errs      map[string]error
	calls     []string
}

func (r *stubResolver) GetSubgraph(_ context.Context, term string, category ontology.Category) (*ontology.Subgraph, error) {
	key := string(category) + ":" + term
	r.calls = append(r.calls, key)
	if err, ok := r.errs[key]; ok {
		return nil, err
	}
	if sub, ok := r.subgraphs[key]; ok {
		return sub, nil
	}
	return &ontology.Subgraph{}, nil
}

func newChunk(index int) *types.DocumentChunk {
	return &types.DocumentChunk{
		ID:         uuid.New(),
		Text:       fmt.Sprintf("chunk %d", index),
		ChunkIndex: index,
		Dataset:    "test",
	}
}

func singleGraph(nodes []types.ExtractedNode, edges []types.ExtractedEdge) *types.KnowledgeGraph {
	return &types.KnowledgeGraph{Nodes: nodes, Edges: edges}
}

func TestExpandSharedEntityDedupByRawID(t *testing.T) {
	chunk1 := newChunk(0)
	chunk2 := newChunk(1)

	// Same raw extraction id with conflicting names: first occurrence wins.
	pairs := []types.ChunkGraphPair{
		{Chunk: chunk1, Graph: singleGraph([]types.ExtractedNode{
			{ID: "acme_inc", Name: "Acme Inc", Type: "company", Description: "a company"},
		}, nil)},
		{Chunk: chunk2, Graph: singleGraph([]types.ExtractedNode{
			{ID: "acme_inc", Name: "ACME Incorporated", Type: "company", Description: "other"},
		}, nil)},
	}

	e := NewExpander(nil, nil)
	_, _, err := e.ExpandShared(context.Background(), pairs, nil)
	require.NoError(t, err)

	require.Len(t, chunk1.Contains, 1)
	require.Len(t, chunk2.Contains, 1)
	// Both chunks reference the identical canonical entity instance.
	assert.Same(t, chunk1.Contains[0], chunk2.Contains[0])
	assert.Equal(t, "acme inc", chunk1.Contains[0].Name)
	assert.Equal(t, identity.GenerateID("acme_inc"), chunk1.Contains[0].ID)
}

func TestExpandSharedTypeDedupByName(t *testing.T) {
	chunk := newChunk(0)
	pairs := []types.ChunkGraphPair{
		{Chunk: chunk, Graph: singleGraph([]types.ExtractedNode{
			{ID: "alice", Name: "Alice", Type: "Person"},
			{ID: "bob", Name: "Bob", Type: "person"},
		}, nil)},
	}

	e := NewExpander(nil, nil)
	_, _, err := e.ExpandShared(context.Background(), pairs, nil)
	require.NoError(t, err)

	require.Len(t, chunk.Contains, 2)
	assert.Same(t, chunk.Contains[0].IsA, chunk.Contains[1].IsA)
	assert.Equal(t, "person", chunk.Contains[0].IsA.Name)
	assert.Equal(t, "person", chunk.Contains[0].IsA.Description)
}

func TestExpandSharedNodesAndEdges(t *testing.T) {
	chunk1 := newChunk(0)
	chunk2 := newChunk(1)
	chunk3 := newChunk(2) // extraction produced nothing for this one

	pairs := []types.ChunkGraphPair{
		{Chunk: chunk1, Graph: singleGraph(
			[]types.ExtractedNode{
				{ID: "alice", Name: "Alice", Type: "person"},
				{ID: "acme", Name: "Acme", Type: "company"},
			},
			[]types.ExtractedEdge{
				{SourceNodeID: "alice", TargetNodeID: "acme", RelationshipName: "Works For"},
			},
		)},
		{Chunk: chunk2, Graph: singleGraph(
			[]types.ExtractedNode{
				{ID: "alice", Name: "Alice", Type: "person"},
			},
			[]types.ExtractedEdge{
				// Duplicate of the first chunk's edge, modulo normalization.
				{SourceNodeID: "alice", TargetNodeID: "acme", RelationshipName: "works for"},
			},
		)},
		{Chunk: chunk3, Graph: nil},
	}

	e := NewExpander(nil, nil)
	nodes, edges, err := e.ExpandShared(context.Background(), pairs, nil)
	require.NoError(t, err)

	// Every chunk appears in the node output, nil-graph chunks included.
	require.Len(t, nodes, 3)
	assert.Same(t, chunk1, nodes[0])
	assert.Same(t, chunk2, nodes[1])
	assert.Same(t, chunk3, nodes[2])
	assert.Empty(t, chunk3.Contains)

	// The repeated relationship collapses to one edge.
	require.Len(t, edges, 1)
	assert.Equal(t, identity.GenerateID("alice"), edges[0].SourceID)
	assert.Equal(t, identity.GenerateID("acme"), edges[0].TargetID)
	assert.Equal(t, "works for", edges[0].RelationshipName)
	assert.False(t, edges[0].Properties.OntologyValid)

	// Repeated mention still lands in the second chunk's Contains list.
	require.Len(t, chunk2.Contains, 1)
	assert.Same(t, chunk1.Contains[0], chunk2.Contains[0])
}

func TestExpandSharedSuppressesPreexistingEdges(t *testing.T) {
	chunk := newChunk(0)
	pairs := []types.ChunkGraphPair{
		{Chunk: chunk, Graph: singleGraph(
			[]types.ExtractedNode{
				{ID: "alice", Name: "Alice", Type: "person"},
				{ID: "acme", Name: "Acme", Type: "company"},
			},
			[]types.ExtractedEdge{
				{SourceNodeID: "alice", TargetNodeID: "acme", RelationshipName: "works for"},
				{SourceNodeID: "acme", TargetNodeID: "alice", RelationshipName: "employs"},
			},
		)},
	}

	seen := NewEdgeSet()
	seen.Add(EdgeKey(identity.GenerateID("alice"), identity.GenerateID("acme"), "works for"))

	e := NewExpander(nil, nil)
	_, edges, err := e.ExpandShared(context.Background(), pairs, seen)
	require.NoError(t, err)

	require.Len(t, edges, 1)
	assert.Equal(t, "employs", edges[0].RelationshipName)
	// The shared set accumulated the new key in place.
	assert.True(t, seen.Has(EdgeKey(identity.GenerateID("acme"), identity.GenerateID("alice"), "employs")))
}

func TestExpandDoesNotMutateCallerSeen(t *testing.T) {
	chunk := newChunk(0)
	pairs := []types.ChunkGraphPair{
		{Chunk: chunk, Graph: singleGraph(
			[]types.ExtractedNode{{ID: "alice", Name: "Alice", Type: "person"}},
			[]types.ExtractedEdge{{SourceNodeID: "alice", TargetNodeID: "alice", RelationshipName: "knows"}},
		)},
	}

	seen := NewEdgeSet()
	e := NewExpander(nil, nil)
	result, err := e.Expand(context.Background(), pairs, seen)
	require.NoError(t, err)

	assert.Empty(t, seen)
	assert.Len(t, result.Seen, 1)
	assert.Len(t, result.Edges, 1)
}

func TestExpandMatchesExpandShared(t *testing.T) {
	makePairs := func() []types.ChunkGraphPair {
		return []types.ChunkGraphPair{
			{Chunk: newChunk(0), Graph: singleGraph(
				[]types.ExtractedNode{
					{ID: "alice", Name: "Alice", Type: "person"},
					{ID: "acme", Name: "Acme", Type: "company"},
				},
				[]types.ExtractedEdge{
					{SourceNodeID: "alice", TargetNodeID: "acme", RelationshipName: "works for"},
				},
			)},
		}
	}

	e := NewExpander(nil, nil)

	sharedSeen := NewEdgeSet()
	sharedNodes, sharedEdges, err := e.ExpandShared(context.Background(), makePairs(), sharedSeen)
	require.NoError(t, err)

	result, err := e.Expand(context.Background(), makePairs(), NewEdgeSet())
	require.NoError(t, err)

	assert.Equal(t, sharedEdges, result.Edges)
	assert.Equal(t, sharedSeen, result.Seen)
	assert.Len(t, result.Nodes, len(sharedNodes))
}

func TestExpandSuppressionRoundTrip(t *testing.T) {
	makePairs := func() []types.ChunkGraphPair {
		return []types.ChunkGraphPair{
			{Chunk: newChunk(0), Graph: singleGraph(
				[]types.ExtractedNode{
					{ID: "alice", Name: "Alice", Type: "person"},
					{ID: "acme", Name: "Acme", Type: "company"},
				},
				[]types.ExtractedEdge{
					{SourceNodeID: "alice", TargetNodeID: "acme", RelationshipName: "works for"},
					{SourceNodeID: "acme", TargetNodeID: "alice", RelationshipName: "employs"},
				},
			)},
		}
	}

	e := NewExpander(nil, nil)
	ctx := context.Background()

	first, err := e.Expand(ctx, makePairs(), nil)
	require.NoError(t, err)
	require.Len(t, first.Edges, 2)

	// Feeding the first call's seen-set back suppresses every edge.
	second, err := e.Expand(ctx, makePairs(), first.Seen)
	require.NoError(t, err)
	assert.Empty(t, second.Edges)
	assert.Equal(t, first.Seen, second.Seen)
}

func TestExpandSharedOntologyAugmentation(t *testing.T) {
	company := "company"
	resolver := &stubResolver{
		subgraphs: map[string]*ontology.Subgraph{
			"classes:company": {
				Terms:   []string{"company", "organization"},
				Matched: &company,
				Relations: []ontology.Relation{
					{Source: "company", Relationship: "is_a", Target: "organization"},
				},
			},
		},
	}

	chunk := newChunk(0)
	pairs := []types.ChunkGraphPair{
		{Chunk: chunk, Graph: singleGraph([]types.ExtractedNode{
			{ID: "acme", Name: "Acme", Type: "company"},
			{ID: "globex", Name: "Globex", Type: "company"},
		}, nil)},
	}

	e := NewExpander(resolver, nil)
	nodes, edges, err := e.ExpandShared(context.Background(), pairs, nil)
	require.NoError(t, err)

	// One class lookup for the shared type, one individual lookup per entity.
	assert.Equal(t, []string{
		"classes:company",
		"individuals:acme",
		"individuals:globex",
	}, resolver.calls)

	// "company" is already claimed by the EntityType, so only "organization"
	// materializes as an ontology node, after the chunk.
	require.Len(t, nodes, 2)
	ont, ok := nodes[1].(*types.OntologyNode)
	require.True(t, ok)
	assert.Equal(t, "organization", ont.Name)
	assert.Equal(t, types.OntologyClass, ont.Origin)
	assert.Equal(t, identity.GenerateID("organization"), ont.ID)

	require.Len(t, edges, 1)
	assert.Equal(t, identity.GenerateID("company"), edges[0].SourceID)
	assert.Equal(t, identity.GenerateID("organization"), edges[0].TargetID)
	assert.Equal(t, "is_a", edges[0].RelationshipName)
	assert.True(t, edges[0].Properties.OntologyValid)
}

func TestExpandSharedOntologyFailureIsolated(t *testing.T) {
	resolver := &stubResolver{
		errs: map[string]error{
			"classes:person": fmt.Errorf("%w: broken hierarchy", ontology.ErrOntologyLookup),
		},
	}

	chunk := newChunk(0)
	pairs := []types.ChunkGraphPair{
		{Chunk: chunk, Graph: singleGraph([]types.ExtractedNode{
			{ID: "alice", Name: "Alice", Type: "person"},
		}, nil)},
	}

	e := NewExpander(resolver, nil)
	nodes, edges, err := e.ExpandShared(context.Background(), pairs, nil)

	// A failed lookup skips augmentation for that term, nothing more.
	require.NoError(t, err)
	assert.Len(t, nodes, 1)
	assert.Empty(t, edges)
	require.Len(t, chunk.Contains, 1)
	assert.Equal(t, "alice", chunk.Contains[0].Name)
}

func TestExpandSharedEmptyLabels(t *testing.T) {
	chunk := newChunk(0)
	pairs := []types.ChunkGraphPair{
		{Chunk: chunk, Graph: singleGraph([]types.ExtractedNode{
			{ID: "", Name: "", Type: ""},
		}, nil)},
	}

	e := NewExpander(nil, nil)
	_, _, err := e.ExpandShared(context.Background(), pairs, nil)
	require.NoError(t, err)

	// Empty labels still produce stable ids rather than being rejected.
	require.Len(t, chunk.Contains, 1)
	assert.Equal(t, identity.GenerateID(""), chunk.Contains[0].ID)
	assert.Equal(t, identity.GenerateID(""), chunk.Contains[0].IsA.ID)
}

func TestExpandCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := NewExpander(nil, nil)
	pairs := []types.ChunkGraphPair{{Chunk: newChunk(0), Graph: singleGraph(nil, nil)}}
	_, err := e.Expand(ctx, pairs, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
