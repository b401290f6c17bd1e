package driver

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognee-oss/cognee-go/pkg/identity"
	"github.com/cognee-oss/cognee-go/pkg/types"
)

func chunkWithEntities() *types.DocumentChunk {
	personType := &types.EntityType{
		ID:   identity.GenerateID("person"),
		Name: "person",
		Type: "person",
	}
	return &types.DocumentChunk{
		ID:      uuid.New(),
		Text:    "Alice knows Bob.",
		Dataset: "test",
		Contains: []*types.Entity{
			{ID: identity.GenerateID("alice"), Name: "alice", IsA: personType},
			{ID: identity.GenerateID("bob"), Name: "bob", IsA: personType},
		},
	}
}

func TestMemoryDriverAddNodesWalksChunks(t *testing.T) {
	m := NewMemoryDriver()
	chunk := chunkWithEntities()

	require.NoError(t, m.AddNodes(context.Background(), []types.Node{chunk}))

	// Chunk, two entities, one shared type.
	assert.Equal(t, 4, m.NodeCount())
	assert.True(t, m.HasNode(chunk.ID))
	assert.True(t, m.HasNode(identity.GenerateID("alice")))
	assert.True(t, m.HasNode(identity.GenerateID("person")))

	// Two contains edges plus two is_a edges.
	assert.Equal(t, 4, m.EdgeCount())
}

func TestMemoryDriverMergeSemantics(t *testing.T) {
	m := NewMemoryDriver()
	ctx := context.Background()

	require.NoError(t, m.AddNodes(ctx, []types.Node{chunkWithEntities()}))
	before := m.NodeCount()

	// Re-adding the same identities must not duplicate. The chunk id differs
	// per call here, so exactly one new node appears.
	require.NoError(t, m.AddNodes(ctx, []types.Node{chunkWithEntities()}))
	assert.Equal(t, before+1, m.NodeCount())
}

func TestMemoryDriverHasEdges(t *testing.T) {
	m := NewMemoryDriver()
	ctx := context.Background()

	a, b, c := uuid.New(), uuid.New(), uuid.New()
	require.NoError(t, m.AddEdges(ctx, []types.Edge{
		{SourceID: a, TargetID: b, RelationshipName: "knows"},
	}))

	existing, err := m.HasEdges(ctx, []types.Triple{
		{SourceID: a, TargetID: b, RelationshipName: "knows"},
		{SourceID: b, TargetID: a, RelationshipName: "knows"},
		{SourceID: a, TargetID: c, RelationshipName: "knows"},
	})
	require.NoError(t, err)
	require.Len(t, existing, 1)
	assert.Equal(t, a, existing[0].SourceID)
	assert.Equal(t, b, existing[0].TargetID)

	// Direction and relationship name are part of edge identity.
	existing, err = m.HasEdges(ctx, []types.Triple{
		{SourceID: a, TargetID: b, RelationshipName: "employs"},
	})
	require.NoError(t, err)
	assert.Empty(t, existing)
}

func TestMemoryDriverNeighbors(t *testing.T) {
	m := NewMemoryDriver()
	ctx := context.Background()

	a, b, c := uuid.New(), uuid.New(), uuid.New()
	require.NoError(t, m.AddEdges(ctx, []types.Edge{
		{SourceID: a, TargetID: b, RelationshipName: "knows"},
		{SourceID: c, TargetID: a, RelationshipName: "employs"},
	}))

	neighbors, err := m.GetNeighbors(ctx, a)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{b, c}, neighbors)

	edges, err := m.GetEdges(ctx, b)
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, "knows", edges[0].RelationshipName)
}
