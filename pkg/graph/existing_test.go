package graph

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognee-oss/cognee-go/pkg/driver"
	"github.com/cognee-oss/cognee-go/pkg/identity"
	"github.com/cognee-oss/cognee-go/pkg/types"
)

// stubOracle records the candidate batch it receives and answers with a
// fixed subset (or a fixed error).
type stubOracle struct {
	received []types.Triple
	existing []types.Triple
	err      error
}

func (o *stubOracle) HasEdges(_ context.Context, candidates []types.Triple) ([]types.Triple, error) {
	o.received = candidates
	if o.err != nil {
		return nil, o.err
	}
	return o.existing, nil
}

func TestRetrieveExistingEdgesCandidates(t *testing.T) {
	chunk := newChunk(0)
	pairs := []types.ChunkGraphPair{
		{Chunk: chunk, Graph: singleGraph(
			[]types.ExtractedNode{
				{ID: "alice", Name: "Alice", Type: "person"},
				{ID: "bob", Name: "Bob", Type: "person"},
			},
			[]types.ExtractedEdge{
				{SourceNodeID: "alice", TargetNodeID: "bob", RelationshipName: "knows"},
			},
		)},
	}

	oracle := &stubOracle{}
	_, err := RetrieveExistingEdges(context.Background(), pairs, oracle)
	require.NoError(t, err)

	personID := identity.GenerateID("person")
	aliceID := identity.GenerateID("alice")
	bobID := identity.GenerateID("bob")

	// First node contributes all three structural candidates; the second
	// shares the type, so only its entity-keyed pair is added. The extracted
	// edge candidate is endpoint-reversed to match stored direction.
	assert.Equal(t, []types.Triple{
		{SourceID: chunk.ID, TargetID: personID, RelationshipName: types.RelExistsIn},
		{SourceID: chunk.ID, TargetID: aliceID, RelationshipName: types.RelMentionedIn},
		{SourceID: aliceID, TargetID: personID, RelationshipName: types.RelIsA},
		{SourceID: chunk.ID, TargetID: bobID, RelationshipName: types.RelMentionedIn},
		{SourceID: bobID, TargetID: personID, RelationshipName: types.RelIsA},
		{SourceID: bobID, TargetID: aliceID, RelationshipName: "knows"},
	}, oracle.received)
}

func TestRetrieveExistingEdgesSeenSet(t *testing.T) {
	chunk := newChunk(0)
	aliceID := identity.GenerateID("alice")
	pairs := []types.ChunkGraphPair{
		{Chunk: chunk, Graph: singleGraph(
			[]types.ExtractedNode{{ID: "alice", Name: "Alice", Type: "person"}},
			nil,
		)},
	}

	oracle := &stubOracle{
		existing: []types.Triple{
			{SourceID: chunk.ID, TargetID: aliceID, RelationshipName: types.RelMentionedIn},
		},
	}
	seen, err := RetrieveExistingEdges(context.Background(), pairs, oracle)
	require.NoError(t, err)

	assert.Len(t, seen, 1)
	assert.True(t, seen.Has(EdgeKey(chunk.ID, aliceID, types.RelMentionedIn)))
}

func TestRetrieveExistingEdgesNilGraphs(t *testing.T) {
	pairs := []types.ChunkGraphPair{
		{Chunk: newChunk(0), Graph: nil},
		{Chunk: newChunk(1), Graph: nil},
	}

	oracle := &stubOracle{}
	seen, err := RetrieveExistingEdges(context.Background(), pairs, oracle)
	require.NoError(t, err)
	assert.Empty(t, seen)
	assert.Empty(t, oracle.received)
}

func TestRetrieveExistingEdgesOracleFailure(t *testing.T) {
	pairs := []types.ChunkGraphPair{
		{Chunk: newChunk(0), Graph: singleGraph(
			[]types.ExtractedNode{{ID: "alice", Name: "Alice", Type: "person"}},
			nil,
		)},
	}

	oracle := &stubOracle{err: errors.New("connection refused")}
	seen, err := RetrieveExistingEdges(context.Background(), pairs, oracle)

	assert.Nil(t, seen)
	assert.ErrorIs(t, err, driver.ErrEdgeOracle)
}
