package graph

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/cognee-oss/cognee-go/pkg/driver"
	"github.com/cognee-oss/cognee-go/pkg/identity"
	"github.com/cognee-oss/cognee-go/pkg/types"
)

// RetrieveExistingEdges computes which structural and extracted edges of a
// batch already exist in persisted storage, producing the seen-set the
// expansion call consumes. For every extracted node the three structural
// candidates are derived the first time its type or entity id appears in
// the batch:
//
//	(chunk, type, exists_in)
//	(chunk, entity, mentioned_in)
//	(entity, type, is_a)
//
// plus, for every extracted edge, the (target, source, relationship) triple
// with endpoints deliberately reversed, matching the stored direction of
// relationship edges. All candidates go to the oracle in a single batch.
//
// Oracle failures are not recoverable here: without existence information
// the expansion cannot tell new edges from re-emissions, so the error
// propagates wrapped in driver.ErrEdgeOracle.
func RetrieveExistingEdges(ctx context.Context, pairs []types.ChunkGraphPair, oracle driver.EdgeOracle) (EdgeSet, error) {
	processed := make(map[uuid.UUID]bool)
	var candidates []types.Triple

	for _, pair := range pairs {
		if pair.Graph == nil {
			continue
		}
		for _, node := range pair.Graph.Nodes {
			typeID := identity.GenerateID(node.Type)
			entityID := identity.GenerateID(node.ID)

			if !processed[typeID] {
				processed[typeID] = true
				candidates = append(candidates, types.Triple{
					SourceID:         pair.Chunk.ID,
					TargetID:         typeID,
					RelationshipName: types.RelExistsIn,
				})
			}
			if !processed[entityID] {
				processed[entityID] = true
				candidates = append(candidates,
					types.Triple{
						SourceID:         pair.Chunk.ID,
						TargetID:         entityID,
						RelationshipName: types.RelMentionedIn,
					},
					types.Triple{
						SourceID:         entityID,
						TargetID:         typeID,
						RelationshipName: types.RelIsA,
					},
				)
			}
		}
		for _, edge := range pair.Graph.Edges {
			candidates = append(candidates, types.Triple{
				SourceID:         identity.GenerateID(edge.TargetNodeID),
				TargetID:         identity.GenerateID(edge.SourceNodeID),
				RelationshipName: identity.NormalizeRelationship(edge.RelationshipName),
			})
		}
	}

	existing, err := oracle.HasEdges(ctx, candidates)
	if err != nil {
		if !errors.Is(err, driver.ErrEdgeOracle) {
			err = fmt.Errorf("%w: %v", driver.ErrEdgeOracle, err)
		}
		return nil, err
	}

	seen := NewEdgeSet()
	for _, triple := range existing {
		seen.Add(TripleKey(triple))
	}
	return seen, nil
}
