package graph

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/cognee-oss/cognee-go/pkg/identity"
	"github.com/cognee-oss/cognee-go/pkg/ontology"
	"github.com/cognee-oss/cognee-go/pkg/types"
)

// Expander merges per-chunk extracted graphs into a deduplicated node and
// edge set. Collaborators are injected per instance; an Expander is safe to
// reuse across calls but a single call must not be shared across goroutines
// through the same EdgeSet.
type Expander struct {
	resolver ontology.Resolver
	logger   *slog.Logger
}

// NewExpander creates an Expander. A nil resolver disables ontology
// augmentation entirely; a nil logger falls back to slog.Default().
func NewExpander(resolver ontology.Resolver, logger *slog.Logger) *Expander {
	if logger == nil {
		logger = slog.Default()
	}
	return &Expander{resolver: resolver, logger: logger}
}

// Expansion is the result of one expansion call.
type Expansion struct {
	// Nodes holds every input chunk (with Contains populated in place)
	// followed by the ontology nodes created during the call. Entities and
	// entity types reach storage through the chunks' Contains lists.
	Nodes []types.Node
	// Edges holds the extracted relationship edges followed by the ontology
	// edges, in deterministic creation order.
	Edges []types.Edge
	// Seen is the updated edge-key set: the input set plus every key
	// emitted by this call. Thread it into any subsequent call to keep
	// suppression semantics across batches.
	Seen EdgeSet
}

// Expand runs the expansion over chunk/graph pairs without mutating the
// caller's seen set: the returned Expansion carries the updated copy.
// Pairs with a nil graph contribute nothing and their chunks keep their
// Contains lists untouched.
func (e *Expander) Expand(ctx context.Context, pairs []types.ChunkGraphPair, seen EdgeSet) (*Expansion, error) {
	updated := seen.Clone()
	nodes, edges, err := e.run(ctx, pairs, updated)
	if err != nil {
		return nil, err
	}
	return &Expansion{Nodes: nodes, Edges: edges, Seen: updated}, nil
}

// ExpandShared is the shared-accumulator variant: seen is used as a
// write-through filter and mutated in place, matching callers that hold one
// map across the pre-check and the expansion. A nil seen behaves like an
// empty set that is discarded afterwards.
func (e *Expander) ExpandShared(ctx context.Context, pairs []types.ChunkGraphPair, seen EdgeSet) ([]types.Node, []types.Edge, error) {
	if seen == nil {
		seen = NewEdgeSet()
	}
	return e.run(ctx, pairs, seen)
}

// expansionState carries the per-call maps. They die with the call: there is
// no identity cache across expansion calls, persistence-level dedup happens
// downstream via MERGE-by-id.
type expansionState struct {
	expander *Expander
	seen     EdgeSet

	typeNodes   map[uuid.UUID]*types.EntityType
	entityNodes map[uuid.UUID]*types.Entity

	ontologyNodes map[uuid.UUID]*types.OntologyNode
	ontologyOrder []*types.OntologyNode

	relationships         []types.Edge
	ontologyRelationships []types.Edge
}

func (e *Expander) run(ctx context.Context, pairs []types.ChunkGraphPair, seen EdgeSet) ([]types.Node, []types.Edge, error) {
	state := &expansionState{
		expander:      e,
		seen:          seen,
		typeNodes:     make(map[uuid.UUID]*types.EntityType),
		entityNodes:   make(map[uuid.UUID]*types.Entity),
		ontologyNodes: make(map[uuid.UUID]*types.OntologyNode),
	}

	for _, pair := range pairs {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		if pair.Graph == nil {
			continue
		}
		state.processNodes(ctx, pair.Chunk, pair.Graph)
		state.processEdges(pair.Graph)
	}

	nodes := make([]types.Node, 0, len(pairs)+len(state.ontologyOrder))
	for _, pair := range pairs {
		nodes = append(nodes, pair.Chunk)
	}
	for _, ont := range state.ontologyOrder {
		nodes = append(nodes, ont)
	}

	edges := make([]types.Edge, 0, len(state.relationships)+len(state.ontologyRelationships))
	edges = append(edges, state.relationships...)
	edges = append(edges, state.ontologyRelationships...)

	return nodes, edges, nil
}

// processNodes resolves every extracted node of one chunk into canonical
// type and entity nodes and appends each resolved entity to the chunk's
// Contains list, one entry per mention.
func (s *expansionState) processNodes(ctx context.Context, chunk *types.DocumentChunk, graph *types.KnowledgeGraph) {
	for _, node := range graph.Nodes {
		typeNode := s.resolveType(ctx, node.Type)
		entity := s.resolveEntity(ctx, node, typeNode)
		chunk.Contains = append(chunk.Contains, entity)
	}
}

// resolveType returns the canonical EntityType for a raw type label,
// creating it and splicing its ontology ancestors exactly once per distinct
// type id per call.
func (s *expansionState) resolveType(ctx context.Context, rawType string) *types.EntityType {
	typeID := identity.GenerateID(rawType)
	if existing, ok := s.typeNodes[typeID]; ok {
		return existing
	}

	typeName := identity.NormalizeName(rawType)
	typeNode := &types.EntityType{
		ID:   typeID,
		Name: typeName,
		Type: typeName,
		// The type's own name doubles as its description.
		Description: typeName,
	}
	s.typeNodes[typeID] = typeNode
	s.spliceOntology(ctx, typeName, ontology.Classes)
	return typeNode
}

// resolveEntity returns the canonical Entity for an extracted node. The
// dedup key derives from the raw extraction id, not the display name: two
// differently-named nodes sharing a raw id collapse into one entity, and the
// first occurrence wins.
func (s *expansionState) resolveEntity(ctx context.Context, node types.ExtractedNode, typeNode *types.EntityType) *types.Entity {
	entityID := identity.GenerateID(node.ID)
	if existing, ok := s.entityNodes[entityID]; ok {
		return existing
	}

	entityName := identity.NormalizeName(node.Name)
	entity := &types.Entity{
		ID:          entityID,
		Name:        entityName,
		IsA:         typeNode,
		Description: node.Description,
	}
	s.entityNodes[entityID] = entity
	s.spliceOntology(ctx, entityName, ontology.Individuals)
	return entity
}

// spliceOntology pulls the reachable ontology subgraph for one term into the
// call's node and edge accumulators. Lookup failures are contained here:
// the term simply goes without augmentation and the batch continues.
func (s *expansionState) spliceOntology(ctx context.Context, term string, category ontology.Category) {
	if s.expander.resolver == nil {
		return
	}

	sub, err := s.expander.resolver.GetSubgraph(ctx, term, category)
	if err != nil {
		s.expander.logger.Warn("ontology lookup failed, skipping augmentation",
			"term", term,
			"category", string(category),
			"error", err)
		return
	}
	if sub.Empty() {
		return
	}

	origin := types.OntologyClass
	if category == ontology.Individuals {
		origin = types.OntologyIndividual
	}

	for _, termName := range sub.Terms {
		s.addOntologyNode(termName, origin)
	}
	for _, rel := range sub.Relations {
		s.addOntologyEdge(rel)
	}
}

// addOntologyNode creates an OntologyNode for a term unless the id is
// already claimed in this call, by another ontology node or by an entity or
// type node. One creation instruction per id per call.
func (s *expansionState) addOntologyNode(term string, origin types.OntologyOrigin) {
	id := identity.GenerateID(term)
	if _, ok := s.ontologyNodes[id]; ok {
		return
	}
	if _, ok := s.typeNodes[id]; ok {
		return
	}
	if _, ok := s.entityNodes[id]; ok {
		return
	}

	node := &types.OntologyNode{
		ID:     id,
		Name:   identity.NormalizeName(term),
		Origin: origin,
	}
	s.ontologyNodes[id] = node
	s.ontologyOrder = append(s.ontologyOrder, node)
}

func (s *expansionState) addOntologyEdge(rel ontology.Relation) {
	sourceID := identity.GenerateID(rel.Source)
	targetID := identity.GenerateID(rel.Target)
	relationshipName := identity.NormalizeRelationship(rel.Relationship)

	key := EdgeKey(sourceID, targetID, relationshipName)
	if s.seen.Has(key) {
		return
	}
	s.seen.Add(key)

	s.ontologyRelationships = append(s.ontologyRelationships, types.Edge{
		SourceID:         sourceID,
		TargetID:         targetID,
		RelationshipName: relationshipName,
		Properties: types.EdgeProperties{
			RelationshipName: relationshipName,
			SourceNodeID:     sourceID,
			TargetNodeID:     targetID,
			OntologyValid:    true,
		},
	})
}

// processEdges emits one edge per extracted relationship not yet seen.
// Endpoints are normalized from the raw extraction ids without cross-checking
// the chunk's node list, so an edge referencing an unknown node still comes
// through with a stable id.
func (s *expansionState) processEdges(graph *types.KnowledgeGraph) {
	for _, edge := range graph.Edges {
		sourceID := identity.GenerateID(edge.SourceNodeID)
		targetID := identity.GenerateID(edge.TargetNodeID)
		relationshipName := identity.NormalizeRelationship(edge.RelationshipName)

		key := EdgeKey(sourceID, targetID, relationshipName)
		if s.seen.Has(key) {
			continue
		}
		s.seen.Add(key)

		s.relationships = append(s.relationships, types.Edge{
			SourceID:         sourceID,
			TargetID:         targetID,
			RelationshipName: relationshipName,
			Properties: types.EdgeProperties{
				RelationshipName: relationshipName,
				SourceNodeID:     sourceID,
				TargetNodeID:     targetID,
			},
		})
	}
}
