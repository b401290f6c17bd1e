// Package ontology provides the bridge between extracted terms and an
// externally supplied taxonomy. The expansion engine consumes it read-only:
// given a type or instance name it returns the reachable ontology subgraph
// as term names plus labeled relations.
package ontology

import (
	"context"
	"errors"
)

// ErrOntologyLookup marks internal lookup or traversal failures (malformed
// ontology, broken parent chains). Callers treat it as fatal for the one
// term being resolved, never for the whole batch. A term that simply has no
// match is not an error: GetSubgraph returns an empty subgraph instead.
var ErrOntologyLookup = errors.New("ontology lookup failed")

// Category selects which side of the ontology a lookup searches.
type Category string

const (
	// Classes resolves type names against the class hierarchy.
	Classes Category = "classes"
	// Individuals resolves entity names against known individuals.
	Individuals Category = "individuals"
)

// Relation is one labeled edge of an ontology subgraph, expressed over raw
// term names.
type Relation struct {
	Source       string
	Relationship string
	Target       string
}

// Subgraph is the result of resolving one term. Terms lists every term name
// reachable from the match, Relations the labeled edges between them, and
// Matched the term the query resolved to. A nil Matched with empty lists
// means the ontology knows nothing about the queried name.
type Subgraph struct {
	Terms     []string
	Relations []Relation
	Matched   *string
}

// Empty reports whether the lookup found nothing.
func (s *Subgraph) Empty() bool {
	return s == nil || (s.Matched == nil && len(s.Terms) == 0 && len(s.Relations) == 0)
}

// Resolver looks up ontology subgraphs for extracted terms. Implementations
// must be deterministic given the same ontology snapshot: the same term and
// category always yield the same subgraph.
type Resolver interface {
	GetSubgraph(ctx context.Context, term string, category Category) (*Subgraph, error)
}
