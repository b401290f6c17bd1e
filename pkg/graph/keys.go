package graph

import (
	"strings"

	"github.com/google/uuid"

	"github.com/cognee-oss/cognee-go/pkg/types"
)

// edgeKeySeparator keeps composite keys unambiguous. UUID strings and
// relationship names never contain it, so distinct triples can never
// concatenate to the same key.
const edgeKeySeparator = "|"

// EdgeKey builds the deduplication key for a candidate edge.
func EdgeKey(source, target uuid.UUID, relationshipName string) string {
	return strings.Join([]string{source.String(), target.String(), relationshipName}, edgeKeySeparator)
}

// TripleKey builds the deduplication key for an existence-check triple.
func TripleKey(t types.Triple) string {
	return EdgeKey(t.SourceID, t.TargetID, t.RelationshipName)
}

// EdgeSet records which edge keys have been emitted or already exist in
// persisted storage. It doubles as the accumulator the expansion engine
// writes through while it works. Not safe for concurrent use.
type EdgeSet map[string]bool

// NewEdgeSet returns an empty set.
func NewEdgeSet() EdgeSet { return make(EdgeSet) }

// Has reports whether key is present.
func (s EdgeSet) Has(key string) bool { return s[key] }

// Add marks key as present.
func (s EdgeSet) Add(key string) { s[key] = true }

// Clone returns an independent copy. A nil receiver clones to an empty set.
func (s EdgeSet) Clone() EdgeSet {
	out := make(EdgeSet, len(s))
	for k := range s {
		out[k] = true
	}
	return out
}
