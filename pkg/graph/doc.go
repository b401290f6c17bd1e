// Package graph implements the expansion and deduplication engine: it takes
// per-chunk LLM-extracted knowledge graphs and merges them into one
// consistent, ontology-augmented set of nodes and edges ready for
// persistence. Identity is deterministic (see pkg/identity), dedup is
// first-seen-wins within a call, and already-persisted edges are suppressed
// through a seen-key set produced by RetrieveExistingEdges.
package graph
