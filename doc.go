// Package cognee builds deduplicated, ontology-augmented knowledge graphs
// from raw text. Text is chunked, each chunk goes through LLM extraction,
// and the per-chunk graphs are merged into one consistent property graph:
// entities and entity types get deterministic name-based identities, edges
// already persisted are suppressed, and terms known to a configured ontology
// pull their surrounding taxonomy into the result.
//
// The Client type wires the pieces together; the packages under pkg/ expose
// the individual stages for callers that need finer control.
package cognee
