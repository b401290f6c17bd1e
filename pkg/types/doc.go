// Package types defines the core data model shared across cognee-go:
// document chunks, LLM-extracted knowledge graphs, canonical entity and
// entity-type nodes, ontology nodes, and the edge tuples handed to the
// persistence layer.
package types
