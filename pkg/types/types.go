package types

import (
	"errors"

	"github.com/google/uuid"
)

// Validation errors
var (
	ErrEmptyText      = errors.New("chunk text cannot be empty")
	ErrEmptyDataset   = errors.New("dataset cannot be empty")
	ErrNilChunk       = errors.New("chunk cannot be nil")
	ErrBatchMismatch  = errors.New("chunks and graphs must have equal length")
	ErrEmptyRelation  = errors.New("relationship name cannot be empty")
	ErrUnknownBackend = errors.New("unknown graph backend")
)

// DocumentChunk is a bounded span of source-document text processed as one
// extraction unit. The expansion engine appends the canonical entities the
// chunk mentions to Contains; downstream indexing and the persistence layer
// read that list.
type DocumentChunk struct {
	ID         uuid.UUID `json:"id"`
	Text       string    `json:"text"`
	ChunkIndex int       `json:"chunk_index"`
	Dataset    string    `json:"dataset"`
	SourceID   string    `json:"source_id,omitempty"`

	// Contains is populated in place by the expansion engine, one entry per
	// mention, even when the same entity was first seen in an earlier chunk.
	Contains []*Entity `json:"contains,omitempty"`
}

// NodeID implements Node.
func (c *DocumentChunk) NodeID() uuid.UUID { return c.ID }

// Label implements Node.
func (c *DocumentChunk) Label() string { return "DocumentChunk" }

// Validate checks the chunk has the fields extraction requires.
func (c *DocumentChunk) Validate() error {
	if c.Text == "" {
		return ErrEmptyText
	}
	if c.Dataset == "" {
		return ErrEmptyDataset
	}
	return nil
}

// ExtractedNode is a node of a per-chunk LLM extraction result. ID and Type
// are free-text labels chosen by the model, not yet globally unique.
type ExtractedNode struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// ExtractedEdge is a relationship of a per-chunk LLM extraction result.
// Source and target reference ExtractedNode IDs local to the same graph.
type ExtractedEdge struct {
	SourceNodeID     string `json:"source_node_id"`
	TargetNodeID     string `json:"target_node_id"`
	RelationshipName string `json:"relationship_name"`
}

// KnowledgeGraph is the shape the LLM extraction call returns for one chunk.
// A nil *KnowledgeGraph means extraction produced nothing for that chunk.
type KnowledgeGraph struct {
	Nodes []ExtractedNode `json:"nodes"`
	Edges []ExtractedEdge `json:"edges"`
}

// ChunkGraphPair binds a chunk to its extraction result. Graph may be nil.
type ChunkGraphPair struct {
	Chunk *DocumentChunk
	Graph *KnowledgeGraph
}
