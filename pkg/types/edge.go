package types

import "github.com/google/uuid"

// EdgeProperties travels with every emitted edge so downstream indexing does
// not have to re-derive endpoints from the tuple.
type EdgeProperties struct {
	RelationshipName string    `json:"relationship_name"`
	SourceNodeID     uuid.UUID `json:"source_node_id"`
	TargetNodeID     uuid.UUID `json:"target_node_id"`
	OntologyValid    bool      `json:"ontology_valid"`
}

// Edge is the tuple handed to the persistence layer. Within one expansion
// call no two edges share the same (SourceID, TargetID, RelationshipName).
type Edge struct {
	SourceID         uuid.UUID      `json:"source_id"`
	TargetID         uuid.UUID      `json:"target_id"`
	RelationshipName string         `json:"relationship_name"`
	Properties       EdgeProperties `json:"properties"`
}

// Triple identifies a candidate edge for existence checks against persisted
// storage.
type Triple struct {
	SourceID         uuid.UUID `json:"source_id"`
	TargetID         uuid.UUID `json:"target_id"`
	RelationshipName string    `json:"relationship_name"`
}

// Structural relationship names used by the pre-check step.
const (
	RelContains    = "contains"
	RelExistsIn    = "exists_in"
	RelMentionedIn = "mentioned_in"
	RelIsA         = "is_a"
)
