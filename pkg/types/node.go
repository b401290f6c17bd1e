package types

import "github.com/google/uuid"

// Node is anything the persistence layer can upsert as a graph node.
// DocumentChunk, Entity, EntityType and OntologyNode all implement it.
type Node interface {
	NodeID() uuid.UUID
	Label() string
}

// EntityType is a graph node representing an entity category. One instance
// exists per distinct normalized type name within an expansion call.
type EntityType struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
}

// NodeID implements Node.
func (t *EntityType) NodeID() uuid.UUID { return t.ID }

// Label implements Node.
func (t *EntityType) Label() string { return "EntityType" }

// Entity is a deduplicated canonical node for a real-world thing. The dedup
// key is the UUID derived from the raw extraction id, so one instance exists
// per distinct raw id within an expansion call.
type Entity struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name"`
	IsA         *EntityType `json:"is_a"`
	Description string      `json:"description"`
}

// NodeID implements Node.
func (e *Entity) NodeID() uuid.UUID { return e.ID }

// Label implements Node.
func (e *Entity) Label() string { return "Entity" }

// OntologyOrigin distinguishes class terms from individual terms pulled in
// from the ontology.
type OntologyOrigin string

const (
	OntologyClass      OntologyOrigin = "class"
	OntologyIndividual OntologyOrigin = "individual"
)

// OntologyNode is a graph node for an ontology term spliced into the batch.
// At most one instance exists per distinct term within an expansion call.
type OntologyNode struct {
	ID     uuid.UUID      `json:"id"`
	Name   string         `json:"name"`
	Origin OntologyOrigin `json:"origin_type"`
}

// NodeID implements Node.
func (o *OntologyNode) NodeID() uuid.UUID { return o.ID }

// Label implements Node.
func (o *OntologyNode) Label() string { return "OntologyNode" }

// Event is a temporal node that carries entity attributes instead of a
// Contains list. Used by the event-centric extraction path.
type Event struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`

	// Attributes is populated by AddEntitiesToEvent: one relation per
	// extracted attribute, in input order.
	Attributes []EventRelation `json:"attributes,omitempty"`
}

// NodeID implements Node.
func (e *Event) NodeID() uuid.UUID { return e.ID }

// Label implements Node.
func (e *Event) Label() string { return "Event" }

// EventRelation links an event to entities through a named relationship.
type EventRelation struct {
	Relationship string    `json:"relationship"`
	Entities     []*Entity `json:"entities"`
}

// EventAttribute is one entity mention attached to an event by the LLM
// event-extraction step.
type EventAttribute struct {
	Entity       string `json:"entity"`
	EntityType   string `json:"entity_type"`
	Relationship string `json:"relationship"`
}
