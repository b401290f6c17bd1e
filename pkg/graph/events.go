package graph

import (
	"fmt"

	"github.com/cognee-oss/cognee-go/pkg/identity"
	"github.com/cognee-oss/cognee-go/pkg/types"
)

// AddEntitiesToEvent attaches extracted entity attributes to an event node.
// This is the event-centric counterpart of chunk expansion: entities hang
// off the event through named relations instead of a Contains list. Entity
// types are cached per call so repeated attribute types share one node;
// entity ids derive from the entity name since event attributes carry no
// separate raw extraction id.
func AddEntitiesToEvent(event *types.Event, attributes []types.EventAttribute) {
	if event == nil || len(attributes) == 0 {
		return
	}

	entityTypes := make(map[string]*types.EntityType)

	for _, attr := range attributes {
		entityType := getOrCreateEntityType(entityTypes, attr.EntityType)

		entity := &types.Entity{
			ID:          identity.GenerateID(attr.Entity),
			Name:        identity.NormalizeName(attr.Entity),
			IsA:         entityType,
			Description: fmt.Sprintf("Entity %s of type %s", attr.Entity, attr.EntityType),
		}

		event.Attributes = append(event.Attributes, types.EventRelation{
			Relationship: attr.Relationship,
			Entities:     []*types.Entity{entity},
		})
	}
}

func getOrCreateEntityType(cache map[string]*types.EntityType, rawType string) *types.EntityType {
	if existing, ok := cache[rawType]; ok {
		return existing
	}

	typeName := identity.NormalizeName(rawType)
	entityType := &types.EntityType{
		ID:          identity.GenerateID(rawType),
		Name:        typeName,
		Type:        typeName,
		Description: fmt.Sprintf("Type for %s", rawType),
	}
	cache[rawType] = entityType
	return entityType
}
