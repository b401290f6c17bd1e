package driver

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/cognee-oss/cognee-go/pkg/types"
)

// Neo4jDriver implements GraphDriver against a Neo4j (or Bolt-compatible)
// database. Relationships are stored as a single RELATES_TO type with the
// relationship name as a property, so MERGE identity covers the full
// (source, target, relationship_name) triple without dynamic rel types.
type Neo4jDriver struct {
	client   neo4j.DriverWithContext
	database string
}

// NewNeo4jDriver connects to uri with basic auth.
func NewNeo4jDriver(uri, username, password, database string) (*Neo4jDriver, error) {
	client, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("create neo4j driver: %w", err)
	}
	if database == "" {
		database = "neo4j"
	}
	return &Neo4jDriver{client: client, database: database}, nil
}

// AddNodes implements GraphDriver.
func (n *Neo4jDriver) AddNodes(ctx context.Context, nodes []types.Node) error {
	rows, structural := flattenNodes(nodes)
	if len(rows) == 0 && len(structural) == 0 {
		return nil
	}

	session := n.client.NewSession(ctx, neo4j.SessionConfig{DatabaseName: n.database})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		nodeData := make([]map[string]any, 0, len(rows))
		for _, row := range rows {
			props := make(map[string]any, len(row.Properties)+1)
			for k, v := range row.Properties {
				props[k] = v
			}
			props["label"] = row.Label
			nodeData = append(nodeData, map[string]any{
				"id":         row.ID.String(),
				"properties": props,
			})
		}

		query := `
			UNWIND $nodes AS node_data
			MERGE (n:Node {id: node_data.id})
			SET n += node_data.properties
			SET n.updated_at = $updated_at
		`
		if _, err := tx.Run(ctx, query, map[string]any{
			"nodes":      nodeData,
			"updated_at": time.Now().UTC().Format(time.RFC3339),
		}); err != nil {
			return nil, fmt.Errorf("bulk upsert nodes: %w", err)
		}
		return nil, nil
	})
	if err != nil {
		return err
	}
	if len(structural) > 0 {
		return n.AddEdges(ctx, structural)
	}
	return nil
}

// AddEdges implements GraphDriver.
func (n *Neo4jDriver) AddEdges(ctx context.Context, edges []types.Edge) error {
	if len(edges) == 0 {
		return nil
	}

	session := n.client.NewSession(ctx, neo4j.SessionConfig{DatabaseName: n.database})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		edgeData := make([]map[string]any, 0, len(edges))
		for _, edge := range edges {
			edgeData = append(edgeData, map[string]any{
				"source_id":         edge.SourceID.String(),
				"target_id":         edge.TargetID.String(),
				"relationship_name": edge.RelationshipName,
				"ontology_valid":    edge.Properties.OntologyValid,
			})
		}

		query := `
			UNWIND $edges AS edge_data
			MERGE (s:Node {id: edge_data.source_id})
			MERGE (t:Node {id: edge_data.target_id})
			MERGE (s)-[r:RELATES_TO {relationship_name: edge_data.relationship_name}]->(t)
			SET r.source_node_id = edge_data.source_id
			SET r.target_node_id = edge_data.target_id
			SET r.ontology_valid = edge_data.ontology_valid
			SET r.updated_at = $updated_at
		`
		if _, err := tx.Run(ctx, query, map[string]any{
			"edges":      edgeData,
			"updated_at": time.Now().UTC().Format(time.RFC3339),
		}); err != nil {
			return nil, fmt.Errorf("bulk upsert edges: %w", err)
		}
		return nil, nil
	})
	return err
}

// HasEdges implements EdgeOracle. Candidates are checked in one round trip.
func (n *Neo4jDriver) HasEdges(ctx context.Context, candidates []types.Triple) ([]types.Triple, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	session := n.client.NewSession(ctx, neo4j.SessionConfig{DatabaseName: n.database})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		candidateData := make([]map[string]any, 0, len(candidates))
		for _, c := range candidates {
			candidateData = append(candidateData, map[string]any{
				"source_id":         c.SourceID.String(),
				"target_id":         c.TargetID.String(),
				"relationship_name": c.RelationshipName,
			})
		}

		query := `
			UNWIND $candidates AS c
			MATCH (s:Node {id: c.source_id})-[r:RELATES_TO {relationship_name: c.relationship_name}]->(t:Node {id: c.target_id})
			RETURN c.source_id AS source_id, c.target_id AS target_id, c.relationship_name AS relationship_name
		`
		res, err := tx.Run(ctx, query, map[string]any{"candidates": candidateData})
		if err != nil {
			return nil, err
		}

		var existing []types.Triple
		for res.Next(ctx) {
			record := res.Record()
			triple, err := tripleFromRecord(record.AsMap())
			if err != nil {
				return nil, err
			}
			existing = append(existing, triple)
		}
		return existing, res.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEdgeOracle, err)
	}
	return result.([]types.Triple), nil
}

// GetEdges implements GraphDriver.
func (n *Neo4jDriver) GetEdges(ctx context.Context, nodeID uuid.UUID) ([]types.Edge, error) {
	session := n.client.NewSession(ctx, neo4j.SessionConfig{DatabaseName: n.database})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MATCH (s:Node {id: $id})-[r:RELATES_TO]-(t:Node)
			RETURN r.source_node_id AS source_id, r.target_node_id AS target_id,
			       r.relationship_name AS relationship_name, r.ontology_valid AS ontology_valid
		`
		res, err := tx.Run(ctx, query, map[string]any{"id": nodeID.String()})
		if err != nil {
			return nil, err
		}

		var edges []types.Edge
		for res.Next(ctx) {
			record := res.Record().AsMap()
			triple, err := tripleFromRecord(record)
			if err != nil {
				return nil, err
			}
			edge := types.Edge{
				SourceID:         triple.SourceID,
				TargetID:         triple.TargetID,
				RelationshipName: triple.RelationshipName,
				Properties: types.EdgeProperties{
					RelationshipName: triple.RelationshipName,
					SourceNodeID:     triple.SourceID,
					TargetNodeID:     triple.TargetID,
				},
			}
			if valid, ok := record["ontology_valid"].(bool); ok {
				edge.Properties.OntologyValid = valid
			}
			edges = append(edges, edge)
		}
		return edges, res.Err()
	})
	if err != nil {
		return nil, err
	}
	return result.([]types.Edge), nil
}

// GetNeighbors implements GraphDriver.
func (n *Neo4jDriver) GetNeighbors(ctx context.Context, nodeID uuid.UUID) ([]uuid.UUID, error) {
	session := n.client.NewSession(ctx, neo4j.SessionConfig{DatabaseName: n.database})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MATCH (s:Node {id: $id})-[:RELATES_TO]-(t:Node)
			RETURN DISTINCT t.id AS id
		`
		res, err := tx.Run(ctx, query, map[string]any{"id": nodeID.String()})
		if err != nil {
			return nil, err
		}

		var neighbors []uuid.UUID
		for res.Next(ctx) {
			raw, _ := res.Record().Get("id")
			s, ok := raw.(string)
			if !ok {
				continue
			}
			id, err := uuid.Parse(s)
			if err != nil {
				continue
			}
			neighbors = append(neighbors, id)
		}
		return neighbors, res.Err()
	})
	if err != nil {
		return nil, err
	}
	return result.([]uuid.UUID), nil
}

// Provider implements GraphDriver.
func (n *Neo4jDriver) Provider() Backend { return BackendNeo4j }

// Close implements GraphDriver.
func (n *Neo4jDriver) Close(ctx context.Context) error {
	return n.client.Close(ctx)
}

func tripleFromRecord(record map[string]any) (types.Triple, error) {
	var triple types.Triple

	sourceRaw, _ := record["source_id"].(string)
	targetRaw, _ := record["target_id"].(string)
	rel, _ := record["relationship_name"].(string)

	source, err := uuid.Parse(sourceRaw)
	if err != nil {
		return triple, fmt.Errorf("parse source id %q: %w", sourceRaw, err)
	}
	target, err := uuid.Parse(targetRaw)
	if err != nil {
		return triple, fmt.Errorf("parse target id %q: %w", targetRaw, err)
	}

	triple.SourceID = source
	triple.TargetID = target
	triple.RelationshipName = rel
	return triple, nil
}
