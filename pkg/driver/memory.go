package driver

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/cognee-oss/cognee-go/pkg/types"
)

// MemoryDriver is an in-process GraphDriver used in tests and examples.
// It honors the same MERGE semantics as the real backends.
type MemoryDriver struct {
	mu    sync.RWMutex
	nodes map[uuid.UUID]flatNode
	edges map[tripleKey]types.Edge
}

type tripleKey struct {
	source       uuid.UUID
	target       uuid.UUID
	relationship string
}

// NewMemoryDriver creates an empty in-memory graph.
func NewMemoryDriver() *MemoryDriver {
	return &MemoryDriver{
		nodes: make(map[uuid.UUID]flatNode),
		edges: make(map[tripleKey]types.Edge),
	}
}

// AddNodes implements GraphDriver.
func (m *MemoryDriver) AddNodes(ctx context.Context, nodes []types.Node) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	rows, structural := flattenNodes(nodes)

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range rows {
		m.nodes[row.ID] = row
	}
	for _, edge := range structural {
		m.storeEdge(edge)
	}
	return nil
}

// AddEdges implements GraphDriver.
func (m *MemoryDriver) AddEdges(ctx context.Context, edges []types.Edge) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, edge := range edges {
		m.storeEdge(edge)
	}
	return nil
}

func (m *MemoryDriver) storeEdge(edge types.Edge) {
	m.edges[tripleKey{edge.SourceID, edge.TargetID, edge.RelationshipName}] = edge
}

// HasEdges implements EdgeOracle.
func (m *MemoryDriver) HasEdges(ctx context.Context, candidates []types.Triple) ([]types.Triple, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var existing []types.Triple
	for _, c := range candidates {
		if _, ok := m.edges[tripleKey{c.SourceID, c.TargetID, c.RelationshipName}]; ok {
			existing = append(existing, c)
		}
	}
	return existing, nil
}

// GetEdges implements GraphDriver.
func (m *MemoryDriver) GetEdges(ctx context.Context, nodeID uuid.UUID) ([]types.Edge, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var edges []types.Edge
	for key, edge := range m.edges {
		if key.source == nodeID || key.target == nodeID {
			edges = append(edges, edge)
		}
	}
	return edges, nil
}

// GetNeighbors implements GraphDriver.
func (m *MemoryDriver) GetNeighbors(ctx context.Context, nodeID uuid.UUID) ([]uuid.UUID, error) {
	edges, err := m.GetEdges(ctx, nodeID)
	if err != nil {
		return nil, err
	}
	seen := make(map[uuid.UUID]bool)
	var neighbors []uuid.UUID
	for _, edge := range edges {
		other := edge.TargetID
		if other == nodeID {
			other = edge.SourceID
		}
		if !seen[other] {
			seen[other] = true
			neighbors = append(neighbors, other)
		}
	}
	return neighbors, nil
}

// NodeCount reports how many nodes are stored. Test helper.
func (m *MemoryDriver) NodeCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.nodes)
}

// EdgeCount reports how many edges are stored. Test helper.
func (m *MemoryDriver) EdgeCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.edges)
}

// HasNode reports whether a node with the given id is stored. Test helper.
func (m *MemoryDriver) HasNode(id uuid.UUID) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.nodes[id]
	return ok
}

// Provider implements GraphDriver.
func (m *MemoryDriver) Provider() Backend { return BackendMemory }

// Close implements GraphDriver.
func (m *MemoryDriver) Close(ctx context.Context) error { return nil }
