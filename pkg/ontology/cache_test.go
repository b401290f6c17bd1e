package ontology

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingResolver wraps an inner resolver and counts pass-throughs.
type countingResolver struct {
	inner Resolver
	calls int
	err   error
}

func (c *countingResolver) GetSubgraph(ctx context.Context, term string, category Category) (*Subgraph, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.inner.GetSubgraph(ctx, term, category)
}

func TestCachedResolverHits(t *testing.T) {
	counting := &countingResolver{inner: loadTestResolver(t)}
	cached, err := NewCachedResolver(counting, t.TempDir(), nil)
	require.NoError(t, err)
	defer cached.Close()

	ctx := context.Background()
	first, err := cached.GetSubgraph(ctx, "company", Classes)
	require.NoError(t, err)
	second, err := cached.GetSubgraph(ctx, "company", Classes)
	require.NoError(t, err)

	assert.Equal(t, 1, counting.calls)
	assert.Equal(t, first, second)

	// Same term under the other category is a distinct cache key.
	_, err = cached.GetSubgraph(ctx, "company", Individuals)
	require.NoError(t, err)
	assert.Equal(t, 2, counting.calls)
}

func TestCachedResolverNeverCachesErrors(t *testing.T) {
	counting := &countingResolver{err: errors.New("lookup broke")}
	cached, err := NewCachedResolver(counting, t.TempDir(), nil)
	require.NoError(t, err)
	defer cached.Close()

	ctx := context.Background()
	_, err = cached.GetSubgraph(ctx, "company", Classes)
	require.Error(t, err)
	_, err = cached.GetSubgraph(ctx, "company", Classes)
	require.Error(t, err)

	assert.Equal(t, 2, counting.calls)
}
