package ontology

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// DefaultCacheTTL bounds how long a cached subgraph survives. Ontology
// snapshots change rarely, so a generous TTL is fine; restarts with a new
// snapshot should use a fresh cache path.
const DefaultCacheTTL = 24 * time.Hour

// CachedResolver wraps a Resolver with a BadgerDB lookup cache. Resolution
// is deterministic per snapshot, which makes caching sound. Cache failures
// are downgraded to warnings and fall through to the inner resolver; lookup
// errors from the inner resolver are never cached.
type CachedResolver struct {
	inner  Resolver
	db     *badger.DB
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedResolver opens a badger cache at path around inner.
func NewCachedResolver(inner Resolver, path string, logger *slog.Logger) (*CachedResolver, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open ontology cache: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedResolver{inner: inner, db: db, ttl: DefaultCacheTTL, logger: logger}, nil
}

// GetSubgraph implements Resolver.
func (c *CachedResolver) GetSubgraph(ctx context.Context, term string, category Category) (*Subgraph, error) {
	key := cacheKey(term, category)

	if sub, ok := c.lookup(key); ok {
		return sub, nil
	}

	sub, err := c.inner.GetSubgraph(ctx, term, category)
	if err != nil {
		return nil, err
	}
	c.store(key, sub)
	return sub, nil
}

// Close releases the underlying badger database.
func (c *CachedResolver) Close() error {
	return c.db.Close()
}

func cacheKey(term string, category Category) []byte {
	return []byte(string(category) + "\x00" + term)
}

func (c *CachedResolver) lookup(key []byte) (*Subgraph, bool) {
	var raw []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) {
			c.logger.Warn("ontology cache read failed", "error", err)
		}
		return nil, false
	}

	var sub Subgraph
	if err := json.Unmarshal(raw, &sub); err != nil {
		c.logger.Warn("ontology cache entry corrupt", "error", err)
		return nil, false
	}
	return &sub, true
}

func (c *CachedResolver) store(key []byte, sub *Subgraph) {
	raw, err := json.Marshal(sub)
	if err != nil {
		c.logger.Warn("ontology cache encode failed", "error", err)
		return
	}
	err = c.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(key, raw).WithTTL(c.ttl)
		return txn.SetEntry(entry)
	})
	if err != nil {
		c.logger.Warn("ontology cache write failed", "error", err)
	}
}
