package cognee

import (
	"context"
	"errors"
	"log/slog"

	"github.com/cognee-oss/cognee-go/pkg/driver"
	"github.com/cognee-oss/cognee-go/pkg/factlog"
	"github.com/cognee-oss/cognee-go/pkg/graph"
	"github.com/cognee-oss/cognee-go/pkg/llm"
	"github.com/cognee-oss/cognee-go/pkg/ontology"
	"github.com/cognee-oss/cognee-go/pkg/types"
)

var (
	// ErrNoDriver is returned by New when no graph driver is supplied.
	ErrNoDriver = errors.New("graph driver is required")
	// ErrNoLLM is returned by New when no extraction client is supplied.
	ErrNoLLM = errors.New("llm client is required")
	// ErrNoInput is returned by Cognify when there is nothing to process.
	ErrNoInput = errors.New("no input texts")
)

// Cognee is the main interface for turning raw text into knowledge graph
// updates.
type Cognee interface {
	// Cognify chunks the given texts, extracts a knowledge graph per chunk,
	// merges the results and persists them. Returns what was stored.
	Cognify(ctx context.Context, dataset string, texts []string, options *CognifyOptions) (*CognifyResult, error)

	// CognifyEvent extracts the entities participating in one described
	// event, attaches them to an Event node and persists it.
	CognifyEvent(ctx context.Context, name, description string) (*types.Event, error)

	// Close releases the underlying driver and extraction client.
	Close(ctx context.Context) error
}

// Config holds configuration for the Client.
type Config struct {
	// ChunkSize bounds chunk length in characters. Zero means
	// DefaultChunkSize.
	ChunkSize int
	// Resolver augments extraction results from an ontology. Nil disables
	// augmentation.
	Resolver ontology.Resolver
	// FactLog records every persisted batch as Parquet. Nil disables the
	// audit trail.
	FactLog *factlog.Writer
	// Logger receives pipeline diagnostics. Nil falls back to slog.Default().
	Logger *slog.Logger
}

// CognifyOptions holds per-call options.
type CognifyOptions struct {
	// SourceID tags every produced chunk with the originating document.
	SourceID string
}

// CognifyResult reports what one Cognify call persisted.
type CognifyResult struct {
	Chunks int
	Nodes  []types.Node
	Edges  []types.Edge
}

// Client is the main implementation of the Cognee interface.
type Client struct {
	driver    driver.GraphDriver
	llm       llm.Client
	expander  *graph.Expander
	factlog   *factlog.Writer
	logger    *slog.Logger
	chunkSize int
}

// New creates a Client from its collaborators.
func New(graphDriver driver.GraphDriver, llmClient llm.Client, cfg Config) (*Client, error) {
	if graphDriver == nil {
		return nil, ErrNoDriver
	}
	if llmClient == nil {
		return nil, ErrNoLLM
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	chunkSize := cfg.ChunkSize
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	return &Client{
		driver:    graphDriver,
		llm:       llmClient,
		expander:  graph.NewExpander(cfg.Resolver, logger),
		factlog:   cfg.FactLog,
		logger:    logger,
		chunkSize: chunkSize,
	}, nil
}

// Close implements Cognee.
func (c *Client) Close(ctx context.Context) error {
	llmErr := c.llm.Close()
	if err := c.driver.Close(ctx); err != nil {
		return err
	}
	return llmErr
}
