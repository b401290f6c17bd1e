// Package llm turns chunk text into structured extraction results. The one
// production implementation talks to an OpenAI-compatible endpoint; the
// interfaces exist so the pipeline and its tests can swap in stubs.
package llm

import (
	"context"
	"errors"

	"github.com/cognee-oss/cognee-go/pkg/types"
)

// ErrExtraction marks extraction calls that failed after response cleanup
// and retries. The pipeline treats it as fatal for the chunk's batch.
var ErrExtraction = errors.New("llm extraction failed")

// Client extracts structured knowledge from free text.
type Client interface {
	// ExtractKnowledgeGraph returns the entities and relationships the model
	// found in text. An empty graph is a valid result for contentless text.
	ExtractKnowledgeGraph(ctx context.Context, text string) (*types.KnowledgeGraph, error)

	// ExtractEventAttributes returns entity mentions attached to an event
	// description, for the event-centric extraction path.
	ExtractEventAttributes(ctx context.Context, text string) ([]types.EventAttribute, error)

	Close() error
}
