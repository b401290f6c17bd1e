package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"github.com/cognee-oss/cognee-go/pkg/types"
)

// BreakerSettings tunes the circuit breaker around an extraction client.
type BreakerSettings struct {
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	ReadyToTripRatio float64
}

// DefaultBreakerSettings trips after 60% failures over at least 3 requests
// and probes again after 30 seconds open.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		MaxRequests:      1,
		Interval:         60 * time.Second,
		Timeout:          30 * time.Second,
		ReadyToTripRatio: 0.6,
	}
}

// BreakerClient wraps a Client with circuit breaking so a failing extraction
// endpoint sheds load instead of stalling every batch on timeouts.
type BreakerClient struct {
	client Client
	cb     *gobreaker.CircuitBreaker
}

// NewBreakerClient wraps client. A nil logger falls back to slog.Default().
func NewBreakerClient(client Client, settings BreakerSettings, logger *slog.Logger) *BreakerClient {
	if logger == nil {
		logger = slog.Default()
	}

	st := gobreaker.Settings{
		Name:        "llm-extraction",
		MaxRequests: settings.MaxRequests,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= settings.ReadyToTripRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("extraction circuit breaker state change",
				"breaker", name,
				"from", from.String(),
				"to", to.String())
		},
	}

	return &BreakerClient{
		client: client,
		cb:     gobreaker.NewCircuitBreaker(st),
	}
}

// ExtractKnowledgeGraph implements Client.
func (b *BreakerClient) ExtractKnowledgeGraph(ctx context.Context, text string) (*types.KnowledgeGraph, error) {
	resp, err := b.cb.Execute(func() (interface{}, error) {
		return b.client.ExtractKnowledgeGraph(ctx, text)
	})
	if err != nil {
		return nil, b.wrap(err)
	}
	return resp.(*types.KnowledgeGraph), nil
}

// ExtractEventAttributes implements Client.
func (b *BreakerClient) ExtractEventAttributes(ctx context.Context, text string) ([]types.EventAttribute, error) {
	resp, err := b.cb.Execute(func() (interface{}, error) {
		return b.client.ExtractEventAttributes(ctx, text)
	})
	if err != nil {
		return nil, b.wrap(err)
	}
	return resp.([]types.EventAttribute), nil
}

// Close implements Client.
func (b *BreakerClient) Close() error { return b.client.Close() }

func (b *BreakerClient) wrap(err error) error {
	switch err {
	case gobreaker.ErrOpenState, gobreaker.ErrTooManyRequests:
		return fmt.Errorf("%w: %v", ErrExtraction, err)
	}
	return err
}
