package main

import (
	"fmt"
	"log/slog"
	"time"

	cognee "github.com/cognee-oss/cognee-go"
	"github.com/cognee-oss/cognee-go/pkg/config"
	"github.com/cognee-oss/cognee-go/pkg/driver"
	"github.com/cognee-oss/cognee-go/pkg/factlog"
	"github.com/cognee-oss/cognee-go/pkg/llm"
	"github.com/cognee-oss/cognee-go/pkg/ontology"
	"github.com/cognee-oss/cognee-go/pkg/types"
)

// buildClient assembles a cognee.Client from loaded configuration.
func buildClient(cfg *config.Config, log *slog.Logger) (*cognee.Client, error) {
	graphDriver, err := buildDriver(cfg)
	if err != nil {
		return nil, err
	}

	llmClient := buildLLM(cfg, log)

	resolver, err := buildResolver(cfg, log)
	if err != nil {
		return nil, err
	}

	var auditLog *factlog.Writer
	if cfg.FactLog.Enabled {
		auditLog, err = factlog.NewWriter(cfg.FactLog.Path)
		if err != nil {
			return nil, fmt.Errorf("opening factlog: %w", err)
		}
	}

	return cognee.New(graphDriver, llmClient, cognee.Config{
		Resolver: resolver,
		FactLog:  auditLog,
		Logger:   log,
	})
}

func buildDriver(cfg *config.Config) (driver.GraphDriver, error) {
	switch driver.Backend(cfg.Database.Backend) {
	case driver.BackendNeo4j:
		return driver.NewNeo4jDriver(
			cfg.Database.URI,
			cfg.Database.Username,
			cfg.Database.Password,
			cfg.Database.Database,
		)
	case driver.BackendMemory:
		return driver.NewMemoryDriver(), nil
	}
	return nil, fmt.Errorf("%w: %q", types.ErrUnknownBackend, cfg.Database.Backend)
}

func buildLLM(cfg *config.Config, log *slog.Logger) llm.Client {
	var client llm.Client = llm.NewOpenAIClient(llm.OpenAIOptions{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Logger:      log,
	})

	if cfg.CircuitBreaker.Enabled {
		settings := llm.BreakerSettings{
			MaxRequests:      cfg.CircuitBreaker.MaxRequests,
			Interval:         time.Duration(cfg.CircuitBreaker.Interval) * time.Second,
			Timeout:          time.Duration(cfg.CircuitBreaker.Timeout) * time.Second,
			ReadyToTripRatio: cfg.CircuitBreaker.ReadyToTripRatio,
		}
		client = llm.NewBreakerClient(client, settings, log)
	}
	return client
}

func buildResolver(cfg *config.Config, log *slog.Logger) (ontology.Resolver, error) {
	if cfg.Ontology.SnapshotPath == "" {
		return nil, nil
	}

	snapshot, err := ontology.LoadSnapshot(cfg.Ontology.SnapshotPath)
	if err != nil {
		return nil, fmt.Errorf("loading ontology snapshot: %w", err)
	}

	if !cfg.Ontology.CacheEnabled {
		return snapshot, nil
	}
	return ontology.NewCachedResolver(snapshot, cfg.Ontology.CachePath, log)
}
