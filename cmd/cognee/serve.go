package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cognee-oss/cognee-go/pkg/config"
	"github.com/cognee-oss/cognee-go/pkg/logger"
	"github.com/cognee-oss/cognee-go/pkg/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the cognee HTTP server",
	Long: `Start the cognee HTTP server to expose the cognify pipeline over REST.

The server provides endpoints for:
- Ingesting documents into the knowledge graph (POST /api/v1/cognify)
- Ingesting events (POST /api/v1/events)
- Health checks (GET /health)`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("host", "localhost", "Server host")
	serveCmd.Flags().Int("port", 8080, "Server port")
	serveCmd.Flags().String("mode", "release", "Server mode (debug, release, test)")
	serveCmd.Flags().String("db-backend", "", "Graph backend (neo4j, memory)")
	serveCmd.Flags().String("db-uri", "", "Graph database URI")
	serveCmd.Flags().String("ontology", "", "Path to the ontology snapshot YAML")

	viper.BindPFlag("server.host", serveCmd.Flags().Lookup("host"))
	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	viper.BindPFlag("server.mode", serveCmd.Flags().Lookup("mode"))
	viper.BindPFlag("database.backend", serveCmd.Flags().Lookup("db-backend"))
	viper.BindPFlag("database.uri", serveCmd.Flags().Lookup("db-uri"))
	viper.BindPFlag("ontology.snapshot_path", serveCmd.Flags().Lookup("ontology"))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	client, err := buildClient(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize cognee: %w", err)
	}

	srv := server.New(cfg, client, log)
	srv.Setup()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			serverErrChan <- err
		}
	}()

	select {
	case err := <-serverErrChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		log.Info("received shutdown signal", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	return client.Close(shutdownCtx)
}
