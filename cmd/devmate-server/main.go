// Package main provides the entry point for the devmate chat server.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/raphaelgruber/devmate-go/internal/agent"
	"github.com/raphaelgruber/devmate-go/internal/config"
	"github.com/raphaelgruber/devmate-go/internal/llm"
	"github.com/raphaelgruber/devmate-go/internal/metrics"
	"github.com/raphaelgruber/devmate-go/internal/nl2sql"
	"github.com/raphaelgruber/devmate-go/internal/recommend"
	"github.com/raphaelgruber/devmate-go/internal/search"
	"github.com/raphaelgruber/devmate-go/internal/server"
	"github.com/raphaelgruber/devmate-go/internal/session"
	"github.com/raphaelgruber/devmate-go/internal/store"
	"github.com/raphaelgruber/devmate-go/internal/tools"
)

const version = "0.1.0"

func main() {
	// Load configuration
	cfg := config.Load()

	// Setup logger (dual output: stderr text + file JSON)
	logger, cleanup := config.SetupLogger(cfg.LogFile, cfg.LogLevel)
	defer cleanup()

	// Log startup info
	logger.Info("devmate starting",
		"version", version,
		"llm_provider", cfg.LLMProvider,
		"llm_model", cfg.LLMModel,
		"port", cfg.ServerPort,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Connect to database
	db, err := store.New(ctx, store.Config{DSN: cfg.PostgresDSN()}, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func() {
		logger.Info("closing database connection")
		_ = db.Close()
	}()

	// Initialize database schema
	if err := db.InitSchema(ctx); err != nil {
		logger.Error("failed to initialize database schema", "error", err)
		os.Exit(1)
	}

	// Create LLM model
	model, err := llm.New(cfg)
	if err != nil {
		logger.Error("failed to create LLM model", "error", err)
		os.Exit(1)
	}

	// Create semantic search over the persistent vector store
	embedFn, err := search.NewEmbeddingFunc(cfg)
	if err != nil {
		logger.Error("failed to create embedding function", "error", err)
		os.Exit(1)
	}
	searchSvc, err := search.New(cfg.DataDir, embedFn, model, logger)
	if err != nil {
		logger.Error("failed to open vector store", "error", err)
		os.Exit(1)
	}

	// Assemble the agent graph
	collector := metrics.NewCollector()
	registry := tools.NewRegistry(&tools.Dependencies{
		Store:      db,
		Search:     searchSvc,
		Summarizer: model,
		Logger:     logger,
	})
	sqlSvc := nl2sql.NewService(model, nl2sql.NewExecutor(db), logger)
	engine := agent.NewEngine(model, sqlSvc, registry, collector, logger)
	sessions := session.NewManager(db, engine, logger)
	recommender := recommend.NewService(db, model, logger)

	logger.Info("tools registered", "count", len(registry.Names()))

	// Run server (blocks until context cancelled)
	srv := server.New(sessions, db, recommender, collector, cfg.ServerPort, logger)
	if err := srv.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	logger.Info("shutdown complete")
}
