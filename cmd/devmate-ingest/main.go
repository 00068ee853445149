// Package main provides the entry point for the devmate ingestion tool,
// which loads Markdown documentation and learning resources into the
// vector store the server searches.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/raphaelgruber/devmate-go/internal/config"
	"github.com/raphaelgruber/devmate-go/internal/ingest"
	"github.com/raphaelgruber/devmate-go/internal/llm"
	"github.com/raphaelgruber/devmate-go/internal/search"
)

func main() {
	dir := flag.String("dir", "docs", "directory of Markdown files to ingest")
	flag.Parse()

	cfg := config.Load()
	logger, cleanup := config.SetupLogger(cfg.LogFile, cfg.LogLevel)
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		<-sigCh
		cancel()
	}()

	model, err := llm.New(cfg)
	if err != nil {
		logger.Error("failed to create LLM model", "error", err)
		os.Exit(1)
	}

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

	stats, err := ingest.New(searchSvc, logger).IngestDir(ctx, *dir)
	if err != nil {
		logger.Error("ingestion failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("Ingested %d files (%d chunks), %d skipped, %d failures\n",
		stats.Files, stats.Chunks, stats.Skipped, len(stats.Failures))
	for _, failure := range stats.Failures {
		fmt.Fprintf(os.Stderr, "  %s\n", failure)
	}
	if len(stats.Failures) > 0 {
		os.Exit(1)
	}
}
