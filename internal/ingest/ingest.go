package ingest

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// indexer is the slice of the search service the ingester needs.
type indexer interface {
	IndexDocument(ctx context.Context, id, content string, metadata map[string]string) error
	IndexLearning(ctx context.Context, id, content string, metadata map[string]string) error
}

// Stats summarizes one ingestion run.
type Stats struct {
	Files    int
	Chunks   int
	Skipped  int
	Failures []string
}

// Service ingests Markdown files into the vector store.
type Service struct {
	search indexer
	cfg    ChunkConfig
	logger *slog.Logger
}

// New creates an ingester using the default chunk configuration.
func New(search indexer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{search: search, cfg: DefaultChunkConfig(), logger: logger}
}

// IngestDir walks dir recursively and indexes every .md file. Files that
// fail to index are recorded in the stats and skipped, so one bad file
// does not abort the run.
func (s *Service) IngestDir(ctx context.Context, dir string) (*Stats, error) {
	stats := &Stats{}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".md") {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			rel = path
		}

		n, err := s.ingestFile(ctx, path, rel)
		if err != nil {
			s.logger.Error("failed to ingest file", "file", rel, "error", err)
			stats.Failures = append(stats.Failures, fmt.Sprintf("%s: %v", rel, err))
			return nil
		}
		if n == 0 {
			stats.Skipped++
			return nil
		}
		stats.Files++
		stats.Chunks += n
		return nil
	})
	if err != nil {
		return stats, fmt.Errorf("walk %s: %w", dir, err)
	}

	s.logger.Info("ingestion complete",
		"dir", dir,
		"files", stats.Files,
		"chunks", stats.Chunks,
		"skipped", stats.Skipped,
		"failures", len(stats.Failures),
	)
	return stats, nil
}

// ingestFile parses, chunks, and indexes one file, returning the number of
// chunks written. Chunk IDs are derived from the relative path so
// re-ingesting a file overwrites its previous chunks.
func (s *Service) ingestFile(ctx context.Context, path, rel string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read file: %w", err)
	}

	doc := Parse(string(raw))
	if strings.TrimSpace(doc.Body) == "" {
		return 0, nil
	}
	if doc.Kind == KindLearning && doc.URL == "" {
		return 0, fmt.Errorf("learning resource %q has no url in frontmatter", rel)
	}

	chunks := Split(doc, s.cfg)
	for _, chunk := range chunks {
		metadata := map[string]string{
			"title":  doc.Title,
			"source": rel,
		}
		if chunk.Section != "" {
			metadata["section"] = chunk.Section
		}
		if doc.URL != "" {
			metadata["url"] = doc.URL
		}
		if len(doc.Tags) > 0 {
			metadata["tags"] = strings.Join(doc.Tags, ",")
		}

		id := fmt.Sprintf("%s#%d", rel, chunk.Position)
		if doc.Kind == KindLearning {
			err = s.search.IndexLearning(ctx, id, chunk.Text, metadata)
		} else {
			err = s.search.IndexDocument(ctx, id, chunk.Text, metadata)
		}
		if err != nil {
			return 0, fmt.Errorf("index chunk %s: %w", id, err)
		}
	}

	s.logger.Debug("ingested file", "file", rel, "kind", doc.Kind, "chunks", len(chunks))
	return len(chunks), nil
}
