// Package search provides semantic retrieval over documentation and curated
// learnings, backed by a persistent chromem vector store.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	chromem "github.com/philippgille/chromem-go"
)

const (
	docCollection      = "documentation"
	learningCollection = "learnings"

	// Retrieval depths mirror the retriever configuration the prompts were
	// tuned against: docs are broad, learnings are narrow.
	docTopK      = 5
	learningTopK = 3
)

// answerer synthesizes a natural-language answer from retrieved context.
// Satisfied by *llm.Model.
type answerer interface {
	GenerateWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Service wraps chromem-go with one collection per corpus and an LLM-backed
// answer-synthesis step.
type Service struct {
	mu      sync.RWMutex
	db      *chromem.DB
	embedFn chromem.EmbeddingFunc
	llm     answerer
	logger  *slog.Logger
}

// New creates (or opens) the persistent vector store at dataDir/vectorstore/.
func New(dataDir string, embedFn chromem.EmbeddingFunc, llm answerer, logger *slog.Logger) (*Service, error) {
	dir := filepath.Join(dataDir, "vectorstore")
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create vectorstore dir: %w", err)
	}
	db, err := chromem.NewPersistentDB(dir, false)
	if err != nil {
		return nil, fmt.Errorf("open vectorstore: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{db: db, embedFn: embedFn, llm: llm, logger: logger}, nil
}

func (s *Service) collection(name string) (*chromem.Collection, error) {
	col := s.db.GetCollection(name, s.embedFn)
	if col != nil {
		return col, nil
	}
	col, err := s.db.CreateCollection(name, nil, s.embedFn)
	if err != nil {
		return nil, fmt.Errorf("create collection %s: %w", name, err)
	}
	return col, nil
}

// IndexDocument adds (or re-indexes) a documentation chunk.
func (s *Service) IndexDocument(ctx context.Context, id, content string, metadata map[string]string) error {
	return s.index(ctx, docCollection, id, content, metadata)
}

// IndexLearning adds (or re-indexes) a curated learning resource. The
// metadata should carry "title" and "url" so search results can cite it.
func (s *Service) IndexLearning(ctx context.Context, id, content string, metadata map[string]string) error {
	return s.index(ctx, learningCollection, id, content, metadata)
}

func (s *Service) index(ctx context.Context, collection, id, content string, metadata map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	col, err := s.collection(collection)
	if err != nil {
		return err
	}
	return col.AddDocument(ctx, chromem.Document{
		ID:       id,
		Content:  content,
		Metadata: metadata,
	})
}

// SearchDocumentation answers a technical question from the documentation
// corpus.
func (s *Service) SearchDocumentation(ctx context.Context, query string) (string, error) {
	hits, err := s.query(ctx, docCollection, query, docTopK)
	if err != nil {
		return "", err
	}
	if len(hits) == 0 {
		return "No relevant documentation was found for this question.", nil
	}

	var sb strings.Builder
	for _, hit := range hits {
		sb.WriteString(hit.Content)
		sb.WriteString("\n\n")
	}

	system := "You are a helpful technical assistant. Answer the user's question based ONLY on the provided documentation excerpts. If the excerpts do not contain the answer, say so."
	prompt := fmt.Sprintf("Documentation:\n%s\nQuestion: %s\n\nAnswer:", sb.String(), query)
	return s.llm.GenerateWithSystem(ctx, system, prompt)
}

// SearchLearnings finds the most relevant curated learning resource for the
// query and returns a citation-style answer.
func (s *Service) SearchLearnings(ctx context.Context, query string) (string, error) {
	hits, err := s.query(ctx, learningCollection, query, learningTopK)
	if err != nil {
		return "", err
	}
	if len(hits) == 0 {
		return "No relevant learning resource was found for this query.", nil
	}

	var sb strings.Builder
	for _, hit := range hits {
		title := hit.Metadata["title"]
		url := hit.Metadata["url"]
		sb.WriteString(fmt.Sprintf("Title: %s\nURL: %s\nContent: %s\n\n", title, url, hit.Content))
	}

	system := `Based on the context below, find the most relevant learning resource for the user's query.
Return only the title and the URL in the format: "Found learning resource: '[TITLE]'. View it here: [URL]"
If no relevant resource is found, state that clearly.`
	prompt := fmt.Sprintf("Context:\n%s\nQuery: %s", sb.String(), query)
	return s.llm.GenerateWithSystem(ctx, system, prompt)
}

func (s *Service) query(ctx context.Context, collection, query string, k int) ([]chromem.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	col, err := s.collection(collection)
	if err != nil {
		return nil, err
	}

	count := col.Count()
	if count == 0 {
		return nil, nil
	}
	if k > count {
		k = count
	}

	results, err := col.Query(ctx, query, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", collection, err)
	}
	return results, nil
}
