// Package tools provides the closed tool registry the planner chooses from.
package tools

import (
	"context"
	"log/slog"

	"github.com/raphaelgruber/devmate-go/internal/store"
)

// repository is the slice of the store the tools need.
type repository interface {
	DiffsByPR(ctx context.Context, prID string) ([]string, error)
	SearchPullRequests(ctx context.Context, userID, keyword string) ([]store.PullRequest, error)
}

// searcher is the semantic-search collaborator.
type searcher interface {
	SearchDocumentation(ctx context.Context, query string) (string, error)
	SearchLearnings(ctx context.Context, query string) (string, error)
}

// summarizer generates a summary from a system/user prompt pair.
type summarizer interface {
	GenerateWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Dependencies holds shared services for tool handlers.
// Passed to handler factories via closure capture.
type Dependencies struct {
	Store      repository
	Search     searcher
	Summarizer summarizer
	Logger     *slog.Logger
}
