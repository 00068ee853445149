package tools

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raphaelgruber/devmate-go/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

type stubRepo struct {
	diffs []string
	prs   []store.PullRequest
	err   error
}

func (s *stubRepo) DiffsByPR(ctx context.Context, prID string) ([]string, error) {
	return s.diffs, s.err
}

func (s *stubRepo) SearchPullRequests(ctx context.Context, userID, keyword string) ([]store.PullRequest, error) {
	return s.prs, s.err
}

type stubSearch struct {
	docAnswer      string
	learningAnswer string
	err            error
}

func (s *stubSearch) SearchDocumentation(ctx context.Context, query string) (string, error) {
	return s.docAnswer, s.err
}

func (s *stubSearch) SearchLearnings(ctx context.Context, query string) (string, error) {
	return s.learningAnswer, s.err
}

type stubSummarizer struct {
	summary string
	err     error
}

func (s *stubSummarizer) GenerateWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return s.summary, s.err
}

func newTestRegistry(repo *stubRepo, search *stubSearch, summarizer *stubSummarizer) *Registry {
	if repo == nil {
		repo = &stubRepo{}
	}
	if search == nil {
		search = &stubSearch{}
	}
	if summarizer == nil {
		summarizer = &stubSummarizer{}
	}
	return NewRegistry(&Dependencies{
		Store:      repo,
		Search:     search,
		Summarizer: summarizer,
		Logger:     testLogger(),
	})
}

func TestRegistry_Closed(t *testing.T) {
	r := newTestRegistry(nil, nil, nil)

	assert.Equal(t, []string{
		PRDiffTool, PRSummaryTool, DocSearchTool, LearningSearchTool, PRSearchTool,
	}, r.Names())

	t.Run("unknown tool fails closed", func(t *testing.T) {
		_, err := r.Invoke(context.Background(), "shell_exec_tool", Arguments{})
		assert.ErrorIs(t, err, ErrUnknownTool)
		assert.False(t, r.Has("shell_exec_tool"))
	})

	t.Run("definitions cover every tool", func(t *testing.T) {
		defs := r.Definitions()
		require.Len(t, defs, 5)
		for _, def := range defs {
			assert.Equal(t, "function", def.Type)
			require.NotNil(t, def.Function)
			assert.True(t, r.Has(def.Function.Name))
			assert.NotEmpty(t, def.Function.Description)
		}
	})
}

func TestPRDiffTool(t *testing.T) {
	ctx := context.Background()

	t.Run("joins diffs with separator", func(t *testing.T) {
		r := newTestRegistry(&stubRepo{diffs: []string{"diff one", "diff two"}}, nil, nil)

		result, err := r.Invoke(ctx, PRDiffTool, Arguments{"pr_id": "pr-42"})
		require.NoError(t, err)
		assert.Equal(t, "diff one\n---_---_---\ndiff two", result)
	})

	t.Run("no diffs yields error text not error", func(t *testing.T) {
		r := newTestRegistry(&stubRepo{}, nil, nil)

		result, err := r.Invoke(ctx, PRDiffTool, Arguments{"pr_id": "pr-42"})
		require.NoError(t, err)
		assert.Equal(t, "Error: No diffs found for PR with ID pr-42.", result)
	})

	t.Run("missing pr_id is an error", func(t *testing.T) {
		r := newTestRegistry(&stubRepo{}, nil, nil)

		_, err := r.Invoke(ctx, PRDiffTool, Arguments{})
		assert.Error(t, err)
	})

	t.Run("store failure propagates", func(t *testing.T) {
		r := newTestRegistry(&stubRepo{err: errors.New("connection reset")}, nil, nil)

		_, err := r.Invoke(ctx, PRDiffTool, Arguments{"pr_id": "pr-42"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection reset")
	})
}

func TestPRSummaryTool(t *testing.T) {
	ctx := context.Background()

	t.Run("returns model summary", func(t *testing.T) {
		r := newTestRegistry(nil, nil, &stubSummarizer{summary: "Fixes a null check."})

		result, err := r.Invoke(ctx, PRSummaryTool, Arguments{"diff_text": "diff --git"})
		require.NoError(t, err)
		assert.Equal(t, "Fixes a null check.", result)
	})

	t.Run("model failure folds into result", func(t *testing.T) {
		r := newTestRegistry(nil, nil, &stubSummarizer{err: errors.New("timeout")})

		result, err := r.Invoke(ctx, PRSummaryTool, Arguments{"diff_text": "diff --git"})
		require.NoError(t, err)
		assert.Equal(t, "Error: Could not generate a summary for the provided diff.", result)
	})
}

func TestSearchTools(t *testing.T) {
	ctx := context.Background()
	search := &stubSearch{
		docAnswer:      "Install it with make install.",
		learningAnswer: "Found learning resource: 'Go Course'. View it here: https://example.com",
	}
	r := newTestRegistry(nil, search, nil)

	t.Run("doc search delegates", func(t *testing.T) {
		result, err := r.Invoke(ctx, DocSearchTool, Arguments{"query": "how to install"})
		require.NoError(t, err)
		assert.Equal(t, search.docAnswer, result)
	})

	t.Run("learning search delegates", func(t *testing.T) {
		result, err := r.Invoke(ctx, LearningSearchTool, Arguments{"query": "learn go"})
		require.NoError(t, err)
		assert.Equal(t, search.learningAnswer, result)
	})

	t.Run("empty query is an error", func(t *testing.T) {
		_, err := r.Invoke(ctx, DocSearchTool, Arguments{})
		assert.Error(t, err)
	})
}

func TestPRSearchTool(t *testing.T) {
	ctx := context.Background()

	t.Run("formats matches", func(t *testing.T) {
		r := newTestRegistry(&stubRepo{prs: []store.PullRequest{
			{ID: "pr-1", Title: "Fix login bug", Summary: "Adds a null check.", TicketTitle: "Login crashes"},
			{ID: "pr-2", Title: "Refactor auth"},
		}}, nil, nil)

		result, err := r.Invoke(ctx, PRSearchTool, Arguments{"keyword": "login", "user_id": "user-1"})
		require.NoError(t, err)
		assert.Contains(t, result, "- Fix login bug (id: pr-1, ticket: Login crashes)")
		assert.Contains(t, result, "Adds a null check.")
		assert.Contains(t, result, "- Refactor auth (id: pr-2)")
	})

	t.Run("no matches", func(t *testing.T) {
		r := newTestRegistry(&stubRepo{}, nil, nil)

		result, err := r.Invoke(ctx, PRSearchTool, Arguments{"keyword": "nothing", "user_id": "user-1"})
		require.NoError(t, err)
		assert.Equal(t, "No pull requests matching 'nothing' were found.", result)
	})
}

func TestArguments_String(t *testing.T) {
	args := Arguments{"key": "value", "num": 42}
	assert.Equal(t, "value", args.String("key"))
	assert.Empty(t, args.String("num"), "non-string values read as empty")
	assert.Empty(t, args.String("missing"))
}
