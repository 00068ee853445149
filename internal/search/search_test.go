package search

import (
	"context"
	"hash/fnv"
	"log/slog"
	"math"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// testEmbedding maps word occurrences into a small fixed vector, so related
// texts land close together without any network calls.
func testEmbedding(ctx context.Context, text string) ([]float32, error) {
	const dim = 64
	vec := make([]float32, dim)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		h.Write([]byte(word))
		vec[h.Sum32()%dim]++
	}
	// chromem expects normalized vectors.
	var norm float32
	for _, v := range vec {
		norm += v * v
	}
	if norm > 0 {
		inv := float32(1 / math.Sqrt(float64(norm)))
		for i := range vec {
			vec[i] *= inv
		}
	}
	return vec, nil
}

// capturingLLM records the synthesis prompt and returns a canned answer.
type capturingLLM struct {
	system string
	prompt string
	answer string
}

func (c *capturingLLM) GenerateWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	c.system = systemPrompt
	c.prompt = userPrompt
	return c.answer, nil
}

func newTestService(t *testing.T) (*Service, *capturingLLM) {
	t.Helper()
	llm := &capturingLLM{answer: "synthesized answer"}
	svc, err := New(t.TempDir(), testEmbedding, llm, testLogger())
	require.NoError(t, err)
	return svc, llm
}

func TestSearchDocumentation(t *testing.T) {
	ctx := context.Background()
	svc, llm := newTestService(t)

	t.Run("empty corpus yields fallback", func(t *testing.T) {
		answer, err := svc.SearchDocumentation(ctx, "how do I deploy?")
		require.NoError(t, err)
		assert.Equal(t, "No relevant documentation was found for this question.", answer)
	})

	t.Run("retrieved excerpts reach the synthesis prompt", func(t *testing.T) {
		require.NoError(t, svc.IndexDocument(ctx, "deploy#0",
			"Deployments run through the release pipeline. Trigger it with make deploy.",
			map[string]string{"title": "Deploy Guide"}))

		answer, err := svc.SearchDocumentation(ctx, "how do I deploy?")
		require.NoError(t, err)
		assert.Equal(t, "synthesized answer", answer)
		assert.Contains(t, llm.prompt, "make deploy")
		assert.Contains(t, llm.prompt, "how do I deploy?")
		assert.Contains(t, llm.system, "ONLY on the provided documentation excerpts")
	})
}

func TestSearchLearnings(t *testing.T) {
	ctx := context.Background()
	svc, llm := newTestService(t)

	t.Run("empty corpus yields fallback", func(t *testing.T) {
		answer, err := svc.SearchLearnings(ctx, "learn go")
		require.NoError(t, err)
		assert.Equal(t, "No relevant learning resource was found for this query.", answer)
	})

	t.Run("citation metadata reaches the prompt", func(t *testing.T) {
		require.NoError(t, svc.IndexLearning(ctx, "course#0",
			"An introductory course covering goroutines and channels.",
			map[string]string{"title": "Go Course", "url": "https://example.com/go"}))

		_, err := svc.SearchLearnings(ctx, "where can I learn goroutines?")
		require.NoError(t, err)
		assert.Contains(t, llm.prompt, "Title: Go Course")
		assert.Contains(t, llm.prompt, "URL: https://example.com/go")
		assert.Contains(t, llm.system, "Found learning resource:")
	})
}

func TestSearchCorporaAreIsolated(t *testing.T) {
	ctx := context.Background()
	svc, llm := newTestService(t)

	require.NoError(t, svc.IndexLearning(ctx, "course#0",
		"A course about deployment pipelines.",
		map[string]string{"title": "Pipelines", "url": "https://example.com/p"}))

	// The documentation corpus is still empty, so doc search must not see
	// the learning resource.
	answer, err := svc.SearchDocumentation(ctx, "deployment pipelines")
	require.NoError(t, err)
	assert.Equal(t, "No relevant documentation was found for this question.", answer)
	assert.Empty(t, llm.prompt)
}
