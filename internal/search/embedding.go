package search

import (
	"fmt"

	chromem "github.com/philippgille/chromem-go"
	"github.com/raphaelgruber/devmate-go/internal/config"
)

// NewEmbeddingFunc selects the chromem embedding backend from configuration,
// following the same provider switch as the LLM wrapper. Anthropic exposes no
// embedding API, so that provider falls back to a local Ollama model.
func NewEmbeddingFunc(cfg config.Config) (chromem.EmbeddingFunc, error) {
	switch cfg.LLMProvider {
	case config.ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OpenAI API key required for embeddings")
		}
		return chromem.NewEmbeddingFuncOpenAI(cfg.OpenAIAPIKey, chromem.EmbeddingModelOpenAI(cfg.EmbeddingModel)), nil

	case config.ProviderOllama, config.ProviderAnthropic:
		return chromem.NewEmbeddingFuncOllama(cfg.EmbeddingModel, cfg.OllamaHost+"/api"), nil

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.LLMProvider)
	}
}
