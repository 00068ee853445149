package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Provider identifies the backing LLM provider.
type Provider string

const (
	ProviderOllama    Provider = "ollama"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

// Config holds all configuration values.
type Config struct {
	// Postgres connection
	PGHost     string
	PGPort     string
	PGDatabase string
	PGUser     string
	PGPassword string

	// LLM
	LLMProvider     Provider
	LLMModel        string
	OpenAIAPIKey    string
	AnthropicAPIKey string
	OllamaHost      string

	// Embeddings / vector store
	EmbeddingModel string
	DataDir        string

	// Server
	ServerPort string
	ServerURL  string

	// Logging
	LogFile  string
	LogLevel slog.Level
}

// Load reads configuration from environment variables.
// configs/.env and configs/secrets/.env are loaded first when present,
// matching the deployment layout.
func Load() Config {
	_ = godotenv.Load("configs/.env")
	_ = godotenv.Load("configs/secrets/.env")

	return Config{
		PGHost:     getEnv("PG_HOST", "localhost"),
		PGPort:     getEnv("PG_PORT", "5432"),
		PGDatabase: getEnv("PG_DB", "devmate"),
		PGUser:     getEnv("PG_USER", "postgres"),
		PGPassword: getEnv("PG_PASSWORD", ""),

		LLMProvider:     Provider(getEnv("DEVMATE_LLM_PROVIDER", "openai")),
		LLMModel:        getEnv("DEVMATE_LLM_MODEL", "gpt-4o-mini"),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		OllamaHost:      getEnv("OLLAMA_HOST", "http://localhost:11434"),

		EmbeddingModel: getEnv("DEVMATE_EMBEDDING_MODEL", "text-embedding-3-large"),
		DataDir:        getEnv("DEVMATE_DATA_DIR", "data"),

		ServerPort: getEnv("DEVMATE_SERVER_PORT", "8487"),
		ServerURL:  getEnv("DEVMATE_SERVER_URL", "http://localhost:8487"),

		LogFile:  getEnv("DEVMATE_LOG_FILE", "/tmp/devmate.log"),
		LogLevel: parseLogLevel(getEnv("DEVMATE_LOG_LEVEL", "INFO")),
	}
}

// PostgresDSN builds the lib/pq connection string.
func (c Config) PostgresDSN() string {
	dsn := fmt.Sprintf("host=%s port=%s dbname=%s user=%s sslmode=disable",
		c.PGHost, c.PGPort, c.PGDatabase, c.PGUser)
	if c.PGPassword != "" {
		dsn += " password=" + c.PGPassword
	}
	return dsn
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
