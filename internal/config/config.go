package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	LLMBaseURL     string
	LLMAPIKey      string
	GenerateModel  string
	EmbeddingModel string
	VisionModel    string

	QdrantURL        string
	QdrantCollection string
	QdrantVectorSize int

	DocsDir string
	DBPath  string

	ChunkSize           int
	MinImageSize        int
	MaxHistory          int
	DefaultTopK         int
	SimilarityThreshold float64
	WebSearchEnabled    bool
	WebResultCount      int
	BraveAPIKey         string
	TavilyAPIKey        string

	APIPort   string
	LogLevel  slog.Level
	LogFormat string
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates required fields.
// If a .env file exists in the current directory or project root, it will be loaded automatically.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	// Check current directory first, then walk up to find project root (where go.mod is)
	_ = godotenv.Load() // Try current directory

	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ { // Limit search depth
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break // Reached filesystem root
			}
			dir = parent
		}
	}

	cfg := &Config{
		// Default to Ollama's OpenAI-compatible endpoint; any OpenAI-compatible
		// server works here.
		LLMBaseURL:     getEnv("LLM_BASE_URL", "http://localhost:11434/v1"),
		LLMAPIKey:      getEnv("LLM_API_KEY", "dummy-key"),
		GenerateModel:  getEnv("LLM_MODEL", "llama3.2"),
		EmbeddingModel: getEnv("EMBEDDING_MODEL", "nomic-embed-text"),
		VisionModel:    getEnv("VISION_MODEL", "llava:13b"),

		QdrantURL:        getEnv("QDRANT_URL", "http://localhost:6333"),
		QdrantCollection: getEnv("QDRANT_COLLECTION", "pdf_knowledge_base"),

		DocsDir: getEnv("DOCS_DIR", "./data/pdfs"),
		DBPath:  getEnv("DB_PATH", "./data/docbrain.db"),

		BraveAPIKey:  getEnv("BRAVE_API_KEY", ""),
		TavilyAPIKey: getEnv("TAVILY_API_KEY", ""),

		APIPort:   getEnv("API_PORT", "8000"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}

	// Parse QDRANT_VECTOR_SIZE.
	// This must match the output vector size of the embedding model
	// (e.g. 768 for nomic-embed-text, 1536 for text-embedding-3-small).
	// If the vector size changes, the Qdrant collection must be recreated.
	vectorSizeStr := getEnv("QDRANT_VECTOR_SIZE", "")
	if vectorSizeStr == "" {
		return nil, fmt.Errorf("QDRANT_VECTOR_SIZE is required")
	}
	vectorSize, err := strconv.Atoi(vectorSizeStr)
	if err != nil {
		return nil, fmt.Errorf("QDRANT_VECTOR_SIZE must be a valid integer: %w", err)
	}
	if vectorSize <= 0 {
		return nil, fmt.Errorf("QDRANT_VECTOR_SIZE must be greater than 0")
	}
	cfg.QdrantVectorSize = vectorSize

	if cfg.ChunkSize, err = getEnvInt("CHUNK_SIZE", 500); err != nil {
		return nil, err
	}
	if cfg.MinImageSize, err = getEnvInt("MIN_IMAGE_SIZE", 100); err != nil {
		return nil, err
	}
	if cfg.MaxHistory, err = getEnvInt("MAX_CHAT_HISTORY", 6); err != nil {
		return nil, err
	}
	if cfg.DefaultTopK, err = getEnvInt("DEFAULT_TOP_K", 3); err != nil {
		return nil, err
	}
	if cfg.WebResultCount, err = getEnvInt("WEB_RESULT_COUNT", 3); err != nil {
		return nil, err
	}

	thresholdStr := getEnv("SIMILARITY_THRESHOLD", "0.7")
	cfg.SimilarityThreshold, err = strconv.ParseFloat(thresholdStr, 64)
	if err != nil {
		return nil, fmt.Errorf("SIMILARITY_THRESHOLD must be a valid float: %w", err)
	}

	enabledStr := getEnv("WEB_SEARCH_ENABLED", "true")
	cfg.WebSearchEnabled, err = strconv.ParseBool(enabledStr)
	if err != nil {
		return nil, fmt.Errorf("WEB_SEARCH_ENABLED must be a boolean: %w", err)
	}

	cfg.LogLevel, err = parseLogLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}

	// Create the docs and data directories if they don't exist
	if err := os.MkdirAll(cfg.DocsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create docs directory: %w", err)
	}
	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// parseLogLevel converts a level name to a slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error; got %q", level)
	}
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable or returns a default value.
func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", key)
	}
	return n, nil
}
