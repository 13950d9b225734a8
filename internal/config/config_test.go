package config

import (
	"log/slog"
	"path/filepath"
	"testing"
)

// setRequiredEnv sets the minimum environment for Load to succeed, pointing
// all filesystem paths into the test's temp directory.
func setRequiredEnv(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("QDRANT_VECTOR_SIZE", "768")
	t.Setenv("DOCS_DIR", filepath.Join(dir, "pdfs"))
	t.Setenv("DB_PATH", filepath.Join(dir, "data", "test.db"))
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.LLMBaseURL != "http://localhost:11434/v1" {
		t.Errorf("LLMBaseURL = %q, want default", cfg.LLMBaseURL)
	}
	if cfg.QdrantCollection != "pdf_knowledge_base" {
		t.Errorf("QdrantCollection = %q, want pdf_knowledge_base", cfg.QdrantCollection)
	}
	if cfg.QdrantVectorSize != 768 {
		t.Errorf("QdrantVectorSize = %d, want 768", cfg.QdrantVectorSize)
	}
	if cfg.ChunkSize != 500 {
		t.Errorf("ChunkSize = %d, want 500", cfg.ChunkSize)
	}
	if cfg.MinImageSize != 100 {
		t.Errorf("MinImageSize = %d, want 100", cfg.MinImageSize)
	}
	if cfg.MaxHistory != 6 {
		t.Errorf("MaxHistory = %d, want 6", cfg.MaxHistory)
	}
	if cfg.DefaultTopK != 3 {
		t.Errorf("DefaultTopK = %d, want 3", cfg.DefaultTopK)
	}
	if cfg.SimilarityThreshold != 0.7 {
		t.Errorf("SimilarityThreshold = %v, want 0.7", cfg.SimilarityThreshold)
	}
	if !cfg.WebSearchEnabled {
		t.Error("WebSearchEnabled = false, want true")
	}
	if cfg.WebResultCount != 3 {
		t.Errorf("WebResultCount = %d, want 3", cfg.WebResultCount)
	}
	if cfg.APIPort != "8000" {
		t.Errorf("APIPort = %q, want 8000", cfg.APIPort)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, want info", cfg.LogLevel)
	}
}

func TestLoad_MissingVectorSize(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("QDRANT_VECTOR_SIZE", "")
	t.Setenv("DOCS_DIR", filepath.Join(dir, "pdfs"))
	t.Setenv("DB_PATH", filepath.Join(dir, "test.db"))

	if _, err := Load(); err == nil {
		t.Fatal("Load() expected error for missing QDRANT_VECTOR_SIZE")
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "non-numeric vector size", key: "QDRANT_VECTOR_SIZE", value: "abc"},
		{name: "zero vector size", key: "QDRANT_VECTOR_SIZE", value: "0"},
		{name: "negative chunk size", key: "CHUNK_SIZE", value: "-1"},
		{name: "bad threshold", key: "SIMILARITY_THRESHOLD", value: "high"},
		{name: "bad web search flag", key: "WEB_SEARCH_ENABLED", value: "maybe"},
		{name: "bad log level", key: "LOG_LEVEL", value: "verbose"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tt.key, tt.value)

			if _, err := Load(); err == nil {
				t.Errorf("Load() expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("LLM_MODEL", "mistral")
	t.Setenv("SIMILARITY_THRESHOLD", "0.5")
	t.Setenv("WEB_SEARCH_ENABLED", "false")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.GenerateModel != "mistral" {
		t.Errorf("GenerateModel = %q, want mistral", cfg.GenerateModel)
	}
	if cfg.SimilarityThreshold != 0.5 {
		t.Errorf("SimilarityThreshold = %v, want 0.5", cfg.SimilarityThreshold)
	}
	if cfg.WebSearchEnabled {
		t.Error("WebSearchEnabled = true, want false")
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v, want debug", cfg.LogLevel)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "INFO", want: slog.LevelInfo},
		{in: "warning", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "trace", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseLogLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseLogLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("parseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
