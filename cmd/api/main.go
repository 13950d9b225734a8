package main

import (
	"context"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"docbrain/internal/config"
	"docbrain/internal/extractor"
	"docbrain/internal/http"
	"docbrain/internal/ingest"
	"docbrain/internal/llm"
	"docbrain/internal/pdfio"
	"docbrain/internal/rag"
	"docbrain/internal/storage"
	"docbrain/internal/tracker"
	"docbrain/internal/vectorstore"
	"docbrain/internal/websearch"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	// Initialize database
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	fileRepo := storage.NewProcessedFileRepo(db)
	fileTracker := tracker.New(fileRepo)

	// Initialize Qdrant vector store
	ctx := context.Background()
	vectorStore, err := vectorstore.NewQdrantStore(ctx, cfg.QdrantURL)
	if err != nil {
		log.Fatalf("Failed to create Qdrant client: %v", err)
	}

	// Ensure collection exists with correct vector size
	if err := vectorStore.EnsureCollection(ctx, cfg.QdrantCollection, cfg.QdrantVectorSize); err != nil {
		log.Fatalf("Failed to ensure Qdrant collection: %v", err)
	}
	slog.Info("Qdrant collection ready", "collection", cfg.QdrantCollection, "vector_size", cfg.QdrantVectorSize)

	// One client serves embeddings, generation, and vision
	llmClient := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.EmbeddingModel, cfg.GenerateModel, cfg.VisionModel)

	chunkExtractor := extractor.New(
		pdfio.NewTextDecoder(),
		pdfio.NewImageDecoder(),
		llmClient,
		cfg.ChunkSize,
		cfg.MinImageSize,
	)

	coordinator := ingest.NewCoordinator(
		fileTracker,
		chunkExtractor,
		llmClient,
		vectorStore,
		cfg.QdrantCollection,
		cfg.QdrantVectorSize,
		cfg.DocsDir,
	)

	// Pick a web search provider by which API key is configured. Without a
	// key (or with the feature disabled) the fallback degrades to a no-op.
	var searchProvider websearch.Provider = websearch.NoopProvider{}
	switch {
	case !cfg.WebSearchEnabled:
		slog.Info("Web search disabled")
	case cfg.BraveAPIKey != "":
		searchProvider = websearch.NewBraveProvider(cfg.BraveAPIKey)
		slog.Info("Web search enabled", "provider", "brave")
	case cfg.TavilyAPIKey != "":
		searchProvider = websearch.NewTavilyProvider(cfg.TavilyAPIKey)
		slog.Info("Web search enabled", "provider", "tavily")
	default:
		slog.Warn("No web search provider configured, skipping web search")
	}

	engine := rag.NewEngine(llmClient, llmClient, vectorStore, searchProvider, rag.Params{
		Collection:          cfg.QdrantCollection,
		TopK:                cfg.DefaultTopK,
		SimilarityThreshold: cfg.SimilarityThreshold,
		WebResultCount:      cfg.WebResultCount,
		MaxHistory:          cfg.MaxHistory,
	})
	slog.Info("Query engine initialized")

	deps := &http.Deps{
		Engine:      engine,
		Coordinator: coordinator,
		Store:       vectorStore,
		Collection:  cfg.QdrantCollection,
	}
	router := http.NewRouter(deps)

	// Sweep the document directory before accepting traffic, so the index
	// reflects the directory contents by the time the first query lands.
	slog.Info("Checking for new documents", "dir", cfg.DocsDir)
	result, err := coordinator.SweepDirectory(ctx)
	if err != nil {
		slog.Error("Startup sweep failed", "error", err)
	} else {
		slog.Info("Startup sweep complete", "processed", result.ProcessedCount, "chunks", result.ChunkCount)
	}

	// Start API server
	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	slog.Debug("LLM configuration", "base_url", cfg.LLMBaseURL, "generate_model", cfg.GenerateModel)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}
