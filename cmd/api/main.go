package main

import (
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"github.com/Camekazi/ReadingCompanion/internal/archive"
	"github.com/Camekazi/ReadingCompanion/internal/config"
	"github.com/Camekazi/ReadingCompanion/internal/explain"
	"github.com/Camekazi/ReadingCompanion/internal/http"
	"github.com/Camekazi/ReadingCompanion/internal/library"
	"github.com/Camekazi/ReadingCompanion/internal/llm"
	"github.com/Camekazi/ReadingCompanion/internal/storage"
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

	// Create repository instances
	bookRepo := storage.NewBookRepo(db)
	chapterRepo := storage.NewChapterRepo(db)
	fragmentRepo := storage.NewFragmentRepo(db)

	// Content-acquisition pipeline over the public archive
	archiveClient := archive.NewClient(cfg.ArchiveBaseURL)
	pipeline := library.NewPipeline(bookRepo, chapterRepo, archiveClient)
	slog.Info("Content pipeline initialized", "archive", cfg.ArchiveBaseURL)

	// Create LLM client (external service layer)
	llmClient := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModelName)

	// Explanation service: spoiler-bounded context + chat completion
	explainer := explain.NewService(bookRepo, chapterRepo, fragmentRepo, llmClient)
	slog.Info("Explanation service initialized", "model", cfg.LLMModelName)

	// Create router with dependencies
	deps := &http.Deps{
		DB:        db,
		Books:     bookRepo,
		Chapters:  chapterRepo,
		Fragments: fragmentRepo,
		Pipeline:  pipeline,
		Explainer: explainer,
	}
	router := http.NewRouter(deps)

	// Start API server
	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	slog.Debug("LLM configuration", "base_url", cfg.LLMBaseURL, "model", cfg.LLMModelName)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}
