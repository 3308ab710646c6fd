package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/genmind-ai/backend/internal/api"
	"github.com/genmind-ai/backend/internal/config"
	"github.com/genmind-ai/backend/internal/core"
	"github.com/genmind-ai/backend/internal/ingest"
	"github.com/genmind-ai/backend/internal/llm"
	"github.com/genmind-ai/backend/internal/observability"
	"github.com/genmind-ai/backend/internal/store"
	"github.com/genmind-ai/backend/internal/vector"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := store.NewSQLiteStore(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	gemini, err := llm.NewClient(ctx, cfg.GeminiAPIKey, cfg.ExternalCallTimeout)
	if err != nil {
		log.Fatalf("Failed to create Gemini client: %v", err)
	}
	defer gemini.Close()

	index := vector.NewQdrantIndex(vector.QdrantConfig{
		URL:        cfg.QdrantURL,
		APIKey:     cfg.QdrantAPIKey,
		Collection: cfg.QdrantCollection,
		Timeout:    cfg.ExternalCallTimeout,
	})
	if err := index.EnsureCollection(ctx, cfg.EmbeddingDim); err != nil {
		log.Fatalf("Failed to ensure Qdrant collection %q: %v", cfg.QdrantCollection, err)
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		log.Fatalf("Failed to create upload directory %q: %v", cfg.UploadDir, err)
	}

	metrics := observability.NewMetrics("genmind")
	chunker := ingest.NewChunker(cfg.ChunkSize, cfg.ChunkOverlap)
	pipeline := ingest.NewPipeline(chunker, gemini, index, cfg.QdrantCollection, metrics)
	retriever := core.NewRetriever(gemini, index, cfg.RetrievalTopK)
	orchestrator := core.NewOrchestrator(db, pipeline, retriever, gemini, metrics)

	handler := api.NewHandler(orchestrator, db, cfg.UploadDir)
	router := api.NewRouter(handler, metrics.Handler())

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Server listening on port %s", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}
