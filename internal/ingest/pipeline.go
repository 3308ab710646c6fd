package ingest

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/genmind-ai/backend/internal/domain"
	"github.com/genmind-ai/backend/internal/observability"
)

// Pipeline drives load -> chunk -> embed -> index for one uploaded file.
// All chunks from a file are indexed as a single batch: if any embedding
// call fails, nothing is upserted and the whole upload must be retried.
type Pipeline struct {
	chunker    *Chunker
	embedder   domain.Embedder
	index      domain.VectorIndex
	collection string
	metrics    *observability.Metrics
}

func NewPipeline(chunker *Chunker, embedder domain.Embedder, index domain.VectorIndex, collection string, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		chunker:    chunker,
		embedder:   embedder,
		index:      index,
		collection: collection,
		metrics:    metrics,
	}
}

// Ingest vectorizes one file for the given owner and conversation.
func (p *Pipeline) Ingest(ctx context.Context, userID, conversationID, filePath string) (*domain.IngestionSummary, error) {
	text, err := ExtractText(filePath)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrIngestion, err)
	}

	chunks := p.chunker.Split(text, userID, conversationID, filePath)
	if len(chunks) == 0 {
		log.Printf("No text extracted from %s, nothing to index", filePath)
		return p.summary(userID, conversationID, filePath, 0), nil
	}

	vectors := make([][]float32, len(chunks))
	embedStart := time.Now()
	for i := range chunks {
		vec, err := p.embedder.Embed(ctx, chunks[i].Text)
		if err != nil {
			return nil, fmt.Errorf("%w: embedding chunk %d of %s: %v", domain.ErrIngestion, i, filePath, err)
		}
		vectors[i] = vec
	}
	p.metrics.ObserveExternalCall("gemini_embed", time.Since(embedStart))

	upsertStart := time.Now()
	if err := p.index.Upsert(ctx, chunks, vectors); err != nil {
		return nil, fmt.Errorf("%w: upserting %d chunks from %s: %v", domain.ErrIngestion, len(chunks), filePath, err)
	}
	p.metrics.ObserveExternalCall("qdrant_upsert", time.Since(upsertStart))

	p.metrics.AddChunksIngested(len(chunks))
	log.Printf("Ingested %d chunks from %s for user %s", len(chunks), filePath, userID)
	return p.summary(userID, conversationID, filePath, len(chunks)), nil
}

func (p *Pipeline) summary(userID, conversationID, filePath string, chunks int) *domain.IngestionSummary {
	return &domain.IngestionSummary{
		Message:        "File vectorized successfully.",
		UserID:         userID,
		ConversationID: conversationID,
		FilePath:       filePath,
		Collection:     p.collection,
		Chunks:         chunks,
	}
}
