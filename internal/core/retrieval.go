package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/genmind-ai/backend/internal/domain"
)

// Retriever turns a user query into the document context string fed to
// the model. Results are always filtered to the querying user, so one
// user's documents never leak into another's answers.
type Retriever struct {
	embedder domain.Embedder
	index    domain.VectorIndex
	topK     int
}

func NewRetriever(embedder domain.Embedder, index domain.VectorIndex, topK int) *Retriever {
	if topK <= 0 {
		topK = 5
	}
	return &Retriever{embedder: embedder, index: index, topK: topK}
}

// Context embeds the query, searches the user's chunks and joins the hit
// texts in relevance order. No hits is not an error: the model is simply
// called with empty context.
func (r *Retriever) Context(ctx context.Context, query, userID string) (string, error) {
	vector, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return "", fmt.Errorf("%w: embedding query: %v", domain.ErrRetrieval, err)
	}
	hits, err := r.index.Search(ctx, vector, userID, r.topK)
	if err != nil {
		return "", fmt.Errorf("%w: searching index: %v", domain.ErrRetrieval, err)
	}
	parts := make([]string, 0, len(hits))
	for _, hit := range hits {
		parts = append(parts, hit.Chunk.Text)
	}
	return strings.Join(parts, " "), nil
}
