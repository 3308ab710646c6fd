package vector

import (
	"context"
	"errors"
	"math"
	"sort"
	"sync"

	"github.com/genmind-ai/backend/internal/domain"
)

// MemoryIndex is a brute-force in-memory vector index used in tests and
// local development. Scoring is cosine similarity, matching the Qdrant
// collection's distance setting.
type MemoryIndex struct {
	mu      sync.RWMutex
	chunks  []domain.Chunk
	vectors [][]float32
}

func NewMemoryIndex() *MemoryIndex { return &MemoryIndex{} }

func (m *MemoryIndex) Upsert(_ context.Context, chunks []domain.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return errors.New("chunks and vectors length mismatch")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chunks = append(m.chunks, chunks...)
	m.vectors = append(m.vectors, vectors...)
	return nil
}

func (m *MemoryIndex) Search(_ context.Context, vector []float32, userID string, topK int) ([]domain.ScoredChunk, error) {
	if topK <= 0 {
		topK = 5
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var results []domain.ScoredChunk
	for i, chunk := range m.chunks {
		if chunk.UserID != userID {
			continue
		}
		score, err := CosineSimilarity(vector, m.vectors[i])
		if err != nil {
			return nil, err
		}
		results = append(results, domain.ScoredChunk{Chunk: chunk, Score: score})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if topK < len(results) {
		results = results[:topK]
	}
	return results, nil
}

// Len reports the number of stored vectors.
func (m *MemoryIndex) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.chunks)
}

// CosineSimilarity calculates the cosine similarity between two vectors.
func CosineSimilarity(vec1, vec2 []float32) (float32, error) {
	if len(vec1) == 0 || len(vec2) == 0 {
		return 0, errors.New("vectors cannot be empty")
	}
	if len(vec1) != len(vec2) {
		return 0, errors.New("vectors must have the same dimension")
	}
	var product, sq1, sq2 float32
	for i := range vec1 {
		product += vec1[i] * vec2[i]
		sq1 += vec1[i] * vec1[i]
		sq2 += vec2[i] * vec2[i]
	}
	mag1 := float32(math.Sqrt(float64(sq1)))
	mag2 := float32(math.Sqrt(float64(sq2)))
	if mag1 == 0 || mag2 == 0 {
		return 0, nil
	}
	return product / (mag1 * mag2), nil
}
