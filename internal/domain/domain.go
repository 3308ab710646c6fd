package domain

import "context"

// Chunk is a bounded slice of extracted document text, tagged with the
// identifiers retrieval later filters on.
type Chunk struct {
	UserID         string
	ConversationID string
	FilePath       string
	Text           string
	Index          int
}

// ScoredChunk is a chunk returned by a similarity search.
type ScoredChunk struct {
	Chunk Chunk
	Score float32
}

// IngestionSummary describes the outcome of ingesting one uploaded file.
type IngestionSummary struct {
	Message        string `json:"message"`
	UserID         string `json:"user_id"`
	ConversationID string `json:"conversation_id"`
	FilePath       string `json:"file_path"`
	Collection     string `json:"collection_name"`
	Chunks         int    `json:"chunks"`
}

// Embedder maps text to a fixed-dimension vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// VectorIndex stores tagged chunk vectors and answers filtered
// similarity queries.
type VectorIndex interface {
	Upsert(ctx context.Context, chunks []Chunk, vectors [][]float32) error
	Search(ctx context.Context, vector []float32, userID string, topK int) ([]ScoredChunk, error)
}

// Generator invokes the language model with retrieved context and a user
// query and returns its structured response.
type Generator interface {
	Respond(ctx context.Context, retrievedContext, userQuery, history string) (*ModelResponse, error)
}
