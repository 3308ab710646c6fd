package ingest

import (
	"strings"

	"github.com/genmind-ai/backend/internal/domain"
)

const (
	defaultChunkSize    = 500
	defaultChunkOverlap = 50
)

// Chunker splits extracted text into fixed-length character windows with
// a fixed overlap between consecutive chunks, so a sentence cut at a
// window boundary stays retrievable from its neighbor.
type Chunker struct {
	size    int
	overlap int
}

func NewChunker(size, overlap int) *Chunker {
	if size <= 0 {
		size = defaultChunkSize
	}
	if overlap < 0 {
		overlap = defaultChunkOverlap
	}
	if overlap >= size {
		overlap = size / 10
	}
	return &Chunker{size: size, overlap: overlap}
}

// Split produces the ordered chunk sequence for one document, each chunk
// tagged with the owner and session identifiers. Splitting is
// deterministic: the same text always yields the same chunks.
func (c *Chunker) Split(text, userID, conversationID, filePath string) []domain.Chunk {
	runes := []rune(text)
	step := c.size - c.overlap

	var chunks []domain.Chunk
	index := 0
	for start := 0; start < len(runes); start += step {
		end := start + c.size
		if end > len(runes) {
			end = len(runes)
		}
		piece := strings.TrimSpace(string(runes[start:end]))
		if piece != "" {
			chunks = append(chunks, domain.Chunk{
				UserID:         userID,
				ConversationID: conversationID,
				FilePath:       filePath,
				Text:           piece,
				Index:          index,
			})
			index++
		}
		if end == len(runes) {
			break
		}
	}
	return chunks
}
