package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChunkerSplitsWithOverlap(t *testing.T) {
	c := NewChunker(10, 3)
	text := strings.Repeat("abcdefg", 10) // 70 runes

	chunks := c.Split(text, "user-1", "conv-1", "notes.txt")
	require.NotEmpty(t, chunks)

	// Step between chunk starts is size-overlap, so the tail of one chunk
	// reappears at the head of the next.
	for i := 1; i < len(chunks); i++ {
		prev := []rune(chunks[i-1].Text)
		curr := []rune(chunks[i].Text)
		require.Equal(t, string(prev[len(prev)-3:]), string(curr[:3]),
			"chunk %d should overlap chunk %d by 3 runes", i, i-1)
	}
}

func TestChunkerDeterministic(t *testing.T) {
	c := NewChunker(500, 50)
	text := strings.Repeat("the quick brown fox jumps over the lazy dog. ", 40)

	first := c.Split(text, "u", "c", "f.txt")
	second := c.Split(text, "u", "c", "f.txt")
	require.Equal(t, first, second)
}

func TestChunkerTagsEveryChunk(t *testing.T) {
	c := NewChunker(20, 5)
	chunks := c.Split(strings.Repeat("word ", 30), "user-7", "conv-9", "doc.pdf")
	require.NotEmpty(t, chunks)
	for i, chunk := range chunks {
		require.Equal(t, "user-7", chunk.UserID)
		require.Equal(t, "conv-9", chunk.ConversationID)
		require.Equal(t, "doc.pdf", chunk.FilePath)
		require.Equal(t, i, chunk.Index)
	}
}

func TestChunkerShortTextSingleChunk(t *testing.T) {
	c := NewChunker(500, 50)
	chunks := c.Split("just a short note", "u", "c", "f.txt")
	require.Len(t, chunks, 1)
	require.Equal(t, "just a short note", chunks[0].Text)
}

func TestChunkerSkipsWhitespaceOnlyWindows(t *testing.T) {
	c := NewChunker(5, 0)
	chunks := c.Split("abcde     fghij", "u", "c", "f.txt")
	require.Len(t, chunks, 2)
	require.Equal(t, "abcde", chunks[0].Text)
	require.Equal(t, "fghij", chunks[1].Text)
	require.Equal(t, 1, chunks[1].Index)
}

func TestChunkerEmptyText(t *testing.T) {
	c := NewChunker(500, 50)
	require.Empty(t, c.Split("", "u", "c", "f.txt"))
	require.Empty(t, c.Split("   \n\t  ", "u", "c", "f.txt"))
}

func TestNewChunkerClampsBadOverlap(t *testing.T) {
	c := NewChunker(100, 100)
	require.Less(t, c.overlap, c.size)

	c = NewChunker(0, -1)
	require.Equal(t, defaultChunkSize, c.size)
	require.Equal(t, defaultChunkOverlap, c.overlap)
}
