package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadRequiresAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "GEMINI_API_KEY")
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "genmind.db", cfg.DatabaseURL)
	require.Equal(t, "8080", cfg.HTTPPort)
	require.Equal(t, "http://localhost:6333", cfg.QdrantURL)
	require.Equal(t, "genmind", cfg.QdrantCollection)
	require.Equal(t, 768, cfg.EmbeddingDim)
	require.Equal(t, 500, cfg.ChunkSize)
	require.Equal(t, 50, cfg.ChunkOverlap)
	require.Equal(t, 5, cfg.RetrievalTopK)
	require.Equal(t, 30*time.Second, cfg.ExternalCallTimeout)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("CHUNK_SIZE", "1000")
	t.Setenv("CHUNK_OVERLAP", "100")
	t.Setenv("EXTERNAL_CALL_TIMEOUT", "5s")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 1000, cfg.ChunkSize)
	require.Equal(t, 100, cfg.ChunkOverlap)
	require.Equal(t, 5*time.Second, cfg.ExternalCallTimeout)
}

func TestLoadRejectsOverlapNotSmallerThanSize(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("CHUNK_SIZE", "100")
	t.Setenv("CHUNK_OVERLAP", "100")

	_, err := Load()
	require.Error(t, err)
}
