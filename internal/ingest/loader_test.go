package ingest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/genmind-ai/backend/internal/domain"
)

func TestSupportedExtension(t *testing.T) {
	for _, name := range []string{"a.txt", "b.PDF", "c.docx", "d.doc", "e.png", "f.jpg", "g.JPEG"} {
		require.True(t, SupportedExtension(name), name)
	}
	for _, name := range []string{"a.exe", "b.csv", "noext", "c.txt.gz"} {
		require.False(t, SupportedExtension(name), name)
	}
}

func TestExtractTextRejectsUnsupportedBeforeFileAccess(t *testing.T) {
	// The file does not exist; rejection must happen on extension alone.
	_, err := ExtractText("/nonexistent/report.csv")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	require.Contains(t, err.Error(), "unsupported file type")
}

func TestExtractTextPlainText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "note.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello from a text file"), 0o644))

	text, err := ExtractText(path)
	require.NoError(t, err)
	require.Equal(t, "hello from a text file", text)
}

func TestExtractTextMissingFile(t *testing.T) {
	_, err := ExtractText(filepath.Join(t.TempDir(), "gone.txt"))
	require.Error(t, err)
	require.False(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestSupportedExtensionsSortedAndDotless(t *testing.T) {
	exts := SupportedExtensions()
	require.Equal(t, []string{"doc", "docx", "jpeg", "jpg", "pdf", "png", "txt"}, exts)
}
