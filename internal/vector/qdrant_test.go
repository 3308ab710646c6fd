package vector

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/genmind-ai/backend/internal/domain"
)

func newQdrantTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *QdrantIndex) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	index := NewQdrantIndex(QdrantConfig{URL: srv.URL, APIKey: "secret", Collection: "genmind"})
	return srv, index
}

func TestEnsureCollectionRequest(t *testing.T) {
	var gotPath, gotKey string
	var gotBody map[string]any
	_, index := newQdrantTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		gotKey = r.Header.Get("api-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, index.EnsureCollection(context.Background(), 768))
	require.Equal(t, "PUT /collections/genmind", gotPath)
	require.Equal(t, "secret", gotKey)

	vectors := gotBody["vectors"].(map[string]any)
	require.Equal(t, float64(768), vectors["size"])
	require.Equal(t, "Cosine", vectors["distance"])
}

func TestEnsureCollectionRejectsBadDimension(t *testing.T) {
	index := NewQdrantIndex(QdrantConfig{URL: "http://unused", Collection: "genmind"})
	require.Error(t, index.EnsureCollection(context.Background(), 0))
}

func TestUpsertSendsTaggedPayloads(t *testing.T) {
	var gotBody struct {
		Points []struct {
			ID      string         `json:"id"`
			Vector  []float32      `json:"vector"`
			Payload map[string]any `json:"payload"`
		} `json:"points"`
	}
	var gotWait string
	_, index := newQdrantTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotWait = r.URL.Query().Get("wait")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	})

	chunks := []domain.Chunk{
		{UserID: "u1", ConversationID: "c1", FilePath: "a.txt", Text: "hello", Index: 0},
		{UserID: "u1", ConversationID: "c1", FilePath: "a.txt", Text: "world", Index: 1},
	}
	vectors := [][]float32{{1, 0}, {0, 1}}
	require.NoError(t, index.Upsert(context.Background(), chunks, vectors))

	require.Equal(t, "true", gotWait)
	require.Len(t, gotBody.Points, 2)
	require.NotEmpty(t, gotBody.Points[0].ID)
	require.Equal(t, "u1", gotBody.Points[0].Payload["user_id"])
	require.Equal(t, "hello", gotBody.Points[0].Payload["page_content"])
	require.Equal(t, float64(1), gotBody.Points[1].Payload["chunk_index"])
}

func TestUpsertLengthMismatch(t *testing.T) {
	index := NewQdrantIndex(QdrantConfig{URL: "http://unused", Collection: "genmind"})
	err := index.Upsert(context.Background(), []domain.Chunk{{Text: "a"}}, nil)
	require.Error(t, err)
}

func TestSearchFiltersByUserAndParsesHits(t *testing.T) {
	var gotReq map[string]any
	_, index := newQdrantTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/collections/genmind/points/search", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(map[string]any{
			"result": []map[string]any{
				{
					"score": 0.91,
					"payload": map[string]any{
						"user_id":         "u1",
						"conversation_id": "c1",
						"file_path":       "a.txt",
						"page_content":    "hello",
						"chunk_index":     3,
					},
				},
			},
		})
	})

	hits, err := index.Search(context.Background(), []float32{1, 0}, "u1", 5)
	require.NoError(t, err)

	// The user filter must be in the request body, not applied client-side.
	filter := gotReq["filter"].(map[string]any)
	must := filter["must"].([]any)
	require.Len(t, must, 1)
	cond := must[0].(map[string]any)
	require.Equal(t, "user_id", cond["key"])
	require.Equal(t, "u1", cond["match"].(map[string]any)["value"])
	require.Equal(t, float64(5), gotReq["limit"])
	require.Equal(t, true, gotReq["with_payload"])

	require.Len(t, hits, 1)
	require.Equal(t, "hello", hits[0].Chunk.Text)
	require.Equal(t, 3, hits[0].Chunk.Index)
	require.InDelta(t, 0.91, float64(hits[0].Score), 1e-6)
}

func TestSearchServerError(t *testing.T) {
	_, index := newQdrantTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	_, err := index.Search(context.Background(), []float32{1, 0}, "u1", 5)
	require.Error(t, err)
}
