package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/genmind-ai/backend/internal/domain"
	"github.com/genmind-ai/backend/internal/ingest"
)

const maxUploadBytes = 32 << 20 // 32 MiB

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// NewConversation starts a conversation for a user. The multipart form
// carries user_id and, optionally, a query and a file for the first turn.
func (h *Handler) NewConversation(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, fmt.Errorf("invalid multipart form: %v: %w", err, domain.ErrInvalidInput))
		return
	}
	userID := r.FormValue("user_id")
	if userID == "" {
		respondError(w, fmt.Errorf("user_id is required: %w", domain.ErrInvalidInput))
		return
	}

	query := optionalFormValue(r, "query")
	filePath, err := h.saveUpload(r)
	if err != nil {
		respondError(w, err)
		return
	}

	conv, err := h.service.StartConversation(r.Context(), userID, query, filePath)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, conv)
}

// AddTurn appends a turn to an existing conversation. At least one of
// query and file must be present in the form.
func (h *Handler) AddTurn(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, fmt.Errorf("invalid multipart form: %v: %w", err, domain.ErrInvalidInput))
		return
	}
	query := optionalFormValue(r, "query")
	filePath, err := h.saveUpload(r)
	if err != nil {
		respondError(w, err)
		return
	}

	turn, err := h.service.AddTurn(r.Context(), conversationID, query, filePath)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, turn)
}

// CreateConversation creates an empty conversation for a user without
// running a turn. The optional JSON body may name the conversation.
func (h *Handler) CreateConversation(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if _, err := h.store.GetUserByID(userID); err != nil {
		respondError(w, err)
		return
	}

	var body struct {
		ConversationName string `json:"conversation_name"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body) // empty body is fine
	name := strings.TrimSpace(body.ConversationName)
	if name == "" {
		name = "Conversation " + time.Now().UTC().Format(time.RFC3339)
	}

	conv, err := h.store.CreateConversation(uuid.NewString(), userID, name)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, conv)
}

func (h *Handler) GetConversation(w http.ResponseWriter, r *http.Request) {
	conv, err := h.store.GetConversation(chi.URLParam(r, "conversationID"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, conv)
}

func (h *Handler) GetConversationIDs(w http.ResponseWriter, r *http.Request) {
	ids, err := h.store.GetConversationIDs(chi.URLParam(r, "userID"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string][]string{"conversation_ids": ids})
}

func (h *Handler) GetConversationNames(w http.ResponseWriter, r *http.Request) {
	names, err := h.store.GetConversationNames(chi.URLParam(r, "userID"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"conversations": names})
}

// optionalFormValue returns nil for an absent or empty form field so the
// orchestrator can tell "no query" apart from an empty one.
func optionalFormValue(r *http.Request, key string) *string {
	value := strings.TrimSpace(r.FormValue(key))
	if value == "" {
		return nil
	}
	return &value
}

// saveUpload stores the request's file part, if any, under the upload
// directory as <uuid>_<sanitized original name> and returns its path.
// Unsupported extensions are rejected before anything is written.
func (h *Handler) saveUpload(r *http.Request) (*string, error) {
	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading uploaded file: %v: %w", err, domain.ErrInvalidInput)
	}
	defer file.Close()

	if !ingest.SupportedExtension(header.Filename) {
		return nil, fmt.Errorf("unsupported file type %q, allowed types: %s: %w",
			filepath.Ext(header.Filename), strings.Join(ingest.SupportedExtensions(), ", "), domain.ErrInvalidInput)
	}

	name := uuid.NewString() + "_" + sanitizeFilename(header.Filename)
	path := filepath.Join(h.uploadDir, name)
	dst, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("saving uploaded file: %w", err)
	}
	defer dst.Close()
	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("saving uploaded file: %w", err)
	}
	return &path, nil
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	return unsafeFilenameChars.ReplaceAllString(base, "_")
}
