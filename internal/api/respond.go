package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/genmind-ai/backend/internal/core"
	"github.com/genmind-ai/backend/internal/domain"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// respondError maps the error taxonomy onto status codes. A persistence
// failure after a successful model call still returns the generated
// response so the caller does not lose the answer.
func respondError(w http.ResponseWriter, err error) {
	var persistErr *core.PersistenceError
	if errors.As(err, &persistErr) {
		respondJSON(w, http.StatusInternalServerError, map[string]any{
			"error":    persistErr.Error(),
			"response": persistErr.Response,
		})
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrIngestion):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicate):
		status = http.StatusConflict
	}
	respondJSON(w, status, map[string]string{"error": err.Error()})
}
