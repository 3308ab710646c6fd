package core

import (
	"fmt"

	"github.com/genmind-ai/backend/internal/domain"
)

// PersistenceError reports that the model answered but the turn could not
// be recorded. The generated response is carried along so the handler can
// still return it to the caller.
type PersistenceError struct {
	Response *domain.ModelResponse
	Err      error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("response generated but not persisted: %v", e.Err)
}

func (e *PersistenceError) Unwrap() []error {
	return []error{domain.ErrPersistence, e.Err}
}
