package domain

import "errors"

// Error kinds surfaced to callers. Handlers match these with errors.Is to
// pick a status code; no operation retries internally.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrDuplicate    = errors.New("resource already exists")
	ErrIngestion    = errors.New("ingestion failed")
	ErrRetrieval    = errors.New("retrieval failed")
	ErrModel        = errors.New("model invocation failed")
	ErrPersistence  = errors.New("persistence failed")
)
