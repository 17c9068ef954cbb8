package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrStorage indicates the persisted store could not be read or
	// written (disk full, permissions, corrupt file). Operations abort
	// without partial effect on the persisted state.
	ErrStorage = errors.New("storage failure")

	// ErrEmbedding indicates the external embedding call failed.
	// The current operation aborts; no retry is built in.
	ErrEmbedding = errors.New("embedding service failure")

	// ErrModel indicates the external language model call failed
	// (rate limit, auth, timeout). No retry is built in.
	ErrModel = errors.New("language model failure")

	// ErrLLMUnavailable indicates no LLM service is configured.
	// Asking questions requires one; indexing does not.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates no embedding service is configured.
	// The vector store cannot operate without one.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")
)
