package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnknownCollection indicates a query against a collection the index
	// does not know about. This is a configuration error: fatal, never retried.
	ErrUnknownCollection = errors.New("unknown collection")

	// ErrNoEvidence indicates a participant has zero indexed documents.
	// Callers surface this as a structured result, never as a crash.
	ErrNoEvidence = errors.New("no data available for this participant")

	// ErrMalformedRecord indicates a source game record is missing required
	// fields. The record is skipped during loading; it never aborts the corpus.
	ErrMalformedRecord = errors.New("malformed game record")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	// Indexing, retrieval and classification all require embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrLLMUnavailable indicates the completion service is not configured.
	// Narrative synthesis degrades to evidence-only output without it.
	ErrLLMUnavailable = errors.New("LLM service unavailable")
)
