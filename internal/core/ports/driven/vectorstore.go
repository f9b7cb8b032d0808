package driven

import (
	"context"

	"github.com/felt-labs/tellscan-cli/internal/core/domain"
)

// VectorStore is the evidence index: three named collections, each mapping a
// document id to (embedding, metadata, source text). Implementations must
// serialize concurrent upserts to the same (collection, id) pair
// (last-writer-wins) and keep query ordering deterministic.
type VectorStore interface {
	// Upsert stores a document and its embedding, replacing any existing
	// document with the same id in that collection.
	Upsert(ctx context.Context, collection domain.Collection, doc domain.Document, embedding []float32) error

	// Query returns up to k documents nearest to the query vector, ascending
	// by cosine distance, ties broken by document id ascending. Only documents
	// whose metadata matches every filter key/value exactly are considered.
	// An unknown collection is a configuration error (domain.ErrUnknownCollection);
	// a filter matching nothing returns an empty slice and no error.
	Query(ctx context.Context, collection domain.Collection, query []float32, filter domain.Filter, k int) ([]Hit, error)

	// Get returns every document matching the filter, ordered by id ascending.
	Get(ctx context.Context, collection domain.Collection, filter domain.Filter) ([]domain.Document, error)

	// Close releases resources.
	Close() error
}

// Hit is one similarity search result.
type Hit struct {
	// Document is the matched document.
	Document domain.Document

	// Distance is the cosine distance to the query (1 - similarity).
	Distance float64
}
