package driving

import (
	"context"

	"github.com/felt-labs/tellscan-cli/internal/core/domain"
)

// IndexService builds and maintains the evidence index.
type IndexService interface {
	// Reindex embeds and upserts the given documents into their collections.
	// Idempotent: re-indexing the same document id replaces the prior entry.
	// Returns the number of documents successfully indexed.
	Reindex(ctx context.Context, docs []domain.Document) (int, error)
}
