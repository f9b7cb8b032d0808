package services

import (
	"context"
	"fmt"

	"github.com/felt-labs/tellscan-cli/internal/core/domain"
	"github.com/felt-labs/tellscan-cli/internal/core/ports/driven"
	"github.com/felt-labs/tellscan-cli/internal/core/ports/driving"
	"github.com/felt-labs/tellscan-cli/internal/logger"
)

// Ensure Indexer implements the interface.
var _ driving.IndexService = (*Indexer)(nil)

// embedBatchSize is the number of documents embedded per provider call.
const embedBatchSize = 32

// Indexer embeds document source texts and upserts them into the vector store.
type Indexer struct {
	store    driven.VectorStore
	embedder driven.EmbeddingService
}

// NewIndexer creates an index service.
func NewIndexer(store driven.VectorStore, embedder driven.EmbeddingService) *Indexer {
	return &Indexer{store: store, embedder: embedder}
}

// Reindex embeds and upserts the documents in batches. A batch whose
// embedding call fails after one retry is skipped with a warning; the rest
// of the corpus still indexes. Documents with no variant or no text are
// skipped as malformed.
func (x *Indexer) Reindex(ctx context.Context, docs []domain.Document) (int, error) {
	if x.embedder == nil {
		return 0, domain.ErrEmbeddingUnavailable
	}

	indexed := 0
	for start := 0; start < len(docs); start += embedBatchSize {
		end := min(start+embedBatchSize, len(docs))

		batch := make([]domain.Document, 0, end-start)
		texts := make([]string, 0, end-start)
		for _, doc := range docs[start:end] {
			if doc.Collection() == "" || doc.Text == "" || doc.ID == "" {
				logger.Warn("skipping malformed document %q", doc.ID)
				continue
			}
			batch = append(batch, doc)
			texts = append(texts, doc.Text)
		}
		if len(batch) == 0 {
			continue
		}

		var embeddings [][]float32
		err := withRetry(ctx, "embed batch", func(ctx context.Context) error {
			var embedErr error
			embeddings, embedErr = x.embedder.EmbedBatch(ctx, texts)
			return embedErr
		})
		if err != nil {
			logger.Warn("skipping batch of %d documents: %v", len(batch), err)
			continue
		}
		if len(embeddings) != len(batch) {
			return indexed, fmt.Errorf("reindex: got %d embeddings for %d texts", len(embeddings), len(batch))
		}

		for i, doc := range batch {
			if err := x.store.Upsert(ctx, doc.Collection(), doc, embeddings[i]); err != nil {
				return indexed, fmt.Errorf("upserting %q: %w", doc.ID, err)
			}
			indexed++
		}
	}

	logger.Info("indexed %d of %d documents", indexed, len(docs))
	return indexed, nil
}
