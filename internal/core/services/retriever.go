package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/felt-labs/tellscan-cli/internal/core/domain"
	"github.com/felt-labs/tellscan-cli/internal/core/ports/driven"
	"github.com/felt-labs/tellscan-cli/internal/logger"
)

// DefaultEvidenceK is the number of documents retrieved per trait per collection.
const DefaultEvidenceK = 3

// Retriever finds, for each catalogue trait, the participant's top-K most
// similar action and chat documents.
type Retriever struct {
	store     driven.VectorStore
	embedder  driven.EmbeddingService
	catalogue domain.Catalogue
	k         int
}

// NewRetriever creates a trait evidence retriever. A non-positive k falls
// back to DefaultEvidenceK.
func NewRetriever(store driven.VectorStore, embedder driven.EmbeddingService, catalogue domain.Catalogue, k int) *Retriever {
	if k <= 0 {
		k = DefaultEvidenceK
	}
	return &Retriever{store: store, embedder: embedder, catalogue: catalogue, k: k}
}

// TraitEvidence retrieves evidence for every trait in the catalogue.
// Per-trait retrievals are independent and run concurrently; results are
// keyed by trait name, never by completion order. A trait whose probe
// embedding fails after one retry contributes empty evidence rather than
// failing the request.
func (r *Retriever) TraitEvidence(ctx context.Context, participantID string) (map[string]domain.TraitEvidence, error) {
	if r.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	results := make([]domain.TraitEvidence, len(r.catalogue.Traits))

	g, gctx := errgroup.WithContext(ctx)
	for i, trait := range r.catalogue.Traits {
		i, trait := i, trait
		g.Go(func() error {
			evidence, err := r.retrieveTrait(gctx, participantID, trait)
			if err != nil {
				logger.Warn("trait %q: no evidence retrieved: %v", trait.Name, err)
				return nil
			}
			results[i] = evidence
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	evidence := make(map[string]domain.TraitEvidence, len(r.catalogue.Traits))
	for i, trait := range r.catalogue.Traits {
		evidence[trait.Name] = results[i]
	}
	return evidence, nil
}

func (r *Retriever) retrieveTrait(ctx context.Context, participantID string, trait domain.TraitQuery) (domain.TraitEvidence, error) {
	var probe []float32
	err := withRetry(ctx, fmt.Sprintf("embed trait %q", trait.Name), func(ctx context.Context) error {
		var embedErr error
		probe, embedErr = r.embedder.Embed(ctx, trait.Description)
		return embedErr
	})
	if err != nil {
		return domain.TraitEvidence{}, fmt.Errorf("embedding trait probe: %w", err)
	}

	filter := domain.Filter{"participant_id": participantID}

	actionHits, err := r.store.Query(ctx, domain.CollectionActions, probe, filter, r.k)
	if err != nil {
		return domain.TraitEvidence{}, fmt.Errorf("querying actions: %w", err)
	}
	chatHits, err := r.store.Query(ctx, domain.CollectionChat, probe, filter, r.k)
	if err != nil {
		return domain.TraitEvidence{}, fmt.Errorf("querying chat: %w", err)
	}

	return domain.TraitEvidence{
		Actions: toEvidence(actionHits),
		Chat:    toEvidence(chatHits),
	}, nil
}

func toEvidence(hits []driven.Hit) []domain.EvidenceItem {
	items := make([]domain.EvidenceItem, 0, len(hits))
	for _, hit := range hits {
		items = append(items, domain.EvidenceItem{
			Text:     hit.Document.Text,
			Distance: hit.Distance,
			Metadata: hit.Document.Fields(),
		})
	}
	return items
}
