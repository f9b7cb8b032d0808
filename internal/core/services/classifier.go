package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/felt-labs/tellscan-cli/internal/core/domain"
	"github.com/felt-labs/tellscan-cli/internal/core/ports/driven"
	"github.com/felt-labs/tellscan-cli/internal/logger"
)

// Classifier ranks the archetype catalogue by cosine similarity to a
// participant's aggregate embedding.
type Classifier struct {
	store      driven.VectorStore
	aggregator *Aggregator
	catalogue  domain.Catalogue
}

// NewClassifier creates an archetype classifier.
func NewClassifier(store driven.VectorStore, aggregator *Aggregator, catalogue domain.Catalogue) *Classifier {
	return &Classifier{store: store, aggregator: aggregator, catalogue: catalogue}
}

// Classify collects every action and chat text belonging to the participant
// (summaries excluded), aggregates one embedding over them, and compares it
// against each archetype's aggregate embedding. A participant with zero
// indexed documents yields a structured no-evidence result, not an error.
func (c *Classifier) Classify(ctx context.Context, participantID string) (domain.ClassificationResult, error) {
	result := domain.ClassificationResult{ParticipantID: participantID}

	texts, err := c.participantTexts(ctx, participantID)
	if err != nil {
		return result, err
	}
	if len(texts) == 0 {
		result.Error = domain.ErrNoEvidence.Error()
		return result, nil
	}

	logger.Debug("classifying %s over %d texts", participantID, len(texts))

	participantVec, err := c.aggregator.Aggregate(ctx, texts)
	if err != nil {
		return result, fmt.Errorf("aggregating participant embedding: %w", err)
	}

	rankings := make([]domain.ArchetypeScore, 0, len(c.catalogue.Archetypes))
	for _, archetype := range c.catalogue.Archetypes {
		// Archetype descriptions are short enough for a single chunk, but they
		// go through the same aggregation path as participant text so both
		// sides of the comparison are produced identically.
		archetypeVec, err := c.aggregator.Aggregate(ctx, []string{archetype.Description})
		if err != nil {
			return result, fmt.Errorf("aggregating archetype %q: %w", archetype.Name, err)
		}
		rankings = append(rankings, domain.ArchetypeScore{
			Name:       archetype.Name,
			Similarity: domain.CosineSimilarity(participantVec, archetypeVec),
		})
	}

	sort.SliceStable(rankings, func(i, j int) bool {
		if rankings[i].Similarity != rankings[j].Similarity {
			return rankings[i].Similarity > rankings[j].Similarity
		}
		return rankings[i].Name < rankings[j].Name
	})

	result.Rankings = rankings
	result.BestMatch = rankings[0].Name
	result.BestMatchScore = rankings[0].Similarity
	return result, nil
}

// participantTexts returns the source text of every action and chat document
// for the participant, in the store's deterministic order.
func (c *Classifier) participantTexts(ctx context.Context, participantID string) ([]string, error) {
	filter := domain.Filter{"participant_id": participantID}

	var texts []string
	for _, collection := range []domain.Collection{domain.CollectionActions, domain.CollectionChat} {
		docs, err := c.store.Get(ctx, collection, filter)
		if err != nil {
			return nil, fmt.Errorf("fetching %s: %w", collection, err)
		}
		for _, doc := range docs {
			texts = append(texts, doc.Text)
		}
	}
	return texts, nil
}
