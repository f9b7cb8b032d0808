package services

import (
	"context"
	"fmt"

	"github.com/felt-labs/tellscan-cli/internal/core/domain"
	"github.com/felt-labs/tellscan-cli/internal/core/ports/driven"
)

// StatsService computes frequency distributions for a participant from the
// indexed metadata. Results are never cached: a repeat call reflects the
// index's current state, so incremental re-indexing between queries shows up.
type StatsService struct {
	store driven.VectorStore
}

// NewStatsService creates a statistics aggregator over the given store.
func NewStatsService(store driven.VectorStore) *StatsService {
	return &StatsService{store: store}
}

// Stats fetches every action and chat document for the participant and
// computes counts and percentages. Zero totals yield zero percentages,
// never a division by zero.
func (s *StatsService) Stats(ctx context.Context, participantID string) (domain.Statistics, error) {
	filter := domain.Filter{"participant_id": participantID}

	actions, err := s.store.Get(ctx, domain.CollectionActions, filter)
	if err != nil {
		return domain.Statistics{}, fmt.Errorf("fetching actions: %w", err)
	}
	chat, err := s.store.Get(ctx, domain.CollectionChat, filter)
	if err != nil {
		return domain.Statistics{}, fmt.Errorf("fetching chat: %w", err)
	}

	stats := domain.Statistics{
		TotalActions:         len(actions),
		ActionCounts:         make(map[string]int),
		ActionPercentages:    make(map[string]float64),
		TotalMessages:        len(chat),
		SentimentCounts:      make(map[string]int),
		SentimentPercentages: make(map[string]float64),
	}

	for _, doc := range actions {
		action := "unknown"
		if doc.Action != nil && doc.Action.Action != "" {
			action = doc.Action.Action
		}
		stats.ActionCounts[action]++
	}
	for action, count := range stats.ActionCounts {
		stats.ActionPercentages[action] = percentage(count, stats.TotalActions)
	}

	for _, doc := range chat {
		sentiment := "unknown"
		if doc.Chat != nil && doc.Chat.Sentiment != "" {
			sentiment = doc.Chat.Sentiment
		}
		stats.SentimentCounts[sentiment]++
	}
	for sentiment, count := range stats.SentimentCounts {
		stats.SentimentPercentages[sentiment] = percentage(count, stats.TotalMessages)
	}

	return stats, nil
}

func percentage(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total) * 100
}
