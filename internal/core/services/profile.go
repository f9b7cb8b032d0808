package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/felt-labs/tellscan-cli/internal/core/domain"
	"github.com/felt-labs/tellscan-cli/internal/core/ports/driven"
	"github.com/felt-labs/tellscan-cli/internal/core/ports/driving"
	"github.com/felt-labs/tellscan-cli/internal/logger"
)

// Ensure ProfileService implements the interface.
var _ driving.ProfileService = (*ProfileService)(nil)

// narrativeMaxTokens caps the synthesized analysis length.
const narrativeMaxTokens = 1000

// narrativeTemperature is the sampling temperature for narrative synthesis.
const narrativeTemperature = 0.7

// ProfileService orchestrates the analysis and classification paths over the
// evidence index. The llm parameter is optional; without it, Analyze returns
// evidence and statistics with an empty narrative.
type ProfileService struct {
	retriever  *Retriever
	stats      *StatsService
	classifier *Classifier
	llm        driven.LLMService
	prompts    driven.PromptStore
	catalogue  domain.Catalogue
}

// NewProfileService creates the profiling query surface.
func NewProfileService(
	retriever *Retriever,
	stats *StatsService,
	classifier *Classifier,
	llm driven.LLMService,
	prompts driven.PromptStore,
	catalogue domain.Catalogue,
) *ProfileService {
	return &ProfileService{
		retriever:  retriever,
		stats:      stats,
		classifier: classifier,
		llm:        llm,
		prompts:    prompts,
		catalogue:  catalogue,
	}
}

// Analyze retrieves statistics and per-trait evidence for the participant and
// asks the completion provider for a narrative reading. Provider failure after
// one retry degrades to an evidence-only result with the Error field set;
// a participant with no evidence gets a structured no-evidence result.
func (s *ProfileService) Analyze(ctx context.Context, participantID string) (domain.AnalysisResult, error) {
	logger.Section("Analyze " + participantID)
	result := domain.AnalysisResult{ParticipantID: participantID}

	stats, err := s.stats.Stats(ctx, participantID)
	if err != nil {
		return result, fmt.Errorf("computing statistics: %w", err)
	}
	result.Statistics = stats

	if stats.TotalActions == 0 && stats.TotalMessages == 0 {
		result.Error = domain.ErrNoEvidence.Error()
		return result, nil
	}

	evidence, err := s.retriever.TraitEvidence(ctx, participantID)
	if err != nil {
		return result, fmt.Errorf("retrieving trait evidence: %w", err)
	}
	result.TraitEvidence = evidence

	if s.llm == nil {
		result.Error = domain.ErrLLMUnavailable.Error()
		return result, nil
	}

	prompt, err := s.buildPrompt(participantID, stats, evidence)
	if err != nil {
		return result, err
	}

	system, err := s.prompts.Get(driven.PromptAnalysisSystem)
	if err != nil {
		return result, fmt.Errorf("loading system prompt: %w", err)
	}

	var narrative string
	err = withRetry(ctx, "narrative completion", func(ctx context.Context) error {
		var chatErr error
		narrative, chatErr = s.llm.Chat(ctx, []driven.ChatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		}, driven.ChatOptions{MaxTokens: narrativeMaxTokens, Temperature: narrativeTemperature})
		return chatErr
	})
	if err != nil {
		// Evidence and statistics are still useful without the narrative.
		logger.Warn("narrative synthesis failed: %v", err)
		result.Error = fmt.Sprintf("narrative unavailable: %v", err)
		return result, nil
	}

	result.Narrative = narrative
	return result, nil
}

// Classify ranks the archetype catalogue for the participant.
func (s *ProfileService) Classify(ctx context.Context, participantID string) (domain.ClassificationResult, error) {
	logger.Section("Classify " + participantID)
	return s.classifier.Classify(ctx, participantID)
}

// Stats computes the participant's frequency distributions.
func (s *ProfileService) Stats(ctx context.Context, participantID string) (domain.Statistics, error) {
	return s.stats.Stats(ctx, participantID)
}

// buildPrompt assembles the evidence block sent to the completion provider.
// Section order, numbering and rounding are fixed so the payload is
// deterministic for a given index state.
func (s *ProfileService) buildPrompt(participantID string, stats domain.Statistics, evidence map[string]domain.TraitEvidence) (string, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "Analyze the poker personality of player %s based on the following data:\n\n", participantID)

	b.WriteString("PLAYER STATISTICS:\n")
	fmt.Fprintf(&b, "Total actions: %d\n", stats.TotalActions)
	if len(stats.ActionPercentages) > 0 {
		b.WriteString("Action percentages:\n")
		for _, action := range sortedKeys(stats.ActionPercentages) {
			fmt.Fprintf(&b, "- %s: %.1f%%\n", action, stats.ActionPercentages[action])
		}
	}
	fmt.Fprintf(&b, "\nTotal chat messages: %d\n", stats.TotalMessages)
	if len(stats.SentimentPercentages) > 0 {
		b.WriteString("Sentiment percentages:\n")
		for _, sentiment := range sortedKeys(stats.SentimentPercentages) {
			fmt.Fprintf(&b, "- %s: %.1f%%\n", sentiment, stats.SentimentPercentages[sentiment])
		}
	}

	b.WriteString("\nPERSONALITY TRAIT EXAMPLES:\n")

	// Catalogue order, not map order.
	for _, trait := range s.catalogue.Traits {
		fmt.Fprintf(&b, "\n%s TRAIT:\n", strings.ToUpper(trait.Name))

		items := evidence[trait.Name]

		if len(items.Actions) > 0 {
			b.WriteString("Actions:\n")
			for i, item := range items.Actions {
				fmt.Fprintf(&b, "%d. %s (Game stage: %s, Action: %s, Amount: %s, Similarity: %.2f)\n",
					i+1, item.Text,
					metadataField(item.Metadata, "game_stage"),
					metadataField(item.Metadata, "action"),
					metadataField(item.Metadata, "amount"),
					item.Similarity())
			}
		} else {
			b.WriteString("No actions found for this trait.\n")
		}

		if len(items.Chat) > 0 {
			b.WriteString("Chat messages:\n")
			for i, item := range items.Chat {
				fmt.Fprintf(&b, "%d. %s (Sentiment: %s, Associated action: %s, Similarity: %.2f)\n",
					i+1, item.Text,
					metadataField(item.Metadata, "sentiment"),
					metadataField(item.Metadata, "associated_action"),
					item.Similarity())
			}
		} else {
			b.WriteString("No chat messages found for this trait.\n")
		}
	}

	instruction, err := s.prompts.Get(driven.PromptAnalysisInstruction)
	if err != nil {
		return "", fmt.Errorf("loading instruction prompt: %w", err)
	}
	b.WriteString("\n")
	b.WriteString(instruction)

	return b.String(), nil
}

func metadataField(metadata map[string]string, key string) string {
	if v, ok := metadata[key]; ok && v != "" {
		return v
	}
	return "unknown"
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
