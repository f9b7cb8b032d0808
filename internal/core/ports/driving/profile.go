package driving

import (
	"context"

	"github.com/felt-labs/tellscan-cli/internal/core/domain"
)

// ProfileService is the query surface of the profiling core.
// Analyze and Classify always return a structured result: data-sparsity
// conditions are reported in the result's Error field, not as Go errors.
type ProfileService interface {
	// Analyze retrieves trait evidence and statistics for a participant and
	// synthesizes a narrative analysis.
	Analyze(ctx context.Context, participantID string) (domain.AnalysisResult, error)

	// Classify ranks the archetype catalogue by similarity to the
	// participant's aggregate embedding.
	Classify(ctx context.Context, participantID string) (domain.ClassificationResult, error)

	// Stats computes the participant's action and sentiment distributions.
	Stats(ctx context.Context, participantID string) (domain.Statistics, error)
}
