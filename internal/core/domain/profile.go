package domain

// Statistics is a frequency snapshot of a participant's indexed evidence.
// It is computed on demand and never cached, so repeat calls reflect the
// index's current state.
type Statistics struct {
	TotalActions         int                `json:"total_actions"`
	ActionCounts         map[string]int     `json:"action_counts"`
	ActionPercentages    map[string]float64 `json:"action_percentages"`
	TotalMessages        int                `json:"total_messages"`
	SentimentCounts      map[string]int     `json:"sentiment_counts"`
	SentimentPercentages map[string]float64 `json:"sentiment_percentages"`
}

// EvidenceItem is one retrieved document with its distance to the trait probe.
type EvidenceItem struct {
	Text     string            `json:"text"`
	Distance float64           `json:"distance"`
	Metadata map[string]string `json:"metadata"`
}

// Similarity is 1 - distance, the score shown to callers.
func (e EvidenceItem) Similarity() float64 {
	return 1 - e.Distance
}

// TraitEvidence holds the top-K matching actions and chat lines for one trait.
type TraitEvidence struct {
	Actions []EvidenceItem `json:"actions"`
	Chat    []EvidenceItem `json:"chat"`
}

// AnalysisResult is the output of an analyze call. Error is set instead of
// failing when the participant has no indexed evidence or the narrative
// provider is unavailable.
type AnalysisResult struct {
	ParticipantID string                   `json:"participant_id"`
	Statistics    Statistics               `json:"statistics"`
	TraitEvidence map[string]TraitEvidence `json:"trait_evidence"`
	Narrative     string                   `json:"narrative,omitempty"`
	Error         string                   `json:"error,omitempty"`
}

// ArchetypeScore is one archetype's ranked similarity to a participant.
type ArchetypeScore struct {
	Name       string  `json:"name"`
	Similarity float64 `json:"similarity"`
}

// ClassificationResult is the output of a classify call. Rankings are sorted
// descending by similarity, ties broken by archetype name ascending. Error is
// set instead of failing when the participant has no indexed evidence.
type ClassificationResult struct {
	ParticipantID  string           `json:"participant_id"`
	Rankings       []ArchetypeScore `json:"archetype_similarities,omitempty"`
	BestMatch      string           `json:"best_match,omitempty"`
	BestMatchScore float64          `json:"best_match_score,omitempty"`
	Error          string           `json:"error,omitempty"`
}
