package driven

// Prompt names used by the profile service.
const (
	// PromptAnalysisSystem is the system role for narrative synthesis.
	PromptAnalysisSystem = "analysis_system"

	// PromptAnalysisInstruction is the fixed instructional suffix appended to
	// the evidence block, restating the trait definitions and asking for an
	// archetype judgment.
	PromptAnalysisInstruction = "analysis_instruction"
)

// PromptStore provides named prompt templates for LLM calls.
// Implementations may load user-editable files with embedded defaults.
type PromptStore interface {
	// Get returns the prompt with the given name.
	Get(name string) (string, error)
}
