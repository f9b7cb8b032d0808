package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/felt-labs/tellscan-cli/internal/core/ports/driven"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore loads LLM prompts from user-editable files on disk.
// Prompts come from a configurable directory with fallback to embedded
// defaults; files are only created when first accessed, not in the
// constructor, which keeps testing free of unexpected I/O.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
}

// defaultPrompts contains embedded default prompts.
// These are used when user files don't exist and as the initial content for new files.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var defaultPrompts = map[string]string{
	driven.PromptAnalysisSystem: `You are an expert poker player and psychologist specializing in analyzing poker player personalities.`,

	driven.PromptAnalysisInstruction: `Based on the above data, analyze the player's poker personality. Consider the following aspects:
1. Aggression: Tendency to bet and raise rather than check and call
2. Bluff tendency: Willingness to represent hands they don't have
3. Risk tolerance: Comfort with variance and willingness to gamble
4. Adaptability: How quickly they adjust to opponents' strategies
5. Tilt prone: Tendency to play emotionally after setbacks
6. Patience: Willingness to wait for premium hands

Finally, identify which poker archetype (tight_aggressive, loose_passive, maniac, rock, tricky, or calling_station) best matches this player's style.`,
}

// NewPromptStore creates a prompt store over the given directory.
// If promptDir is empty, defaults to ~/.tellscan/prompts.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		promptDir = filepath.Join(home, ".tellscan", "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// Get returns the prompt with the given name, from the user file when one
// exists, otherwise the embedded default.
func (s *PromptStore) Get(name string) (string, error) {
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		return "", s.initErr
	}

	s.mu.RLock()
	prompt, ok := s.cache[name]
	s.mu.RUnlock()
	if ok {
		return prompt, nil
	}

	if prompt, ok := defaultPrompts[name]; ok {
		return prompt, nil
	}
	return "", fmt.Errorf("unknown prompt %q", name)
}

// initialise creates the prompt directory with default files if missing, and
// loads any user-edited prompts into the cache.
func (s *PromptStore) initialise() {
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("creating prompt directory: %w", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for name, defaultContent := range defaultPrompts {
		path := filepath.Join(s.promptDir, name+".txt")

		content, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				s.initErr = fmt.Errorf("reading prompt %q: %w", name, err)
				return
			}
			// Seed the file so users can discover and edit it.
			if err := os.WriteFile(path, []byte(defaultContent), 0600); err != nil {
				s.initErr = fmt.Errorf("seeding prompt %q: %w", name, err)
				return
			}
			continue
		}

		if trimmed := strings.TrimSpace(string(content)); trimmed != "" {
			s.cache[name] = trimmed
		}
	}
}
