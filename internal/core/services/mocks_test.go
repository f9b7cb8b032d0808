package services

import (
	"context"
	"errors"
	"hash/fnv"
	"sync"

	"github.com/felt-labs/tellscan-cli/internal/core/ports/driven"
)

// mockEmbedder implements driven.EmbeddingService with deterministic vectors.
// Identical text always yields an identical vector; explicit vectors can be
// canned per text, and failures can be injected per text.
type mockEmbedder struct {
	mu        sync.Mutex
	vectors   map[string][]float32 // canned vectors by exact text
	failTexts map[string]int       // remaining failures by exact text
	err       error                // fail every call when set
	dims      int
	calls     int
}

func newMockEmbedder() *mockEmbedder {
	return &mockEmbedder{
		vectors:   make(map[string][]float32),
		failTexts: make(map[string]int),
		dims:      4,
	}
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	if m.err != nil {
		return nil, m.err
	}
	if remaining := m.failTexts[text]; remaining > 0 {
		m.failTexts[text] = remaining - 1
		return nil, errors.New("embedding provider unavailable")
	}
	if vec, ok := m.vectors[text]; ok {
		out := make([]float32, len(vec))
		copy(out, vec)
		return out, nil
	}
	return hashVector(text, m.dims), nil
}

func (m *mockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := m.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int                 { return m.dims }
func (m *mockEmbedder) ModelName() string               { return "mock-embed" }
func (m *mockEmbedder) Ping(_ context.Context) error    { return nil }
func (m *mockEmbedder) Close() error                    { return nil }

func (m *mockEmbedder) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// hashVector derives a stable pseudo-embedding from text.
func hashVector(text string, dims int) []float32 {
	vec := make([]float32, dims)
	for i := range vec {
		h := fnv.New32a()
		h.Write([]byte{byte(i)})
		h.Write([]byte(text))
		// Map to [-1, 1).
		vec[i] = float32(int32(h.Sum32()))/float32(1<<31)
	}
	return vec
}

// mockLLM implements driven.LLMService with a canned reply.
type mockLLM struct {
	mu       sync.Mutex
	reply    string
	err      error
	failures int // fail this many calls before succeeding
	messages [][]driven.ChatMessage
}

func (m *mockLLM) Chat(_ context.Context, messages []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, messages)

	if m.err != nil {
		return "", m.err
	}
	if m.failures > 0 {
		m.failures--
		return "", errors.New("completion provider unavailable")
	}
	return m.reply, nil
}

func (m *mockLLM) ModelName() string            { return "mock-llm" }
func (m *mockLLM) Ping(_ context.Context) error { return nil }
func (m *mockLLM) Close() error                 { return nil }

// mockPromptStore implements driven.PromptStore with fixed prompts.
type mockPromptStore struct{}

func (mockPromptStore) Get(name string) (string, error) {
	switch name {
	case driven.PromptAnalysisSystem:
		return "You are an expert poker player and psychologist.", nil
	case driven.PromptAnalysisInstruction:
		return "Identify which archetype best matches this player's style.", nil
	}
	return "", errors.New("unknown prompt " + name)
}
