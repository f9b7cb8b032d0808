package services

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/felt-labs/tellscan-cli/internal/core/ports/driven"
	"github.com/felt-labs/tellscan-cli/internal/logger"
)

// DefaultMaxChunkTokens is the default per-chunk token budget. Kept below the
// embedding provider's real input limit so the chars/4 estimate stays safe.
const DefaultMaxChunkTokens = 4000

// maxConcurrentEmbeds bounds parallel chunk embedding calls.
const maxConcurrentEmbeds = 4

// Aggregator produces one representative embedding for an unbounded list of
// texts by token-budgeted chunking, per-chunk embedding, and arithmetic
// averaging of the chunk vectors.
type Aggregator struct {
	embedder  driven.EmbeddingService
	maxTokens int
}

// NewAggregator creates an aggregator with the given per-chunk token budget.
// A non-positive budget falls back to DefaultMaxChunkTokens.
func NewAggregator(embedder driven.EmbeddingService, maxTokens int) *Aggregator {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxChunkTokens
	}
	return &Aggregator{embedder: embedder, maxTokens: maxTokens}
}

// estimateTokens approximates the token count of a string as len/4.
// This is a deliberate, documented inaccuracy: it only needs to be a
// conservative-enough bound to avoid provider rejection, not exact.
func estimateTokens(s string) int {
	return len(s) / 4
}

// packChunks greedily packs texts into chunks whose estimated token count
// stays at or under maxTokens. A single text that exceeds the budget on its
// own is split at word boundaries, preserving word order and never splitting
// a word. Each packed piece reserves one extra token for the joining space,
// which keeps the joined chunk's own estimate within the budget.
func packChunks(texts []string, maxTokens int) []string {
	var chunks []string
	var current []string
	currentTokens := 0

	flush := func() {
		if len(current) > 0 {
			chunks = append(chunks, strings.Join(current, " "))
			current = nil
			currentTokens = 0
		}
	}

	for _, text := range texts {
		tokens := estimateTokens(text) + 1

		if tokens > maxTokens {
			flush()
			chunks = append(chunks, splitWords(text, maxTokens)...)
			continue
		}

		if currentTokens+tokens > maxTokens {
			flush()
		}
		current = append(current, text)
		currentTokens += tokens
	}
	flush()

	return chunks
}

// splitWords splits one oversized text into sub-chunks at word boundaries,
// each at or under the token budget.
func splitWords(text string, maxTokens int) []string {
	var chunks []string
	var current []string
	currentTokens := 0

	for _, word := range strings.Fields(text) {
		tokens := estimateTokens(word) + 1
		if currentTokens+tokens > maxTokens && len(current) > 0 {
			chunks = append(chunks, strings.Join(current, " "))
			current = nil
			currentTokens = 0
		}
		current = append(current, word)
		currentTokens += tokens
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, " "))
	}

	return chunks
}

// Aggregate chunks the texts, embeds each chunk, and returns the element-wise
// mean of the successful chunk embeddings. A chunk whose embedding call fails
// after one retry is skipped with a warning; zero successful chunks is an
// error. The output dimension always equals the provider's fixed dimension.
func (a *Aggregator) Aggregate(ctx context.Context, texts []string) ([]float32, error) {
	if a.embedder == nil {
		return nil, fmt.Errorf("aggregate: embedder is nil")
	}
	if len(texts) == 0 {
		return nil, fmt.Errorf("aggregate: no texts provided")
	}

	chunks := packChunks(texts, a.maxTokens)
	logger.Debug("packed %d texts into %d chunks", len(texts), len(chunks))

	// Chunk embeddings are mutually independent; results are keyed by chunk
	// index so aggregation order never depends on call-completion order.
	embeddings := make([][]float32, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentEmbeds)

	for i, chunk := range chunks {
		i, chunk := i, chunk
		g.Go(func() error {
			var vec []float32
			err := withRetry(gctx, fmt.Sprintf("embed chunk %d/%d", i+1, len(chunks)), func(ctx context.Context) error {
				var embedErr error
				vec, embedErr = a.embedder.Embed(ctx, chunk)
				return embedErr
			})
			if err != nil {
				// Skip this chunk; the remaining chunks still contribute.
				logger.Warn("skipping chunk %d/%d: %v", i+1, len(chunks), err)
				return nil
			}
			embeddings[i] = vec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return meanEmbedding(embeddings)
}

// meanEmbedding averages the non-nil vectors element-wise.
func meanEmbedding(embeddings [][]float32) ([]float32, error) {
	var sum []float64
	count := 0
	for _, vec := range embeddings {
		if vec == nil {
			continue
		}
		if sum == nil {
			sum = make([]float64, len(vec))
		}
		for i, v := range vec {
			sum[i] += float64(v)
		}
		count++
	}
	if count == 0 {
		return nil, fmt.Errorf("aggregate: all chunk embeddings failed")
	}

	mean := make([]float32, len(sum))
	for i, v := range sum {
		mean[i] = float32(v / float64(count))
	}
	return mean, nil
}
