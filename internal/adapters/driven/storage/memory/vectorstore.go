// Package memory provides an in-memory vector store.
// Suitable for tests and ephemeral runs; the index can always be rebuilt
// from the source game records.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/felt-labs/tellscan-cli/internal/core/domain"
	"github.com/felt-labs/tellscan-cli/internal/core/ports/driven"
)

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

type entry struct {
	doc domain.Document
	vec []float32
}

// VectorStore is an in-memory implementation of driven.VectorStore.
// Searches are exact brute-force scans over the collection; ordering is
// deterministic (distance ascending, then document id ascending).
type VectorStore struct {
	mu          sync.RWMutex
	collections map[domain.Collection]map[string]entry
}

// NewVectorStore creates a store with the three configured collections.
func NewVectorStore() *VectorStore {
	collections := make(map[domain.Collection]map[string]entry)
	for _, c := range domain.Collections() {
		collections[c] = make(map[string]entry)
	}
	return &VectorStore{collections: collections}
}

// Upsert stores the document, replacing any prior entry with the same id.
func (s *VectorStore) Upsert(_ context.Context, collection domain.Collection, doc domain.Document, embedding []float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, ok := s.collections[collection]
	if !ok {
		return fmt.Errorf("%w: %q", domain.ErrUnknownCollection, collection)
	}
	if doc.ID == "" {
		return fmt.Errorf("%w: document has no id", domain.ErrInvalidInput)
	}

	vec := make([]float32, len(embedding))
	copy(vec, embedding)
	docs[doc.ID] = entry{doc: doc, vec: vec}
	return nil
}

// Query returns up to k filtered documents nearest to the query vector.
func (s *VectorStore) Query(_ context.Context, collection domain.Collection, query []float32, filter domain.Filter, k int) ([]driven.Hit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs, ok := s.collections[collection]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownCollection, collection)
	}

	hits := make([]driven.Hit, 0, len(docs))
	for _, e := range docs {
		if !filter.Matches(e.doc) {
			continue
		}
		hits = append(hits, driven.Hit{
			Document: e.doc,
			Distance: domain.CosineDistance(query, e.vec),
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Distance != hits[j].Distance {
			return hits[i].Distance < hits[j].Distance
		}
		return hits[i].Document.ID < hits[j].Document.ID
	})

	if k >= 0 && len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// Get returns every document matching the filter, ordered by id ascending.
func (s *VectorStore) Get(_ context.Context, collection domain.Collection, filter domain.Filter) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs, ok := s.collections[collection]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownCollection, collection)
	}

	result := make([]domain.Document, 0, len(docs))
	for _, e := range docs {
		if filter.Matches(e.doc) {
			result = append(result, e.doc)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// Close releases resources. A no-op for the in-memory store.
func (s *VectorStore) Close() error {
	return nil
}
