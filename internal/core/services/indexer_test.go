package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felt-labs/tellscan-cli/internal/adapters/driven/storage/memory"
	"github.com/felt-labs/tellscan-cli/internal/core/domain"
)

func actionDoc(id, participant, text string) domain.Document {
	return domain.Document{
		ID:            id,
		GameID:        "g1",
		ParticipantID: participant,
		Text:          text,
		Action:        &domain.ActionMetadata{Action: "raise"},
	}
}

func TestReindex_IndexesDocuments(t *testing.T) {
	store := memory.NewVectorStore()
	indexer := NewIndexer(store, newMockEmbedder())

	docs := []domain.Document{
		actionDoc("g1_action_0", "P1", "P1 raised to 40"),
		actionDoc("g1_action_1", "P0", "P0 folded"),
	}

	indexed, err := indexer.Reindex(context.Background(), docs)

	require.NoError(t, err)
	assert.Equal(t, 2, indexed)

	stored, err := store.Get(context.Background(), domain.CollectionActions, nil)
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestReindex_Idempotent(t *testing.T) {
	store := memory.NewVectorStore()
	indexer := NewIndexer(store, newMockEmbedder())

	docs := []domain.Document{actionDoc("g1_action_0", "P1", "P1 raised to 40")}

	_, err := indexer.Reindex(context.Background(), docs)
	require.NoError(t, err)
	_, err = indexer.Reindex(context.Background(), docs)
	require.NoError(t, err)

	stored, err := store.Get(context.Background(), domain.CollectionActions, nil)
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestReindex_UpsertReplacesContent(t *testing.T) {
	store := memory.NewVectorStore()
	indexer := NewIndexer(store, newMockEmbedder())
	ctx := context.Background()

	_, err := indexer.Reindex(ctx, []domain.Document{actionDoc("g1_action_0", "P1", "P1 raised to 40")})
	require.NoError(t, err)
	_, err = indexer.Reindex(ctx, []domain.Document{actionDoc("g1_action_0", "P1", "P1 raised to 80")})
	require.NoError(t, err)

	stored, err := store.Get(ctx, domain.CollectionActions, nil)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "P1 raised to 80", stored[0].Text)
}

func TestReindex_SkipsMalformedDocuments(t *testing.T) {
	store := memory.NewVectorStore()
	indexer := NewIndexer(store, newMockEmbedder())

	docs := []domain.Document{
		actionDoc("g1_action_0", "P1", "P1 raised to 40"),
		{ID: "g1_action_1", ParticipantID: "P1", Text: ""},                      // no text
		{ID: "", ParticipantID: "P1", Text: "P1 folded"},                        // no id
		{ID: "g1_orphan", ParticipantID: "P1", Text: "no metadata variant set"}, // no collection
	}

	indexed, err := indexer.Reindex(context.Background(), docs)

	require.NoError(t, err)
	assert.Equal(t, 1, indexed)
}

func TestReindex_SkipsFailedBatch(t *testing.T) {
	store := memory.NewVectorStore()
	embedder := newMockEmbedder()
	embedder.failTexts["P1 raised to 40"] = 2

	indexer := NewIndexer(store, embedder)
	docs := []domain.Document{actionDoc("g1_action_0", "P1", "P1 raised to 40")}

	indexed, err := indexer.Reindex(context.Background(), docs)

	require.NoError(t, err)
	assert.Zero(t, indexed)
}

func TestReindex_NilEmbedder(t *testing.T) {
	indexer := NewIndexer(memory.NewVectorStore(), nil)

	_, err := indexer.Reindex(context.Background(), []domain.Document{actionDoc("a", "P1", "x")})

	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestReindex_MultipleBatches(t *testing.T) {
	store := memory.NewVectorStore()
	embedder := newMockEmbedder()
	indexer := NewIndexer(store, embedder)

	docs := make([]domain.Document, 0, embedBatchSize+5)
	for i := 0; i < embedBatchSize+5; i++ {
		docs = append(docs, actionDoc(
			string(rune('a'+i%26))+string(rune('a'+i/26))+"_action",
			"P1",
			"P1 called round "+string(rune('a'+i%26)),
		))
	}

	indexed, err := indexer.Reindex(context.Background(), docs)

	require.NoError(t, err)
	assert.Equal(t, embedBatchSize+5, indexed)
}
