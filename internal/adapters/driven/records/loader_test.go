package records

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felt-labs/tellscan-cli/internal/core/domain"
)

const sampleRecord = `{
	"game_id": "g1",
	"actions": [
		{"player_id": "P1", "action": "raise", "game_stage": "flop", "amount": 40, "pot_size": 100, "position": "button"},
		{"player_id": "P0", "action": "fold", "game_stage": "flop", "text_description": "P0 gave up on the flop"}
	],
	"chat_messages": [
		{"player_id": "P1", "message": "I'll raise, the odds favor me."},
		{"player_id": "P0", "message": "nice hand", "sentiment": "friendly", "associated_action": "fold"}
	],
	"hand_summary": {
		"winner": "P1",
		"pot_amount": 140,
		"showdown_reached": false,
		"final_board": "Ah Kd 7c",
		"text_description": "P1 won a pot of 140 without showdown"
	}
}`

func writeRecord(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeRecord(t, t.TempDir(), "g1.json", sampleRecord)

	record, err := LoadFile(path)

	require.NoError(t, err)
	assert.Equal(t, "g1", record.GameID)
	assert.Len(t, record.Actions, 2)
	assert.Len(t, record.ChatMessages, 2)
	require.NotNil(t, record.HandSummary)
	assert.Equal(t, "P1", record.HandSummary.Winner)
}

func TestLoadFile_GeneratesGameID(t *testing.T) {
	path := writeRecord(t, t.TempDir(), "anon.json", `{"actions": []}`)

	record, err := LoadFile(path)

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(record.GameID, "game_"))
	assert.Len(t, record.GameID, len("game_")+8)
}

func TestLoadFile_Malformed(t *testing.T) {
	path := writeRecord(t, t.TempDir(), "bad.json", `{"actions": [`)

	_, err := LoadFile(path)

	assert.ErrorIs(t, err, domain.ErrMalformedRecord)
}

func TestLoadAll_SkipsMalformedFiles(t *testing.T) {
	dir := t.TempDir()
	writeRecord(t, dir, "good.json", sampleRecord)
	writeRecord(t, dir, "bad.json", `not json`)
	writeRecord(t, dir, "ignored.txt", `not a record`)

	records, err := NewLoader(dir).LoadAll()

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "g1", records[0].GameID)
}

func TestDocuments_IDScheme(t *testing.T) {
	path := writeRecord(t, t.TempDir(), "g1.json", sampleRecord)
	record, err := LoadFile(path)
	require.NoError(t, err)

	docs := Documents(record)

	require.Len(t, docs, 5)
	assert.Equal(t, "g1_action_0", docs[0].ID)
	assert.Equal(t, "g1_action_1", docs[1].ID)
	assert.Equal(t, "g1_message_0", docs[2].ID)
	assert.Equal(t, "g1_message_1", docs[3].ID)
	assert.Equal(t, "g1_summary", docs[4].ID)

	assert.Equal(t, domain.CollectionActions, docs[0].Collection())
	assert.Equal(t, domain.CollectionChat, docs[2].Collection())
	assert.Equal(t, domain.CollectionSummaries, docs[4].Collection())
}

func TestDocuments_ComposesActionText(t *testing.T) {
	record := domain.GameRecord{
		GameID: "g1",
		Actions: []domain.ActionEntry{
			{PlayerID: "P1", Action: "raise", Amount: 40, Position: "button", GameStage: "flop"},
		},
	}

	docs := Documents(record)

	require.Len(t, docs, 1)
	assert.Equal(t, "P1 raised to 40 in button position during flop", docs[0].Text)
}

func TestDocuments_PrefersRecordedText(t *testing.T) {
	record := domain.GameRecord{
		GameID: "g1",
		Actions: []domain.ActionEntry{
			{PlayerID: "P0", Action: "fold", TextDescription: "P0 gave up on the flop"},
		},
	}

	docs := Documents(record)

	require.Len(t, docs, 1)
	assert.Equal(t, "P0 gave up on the flop", docs[0].Text)
}

func TestDocuments_SkipsIncompleteEntries(t *testing.T) {
	record := domain.GameRecord{
		GameID: "g1",
		Actions: []domain.ActionEntry{
			{PlayerID: "", Action: "fold"},
			{PlayerID: "P1", Action: "call"},
		},
		ChatMessages: []domain.ChatEntry{
			{PlayerID: "P1", Message: ""},
			{PlayerID: "", Message: "hello"},
			{PlayerID: "P1", Message: "good luck"},
		},
	}

	docs := Documents(record)

	require.Len(t, docs, 2)
	// IDs keep the original entry index so re-indexing stays stable.
	assert.Equal(t, "g1_action_1", docs[0].ID)
	assert.Equal(t, "g1_message_2", docs[1].ID)
}

func TestDocuments_TagsSentimentAndAction(t *testing.T) {
	record := domain.GameRecord{
		GameID: "g1",
		ChatMessages: []domain.ChatEntry{
			{PlayerID: "P1", Message: "I'll raise, the odds favor me."},
		},
	}

	docs := Documents(record)

	require.Len(t, docs, 1)
	require.NotNil(t, docs[0].Chat)
	assert.Equal(t, "confident", docs[0].Chat.Sentiment)
	assert.Equal(t, "raise", docs[0].Chat.AssociatedAction)
}

func TestDocuments_KeepsRecordedSentiment(t *testing.T) {
	record := domain.GameRecord{
		GameID: "g1",
		ChatMessages: []domain.ChatEntry{
			{PlayerID: "P0", Message: "fold fold fold", Sentiment: "friendly", AssociatedAction: "check"},
		},
	}

	docs := Documents(record)

	require.Len(t, docs, 1)
	assert.Equal(t, "friendly", docs[0].Chat.Sentiment)
	assert.Equal(t, "check", docs[0].Chat.AssociatedAction)
}

func TestDescribeAction(t *testing.T) {
	tests := []struct {
		name   string
		action domain.ActionEntry
		want   string
	}{
		{
			name:   "raise with amount and context",
			action: domain.ActionEntry{PlayerID: "P1", Action: "raise", Amount: 40, Position: "button", GameStage: "flop"},
			want:   "P1 raised to 40 in button position during flop",
		},
		{
			name:   "fold without amount",
			action: domain.ActionEntry{PlayerID: "P0", Action: "fold", GameStage: "preflop"},
			want:   "P0 folded during preflop",
		},
		{
			name:   "check with board",
			action: domain.ActionEntry{PlayerID: "P2", Action: "check", BoardCards: "Ah Kd 7c"},
			want:   "P2 checked with board Ah Kd 7c",
		},
		{
			name:   "missing action",
			action: domain.ActionEntry{PlayerID: "P1"},
			want:   "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, describeAction(tt.action))
		})
	}
}

func TestAnalyzeSentiment(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{"I have premium cards and the odds", "confident"},
		{"time to bet and apply pressure", "aggressive"},
		{"I'll wait and be patient", "cautious"},
		{"good luck, nice playing with you", "friendly"},
		{"hmm", "neutral"},
		{"", "neutral"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AnalyzeSentiment(tt.message), "message %q", tt.message)
	}
}

func TestActionFromMessage(t *testing.T) {
	assert.Equal(t, "fold", ActionFromMessage("I fold this one"))
	assert.Equal(t, "raise", ActionFromMessage("RAISE it up"))
	assert.Equal(t, "fold", ActionFromMessage("fold or raise, tough spot"))
	assert.Equal(t, "", ActionFromMessage("nothing to say"))
}

func TestLoadDocuments(t *testing.T) {
	dir := t.TempDir()
	writeRecord(t, dir, "g1.json", sampleRecord)

	docs, err := NewLoader(dir).LoadDocuments()

	require.NoError(t, err)
	assert.Len(t, docs, 5)
}
