// Package records loads per-game JSON documents from a directory and turns
// them into index-ready evidence documents. Malformed files and entries are
// skipped with a warning; they never block the rest of the corpus.
package records

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/felt-labs/tellscan-cli/internal/core/domain"
	"github.com/felt-labs/tellscan-cli/internal/logger"
)

// Loader reads game records from disk.
type Loader struct {
	dir string
}

// NewLoader creates a loader over the given directory.
func NewLoader(dir string) *Loader {
	return &Loader{dir: dir}
}

// LoadAll reads every *.json file in the directory into game records.
func (l *Loader) LoadAll() ([]domain.GameRecord, error) {
	paths, err := filepath.Glob(filepath.Join(l.dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", l.dir, err)
	}

	records := make([]domain.GameRecord, 0, len(paths))
	for _, path := range paths {
		record, err := LoadFile(path)
		if err != nil {
			logger.Warn("skipping %s: %v", path, err)
			continue
		}
		records = append(records, record)
	}

	logger.Info("loaded %d game records from %s", len(records), l.dir)
	return records, nil
}

// LoadFile reads a single game record. Records without a game id get a
// generated one, matching the recorder's own naming.
func LoadFile(path string) (domain.GameRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.GameRecord{}, fmt.Errorf("reading file: %w", err)
	}

	var record domain.GameRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return domain.GameRecord{}, fmt.Errorf("%w: %v", domain.ErrMalformedRecord, err)
	}

	if record.GameID == "" {
		record.GameID = "game_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	}
	return record, nil
}

// Documents converts a game record into evidence documents for the index.
// Entries missing a participant or any usable text are skipped with a warning.
func Documents(record domain.GameRecord) []domain.Document {
	docs := make([]domain.Document, 0, len(record.Actions)+len(record.ChatMessages)+1)

	for i, action := range record.Actions {
		text := action.TextDescription
		if text == "" {
			text = describeAction(action)
		}
		if action.PlayerID == "" || text == "" {
			logger.Warn("game %s: skipping action %d: missing participant or text", record.GameID, i)
			continue
		}
		docs = append(docs, domain.Document{
			ID:            fmt.Sprintf("%s_action_%d", record.GameID, i),
			GameID:        record.GameID,
			ParticipantID: action.PlayerID,
			Text:          text,
			Action: &domain.ActionMetadata{
				Action:     action.Action,
				GameStage:  action.GameStage,
				Amount:     action.Amount,
				PotSize:    action.PotSize,
				Position:   action.Position,
				BoardCards: action.BoardCards,
			},
		})
	}

	for i, msg := range record.ChatMessages {
		if msg.PlayerID == "" || msg.Message == "" {
			logger.Warn("game %s: skipping chat message %d: missing participant or text", record.GameID, i)
			continue
		}
		sentiment := msg.Sentiment
		if sentiment == "" {
			sentiment = AnalyzeSentiment(msg.Message)
		}
		associated := msg.AssociatedAction
		if associated == "" {
			associated = ActionFromMessage(msg.Message)
		}
		docs = append(docs, domain.Document{
			ID:            fmt.Sprintf("%s_message_%d", record.GameID, i),
			GameID:        record.GameID,
			ParticipantID: msg.PlayerID,
			Text:          msg.Message,
			Chat: &domain.ChatMetadata{
				Sentiment:        sentiment,
				AssociatedAction: associated,
			},
		})
	}

	if record.HandSummary != nil && record.HandSummary.TextDescription != "" {
		summary := record.HandSummary
		docs = append(docs, domain.Document{
			ID:     record.GameID + "_summary",
			GameID: record.GameID,
			Text:   summary.TextDescription,
			Summary: &domain.SummaryMetadata{
				Winner:          summary.Winner,
				PotAmount:       summary.PotAmount,
				ShowdownReached: summary.ShowdownReached,
				FinalBoard:      summary.FinalBoard,
			},
		})
	}

	return docs
}

// LoadDocuments loads every record in the directory and flattens them into
// index-ready documents.
func (l *Loader) LoadDocuments() ([]domain.Document, error) {
	records, err := l.LoadAll()
	if err != nil {
		return nil, err
	}
	var docs []domain.Document
	for _, record := range records {
		docs = append(docs, Documents(record)...)
	}
	return docs, nil
}

// describeAction composes a text description for action records that lack one,
// matching the recorder's phrasing.
func describeAction(action domain.ActionEntry) string {
	if action.PlayerID == "" || action.Action == "" {
		return ""
	}
	verb := action.Action + "ed"
	if strings.HasSuffix(action.Action, "e") {
		verb = action.Action + "d"
	}
	text := action.PlayerID + " " + verb
	if action.Amount > 0 {
		text += fmt.Sprintf(" to %d", action.Amount)
	}
	if action.Position != "" {
		text += " in " + action.Position + " position"
	}
	if action.GameStage != "" {
		text += " during " + action.GameStage
	}
	if action.BoardCards != "" {
		text += " with board " + action.BoardCards
	}
	return text
}

// Sentiment keyword lists, in dominance order for ties.
var sentimentKeywords = []struct {
	name  string
	words []string
}{
	{"confident", []string{"confident", "strong", "value", "edge", "calculated", "odds", "premium"}},
	{"aggressive", []string{"raise", "bet", "pressure", "aggressive", "action", "attack"}},
	{"cautious", []string{"careful", "fold", "wait", "patient", "risk"}},
	{"friendly", []string{"fun", "nice", "good", "luck", "enjoy", "interesting"}},
}

// AnalyzeSentiment tags a chat message with a coarse sentiment label using
// keyword counting. Messages matching no keyword are neutral.
func AnalyzeSentiment(message string) string {
	message = strings.ToLower(message)

	best := "neutral"
	bestCount := 0
	for _, group := range sentimentKeywords {
		count := 0
		for _, word := range group.words {
			if strings.Contains(message, word) {
				count++
			}
		}
		if count > bestCount {
			best = group.name
			bestCount = count
		}
	}
	return best
}

// ActionFromMessage extracts the first betting action a message mentions,
// or "" when none is mentioned.
func ActionFromMessage(message string) string {
	message = strings.ToLower(message)
	for _, action := range []string{"fold", "check", "call", "raise", "bet"} {
		if strings.Contains(message, action) {
			return action
		}
	}
	return ""
}
