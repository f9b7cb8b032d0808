package domain

import "strconv"

// Collection is a named partition of the vector index.
// Each collection holds exactly one document kind.
type Collection string

// The three index collections.
const (
	CollectionActions   Collection = "actions"
	CollectionChat      Collection = "chat"
	CollectionSummaries Collection = "summaries"
)

// Collections lists all known collections in a fixed order.
func Collections() []Collection {
	return []Collection{CollectionActions, CollectionChat, CollectionSummaries}
}

// KnownCollection reports whether c is one of the configured collections.
func KnownCollection(c Collection) bool {
	switch c {
	case CollectionActions, CollectionChat, CollectionSummaries:
		return true
	}
	return false
}

// Document is one immutable unit of evidence: a betting action, a chat line,
// or a hand summary. Exactly one of Action, Chat or Summary is set; the variant
// determines which collection the document belongs to.
type Document struct {
	// ID is unique within the document's collection. Re-indexing the same ID
	// replaces the prior entry.
	ID string

	// GameID identifies the game the evidence came from.
	GameID string

	// ParticipantID identifies the participant the evidence belongs to.
	// Empty for hand summaries, which describe a whole game.
	ParticipantID string

	// Text is the natural-language description that gets embedded.
	Text string

	Action  *ActionMetadata
	Chat    *ChatMetadata
	Summary *SummaryMetadata
}

// ActionMetadata describes a structured betting action.
type ActionMetadata struct {
	Action     string
	GameStage  string
	Amount     int
	PotSize    int
	Position   string
	BoardCards string
}

// ChatMetadata describes a table-talk message.
type ChatMetadata struct {
	Sentiment        string
	AssociatedAction string
}

// SummaryMetadata describes the outcome of a completed hand.
type SummaryMetadata struct {
	Winner          string
	PotAmount       int
	ShowdownReached bool
	FinalBoard      string
}

// Collection returns the collection this document belongs to, derived from
// its metadata variant. Returns "" if no variant is set.
func (d Document) Collection() Collection {
	switch {
	case d.Action != nil:
		return CollectionActions
	case d.Chat != nil:
		return CollectionChat
	case d.Summary != nil:
		return CollectionSummaries
	}
	return ""
}

// Fields returns a flat scalar view of the document's metadata, used for
// equality filtering and prompt display.
func (d Document) Fields() map[string]string {
	fields := map[string]string{
		"game_id":        d.GameID,
		"participant_id": d.ParticipantID,
	}
	switch {
	case d.Action != nil:
		fields["action"] = d.Action.Action
		fields["game_stage"] = d.Action.GameStage
		fields["amount"] = strconv.Itoa(d.Action.Amount)
		fields["pot_size"] = strconv.Itoa(d.Action.PotSize)
		fields["position"] = d.Action.Position
		fields["board_cards"] = d.Action.BoardCards
	case d.Chat != nil:
		fields["sentiment"] = d.Chat.Sentiment
		fields["associated_action"] = d.Chat.AssociatedAction
	case d.Summary != nil:
		fields["winner"] = d.Summary.Winner
		fields["pot_amount"] = strconv.Itoa(d.Summary.PotAmount)
		fields["showdown_reached"] = strconv.FormatBool(d.Summary.ShowdownReached)
		fields["final_board"] = d.Summary.FinalBoard
	}
	return fields
}

// Filter restricts queries to documents whose metadata matches every
// key/value pair exactly.
type Filter map[string]string

// Matches reports whether the document satisfies every filter constraint.
func (f Filter) Matches(d Document) bool {
	if len(f) == 0 {
		return true
	}
	fields := d.Fields()
	for key, want := range f {
		if fields[key] != want {
			return false
		}
	}
	return true
}
