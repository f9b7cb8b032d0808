package domain

// GameRecord is one self-contained per-game document as produced by the game
// recorder. The loader consumes these as-is; game-rule consistency is not
// validated here.
type GameRecord struct {
	GameID       string            `json:"game_id"`
	Actions      []ActionEntry     `json:"actions"`
	ChatMessages []ChatEntry       `json:"chat_messages"`
	HandSummary  *HandSummaryEntry `json:"hand_summary,omitempty"`
}

// ActionEntry is a recorded betting action.
type ActionEntry struct {
	PlayerID        string `json:"player_id"`
	Action          string `json:"action"`
	GameStage       string `json:"game_stage"`
	Amount          int    `json:"amount"`
	PotSize         int    `json:"pot_size"`
	Position        string `json:"position"`
	BoardCards      string `json:"board_cards"`
	TextDescription string `json:"text_description"`
}

// ChatEntry is a recorded table-talk message.
type ChatEntry struct {
	PlayerID         string `json:"player_id"`
	Message          string `json:"message"`
	Sentiment        string `json:"sentiment"`
	AssociatedAction string `json:"associated_action"`
	TextDescription  string `json:"text_description"`
}

// HandSummaryEntry is the recorded outcome of a completed hand.
type HandSummaryEntry struct {
	Winner          string `json:"winner"`
	PotAmount       int    `json:"pot_amount"`
	ShowdownReached bool   `json:"showdown_reached"`
	FinalBoard      string `json:"final_board"`
	TextDescription string `json:"text_description"`
}
