package chat

import (
	"fmt"

	"github.com/google/uuid"
)

// TurnRequest is a player action submitted to the adventure api.
type TurnRequest struct {
	AdventureID uuid.UUID `json:"adventure_id"` // Unique ID for the adventure
	Action      string    `json:"action"`
}

// TurnResponse is the committed turn returned by the adventure api.
// It omits the full game state currently, but the state is updated
// within the turn handler.
type TurnResponse struct {
	AdventureID uuid.UUID `json:"adventure_id,omitempty"`
	Narration   string    `json:"narration,omitempty"`
	TurnCount   int       `json:"turn_count,omitempty"`
}

const (
	ChatRoleUser   = "user"      // Player
	ChatRoleAgent  = "assistant" // Narrator's prior replies
	ChatRoleSystem = "system"    // Rules and state context
)

// ChatMessage represents a single message in the narrator conversation.
// This shape is shared by the Anthropic and Gemini message APIs and is
// used to structure messages sent to the LLM.
type ChatMessage struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// MaxActionLength bounds a single player action.
const MaxActionLength = 2000

func (tr *TurnRequest) Validate() error {
	if tr.Action == "" {
		return fmt.Errorf("action cannot be empty")
	}
	if len(tr.Action) > MaxActionLength {
		return fmt.Errorf("action exceeds maximum length of %d characters", MaxActionLength)
	}
	return nil
}
