package adventure

import (
	"log/slog"
	"time"

	"github.com/sagaforge/adventure-engine/pkg/character"
)

// MaxBranchingChoices bounds the suggested next actions a narrator response
// may carry.
const MaxBranchingChoices = 4

// Choice is one suggested next action from the narrator.
type Choice struct {
	Text            string `json:"text"`
	ConsequenceHint string `json:"consequence_hint,omitempty"`
}

// TurnDelta is a full narrator turn: story text plus the proposed state
// changes. It arrives from an external model and is untrusted until
// Sanitize has run; a malformed field is discarded alone, never the whole
// turn.
type TurnDelta struct {
	Narration        string    `json:"narration"`
	UpdatedGameState string    `json:"updated_game_state,omitempty"`
	Timestamp        time.Time `json:"timestamp,omitempty"`

	Character *character.Delta `json:"character,omitempty"`

	BranchingChoices      []Choice `json:"branching_choices,omitempty"`
	DynamicEventTriggered string   `json:"dynamic_event_triggered,omitempty"`
	SuggestedClassChange  string   `json:"suggested_class_change,omitempty"`
	IsCharacterDefeated   bool     `json:"is_character_defeated,omitempty"`
}

// Sanitize clamps and drops out-of-contract narrator fields in place:
// negative XP gains, skill stages outside 1..4, oversized choice lists and
// nameless skills are all discarded individually.
func (d *TurnDelta) Sanitize(logger *slog.Logger) {
	if d == nil {
		return
	}

	if len(d.BranchingChoices) > MaxBranchingChoices {
		if logger != nil {
			logger.Debug("Truncating branching choices", "count", len(d.BranchingChoices))
		}
		d.BranchingChoices = d.BranchingChoices[:MaxBranchingChoices]
	}

	if d.Character == nil {
		return
	}
	c := d.Character

	if c.XPGained < 0 {
		if logger != nil {
			logger.Debug("Dropping negative xp gain", "xp", c.XPGained)
		}
		c.XPGained = 0
	}
	if c.ProgressedToStage < 0 || c.ProgressedToStage > character.MaxSkillStage {
		if logger != nil {
			logger.Debug("Dropping out-of-range stage progression", "stage", c.ProgressedToStage)
		}
		c.ProgressedToStage = 0
	}
	if c.GainedSkill != nil && c.GainedSkill.Name == "" {
		c.GainedSkill = nil
	}
	if c.Reputation != nil && c.Reputation.Name == "" {
		c.Reputation = nil
	}
	if c.NPCRelationship != nil && c.NPCRelationship.Name == "" {
		c.NPCRelationship = nil
	}
}
