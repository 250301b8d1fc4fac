// Package adventure owns the top-level game state and the turn lifecycle:
// the append-only story log, turn counting, the synthesized narrator context
// string, and adventure save/load/end semantics. All reducer operations
// return a new state snapshot; the previous one is never mutated.
package adventure

import (
	"time"

	"github.com/google/uuid"

	"github.com/sagaforge/adventure-engine/pkg/character"
	"github.com/sagaforge/adventure-engine/pkg/item"
	"github.com/sagaforge/adventure-engine/pkg/settings"
)

// Status is the top-level screen/state of the game session.
type Status string

const (
	StatusMainMenu            Status = "main_menu"
	StatusCharacterCreation   Status = "character_creation"
	StatusAdventureSetup      Status = "adventure_setup"
	StatusGameplay            Status = "gameplay"
	StatusAdventureSummary    Status = "adventure_summary"
	StatusViewSavedAdventures Status = "view_saved_adventures"
)

// StoryLogEntry is one committed narrator turn. Entries are append-only and
// never mutated after creation.
type StoryLogEntry struct {
	Narration        string           `json:"narration"`
	UpdatedGameState string           `json:"updated_game_state,omitempty"`
	Timestamp        time.Time        `json:"timestamp"`
	Changes          *character.Delta `json:"changes,omitempty"`
	SuggestedClass   string           `json:"suggested_class,omitempty"`
}

// SavedAdventure is a frozen snapshot of one playthrough, keyed by the
// adventure id. Re-saving under the same id replaces the prior entry.
type SavedAdventure struct {
	ID               uuid.UUID                  `json:"id"`
	SavedAt          time.Time                  `json:"saved_at"`
	CharacterName    string                     `json:"character_name"`
	Character        *character.Character       `json:"character"`
	Settings         settings.AdventureSettings `json:"settings"`
	StoryLog         []StoryLogEntry            `json:"story_log,omitempty"`
	GameStateString  string                     `json:"game_state_string,omitempty"`
	Inventory        []item.Item                `json:"inventory,omitempty"`
	StatusBeforeSave Status                     `json:"status_before_save,omitempty"`
	AdventureSummary string                     `json:"adventure_summary,omitempty"`
	Finished         bool                       `json:"finished"`
	TurnCount        int                        `json:"turn_count"`
}

// GameState is the aggregate session state. SavedAdventures and Prefs are
// session-scoped: they survive resets and loads.
type GameState struct {
	Status    Status                     `json:"status"`
	Character *character.Character       `json:"character,omitempty"`
	Settings  settings.AdventureSettings `json:"settings"`
	Prefs     settings.SessionPrefs      `json:"prefs"`

	CurrentNarration string          `json:"current_narration,omitempty"`
	StoryLog         []StoryLogEntry `json:"story_log,omitempty"`
	AdventureSummary string          `json:"adventure_summary,omitempty"`
	GameStateString  string          `json:"game_state_string,omitempty"`
	Inventory        []item.Item     `json:"inventory,omitempty"`

	SavedAdventures       map[uuid.UUID]SavedAdventure `json:"saved_adventures,omitempty"`
	CurrentAdventureID    uuid.UUID                    `json:"current_adventure_id,omitempty"`
	IsGeneratingSkillTree bool                         `json:"is_generating_skill_tree"`
	TurnCount             int                          `json:"turn_count"`
}

// NewGameState returns the canonical initial state.
func NewGameState() *GameState {
	return &GameState{
		Status:          StatusMainMenu,
		Settings:        settings.Default(),
		SavedAdventures: make(map[uuid.UUID]SavedAdventure),
	}
}

// Clone returns a deep copy of the state.
func (gs *GameState) Clone() *GameState {
	if gs == nil {
		return nil
	}
	out := *gs
	out.Character = gs.Character.Clone()
	out.StoryLog = append([]StoryLogEntry(nil), gs.StoryLog...)
	out.Inventory = append([]item.Item(nil), gs.Inventory...)
	out.SavedAdventures = make(map[uuid.UUID]SavedAdventure, len(gs.SavedAdventures))
	for id, sa := range gs.SavedAdventures {
		out.SavedAdventures[id] = sa
	}
	return &out
}

// LastLogEntry returns the most recent story log entry, or nil if the log is
// empty.
func (gs *GameState) LastLogEntry() *StoryLogEntry {
	if gs == nil || len(gs.StoryLog) == 0 {
		return nil
	}
	return &gs.StoryLog[len(gs.StoryLog)-1]
}
