package adventure

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/sagaforge/adventure-engine/pkg/character"
	"github.com/sagaforge/adventure-engine/pkg/item"
	"github.com/sagaforge/adventure-engine/pkg/settings"
)

// savedAdventureDoc is the untrusted wire form of a saved adventure. The
// character comes in as a snapshot so missing or malformed fields fall back
// to typed defaults instead of failing the whole load.
type savedAdventureDoc struct {
	ID               uuid.UUID                  `json:"id"`
	SavedAt          time.Time                  `json:"saved_at"`
	CharacterName    string                     `json:"character_name"`
	Character        *character.Snapshot        `json:"character"`
	Settings         settings.AdventureSettings `json:"settings"`
	StoryLog         []StoryLogEntry            `json:"story_log"`
	GameStateString  string                     `json:"game_state_string"`
	Inventory        []item.Item                `json:"inventory"`
	StatusBeforeSave Status                     `json:"status_before_save"`
	AdventureSummary string                     `json:"adventure_summary"`
	Finished         bool                       `json:"finished"`
	TurnCount        int                        `json:"turn_count"`
}

// UnmarshalJSON decodes a saved adventure tolerantly. Stored documents may
// predate the current schema or have been hand-edited; every recoverable
// field is normalized rather than rejected.
func (sa *SavedAdventure) UnmarshalJSON(data []byte) error {
	var doc savedAdventureDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	sa.ID = doc.ID
	sa.SavedAt = doc.SavedAt
	sa.Character = character.FromSnapshot(doc.Character, nil)
	sa.CharacterName = doc.CharacterName
	if sa.CharacterName == "" && sa.Character != nil {
		sa.CharacterName = sa.Character.Name
	}
	sa.Settings = settings.FromSnapshot(doc.Settings)
	sa.StoryLog = doc.StoryLog
	sa.GameStateString = doc.GameStateString
	sa.Inventory = item.ReplaceAll(doc.Inventory)
	sa.StatusBeforeSave = normalizeStatus(doc.StatusBeforeSave)
	sa.AdventureSummary = doc.AdventureSummary
	sa.Finished = doc.Finished
	if doc.TurnCount > 0 {
		sa.TurnCount = doc.TurnCount
	} else {
		sa.TurnCount = len(sa.StoryLog)
	}
	return nil
}

func normalizeStatus(s Status) Status {
	switch s {
	case StatusMainMenu, StatusCharacterCreation, StatusAdventureSetup,
		StatusGameplay, StatusAdventureSummary, StatusViewSavedAdventures:
		return s
	default:
		return StatusGameplay
	}
}
