package adventure

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/sagaforge/adventure-engine/pkg/item"
	"github.com/sagaforge/adventure-engine/pkg/settings"
)

// StartGameplay transitions into an active adventure. Refused without a
// character or adventure type: the session falls back to the main menu with
// saved adventures and preferences intact.
func (gs *GameState) StartGameplay(logger *slog.Logger) *GameState {
	if gs.Character == nil || gs.Settings.AdventureType == "" {
		if logger != nil {
			logger.Warn("Refusing to start gameplay",
				"has_character", gs.Character != nil,
				"adventure_type", gs.Settings.AdventureType)
		}
		out := gs.Reset()
		return out
	}

	out := gs.Clone()
	out.Status = StatusGameplay
	if out.CurrentAdventureID == uuid.Nil {
		out.CurrentAdventureID = uuid.New()
	}
	if len(out.Inventory) == 0 {
		out.Inventory = item.StarterItems()
	}
	out.GameStateString = Template(out.Character, out.Inventory, out.TurnCount)
	out.IsGeneratingSkillTree = out.Character.SkillTree == nil
	return out
}

// Respawn restores all resource pools and records the reprieve in the story
// log without advancing the turn counter.
func (gs *GameState) Respawn(narration string, now time.Time) *GameState {
	if gs.Character == nil {
		return gs
	}
	out := gs.Clone()
	out.Character = out.Character.RestorePools()
	if narration == "" {
		narration = "Against all odds, you come to: battered, breathless, but alive."
	}
	out.GameStateString = Synthesize(out.GameStateString, out.Character, out.Inventory, out.TurnCount)
	out.CurrentNarration = narration
	out.StoryLog = append(out.StoryLog, StoryLogEntry{
		Narration:        narration,
		UpdatedGameState: out.GameStateString,
		Timestamp:        orNow(now),
	})
	return out
}

// ApplyCrafting commits a crafting attempt as a turn: ingredients are
// consumed, the product (if any) appended, and the outcome logged.
func (gs *GameState) ApplyCrafting(narration string, consumedNames []string, produced *item.Item, now time.Time, logger *slog.Logger) *GameState {
	out := gs.Clone()
	out.TurnCount++
	out.Inventory = item.ApplyCrafting(out.Inventory, consumedNames, produced, logger)
	out.GameStateString = Synthesize(out.GameStateString, out.Character, out.Inventory, out.TurnCount)
	out.CurrentNarration = narration
	out.StoryLog = append(out.StoryLog, StoryLogEntry{
		Narration:        narration,
		UpdatedGameState: out.GameStateString,
		Timestamp:        orNow(now),
	})
	return out
}

// EndAdventure closes the playthrough: the final entry is appended unless it
// duplicates the last logged narration, the session moves to the summary
// screen, and a finished save replaces any prior save under the adventure
// id. Cooperative adventures are live-shared and never persisted.
func (gs *GameState) EndAdventure(summary string, final *StoryLogEntry, now time.Time, logger *slog.Logger) *GameState {
	out := gs.Clone()

	if final != nil {
		last := out.LastLogEntry()
		if last == nil || last.Narration != final.Narration {
			entry := *final
			if entry.Timestamp.IsZero() {
				entry.Timestamp = orNow(now)
			}
			out.StoryLog = append(out.StoryLog, entry)
		} else if logger != nil {
			logger.Debug("Skipping duplicate final entry")
		}
	}

	out.Status = StatusAdventureSummary
	out.AdventureSummary = summary

	if out.Settings.AdventureType != settings.TypeCoop &&
		out.CurrentAdventureID != uuid.Nil && out.Character != nil {
		sa := out.snapshot(orNow(now), true)
		out.SavedAdventures[sa.ID] = sa
	}
	return out
}

// SaveCurrentAdventure upserts an in-progress save under the adventure id.
// A no-op unless a character, an adventure id and gameplay status all hold.
func (gs *GameState) SaveCurrentAdventure(now time.Time, logger *slog.Logger) *GameState {
	if gs.Character == nil || gs.CurrentAdventureID == uuid.Nil || gs.Status != StatusGameplay {
		if logger != nil {
			logger.Warn("Refusing to save adventure",
				"has_character", gs.Character != nil,
				"adventure_id", gs.CurrentAdventureID,
				"status", gs.Status)
		}
		return gs
	}
	out := gs.Clone()
	sa := out.snapshot(orNow(now), false)
	out.SavedAdventures[sa.ID] = sa
	return out
}

// LoadAdventure restores a saved playthrough. Session-scoped fields (the
// saved-adventures collection itself and preferences) carry over from the
// state active before loading. An unknown id leaves the state unchanged.
func (gs *GameState) LoadAdventure(id uuid.UUID, logger *slog.Logger) *GameState {
	sa, ok := gs.SavedAdventures[id]
	if !ok {
		if logger != nil {
			logger.Warn("Saved adventure not found", "id", id)
		}
		return gs
	}

	out := NewGameState()
	out.Prefs = gs.Prefs
	out.SavedAdventures = make(map[uuid.UUID]SavedAdventure, len(gs.SavedAdventures))
	for k, v := range gs.SavedAdventures {
		out.SavedAdventures[k] = v
	}

	out.Character = sa.Character.Clone()
	out.Settings = settings.FromSnapshot(sa.Settings)
	out.StoryLog = append([]StoryLogEntry(nil), sa.StoryLog...)
	out.Inventory = append([]item.Item(nil), sa.Inventory...)
	out.GameStateString = sa.GameStateString
	out.AdventureSummary = sa.AdventureSummary
	out.TurnCount = sa.TurnCount
	out.CurrentAdventureID = sa.ID
	if last := out.LastLogEntry(); last != nil {
		out.CurrentNarration = last.Narration
	}

	switch {
	case sa.Finished || sa.AdventureSummary != "":
		out.Status = StatusAdventureSummary
	case sa.StatusBeforeSave != "":
		out.Status = sa.StatusBeforeSave
	default:
		out.Status = StatusGameplay
	}
	return out
}

// DeleteAdventure removes a save. Unknown ids are ignored.
func (gs *GameState) DeleteAdventure(id uuid.UUID) *GameState {
	out := gs.Clone()
	delete(out.SavedAdventures, id)
	return out
}

// Reset returns to the canonical initial state, preserving the
// saved-adventures collection and session preferences.
func (gs *GameState) Reset() *GameState {
	out := NewGameState()
	out.Prefs = gs.Prefs
	for id, sa := range gs.SavedAdventures {
		out.SavedAdventures[id] = sa
	}
	return out
}

// snapshot freezes the current adventure for persistence. The receiver must
// have a character and adventure id; callers guard.
func (gs *GameState) snapshot(now time.Time, finished bool) SavedAdventure {
	return SavedAdventure{
		ID:               gs.CurrentAdventureID,
		SavedAt:          now,
		CharacterName:    gs.Character.Name,
		Character:        gs.Character.Clone(),
		Settings:         gs.Settings,
		StoryLog:         append([]StoryLogEntry(nil), gs.StoryLog...),
		GameStateString:  gs.GameStateString,
		Inventory:        append([]item.Item(nil), gs.Inventory...),
		StatusBeforeSave: gs.Status,
		AdventureSummary: gs.AdventureSummary,
		Finished:         finished,
		TurnCount:        gs.TurnCount,
	}
}

func orNow(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now()
	}
	return t
}
