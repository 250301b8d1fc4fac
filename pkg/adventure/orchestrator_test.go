package adventure

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/sagaforge/adventure-engine/pkg/character"
	"github.com/sagaforge/adventure-engine/pkg/item"
	"github.com/sagaforge/adventure-engine/pkg/settings"
)

func TestStartGameplay(t *testing.T) {
	t.Run("happy path", func(t *testing.T) {
		gs := NewGameState()
		gs.Character = testCharacter()
		gs.Settings.AdventureType = settings.TypeClassic

		out := gs.StartGameplay(nil)
		if out.Status != StatusGameplay {
			t.Errorf("expected gameplay status, got %q", out.Status)
		}
		if out.CurrentAdventureID == uuid.Nil {
			t.Error("expected adventure id assigned")
		}
		if len(out.Inventory) == 0 {
			t.Error("expected starter inventory seeded")
		}
		if !HasTurnMarker(out.GameStateString) {
			t.Error("expected initial state string synthesized")
		}
		if !out.IsGeneratingSkillTree {
			t.Error("expected skill tree generation flagged for treeless character")
		}
	})

	t.Run("without character falls back to main menu", func(t *testing.T) {
		gs := NewGameState()
		gs.Settings.AdventureType = settings.TypeClassic
		gs.Prefs.ThemeID = "parchment"
		id := uuid.New()
		gs.SavedAdventures[id] = SavedAdventure{ID: id}

		out := gs.StartGameplay(nil)
		if out.Status != StatusMainMenu {
			t.Errorf("expected main menu, got %q", out.Status)
		}
		if _, ok := out.SavedAdventures[id]; !ok {
			t.Error("saved adventures lost on refused start")
		}
		if out.Prefs.ThemeID != "parchment" {
			t.Error("prefs lost on refused start")
		}
	})

	t.Run("keeps existing inventory and id", func(t *testing.T) {
		gs := NewGameState()
		gs.Character = testCharacter()
		gs.Settings.AdventureType = settings.TypeClassic
		gs.Inventory = []item.Item{{Name: "Heirloom Dagger", Quality: item.QualityRare, Weight: 1}}
		id := uuid.New()
		gs.CurrentAdventureID = id

		out := gs.StartGameplay(nil)
		if out.CurrentAdventureID != id {
			t.Error("existing adventure id replaced")
		}
		if len(out.Inventory) != 1 || out.Inventory[0].Name != "Heirloom Dagger" {
			t.Errorf("existing inventory replaced: %v", item.Names(out.Inventory))
		}
	})
}

func TestRespawn(t *testing.T) {
	gs := gameplayState()
	hurt := NewTurnWorker(gs, &TurnDelta{
		Narration: "Everything goes dark.",
		Character: &character.Delta{HealthChange: -999},
	}, nil).Apply()
	if !hurt.Character.IsDefeated() {
		t.Fatal("setup: expected defeated character")
	}

	out := hurt.Respawn("", time.Time{})
	if out.Character.CurrentHealth != out.Character.MaxHealth {
		t.Errorf("expected full health, got %d/%d", out.Character.CurrentHealth, out.Character.MaxHealth)
	}
	if out.TurnCount != hurt.TurnCount {
		t.Error("respawn must not advance the turn counter")
	}
	if len(out.StoryLog) != len(hurt.StoryLog)+1 {
		t.Error("expected respawn logged")
	}
	if strings.Contains(out.GameStateString, "Defeated") {
		t.Errorf("state string still reads defeated:\n%s", out.GameStateString)
	}
}

func TestApplyCrafting(t *testing.T) {
	gs := gameplayState()
	potion := &item.Item{Name: "Weak Healing Draught", Quality: item.QualityCommon, Weight: 0.5}

	out := gs.ApplyCrafting("You boil the herbs down to a draught.",
		[]string{"Waterskin"}, potion, time.Time{}, nil)

	if out.TurnCount != gs.TurnCount+1 {
		t.Error("crafting should consume a turn")
	}
	names := item.Names(out.Inventory)
	for _, n := range names {
		if n == "Waterskin" {
			t.Errorf("consumed ingredient still present: %v", names)
		}
	}
	if names[len(names)-1] != "Weak Healing Draught" {
		t.Errorf("product not appended: %v", names)
	}
	if !strings.Contains(out.GameStateString, "Weak Healing Draught") {
		t.Error("state string not resynthesized after crafting")
	}
	if out.LastLogEntry() == nil || out.LastLogEntry().Narration == "" {
		t.Error("crafting outcome not logged")
	}
}

func TestEndAdventure(t *testing.T) {
	t.Run("persists finished save and dedupes final entry", func(t *testing.T) {
		gs := gameplayState()
		turn := NewTurnWorker(gs, &TurnDelta{Narration: "The dragon falls."}, nil).Apply()

		final := &StoryLogEntry{Narration: "The dragon falls."}
		out := turn.EndAdventure("You slew the dragon of Emberfell.", final, time.Time{}, nil)

		if out.Status != StatusAdventureSummary {
			t.Errorf("expected summary status, got %q", out.Status)
		}
		if len(out.StoryLog) != len(turn.StoryLog) {
			t.Errorf("duplicate final entry appended: %d entries", len(out.StoryLog))
		}
		sa, ok := out.SavedAdventures[out.CurrentAdventureID]
		if !ok {
			t.Fatal("finished adventure not persisted")
		}
		if !sa.Finished {
			t.Error("save not marked finished")
		}
		if sa.AdventureSummary == "" {
			t.Error("save missing summary")
		}
	})

	t.Run("appends distinct final entry", func(t *testing.T) {
		gs := gameplayState()
		turn := NewTurnWorker(gs, &TurnDelta{Narration: "The gates open."}, nil).Apply()

		out := turn.EndAdventure("done", &StoryLogEntry{Narration: "An epilogue."}, time.Time{}, nil)
		if len(out.StoryLog) != len(turn.StoryLog)+1 {
			t.Errorf("distinct final entry not appended: %d entries", len(out.StoryLog))
		}
	})

	t.Run("coop adventures are not persisted", func(t *testing.T) {
		gs := NewGameState()
		gs.Character = testCharacter()
		gs.Settings = settings.Default().SetType(settings.TypeCoop)
		started := gs.StartGameplay(nil)

		out := started.EndAdventure("the party disbands", nil, time.Time{}, nil)
		if len(out.SavedAdventures) != 0 {
			t.Error("coop adventure persisted")
		}
		if out.Status != StatusAdventureSummary {
			t.Errorf("expected summary status, got %q", out.Status)
		}
	})
}

func TestSaveCurrentAdventureUpsert(t *testing.T) {
	gs := gameplayState()

	first := gs.SaveCurrentAdventure(time.Time{}, nil)
	if len(first.SavedAdventures) != 1 {
		t.Fatalf("expected one save, got %d", len(first.SavedAdventures))
	}

	played := NewTurnWorker(first, &TurnDelta{Narration: "Onward."}, nil).Apply()
	second := played.SaveCurrentAdventure(time.Time{}, nil)
	if len(second.SavedAdventures) != 1 {
		t.Fatalf("re-save under same id duplicated: %d saves", len(second.SavedAdventures))
	}
	sa := second.SavedAdventures[second.CurrentAdventureID]
	if sa.TurnCount != played.TurnCount {
		t.Errorf("save not refreshed: turn %d, want %d", sa.TurnCount, played.TurnCount)
	}
}

func TestSaveCurrentAdventureGuards(t *testing.T) {
	gs := NewGameState()
	if out := gs.SaveCurrentAdventure(time.Time{}, nil); len(out.SavedAdventures) != 0 {
		t.Error("saved without character or adventure")
	}

	menu := gameplayState().Reset()
	if out := menu.SaveCurrentAdventure(time.Time{}, nil); len(out.SavedAdventures) != 0 {
		t.Error("saved outside gameplay")
	}
}

func TestLoadAdventure(t *testing.T) {
	gs := gameplayState()
	played := NewTurnWorker(gs, &TurnDelta{Narration: "You reach the crossroads."}, nil).Apply()
	saved := played.SaveCurrentAdventure(time.Time{}, nil)

	// Move on to a different session state, then load the save back.
	other := saved.Reset()
	other.Prefs.DarkMode = true

	out := other.LoadAdventure(saved.CurrentAdventureID, nil)
	if out.Status != StatusGameplay {
		t.Errorf("expected gameplay status restored, got %q", out.Status)
	}
	if out.TurnCount != played.TurnCount {
		t.Errorf("turn count %d, want %d", out.TurnCount, played.TurnCount)
	}
	if out.CurrentNarration != "You reach the crossroads." {
		t.Errorf("narration not restored: %q", out.CurrentNarration)
	}
	if !out.Prefs.DarkMode {
		t.Error("session prefs not carried over")
	}
	if len(out.SavedAdventures) != len(saved.SavedAdventures) {
		t.Error("saved adventures collection not carried over")
	}

	t.Run("finished save loads to summary", func(t *testing.T) {
		ended := played.EndAdventure("all done", nil, time.Time{}, nil)
		loaded := ended.Reset().LoadAdventure(ended.CurrentAdventureID, nil)
		if loaded.Status != StatusAdventureSummary {
			t.Errorf("expected summary status, got %q", loaded.Status)
		}
		if loaded.AdventureSummary != "all done" {
			t.Errorf("summary not restored: %q", loaded.AdventureSummary)
		}
	})

	t.Run("unknown id is a no-op", func(t *testing.T) {
		out := saved.LoadAdventure(uuid.New(), nil)
		if out != saved {
			t.Error("unknown id should return the input state")
		}
	})
}

func TestDeleteAdventure(t *testing.T) {
	saved := gameplayState().SaveCurrentAdventure(time.Time{}, nil)
	out := saved.DeleteAdventure(saved.CurrentAdventureID)
	if len(out.SavedAdventures) != 0 {
		t.Error("save not deleted")
	}
	if len(saved.SavedAdventures) != 1 {
		t.Error("input state mutated by delete")
	}
}

func TestResetPreservesSessionFields(t *testing.T) {
	saved := gameplayState().SaveCurrentAdventure(time.Time{}, nil)
	saved.Prefs.ThemeID = "midnight"

	out := saved.Reset()
	if out.Status != StatusMainMenu {
		t.Errorf("expected main menu, got %q", out.Status)
	}
	if out.Character != nil {
		t.Error("character survived reset")
	}
	if len(out.SavedAdventures) != 1 {
		t.Error("saved adventures lost on reset")
	}
	if out.Prefs.ThemeID != "midnight" {
		t.Error("prefs lost on reset")
	}
}

func TestSavedAdventureUnmarshalTolerant(t *testing.T) {
	raw := `{
		"id": "6ba7b810-9dad-11d1-80b4-00c04fd430c8",
		"character": {"name": "Old Save Hero", "class": "warrior"},
		"settings": {"adventure_type": "classic", "difficulty": "Ludicrous"},
		"inventory": [{"name": "Lantern", "quality": "bogus", "weight": -3}, {"name": ""}],
		"status_before_save": "teleporting",
		"story_log": [{"narration": "once upon a time"}]
	}`

	var sa SavedAdventure
	if err := json.Unmarshal([]byte(raw), &sa); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if sa.Character == nil || sa.Character.Level != 1 {
		t.Fatalf("character not normalized: %+v", sa.Character)
	}
	if sa.Character.Class != "Warrior" {
		t.Errorf("class not canonicalized: %q", sa.Character.Class)
	}
	if sa.Character.CurrentHealth != sa.Character.MaxHealth {
		t.Error("missing pools should load at recomputed max")
	}
	if sa.CharacterName != "Old Save Hero" {
		t.Errorf("character name not backfilled: %q", sa.CharacterName)
	}
	if sa.Settings.Difficulty != settings.DifficultyNormal {
		t.Errorf("invalid difficulty not defaulted: %q", sa.Settings.Difficulty)
	}
	if len(sa.Inventory) != 1 {
		t.Fatalf("inventory not normalized: %v", item.Names(sa.Inventory))
	}
	if sa.Inventory[0].Quality != item.QualityCommon || sa.Inventory[0].Weight != item.DefaultWeight {
		t.Errorf("item not normalized: %+v", sa.Inventory[0])
	}
	if sa.StatusBeforeSave != StatusGameplay {
		t.Errorf("unknown status not defaulted: %q", sa.StatusBeforeSave)
	}
	if sa.TurnCount != 1 {
		t.Errorf("turn count not inferred from log: %d", sa.TurnCount)
	}
}
