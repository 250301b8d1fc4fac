package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sagaforge/adventure-engine/pkg/adventure"
	"github.com/sagaforge/adventure-engine/pkg/character"
	"github.com/sagaforge/adventure-engine/pkg/item"
	"github.com/sagaforge/adventure-engine/pkg/settings"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <adventure.json>\n", os.Args[0])
		os.Exit(1)
	}

	filename := os.Args[1]
	validator := &AdventureValidator{}

	if err := validator.validateFile(filename); err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Adventure file is valid!")
}

// rawAdventure mirrors the saved-adventure wire shape without the tolerant
// decoding the engine applies on load. The validator has to see the stored
// values as written; loading through SavedAdventure would normalize away
// exactly the problems it is looking for.
type rawAdventure struct {
	ID               uuid.UUID                  `json:"id"`
	SavedAt          time.Time                  `json:"saved_at"`
	CharacterName    string                     `json:"character_name"`
	Character        *rawCharacter              `json:"character"`
	Settings         settings.AdventureSettings `json:"settings"`
	StoryLog         []adventure.StoryLogEntry  `json:"story_log"`
	Inventory        []rawItem                  `json:"inventory"`
	StatusBeforeSave string                     `json:"status_before_save"`
	AdventureSummary string                     `json:"adventure_summary"`
	Finished         bool                       `json:"finished"`
	TurnCount        int                        `json:"turn_count"`
}

type rawCharacter struct {
	Name           string               `json:"name"`
	Class          string               `json:"class"`
	MaxHealth      int                  `json:"max_health"`
	CurrentHealth  int                  `json:"current_health"`
	MaxStamina     int                  `json:"max_stamina"`
	CurrentStamina int                  `json:"current_stamina"`
	MaxMana        int                  `json:"max_mana"`
	CurrentMana    int                  `json:"current_mana"`
	Level          int                  `json:"level"`
	XP             int                  `json:"xp"`
	SkillTree      *character.SkillTree `json:"skill_tree"`
	SkillTreeStage int                  `json:"skill_tree_stage"`
}

type rawItem struct {
	Name    string       `json:"name"`
	Quality item.Quality `json:"quality"`
	Weight  float64      `json:"weight"`
}

// AdventureValidator checks an exported saved adventure for problems that
// would otherwise be silently repaired on load: a repaired save plays, but
// the repair discards what the author actually wrote.
type AdventureValidator struct {
	errors []string
}

func (v *AdventureValidator) validateFile(filename string) error {
	fmt.Printf("Validating %s...\n", filename)

	baseName := filepath.Base(filename)
	if !strings.HasSuffix(baseName, ".json") {
		return fmt.Errorf("adventure file must have .json extension: %s", baseName)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	v.errors = nil

	if !json.Valid(data) {
		return fmt.Errorf("file %s contains invalid JSON", filename)
	}

	var raw rawAdventure
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("file %s failed JSON unmarshaling: %w", filename, err)
	}

	v.validateAdventure(&raw)

	if len(v.errors) > 0 {
		return fmt.Errorf("validation errors in %s:\n%s", filename, strings.Join(v.errors, "\n"))
	}

	return nil
}

func (v *AdventureValidator) validateAdventure(raw *rawAdventure) {
	if raw.ID == uuid.Nil {
		v.addError("missing adventure id")
	}
	if raw.SavedAt.IsZero() {
		v.addError("missing saved_at timestamp")
	}

	if raw.Character == nil {
		v.addError("adventure has no character")
	} else {
		v.validateCharacter(raw.Character)
		if raw.CharacterName != "" && raw.CharacterName != raw.Character.Name {
			v.addError(fmt.Sprintf("character_name '%s' does not match character.name '%s'", raw.CharacterName, raw.Character.Name))
		}
	}

	v.validateSettings(raw.Settings)

	if raw.StatusBeforeSave != "" && !isValidStatus(adventure.Status(raw.StatusBeforeSave)) {
		v.addError(fmt.Sprintf("unknown status_before_save '%s'", raw.StatusBeforeSave))
	}

	if raw.TurnCount < 0 {
		v.addError(fmt.Sprintf("negative turn_count %d", raw.TurnCount))
	}
	if len(raw.StoryLog) > raw.TurnCount && raw.TurnCount >= 0 {
		v.addError(fmt.Sprintf("story_log holds %d entries but turn_count is %d", len(raw.StoryLog), raw.TurnCount))
	}
	for i, entry := range raw.StoryLog {
		if entry.Narration == "" {
			v.addError(fmt.Sprintf("story_log entry %d has empty narration", i))
		}
	}

	if raw.Finished && raw.AdventureSummary == "" {
		v.addError("finished adventure has no adventure_summary")
	}

	for i, it := range raw.Inventory {
		v.validateItem(it, i)
	}
}

func (v *AdventureValidator) validateCharacter(c *rawCharacter) {
	if c.Name == "" {
		v.addError("character has no name")
	}
	if c.Class == "" {
		v.addError("character has no class")
	}

	v.validatePool("health", c.CurrentHealth, c.MaxHealth)
	v.validatePool("stamina", c.CurrentStamina, c.MaxStamina)
	v.validatePool("mana", c.CurrentMana, c.MaxMana)

	if c.Level < 1 {
		v.addError(fmt.Sprintf("character level %d is below 1", c.Level))
	}
	if c.XP < 0 {
		v.addError(fmt.Sprintf("negative xp %d", c.XP))
	}

	if c.SkillTreeStage < 0 || c.SkillTreeStage > character.MaxSkillStage {
		v.addError(fmt.Sprintf("skill_tree_stage %d out of range 0..%d", c.SkillTreeStage, character.MaxSkillStage))
	}
	if c.SkillTree != nil && !c.SkillTree.Valid() {
		v.addError(fmt.Sprintf("skill tree must have exactly %d stages, got %d", character.SkillTreeStageCount, len(c.SkillTree.Stages)))
	}
}

func (v *AdventureValidator) validatePool(name string, current, maximum int) {
	if maximum <= 0 {
		v.addError(fmt.Sprintf("max_%s %d must be positive", name, maximum))
		return
	}
	if current < 0 || current > maximum {
		v.addError(fmt.Sprintf("current_%s %d out of range 0..%d", name, current, maximum))
	}
}

func (v *AdventureValidator) validateSettings(s settings.AdventureSettings) {
	if s.AdventureType == settings.TypeCoop {
		v.addError("coop adventures are live-only and should never appear in a save file")
	}

	// FromSnapshot is what the engine runs on load; any field it would
	// rewrite is a value the save got wrong.
	normalized := settings.FromSnapshot(s)
	if normalized.AdventureType != s.AdventureType {
		v.addError(fmt.Sprintf("unknown adventure type '%s'", s.AdventureType))
	}
	if normalized.Difficulty != s.Difficulty {
		v.addError(fmt.Sprintf("unknown difficulty '%s'", s.Difficulty))
	}
}

func (v *AdventureValidator) validateItem(it rawItem, index int) {
	if it.Name == "" {
		v.addError(fmt.Sprintf("inventory item %d has no name", index))
	}
	probe := item.Item{Name: it.Name, Quality: it.Quality, Weight: it.Weight}.Normalize()
	if probe.Quality != it.Quality {
		v.addError(fmt.Sprintf("inventory item '%s' has unknown quality '%s'", it.Name, it.Quality))
	}
	if probe.Weight != it.Weight {
		v.addError(fmt.Sprintf("inventory item '%s' has invalid weight %v", it.Name, it.Weight))
	}
}

func (v *AdventureValidator) addError(msg string) {
	v.errors = append(v.errors, "  - "+msg)
}

func isValidStatus(s adventure.Status) bool {
	switch s {
	case adventure.StatusMainMenu,
		adventure.StatusCharacterCreation,
		adventure.StatusAdventureSetup,
		adventure.StatusGameplay,
		adventure.StatusAdventureSummary,
		adventure.StatusViewSavedAdventures:
		return true
	}
	return false
}
