package prompts

import (
	"fmt"
	"strings"

	"github.com/sagaforge/adventure-engine/pkg/adventure"
	"github.com/sagaforge/adventure-engine/pkg/character"
	"github.com/sagaforge/adventure-engine/pkg/item"
	"github.com/sagaforge/adventure-engine/pkg/settings"
)

// PromptState is a reduced game state for LLM prompts. Only the fields the
// narrator needs to stay consistent are included; internal bookkeeping
// (saved adventures, session prefs, generation flags) is excluded.
type PromptState struct {
	CharacterName string         `json:"character_name,omitempty"`
	Class         string         `json:"class,omitempty"`
	Background    string         `json:"background,omitempty"`
	Traits        []string       `json:"traits,omitempty"`
	Knowledge     []string       `json:"knowledge,omitempty"`
	Level         int            `json:"level"`
	Health        string         `json:"health,omitempty"`
	Stamina       string         `json:"stamina,omitempty"`
	Mana          string         `json:"mana,omitempty"`
	Skills        []string       `json:"skills,omitempty"`
	Inventory     []string       `json:"inventory,omitempty"`
	Reputation    map[string]int `json:"reputation,omitempty"`
	Relationships map[string]int `json:"npc_relationships,omitempty"`
	Settings      promptSettings `json:"settings"`
	TurnCount     int            `json:"turn_count"`
}

type promptSettings struct {
	AdventureType  settings.AdventureType `json:"adventure_type,omitempty"`
	Difficulty     settings.Difficulty    `json:"difficulty,omitempty"`
	PermanentDeath bool                   `json:"permanent_death"`
}

func ToPromptState(gs *adventure.GameState) *PromptState {
	ps := &PromptState{
		Inventory: item.Names(gs.Inventory),
		Settings: promptSettings{
			AdventureType:  gs.Settings.AdventureType,
			Difficulty:     gs.Settings.Difficulty,
			PermanentDeath: gs.Settings.PermanentDeath,
		},
		TurnCount: gs.TurnCount,
	}

	c := gs.Character
	if c == nil {
		return ps
	}
	ps.CharacterName = c.Name
	ps.Class = c.Class
	ps.Background = c.Background
	ps.Traits = c.Traits
	ps.Knowledge = c.Knowledge
	ps.Level = c.Level
	ps.Health = fmt.Sprintf("%d/%d", c.CurrentHealth, c.MaxHealth)
	ps.Stamina = fmt.Sprintf("%d/%d", c.CurrentStamina, c.MaxStamina)
	ps.Mana = fmt.Sprintf("%d/%d", c.CurrentMana, c.MaxMana)
	ps.Reputation = c.Reputation
	ps.Relationships = c.NPCRelationships
	for _, sk := range c.LearnedSkills {
		ps.Skills = append(ps.Skills, sk.Name)
	}
	return ps
}

// CharacterSheet renders the character as prompt text for the system
// message. Skills include their costs so the narrator can charge them.
func CharacterSheet(c *character.Character) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Name: %s\nClass: %s\nLevel: %d\n", c.Name, c.Class, c.Level)
	if c.Description != "" {
		fmt.Fprintf(&sb, "Description: %s\n", c.Description)
	}
	if c.AIGeneratedDescription != "" {
		fmt.Fprintf(&sb, "Appearance: %s\n", c.AIGeneratedDescription)
	}
	if c.Background != "" {
		fmt.Fprintf(&sb, "Background: %s\n", c.Background)
	}
	if len(c.Traits) > 0 {
		fmt.Fprintf(&sb, "Traits: %s\n", strings.Join(c.Traits, ", "))
	}
	if len(c.Knowledge) > 0 {
		fmt.Fprintf(&sb, "Knowledge: %s\n", strings.Join(c.Knowledge, ", "))
	}
	fmt.Fprintf(&sb, "Stats: STR %d, STA %d, WIS %d\n",
		c.Stats.Strength, c.Stats.Stamina, c.Stats.Wisdom)
	if len(c.LearnedSkills) > 0 {
		sb.WriteString("Skills:\n")
		for _, sk := range c.LearnedSkills {
			fmt.Fprintf(&sb, "- %s (mana %d, stamina %d): %s\n",
				sk.Name, sk.ManaCost, sk.StaminaCost, sk.Description)
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}
