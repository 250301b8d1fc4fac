package adventure

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sagaforge/adventure-engine/pkg/character"
	"github.com/sagaforge/adventure-engine/pkg/item"
)

// The context string fed to the narrator is a plain text block with named
// sections. The structured state stays authoritative: this text is a derived
// artifact, regenerated by keyed line substitution and never parsed back.
const (
	sectionTurn          = "Turn:"
	sectionLevel         = "Level:"
	sectionClass         = "Class:"
	sectionSkillStage    = "Skill Stage:"
	sectionStatus        = "Status:"
	sectionInventory     = "Inventory:"
	sectionReputation    = "Reputation:"
	sectionRelationships = "NPC Relationships:"
	sectionSkills        = "Learned Skills:"
)

// sectionOrder is the canonical layout of a freshly templated context block.
var sectionOrder = []string{
	sectionTurn,
	sectionLevel,
	sectionClass,
	sectionSkillStage,
	sectionStatus,
	sectionInventory,
	sectionReputation,
	sectionRelationships,
	sectionSkills,
}

// HasTurnMarker reports whether the text carries a recognizable turn
// section. A narrator-returned context string without one is not trusted as
// a base for substitution.
func HasTurnMarker(s string) bool {
	for _, line := range strings.Split(s, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), sectionTurn) {
			return true
		}
	}
	return false
}

// Template renders a complete context block with every section, used for
// the very first synthesis of an adventure.
func Template(c *character.Character, inv []item.Item, turnCount int) string {
	lines := make([]string, 0, len(sectionOrder))
	for _, key := range sectionOrder {
		lines = append(lines, sectionLine(key, c, inv, turnCount))
	}
	return strings.Join(lines, "\n")
}

// Synthesize refreshes the recognized section lines of base with freshly
// computed content, leaving all other text untouched. Sections absent from
// base stay absent. If base has no turn marker at all it is replaced by a
// full template. Idempotent: synthesizing the output again with the same
// inputs reproduces it exactly.
func Synthesize(base string, c *character.Character, inv []item.Item, turnCount int) string {
	if !HasTurnMarker(base) {
		return Template(c, inv, turnCount)
	}

	lines := strings.Split(base, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		for _, key := range sectionOrder {
			if strings.HasPrefix(trimmed, key) {
				lines[i] = sectionLine(key, c, inv, turnCount)
				break
			}
		}
	}
	return strings.Join(lines, "\n")
}

func sectionLine(key string, c *character.Character, inv []item.Item, turnCount int) string {
	switch key {
	case sectionTurn:
		return fmt.Sprintf("Turn: %d", turnCount)
	case sectionLevel:
		if c == nil {
			return "Level: -"
		}
		return fmt.Sprintf("Level: %d (%d/%d XP)", c.Level, c.XP, c.XPToNextLevel)
	case sectionClass:
		if c == nil {
			return "Class: -"
		}
		return "Class: " + c.Class
	case sectionSkillStage:
		if c == nil {
			return "Skill Stage: -"
		}
		name := stageName(c)
		if name == "" {
			return fmt.Sprintf("Skill Stage: %d", c.SkillTreeStage)
		}
		return fmt.Sprintf("Skill Stage: %d (%s)", c.SkillTreeStage, name)
	case sectionStatus:
		if c == nil {
			return "Status: -"
		}
		return fmt.Sprintf("Status: %s (HP: %d/%d, STA: %d/%d, MANA: %d/%d)",
			healthDescriptor(c),
			c.CurrentHealth, c.MaxHealth,
			c.CurrentStamina, c.MaxStamina,
			c.CurrentMana, c.MaxMana)
	case sectionInventory:
		if len(inv) == 0 {
			return "Inventory: Empty"
		}
		return "Inventory: " + strings.Join(item.Names(inv), ", ")
	case sectionReputation:
		if c == nil {
			return "Reputation: None"
		}
		return "Reputation: " + scoreList(c.Reputation)
	case sectionRelationships:
		if c == nil {
			return "NPC Relationships: None"
		}
		return "NPC Relationships: " + scoreList(c.NPCRelationships)
	case sectionSkills:
		if c == nil || len(c.LearnedSkills) == 0 {
			return "Learned Skills: None"
		}
		names := make([]string, len(c.LearnedSkills))
		for i, sk := range c.LearnedSkills {
			names[i] = sk.Name
		}
		return "Learned Skills: " + strings.Join(names, ", ")
	}
	return key
}

func stageName(c *character.Character) string {
	if c.SkillTree == nil || c.SkillTreeStage >= len(c.SkillTree.Stages) {
		return ""
	}
	return c.SkillTree.Stages[c.SkillTreeStage].StageName
}

func healthDescriptor(c *character.Character) string {
	switch {
	case c.CurrentHealth <= 0:
		return "Defeated"
	case c.MaxHealth > 0 && c.CurrentHealth*4 <= c.MaxHealth:
		return "Gravely Wounded"
	case c.MaxHealth > 0 && c.CurrentHealth*2 <= c.MaxHealth:
		return "Wounded"
	default:
		return "Healthy"
	}
}

// scoreList renders a score map sorted by name so output is deterministic.
func scoreList(scores map[string]int) string {
	if len(scores) == 0 {
		return "None"
	}
	names := make([]string, 0, len(scores))
	for name := range scores {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s: %d", name, scores[name])
	}
	return strings.Join(parts, ", ")
}
