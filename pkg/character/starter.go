package character

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FallbackClass is used whenever a class name has no starter table entry.
const FallbackClass = "Adventurer"

var titleCaser = cases.Title(language.AmericanEnglish)

// CanonicalClass normalizes a free-form class string for table lookups:
// trimmed and title-cased, so "mage", "MAGE" and "Mage " all resolve to
// "Mage". Empty input resolves to the fallback class.
func CanonicalClass(class string) string {
	c := titleCaser.String(strings.TrimSpace(class))
	if c == "" {
		return FallbackClass
	}
	return c
}

// observeSkill is granted to every character regardless of class.
var observeSkill = Skill{
	Name:        "Observe",
	Description: "Take a careful look at your surroundings, noticing details others would miss.",
	Kind:        SkillKindStarter,
}

// classStarters maps canonical class names to their two starting skills.
var classStarters = map[string][]Skill{
	"Warrior": {
		{Name: "Power Strike", Description: "A forceful melee blow that trades stamina for damage.", Kind: SkillKindStarter, StaminaCost: 10},
		{Name: "Shield Stance", Description: "Brace behind your guard, reducing incoming harm.", Kind: SkillKindStarter, StaminaCost: 5},
	},
	"Mage": {
		{Name: "Arcane Bolt", Description: "Hurl a dart of raw magical force.", Kind: SkillKindStarter, ManaCost: 10},
		{Name: "Minor Ward", Description: "Weave a brief protective shimmer around yourself.", Kind: SkillKindStarter, ManaCost: 5},
	},
	"Rogue": {
		{Name: "Sneak", Description: "Move unseen through shadow and crowd alike.", Kind: SkillKindStarter, StaminaCost: 5},
		{Name: "Pickpocket", Description: "Relieve a target of a small carried item.", Kind: SkillKindStarter, StaminaCost: 5},
	},
	"Ranger": {
		{Name: "Aimed Shot", Description: "A patient, precise shot at a distant mark.", Kind: SkillKindStarter, StaminaCost: 8},
		{Name: "Track", Description: "Read trails and signs left by creatures and travelers.", Kind: SkillKindStarter},
	},
	"Cleric": {
		{Name: "Mend Wounds", Description: "Channel restorative energy into an injury.", Kind: SkillKindStarter, ManaCost: 10},
		{Name: "Benediction", Description: "A short blessing that steadies allies' nerves.", Kind: SkillKindStarter, ManaCost: 5},
	},
	FallbackClass: {
		{Name: "Improvise", Description: "Make do with whatever is at hand.", Kind: SkillKindStarter},
		{Name: "Endure", Description: "Grit your teeth and push through hardship.", Kind: SkillKindStarter, StaminaCost: 5},
	},
}

// StarterSkills returns the creation-time skill set for a class: Observe plus
// the two class starters (falling back to the Adventurer pair for unknown
// classes). Duplicate names collapse last-write-wins, so the result is
// always unique by name.
func StarterSkills(class string) []Skill {
	starters, ok := classStarters[CanonicalClass(class)]
	if !ok {
		starters = classStarters[FallbackClass]
	}

	byName := make(map[string]int)
	out := make([]Skill, 0, len(starters)+1)
	for _, sk := range append([]Skill{observeSkill}, starters...) {
		if i, seen := byName[sk.Name]; seen {
			out[i] = sk
			continue
		}
		byName[sk.Name] = len(out)
		out = append(out, sk)
	}
	return out
}
