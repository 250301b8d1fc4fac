package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/sagaforge/adventure-engine/pkg/character"
	"github.com/sagaforge/adventure-engine/pkg/chat"
)

// skillTreePrompt asks the model for a complete five-stage class tree.
const skillTreePrompt = `Design a skill tree for a roleplaying game character.

Class: %s
Background: %s

Respond with ONLY a JSON object matching this schema. No prose outside the JSON.
{
  "class_name": string,
  "stages": [exactly 5 entries of {
    "stage": integer 0-4,
    "stage_name": string (stage 0 is untapped potential and has no skills),
    "skills": [{ "name", "description", "mana_cost", "stamina_cost" }]
  }]
}

Stage 0 must have an empty skills array. Stages 1-4 should have 2-3 skills
each, growing in power. Costs are small integers; physical skills cost
stamina, magical skills cost mana.`

// SkillTreeGenerator produces class skill trees through the narrator LLM,
// falling back to a static tree when the model fails or answers with a
// malformed shape.
type SkillTreeGenerator struct {
	llm    NarratorService
	logger *slog.Logger
}

func NewSkillTreeGenerator(llm NarratorService, logger *slog.Logger) *SkillTreeGenerator {
	return &SkillTreeGenerator{llm: llm, logger: logger}
}

// Generate returns a normalized five-stage tree for the class. It never
// returns nil: any failure yields the fallback tree.
func (g *SkillTreeGenerator) Generate(ctx context.Context, class, background string) *character.SkillTree {
	class = character.CanonicalClass(class)

	raw, err := g.llm.GenerateResponse(ctx, []chat.ChatMessage{{
		Role:    chat.ChatRoleUser,
		Content: fmt.Sprintf(skillTreePrompt, class, background),
	}})
	if err != nil {
		g.logger.Warn("Skill tree generation failed, using fallback", "class", class, "error", err)
		return FallbackSkillTree(class)
	}

	payload := ExtractJSONObject(raw)
	if payload == "" {
		g.logger.Warn("Skill tree response had no JSON, using fallback", "class", class)
		return FallbackSkillTree(class)
	}

	var tree character.SkillTree
	if err := json.Unmarshal([]byte(payload), &tree); err != nil {
		g.logger.Warn("Skill tree response malformed, using fallback", "class", class, "error", err)
		return FallbackSkillTree(class)
	}

	normalized := character.NormalizeSkillTree(&tree)
	if normalized == nil {
		g.logger.Warn("Skill tree rejected by validation, using fallback",
			"class", class, "stages", len(tree.Stages))
		return FallbackSkillTree(class)
	}
	if normalized.ClassName == "" {
		normalized.ClassName = class
	}
	return normalized
}

// FallbackSkillTree is the static tree used when generation is unavailable.
// Skill names are generic enough to fit any class; the class name still
// binds the tree to the character's class for staleness checks.
func FallbackSkillTree(class string) *character.SkillTree {
	class = character.CanonicalClass(class)
	return &character.SkillTree{
		ClassName: class,
		Stages: []character.SkillTreeStage{
			{Stage: 0, StageName: "Potential", Skills: []character.Skill{}},
			{Stage: 1, StageName: "Initiate", Skills: []character.Skill{
				{Name: "Focused Strike", Description: "A measured attack at a weak point.", Kind: character.SkillKindLearned, StaminaCost: 5},
				{Name: "Second Wind", Description: "Steady your breathing to shake off fatigue.", Kind: character.SkillKindLearned, StaminaCost: 3},
			}},
			{Stage: 2, StageName: "Adept", Skills: []character.Skill{
				{Name: "Defensive Stance", Description: "Brace against incoming blows.", Kind: character.SkillKindLearned, StaminaCost: 8},
				{Name: "Keen Senses", Description: "Sharpen your awareness of hidden dangers.", Kind: character.SkillKindLearned, ManaCost: 5},
			}},
			{Stage: 3, StageName: "Veteran", Skills: []character.Skill{
				{Name: "Relentless Assault", Description: "A flurry of attacks that gives no quarter.", Kind: character.SkillKindLearned, StaminaCost: 15},
				{Name: "Iron Will", Description: "Resist fear, charm and despair.", Kind: character.SkillKindLearned, ManaCost: 10},
			}},
			{Stage: 4, StageName: "Master", Skills: []character.Skill{
				{Name: "Decisive Blow", Description: "Strike with everything you have.", Kind: character.SkillKindLearned, StaminaCost: 25},
				{Name: "Indomitable", Description: "Stand fast where others would fall.", Kind: character.SkillKindLearned, ManaCost: 20},
			}},
		},
	}
}
