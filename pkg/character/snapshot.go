package character

import (
	"log/slog"

	"github.com/sagaforge/adventure-engine/pkg/derive"
)

// Snapshot is the tolerant decode target for a persisted character,
// including characters written by older schema versions. Pointer fields
// distinguish "absent" from a genuine zero so loading is lossless where the
// save actually carried a value.
type Snapshot struct {
	Name                   string   `json:"name"`
	Description            string   `json:"description,omitempty"`
	AIGeneratedDescription string   `json:"ai_generated_description,omitempty"`
	Class                  string   `json:"class,omitempty"`
	Background             string   `json:"background,omitempty"`
	Traits                 []string `json:"traits,omitempty"`
	Knowledge              []string `json:"knowledge,omitempty"`

	Stats *derive.Stats `json:"stats,omitempty"`

	CurrentHealth  *int `json:"current_health,omitempty"`
	CurrentStamina *int `json:"current_stamina,omitempty"`
	CurrentMana    *int `json:"current_mana,omitempty"`

	Level         *int `json:"level,omitempty"`
	XP            *int `json:"xp,omitempty"`
	XPToNextLevel *int `json:"xp_to_next_level,omitempty"`

	Reputation       map[string]int `json:"reputation,omitempty"`
	NPCRelationships map[string]int `json:"npc_relationships,omitempty"`

	SkillTree      *SkillTree `json:"skill_tree,omitempty"`
	SkillTreeStage *int       `json:"skill_tree_stage,omitempty"`
	LearnedSkills  []Skill    `json:"learned_skills,omitempty"`
}

// FromSnapshot reconstructs a character from a possibly partial snapshot.
// Every field has a typed fallback; this is normalization, not error
// handling, so it never fails. Pool caps are always recomputed from the
// loaded stats rather than trusted from the save.
func FromSnapshot(s *Snapshot, logger *slog.Logger) *Character {
	if s == nil {
		return nil
	}

	class := CanonicalClass(s.Class)
	stats := derive.DefaultStats()
	if s.Stats != nil {
		stats = *s.Stats
	}

	c := &Character{
		Name:                   s.Name,
		Description:            s.Description,
		AIGeneratedDescription: s.AIGeneratedDescription,
		Class:                  class,
		Background:             s.Background,
		Traits:                 append([]string(nil), s.Traits...),
		Knowledge:              append([]string(nil), s.Knowledge...),
		Stats:                  stats,
		Level:                  1,
		Reputation:             s.Reputation,
		NPCRelationships:       s.NPCRelationships,
	}
	if c.Reputation == nil {
		c.Reputation = make(map[string]int)
	}
	if c.NPCRelationships == nil {
		c.NPCRelationships = make(map[string]int)
	}

	if s.Level != nil && *s.Level >= 1 {
		c.Level = *s.Level
	}
	if s.XP != nil && *s.XP > 0 {
		c.XP = *s.XP
	}
	c.XPToNextLevel = derive.XPToNextLevel(c.Level)
	if s.XPToNextLevel != nil && *s.XPToNextLevel > 0 {
		c.XPToNextLevel = *s.XPToNextLevel
	}

	c.MaxHealth = derive.MaxHealth(stats)
	c.MaxStamina = derive.MaxActionStamina(stats)
	c.MaxMana = derive.MaxMana(stats, c.Knowledge)
	c.CurrentHealth = poolValue(s.CurrentHealth, c.MaxHealth)
	c.CurrentStamina = poolValue(s.CurrentStamina, c.MaxStamina)
	c.CurrentMana = poolValue(s.CurrentMana, c.MaxMana)

	c.SkillTree = normalizeSnapshotTree(s.SkillTree, logger)
	if s.SkillTreeStage != nil {
		c.SkillTreeStage = clamp(*s.SkillTreeStage, 0, MaxSkillStage)
	}
	if len(s.LearnedSkills) > 0 {
		c.LearnedSkills = make([]Skill, 0, len(s.LearnedSkills))
		for _, sk := range s.LearnedSkills {
			if sk.Name == "" {
				continue
			}
			if sk.Kind == "" {
				sk.Kind = SkillKindLearned
			}
			c.LearnedSkills = append(c.LearnedSkills, sk)
		}
	}
	if len(c.LearnedSkills) == 0 {
		c.LearnedSkills = StarterSkills(class)
	}

	return c
}

// normalizeSnapshotTree is more forgiving than NormalizeSkillTree: a tree
// from an older save is truncated or padded to exactly five stages before
// the usual validation. A tree with no stages at all is discarded.
func normalizeSnapshotTree(t *SkillTree, logger *slog.Logger) *SkillTree {
	if t == nil || len(t.Stages) == 0 {
		return nil
	}
	fixed := &SkillTree{
		ClassName: t.ClassName,
		Stages:    append([]SkillTreeStage(nil), t.Stages...),
	}
	if len(fixed.Stages) > SkillTreeStageCount {
		fixed.Stages = fixed.Stages[:SkillTreeStageCount]
	}
	for len(fixed.Stages) < SkillTreeStageCount {
		fixed.Stages = append(fixed.Stages, SkillTreeStage{})
	}
	if len(t.Stages) != SkillTreeStageCount && logger != nil {
		logger.Debug("Repaired skill tree stage count from old save",
			"class", t.ClassName, "stages", len(t.Stages))
	}
	return NormalizeSkillTree(fixed)
}

func poolValue(v *int, max int) int {
	if v == nil {
		return max
	}
	return clamp(*v, 0, max)
}
