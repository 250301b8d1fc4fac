// Package character owns the player character aggregate: identity, stats,
// derived resource pools, progression, reputation and skills. Every reducer
// operation returns a new copy and never mutates its receiver. Domain-rule
// violations (stale class responses, malformed trees, level regressions) are
// absorbed as no-ops with a diagnostic log entry, never as errors.
package character

import (
	"log/slog"
	"maps"

	"github.com/sagaforge/adventure-engine/pkg/derive"
)

// Score bounds for faction reputation and NPC relationships.
const (
	MinScore = -100
	MaxScore = 100
)

// MaxSkillStage is the highest skill tree stage a character can reach.
const MaxSkillStage = SkillTreeStageCount - 1

// Character is the aggregate root for the player character.
type Character struct {
	Name                   string `json:"name"`
	Description            string `json:"description,omitempty"`
	AIGeneratedDescription string `json:"ai_generated_description,omitempty"`
	Class                  string `json:"class"`
	Background             string `json:"background,omitempty"`

	Traits    []string     `json:"traits,omitempty"`
	Knowledge []string     `json:"knowledge,omitempty"`
	Stats     derive.Stats `json:"stats"`

	MaxHealth      int `json:"max_health"`
	CurrentHealth  int `json:"current_health"`
	MaxStamina     int `json:"max_stamina"`
	CurrentStamina int `json:"current_stamina"`
	MaxMana        int `json:"max_mana"`
	CurrentMana    int `json:"current_mana"`

	Level         int `json:"level"`
	XP            int `json:"xp"`
	XPToNextLevel int `json:"xp_to_next_level"`

	Reputation       map[string]int `json:"reputation,omitempty"`
	NPCRelationships map[string]int `json:"npc_relationships,omitempty"`

	SkillTree      *SkillTree `json:"skill_tree,omitempty"`
	SkillTreeStage int        `json:"skill_tree_stage"`
	LearnedSkills  []Skill    `json:"learned_skills,omitempty"`
}

// CreatePayload carries the player-submitted (or AI-elaborated) character
// profile. Missing fields fall back to defaults; creation never fails.
type CreatePayload struct {
	Name                   string        `json:"name"`
	Description            string        `json:"description,omitempty"`
	AIGeneratedDescription string        `json:"ai_generated_description,omitempty"`
	Class                  string        `json:"class,omitempty"`
	Background             string        `json:"background,omitempty"`
	Traits                 []string      `json:"traits,omitempty"`
	Knowledge              []string      `json:"knowledge,omitempty"`
	Stats                  *derive.Stats `json:"stats,omitempty"`
}

// New creates a character from a creation payload. All three resource pools
// start full, progression starts at level 1, and the class starter skills
// are granted.
func New(p CreatePayload) *Character {
	stats := derive.DefaultStats()
	if p.Stats != nil {
		stats = clampStats(*p.Stats)
	}

	class := CanonicalClass(p.Class)
	c := &Character{
		Name:                   p.Name,
		Description:            p.Description,
		AIGeneratedDescription: p.AIGeneratedDescription,
		Class:                  class,
		Background:             p.Background,
		Traits:                 append([]string(nil), p.Traits...),
		Knowledge:              append([]string(nil), p.Knowledge...),
		Stats:                  stats,
		Level:                  1,
		XP:                     0,
		XPToNextLevel:          derive.XPToNextLevel(1),
		Reputation:             make(map[string]int),
		NPCRelationships:       make(map[string]int),
		SkillTreeStage:         0,
		LearnedSkills:          StarterSkills(class),
	}

	c.MaxHealth = derive.MaxHealth(stats)
	c.CurrentHealth = c.MaxHealth
	c.MaxStamina = derive.MaxActionStamina(stats)
	c.CurrentStamina = c.MaxStamina
	c.MaxMana = derive.MaxMana(stats, c.Knowledge)
	c.CurrentMana = c.MaxMana
	return c
}

// Clone returns a deep copy. Nil-safe.
func (c *Character) Clone() *Character {
	if c == nil {
		return nil
	}
	out := *c
	out.Traits = append([]string(nil), c.Traits...)
	out.Knowledge = append([]string(nil), c.Knowledge...)
	out.Reputation = maps.Clone(c.Reputation)
	out.NPCRelationships = maps.Clone(c.NPCRelationships)
	out.SkillTree = c.SkillTree.Clone()
	out.LearnedSkills = append([]Skill(nil), c.LearnedSkills...)
	return &out
}

// StatPatch is a partial stat update. Nil fields mean "no change".
type StatPatch struct {
	Strength *int `json:"strength,omitempty"`
	Stamina  *int `json:"stamina,omitempty"`
	Wisdom   *int `json:"wisdom,omitempty"`
}

// IsZero reports whether the patch changes nothing.
func (p *StatPatch) IsZero() bool {
	return p == nil || (p.Strength == nil && p.Stamina == nil && p.Wisdom == nil)
}

// Apply merges the patch over the given stats.
func (p *StatPatch) Apply(s derive.Stats) derive.Stats {
	if p == nil {
		return s
	}
	if p.Strength != nil {
		s.Strength = *p.Strength
	}
	if p.Stamina != nil {
		s.Stamina = *p.Stamina
	}
	if p.Wisdom != nil {
		s.Wisdom = *p.Wisdom
	}
	return s
}

// UpdatePayload is a partial character update. Nil fields are left alone;
// slices replace wholesale when non-nil. Supplied current pool values are
// clamped to the recomputed max.
type UpdatePayload struct {
	Name        *string    `json:"name,omitempty"`
	Description *string    `json:"description,omitempty"`
	Background  *string    `json:"background,omitempty"`
	Traits      []string   `json:"traits,omitempty"`
	Knowledge   []string   `json:"knowledge,omitempty"`
	Stats       *StatPatch `json:"stats,omitempty"`

	CurrentHealth  *int `json:"current_health,omitempty"`
	CurrentStamina *int `json:"current_stamina,omitempty"`
	CurrentMana    *int `json:"current_mana,omitempty"`
}

// Update shallow-merges the payload into a copy of the character. Stat and
// knowledge changes recompute the derived pool caps and re-clamp currents.
func (c *Character) Update(u UpdatePayload) *Character {
	if c == nil {
		return nil
	}
	out := c.Clone()

	if u.Name != nil {
		out.Name = *u.Name
	}
	if u.Description != nil {
		out.Description = *u.Description
	}
	if u.Background != nil {
		out.Background = *u.Background
	}
	if u.Traits != nil {
		out.Traits = append([]string(nil), u.Traits...)
	}
	if u.Knowledge != nil {
		out.Knowledge = append([]string(nil), u.Knowledge...)
	}
	if !u.Stats.IsZero() {
		out.Stats = u.Stats.Apply(out.Stats)
	}

	if u.CurrentHealth != nil {
		out.CurrentHealth = *u.CurrentHealth
	}
	if u.CurrentStamina != nil {
		out.CurrentStamina = *u.CurrentStamina
	}
	if u.CurrentMana != nil {
		out.CurrentMana = *u.CurrentMana
	}

	out.recomputePools()
	return out
}

// GrantXP accumulates experience. Leveling is a separate explicit operation
// so the caller decides when the threshold is crossed.
func (c *Character) GrantXP(amount int) *Character {
	if c == nil || amount <= 0 {
		return c
	}
	out := c.Clone()
	out.XP += amount
	return out
}

// LevelUp advances the character to newLevel. A target at or below the
// current level is a no-op, guarding against duplicate dispatch. Overflow XP
// carries forward and all three pools are fully restored.
func (c *Character) LevelUp(newLevel, newXPToNext int, logger *slog.Logger) *Character {
	if c == nil {
		return nil
	}
	if newLevel <= c.Level {
		if logger != nil {
			logger.Debug("Ignoring level-up to current or lower level",
				"current", c.Level, "requested", newLevel)
		}
		return c
	}

	out := c.Clone()
	out.XP = max(0, out.XP-out.XPToNextLevel)
	out.Level = newLevel
	if newXPToNext > 0 {
		out.XPToNextLevel = newXPToNext
	} else {
		out.XPToNextLevel = derive.XPToNextLevel(newLevel)
	}
	out.CurrentHealth = out.MaxHealth
	out.CurrentStamina = out.MaxStamina
	out.CurrentMana = out.MaxMana
	return out
}

// ReputationChange applies a clamped delta to a faction score, creating the
// entry at zero if absent.
func (c *Character) ReputationChange(faction string, delta int) *Character {
	if c == nil || faction == "" {
		return c
	}
	out := c.Clone()
	if out.Reputation == nil {
		out.Reputation = make(map[string]int)
	}
	out.Reputation[faction] = clamp(out.Reputation[faction]+delta, MinScore, MaxScore)
	return out
}

// NPCRelationshipChange applies a clamped delta to an NPC relationship
// score, creating the entry at zero if absent.
func (c *Character) NPCRelationshipChange(npc string, delta int) *Character {
	if c == nil || npc == "" {
		return c
	}
	out := c.Clone()
	if out.NPCRelationships == nil {
		out.NPCRelationships = make(map[string]int)
	}
	out.NPCRelationships[npc] = clamp(out.NPCRelationships[npc]+delta, MinScore, MaxScore)
	return out
}

// SetSkillTree installs a generated skill tree. The response is discarded if
// it was generated for a different class than the character's current one
// (stale response guard) or if the tree is not a valid five-stage shape.
func (c *Character) SetSkillTree(forClass string, tree *SkillTree, logger *slog.Logger) *Character {
	if c == nil {
		return nil
	}
	if CanonicalClass(forClass) != c.Class {
		if logger != nil {
			logger.Warn("Discarding skill tree for stale class",
				"tree_class", forClass, "character_class", c.Class)
		}
		return c
	}
	norm := NormalizeSkillTree(tree)
	if norm == nil {
		if logger != nil {
			logger.Warn("Rejecting malformed skill tree",
				"class", forClass, "stages", treeStageCount(tree))
		}
		return c
	}

	out := c.Clone()
	out.SkillTree = norm
	return out
}

// ChangeClass atomically switches the character to a new class: the
// normalized tree is installed, the stage resets to 0, and learned skills
// are replaced with the new class starters. A malformed tree aborts the
// whole transition, leaving class, tree, stage and skills untouched.
func (c *Character) ChangeClass(newClass string, tree *SkillTree, logger *slog.Logger) *Character {
	if c == nil {
		return nil
	}
	norm := NormalizeSkillTree(tree)
	if norm == nil {
		if logger != nil {
			logger.Warn("Rejecting class change with malformed skill tree",
				"class", newClass, "stages", treeStageCount(tree))
		}
		return c
	}

	class := CanonicalClass(newClass)
	out := c.Clone()
	out.Class = class
	out.SkillTree = norm
	out.SkillTree.ClassName = class
	out.SkillTreeStage = 0
	out.LearnedSkills = StarterSkills(class)
	return out
}

// ProgressSkillStage advances the skill tree stage. The target is clamped to
// the valid range and stages never regress.
func (c *Character) ProgressSkillStage(target int) *Character {
	if c == nil {
		return nil
	}
	target = clamp(target, 0, MaxSkillStage)
	if target <= c.SkillTreeStage {
		return c
	}
	out := c.Clone()
	out.SkillTreeStage = target
	return out
}

// LearnSkill appends a skill if no skill of that name is already known.
// Skills gained mid-adventure are always tagged as learned, whatever the
// source claimed.
func (c *Character) LearnSkill(sk Skill) *Character {
	if c == nil || sk.Name == "" {
		return c
	}
	for _, known := range c.LearnedSkills {
		if known.Name == sk.Name {
			return c
		}
	}
	out := c.Clone()
	sk.Kind = SkillKindLearned
	out.LearnedSkills = append(out.LearnedSkills, sk)
	return out
}

// recomputePools recalculates all three pool caps from current stats and
// knowledge, then clamps each current value into [0, max]. Currents never
// increase here; raising them takes an explicit heal, restore or level-up.
func (c *Character) recomputePools() {
	c.MaxHealth = derive.MaxHealth(c.Stats)
	c.MaxStamina = derive.MaxActionStamina(c.Stats)
	c.MaxMana = derive.MaxMana(c.Stats, c.Knowledge)

	c.CurrentHealth = clamp(c.CurrentHealth, 0, c.MaxHealth)
	c.CurrentStamina = clamp(c.CurrentStamina, 0, c.MaxStamina)
	c.CurrentMana = clamp(c.CurrentMana, 0, c.MaxMana)
}

// RestorePools refills all three resource pools to their maxima.
func (c *Character) RestorePools() *Character {
	if c == nil {
		return nil
	}
	out := c.Clone()
	out.CurrentHealth = out.MaxHealth
	out.CurrentStamina = out.MaxStamina
	out.CurrentMana = out.MaxMana
	return out
}

// IsDefeated reports whether the character's health pool is empty.
func (c *Character) IsDefeated() bool {
	return c != nil && c.CurrentHealth <= 0
}

func treeStageCount(t *SkillTree) int {
	if t == nil {
		return 0
	}
	return len(t.Stages)
}

func clampStats(s derive.Stats) derive.Stats {
	s.Strength = clamp(s.Strength, derive.MinStat, derive.MaxStat)
	s.Stamina = clamp(s.Stamina, derive.MinStat, derive.MaxStat)
	s.Wisdom = clamp(s.Wisdom, derive.MinStat, derive.MaxStat)
	return s
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
