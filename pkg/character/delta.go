package character

import "log/slog"

// ScoreChange is a named delta against a reputation or relationship score.
type ScoreChange struct {
	Name   string `json:"name"`
	Change int    `json:"change"`
}

// Delta carries the character-affecting portion of a narrator turn. Fields
// are independent: each applies only when present, and a malformed or absent
// field never blocks the others. A resource delta of exactly zero means "no
// change", not an explicit zero-set.
type Delta struct {
	Stats     *StatPatch `json:"updated_stats,omitempty"`
	Traits    []string   `json:"updated_traits,omitempty"`
	Knowledge []string   `json:"updated_knowledge,omitempty"`

	HealthChange  int `json:"health_change,omitempty"`
	StaminaChange int `json:"stamina_change,omitempty"`
	ManaChange    int `json:"mana_change,omitempty"`

	XPGained          int          `json:"xp_gained,omitempty"`
	Reputation        *ScoreChange `json:"reputation_change,omitempty"`
	NPCRelationship   *ScoreChange `json:"npc_relationship_change,omitempty"`
	GainedSkill       *Skill       `json:"gained_skill,omitempty"`
	ProgressedToStage int          `json:"progressed_to_stage,omitempty"`
}

// IsEmpty reports whether the delta would change nothing.
func (d *Delta) IsEmpty() bool {
	return d == nil || (d.Stats.IsZero() &&
		d.Traits == nil &&
		d.Knowledge == nil &&
		d.HealthChange == 0 &&
		d.StaminaChange == 0 &&
		d.ManaChange == 0 &&
		d.XPGained == 0 &&
		d.Reputation == nil &&
		d.NPCRelationship == nil &&
		d.GainedSkill == nil &&
		d.ProgressedToStage == 0)
}

// ApplyDelta applies a narrator turn delta to a copy of the character.
// Stat and knowledge updates recompute the derived pool caps before resource
// deltas land, so a turn that both raises stamina and heals behaves the same
// as two separate turns.
func (c *Character) ApplyDelta(d *Delta, logger *slog.Logger) *Character {
	if c == nil || d.IsEmpty() {
		return c
	}
	out := c.Clone()

	recompute := false
	if !d.Stats.IsZero() {
		out.Stats = d.Stats.Apply(out.Stats)
		recompute = true
	}
	if d.Traits != nil {
		out.Traits = append([]string(nil), d.Traits...)
	}
	if d.Knowledge != nil {
		out.Knowledge = append([]string(nil), d.Knowledge...)
		recompute = true
	}
	if recompute {
		out.recomputePools()
	}

	if d.HealthChange != 0 {
		out.CurrentHealth = clamp(out.CurrentHealth+d.HealthChange, 0, out.MaxHealth)
	}
	if d.StaminaChange != 0 {
		out.CurrentStamina = clamp(out.CurrentStamina+d.StaminaChange, 0, out.MaxStamina)
	}
	if d.ManaChange != 0 {
		out.CurrentMana = clamp(out.CurrentMana+d.ManaChange, 0, out.MaxMana)
	}

	if d.GainedSkill != nil && d.GainedSkill.Name != "" {
		sk := *d.GainedSkill
		sk.Kind = SkillKindLearned
		already := false
		for _, known := range out.LearnedSkills {
			if known.Name == sk.Name {
				already = true
				break
			}
		}
		if !already {
			out.LearnedSkills = append(out.LearnedSkills, sk)
		} else if logger != nil {
			logger.Debug("Skill already known, ignoring gain", "skill", sk.Name)
		}
	}

	if d.XPGained > 0 {
		out.XP += d.XPGained
	}

	if d.Reputation != nil && d.Reputation.Name != "" {
		if out.Reputation == nil {
			out.Reputation = make(map[string]int)
		}
		out.Reputation[d.Reputation.Name] = clamp(
			out.Reputation[d.Reputation.Name]+d.Reputation.Change, MinScore, MaxScore)
	}
	if d.NPCRelationship != nil && d.NPCRelationship.Name != "" {
		if out.NPCRelationships == nil {
			out.NPCRelationships = make(map[string]int)
		}
		out.NPCRelationships[d.NPCRelationship.Name] = clamp(
			out.NPCRelationships[d.NPCRelationship.Name]+d.NPCRelationship.Change, MinScore, MaxScore)
	}

	if d.ProgressedToStage > out.SkillTreeStage {
		out.SkillTreeStage = clamp(d.ProgressedToStage, 0, MaxSkillStage)
	}

	return out
}
