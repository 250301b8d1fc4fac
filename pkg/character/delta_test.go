package character

import (
	"testing"

	"github.com/sagaforge/adventure-engine/pkg/derive"
)

func TestApplyDelta_ResourceClamping(t *testing.T) {
	c := New(CreatePayload{Stats: &derive.Stats{Strength: 5, Stamina: 5, Wisdom: 5}})

	tests := []struct {
		name        string
		delta       *Delta
		wantHealth  int
		wantStamina int
		wantMana    int
	}{
		{"damage", &Delta{HealthChange: -30}, 40, 55, 60},
		{"overheal clamps to max", &Delta{HealthChange: 500}, 70, 55, 60},
		{"overdraw floors at zero", &Delta{StaminaChange: -200, ManaChange: -200}, 70, 0, 0},
		{"mixed", &Delta{HealthChange: -75, StaminaChange: 10, ManaChange: -5}, 0, 55, 55},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.ApplyDelta(tt.delta, nil)
			if got.CurrentHealth != tt.wantHealth {
				t.Errorf("health = %d, want %d", got.CurrentHealth, tt.wantHealth)
			}
			if got.CurrentStamina != tt.wantStamina {
				t.Errorf("stamina = %d, want %d", got.CurrentStamina, tt.wantStamina)
			}
			if got.CurrentMana != tt.wantMana {
				t.Errorf("mana = %d, want %d", got.CurrentMana, tt.wantMana)
			}
		})
	}
}

func TestApplyDelta_InvariantUnderSequences(t *testing.T) {
	c := New(CreatePayload{Class: "Cleric"})
	two, nine := 2, 9

	deltas := []*Delta{
		{HealthChange: -45, XPGained: 10},
		{Stats: &StatPatch{Stamina: &two}},
		{Knowledge: []string{"Healing"}},
		{ManaChange: 999},
		{Stats: &StatPatch{Wisdom: &nine}, StaminaChange: -12},
		{HealthChange: -999, Reputation: &ScoreChange{Name: "Church", Change: -250}},
		{HealthChange: 3},
	}

	for i, d := range deltas {
		c = c.ApplyDelta(d, nil)

		if c.CurrentHealth < 0 || c.CurrentHealth > c.MaxHealth {
			t.Fatalf("after delta %d: health %d outside [0,%d]", i, c.CurrentHealth, c.MaxHealth)
		}
		if c.CurrentStamina < 0 || c.CurrentStamina > c.MaxStamina {
			t.Fatalf("after delta %d: stamina %d outside [0,%d]", i, c.CurrentStamina, c.MaxStamina)
		}
		if c.CurrentMana < 0 || c.CurrentMana > c.MaxMana {
			t.Fatalf("after delta %d: mana %d outside [0,%d]", i, c.CurrentMana, c.MaxMana)
		}

		// Caps are always the pure functions of current stats/knowledge.
		if c.MaxHealth != derive.MaxHealth(c.Stats) {
			t.Fatalf("after delta %d: max health %d, derived %d", i, c.MaxHealth, derive.MaxHealth(c.Stats))
		}
		if c.MaxStamina != derive.MaxActionStamina(c.Stats) {
			t.Fatalf("after delta %d: max stamina %d, derived %d", i, c.MaxStamina, derive.MaxActionStamina(c.Stats))
		}
		if c.MaxMana != derive.MaxMana(c.Stats, c.Knowledge) {
			t.Fatalf("after delta %d: max mana %d, derived %d", i, c.MaxMana, derive.MaxMana(c.Stats, c.Knowledge))
		}

		for faction, score := range c.Reputation {
			if score < MinScore || score > MaxScore {
				t.Fatalf("after delta %d: reputation %q = %d out of bounds", i, faction, score)
			}
		}
	}
}

func TestApplyDelta_StatDropDoesNotRaiseCurrent(t *testing.T) {
	c := New(CreatePayload{Stats: &derive.Stats{Strength: 5, Stamina: 5, Wisdom: 5}})
	c = c.ApplyDelta(&Delta{HealthChange: -40}, nil) // 30/70

	eight := 8
	got := c.ApplyDelta(&Delta{Stats: &StatPatch{Stamina: &eight}}, nil)
	if got.MaxHealth != 100 {
		t.Fatalf("max health = %d, want 100", got.MaxHealth)
	}
	if got.CurrentHealth != 30 {
		t.Errorf("current health = %d, want unchanged 30 (cap raise is not a heal)", got.CurrentHealth)
	}
}

func TestApplyDelta_SkillGainAndProgression(t *testing.T) {
	c := New(CreatePayload{Class: "Ranger"})
	n := len(c.LearnedSkills)

	c = c.ApplyDelta(&Delta{
		GainedSkill:       &Skill{Name: "Hawk Eye", Kind: SkillKindStarter},
		ProgressedToStage: 2,
	}, nil)

	if len(c.LearnedSkills) != n+1 {
		t.Fatal("gained skill not appended")
	}
	if c.LearnedSkills[n].Kind != SkillKindLearned {
		t.Errorf("gained skill kind = %q, want learned regardless of source", c.LearnedSkills[n].Kind)
	}
	if c.SkillTreeStage != 2 {
		t.Errorf("stage = %d, want 2", c.SkillTreeStage)
	}

	// Duplicate gain and stage regression are both ignored.
	c = c.ApplyDelta(&Delta{GainedSkill: &Skill{Name: "Hawk Eye"}, ProgressedToStage: 1}, nil)
	if len(c.LearnedSkills) != n+1 {
		t.Error("duplicate skill gain appended")
	}
	if c.SkillTreeStage != 2 {
		t.Errorf("stage regressed to %d", c.SkillTreeStage)
	}
}

func TestApplyDelta_TraitsAndXP(t *testing.T) {
	c := New(CreatePayload{Traits: []string{"Brave"}})

	c = c.ApplyDelta(&Delta{Traits: []string{"Brave", "Scarred"}, XPGained: 25}, nil)
	if len(c.Traits) != 2 || c.Traits[1] != "Scarred" {
		t.Errorf("traits = %v, want replaced wholesale", c.Traits)
	}
	if c.XP != 25 {
		t.Errorf("xp = %d, want 25", c.XP)
	}

	// Negative XP from an untrusted source is ignored.
	c = c.ApplyDelta(&Delta{XPGained: -10}, nil)
	if c.XP != 25 {
		t.Errorf("xp = %d, negative gain should be ignored", c.XP)
	}
}

func TestApplyDelta_EmptyDeltaReturnsSameState(t *testing.T) {
	c := New(CreatePayload{})
	got := c.ApplyDelta(&Delta{}, nil)
	if got != c {
		t.Error("empty delta should return the character unchanged")
	}
	if got = c.ApplyDelta(nil, nil); got != c {
		t.Error("nil delta should return the character unchanged")
	}

	var nilChar *Character
	if nilChar.ApplyDelta(&Delta{XPGained: 5}, nil) != nil {
		t.Error("nil character stays nil")
	}
}
