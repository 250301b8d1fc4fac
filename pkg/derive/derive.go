// Package derive contains the pure numeric rules of the game: resource pool
// caps derived from stats, and the experience curve. Every function here is
// deterministic and side-effect free, so callers can recompute derived values
// on every state change without bookkeeping.
package derive

import "math"

// Stat bounds at character creation. Narrative events may later push a stat
// outside the creation budget; derived pools simply recompute.
const (
	MinStat         = 1
	MaxStat         = 10
	StatPointBudget = 15
)

// Stats are the three core ability scores of a character.
type Stats struct {
	Strength int `json:"strength"`
	Stamina  int `json:"stamina"`
	Wisdom   int `json:"wisdom"`
}

// DefaultStats is the balanced spread used when a creation payload or an old
// save carries no stats at all.
func DefaultStats() Stats {
	return Stats{Strength: 5, Stamina: 5, Wisdom: 5}
}

// magicKnowledge are the knowledge tags that unlock the mana bonus.
var magicKnowledge = map[string]bool{
	"Magic":     true,
	"Arcana":    true,
	"Healing":   true,
	"Mysticism": true,
	"Lore":      true,
}

// MaxHealth derives the health pool cap from the stamina stat.
func MaxHealth(s Stats) int {
	return max(10, 20+s.Stamina*10)
}

// MaxActionStamina derives the physical action pool cap from the strength
// stat. This pool is distinct from the stamina stat that feeds health.
func MaxActionStamina(s Stats) int {
	return max(10, 30+s.Strength*5)
}

// MaxMana derives the mana pool cap from the wisdom stat, with a flat bonus
// when the character knows any magic-adjacent subject.
func MaxMana(s Stats, knowledge []string) int {
	mana := 10 + s.Wisdom*10
	for _, k := range knowledge {
		if magicKnowledge[k] {
			mana += 20
			break
		}
	}
	return mana
}

// XPToNextLevel is the experience threshold to advance past the given level.
// Strictly increasing for level >= 1.
func XPToNextLevel(level int) int {
	if level < 1 {
		level = 1
	}
	n := float64(level - 1)
	return int(math.Floor(100 + n*50 + math.Pow(n, 2.2)*10))
}
