// Package settings owns adventure configuration and session preferences.
// Adventure settings are scoped to one playthrough; session preferences
// (theme, dark mode, API key) survive adventure resets and loads.
package settings

import "log/slog"

// AdventureType selects how an adventure is framed for the narrator.
type AdventureType string

const (
	TypeClassic  AdventureType = "classic"  // stock fantasy scenario
	TypeCustom   AdventureType = "custom"   // player-described world and quest
	TypeImmersed AdventureType = "immersed" // drop into an existing fictional universe
	TypeCoop     AdventureType = "coop"     // live shared session, never persisted
)

var validTypes = map[AdventureType]bool{
	TypeClassic:  true,
	TypeCustom:   true,
	TypeImmersed: true,
	TypeCoop:     true,
}

// Difficulty grades how punishing the narrator should be.
type Difficulty string

const (
	DifficultyTrivial    Difficulty = "Trivial"
	DifficultyEasy       Difficulty = "Easy"
	DifficultyNormal     Difficulty = "Normal"
	DifficultyHard       Difficulty = "Hard"
	DifficultyNightmare  Difficulty = "Nightmare"
	DifficultyImpossible Difficulty = "Impossible"
)

var validDifficulties = map[Difficulty]bool{
	DifficultyTrivial:    true,
	DifficultyEasy:       true,
	DifficultyNormal:     true,
	DifficultyHard:       true,
	DifficultyNightmare:  true,
	DifficultyImpossible: true,
}

// AdventureSettings configures one playthrough. Fields owned by a non-active
// adventure type are always blank: switching types resets the struct before
// reapplying the common fields.
type AdventureSettings struct {
	AdventureType  AdventureType `json:"adventure_type,omitempty"`
	PermanentDeath bool          `json:"permanent_death"`
	Difficulty     Difficulty    `json:"difficulty"`

	// Custom type only.
	CustomWorld string `json:"custom_world,omitempty"`
	CustomQuest string `json:"custom_quest,omitempty"`
	CustomGenre string `json:"custom_genre,omitempty"`

	// Immersed type only.
	ImmersedUniverse string `json:"immersed_universe,omitempty"`
	ImmersedConcept  string `json:"immersed_concept,omitempty"`
	ImmersedOrigin   string `json:"immersed_origin,omitempty"`
}

// Default returns the canonical initial adventure settings.
func Default() AdventureSettings {
	return AdventureSettings{Difficulty: DifficultyNormal}
}

// Patch is a partial settings update. Nil fields are left alone.
type Patch struct {
	AdventureType  *AdventureType `json:"adventure_type,omitempty"`
	PermanentDeath *bool          `json:"permanent_death,omitempty"`
	Difficulty     *Difficulty    `json:"difficulty,omitempty"`

	CustomWorld *string `json:"custom_world,omitempty"`
	CustomQuest *string `json:"custom_quest,omitempty"`
	CustomGenre *string `json:"custom_genre,omitempty"`

	ImmersedUniverse *string `json:"immersed_universe,omitempty"`
	ImmersedConcept  *string `json:"immersed_concept,omitempty"`
}

// Merge applies the patch over the settings. An invalid difficulty keeps the
// previous value; fields owned by a type other than the resulting one are
// blanked afterwards.
func (s AdventureSettings) Merge(p Patch, logger *slog.Logger) AdventureSettings {
	if p.AdventureType != nil && validTypes[*p.AdventureType] {
		s.AdventureType = *p.AdventureType
	}
	if p.PermanentDeath != nil {
		s.PermanentDeath = *p.PermanentDeath
	}
	if p.Difficulty != nil {
		if validDifficulties[*p.Difficulty] {
			s.Difficulty = *p.Difficulty
		} else if logger != nil {
			logger.Warn("Ignoring invalid difficulty", "difficulty", *p.Difficulty)
		}
	}

	if p.CustomWorld != nil {
		s.CustomWorld = *p.CustomWorld
	}
	if p.CustomQuest != nil {
		s.CustomQuest = *p.CustomQuest
	}
	if p.CustomGenre != nil {
		s.CustomGenre = *p.CustomGenre
	}
	if p.ImmersedUniverse != nil {
		s.ImmersedUniverse = *p.ImmersedUniverse
	}
	if p.ImmersedConcept != nil {
		s.ImmersedConcept = *p.ImmersedConcept
	}

	return s.blankForeignFields()
}

// SetType switches the adventure type: everything resets to defaults except
// the common difficulty and permadeath fields. The immersed type starts with
// its origin sub-field seeded; no other type has one.
func (s AdventureSettings) SetType(t AdventureType) AdventureSettings {
	out := Default()
	out.Difficulty = s.Difficulty
	out.PermanentDeath = s.PermanentDeath
	if !validTypes[t] {
		return out
	}
	out.AdventureType = t
	if t == TypeImmersed {
		out.ImmersedOrigin = "existing-universe"
	}
	return out
}

// blankForeignFields zeroes every field owned by a type other than the
// active one.
func (s AdventureSettings) blankForeignFields() AdventureSettings {
	if s.AdventureType != TypeCustom {
		s.CustomWorld = ""
		s.CustomQuest = ""
		s.CustomGenre = ""
	}
	if s.AdventureType != TypeImmersed {
		s.ImmersedUniverse = ""
		s.ImmersedConcept = ""
		s.ImmersedOrigin = ""
	}
	return s
}

// FromSnapshot normalizes settings loaded from a save: invalid enum values
// fall back to defaults and foreign type fields are blanked.
func FromSnapshot(s AdventureSettings) AdventureSettings {
	if !validTypes[s.AdventureType] {
		s.AdventureType = ""
	}
	if !validDifficulties[s.Difficulty] {
		s.Difficulty = DifficultyNormal
	}
	return s.blankForeignFields()
}

// SessionPrefs are user preferences scoped to the session, not to any
// adventure. Reset and load operations leave them untouched.
type SessionPrefs struct {
	ThemeID    string `json:"theme_id,omitempty"`
	DarkMode   bool   `json:"dark_mode"`
	UserAPIKey string `json:"user_api_key,omitempty"`
}
