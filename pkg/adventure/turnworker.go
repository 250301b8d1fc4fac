package adventure

import (
	"log/slog"
	"time"
)

// TurnWorker encapsulates applying one narrator turn to the game state:
// story log append, turn counting, the character delta, and context string
// resynthesis. It is the only writer of the story log and turn counter.
type TurnWorker struct {
	gs     *GameState
	delta  *TurnDelta
	logger *slog.Logger
	now    func() time.Time
}

// NewTurnWorker creates a worker for one turn.
func NewTurnWorker(gs *GameState, delta *TurnDelta, logger *slog.Logger) *TurnWorker {
	return &TurnWorker{
		gs:     gs,
		delta:  delta,
		logger: logger,
		now:    time.Now,
	}
}

// WithClock overrides the timestamp source.
// Returns the TurnWorker for method chaining.
func (tw *TurnWorker) WithClock(now func() time.Time) *TurnWorker {
	tw.now = now
	return tw
}

// Apply commits the turn and returns the new state. The input state is left
// untouched. A nil delta commits nothing: a failed narrator call must not
// reach the log.
func (tw *TurnWorker) Apply() *GameState {
	if tw.gs == nil || tw.delta == nil {
		return tw.gs
	}

	tw.delta.Sanitize(tw.logger)

	out := tw.gs.Clone()
	out.TurnCount++
	out.Character = out.Character.ApplyDelta(tw.delta.Character, tw.logger)
	out.CurrentNarration = tw.delta.Narration

	// The narrator's own context string is only trusted as a substitution
	// base when it carries a turn marker; otherwise fall back to ours.
	base := tw.delta.UpdatedGameState
	if !HasTurnMarker(base) {
		if base != "" && tw.logger != nil {
			tw.logger.Debug("Narrator context string missing turn marker, using synthesized state")
		}
		base = out.GameStateString
	}
	out.GameStateString = Synthesize(base, out.Character, out.Inventory, out.TurnCount)

	ts := tw.delta.Timestamp
	if ts.IsZero() {
		ts = tw.now()
	}
	out.StoryLog = append(out.StoryLog, StoryLogEntry{
		Narration:        tw.delta.Narration,
		UpdatedGameState: out.GameStateString,
		Timestamp:        ts,
		Changes:          tw.delta.Character,
		SuggestedClass:   tw.delta.SuggestedClassChange,
	})

	return out
}

// Defeated reports whether the applied turn leaves the character defeated,
// either by the health pool emptying or by the narrator flagging defeat
// outright. The worker never ends the adventure itself: permadeath versus
// respawn is the caller's policy.
func (tw *TurnWorker) Defeated(applied *GameState) bool {
	if tw.delta != nil && tw.delta.IsCharacterDefeated {
		return true
	}
	return applied != nil && applied.Character.IsDefeated()
}
