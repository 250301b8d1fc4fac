// Package prompts constructs the message arrays sent to the narrator LLM.
// It separates prompt building from game state management: the builder
// reads state, never mutates it.
package prompts

import (
	"fmt"

	"github.com/sagaforge/adventure-engine/pkg/adventure"
	"github.com/sagaforge/adventure-engine/pkg/chat"
)

// Builder constructs chat messages for narrator interaction using a fluent
// interface.
type Builder struct {
	gs            *adventure.GameState
	playerAction  string
	historyLimit  int
	dynamicEvents []string
	messages      []chat.ChatMessage
}

// New creates a new prompt builder with default settings.
func New() *Builder {
	return &Builder{
		historyLimit: 20, // default history window
		messages:     make([]chat.ChatMessage, 0),
	}
}

// WithGameState sets the game state (contains the character, settings and
// running context block).
func (b *Builder) WithGameState(gs *adventure.GameState) *Builder {
	b.gs = gs
	return b
}

// WithPlayerAction sets the player's action for this turn.
func (b *Builder) WithPlayerAction(action string) *Builder {
	b.playerAction = action
	return b
}

// WithHistoryLimit sets the story log history window size.
func (b *Builder) WithHistoryLimit(limit int) *Builder {
	b.historyLimit = limit
	return b
}

// WithDynamicEvents sets pending world events to weave into this turn's
// narration. Events are injected as a system message after the state context.
func (b *Builder) WithDynamicEvents(events []string) *Builder {
	b.dynamicEvents = events
	return b
}

// Build constructs and returns the final message array for LLM consumption.
func (b *Builder) Build() ([]chat.ChatMessage, error) {
	if b.gs == nil {
		return nil, fmt.Errorf("game state is required")
	}

	// Reset messages
	b.messages = make([]chat.ChatMessage, 0)

	// 1. System prompt
	b.messages = append(b.messages, chat.ChatMessage{
		Role:    chat.ChatRoleSystem,
		Content: BuildSystemPrompt(b.gs),
	})

	// 2. Structured state context
	statePrompt, err := GetStatePrompt(b.gs)
	if err != nil {
		return nil, fmt.Errorf("error generating state prompt: %w", err)
	}
	b.messages = append(b.messages, statePrompt)

	// 3. Pending dynamic world events
	b.addDynamicEvents()

	// 4. Windowed narration history
	b.addHistory()

	// 5. Player action
	b.addPlayerAction()

	// 6. Final reminders
	b.addFinalPrompt()

	return b.messages, nil
}

// addDynamicEvents adds queued world events as a system directive so the
// narrator works them into the next response.
func (b *Builder) addDynamicEvents() {
	if len(b.dynamicEvents) == 0 {
		return
	}
	content := "The following world events occur this turn. Weave them into the narration naturally:\n"
	for _, ev := range b.dynamicEvents {
		content += "- " + ev + "\n"
	}
	b.messages = append(b.messages, chat.ChatMessage{
		Role:    chat.ChatRoleSystem,
		Content: content,
	})
}

// addHistory adds the windowed prior narrations as assistant messages.
func (b *Builder) addHistory() {
	log := b.gs.StoryLog
	if len(log) == 0 {
		return
	}
	if len(log) > b.historyLimit {
		log = log[len(log)-b.historyLimit:]
	}
	for _, entry := range log {
		b.messages = append(b.messages, chat.ChatMessage{
			Role:    chat.ChatRoleAgent,
			Content: entry.Narration,
		})
	}
}

// addPlayerAction adds the current player action, prefixed with the
// character's name in dialogue form.
func (b *Builder) addPlayerAction() {
	if b.playerAction == "" {
		return
	}
	content := b.playerAction
	if b.gs.Character != nil && b.gs.Character.Name != "" {
		content = chat.FormatWithCharacterName(content, b.gs.Character.Name)
	}
	b.messages = append(b.messages, chat.ChatMessage{
		Role:    chat.ChatRoleUser,
		Content: content,
	})
}

// addFinalPrompt adds adventure-end or standard reminders.
func (b *Builder) addFinalPrompt() {
	finalPrompt := UserPostPrompt
	if b.gs.Status == adventure.StatusAdventureSummary {
		finalPrompt = GameEndSystemPrompt
	}
	b.messages = append(b.messages, chat.ChatMessage{
		Role:    chat.ChatRoleSystem,
		Content: finalPrompt,
	})
}

// BuildMessages is a convenience function for the common case.
// It creates a builder, sets all parameters, and builds the messages in one
// call.
func BuildMessages(gs *adventure.GameState, action string, historyLimit int) ([]chat.ChatMessage, error) {
	return New().
		WithGameState(gs).
		WithPlayerAction(action).
		WithHistoryLimit(historyLimit).
		Build()
}
