package prompts

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sagaforge/adventure-engine/pkg/adventure"
	"github.com/sagaforge/adventure-engine/pkg/chat"
)

func TestBuilderMessageOrder(t *testing.T) {
	gs := testState()
	gs.StoryLog = append(gs.StoryLog, adventure.StoryLogEntry{Narration: "The gate creaks open."})

	messages, err := New().
		WithGameState(gs).
		WithPlayerAction("I step through the gate.").
		Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// system, state, one history entry, player action, final reminder
	if len(messages) != 5 {
		t.Fatalf("expected 5 messages, got %d", len(messages))
	}
	wantRoles := []string{
		chat.ChatRoleSystem,
		chat.ChatRoleSystem,
		chat.ChatRoleAgent,
		chat.ChatRoleUser,
		chat.ChatRoleSystem,
	}
	for i, role := range wantRoles {
		if messages[i].Role != role {
			t.Errorf("message %d role = %q, want %q", i, messages[i].Role, role)
		}
	}
	if messages[2].Content != "The gate creaks open." {
		t.Errorf("history content = %q", messages[2].Content)
	}
	if messages[3].Content != "Seraphine: I step through the gate." {
		t.Errorf("player action not name-prefixed: %q", messages[3].Content)
	}
	if messages[4].Content != UserPostPrompt {
		t.Errorf("final reminder = %q", messages[4].Content)
	}
}

func TestBuilderRequiresGameState(t *testing.T) {
	if _, err := New().WithPlayerAction("hello").Build(); err == nil {
		t.Error("expected error without game state")
	}
}

func TestBuilderHistoryWindow(t *testing.T) {
	gs := testState()
	for i := 0; i < 30; i++ {
		gs.StoryLog = append(gs.StoryLog, adventure.StoryLogEntry{
			Narration: fmt.Sprintf("entry %d", i),
		})
	}

	messages, err := New().
		WithGameState(gs).
		WithHistoryLimit(5).
		WithPlayerAction("onward").
		Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var history []string
	for _, m := range messages {
		if m.Role == chat.ChatRoleAgent {
			history = append(history, m.Content)
		}
	}
	if len(history) != 5 {
		t.Fatalf("expected 5 history entries, got %d", len(history))
	}
	if history[0] != "entry 25" || history[4] != "entry 29" {
		t.Errorf("expected most recent window, got %v", history)
	}
}

func TestBuilderDynamicEvents(t *testing.T) {
	gs := testState()

	messages, err := New().
		WithGameState(gs).
		WithPlayerAction("I rest by the fire.").
		WithDynamicEvents([]string{"A storm rolls in from the north.", "Wolves howl nearby."}).
		Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The event directive sits between the state context and the action.
	eventMsg := messages[2]
	if eventMsg.Role != chat.ChatRoleSystem {
		t.Fatalf("event message role = %q, want system", eventMsg.Role)
	}
	if !strings.Contains(eventMsg.Content, "A storm rolls in from the north.") ||
		!strings.Contains(eventMsg.Content, "Wolves howl nearby.") {
		t.Errorf("event message missing events: %q", eventMsg.Content)
	}

	// No events, no extra message.
	plain, err := New().WithGameState(gs).WithPlayerAction("I rest.").Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plain) != len(messages)-1 {
		t.Errorf("expected event message to be omitted when no events are queued")
	}
}

func TestBuilderEndedAdventure(t *testing.T) {
	gs := testState()
	gs.Status = adventure.StatusAdventureSummary

	messages, err := New().WithGameState(gs).Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	last := messages[len(messages)-1]
	if !strings.Contains(last.Content, "adventure has ended") {
		t.Errorf("expected end prompt, got %q", last.Content)
	}
}

func TestBuildMessages(t *testing.T) {
	gs := testState()
	messages, err := BuildMessages(gs, "I look around.", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(messages) < 3 {
		t.Fatalf("expected at least system, state, action and reminder, got %d", len(messages))
	}
	found := false
	for _, m := range messages {
		if m.Role == chat.ChatRoleUser && strings.Contains(m.Content, "I look around.") {
			found = true
		}
	}
	if !found {
		t.Error("player action missing from built messages")
	}
}
