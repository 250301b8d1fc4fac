package services

import (
	"context"
	"sync"

	"github.com/sagaforge/adventure-engine/pkg/chat"
)

// MockNarrator is a mock implementation of NarratorService for testing
type MockNarrator struct {
	InitModelFunc        func(ctx context.Context, modelName string) error
	GenerateResponseFunc func(ctx context.Context, messages []chat.ChatMessage) (string, error)

	// Track calls for testing
	InitModelCalls        []string
	GenerateResponseCalls []GenerateResponseCall

	mu sync.Mutex // protects all fields above
}

type GenerateResponseCall struct {
	Messages []chat.ChatMessage
}

// Ensure MockNarrator implements NarratorService interface
var _ NarratorService = (*MockNarrator)(nil)

// NewMockNarrator creates a new mock narrator service
func NewMockNarrator() *MockNarrator {
	return &MockNarrator{
		InitModelCalls:        make([]string, 0),
		GenerateResponseCalls: make([]GenerateResponseCall, 0),
	}
}

// InitModel mocks model initialization
func (m *MockNarrator) InitModel(ctx context.Context, modelName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.InitModelCalls = append(m.InitModelCalls, modelName)

	if m.InitModelFunc != nil {
		return m.InitModelFunc(ctx, modelName)
	}

	// Default behavior - success
	return nil
}

// GenerateResponse mocks response generation
func (m *MockNarrator) GenerateResponse(ctx context.Context, messages []chat.ChatMessage) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GenerateResponseCalls = append(m.GenerateResponseCalls, GenerateResponseCall{
		Messages: messages,
	})

	if m.GenerateResponseFunc != nil {
		return m.GenerateResponseFunc(ctx, messages)
	}

	// Default behavior - a minimal valid turn
	return `{"narration": "Mock narration."}`, nil
}
