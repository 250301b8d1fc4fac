package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sagaforge/adventure-engine/pkg/adventure"
	"github.com/sagaforge/adventure-engine/pkg/chat"
)

// NarratorService defines the interface for the narrator LLM backend.
type NarratorService interface {
	// InitModel initializes the LLM model on startup
	InitModel(ctx context.Context, modelName string) error

	// GenerateResponse generates a raw model response for the messages
	GenerateResponse(ctx context.Context, messages []chat.ChatMessage) (string, error)
}

// GenerateTurn runs a narrator exchange and parses the response into a
// sanitized turn delta.
func GenerateTurn(ctx context.Context, llm NarratorService, messages []chat.ChatMessage, logger *slog.Logger) (*adventure.TurnDelta, error) {
	raw, err := llm.GenerateResponse(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("narrator request failed: %w", err)
	}

	delta := ParseTurnDelta(raw, logger)
	delta.Sanitize(logger)
	return delta, nil
}

// ParseTurnDelta decodes a model response into a turn delta. Models wrap
// JSON in code fences or prose often enough that we extract the outermost
// object before decoding; a response with no usable JSON at all becomes a
// narration-only delta rather than an error.
func ParseTurnDelta(raw string, logger *slog.Logger) *adventure.TurnDelta {
	if payload := ExtractJSONObject(raw); payload != "" {
		var delta adventure.TurnDelta
		err := json.Unmarshal([]byte(payload), &delta)
		if err == nil && delta.Narration != "" {
			return &delta
		}
		if logger != nil {
			logger.Warn("Narrator JSON unusable, falling back to plain narration", "error", err)
		}
	}

	return &adventure.TurnDelta{Narration: strings.TrimSpace(raw)}
}

// ExtractJSONObject returns the outermost JSON object in s, or "" when none
// is present. Code fences and surrounding prose are ignored.
func ExtractJSONObject(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}
