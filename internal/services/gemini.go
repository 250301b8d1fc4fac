package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/sagaforge/adventure-engine/pkg/chat"
)

const DefaultGeminiModel = "gemini-2.0-flash"

// GeminiService implements NarratorService for Google Gemini
type GeminiService struct {
	client    *genai.Client
	modelName string
	logger    *slog.Logger
}

// Ensure GeminiService implements NarratorService interface
var _ NarratorService = (*GeminiService)(nil)

func NewGeminiService(ctx context.Context, apiKey string, modelName string, logger *slog.Logger) (*GeminiService, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	if modelName == "" {
		modelName = DefaultGeminiModel
	}
	return &GeminiService{
		client:    client,
		modelName: modelName,
		logger:    logger,
	}, nil
}

func (g *GeminiService) InitModel(ctx context.Context, modelName string) error {
	if modelName != "" {
		g.modelName = modelName
	}
	return nil
}

func (g *GeminiService) Close() error {
	return g.client.Close()
}

// GenerateResponse runs the messages through a Gemini chat session. System
// messages become the system instruction; prior turns become session
// history; the last user message is sent as the live prompt.
func (g *GeminiService) GenerateResponse(ctx context.Context, messages []chat.ChatMessage) (string, error) {
	model := g.client.GenerativeModel(g.modelName)

	var systemParts []string
	var conversation []chat.ChatMessage
	for _, msg := range messages {
		if msg.Role == chat.ChatRoleSystem {
			systemParts = append(systemParts, msg.Content)
		} else {
			conversation = append(conversation, msg)
		}
	}
	if len(systemParts) > 0 {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(strings.Join(systemParts, "\n\n"))},
		}
	}

	prompt := "Begin."
	if len(conversation) > 0 {
		last := conversation[len(conversation)-1]
		if last.Role == chat.ChatRoleUser {
			prompt = last.Content
			conversation = conversation[:len(conversation)-1]
		}
	}

	session := model.StartChat()
	for _, msg := range conversation {
		role := "user"
		if msg.Role == chat.ChatRoleAgent {
			role = "model"
		}
		session.History = append(session.History, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(msg.Content)},
		})
	}

	resp, err := session.SendMessage(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	text := geminiResponseText(resp)
	if text == "" {
		return "", fmt.Errorf("empty response from model")
	}
	return text, nil
}

func geminiResponseText(resp *genai.GenerateContentResponse) string {
	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if txt, ok := part.(genai.Text); ok {
				sb.WriteString(string(txt))
			}
		}
	}
	return sb.String()
}
