package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sagaforge/adventure-engine/internal/services"
	"github.com/sagaforge/adventure-engine/pkg/chat"
	"github.com/sagaforge/adventure-engine/pkg/character"
)

func TestSkillTreeHandler_ServeHTTP(t *testing.T) {
	mock := services.NewMockNarrator()
	mock.GenerateResponseFunc = func(ctx context.Context, messages []chat.ChatMessage) (string, error) {
		return "not json at all", nil // Falls back to the static tree
	}
	handler := NewSkillTreeHandler(mock, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/v1/skilltree", strings.NewReader(`{"class":"ranger"}`))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d. Response body: %s", rr.Code, rr.Body.String())
	}

	var resp SkillTreeResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.SkillTree == nil {
		t.Fatal("Expected a skill tree")
	}
	if resp.SkillTree.ClassName != "Ranger" {
		t.Errorf("Expected class Ranger, got %q", resp.SkillTree.ClassName)
	}
	if len(resp.SkillTree.Stages) != character.SkillTreeStageCount {
		t.Errorf("Expected %d stages, got %d", character.SkillTreeStageCount, len(resp.SkillTree.Stages))
	}
}

func TestSkillTreeHandler_Validation(t *testing.T) {
	handler := NewSkillTreeHandler(services.NewMockNarrator(), testLogger())

	req := httptest.NewRequest(http.MethodPost, "/v1/skilltree", strings.NewReader(`{}`))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for missing class, got %d", rr.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/skilltree", nil)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected status 405, got %d", rr.Code)
	}
}
