package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/sagaforge/adventure-engine/internal/storage"
	"github.com/sagaforge/adventure-engine/pkg/adventure"
	"github.com/sagaforge/adventure-engine/pkg/character"
	"github.com/sagaforge/adventure-engine/pkg/settings"
)

func testGameplayState() *adventure.GameState {
	gs := adventure.NewGameState()
	gs.Character = character.New(character.CreatePayload{Name: "Kael", Class: "Warrior"})
	gs.Settings = gs.Settings.SetType(settings.TypeClassic)
	return gs.StartGameplay(nil)
}

func testSavedAdventure() *adventure.SavedAdventure {
	gs := testGameplayState()
	saved := gs.SaveCurrentAdventure(time.Now(), nil)
	sa := saved.SavedAdventures[saved.CurrentAdventureID]
	return &sa
}

func TestAdventureHandler_SaveAndRead(t *testing.T) {
	store := storage.NewMockStore()
	handler := NewAdventureHandler(store, testLogger())

	sa := testSavedAdventure()
	body, err := json.Marshal(sa)
	if err != nil {
		t.Fatalf("Failed to marshal adventure: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/adventures", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d. Response body: %s", rr.Code, rr.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/adventures/"+sa.ID.String(), nil)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}

	var loaded adventure.SavedAdventure
	if err := json.NewDecoder(rr.Body).Decode(&loaded); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if loaded.ID != sa.ID {
		t.Errorf("Expected id %s, got %s", sa.ID, loaded.ID)
	}
	if loaded.CharacterName != "Kael" {
		t.Errorf("Expected character name Kael, got %q", loaded.CharacterName)
	}
}

func TestAdventureHandler_SaveValidation(t *testing.T) {
	store := storage.NewMockStore()
	handler := NewAdventureHandler(store, testLogger())

	coop := testSavedAdventure()
	coop.Settings = settings.Default().SetType(settings.TypeCoop)
	coopBody, _ := json.Marshal(coop)

	noCharacter := testSavedAdventure()
	noCharacter.Character = nil
	noCharacterBody, _ := json.Marshal(noCharacter)

	tests := []struct {
		name           string
		body           string
		expectedStatus int
	}{
		{"invalid json", `{"id": nonsense`, http.StatusBadRequest},
		{"missing id", `{"character_name":"Kael"}`, http.StatusBadRequest},
		{"missing character", string(noCharacterBody), http.StatusBadRequest},
		{"coop adventure", string(coopBody), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/adventures", bytes.NewReader([]byte(tt.body)))
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d. Response body: %s", tt.expectedStatus, rr.Code, rr.Body.String())
			}
		})
	}
}

func TestAdventureHandler_List(t *testing.T) {
	store := storage.NewMockStore()
	handler := NewAdventureHandler(store, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/v1/adventures", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	var empty []adventure.SavedAdventure
	if err := json.NewDecoder(rr.Body).Decode(&empty); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("Expected empty list, got %d entries", len(empty))
	}

	for i := 0; i < 3; i++ {
		sa := testSavedAdventure()
		if err := store.SaveAdventure(context.Background(), sa); err != nil {
			t.Fatalf("Failed to seed adventure: %v", err)
		}
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/adventures", nil)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	var adventures []adventure.SavedAdventure
	if err := json.NewDecoder(rr.Body).Decode(&adventures); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(adventures) != 3 {
		t.Errorf("Expected 3 adventures, got %d", len(adventures))
	}
}

func TestAdventureHandler_Delete(t *testing.T) {
	store := storage.NewMockStore()
	handler := NewAdventureHandler(store, testLogger())

	sa := testSavedAdventure()
	if err := store.SaveAdventure(context.Background(), sa); err != nil {
		t.Fatalf("Failed to seed adventure: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/v1/adventures/"+sa.ID.String(), nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("Expected status 204, got %d", rr.Code)
	}

	got, err := store.GetAdventure(context.Background(), sa.ID)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got != nil {
		t.Error("Expected adventure to be deleted")
	}
}

func TestAdventureHandler_PathAndMethodErrors(t *testing.T) {
	store := storage.NewMockStore()
	handler := NewAdventureHandler(store, testLogger())

	tests := []struct {
		name           string
		method         string
		path           string
		expectedStatus int
	}{
		{"bad id format", http.MethodGet, "/v1/adventures/not-a-uuid", http.StatusBadRequest},
		{"missing adventure", http.MethodGet, "/v1/adventures/" + uuid.New().String(), http.StatusNotFound},
		{"delete without id", http.MethodDelete, "/v1/adventures", http.StatusBadRequest},
		{"method not allowed", http.MethodPatch, "/v1/adventures", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, rr.Code)
			}
		})
	}
}
