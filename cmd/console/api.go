package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/sagaforge/adventure-engine/internal/handlers"
	"github.com/sagaforge/adventure-engine/pkg/adventure"
	"github.com/sagaforge/adventure-engine/pkg/character"
	"github.com/sagaforge/adventure-engine/pkg/chat"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func testConnection(client *http.Client, baseURL string) bool {
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()
	return resp.StatusCode == http.StatusOK
}

func listAdventures(client *http.Client, baseURL string) ([]adventure.SavedAdventure, error) {
	resp, err := client.Get(baseURL + "/v1/adventures")
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("failed to list adventures: %s", errorResp.Error)
	}

	var adventures []adventure.SavedAdventure
	if err := json.Unmarshal(body, &adventures); err != nil {
		return nil, fmt.Errorf("failed to parse adventure list: %w", err)
	}
	return adventures, nil
}

func deleteAdventure(client *http.Client, baseURL string, id uuid.UUID) error {
	req, err := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/v1/adventures/%s", baseURL, id), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	if resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

func fetchSkillTree(client *http.Client, baseURL string, class, background string) (*character.SkillTree, error) {
	reqBody, err := json.Marshal(handlers.SkillTreeRequest{Class: class, Background: background})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := client.Post(
		baseURL+"/v1/skilltree",
		"application/json",
		bytes.NewBuffer(reqBody),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("failed to fetch skill tree: %s", errorResp.Error)
	}

	var treeResp handlers.SkillTreeResponse
	if err := json.Unmarshal(body, &treeResp); err != nil {
		return nil, fmt.Errorf("failed to parse skill tree response: %w", err)
	}
	return treeResp.SkillTree, nil
}

func postTurn(client *http.Client, baseURL string, gs *adventure.GameState, action string) (*handlers.TurnResponse, error) {
	reqBody, err := json.Marshal(handlers.TurnRequest{
		TurnRequest: chat.TurnRequest{AdventureID: gs.CurrentAdventureID, Action: action},
		GameState:   gs,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := client.Post(
		baseURL+"/v1/turn",
		"application/json",
		bytes.NewBuffer(reqBody),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("turn request failed: %s", errorResp.Error)
	}

	var turnResp handlers.TurnResponse
	if err := json.Unmarshal(body, &turnResp); err != nil {
		return nil, fmt.Errorf("failed to parse turn response: %w", err)
	}
	return &turnResp, nil
}

func postCraft(client *http.Client, baseURL string, gs *adventure.GameState, desired string, ingredients []string) (*handlers.CraftResponse, error) {
	reqBody, err := json.Marshal(handlers.CraftRequest{
		AdventureID:         gs.CurrentAdventureID,
		DesiredItemName:     desired,
		UsedIngredientNames: ingredients,
		GameState:           gs,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := client.Post(
		baseURL+"/v1/craft",
		"application/json",
		bytes.NewBuffer(reqBody),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("craft request failed: %s", errorResp.Error)
	}

	var craftResp handlers.CraftResponse
	if err := json.Unmarshal(body, &craftResp); err != nil {
		return nil, fmt.Errorf("failed to parse craft response: %w", err)
	}
	return &craftResp, nil
}
