package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sagaforge/adventure-engine/pkg/chat"
	"github.com/sagaforge/adventure-engine/pkg/item"
)

// craftingPrompt asks the model to judge a crafting attempt.
const craftingPrompt = `You judge crafting attempts in a roleplaying game. Decide whether the player can craft the desired item from the ingredients they chose, given their knowledge and skills.

Player knowledge: %s
Player skills: %s
Full inventory: %s
Desired item: %s
Chosen ingredients: %s

Respond with ONLY a JSON object matching this schema. No prose outside the JSON.
{
  "success": boolean,
  "message": string (a one-or-two sentence in-world description of the outcome),
  "crafted_item": { "name", "description", "quality", "weight", "magical_effect" } or null on failure,
  "consumed_item_names": [names of ingredients used up, successful or not]
}

Quality is one of: Poor, Common, Uncommon, Rare, Epic, Legendary. Be strict:
implausible combinations fail, and failed attempts may still consume fragile
ingredients.`

// CraftingRequest describes one crafting attempt.
type CraftingRequest struct {
	Knowledge       []string `json:"knowledge"`
	Skills          []string `json:"skills"`
	InventoryNames  []string `json:"inventory_names"`
	DesiredItemName string   `json:"desired_item_name"`
	UsedIngredients []string `json:"used_ingredient_names"`
}

// CraftingResult is the evaluator's verdict. A malformed model answer comes
// back as a failed attempt with a message, not as an error; errors are
// reserved for the request itself failing.
type CraftingResult struct {
	Success           bool       `json:"success"`
	Message           string     `json:"message"`
	CraftedItem       *item.Item `json:"crafted_item,omitempty"`
	ConsumedItemNames []string   `json:"consumed_item_names"`
}

// CraftingEvaluator judges crafting attempts through the narrator LLM.
type CraftingEvaluator struct {
	llm    NarratorService
	logger *slog.Logger
}

func NewCraftingEvaluator(llm NarratorService, logger *slog.Logger) *CraftingEvaluator {
	return &CraftingEvaluator{llm: llm, logger: logger}
}

func (e *CraftingEvaluator) Evaluate(ctx context.Context, req CraftingRequest) (*CraftingResult, error) {
	if req.DesiredItemName == "" {
		return nil, fmt.Errorf("desired item name is required")
	}

	raw, err := e.llm.GenerateResponse(ctx, []chat.ChatMessage{{
		Role: chat.ChatRoleUser,
		Content: fmt.Sprintf(craftingPrompt,
			joinOrNone(req.Knowledge),
			joinOrNone(req.Skills),
			joinOrNone(req.InventoryNames),
			req.DesiredItemName,
			joinOrNone(req.UsedIngredients)),
	}})
	if err != nil {
		return nil, fmt.Errorf("crafting evaluation failed: %w", err)
	}

	payload := ExtractJSONObject(raw)
	if payload == "" {
		e.logger.Warn("Crafting response had no JSON", "desired", req.DesiredItemName)
		return failedCraft("The attempt comes to nothing."), nil
	}

	var result CraftingResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		e.logger.Warn("Crafting response malformed", "desired", req.DesiredItemName, "error", err)
		return failedCraft("The attempt comes to nothing."), nil
	}

	// Defend each field independently.
	if result.Message == "" {
		if result.Success {
			result.Message = fmt.Sprintf("You craft %s.", req.DesiredItemName)
		} else {
			result.Message = "The attempt fails."
		}
	}
	if result.CraftedItem != nil {
		if result.CraftedItem.Name == "" {
			result.CraftedItem = nil
		} else {
			normalized := result.CraftedItem.Normalize()
			result.CraftedItem = &normalized
		}
	}
	if !result.Success {
		result.CraftedItem = nil
	}
	if result.ConsumedItemNames == nil {
		result.ConsumedItemNames = []string{}
	}
	// Only ingredients the player actually offered can be consumed.
	result.ConsumedItemNames = intersect(result.ConsumedItemNames, req.UsedIngredients)

	return &result, nil
}

func failedCraft(message string) *CraftingResult {
	return &CraftingResult{
		Success:           false,
		Message:           message,
		ConsumedItemNames: []string{},
	}
}

func joinOrNone(names []string) string {
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}

// intersect keeps only names present in allowed, matching case-insensitively
// since both lists pass through the narrator.
func intersect(names, allowed []string) []string {
	allowedSet := make(map[string]bool, len(allowed))
	for _, n := range allowed {
		allowedSet[strings.ToLower(n)] = true
	}
	out := make([]string, 0, len(names))
	for _, n := range names {
		if allowedSet[strings.ToLower(n)] {
			out = append(out, n)
		}
	}
	return out
}
