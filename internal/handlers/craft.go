package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sagaforge/adventure-engine/internal/services"
	"github.com/sagaforge/adventure-engine/internal/storage"
	"github.com/sagaforge/adventure-engine/pkg/adventure"
	"github.com/sagaforge/adventure-engine/pkg/item"
	"github.com/sagaforge/adventure-engine/pkg/settings"
)

const craftTimeout = 60 * time.Second

// CraftRequest is a crafting attempt against the current inventory.
type CraftRequest struct {
	AdventureID         uuid.UUID            `json:"adventure_id,omitempty"`
	DesiredItemName     string               `json:"desired_item_name"`
	UsedIngredientNames []string             `json:"used_ingredient_names"`
	GameState           *adventure.GameState `json:"game_state,omitempty"`
}

// CraftResponse is the evaluated outcome plus the resulting state. A failed
// attempt is a normal response with success=false, not an error.
type CraftResponse struct {
	Success           bool                 `json:"success"`
	Message           string               `json:"message"`
	CraftedItem       *item.Item           `json:"crafted_item,omitempty"`
	ConsumedItemNames []string             `json:"consumed_item_names,omitempty"`
	GameState         *adventure.GameState `json:"game_state"`
}

// CraftHandler evaluates a crafting attempt with the narrator and commits
// the outcome as a turn.
type CraftHandler struct {
	store     storage.Store
	evaluator *services.CraftingEvaluator
	logger    *slog.Logger
}

func NewCraftHandler(store storage.Store, llm services.NarratorService, logger *slog.Logger) *CraftHandler {
	return &CraftHandler{
		store:     store,
		evaluator: services.NewCraftingEvaluator(llm, logger),
		logger:    logger,
	}
}

func (h *CraftHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		h.logger.Warn("Method not allowed for craft endpoint", "method", r.Method)
		h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed. Only POST is supported.")
		return
	}

	var req CraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid JSON in request body", "error", err)
		h.writeError(w, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}

	if req.DesiredItemName == "" {
		h.logger.Warn("Craft request without desired item")
		h.writeError(w, http.StatusBadRequest, "desired_item_name is required")
		return
	}

	gs, status, errMsg := resolveGameState(r.Context(), h.store, h.logger, req.AdventureID, req.GameState)
	if errMsg != "" {
		h.writeError(w, status, errMsg)
		return
	}

	if gs.Character == nil {
		h.logger.Warn("Craft request for adventure without character", "id", req.AdventureID.String())
		h.writeError(w, http.StatusBadRequest, "Adventure has no character")
		return
	}
	if gs.Status != adventure.StatusGameplay {
		h.logger.Warn("Craft request outside gameplay", "status", gs.Status)
		h.writeError(w, http.StatusConflict, "Adventure is not in active gameplay")
		return
	}

	skills := make([]string, 0, len(gs.Character.LearnedSkills))
	for _, sk := range gs.Character.LearnedSkills {
		skills = append(skills, sk.Name)
	}

	ctx, cancel := context.WithTimeout(r.Context(), craftTimeout)
	defer cancel()

	result, err := h.evaluator.Evaluate(ctx, services.CraftingRequest{
		Knowledge:       gs.Character.Knowledge,
		Skills:          skills,
		InventoryNames:  item.Names(gs.Inventory),
		DesiredItemName: req.DesiredItemName,
		UsedIngredients: req.UsedIngredientNames,
	})
	if err != nil {
		h.logger.Error("Failed to evaluate crafting attempt", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to evaluate crafting attempt. Please try again.")
		return
	}

	now := time.Now()
	applied := gs.ApplyCrafting(result.Message, result.ConsumedItemNames, result.CraftedItem, now, h.logger)
	applied = applied.SaveCurrentAdventure(now, h.logger)

	if applied.Settings.AdventureType != settings.TypeCoop {
		if sa, ok := applied.SavedAdventures[applied.CurrentAdventureID]; ok {
			if err := h.store.SaveAdventure(r.Context(), &sa); err != nil {
				h.logger.Error("Failed to persist adventure after crafting", "error", err, "id", sa.ID.String())
			}
		}
	}

	h.logger.Debug("Crafting attempt committed",
		"id", applied.CurrentAdventureID.String(),
		"desired", req.DesiredItemName,
		"success", result.Success)

	w.WriteHeader(http.StatusOK)
	response := CraftResponse{
		Success:           result.Success,
		Message:           result.Message,
		CraftedItem:       result.CraftedItem,
		ConsumedItemNames: result.ConsumedItemNames,
		GameState:         applied,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("Failed to encode craft response", "error", err)
	}
}

func (h *CraftHandler) writeError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(ErrorResponse{Error: msg}); err != nil {
		h.logger.Error("Failed to encode error response", "error", err)
	}
}
