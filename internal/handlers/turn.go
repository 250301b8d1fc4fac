package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sagaforge/adventure-engine/internal/logger"
	"github.com/sagaforge/adventure-engine/internal/services"
	"github.com/sagaforge/adventure-engine/internal/services/queue"
	"github.com/sagaforge/adventure-engine/internal/storage"
	"github.com/sagaforge/adventure-engine/pkg/adventure"
	"github.com/sagaforge/adventure-engine/pkg/chat"
	"github.com/sagaforge/adventure-engine/pkg/derive"
	"github.com/sagaforge/adventure-engine/pkg/prompts"
	"github.com/sagaforge/adventure-engine/pkg/settings"
)

const (
	turnHistoryLimit = 20
	turnTimeout      = 60 * time.Second
)

// TurnRequest carries one player action. The caller either posts the full
// game state or names a saved adventure to play from.
type TurnRequest struct {
	chat.TurnRequest
	GameState *adventure.GameState `json:"game_state,omitempty"`
}

// TurnResponse is the committed turn plus the resulting state.
type TurnResponse struct {
	chat.TurnResponse
	Defeated  bool                 `json:"defeated,omitempty"`
	GameState *adventure.GameState `json:"game_state"`
}

// TurnHandler runs one narrator turn: prompt assembly, the LLM call, delta
// sanitization, the state reduction, and persistence of the resulting save.
type TurnHandler struct {
	store  storage.Store
	llm    services.NarratorService
	events *queue.EventQueue
	logger *slog.Logger
}

func NewTurnHandler(store storage.Store, llm services.NarratorService, logger *slog.Logger) *TurnHandler {
	return &TurnHandler{
		store:  store,
		llm:    llm,
		logger: logger,
	}
}

// WithEventQueue attaches a dynamic event queue. Pending events for the
// adventure are drained into each turn's prompt, and narrator-triggered
// events are enqueued for the following turn.
func (h *TurnHandler) WithEventQueue(q *queue.EventQueue) *TurnHandler {
	h.events = q
	return h
}

func (h *TurnHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		h.logger.Warn("Method not allowed for turn endpoint", "method", r.Method)
		h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed. Only POST is supported.")
		return
	}

	var req TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid JSON in request body", "error", err)
		h.writeError(w, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}

	if err := req.Validate(); err != nil {
		h.logger.Warn("Invalid turn request", "error", err)
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	gs, status, errMsg := resolveGameState(r.Context(), h.store, h.logger, req.AdventureID, req.GameState)
	if errMsg != "" {
		h.writeError(w, status, errMsg)
		return
	}

	log := logger.WithAdventureID(h.logger, gs.CurrentAdventureID)

	if gs.Character == nil {
		log.Warn("Turn request for adventure without character")
		h.writeError(w, http.StatusBadRequest, "Adventure has no character")
		return
	}
	if gs.Status != adventure.StatusGameplay {
		log.Warn("Turn request outside gameplay", "status", gs.Status)
		h.writeError(w, http.StatusConflict, "Adventure is not in active gameplay")
		return
	}

	var pending []string
	if h.events != nil && gs.CurrentAdventureID != uuid.Nil {
		var qerr error
		pending, qerr = h.events.Dequeue(r.Context(), gs.CurrentAdventureID)
		if qerr != nil {
			// The turn proceeds without the events; they stay queued.
			log.Error("Failed to dequeue dynamic events", "error", qerr)
			pending = nil
		}
	}

	messages, err := prompts.New().
		WithGameState(gs).
		WithPlayerAction(req.Action).
		WithHistoryLimit(turnHistoryLimit).
		WithDynamicEvents(pending).
		Build()
	if err != nil {
		log.Error("Failed to build prompt messages", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to build prompt")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), turnTimeout)
	defer cancel()

	delta, err := services.GenerateTurn(ctx, h.llm, messages, log)
	if err != nil {
		log.Error("Failed to generate turn", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to generate response. Please try again.")
		return
	}

	worker := adventure.NewTurnWorker(gs, delta, log)
	applied := worker.Apply()
	defeated := worker.Defeated(applied)

	// Level-up is an orchestration decision, not the worker's: overflow XP
	// carries through as many levels as it covers.
	if !defeated && applied.Character != nil {
		for applied.Character.XPToNextLevel > 0 && applied.Character.XP >= applied.Character.XPToNextLevel {
			next := applied.Character.Level + 1
			applied.Character = applied.Character.LevelUp(next, derive.XPToNextLevel(next), log)
			log.Info("Character leveled up", "level", next)
		}
	}

	if h.events != nil && delta != nil && delta.DynamicEventTriggered != "" && applied.CurrentAdventureID != uuid.Nil {
		if qerr := h.events.Enqueue(r.Context(), applied.CurrentAdventureID, delta.DynamicEventTriggered); qerr != nil {
			log.Error("Failed to enqueue dynamic event", "error", qerr)
		}
	}

	now := time.Now()
	if defeated && applied.Settings.PermanentDeath {
		summary := h.generateEndingSummary(ctx, applied, log)
		if summary == "" {
			summary = applied.CurrentNarration
		}
		applied = applied.EndAdventure(summary, nil, now, log)
	} else {
		applied = applied.SaveCurrentAdventure(now, log)
	}

	// The committed turn is returned even when persistence fails: the story
	// log already holds the entry and the client carries the state.
	if applied.Settings.AdventureType != settings.TypeCoop {
		if sa, ok := applied.SavedAdventures[applied.CurrentAdventureID]; ok {
			if err := h.store.SaveAdventure(r.Context(), &sa); err != nil {
				log.Error("Failed to persist adventure after turn", "error", err)
			}
		}
	}

	log.Debug("Turn committed",
		"turn", applied.TurnCount,
		"defeated", defeated)

	w.WriteHeader(http.StatusOK)
	response := TurnResponse{
		TurnResponse: chat.TurnResponse{
			AdventureID: applied.CurrentAdventureID,
			Narration:   applied.CurrentNarration,
			TurnCount:   applied.TurnCount,
		},
		Defeated:  defeated,
		GameState: applied,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("Failed to encode turn response", "error", err)
	}
}

// generateEndingSummary asks the narrator to close out a permadeath ending.
// The state is presented as already ended so the prompt carries the wrap-up
// directive instead of the usual turn reminders. Best effort: an empty
// return means the caller falls back to the final narration.
func (h *TurnHandler) generateEndingSummary(ctx context.Context, gs *adventure.GameState, log *slog.Logger) string {
	ended := gs.Clone()
	ended.Status = adventure.StatusAdventureSummary

	messages, err := prompts.New().
		WithGameState(ended).
		WithHistoryLimit(turnHistoryLimit).
		Build()
	if err != nil {
		log.Error("Failed to build summary prompt", "error", err)
		return ""
	}

	delta, err := services.GenerateTurn(ctx, h.llm, messages, log)
	if err != nil {
		log.Error("Failed to generate adventure summary", "error", err)
		return ""
	}
	return delta.Narration
}

// resolveGameState picks the state to play from: a posted state wins,
// otherwise the saved adventure named by id is loaded from storage.
func resolveGameState(ctx context.Context, store storage.Store, logger *slog.Logger, id uuid.UUID, posted *adventure.GameState) (*adventure.GameState, int, string) {
	if posted != nil {
		gs := posted
		if gs.CurrentAdventureID == uuid.Nil && id != uuid.Nil {
			gs = gs.Clone()
			gs.CurrentAdventureID = id
		}
		return gs, http.StatusOK, ""
	}

	if id == uuid.Nil {
		return nil, http.StatusBadRequest, "Either game_state or adventure_id is required"
	}

	sa, err := store.GetAdventure(ctx, id)
	if err != nil {
		logger.Error("Failed to load adventure", "error", err, "id", id.String())
		return nil, http.StatusInternalServerError, "Failed to load adventure"
	}
	if sa == nil {
		logger.Warn("Adventure not found", "id", id.String())
		return nil, http.StatusNotFound, "Adventure not found"
	}

	base := adventure.NewGameState()
	base.SavedAdventures[sa.ID] = *sa
	return base.LoadAdventure(sa.ID, logger), http.StatusOK, ""
}

func (h *TurnHandler) writeError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(ErrorResponse{Error: msg}); err != nil {
		h.logger.Error("Failed to encode error response", "error", err)
	}
}
