package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/sagaforge/adventure-engine/internal/storage"
	"github.com/sagaforge/adventure-engine/pkg/adventure"
	"github.com/sagaforge/adventure-engine/pkg/settings"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// AdventureHandler serves saved-adventure CRUD.
type AdventureHandler struct {
	store  storage.Store
	logger *slog.Logger
}

func NewAdventureHandler(store storage.Store, logger *slog.Logger) *AdventureHandler {
	return &AdventureHandler{
		store:  store,
		logger: logger,
	}
}

// ServeHTTP handles HTTP requests for saved adventures
// Routes:
// GET /v1/adventures          - List all saved adventures
// POST /v1/adventures         - Save (upsert) an adventure
// GET /v1/adventures/{id}     - Read a saved adventure by ID
// DELETE /v1/adventures/{id}  - Delete a saved adventure by ID
func (h *AdventureHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	// Parse the path to extract ID for GET/DELETE operations
	path := strings.TrimPrefix(r.URL.Path, "/v1/adventures")
	var adventureID uuid.UUID
	var err error

	if path != "" && path != "/" {
		idStr := strings.Trim(path, "/")
		adventureID, err = uuid.Parse(idStr)
		if err != nil {
			h.logger.Warn("Invalid adventure ID", "id", idStr, "error", err)
			w.WriteHeader(http.StatusBadRequest)
			response := ErrorResponse{
				Error: "Invalid adventure ID format",
			}
			if err := json.NewEncoder(w).Encode(response); err != nil {
				h.logger.Error("Failed to encode error response", "error", err)
			}
			return
		}
	}

	switch r.Method {
	case http.MethodPost:
		h.handleSave(w, r)

	case http.MethodGet:
		if adventureID == uuid.Nil {
			h.handleList(w, r)
			return
		}
		h.handleRead(w, r, adventureID)

	case http.MethodDelete:
		if adventureID == uuid.Nil {
			h.logger.Warn("DELETE request without adventure ID")
			w.WriteHeader(http.StatusBadRequest)
			response := ErrorResponse{
				Error: "Adventure ID is required for DELETE requests",
			}
			if err := json.NewEncoder(w).Encode(response); err != nil {
				h.logger.Error("Failed to encode error response", "error", err)
			}
			return
		}
		h.handleDelete(w, r, adventureID)

	default:
		h.logger.Warn("Method not allowed for adventures endpoint", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		response := ErrorResponse{
			Error: "Method not allowed. Supported methods: GET, POST, DELETE",
		}
		if err := json.NewEncoder(w).Encode(response); err != nil {
			h.logger.Error("Failed to encode error response", "error", err)
		}
	}
}

func (h *AdventureHandler) handleSave(w http.ResponseWriter, r *http.Request) {
	var sa adventure.SavedAdventure
	if err := json.NewDecoder(r.Body).Decode(&sa); err != nil {
		h.logger.Warn("Invalid JSON in request body", "error", err)
		w.WriteHeader(http.StatusBadRequest)
		response := ErrorResponse{
			Error: "Invalid JSON in request body",
		}
		if err := json.NewEncoder(w).Encode(response); err != nil {
			h.logger.Error("Failed to encode error response", "error", err)
		}
		return
	}

	if sa.ID == uuid.Nil {
		h.logger.Warn("Save request without adventure ID")
		w.WriteHeader(http.StatusBadRequest)
		response := ErrorResponse{
			Error: "Adventure ID is required",
		}
		if err := json.NewEncoder(w).Encode(response); err != nil {
			h.logger.Error("Failed to encode error response", "error", err)
		}
		return
	}

	if sa.Character == nil {
		h.logger.Warn("Save request without character", "id", sa.ID.String())
		w.WriteHeader(http.StatusBadRequest)
		response := ErrorResponse{
			Error: "Adventure has no character",
		}
		if err := json.NewEncoder(w).Encode(response); err != nil {
			h.logger.Error("Failed to encode error response", "error", err)
		}
		return
	}

	// Coop sessions are live-only and never persisted.
	if sa.Settings.AdventureType == settings.TypeCoop {
		h.logger.Warn("Refusing to persist coop adventure", "id", sa.ID.String())
		w.WriteHeader(http.StatusBadRequest)
		response := ErrorResponse{
			Error: "Coop adventures cannot be saved",
		}
		if err := json.NewEncoder(w).Encode(response); err != nil {
			h.logger.Error("Failed to encode error response", "error", err)
		}
		return
	}

	if err := h.store.SaveAdventure(r.Context(), &sa); err != nil {
		h.logger.Error("Failed to save adventure", "error", err, "id", sa.ID.String())
		w.WriteHeader(http.StatusInternalServerError)
		response := ErrorResponse{
			Error: "Failed to save adventure",
		}
		if err := json.NewEncoder(w).Encode(response); err != nil {
			h.logger.Error("Failed to encode error response", "error", err)
		}
		return
	}

	h.logger.Debug("Adventure saved successfully", "id", sa.ID.String(), "character", sa.CharacterName)
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(sa); err != nil {
		h.logger.Error("Failed to encode adventure response", "error", err)
	}
}

func (h *AdventureHandler) handleList(w http.ResponseWriter, r *http.Request) {
	adventures, err := h.store.ListAdventures(r.Context())
	if err != nil {
		h.logger.Error("Failed to list adventures", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		response := ErrorResponse{
			Error: "Failed to list adventures",
		}
		if err := json.NewEncoder(w).Encode(response); err != nil {
			h.logger.Error("Failed to encode error response", "error", err)
		}
		return
	}

	if adventures == nil {
		adventures = []adventure.SavedAdventure{}
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(adventures); err != nil {
		h.logger.Error("Failed to encode adventure list response", "error", err)
	}
}

func (h *AdventureHandler) handleRead(w http.ResponseWriter, r *http.Request, adventureID uuid.UUID) {
	sa, err := h.store.GetAdventure(r.Context(), adventureID)
	if err != nil {
		h.logger.Error("Failed to load adventure", "error", err, "id", adventureID.String())
		w.WriteHeader(http.StatusInternalServerError)
		response := ErrorResponse{
			Error: "Failed to load adventure",
		}
		if err := json.NewEncoder(w).Encode(response); err != nil {
			h.logger.Error("Failed to encode error response", "error", err)
		}
		return
	}

	if sa == nil {
		h.logger.Warn("Adventure not found", "id", adventureID.String())
		w.WriteHeader(http.StatusNotFound)
		response := ErrorResponse{
			Error: "Adventure not found",
		}
		if err := json.NewEncoder(w).Encode(response); err != nil {
			h.logger.Error("Failed to encode error response", "error", err)
		}
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(sa); err != nil {
		h.logger.Error("Failed to encode adventure response", "error", err)
	}
}

func (h *AdventureHandler) handleDelete(w http.ResponseWriter, r *http.Request, adventureID uuid.UUID) {
	if err := h.store.DeleteAdventure(r.Context(), adventureID); err != nil {
		h.logger.Error("Failed to delete adventure", "error", err, "id", adventureID.String())
		w.WriteHeader(http.StatusInternalServerError)
		response := ErrorResponse{
			Error: "Failed to delete adventure",
		}
		if err := json.NewEncoder(w).Encode(response); err != nil {
			h.logger.Error("Failed to encode error response", "error", err)
		}
		return
	}
	h.logger.Debug("Adventure deleted successfully", "id", adventureID.String())
	w.WriteHeader(http.StatusNoContent)
}
