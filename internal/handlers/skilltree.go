package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/sagaforge/adventure-engine/internal/services"
	"github.com/sagaforge/adventure-engine/pkg/character"
)

const skillTreeTimeout = 60 * time.Second

// SkillTreeRequest asks for a class skill tree during character creation.
type SkillTreeRequest struct {
	Class      string `json:"class"`
	Background string `json:"background,omitempty"`
}

// SkillTreeResponse carries the generated tree. Generation never fails
// outright: a malformed narrator answer yields the static fallback tree.
type SkillTreeResponse struct {
	SkillTree *character.SkillTree `json:"skill_tree"`
}

type SkillTreeHandler struct {
	generator *services.SkillTreeGenerator
	logger    *slog.Logger
}

func NewSkillTreeHandler(llm services.NarratorService, logger *slog.Logger) *SkillTreeHandler {
	return &SkillTreeHandler{
		generator: services.NewSkillTreeGenerator(llm, logger),
		logger:    logger,
	}
}

func (h *SkillTreeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		h.logger.Warn("Method not allowed for skilltree endpoint", "method", r.Method)
		h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed. Only POST is supported.")
		return
	}

	var req SkillTreeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid JSON in request body", "error", err)
		h.writeError(w, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}

	if req.Class == "" {
		h.logger.Warn("Skill tree request without class")
		h.writeError(w, http.StatusBadRequest, "class is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), skillTreeTimeout)
	defer cancel()

	tree := h.generator.Generate(ctx, req.Class, req.Background)

	h.logger.Debug("Skill tree generated", "class", tree.ClassName)
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(SkillTreeResponse{SkillTree: tree}); err != nil {
		h.logger.Error("Failed to encode skill tree response", "error", err)
	}
}

func (h *SkillTreeHandler) writeError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(ErrorResponse{Error: msg}); err != nil {
		h.logger.Error("Failed to encode error response", "error", err)
	}
}
