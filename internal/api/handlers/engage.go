package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"scambait-lab/internal/domain/models"
	"scambait-lab/internal/domain/services"
	"scambait-lab/pkg/logger"
)

// EngageHandler handles per-turn engagement endpoints
type EngageHandler struct {
	engagement *services.EngagementService
	logger     *logger.Logger
}

// NewEngageHandler creates a new engage handler
func NewEngageHandler(engagement *services.EngagementService, log *logger.Logger) *EngageHandler {
	return &EngageHandler{
		engagement: engagement,
		logger:     log.WithComponent("engage-handler"),
	}
}

// Turn handles POST /api/v1/engage/turn - processes one scammer turn
func (h *EngageHandler) Turn(w http.ResponseWriter, r *http.Request) {
	var req models.TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debug().Err(err).Msg("invalid request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.SessionID == "" {
		http.Error(w, "session_id is required", http.StatusBadRequest)
		return
	}
	if req.Message == "" {
		http.Error(w, "message is required", http.StatusBadRequest)
		return
	}

	directives, err := h.engagement.ProcessTurn(r.Context(), req)
	if err != nil {
		h.logger.Error().Err(err).Str("session_id", req.SessionID).Msg("failed to process turn")
		http.Error(w, "Turn processing failed", http.StatusInternalServerError)
		return
	}

	h.logger.Info().
		Str("session_id", req.SessionID).
		Str("mode", string(directives.Mode)).
		Bool("continue", directives.Continue).
		Int("new_records", len(directives.NewRecords)).
		Msg("turn processed")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(directives)
}

// End handles POST /api/v1/engage/{sessionID}/end - finalizes a session
func (h *EngageHandler) End(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		http.Error(w, "session id is required", http.StatusBadRequest)
		return
	}

	report := h.engagement.EndSession(r.Context(), sessionID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(report)
}
