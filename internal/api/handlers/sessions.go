package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"scambait-lab/internal/domain/services"
	"scambait-lab/internal/infrastructure/database/repository"
	"scambait-lab/pkg/logger"
)

// SessionsHandler exposes accumulated session intelligence and archived reports
type SessionsHandler struct {
	engagement *services.EngagementService
	reports    *repository.SessionReportRepository
	logger     *logger.Logger
}

// NewSessionsHandler creates a new sessions handler
func NewSessionsHandler(engagement *services.EngagementService, reports *repository.SessionReportRepository, log *logger.Logger) *SessionsHandler {
	return &SessionsHandler{
		engagement: engagement,
		reports:    reports,
		logger:     log.WithComponent("sessions-handler"),
	}
}

// Intel handles GET /api/v1/sessions/{sessionID}/intel
func (h *SessionsHandler) Intel(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		http.Error(w, "session id is required", http.StatusBadRequest)
		return
	}

	intel := h.engagement.SessionIntel(r.Context(), sessionID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(intel)
}

// Report handles GET /api/v1/sessions/{sessionID}/report
func (h *SessionsHandler) Report(w http.ResponseWriter, r *http.Request) {
	if h.reports == nil {
		http.Error(w, "report archive unavailable", http.StatusServiceUnavailable)
		return
	}

	sessionID := chi.URLParam(r, "sessionID")
	report, err := h.reports.GetBySession(r.Context(), sessionID)
	if err != nil {
		h.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to load report")
		http.Error(w, "Failed to load report", http.StatusInternalServerError)
		return
	}
	if report == nil {
		http.Error(w, "Report not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(report)
}

// List handles GET /api/v1/sessions/reports
func (h *SessionsHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.reports == nil {
		http.Error(w, "report archive unavailable", http.StatusServiceUnavailable)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	reports, err := h.reports.ListRecent(r.Context(), limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list reports")
		http.Error(w, "Failed to list reports", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(reports)
}
