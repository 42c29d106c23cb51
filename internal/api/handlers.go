// Package api provides HTTP handlers for dailybot endpoints.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/opsline/dailybot/internal/models"
)

// startSurveyRequest is the kick payload. Steps optionally requests
// conditional steps (e.g. vacation) for this session.
type startSurveyRequest struct {
	ChannelID string   `json:"channelId"`
	UserID    string   `json:"userId,omitempty"`
	SessionID string   `json:"sessionId,omitempty"`
	Steps     []string `json:"steps,omitempty"`
}

// kickResponse is the /start_survey wire shape. External automation matches
// these exact keys, so the endpoint does not use the standard envelope.
type kickResponse struct {
	Status string `json:"status,omitempty"`
	Error  string `json:"error,omitempty"`
}

// startSurveyHandler handles POST /start_survey.
func (s *Server) startSurveyHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	slog.Debug("Server.startSurveyHandler: processing kick", "method", r.Method, "path", r.URL.Path)
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		slog.Warn("Server.startSurveyHandler: method not allowed", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !s.authorized(r) {
		slog.Warn("Server.startSurveyHandler: unauthorized")
		writeJSONResponse(w, http.StatusUnauthorized, kickResponse{Error: "Unauthorized"})
		return
	}

	var req startSurveyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Server.startSurveyHandler: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, kickResponse{Error: "Invalid JSON format"})
		return
	}
	if req.ChannelID == "" {
		slog.Warn("Server.startSurveyHandler: missing channelId")
		writeJSONResponse(w, http.StatusBadRequest, kickResponse{Error: "Missing required field: channelId"})
		return
	}

	err := s.coordinator.StartSurvey(r.Context(), req.UserID, req.ChannelID, req.SessionID, req.Steps)
	switch {
	case err == nil:
		slog.Info("Server.startSurveyHandler: survey kick accepted", "channelID", req.ChannelID)
		writeJSONResponse(w, http.StatusOK, kickResponse{Status: "Greeting message sent"})
	case errors.Is(err, models.ErrNotRegistered):
		writeJSONResponse(w, http.StatusNotFound, kickResponse{Error: "Channel not registered"})
	case errors.Is(err, models.ErrAlreadyActive):
		writeJSONResponse(w, http.StatusConflict, kickResponse{Error: "Survey already active"})
	default:
		slog.Error("Server.startSurveyHandler: kick failed", "error", err, "channelID", req.ChannelID)
		writeJSONResponse(w, http.StatusInternalServerError, kickResponse{Error: "Failed to start survey"})
	}
}

// healthHandler handles GET /health.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSONResponse(w, http.StatusOK, models.Success(map[string]any{
		"active_surveys": s.registry.ActiveCount(),
	}))
}
