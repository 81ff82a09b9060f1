package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"geostats/internal/apperr"
	"geostats/internal/ingest"
	"geostats/internal/store"
)

const (
	actionSaveGame          = "saveGame"
	actionDownloadCountries = "downloadCountries"
)

type Server struct {
	Ingest *ingest.Service
	Store  store.Store
	Logger *zap.Logger
}

type saveGameRequest struct {
	Action   string          `json:"action"`
	UserID   string          `json:"userId"`
	GameData ingest.GameData `json:"gameData"`
}

type statusResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("action") == actionDownloadCountries {
		s.handleDownload(w, r, q.Get("user"), q.Get("sheet"))
		return
	}
	// Any other action is answered with the service status.
	s.writeJSON(w, http.StatusOK, statusResponse{
		Success:   true,
		Message:   "GeoGuessr Stats API is running",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	var req saveGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, ingest.Result{Error: fmt.Sprintf("invalid request body: %v", err)})
		return
	}
	if req.Action != actionSaveGame {
		s.writeJSON(w, http.StatusBadRequest, ingest.Result{Error: "Unknown action"})
		return
	}

	loc, saved, err := s.Ingest.Ingest(r.Context(), req.UserID, req.GameData)
	s.writeJSON(w, statusFor(err), ingest.NewResult(loc, saved, err))
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request, user, sheet string) {
	body, err := s.Ingest.Export(r.Context(), user, sheet)
	if err != nil {
		s.Logger.Warn("export failed", zap.String("user", user), zap.String("sheet", sheet), zap.Error(err))
		s.writeJSON(w, statusFor(err), ingest.Result{Error: err.Error()})
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", sheet+".csv"))
	if _, err := w.Write([]byte(body)); err != nil {
		s.Logger.Debug("writing csv", zap.Error(err))
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.Store.Ping(ctx); err != nil {
		s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "store_error", "error": err.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// statusFor maps an error kind to the HTTP status of its envelope.
func statusFor(err error) int {
	if err == nil {
		return http.StatusOK
	}
	switch apperr.KindOf(err) {
	case apperr.ErrValidation:
		return http.StatusBadRequest
	case apperr.ErrNotFound:
		return http.StatusNotFound
	case apperr.ErrUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("encoding response", zap.Error(err))
	}
}
