package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"sounddrop/internal/app/users"
	"sounddrop/internal/store"
	"sounddrop/shared/models"
)

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	user, err := s.users.Settings(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "user not found"})
			return
		}
		log.Error().Err(err).Msg("get settings failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "unexpected error"})
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	var req models.UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	user, err := s.users.UpdateSettings(r.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrUsernameTaken):
			writeJSON(w, http.StatusConflict, errorResponse{Error: "username already taken"})
		case errors.Is(err, users.ErrInvalidUsername), errors.Is(err, users.ErrReservedUsername):
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		case errors.Is(err, store.ErrUserNotFound):
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "user not found"})
		default:
			log.Error().Err(err).Msg("update settings failed")
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "unexpected error"})
		}
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleCheckUsername(w http.ResponseWriter, r *http.Request) {
	candidate := r.URL.Query().Get("username")
	if candidate == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing username parameter"})
		return
	}

	// Authenticated callers get their own current username reported as
	// available.
	check, err := s.users.CheckUsername(r.Context(), candidate, s.viewerID(r))
	if err != nil {
		log.Error().Err(err).Msg("check username failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "unexpected error"})
		return
	}

	writeJSON(w, http.StatusOK, check)
}
