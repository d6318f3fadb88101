package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"sounddrop/internal/store"
	"sounddrop/shared/models"
)

func (s *Server) handleListFavorites(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	page, limit := parsePagination(r)

	list, pagination, err := s.favorites.List(r.Context(), userID, page, limit)
	if err != nil {
		log.Error().Err(err).Msg("list favorites failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "unexpected error"})
		return
	}
	if list == nil {
		list = []models.Favorite{}
	}

	writeJSON(w, http.StatusOK, struct {
		Data       []models.Favorite `json:"data"`
		Pagination models.Pagination `json:"pagination"`
	}{Data: list, Pagination: pagination})
}

func (s *Server) handleAddFavorite(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	var req models.CreateFavoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	fav, err := s.favorites.Add(r.Context(), userID, req.SampleID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrFavoriteExists):
			writeJSON(w, http.StatusConflict, errorResponse{Error: "sample already favorited"})
		case errors.Is(err, store.ErrSampleNotFound):
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "sample not found"})
		default:
			log.Error().Err(err).Int64("sample_id", req.SampleID).Msg("add favorite failed")
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "unexpected error"})
		}
		return
	}

	writeJSON(w, http.StatusCreated, fav)
}

func (s *Server) handleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid favorite id"})
		return
	}

	if err := s.favorites.Remove(r.Context(), userID, id); err != nil {
		switch {
		case errors.Is(err, store.ErrFavoriteNotFound):
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "favorite not found"})
		case errors.Is(err, store.ErrNotFavoriteOwner):
			writeJSON(w, http.StatusForbidden, errorResponse{Error: "not the favorite owner"})
		default:
			log.Error().Err(err).Int64("favorite_id", id).Msg("remove favorite failed")
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "unexpected error"})
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
