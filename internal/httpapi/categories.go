package httpapi

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"sounddrop/internal/store"
	"sounddrop/shared/models"
)

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	list, err := s.categories.List(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("list categories failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "unexpected error"})
		return
	}
	if list == nil {
		list = []models.Category{}
	}

	writeJSON(w, http.StatusOK, struct {
		Data []models.Category `json:"data"`
	}{Data: list})
}

func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing category slug"})
		return
	}

	detail, err := s.categories.GetBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, store.ErrCategoryNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "category not found"})
			return
		}
		log.Error().Err(err).Str("slug", slug).Msg("get category failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "unexpected error"})
		return
	}

	writeJSON(w, http.StatusOK, detail)
}
