package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"sounddrop/internal/store"
	"sounddrop/shared/models"
)

func (s *Server) handleListLibraries(w http.ResponseWriter, r *http.Request) {
	viewerID := s.viewerID(r)
	page, limit := parsePagination(r)

	filter := store.LibraryFilter{Page: page, Limit: limit}
	if raw := r.URL.Query().Get("category"); raw != "" {
		categoryID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid category parameter"})
			return
		}
		filter.CategoryID = categoryID
	}
	if r.URL.Query().Get("owner") == "me" {
		if viewerID == 0 {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
			return
		}
		filter.OwnerID = viewerID
	}

	libs, pagination, err := s.libraries.List(r.Context(), viewerID, filter)
	if err != nil {
		log.Error().Err(err).Msg("list libraries failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "unexpected error"})
		return
	}
	if libs == nil {
		libs = []models.Library{}
	}

	writeJSON(w, http.StatusOK, struct {
		Data       []models.Library  `json:"data"`
		Pagination models.Pagination `json:"pagination"`
	}{Data: libs, Pagination: pagination})
}

func (s *Server) handleCreateLibrary(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	var req models.CreateLibraryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	lib, err := s.libraries.Create(r.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrLibraryNameTaken):
			writeJSON(w, http.StatusConflict, errorResponse{Error: "you already have a library with that name"})
		case errors.Is(err, store.ErrCategoryNotFound):
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unknown category"})
		default:
			log.Error().Err(err).Msg("create library failed")
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "unexpected error"})
		}
		return
	}

	writeJSON(w, http.StatusCreated, lib)
}

func (s *Server) handleGetLibrary(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid library id"})
		return
	}

	lib, err := s.libraries.Get(r.Context(), id, s.viewerID(r))
	if err != nil {
		if errors.Is(err, store.ErrLibraryNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "library not found"})
			return
		}
		log.Error().Err(err).Int64("library_id", id).Msg("get library failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "unexpected error"})
		return
	}

	writeJSON(w, http.StatusOK, lib)
}

func (s *Server) handleUpdateLibrary(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid library id"})
		return
	}

	var req models.UpdateLibraryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	lib, err := s.libraries.Update(r.Context(), id, userID, req)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrLibraryNotFound):
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "library not found"})
		case errors.Is(err, store.ErrNotLibraryOwner):
			writeJSON(w, http.StatusForbidden, errorResponse{Error: "not the library owner"})
		case errors.Is(err, store.ErrLibraryNameTaken):
			writeJSON(w, http.StatusConflict, errorResponse{Error: "you already have a library with that name"})
		default:
			log.Error().Err(err).Int64("library_id", id).Msg("update library failed")
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "unexpected error"})
		}
		return
	}

	writeJSON(w, http.StatusOK, lib)
}

func (s *Server) handleDeleteLibrary(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid library id"})
		return
	}

	if err := s.libraries.Delete(r.Context(), id, userID); err != nil {
		switch {
		case errors.Is(err, store.ErrLibraryNotFound):
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "library not found"})
		case errors.Is(err, store.ErrNotLibraryOwner):
			writeJSON(w, http.StatusForbidden, errorResponse{Error: "not the library owner"})
		default:
			log.Error().Err(err).Int64("library_id", id).Msg("delete library failed")
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "unexpected error"})
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListLibrarySamples(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid library id"})
		return
	}
	page, limit := parsePagination(r)

	list, pagination, err := s.samples.ListByLibrary(r.Context(), id, s.viewerID(r), page, limit)
	if err != nil {
		if errors.Is(err, store.ErrLibraryNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "library not found"})
			return
		}
		log.Error().Err(err).Int64("library_id", id).Msg("list library samples failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "unexpected error"})
		return
	}
	if list == nil {
		list = []models.Sample{}
	}

	writeJSON(w, http.StatusOK, struct {
		Data       []models.Sample   `json:"data"`
		Pagination models.Pagination `json:"pagination"`
	}{Data: list, Pagination: pagination})
}

func (s *Server) handleCreateSample(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid library id"})
		return
	}

	var req models.CreateSampleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	sample, err := s.samples.Create(r.Context(), id, userID, req)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrLibraryNotFound):
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "library not found"})
		case errors.Is(err, store.ErrNotLibraryOwner):
			writeJSON(w, http.StatusForbidden, errorResponse{Error: "not the library owner"})
		default:
			log.Error().Err(err).Int64("library_id", id).Msg("create sample failed")
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "unexpected error"})
		}
		return
	}

	writeJSON(w, http.StatusCreated, sample)
}
