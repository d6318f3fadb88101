package httpapi

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"sounddrop/internal/store"
)

func (s *Server) handleGetSample(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid sample id"})
		return
	}

	sample, err := s.samples.Get(r.Context(), id, s.viewerID(r))
	if err != nil {
		if errors.Is(err, store.ErrSampleNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "sample not found"})
			return
		}
		log.Error().Err(err).Int64("sample_id", id).Msg("get sample failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "unexpected error"})
		return
	}

	writeJSON(w, http.StatusOK, sample)
}

func (s *Server) handlePlaySample(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid sample id"})
		return
	}

	playCount, err := s.samples.RecordPlay(r.Context(), id, s.viewerID(r))
	if err != nil {
		if errors.Is(err, store.ErrSampleNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "sample not found"})
			return
		}
		log.Error().Err(err).Int64("sample_id", id).Msg("record play failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "unexpected error"})
		return
	}

	writeJSON(w, http.StatusOK, struct {
		PlayCount int64 `json:"playCount"`
	}{PlayCount: playCount})
}
