package httpapi

import (
	"net/http"

	"github.com/rs/zerolog/log"
)

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	siteStats, err := s.stats.Site(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("site stats failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "unexpected error"})
		return
	}

	writeJSON(w, http.StatusOK, siteStats)
}
