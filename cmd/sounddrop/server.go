package main

import (
	"database/sql"
	"net/http"
	"strings"

	"sounddrop/internal/app/categories"
	"sounddrop/internal/app/favorites"
	"sounddrop/internal/app/libraries"
	"sounddrop/internal/app/samples"
	"sounddrop/internal/app/stats"
	"sounddrop/internal/app/users"
	"sounddrop/internal/auth"
	"sounddrop/internal/httpapi"
	"sounddrop/internal/store"
	"sounddrop/shared/middleware"
)

func newHTTPHandler(cfg Config, db *sql.DB) http.Handler {
	dataStore := store.New(db)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)

	userSvc := users.New(dataStore, tokens)
	categorySvc := categories.New(dataStore)
	librarySvc := libraries.New(dataStore)
	sampleSvc := samples.New(dataStore)
	favoriteSvc := favorites.New(dataStore)
	statsSvc := stats.New(dataStore)

	api := httpapi.New(userSvc, categorySvc, librarySvc, sampleSvc, favoriteSvc, statsSvc, tokens)

	handler := api.Routes()
	handler = middleware.Recovery()(handler)
	handler = middleware.RequestLogging()(handler)
	return withCORS(cfg.AllowedOrigins, handler)
}

func withCORS(allowedOrigins []string, next http.Handler) http.Handler {
	originAllowed := func(origin string) bool {
		if len(allowedOrigins) == 0 || origin == "" {
			return false
		}
		for _, o := range allowedOrigins {
			if strings.EqualFold(o, origin) {
				return true
			}
		}
		return false
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if originAllowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Authorization")
			w.Header().Set("Access-Control-Max-Age", "3600")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
