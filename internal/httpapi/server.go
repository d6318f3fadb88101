package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"sounddrop/internal/app/categories"
	"sounddrop/internal/app/users"
	"sounddrop/internal/store"
	"sounddrop/shared/models"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// UserService captures the account operations needed by the HTTP handlers.
type UserService interface {
	Signup(ctx context.Context, req models.SignupRequest) (*models.User, error)
	Login(ctx context.Context, username, password string) (string, error)
	Settings(ctx context.Context, userID int64) (*models.User, error)
	UpdateSettings(ctx context.Context, userID int64, req models.UpdateSettingsRequest) (*models.User, error)
	CheckUsername(ctx context.Context, candidate string, callerID int64) (users.UsernameCheck, error)
}

// CategoryService describes category browsing workflows.
type CategoryService interface {
	List(ctx context.Context) ([]models.Category, error)
	GetBySlug(ctx context.Context, slug string) (*categories.Detail, error)
}

// LibraryService coordinates library CRUD.
type LibraryService interface {
	Create(ctx context.Context, ownerID int64, req models.CreateLibraryRequest) (*models.Library, error)
	Get(ctx context.Context, id, viewerID int64) (*models.Library, error)
	List(ctx context.Context, viewerID int64, filter store.LibraryFilter) ([]models.Library, models.Pagination, error)
	Update(ctx context.Context, id, userID int64, req models.UpdateLibraryRequest) (*models.Library, error)
	Delete(ctx context.Context, id, userID int64) error
}

// SampleService coordinates sample-level operations.
type SampleService interface {
	Create(ctx context.Context, libraryID, userID int64, req models.CreateSampleRequest) (*models.Sample, error)
	Get(ctx context.Context, id, viewerID int64) (*models.Sample, error)
	ListByLibrary(ctx context.Context, libraryID, viewerID int64, page, limit int) ([]models.Sample, models.Pagination, error)
	RecordPlay(ctx context.Context, id, viewerID int64) (int64, error)
}

// FavoriteService coordinates favoriting workflows.
type FavoriteService interface {
	Add(ctx context.Context, userID, sampleID int64) (*models.Favorite, error)
	Remove(ctx context.Context, userID, favoriteID int64) error
	List(ctx context.Context, userID int64, page, limit int) ([]models.Favorite, models.Pagination, error)
}

// StatsService exposes site-wide statistics.
type StatsService interface {
	Site(ctx context.Context) (*models.SiteStats, error)
}

// TokenVerifier resolves a bearer token to a user ID.
type TokenVerifier interface {
	Verify(token string) (int64, error)
}

// Server wires HTTP handlers to the underlying services.
type Server struct {
	users      UserService
	categories CategoryService
	libraries  LibraryService
	samples    SampleService
	favorites  FavoriteService
	stats      StatsService
	tokens     TokenVerifier
}

// New configures a Server with the given services.
func New(
	users UserService,
	categories CategoryService,
	libraries LibraryService,
	samples SampleService,
	favorites FavoriteService,
	stats StatsService,
	tokens TokenVerifier,
) *Server {
	return &Server{
		users:      users,
		categories: categories,
		libraries:  libraries,
		samples:    samples,
		favorites:  favorites,
		stats:      stats,
		tokens:     tokens,
	}
}

// Routes exposes the HTTP handlers for browsing, uploading, favoriting and
// account management.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Auth routes
	mux.HandleFunc("POST /api/auth/signup", s.handleSignup)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)

	// Category routes
	mux.HandleFunc("GET /api/categories", s.handleListCategories)
	mux.HandleFunc("GET /api/categories/{slug}", s.handleGetCategory)

	// Library routes
	mux.HandleFunc("GET /api/libraries", s.handleListLibraries)
	mux.HandleFunc("POST /api/libraries", s.handleCreateLibrary)
	mux.HandleFunc("GET /api/libraries/{id}", s.handleGetLibrary)
	mux.HandleFunc("PATCH /api/libraries/{id}", s.handleUpdateLibrary)
	mux.HandleFunc("DELETE /api/libraries/{id}", s.handleDeleteLibrary)
	mux.HandleFunc("GET /api/libraries/{id}/samples", s.handleListLibrarySamples)
	mux.HandleFunc("POST /api/libraries/{id}/samples", s.handleCreateSample)

	// Sample routes
	mux.HandleFunc("GET /api/samples/{id}", s.handleGetSample)
	mux.HandleFunc("POST /api/samples/{id}/play", s.handlePlaySample)

	// Favorite routes
	mux.HandleFunc("GET /api/favorites", s.handleListFavorites)
	mux.HandleFunc("POST /api/favorites", s.handleAddFavorite)
	mux.HandleFunc("DELETE /api/favorites/{id}", s.handleRemoveFavorite)

	// User settings routes
	mux.HandleFunc("GET /api/user/settings", s.handleGetSettings)
	mux.HandleFunc("PATCH /api/user/settings", s.handleUpdateSettings)
	mux.HandleFunc("GET /api/user/check-username", s.handleCheckUsername)

	// Stats
	mux.HandleFunc("GET /api/stats", s.handleStats)

	return mux
}

type errorResponse struct {
	Error string `json:"error"`
}

// viewerID resolves the caller's user ID, or 0 for anonymous or invalid
// tokens. Read endpoints use it to scope visibility without requiring auth.
func (s *Server) viewerID(r *http.Request) int64 {
	token := parseBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		return 0
	}
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return 0
	}
	return userID
}

// requireUser resolves the caller's user ID or writes a 401 and returns
// false.
func (s *Server) requireUser(w http.ResponseWriter, r *http.Request) (int64, bool) {
	token := parseBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
		return 0, false
	}
	userID, err := s.tokens.Verify(token)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid or expired token"})
		return 0, false
	}
	return userID, true
}

func parseBearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// parsePagination reads page/limit query params, clamping limit to
// [1, maxPageLimit] and page to >= 1.
func parsePagination(r *http.Request) (page, limit int) {
	page = 1
	limit = defaultPageLimit

	if raw := r.URL.Query().Get("page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			page = v
		}
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	return page, limit
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}
