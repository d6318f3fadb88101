package users

import (
	"context"

	"sounddrop/shared/models"
)

// Store describes the persistence operations required by the user service.
type Store interface {
	CreateUser(ctx context.Context, email, username, password string) (*models.User, error)
	Authenticate(ctx context.Context, username, password string) (int64, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	UpdateSettings(ctx context.Context, userID int64, req models.UpdateSettingsRequest) (*models.User, error)
	UsernameAvailable(ctx context.Context, username string, excludeUserID int64) (bool, error)
}

// Tokens issues bearer tokens after a successful login.
type Tokens interface {
	Issue(userID int64) (string, error)
}

// Service exposes account workflows: signup, login, settings, and username
// checks.
type Service interface {
	Signup(ctx context.Context, req models.SignupRequest) (*models.User, error)
	Login(ctx context.Context, username, password string) (string, error)
	Settings(ctx context.Context, userID int64) (*models.User, error)
	UpdateSettings(ctx context.Context, userID int64, req models.UpdateSettingsRequest) (*models.User, error)
	CheckUsername(ctx context.Context, candidate string, callerID int64) (UsernameCheck, error)
}

type service struct {
	store  Store
	tokens Tokens
}

// New wires a Service backed by the provided Store and token issuer.
func New(store Store, tokens Tokens) Service {
	return &service{store: store, tokens: tokens}
}

func (s *service) Signup(ctx context.Context, req models.SignupRequest) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	username, err := SanitizeUsername(req.Username)
	if err != nil {
		return nil, err
	}

	return s.store.CreateUser(ctx, req.Email, username, req.Password)
}

func (s *service) Login(ctx context.Context, username, password string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	userID, err := s.store.Authenticate(ctx, username, password)
	if err != nil {
		return "", err
	}
	return s.tokens.Issue(userID)
}

func (s *service) Settings(ctx context.Context, userID int64) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.GetUser(ctx, userID)
}

func (s *service) UpdateSettings(ctx context.Context, userID int64, req models.UpdateSettingsRequest) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if req.Username != nil {
		username, err := SanitizeUsername(*req.Username)
		if err != nil {
			return nil, err
		}
		req.Username = &username
	}

	return s.store.UpdateSettings(ctx, userID, req)
}

// UsernameCheck is the outcome of validating a candidate username.
type UsernameCheck struct {
	Username  string `json:"username"`
	Valid     bool   `json:"valid"`
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

// CheckUsername sanitizes and validates a candidate, then checks it against
// existing accounts. callerID, when non-zero, excludes the caller's own
// record so re-validating a current username reports available.
func (s *service) CheckUsername(ctx context.Context, candidate string, callerID int64) (UsernameCheck, error) {
	if err := ctx.Err(); err != nil {
		return UsernameCheck{}, err
	}

	username, err := SanitizeUsername(candidate)
	if err != nil {
		return UsernameCheck{Username: username, Reason: err.Error()}, nil
	}

	available, err := s.store.UsernameAvailable(ctx, username, callerID)
	if err != nil {
		return UsernameCheck{}, err
	}

	check := UsernameCheck{Username: username, Valid: true, Available: available}
	if !available {
		check.Reason = "username already taken"
	}
	return check, nil
}
