package users

import (
	"errors"
	"regexp"
	"strings"
)

var (
	// ErrInvalidUsername is returned for candidates that fail the format rules.
	ErrInvalidUsername = errors.New("username must be 3-30 characters: lowercase letters, digits and underscores, starting with a letter")
	// ErrReservedUsername is returned for route-colliding or privileged names.
	ErrReservedUsername = errors.New("username is reserved")
)

var usernamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]{2,29}$`)

// Names that collide with routes or look privileged.
var reservedUsernames = map[string]struct{}{
	"admin":     {},
	"api":       {},
	"me":        {},
	"root":      {},
	"settings":  {},
	"sounddrop": {},
	"support":   {},
	"system":    {},
}

// SanitizeUsername normalizes a candidate username and validates it against
// the format rules. The sanitized form is returned even when invalid so
// callers can echo it back.
func SanitizeUsername(raw string) (string, error) {
	username := strings.ToLower(strings.TrimSpace(raw))

	if !usernamePattern.MatchString(username) {
		return username, ErrInvalidUsername
	}
	if strings.Contains(username, "__") {
		return username, ErrInvalidUsername
	}
	if _, reserved := reservedUsernames[username]; reserved {
		return username, ErrReservedUsername
	}

	return username, nil
}
