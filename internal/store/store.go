package store

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrUserExists signals the username or email is already taken.
	ErrUserExists = errors.New("user already exists")
	// ErrUsernameTaken signals the requested username belongs to another account.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrInvalidCredentials indicates a login failure.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrUserNotFound indicates the account does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrCategoryNotFound indicates an unknown category slug or id.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrLibraryNotFound indicates an unknown library, or one the viewer may not see.
	ErrLibraryNotFound = errors.New("library not found")
	// ErrLibraryNameTaken signals the owner already has a library with that name.
	ErrLibraryNameTaken = errors.New("library name already in use")
	// ErrNotLibraryOwner indicates a mutation attempted by a non-owner.
	ErrNotLibraryOwner = errors.New("not the library owner")

	// ErrSampleNotFound indicates an unknown sample, or one in a library the
	// viewer may not see.
	ErrSampleNotFound = errors.New("sample not found")

	// ErrFavoriteExists signals the sample is already favorited by the user.
	ErrFavoriteExists = errors.New("favorite already exists")
	// ErrFavoriteNotFound indicates an unknown favorite.
	ErrFavoriteNotFound = errors.New("favorite not found")
	// ErrNotFavoriteOwner indicates a delete attempted on another user's favorite.
	ErrNotFavoriteOwner = errors.New("not the favorite owner")
)

// Store provides persistence backed by Postgres.
type Store struct {
	db *sql.DB
}

// New sets up a Store using the provided database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func nullIfEmpty(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
