package store

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"sounddrop/shared/models"
)

func newMock(t *testing.T) (*Store, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	return New(db), mock, func() { db.Close() }
}

func libraryColumns() []string {
	return []string{"id", "name", "description", "category_id", "owner_id", "is_public", "icon_url", "created_at", "updated_at"}
}

func TestCreateLibraryTrimsName(t *testing.T) {
	s, mock, cleanup := newMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1)
	`)).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta(`
		INSERT INTO libraries (name, description, category_id, owner_id, is_public, icon_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, name, COALESCE(description, ''), category_id, owner_id, is_public,
			COALESCE(icon_url, ''), created_at, updated_at
	`)).
		WithArgs("Beats", sql.NullString{String: "lo-fi drums", Valid: true}, int64(3), int64(42), true, sql.NullString{}).
		WillReturnRows(sqlmock.NewRows(libraryColumns()).
			AddRow(int64(9), "Beats", "lo-fi drums", int64(3), int64(42), true, "", now, now))

	lib, err := s.CreateLibrary(context.Background(), 42, models.CreateLibraryRequest{
		Name:        "  Beats ",
		Description: " lo-fi drums ",
		CategoryID:  3,
	})
	if err != nil {
		t.Fatalf("CreateLibrary error: %v", err)
	}
	if lib.ID != 9 || lib.Name != "Beats" {
		t.Fatalf("unexpected library %+v", lib)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateLibraryDuplicateName(t *testing.T) {
	s, mock, cleanup := newMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1)
	`)).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO libraries`)).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := s.CreateLibrary(context.Background(), 42, models.CreateLibraryRequest{
		Name:       "Beats",
		CategoryID: 3,
	})
	if !errors.Is(err, ErrLibraryNameTaken) {
		t.Fatalf("expected ErrLibraryNameTaken, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateLibraryUnknownCategory(t *testing.T) {
	s, mock, cleanup := newMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1)
	`)).
		WithArgs(int64(77)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	_, err := s.CreateLibrary(context.Background(), 42, models.CreateLibraryRequest{
		Name:       "Beats",
		CategoryID: 77,
	})
	if !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
}

func TestGetLibraryHiddenFromNonOwner(t *testing.T) {
	s, mock, cleanup := newMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE l.id = $1 AND (l.is_public OR l.owner_id = $2)`)).
		WithArgs(int64(5), int64(8)).
		WillReturnRows(sqlmock.NewRows(libraryColumns()))

	_, err := s.GetLibrary(context.Background(), 5, 8)
	if !errors.Is(err, ErrLibraryNotFound) {
		t.Fatalf("expected ErrLibraryNotFound, got %v", err)
	}
}

func TestDeleteLibraryNotOwner(t *testing.T) {
	s, mock, cleanup := newMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT owner_id
		FROM libraries
		WHERE id = $1
	`)).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"owner_id"}).AddRow(int64(7)))

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT EXISTS(
			SELECT 1 FROM libraries
			WHERE id = $1 AND (is_public OR owner_id = $2)
		)
	`)).
		WithArgs(int64(5), int64(8)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	err := s.DeleteLibrary(context.Background(), 5, 8)
	if !errors.Is(err, ErrNotLibraryOwner) {
		t.Fatalf("expected ErrNotLibraryOwner, got %v", err)
	}
}

func TestDeleteLibraryPrivateReadsAsMissing(t *testing.T) {
	s, mock, cleanup := newMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT owner_id
		FROM libraries
		WHERE id = $1
	`)).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"owner_id"}).AddRow(int64(7)))

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT EXISTS(
			SELECT 1 FROM libraries
			WHERE id = $1 AND (is_public OR owner_id = $2)
		)
	`)).
		WithArgs(int64(5), int64(8)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	err := s.DeleteLibrary(context.Background(), 5, 8)
	if !errors.Is(err, ErrLibraryNotFound) {
		t.Fatalf("expected ErrLibraryNotFound, got %v", err)
	}
}
