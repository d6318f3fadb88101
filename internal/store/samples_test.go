package store

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestGetSampleHiddenFromViewer(t *testing.T) {
	s, mock, cleanup := newMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE sa.id = $1 AND (l.is_public OR l.owner_id = $2)`)).
		WithArgs(int64(12), int64(0)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := s.GetSample(context.Background(), 12, 0)
	if !errors.Is(err, ErrSampleNotFound) {
		t.Fatalf("expected ErrSampleNotFound, got %v", err)
	}
}

func TestGetSampleForAnonymousViewer(t *testing.T) {
	s, mock, cleanup := newMock(t)
	defer cleanup()

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM samples sa`)).
		WithArgs(int64(12), int64(0)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "library_id", "source_url", "duration_secs", "tags",
			"play_count", "created_at", "updated_at", "favorite_count", "favorited",
		}).AddRow(int64(12), "Kick 808", int64(5), "https://cdn.example.com/kick.wav",
			int64(2), "{drums,808}", int64(100), now, now, int64(7), false))

	sample, err := s.GetSample(context.Background(), 12, 0)
	if err != nil {
		t.Fatalf("GetSample error: %v", err)
	}
	if sample.Favorited {
		t.Fatal("anonymous viewer should never see favorited=true")
	}
	if sample.FavoriteCount != 7 {
		t.Fatalf("expected favorite count 7, got %d", sample.FavoriteCount)
	}
}

func TestIncrementPlayCount(t *testing.T) {
	s, mock, cleanup := newMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`
		UPDATE samples sa
		SET play_count = play_count + 1, updated_at = NOW()
		FROM libraries l
		WHERE sa.id = $1 AND l.id = sa.library_id AND (l.is_public OR l.owner_id = $2)
		RETURNING sa.play_count
	`)).
		WithArgs(int64(12), int64(0)).
		WillReturnRows(sqlmock.NewRows([]string{"play_count"}).AddRow(int64(101)))

	count, err := s.IncrementPlayCount(context.Background(), 12, 0)
	if err != nil {
		t.Fatalf("IncrementPlayCount error: %v", err)
	}
	if count != 101 {
		t.Fatalf("expected play count 101, got %d", count)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestIncrementPlayCountHiddenFromViewer(t *testing.T) {
	s, mock, cleanup := newMock(t)
	defer cleanup()

	// Private library, non-owner viewer: the visibility join matches no
	// row, so the counter must not move and the sample reads as missing.
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE sa.id = $1 AND l.id = sa.library_id AND (l.is_public OR l.owner_id = $2)`)).
		WithArgs(int64(12), int64(8)).
		WillReturnRows(sqlmock.NewRows([]string{"play_count"}))

	_, err := s.IncrementPlayCount(context.Background(), 12, 8)
	if !errors.Is(err, ErrSampleNotFound) {
		t.Fatalf("expected ErrSampleNotFound, got %v", err)
	}
}

func TestIncrementPlayCountMissingSample(t *testing.T) {
	s, mock, cleanup := newMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`
		UPDATE samples sa
		SET play_count = play_count + 1, updated_at = NOW()
		FROM libraries l
		WHERE sa.id = $1 AND l.id = sa.library_id AND (l.is_public OR l.owner_id = $2)
		RETURNING sa.play_count
	`)).
		WithArgs(int64(99), int64(0)).
		WillReturnRows(sqlmock.NewRows([]string{"play_count"}))

	_, err := s.IncrementPlayCount(context.Background(), 99, 0)
	if !errors.Is(err, ErrSampleNotFound) {
		t.Fatalf("expected ErrSampleNotFound, got %v", err)
	}
}

func TestListLibrarySamplesHiddenLibrary(t *testing.T) {
	s, mock, cleanup := newMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT EXISTS(
			SELECT 1 FROM libraries
			WHERE id = $1 AND (is_public OR owner_id = $2)
		)
	`)).
		WithArgs(int64(5), int64(8)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	_, _, err := s.ListLibrarySamples(context.Background(), 5, 8, 1, 20)
	if !errors.Is(err, ErrLibraryNotFound) {
		t.Fatalf("expected ErrLibraryNotFound, got %v", err)
	}
}
