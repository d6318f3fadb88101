package store

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestGetCategoryBySlug(t *testing.T) {
	s, mock, cleanup := newMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT id, slug, name, COALESCE(description, ''), display_order
		FROM categories
		WHERE slug = $1
	`)).
		WithArgs("drums").
		WillReturnRows(sqlmock.NewRows([]string{"id", "slug", "name", "description", "display_order"}).
			AddRow(int64(3), "drums", "Drums", "Kicks, snares, hats", 1))

	c, err := s.GetCategoryBySlug(context.Background(), "drums")
	if err != nil {
		t.Fatalf("GetCategoryBySlug error: %v", err)
	}
	if c.ID != 3 || c.Name != "Drums" {
		t.Fatalf("unexpected category %+v", c)
	}
}

func TestGetCategoryBySlugMissing(t *testing.T) {
	s, mock, cleanup := newMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT id, slug, name, COALESCE(description, ''), display_order
		FROM categories
		WHERE slug = $1
	`)).
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows([]string{"id", "slug", "name", "description", "display_order"}))

	_, err := s.GetCategoryBySlug(context.Background(), "nope")
	if !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
}

func TestCategoryStatsCountsPublicOnly(t *testing.T) {
	s, mock, cleanup := newMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE l.category_id = $1 AND l.is_public`)).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"library_count", "contributor_count", "sample_count"}).
			AddRow(int64(4), int64(2), int64(120)))

	stats, err := s.CategoryStats(context.Background(), 3)
	if err != nil {
		t.Fatalf("CategoryStats error: %v", err)
	}
	if stats.LibraryCount != 4 || stats.ContributorCount != 2 || stats.SampleCount != 120 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}
