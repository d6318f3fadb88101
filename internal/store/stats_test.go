package store

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestSiteStats(t *testing.T) {
	s, mock, cleanup := newMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT`)).
		WillReturnRows(sqlmock.NewRows([]string{"samples", "libraries", "users", "plays"}).
			AddRow(int64(1234), int64(56), int64(78), int64(3_400_000)))

	stats, err := s.SiteStats(context.Background())
	if err != nil {
		t.Fatalf("SiteStats error: %v", err)
	}
	if stats.Samples.Label != "1.2K" {
		t.Fatalf("unexpected samples label %q", stats.Samples.Label)
	}
	if stats.Plays.Label != "3.4M" {
		t.Fatalf("unexpected plays label %q", stats.Plays.Label)
	}
}

func TestSiteStatsNoPlays(t *testing.T) {
	s, mock, cleanup := newMock(t)
	defer cleanup()

	// SUM over zero rows comes back NULL.
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT`)).
		WillReturnRows(sqlmock.NewRows([]string{"samples", "libraries", "users", "plays"}).
			AddRow(int64(0), int64(0), int64(0), nil))

	stats, err := s.SiteStats(context.Background())
	if err != nil {
		t.Fatalf("SiteStats error: %v", err)
	}
	if stats.Plays.Count != 0 || stats.Plays.Label != "0" {
		t.Fatalf("unexpected plays %+v", stats.Plays)
	}
}
