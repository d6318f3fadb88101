package store

import (
	"context"
	"database/sql"
	"fmt"

	"sounddrop/shared/models"
)

// SiteStats returns the aggregate counts for the landing page. Only public
// content is counted; play totals include every public sample's counter.
func (s *Store) SiteStats(ctx context.Context) (*models.SiteStats, error) {
	var (
		samples, libraries, users int64
		plays                     sql.NullInt64
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM samples sa JOIN libraries l ON l.id = sa.library_id WHERE l.is_public),
			(SELECT COUNT(*) FROM libraries WHERE is_public),
			(SELECT COUNT(*) FROM users),
			(SELECT SUM(sa.play_count) FROM samples sa JOIN libraries l ON l.id = sa.library_id WHERE l.is_public)
	`).Scan(&samples, &libraries, &users, &plays)
	if err != nil {
		return nil, fmt.Errorf("site stats: %w", err)
	}

	return &models.SiteStats{
		Samples:   models.NewStatValue(samples),
		Libraries: models.NewStatValue(libraries),
		Users:     models.NewStatValue(users),
		Plays:     models.NewStatValue(plays.Int64),
	}, nil
}
