package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"sounddrop/shared/models"
)

// CreateSample adds a sample to one of userID's libraries.
func (s *Store) CreateSample(ctx context.Context, libraryID, userID int64, req models.CreateSampleRequest) (*models.Sample, error) {
	ownerID, err := s.libraryOwner(ctx, libraryID)
	if err != nil {
		return nil, err
	}
	if ownerID != userID {
		if visible, _ := s.libraryVisible(ctx, libraryID, userID); !visible {
			return nil, ErrLibraryNotFound
		}
		return nil, ErrNotLibraryOwner
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("sample name is required")
	}

	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}

	var sample models.Sample
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO samples (name, library_id, source_url, duration_secs, tags)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, library_id, source_url, duration_secs, tags, play_count,
			created_at, updated_at
	`, name, libraryID, req.SourceURL, req.DurationSecs, pq.Array(tags)).Scan(
		&sample.ID, &sample.Name, &sample.LibraryID, &sample.SourceURL,
		&sample.DurationSecs, pq.Array(&sample.Tags), &sample.PlayCount,
		&sample.CreatedAt, &sample.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert sample: %w", err)
	}

	return &sample, nil
}

// GetSample returns a sample visible to viewerID, with its favorite count
// and the viewer's favorited flag. Samples in another user's private
// library come back as ErrSampleNotFound.
func (s *Store) GetSample(ctx context.Context, id, viewerID int64) (*models.Sample, error) {
	var sample models.Sample
	err := s.db.QueryRowContext(ctx, `
		SELECT sa.id, sa.name, sa.library_id, sa.source_url, sa.duration_secs,
			sa.tags, sa.play_count, sa.created_at, sa.updated_at,
			(SELECT COUNT(*) FROM favorites f WHERE f.sample_id = sa.id),
			EXISTS(SELECT 1 FROM favorites f WHERE f.sample_id = sa.id AND f.user_id = $2)
		FROM samples sa
		JOIN libraries l ON l.id = sa.library_id
		WHERE sa.id = $1 AND (l.is_public OR l.owner_id = $2)
	`, id, viewerID).Scan(
		&sample.ID, &sample.Name, &sample.LibraryID, &sample.SourceURL,
		&sample.DurationSecs, pq.Array(&sample.Tags), &sample.PlayCount,
		&sample.CreatedAt, &sample.UpdatedAt, &sample.FavoriteCount, &sample.Favorited,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSampleNotFound
		}
		return nil, fmt.Errorf("lookup sample: %w", err)
	}
	return &sample, nil
}

// ListLibrarySamples returns a page of a library's samples, newest first.
// The library itself must be visible to viewerID.
func (s *Store) ListLibrarySamples(ctx context.Context, libraryID, viewerID int64, page, limit int) ([]models.Sample, int64, error) {
	visible, err := s.libraryVisible(ctx, libraryID, viewerID)
	if err != nil {
		return nil, 0, err
	}
	if !visible {
		return nil, 0, ErrLibraryNotFound
	}

	var total int64
	if err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM samples WHERE library_id = $1
	`, libraryID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count samples: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT sa.id, sa.name, sa.library_id, sa.source_url, sa.duration_secs,
			sa.tags, sa.play_count, sa.created_at, sa.updated_at,
			(SELECT COUNT(*) FROM favorites f WHERE f.sample_id = sa.id),
			EXISTS(SELECT 1 FROM favorites f WHERE f.sample_id = sa.id AND f.user_id = $2)
		FROM samples sa
		WHERE sa.library_id = $1
		ORDER BY sa.created_at DESC
		LIMIT $3 OFFSET $4
	`, libraryID, viewerID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list samples: %w", err)
	}
	defer rows.Close()

	samples, err := scanSamplesWithFavorited(rows)
	if err != nil {
		return nil, 0, err
	}

	return samples, total, nil
}

// IncrementPlayCount bumps a sample's play counter and returns the new
// value. The counter only moves up. The sample must be visible to
// viewerID; samples in another user's private library come back as
// ErrSampleNotFound, same as GetSample.
func (s *Store) IncrementPlayCount(ctx context.Context, id, viewerID int64) (int64, error) {
	var playCount int64
	err := s.db.QueryRowContext(ctx, `
		UPDATE samples sa
		SET play_count = play_count + 1, updated_at = NOW()
		FROM libraries l
		WHERE sa.id = $1 AND l.id = sa.library_id AND (l.is_public OR l.owner_id = $2)
		RETURNING sa.play_count
	`, id, viewerID).Scan(&playCount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrSampleNotFound
		}
		return 0, fmt.Errorf("increment play count: %w", err)
	}
	return playCount, nil
}

// scanSamples reads sample rows that carry a favorite count but no
// per-viewer favorited flag.
func scanSamples(rows *sql.Rows) ([]models.Sample, error) {
	var samples []models.Sample
	for rows.Next() {
		var sample models.Sample
		if err := rows.Scan(
			&sample.ID, &sample.Name, &sample.LibraryID, &sample.SourceURL,
			&sample.DurationSecs, pq.Array(&sample.Tags), &sample.PlayCount,
			&sample.CreatedAt, &sample.UpdatedAt, &sample.FavoriteCount,
		); err != nil {
			return nil, fmt.Errorf("scan sample: %w", err)
		}
		samples = append(samples, sample)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate samples: %w", err)
	}
	return samples, nil
}

func scanSamplesWithFavorited(rows *sql.Rows) ([]models.Sample, error) {
	var samples []models.Sample
	for rows.Next() {
		var sample models.Sample
		if err := rows.Scan(
			&sample.ID, &sample.Name, &sample.LibraryID, &sample.SourceURL,
			&sample.DurationSecs, pq.Array(&sample.Tags), &sample.PlayCount,
			&sample.CreatedAt, &sample.UpdatedAt, &sample.FavoriteCount, &sample.Favorited,
		); err != nil {
			return nil, fmt.Errorf("scan sample: %w", err)
		}
		samples = append(samples, sample)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate samples: %w", err)
	}
	return samples, nil
}
