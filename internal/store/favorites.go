package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"sounddrop/shared/models"
)

// AddFavorite bookmarks a sample for userID. The sample must be visible to
// the user; a second bookmark of the same sample returns ErrFavoriteExists.
// The pre-check on visibility is not transactional with the insert; the
// unique constraint on (user_id, sample_id) is the authoritative guard.
func (s *Store) AddFavorite(ctx context.Context, userID, sampleID int64) (*models.Favorite, error) {
	var visible bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM samples sa
			JOIN libraries l ON l.id = sa.library_id
			WHERE sa.id = $1 AND (l.is_public OR l.owner_id = $2)
		)
	`, sampleID, userID).Scan(&visible)
	if err != nil {
		return nil, fmt.Errorf("check sample visibility: %w", err)
	}
	if !visible {
		return nil, ErrSampleNotFound
	}

	var fav models.Favorite
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO favorites (user_id, sample_id)
		VALUES ($1, $2)
		RETURNING id, user_id, sample_id, created_at
	`, userID, sampleID).Scan(&fav.ID, &fav.UserID, &fav.SampleID, &fav.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrFavoriteExists
		}
		return nil, fmt.Errorf("insert favorite: %w", err)
	}

	sample, err := s.GetSample(ctx, sampleID, userID)
	if err != nil {
		return nil, err
	}
	fav.Sample = sample

	return &fav, nil
}

// RemoveFavorite deletes one of userID's favorites by its ID.
func (s *Store) RemoveFavorite(ctx context.Context, userID, favoriteID int64) error {
	var ownerID int64
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id
		FROM favorites
		WHERE id = $1
	`, favoriteID).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrFavoriteNotFound
		}
		return fmt.Errorf("lookup favorite: %w", err)
	}
	if ownerID != userID {
		return ErrNotFavoriteOwner
	}

	if _, err := s.db.ExecContext(ctx, `
		DELETE FROM favorites
		WHERE id = $1
	`, favoriteID); err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}

	return nil
}

// ListFavorites returns a page of userID's favorites, newest first, each
// with its sample embedded.
func (s *Store) ListFavorites(ctx context.Context, userID int64, page, limit int) ([]models.Favorite, int64, error) {
	var total int64
	if err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM favorites WHERE user_id = $1
	`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count favorites: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT f.id, f.user_id, f.sample_id, f.created_at,
			sa.id, sa.name, sa.library_id, sa.source_url, sa.duration_secs,
			sa.tags, sa.play_count, sa.created_at, sa.updated_at,
			(SELECT COUNT(*) FROM favorites ff WHERE ff.sample_id = sa.id)
		FROM favorites f
		JOIN samples sa ON sa.id = f.sample_id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list favorites: %w", err)
	}
	defer rows.Close()

	var favorites []models.Favorite
	for rows.Next() {
		var fav models.Favorite
		var sample models.Sample
		if err := rows.Scan(
			&fav.ID, &fav.UserID, &fav.SampleID, &fav.CreatedAt,
			&sample.ID, &sample.Name, &sample.LibraryID, &sample.SourceURL,
			&sample.DurationSecs, pq.Array(&sample.Tags), &sample.PlayCount,
			&sample.CreatedAt, &sample.UpdatedAt, &sample.FavoriteCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan favorite: %w", err)
		}
		sample.Favorited = true
		fav.Sample = &sample
		favorites = append(favorites, fav)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate favorites: %w", err)
	}

	return favorites, total, nil
}
