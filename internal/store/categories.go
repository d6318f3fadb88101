package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"sounddrop/shared/models"
)

// ListCategories returns all categories in display order.
func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, slug, name, COALESCE(description, ''), display_order
		FROM categories
		ORDER BY display_order ASC, name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Slug, &c.Name, &c.Description, &c.DisplayOrder); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}

	return categories, nil
}

// GetCategoryBySlug returns the category with the given slug.
func (s *Store) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var c models.Category
	err := s.db.QueryRowContext(ctx, `
		SELECT id, slug, name, COALESCE(description, ''), display_order
		FROM categories
		WHERE slug = $1
	`, slug).Scan(&c.ID, &c.Slug, &c.Name, &c.Description, &c.DisplayOrder)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("lookup category: %w", err)
	}
	return &c, nil
}

// CategoryStats returns the derived counts for a category. Only public
// libraries contribute.
func (s *Store) CategoryStats(ctx context.Context, categoryID int64) (*models.CategoryStats, error) {
	var stats models.CategoryStats
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(DISTINCT l.id),
			COUNT(DISTINCT l.owner_id),
			COUNT(sa.id)
		FROM libraries l
		LEFT JOIN samples sa ON sa.library_id = l.id
		WHERE l.category_id = $1 AND l.is_public
	`, categoryID).Scan(&stats.LibraryCount, &stats.ContributorCount, &stats.SampleCount)
	if err != nil {
		return nil, fmt.Errorf("category stats: %w", err)
	}
	return &stats, nil
}

// TrendingSamples returns the most-played public samples in a category.
func (s *Store) TrendingSamples(ctx context.Context, categoryID int64, limit int) ([]models.Sample, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT sa.id, sa.name, sa.library_id, sa.source_url, sa.duration_secs,
			sa.tags, sa.play_count, sa.created_at, sa.updated_at,
			(SELECT COUNT(*) FROM favorites f WHERE f.sample_id = sa.id)
		FROM samples sa
		JOIN libraries l ON l.id = sa.library_id
		WHERE l.category_id = $1 AND l.is_public
		ORDER BY sa.play_count DESC, sa.created_at DESC
		LIMIT $2
	`, categoryID, limit)
	if err != nil {
		return nil, fmt.Errorf("trending samples: %w", err)
	}
	defer rows.Close()

	return scanSamples(rows)
}
