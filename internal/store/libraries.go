package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"sounddrop/shared/models"
)

// LibraryFilter narrows ListLibraries. Zero values mean no filtering.
type LibraryFilter struct {
	CategoryID int64
	OwnerID    int64
	Page       int
	Limit      int
}

// CreateLibrary inserts a library for ownerID. The name is trimmed first;
// a case-insensitive collision with another of the owner's libraries
// returns ErrLibraryNameTaken.
func (s *Store) CreateLibrary(ctx context.Context, ownerID int64, req models.CreateLibraryRequest) (*models.Library, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("library name is required")
	}

	var categoryExists bool
	if err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1)
	`, req.CategoryID).Scan(&categoryExists); err != nil {
		return nil, fmt.Errorf("check category: %w", err)
	}
	if !categoryExists {
		return nil, ErrCategoryNotFound
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	var lib models.Library
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO libraries (name, description, category_id, owner_id, is_public, icon_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, name, COALESCE(description, ''), category_id, owner_id, is_public,
			COALESCE(icon_url, ''), created_at, updated_at
	`, name, nullIfEmpty(strings.TrimSpace(req.Description)), req.CategoryID, ownerID, isPublic,
		nullIfEmpty(req.IconURL),
	).Scan(
		&lib.ID, &lib.Name, &lib.Description, &lib.CategoryID, &lib.OwnerID,
		&lib.IsPublic, &lib.IconURL, &lib.CreatedAt, &lib.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrLibraryNameTaken
		}
		return nil, fmt.Errorf("insert library: %w", err)
	}

	return &lib, nil
}

// GetLibrary returns a library visible to viewerID. Private libraries of
// other users come back as ErrLibraryNotFound, not a forbidden error, so
// their existence is not leaked.
func (s *Store) GetLibrary(ctx context.Context, id, viewerID int64) (*models.Library, error) {
	var lib models.Library
	err := s.db.QueryRowContext(ctx, `
		SELECT l.id, l.name, COALESCE(l.description, ''), l.category_id, l.owner_id,
			l.is_public, COALESCE(l.icon_url, ''), l.created_at, l.updated_at,
			(SELECT COUNT(*) FROM samples sa WHERE sa.library_id = l.id)
		FROM libraries l
		WHERE l.id = $1 AND (l.is_public OR l.owner_id = $2)
	`, id, viewerID).Scan(
		&lib.ID, &lib.Name, &lib.Description, &lib.CategoryID, &lib.OwnerID,
		&lib.IsPublic, &lib.IconURL, &lib.CreatedAt, &lib.UpdatedAt, &lib.SampleCount,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLibraryNotFound
		}
		return nil, fmt.Errorf("lookup library: %w", err)
	}
	return &lib, nil
}

// ListLibraries returns libraries visible to viewerID with pagination.
func (s *Store) ListLibraries(ctx context.Context, viewerID int64, filter LibraryFilter) ([]models.Library, int64, error) {
	where := "(l.is_public OR l.owner_id = $1)"
	args := []any{viewerID}
	argPos := 2

	if filter.CategoryID != 0 {
		where += fmt.Sprintf(" AND l.category_id = $%d", argPos)
		args = append(args, filter.CategoryID)
		argPos++
	}
	if filter.OwnerID != 0 {
		where += fmt.Sprintf(" AND l.owner_id = $%d", argPos)
		args = append(args, filter.OwnerID)
		argPos++
	}

	var total int64
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM libraries l WHERE %s`, where)
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count libraries: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT l.id, l.name, COALESCE(l.description, ''), l.category_id, l.owner_id,
			l.is_public, COALESCE(l.icon_url, ''), l.created_at, l.updated_at,
			(SELECT COUNT(*) FROM samples sa WHERE sa.library_id = l.id)
		FROM libraries l
		WHERE %s
		ORDER BY l.created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, argPos, argPos+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list libraries: %w", err)
	}
	defer rows.Close()

	var libraries []models.Library
	for rows.Next() {
		var lib models.Library
		if err := rows.Scan(
			&lib.ID, &lib.Name, &lib.Description, &lib.CategoryID, &lib.OwnerID,
			&lib.IsPublic, &lib.IconURL, &lib.CreatedAt, &lib.UpdatedAt, &lib.SampleCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan library: %w", err)
		}
		libraries = append(libraries, lib)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate libraries: %w", err)
	}

	return libraries, total, nil
}

// UpdateLibrary applies the non-nil fields of req. Only the owner may
// mutate; anyone else gets ErrNotLibraryOwner (or ErrLibraryNotFound if the
// library is private to them).
func (s *Store) UpdateLibrary(ctx context.Context, id, userID int64, req models.UpdateLibraryRequest) (*models.Library, error) {
	ownerID, err := s.libraryOwner(ctx, id)
	if err != nil {
		return nil, err
	}
	if ownerID != userID {
		if visible, _ := s.libraryVisible(ctx, id, userID); !visible {
			return nil, ErrLibraryNotFound
		}
		return nil, ErrNotLibraryOwner
	}

	sets := []string{"updated_at = $1"}
	args := []any{time.Now().UTC()}
	argPos := 2

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("library name is required")
		}
		sets = append(sets, fmt.Sprintf("name = $%d", argPos))
		args = append(args, name)
		argPos++
	}
	if req.Description != nil {
		sets = append(sets, fmt.Sprintf("description = $%d", argPos))
		args = append(args, nullIfEmpty(strings.TrimSpace(*req.Description)))
		argPos++
	}
	if req.CategoryID != nil {
		sets = append(sets, fmt.Sprintf("category_id = $%d", argPos))
		args = append(args, *req.CategoryID)
		argPos++
	}
	if req.IsPublic != nil {
		sets = append(sets, fmt.Sprintf("is_public = $%d", argPos))
		args = append(args, *req.IsPublic)
		argPos++
	}
	if req.IconURL != nil {
		sets = append(sets, fmt.Sprintf("icon_url = $%d", argPos))
		args = append(args, nullIfEmpty(*req.IconURL))
		argPos++
	}

	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE libraries
		SET %s
		WHERE id = $%d
		RETURNING id, name, COALESCE(description, ''), category_id, owner_id, is_public,
			COALESCE(icon_url, ''), created_at, updated_at
	`, strings.Join(sets, ", "), argPos)

	var lib models.Library
	err = s.db.QueryRowContext(ctx, query, args...).Scan(
		&lib.ID, &lib.Name, &lib.Description, &lib.CategoryID, &lib.OwnerID,
		&lib.IsPublic, &lib.IconURL, &lib.CreatedAt, &lib.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrLibraryNameTaken
		}
		return nil, fmt.Errorf("update library: %w", err)
	}

	return &lib, nil
}

// DeleteLibrary removes an owner's library. Samples and their favorites go
// with it via ON DELETE CASCADE.
func (s *Store) DeleteLibrary(ctx context.Context, id, userID int64) error {
	ownerID, err := s.libraryOwner(ctx, id)
	if err != nil {
		return err
	}
	if ownerID != userID {
		if visible, _ := s.libraryVisible(ctx, id, userID); !visible {
			return ErrLibraryNotFound
		}
		return ErrNotLibraryOwner
	}

	if _, err := s.db.ExecContext(ctx, `
		DELETE FROM libraries
		WHERE id = $1
	`, id); err != nil {
		return fmt.Errorf("delete library: %w", err)
	}

	return nil
}

func (s *Store) libraryOwner(ctx context.Context, id int64) (int64, error) {
	var ownerID int64
	err := s.db.QueryRowContext(ctx, `
		SELECT owner_id
		FROM libraries
		WHERE id = $1
	`, id).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrLibraryNotFound
		}
		return 0, fmt.Errorf("lookup library owner: %w", err)
	}
	return ownerID, nil
}

func (s *Store) libraryVisible(ctx context.Context, id, viewerID int64) (bool, error) {
	var visible bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM libraries
			WHERE id = $1 AND (is_public OR owner_id = $2)
		)
	`, id, viewerID).Scan(&visible)
	if err != nil {
		return false, fmt.Errorf("check library visibility: %w", err)
	}
	return visible, nil
}
