package favorites

import (
	"context"

	"sounddrop/shared/models"
)

// Store defines persistence operations required for favorites workflows.
type Store interface {
	AddFavorite(ctx context.Context, userID, sampleID int64) (*models.Favorite, error)
	RemoveFavorite(ctx context.Context, userID, favoriteID int64) error
	ListFavorites(ctx context.Context, userID int64, page, limit int) ([]models.Favorite, int64, error)
}

// Service describes high level favorites operations used by HTTP handlers.
type Service interface {
	Add(ctx context.Context, userID, sampleID int64) (*models.Favorite, error)
	Remove(ctx context.Context, userID, favoriteID int64) error
	List(ctx context.Context, userID int64, page, limit int) ([]models.Favorite, models.Pagination, error)
}

type service struct {
	store Store
}

// New constructs a favorites Service backed by the given store.
func New(st Store) Service {
	return &service{store: st}
}

func (s *service) Add(ctx context.Context, userID, sampleID int64) (*models.Favorite, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.AddFavorite(ctx, userID, sampleID)
}

func (s *service) Remove(ctx context.Context, userID, favoriteID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.RemoveFavorite(ctx, userID, favoriteID)
}

func (s *service) List(ctx context.Context, userID int64, page, limit int) ([]models.Favorite, models.Pagination, error) {
	if err := ctx.Err(); err != nil {
		return nil, models.Pagination{}, err
	}

	list, total, err := s.store.ListFavorites(ctx, userID, page, limit)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return list, models.NewPagination(total, page, limit), nil
}
