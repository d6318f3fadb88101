package categories

import (
	"context"
	"sync"

	"sounddrop/shared/models"
)

// Store defines persistence operations required for category pages.
type Store interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error)
	CategoryStats(ctx context.Context, categoryID int64) (*models.CategoryStats, error)
	TrendingSamples(ctx context.Context, categoryID int64, limit int) ([]models.Sample, error)
}

// Detail is everything a category page needs in one response.
type Detail struct {
	Category        models.Category      `json:"category"`
	Stats           models.CategoryStats `json:"stats"`
	TrendingSamples []models.Sample      `json:"trendingSamples"`
}

// Service exposes category browsing workflows.
type Service interface {
	List(ctx context.Context) ([]models.Category, error)
	GetBySlug(ctx context.Context, slug string) (*Detail, error)
}

type service struct {
	store Store
}

// New constructs a categories Service backed by the given store.
func New(store Store) Service {
	return &service{store: store}
}

func (s *service) List(ctx context.Context) ([]models.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListCategories(ctx)
}

// GetBySlug loads the category, then fetches its stats and trending samples
// concurrently since the two queries are independent.
func (s *service) GetBySlug(ctx context.Context, slug string) (*Detail, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	category, err := s.store.GetCategoryBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	var (
		wg          sync.WaitGroup
		stats       *models.CategoryStats
		trending    []models.Sample
		statsErr    error
		trendingErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		stats, statsErr = s.store.CategoryStats(ctx, category.ID)
	}()
	go func() {
		defer wg.Done()
		trending, trendingErr = s.store.TrendingSamples(ctx, category.ID, 10)
	}()
	wg.Wait()

	if statsErr != nil {
		return nil, statsErr
	}
	if trendingErr != nil {
		return nil, trendingErr
	}

	detail := &Detail{Category: *category, Stats: *stats}
	if trending != nil {
		detail.TrendingSamples = trending
	} else {
		detail.TrendingSamples = []models.Sample{}
	}
	return detail, nil
}
