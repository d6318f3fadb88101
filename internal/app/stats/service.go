package stats

import (
	"context"

	"sounddrop/shared/models"
)

// Store defines the aggregate queries behind the stats endpoint.
type Store interface {
	SiteStats(ctx context.Context) (*models.SiteStats, error)
}

// Service exposes site-wide statistics.
type Service interface {
	Site(ctx context.Context) (*models.SiteStats, error)
}

type service struct {
	store Store
}

// New constructs a stats Service backed by the given store.
func New(store Store) Service {
	return &service{store: store}
}

func (s *service) Site(ctx context.Context) (*models.SiteStats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.SiteStats(ctx)
}
