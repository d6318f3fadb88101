package samples

import (
	"context"

	"sounddrop/shared/models"
)

// Store defines persistence operations required for sample workflows.
type Store interface {
	CreateSample(ctx context.Context, libraryID, userID int64, req models.CreateSampleRequest) (*models.Sample, error)
	GetSample(ctx context.Context, id, viewerID int64) (*models.Sample, error)
	ListLibrarySamples(ctx context.Context, libraryID, viewerID int64, page, limit int) ([]models.Sample, int64, error)
	IncrementPlayCount(ctx context.Context, id, viewerID int64) (int64, error)
}

// Service coordinates sample operations on behalf of the HTTP handlers.
type Service interface {
	Create(ctx context.Context, libraryID, userID int64, req models.CreateSampleRequest) (*models.Sample, error)
	Get(ctx context.Context, id, viewerID int64) (*models.Sample, error)
	ListByLibrary(ctx context.Context, libraryID, viewerID int64, page, limit int) ([]models.Sample, models.Pagination, error)
	RecordPlay(ctx context.Context, id, viewerID int64) (int64, error)
}

type service struct {
	store Store
}

// New constructs a samples Service backed by the given store.
func New(store Store) Service {
	return &service{store: store}
}

func (s *service) Create(ctx context.Context, libraryID, userID int64, req models.CreateSampleRequest) (*models.Sample, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.CreateSample(ctx, libraryID, userID, req)
}

func (s *service) Get(ctx context.Context, id, viewerID int64) (*models.Sample, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.GetSample(ctx, id, viewerID)
}

func (s *service) ListByLibrary(ctx context.Context, libraryID, viewerID int64, page, limit int) ([]models.Sample, models.Pagination, error) {
	if err := ctx.Err(); err != nil {
		return nil, models.Pagination{}, err
	}

	list, total, err := s.store.ListLibrarySamples(ctx, libraryID, viewerID, page, limit)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return list, models.NewPagination(total, page, limit), nil
}

func (s *service) RecordPlay(ctx context.Context, id, viewerID int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return s.store.IncrementPlayCount(ctx, id, viewerID)
}
