package libraries

import (
	"context"

	"sounddrop/internal/store"
	"sounddrop/shared/models"
)

// Store defines persistence operations required for library workflows.
type Store interface {
	CreateLibrary(ctx context.Context, ownerID int64, req models.CreateLibraryRequest) (*models.Library, error)
	GetLibrary(ctx context.Context, id, viewerID int64) (*models.Library, error)
	ListLibraries(ctx context.Context, viewerID int64, filter store.LibraryFilter) ([]models.Library, int64, error)
	UpdateLibrary(ctx context.Context, id, userID int64, req models.UpdateLibraryRequest) (*models.Library, error)
	DeleteLibrary(ctx context.Context, id, userID int64) error
}

// Service coordinates library CRUD on behalf of the HTTP handlers.
type Service interface {
	Create(ctx context.Context, ownerID int64, req models.CreateLibraryRequest) (*models.Library, error)
	Get(ctx context.Context, id, viewerID int64) (*models.Library, error)
	List(ctx context.Context, viewerID int64, filter store.LibraryFilter) ([]models.Library, models.Pagination, error)
	Update(ctx context.Context, id, userID int64, req models.UpdateLibraryRequest) (*models.Library, error)
	Delete(ctx context.Context, id, userID int64) error
}

type service struct {
	store Store
}

// New constructs a libraries Service backed by the given store.
func New(store Store) Service {
	return &service{store: store}
}

func (s *service) Create(ctx context.Context, ownerID int64, req models.CreateLibraryRequest) (*models.Library, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.CreateLibrary(ctx, ownerID, req)
}

func (s *service) Get(ctx context.Context, id, viewerID int64) (*models.Library, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.GetLibrary(ctx, id, viewerID)
}

func (s *service) List(ctx context.Context, viewerID int64, filter store.LibraryFilter) ([]models.Library, models.Pagination, error) {
	if err := ctx.Err(); err != nil {
		return nil, models.Pagination{}, err
	}

	libs, total, err := s.store.ListLibraries(ctx, viewerID, filter)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return libs, models.NewPagination(total, filter.Page, filter.Limit), nil
}

func (s *service) Update(ctx context.Context, id, userID int64, req models.UpdateLibraryRequest) (*models.Library, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.UpdateLibrary(ctx, id, userID, req)
}

func (s *service) Delete(ctx context.Context, id, userID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.DeleteLibrary(ctx, id, userID)
}
