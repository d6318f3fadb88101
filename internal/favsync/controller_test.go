package favsync

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"sounddrop/shared/models"
)

type fakeClient struct {
	authed   bool
	listFn   func(ctx context.Context, page, limit int) ([]models.Favorite, models.Pagination, error)
	createFn func(ctx context.Context, sampleID int64) (*models.Favorite, error)
	deleteFn func(ctx context.Context, favoriteID int64) error
}

func (f *fakeClient) Authenticated() bool { return f.authed }

func (f *fakeClient) ListFavorites(ctx context.Context, page, limit int) ([]models.Favorite, models.Pagination, error) {
	return f.listFn(ctx, page, limit)
}

func (f *fakeClient) CreateFavorite(ctx context.Context, sampleID int64) (*models.Favorite, error) {
	return f.createFn(ctx, sampleID)
}

func (f *fakeClient) DeleteFavorite(ctx context.Context, favoriteID int64) error {
	return f.deleteFn(ctx, favoriteID)
}

type recordingNotifier struct {
	mu   sync.Mutex
	msgs []string
}

func (n *recordingNotifier) Notify(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, msg)
}

func (n *recordingNotifier) messages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.msgs...)
}

func staticPage(favorites []models.Favorite, hasNext bool) func(ctx context.Context, page, limit int) ([]models.Favorite, models.Pagination, error) {
	return func(ctx context.Context, page, limit int) ([]models.Favorite, models.Pagination, error) {
		p := models.NewPagination(int64(len(favorites)), page, limit)
		p.HasNextPage = hasNext
		return favorites, p, nil
	}
}

func TestLoadUnauthenticatedClears(t *testing.T) {
	listCalls := int32(0)
	client := &fakeClient{
		authed: false,
		listFn: func(ctx context.Context, page, limit int) ([]models.Favorite, models.Pagination, error) {
			atomic.AddInt32(&listCalls, 1)
			return nil, models.Pagination{}, nil
		},
	}
	c := NewController(client, nil, 20)

	require.NoError(t, c.Load(context.Background(), 1))
	require.Empty(t, c.Records())
	require.False(t, c.HasMore())
	require.Zero(t, atomic.LoadInt32(&listCalls))
}

func TestLoadMarksRecordsConfirmed(t *testing.T) {
	client := &fakeClient{
		authed: true,
		listFn: staticPage([]models.Favorite{
			{ID: 31, SampleID: 12},
			{ID: 30, SampleID: 11},
		}, false),
	}
	c := NewController(client, nil, 20)

	require.NoError(t, c.Load(context.Background(), 1))
	require.Len(t, c.Records(), 2)
	require.True(t, c.IsFavorited(12))
	require.True(t, c.IsFavorited(11))
	require.Equal(t, StateConfirmed, c.SampleState(12))
	require.False(t, c.IsFavorited(99))
}

func TestLoadMoreAppends(t *testing.T) {
	pages := map[int][]models.Favorite{
		1: {{ID: 31, SampleID: 12}},
		2: {{ID: 30, SampleID: 11}},
	}
	client := &fakeClient{authed: true}
	client.listFn = func(ctx context.Context, page, limit int) ([]models.Favorite, models.Pagination, error) {
		p := models.NewPagination(2, page, limit)
		p.HasNextPage = page < 2
		return pages[page], p, nil
	}
	c := NewController(client, nil, 1)

	require.NoError(t, c.Load(context.Background(), 1))
	require.True(t, c.HasMore())

	require.NoError(t, c.LoadMore(context.Background()))
	require.Len(t, c.Records(), 2)
	require.False(t, c.HasMore())

	// Exhausted pages make LoadMore a no-op.
	require.NoError(t, c.LoadMore(context.Background()))
	require.Len(t, c.Records(), 2)
}

func TestToggleFavoriteOptimisticallyVisible(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	client := &fakeClient{
		authed: true,
		createFn: func(ctx context.Context, sampleID int64) (*models.Favorite, error) {
			close(started)
			<-release
			return &models.Favorite{ID: 31, SampleID: sampleID}, nil
		},
	}
	c := NewController(client, nil, 20)

	done := make(chan error, 1)
	go func() { done <- c.ToggleFavorite(context.Background(), 12) }()

	<-started
	require.True(t, c.IsFavorited(12), "sample must read favorited while the add is in flight")
	require.Equal(t, StatePendingAdd, c.SampleState(12))
	require.Empty(t, c.Records(), "no durable record exists until the server confirms")

	close(release)
	require.NoError(t, <-done)
	require.Equal(t, StateConfirmed, c.SampleState(12))
	require.Len(t, c.Records(), 1)
	require.Equal(t, int64(31), c.Records()[0].ID)
}

func TestToggleFavoriteRevertsOnFailure(t *testing.T) {
	notifier := &recordingNotifier{}
	client := &fakeClient{
		authed: true,
		createFn: func(ctx context.Context, sampleID int64) (*models.Favorite, error) {
			return nil, errors.New("server said no")
		},
	}
	c := NewController(client, notifier, 20)

	err := c.ToggleFavorite(context.Background(), 12)
	require.Error(t, err)
	require.False(t, c.IsFavorited(12))
	require.Equal(t, StateIdle, c.SampleState(12))
	require.Empty(t, c.Records())
	require.Error(t, c.Err())
	require.Len(t, notifier.messages(), 1)
}

func TestRemoveFavoriteHidesBeforeSettling(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	client := &fakeClient{
		authed: true,
		listFn: staticPage([]models.Favorite{{ID: 31, SampleID: 12}}, false),
		deleteFn: func(ctx context.Context, favoriteID int64) error {
			close(started)
			<-release
			return nil
		},
	}
	c := NewController(client, nil, 20)
	require.NoError(t, c.Load(context.Background(), 1))

	done := make(chan error, 1)
	go func() { done <- c.RemoveFavorite(context.Background(), 31) }()

	<-started
	require.Empty(t, c.Records(), "record must disappear before the delete settles")
	require.False(t, c.IsFavorited(12))
	require.Equal(t, StatePendingRemove, c.SampleState(12))

	close(release)
	require.NoError(t, <-done)
	require.Equal(t, StateIdle, c.SampleState(12))
}

func TestRemoveFavoriteRestoresSnapshotOnFailure(t *testing.T) {
	notifier := &recordingNotifier{}
	client := &fakeClient{
		authed: true,
		listFn: staticPage([]models.Favorite{
			{ID: 31, SampleID: 12},
			{ID: 30, SampleID: 11},
		}, false),
		deleteFn: func(ctx context.Context, favoriteID int64) error {
			return errors.New("server said no")
		},
	}
	c := NewController(client, notifier, 20)
	require.NoError(t, c.Load(context.Background(), 1))

	err := c.RemoveFavorite(context.Background(), 31)
	require.Error(t, err)

	records := c.Records()
	require.Len(t, records, 2)
	require.Equal(t, int64(31), records[0].ID, "failed removal must restore the exact prior collection")
	require.True(t, c.IsFavorited(12))
	require.Equal(t, StateConfirmed, c.SampleState(12))
	require.Len(t, notifier.messages(), 1)
}

func TestRemoveFavoriteUnknownRecord(t *testing.T) {
	client := &fakeClient{authed: true}
	c := NewController(client, nil, 20)

	err := c.RemoveFavorite(context.Background(), 99)
	require.ErrorIs(t, err, ErrNotFavorited)
}

func TestDoubleToggleSettlesAsAddThenRemove(t *testing.T) {
	createStarted := make(chan struct{})
	createRelease := make(chan struct{})
	var deleted atomic.Int64
	client := &fakeClient{
		authed: true,
		createFn: func(ctx context.Context, sampleID int64) (*models.Favorite, error) {
			close(createStarted)
			<-createRelease
			return &models.Favorite{ID: 31, SampleID: sampleID}, nil
		},
		deleteFn: func(ctx context.Context, favoriteID int64) error {
			deleted.Store(favoriteID)
			return nil
		},
	}
	c := NewController(client, nil, 20)

	first := make(chan error, 1)
	go func() { first <- c.ToggleFavorite(context.Background(), 12) }()
	<-createStarted

	// The second toggle must queue behind the in-flight add rather than
	// racing it.
	second := make(chan error, 1)
	go func() { second <- c.ToggleFavorite(context.Background(), 12) }()

	select {
	case err := <-second:
		t.Fatalf("second toggle settled before the first: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	close(createRelease)
	require.NoError(t, <-first)
	require.NoError(t, <-second)

	require.Equal(t, int64(31), deleted.Load(), "second toggle must delete the record the first one created")
	require.False(t, c.IsFavorited(12))
	require.Empty(t, c.Records())
}

func TestToggleThenRemoveRace(t *testing.T) {
	var created atomic.Int64
	client := &fakeClient{
		authed: true,
		createFn: func(ctx context.Context, sampleID int64) (*models.Favorite, error) {
			id := created.Add(1)
			return &models.Favorite{ID: id, SampleID: sampleID}, nil
		},
		deleteFn: func(ctx context.Context, favoriteID int64) error { return nil },
	}
	c := NewController(client, nil, 20)

	require.NoError(t, c.ToggleFavorite(context.Background(), 12))
	require.NoError(t, c.RemoveFavorite(context.Background(), 1))

	// The record is already gone; a second removal reports it.
	require.ErrorIs(t, c.RemoveFavorite(context.Background(), 1), ErrNotFavorited)
}

func TestLoadDropsInFlightRemove(t *testing.T) {
	deleteStarted := make(chan struct{})
	deleteRelease := make(chan struct{})
	client := &fakeClient{
		authed: true,
		listFn: staticPage([]models.Favorite{{ID: 31, SampleID: 12}}, false),
		deleteFn: func(ctx context.Context, favoriteID int64) error {
			close(deleteStarted)
			<-deleteRelease
			return nil
		},
	}
	c := NewController(client, nil, 20)
	require.NoError(t, c.Load(context.Background(), 1))

	done := make(chan error, 1)
	go func() { done <- c.RemoveFavorite(context.Background(), 31) }()
	<-deleteStarted

	// The server still lists the record while its delete is in flight; a
	// reload must not take it back.
	require.NoError(t, c.Load(context.Background(), 1))
	require.Empty(t, c.Records())
	require.False(t, c.IsFavorited(12))

	close(deleteRelease)
	require.NoError(t, <-done)
	require.Empty(t, c.Records(), "settled removal must leave no stale record behind")
	require.Equal(t, StateIdle, c.SampleState(12))
}

func TestLoadKeepsInFlightAdd(t *testing.T) {
	createStarted := make(chan struct{})
	createRelease := make(chan struct{})
	client := &fakeClient{
		authed: true,
		listFn: staticPage(nil, false),
		createFn: func(ctx context.Context, sampleID int64) (*models.Favorite, error) {
			close(createStarted)
			<-createRelease
			return &models.Favorite{ID: 31, SampleID: sampleID}, nil
		},
	}
	c := NewController(client, nil, 20)

	done := make(chan error, 1)
	go func() { done <- c.ToggleFavorite(context.Background(), 12) }()
	<-createStarted

	// A reload that races the add must not wipe the pending entry.
	require.NoError(t, c.Load(context.Background(), 1))
	require.True(t, c.IsFavorited(12))

	close(createRelease)
	require.NoError(t, <-done)
	require.Equal(t, StateConfirmed, c.SampleState(12))
}
