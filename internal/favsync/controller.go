// Package favsync keeps a client-local view of the viewer's favorites in
// sync with the favorites endpoints, hiding request latency behind
// optimistic updates.
package favsync

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"sounddrop/shared/models"
)

// State is the per-sample position in the optimistic-update machine.
type State int

const (
	// StateIdle means the sample is not favorited and nothing is in flight.
	StateIdle State = iota
	// StatePendingAdd means an add was issued and has not settled yet.
	StatePendingAdd
	// StateConfirmed means the server holds a durable favorite record.
	StateConfirmed
	// StatePendingRemove means a removal was issued and has not settled yet.
	StatePendingRemove
)

// transitions is the legal-move table. Every state change goes through
// setState, which enforces it.
var transitions = map[State]map[State]bool{
	StateIdle:          {StatePendingAdd: true},
	StatePendingAdd:    {StateConfirmed: true, StateIdle: true},
	StateConfirmed:     {StatePendingRemove: true},
	StatePendingRemove: {StateIdle: true, StateConfirmed: true},
}

// ErrNotFavorited is returned when removing a favorite that is not in the
// local collection.
var ErrNotFavorited = errors.New("sample is not favorited")

// Client performs the favorites REST operations on behalf of the controller.
type Client interface {
	Authenticated() bool
	ListFavorites(ctx context.Context, page, limit int) ([]models.Favorite, models.Pagination, error)
	CreateFavorite(ctx context.Context, sampleID int64) (*models.Favorite, error)
	DeleteFavorite(ctx context.Context, favoriteID int64) error
}

// Notifier surfaces user-visible messages when a mutation fails.
type Notifier interface {
	Notify(msg string)
}

// Controller reconciles local optimistic favorite state with the server.
// It is safe for concurrent use; mutations on the same sample are
// serialized so a double toggle settles as add-then-remove instead of
// racing to a server conflict.
type Controller struct {
	client   Client
	notifier Notifier
	limit    int

	mu      sync.Mutex
	records []models.Favorite
	states  map[int64]State
	page    int
	hasMore bool
	loading bool
	lastErr error

	lockMu      sync.Mutex
	sampleLocks map[int64]*sync.Mutex
}

// NewController builds a Controller over the given client. notifier may be
// nil; pageLimit <= 0 falls back to 20.
func NewController(client Client, notifier Notifier, pageLimit int) *Controller {
	if pageLimit <= 0 {
		pageLimit = 20
	}
	return &Controller{
		client:      client,
		notifier:    notifier,
		limit:       pageLimit,
		states:      make(map[int64]State),
		sampleLocks: make(map[int64]*sync.Mutex),
	}
}

// Load fetches a page of the viewer's favorites. Page 1 (or lower)
// replaces the local collection; later pages append. Without an
// authenticated client it clears local state and does nothing else.
func (c *Controller) Load(ctx context.Context, page int) error {
	if !c.client.Authenticated() {
		c.reset()
		return nil
	}
	if page < 1 {
		page = 1
	}

	records, pagination, err := c.client.ListFavorites(ctx, page, c.limit)
	if err != nil {
		c.mu.Lock()
		c.lastErr = err
		c.mu.Unlock()
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// The server still returns a record whose removal is in flight; taking
	// it back would leave a stale entry once the delete settles.
	incoming := records[:0:0]
	for _, rec := range records {
		if c.states[rec.SampleID] == StatePendingRemove {
			continue
		}
		incoming = append(incoming, rec)
	}

	if page <= 1 {
		c.records = incoming
		// Rebuild confirmed states, keeping any in-flight entries.
		for sampleID, st := range c.states {
			if st == StateConfirmed {
				delete(c.states, sampleID)
			}
		}
	} else {
		c.records = append(c.records, incoming...)
	}
	// Server-confirmed records enter the machine directly; this is a sync
	// from the source of truth, not an optimistic transition.
	for _, rec := range incoming {
		if c.states[rec.SampleID] == StateIdle {
			c.states[rec.SampleID] = StateConfirmed
		}
	}

	c.page = page
	c.hasMore = pagination.HasNextPage
	c.lastErr = nil
	return nil
}

// LoadMore appends the next page. It is a no-op while another load is in
// flight or when the server has no further pages.
func (c *Controller) LoadMore(ctx context.Context) error {
	c.mu.Lock()
	if c.loading || !c.hasMore {
		c.mu.Unlock()
		return nil
	}
	c.loading = true
	next := c.page + 1
	c.mu.Unlock()

	err := c.Load(ctx, next)

	c.mu.Lock()
	c.loading = false
	c.mu.Unlock()
	return err
}

// ToggleFavorite favorites the sample, or unfavorites it when a record
// already exists. The sample reads as favorited the moment the add is
// issued, before the server confirms.
func (c *Controller) ToggleFavorite(ctx context.Context, sampleID int64) error {
	unlock := c.lockSample(sampleID)
	defer unlock()

	c.mu.Lock()
	if rec, ok := c.recordForSample(sampleID); ok {
		c.mu.Unlock()
		return c.removeLocked(ctx, rec.ID, sampleID)
	}
	c.setState(sampleID, StatePendingAdd)
	c.mu.Unlock()

	created, err := c.client.CreateFavorite(ctx, sampleID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.setState(sampleID, StateIdle)
		c.lastErr = err
		c.notify(fmt.Sprintf("could not favorite sample: %v", err))
		return err
	}

	c.records = append([]models.Favorite{*created}, c.records...)
	c.setState(sampleID, StateConfirmed)
	return nil
}

// RemoveFavorite optimistically removes a favorite by its record ID. The
// record disappears from local state before the request is issued; a
// failure restores the exact pre-call snapshot.
func (c *Controller) RemoveFavorite(ctx context.Context, favoriteID int64) error {
	c.mu.Lock()
	var sampleID int64
	found := false
	for _, rec := range c.records {
		if rec.ID == favoriteID {
			sampleID = rec.SampleID
			found = true
			break
		}
	}
	c.mu.Unlock()
	if !found {
		return ErrNotFavorited
	}

	unlock := c.lockSample(sampleID)
	defer unlock()

	// Re-check under the sample lock; a concurrent toggle may have
	// removed it already.
	c.mu.Lock()
	still := false
	for _, rec := range c.records {
		if rec.ID == favoriteID {
			still = true
			break
		}
	}
	c.mu.Unlock()
	if !still {
		return ErrNotFavorited
	}

	return c.removeLocked(ctx, favoriteID, sampleID)
}

// removeLocked performs the optimistic removal. The caller holds the
// sample lock but not c.mu.
func (c *Controller) removeLocked(ctx context.Context, favoriteID, sampleID int64) error {
	c.mu.Lock()
	snapshot := make([]models.Favorite, len(c.records))
	copy(snapshot, c.records)

	kept := c.records[:0:0]
	for _, rec := range c.records {
		if rec.ID != favoriteID {
			kept = append(kept, rec)
		}
	}
	c.records = kept
	c.setState(sampleID, StatePendingRemove)
	c.mu.Unlock()

	err := c.client.DeleteFavorite(ctx, favoriteID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.records = snapshot
		c.setState(sampleID, StateConfirmed)
		c.lastErr = err
		c.notify(fmt.Sprintf("could not remove favorite: %v", err))
		return err
	}

	c.setState(sampleID, StateIdle)
	return nil
}

// IsFavorited reports whether the sample should render as favorited:
// either a durable record exists or an add is in flight.
func (c *Controller) IsFavorited(sampleID int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := c.states[sampleID]
	return st == StateConfirmed || st == StatePendingAdd
}

// SampleState exposes the sample's machine state.
func (c *Controller) SampleState(sampleID int64) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.states[sampleID]
}

// Records returns a copy of the durable local collection, newest first.
func (c *Controller) Records() []models.Favorite {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Favorite, len(c.records))
	copy(out, c.records)
	return out
}

// HasMore reports whether another page can be loaded.
func (c *Controller) HasMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasMore
}

// Err returns the last read or mutation error, cleared by a successful
// Load.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// setState moves a sample through the machine. Callers hold c.mu.
// Illegal moves are dropped; with per-sample serialization they indicate
// a bug in the controller itself, not user input.
func (c *Controller) setState(sampleID int64, to State) {
	from := c.states[sampleID]
	if from == to {
		return
	}
	if !transitions[from][to] {
		return
	}
	if to == StateIdle {
		delete(c.states, sampleID)
		return
	}
	c.states[sampleID] = to
}

func (c *Controller) recordForSample(sampleID int64) (models.Favorite, bool) {
	for _, rec := range c.records {
		if rec.SampleID == sampleID {
			return rec, true
		}
	}
	return models.Favorite{}, false
}

// lockSample serializes mutations per sample ID.
func (c *Controller) lockSample(sampleID int64) func() {
	c.lockMu.Lock()
	lock, ok := c.sampleLocks[sampleID]
	if !ok {
		lock = &sync.Mutex{}
		c.sampleLocks[sampleID] = lock
	}
	c.lockMu.Unlock()

	lock.Lock()
	return lock.Unlock
}

func (c *Controller) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = nil
	c.states = make(map[int64]State)
	c.page = 0
	c.hasMore = false
	c.lastErr = nil
}

func (c *Controller) notify(msg string) {
	if c.notifier != nil {
		c.notifier.Notify(msg)
	}
}
