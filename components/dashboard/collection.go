package dashboard

import (
	"context"
	"slices"
	"sync"
	"time"
)

// LoaderFunc fetches the full contents of a collection.
type LoaderFunc[T any] func(ctx context.Context) ([]T, error)

// CollectionState is a snapshot of a collection and its fetch status.
type CollectionState[T any] struct {
	Items     []T
	Loading   bool
	Err       error
	FetchedAt time.Time
}

// Collection holds one fetched resource. Refresh replaces every item on
// success and keeps the previous items on failure. Overlapping refreshes are
// not sequenced: whichever response resolves last is kept.
type Collection[T any] struct {
	name     Resource
	load     LoaderFunc[T]
	now      func() time.Time
	mu       sync.RWMutex
	items    []T
	inflight int
	err      error
	fetched  time.Time
}

// NewCollection wires a loader to a named collection.
func NewCollection[T any](name Resource, load LoaderFunc[T]) *Collection[T] {
	return &Collection[T]{name: name, load: load, now: time.Now}
}

// Name returns the resource name.
func (c *Collection[T]) Name() Resource {
	return c.name
}

// Refresh calls the loader and applies its result.
func (c *Collection[T]) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.inflight++
	c.mu.Unlock()

	items, err := c.load(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight--
	if err != nil {
		c.err = err
		return err
	}
	c.items = items
	c.err = nil
	c.fetched = c.now()
	return nil
}

// Ensure refreshes the collection when it was never fetched successfully.
func (c *Collection[T]) Ensure(ctx context.Context) error {
	c.mu.RLock()
	fetched := !c.fetched.IsZero()
	c.mu.RUnlock()
	if fetched {
		return nil
	}
	return c.Refresh(ctx)
}

// State returns a copy of the current items and status.
func (c *Collection[T]) State() CollectionState[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return CollectionState[T]{
		Items:     slices.Clone(c.items),
		Loading:   c.inflight > 0,
		Err:       c.err,
		FetchedAt: c.fetched,
	}
}

// Items returns a copy of the current items.
func (c *Collection[T]) Items() []T {
	return c.State().Items
}
