package activity

import (
	"context"
	"slices"
	"sync"
)

// RecentFeed is a hook that keeps the latest events in memory, newest first.
type RecentFeed struct {
	mu       sync.RWMutex
	capacity int
	events   []Event
}

// NewRecentFeed keeps at most capacity events.
func NewRecentFeed(capacity int) *RecentFeed {
	if capacity <= 0 {
		capacity = 50
	}
	return &RecentFeed{capacity: capacity}
}

// Notify records evt.
func (f *RecentFeed) Notify(_ context.Context, evt Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append([]Event{evt}, f.events...)
	if len(f.events) > f.capacity {
		f.events = f.events[:f.capacity]
	}
	return nil
}

// Recent returns up to limit events; a non-positive limit returns all.
func (f *RecentFeed) Recent(_ context.Context, limit int) ([]Event, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if limit <= 0 || limit > len(f.events) {
		limit = len(f.events)
	}
	out := slices.Clone(f.events[:limit])
	for i := range out {
		out[i] = NormalizeEvent(out[i])
	}
	return out, nil
}
