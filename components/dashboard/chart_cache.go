package dashboard

import (
	"encoding/json"
	"hash/fnv"
	"strconv"
	"sync"
	"time"
)

// RenderCache memoizes rendered chart HTML.
type RenderCache interface {
	GetOrRender(key string, render func() (string, error)) (string, error)
}

// ChartCache keeps rendered chart HTML for a TTL. Keys carry a digest of the
// plotted figures, so a re-queried collection with unchanged numbers still
// hits. A non-positive TTL disables caching.
type ChartCache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]chartEntry
}

type chartEntry struct {
	html    string
	expires time.Time
}

// NewChartCache builds a cache whose entries live for ttl.
func NewChartCache(ttl time.Duration) *ChartCache {
	return &ChartCache{ttl: ttl, now: time.Now, entries: map[string]chartEntry{}}
}

func (c *ChartCache) enabled() bool {
	return c != nil && c.ttl > 0
}

// GetOrRender serves a live entry or renders and stores a new one. Render
// errors are not cached.
func (c *ChartCache) GetOrRender(key string, render func() (string, error)) (string, error) {
	if !c.enabled() {
		return render()
	}
	now := c.now()
	c.mu.Lock()
	entry, ok := c.entries[key]
	if ok && now.Before(entry.expires) {
		c.mu.Unlock()
		return entry.html, nil
	}
	delete(c.entries, key)
	c.mu.Unlock()

	html, err := render()
	if err != nil {
		return "", err
	}
	c.mu.Lock()
	c.entries[key] = chartEntry{html: html, expires: now.Add(c.ttl)}
	c.mu.Unlock()
	return html, nil
}

// Purge drops every render and returns how many were stored. The service
// calls it after each invalidation.
func (c *ChartCache) Purge() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.entries)
	c.entries = map[string]chartEntry{}
	return n
}

// Len returns the number of stored renders, expired ones included.
func (c *ChartCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// seriesDigest fingerprints the figures of a chart.
func seriesDigest(spec ChartSpec) string {
	if len(spec.Series) == 0 {
		return "empty"
	}
	raw, err := json.Marshal(spec)
	if err != nil {
		return "invalid"
	}
	h := fnv.New64a()
	_, _ = h.Write(raw)
	return strconv.FormatUint(h.Sum64(), 36)
}
