package dashboard

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChartCacheStoresEntry(t *testing.T) {
	cache := NewChartCache(time.Minute)
	calls := 0
	render := func() (string, error) {
		calls++
		return "<div>chart</div>", nil
	}

	first, err := cache.GetOrRender("sales.trend:line", render)
	require.NoError(t, err)
	second, err := cache.GetOrRender("sales.trend:line", render)
	require.NoError(t, err)

	assert.Equal(t, "<div>chart</div>", first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, cache.Len())
}

func TestChartCacheExpiresAndPurges(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	cache := NewChartCache(time.Minute)
	cache.now = func() time.Time { return now }
	calls := 0
	render := func() (string, error) {
		calls++
		return "fresh", nil
	}

	_, err := cache.GetOrRender("key", render)
	require.NoError(t, err)
	now = now.Add(2 * time.Minute)
	_, err = cache.GetOrRender("key", render)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)

	assert.Equal(t, 1, cache.Purge())
	assert.Equal(t, 0, cache.Len())
}

func TestChartCacheSkipsFailedRenders(t *testing.T) {
	cache := NewChartCache(time.Minute)
	_, err := cache.GetOrRender("key", func() (string, error) { return "", errors.New("boom") })
	require.Error(t, err)
	assert.Zero(t, cache.Len())
}

func TestChartCacheDisabledWithoutTTL(t *testing.T) {
	cache := NewChartCache(0)
	calls := 0
	for range 3 {
		_, _ = cache.GetOrRender("key", func() (string, error) { calls++; return "x", nil })
	}
	assert.Equal(t, 3, calls)
}

func TestSeriesDigestTracksFigures(t *testing.T) {
	a := ChartSpec{Series: []ChartSeries{{Name: "Revenus", Points: []ChartPoint{{Label: "Jan", Value: 10}}}}}
	b := ChartSpec{Series: []ChartSeries{{Name: "Revenus", Points: []ChartPoint{{Label: "Jan", Value: 11}}}}}
	assert.Equal(t, "empty", seriesDigest(ChartSpec{}))
	assert.Equal(t, seriesDigest(a), seriesDigest(a))
	assert.NotEqual(t, seriesDigest(a), seriesDigest(b))
}
