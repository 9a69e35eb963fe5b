package schedule

import (
	"context"
	"fmt"
	"testing"
	"time"

	"droply/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIntervalCache struct {
	entries     map[string][]models.OpenInterval
	hits        int
	invalidated int
}

func newFakeIntervalCache() *fakeIntervalCache {
	return &fakeIntervalCache{entries: make(map[string][]models.OpenInterval)}
}

func (c *fakeIntervalCache) key(providerID string, from, to time.Time) string {
	return fmt.Sprintf("%s:%d:%d", providerID, from.Unix(), to.Unix())
}

func (c *fakeIntervalCache) Get(ctx context.Context, providerID string, from, to time.Time) ([]models.OpenInterval, bool) {
	intervals, ok := c.entries[c.key(providerID, from, to)]
	if ok {
		c.hits++
	}
	return intervals, ok
}

func (c *fakeIntervalCache) Set(ctx context.Context, providerID string, from, to time.Time, intervals []models.OpenInterval) {
	c.entries[c.key(providerID, from, to)] = intervals
}

func (c *fakeIntervalCache) Invalidate(ctx context.Context, providerID string) {
	c.invalidated++
	c.entries = make(map[string][]models.OpenInterval)
}

func TestOpenIntervalsServesCachedListing(t *testing.T) {
	svc, _, _, availability := newTestService("UTC")
	cache := newFakeIntervalCache()
	svc.Cache = cache
	ctx := context.Background()

	require.NoError(t, svc.SetRules(ctx, testProviderID, []models.AvailabilityRule{
		{ProviderID: testProviderID, Weekday: time.Monday, StartMinute: 540, EndMinute: 1020},
	}))

	from := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)

	first, err := svc.OpenIntervals(ctx, testProviderID, from, to)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Zero(t, cache.hits)
	assert.Len(t, cache.entries, 1)

	// The second read is served from the cache: dropping the rules behind
	// the service's back does not change the listing until invalidation.
	availability.rules = nil
	second, err := svc.OpenIntervals(ctx, testProviderID, from, to)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, cache.hits)
}

func TestScheduleWritesInvalidateCachedListing(t *testing.T) {
	svc, _, _, _ := newTestService("UTC")
	cache := newFakeIntervalCache()
	svc.Cache = cache
	ctx := context.Background()

	require.NoError(t, svc.SetRules(ctx, testProviderID, []models.AvailabilityRule{
		{ProviderID: testProviderID, Weekday: time.Monday, StartMinute: 540, EndMinute: 1020},
	}))

	from := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)

	intervals, err := svc.OpenIntervals(ctx, testProviderID, from, to)
	require.NoError(t, err)
	require.Len(t, intervals, 1)

	// Replacing the rules drops the cached listing; the next read reflects
	// the new schedule.
	require.NoError(t, svc.SetRules(ctx, testProviderID, []models.AvailabilityRule{
		{ProviderID: testProviderID, Weekday: time.Tuesday, StartMinute: 540, EndMinute: 1020},
	}))
	assert.Empty(t, cache.entries)

	intervals, err = svc.OpenIntervals(ctx, testProviderID, from, to)
	require.NoError(t, err)
	assert.Empty(t, intervals)

	// Blacking out part of a day invalidates too.
	require.NoError(t, svc.AddException(ctx, &models.AvailabilityException{
		ProviderID: testProviderID,
		Start:      time.Date(2024, 6, 4, 12, 0, 0, 0, time.UTC),
		End:        time.Date(2024, 6, 4, 13, 0, 0, 0, time.UTC),
	}))
	assert.Empty(t, cache.entries)
	assert.GreaterOrEqual(t, cache.invalidated, 3)
}
