package report

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client, time.Minute), mr
}

func TestFileSummariesCachesLoaderResult(t *testing.T) {
	cache, _ := newTestCache(t)
	reportID := uuid.New()

	calls := 0
	load := func(context.Context) ([]FileSummary, error) {
		calls++
		return []FileSummary{{ID: uuid.New(), Filename: "run-1.csv"}}, nil
	}

	first, err := cache.FileSummaries(context.Background(), reportID, "production", 25, 0, load)
	require.NoError(t, err)
	require.Len(t, first, 1)
	require.Equal(t, 1, calls)

	second, err := cache.FileSummaries(context.Background(), reportID, "production", 25, 0, load)
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 1, calls)
}

func TestFileSummariesKeyedByPageAndEnvironment(t *testing.T) {
	cache, _ := newTestCache(t)
	reportID := uuid.New()

	calls := 0
	load := func(context.Context) ([]FileSummary, error) {
		calls++
		return nil, nil
	}

	_, err := cache.FileSummaries(context.Background(), reportID, "production", 25, 0, load)
	require.NoError(t, err)
	_, err = cache.FileSummaries(context.Background(), reportID, "staging", 25, 0, load)
	require.NoError(t, err)
	_, err = cache.FileSummaries(context.Background(), reportID, "production", 25, 25, load)
	require.NoError(t, err)
	require.Equal(t, 3, calls)
}

func TestBumpInvalidatesCachedListings(t *testing.T) {
	cache, _ := newTestCache(t)
	reportID := uuid.New()

	calls := 0
	load := func(context.Context) ([]FileSummary, error) {
		calls++
		return []FileSummary{{Filename: "run.csv"}}, nil
	}

	_, err := cache.FileSummaries(context.Background(), reportID, "production", 25, 0, load)
	require.NoError(t, err)
	require.Equal(t, 1, calls)

	cache.Bump(context.Background(), reportID)

	_, err = cache.FileSummaries(context.Background(), reportID, "production", 25, 0, load)
	require.NoError(t, err)
	require.Equal(t, 2, calls)
}

func TestFileSummariesDegradesOnOutage(t *testing.T) {
	cache, mr := newTestCache(t)
	reportID := uuid.New()
	mr.Close()

	got, err := cache.FileSummaries(context.Background(), reportID, "production", 25, 0,
		func(context.Context) ([]FileSummary, error) {
			return []FileSummary{{Filename: "direct.csv"}}, nil
		})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "direct.csv", got[0].Filename)
}

func TestNilCacheIsSafe(t *testing.T) {
	var cache *Cache
	cache.Bump(context.Background(), uuid.New())

	got, err := cache.FileSummaries(context.Background(), uuid.New(), "production", 25, 0,
		func(context.Context) ([]FileSummary, error) {
			return []FileSummary{{Filename: "x.csv"}}, nil
		})
	require.NoError(t, err)
	require.Len(t, got, 1)
}
