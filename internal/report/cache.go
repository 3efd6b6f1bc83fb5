package report

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Cache provides versioned redis caching for generated-file listings. Every
// persisted artifact bumps the report's cache version, invalidating keys
// without explicit deletes. A cache outage degrades to direct queries.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache instantiates the cache helper.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func versionKey(reportID uuid.UUID) string {
	return fmt.Sprintf("report:%s:files:version", reportID)
}

func (c *Cache) version(ctx context.Context, reportID uuid.UUID) (int64, error) {
	ver, err := c.client.Get(ctx, versionKey(reportID)).Int64()
	if err == redis.Nil {
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	return ver, nil
}

// Bump invalidates all cached listings for the report.
func (c *Cache) Bump(ctx context.Context, reportID uuid.UUID) {
	if c == nil || c.client == nil {
		return
	}
	_ = c.client.Incr(ctx, versionKey(reportID)).Err()
}

// FileSummaries loads a cached listing or populates it via the loader.
func (c *Cache) FileSummaries(
	ctx context.Context,
	reportID uuid.UUID,
	environment string,
	limit, offset int,
	load func(context.Context) ([]FileSummary, error),
) ([]FileSummary, error) {
	if c == nil || c.client == nil {
		return load(ctx)
	}
	ver, err := c.version(ctx, reportID)
	if err != nil {
		return load(ctx)
	}
	key := fmt.Sprintf("report:%s:files:%s:%d:%d:v%d", reportID, environment, limit, offset, ver)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var cached []FileSummary
		if err := json.Unmarshal(payload, &cached); err == nil {
			return cached, nil
		}
	}

	summaries, err := load(ctx)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(summaries); err == nil {
		_ = c.client.Set(ctx, key, raw, c.ttl).Err()
	}
	return summaries, nil
}
