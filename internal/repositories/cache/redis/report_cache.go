// Package redis holds the Redis-backed report cache.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
)

const generationKeyPrefix = "gl:gen:"

// ErrGenerationStale is returned by Generation while a tenant's bump is
// still outstanding. Callers treat it like any read failure and skip the
// cache.
var ErrGenerationStale = errors.New("report generation bump outstanding")

// ReportCache stores serialised reports in Redis. Staleness is bounded by
// the generation counter and, as a backstop, by the TTL.
//
// A tenant whose Invalidate failed is held as pending. Until a later bump
// succeeds its reports bypass the cache, so a commit is never followed by
// reads of the previous generation from this process.
type ReportCache struct {
	client redis.Cmdable
	ttl    time.Duration

	mu      sync.Mutex
	pending map[string]struct{}
}

var _ portsrepo.ReportCache = (*ReportCache)(nil)

// NewReportCache wraps client. A zero ttl keeps entries until evicted.
func NewReportCache(client redis.Cmdable, ttl time.Duration) *ReportCache {
	return &ReportCache{client: client, ttl: ttl, pending: make(map[string]struct{})}
}

// NewClient connects to the Redis server described by url and verifies the
// connection.
func NewClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

func generationKey(tenantID string) string {
	return generationKeyPrefix + tenantID
}

func (c *ReportCache) isPending(tenantID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.pending[tenantID]
	return ok
}

func (c *ReportCache) setPending(tenantID string, pending bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if pending {
		c.pending[tenantID] = struct{}{}
	} else {
		delete(c.pending, tenantID)
	}
}

// Generation returns the tenant's current generation. A pending tenant
// first retries the outstanding bump and reports ErrGenerationStale while
// that keeps failing.
func (c *ReportCache) Generation(ctx context.Context, tenantID string) (int64, error) {
	if c.isPending(tenantID) {
		gen, err := c.bump(ctx, tenantID)
		if err != nil {
			return 0, fmt.Errorf("%w for tenant %s: %v", ErrGenerationStale, tenantID, err)
		}
		return gen, nil
	}

	gen, err := c.client.Get(ctx, generationKey(tenantID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read generation for tenant %s: %w", tenantID, err)
	}
	return gen, nil
}

func (c *ReportCache) Invalidate(ctx context.Context, tenantID string) error {
	if _, err := c.bump(ctx, tenantID); err != nil {
		return fmt.Errorf("failed to bump generation for tenant %s: %w", tenantID, err)
	}
	return nil
}

// bump increments the generation, tracking the tenant as pending until an
// increment lands.
func (c *ReportCache) bump(ctx context.Context, tenantID string) (int64, error) {
	gen, err := c.client.Incr(ctx, generationKey(tenantID)).Result()
	if err != nil {
		c.setPending(tenantID, true)
		return 0, err
	}
	c.setPending(tenantID, false)
	return gen, nil
}

func (c *ReportCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}

func (c *ReportCache) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, string(raw), c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}
