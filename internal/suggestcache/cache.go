// Package suggestcache caches spell-check reports in Redis. Keys include the
// vocabulary generation, so any ingestion makes older entries unreachable
// and they age out through their TTL.
package suggestcache

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Adithya-Monish-Kumar-K/Card-Text-Analytics/internal/textindex/fuzzy"
	"github.com/Adithya-Monish-Kumar-K/Card-Text-Analytics/internal/textindex/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/Card-Text-Analytics/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/Card-Text-Analytics/pkg/tracing"
)

const keyPrefix = "spell:"

// Store is the subset of the Redis client the cache needs.
type Store interface {
	GetJSON(ctx context.Context, key string, dst any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) (int64, error)
}

// Cache is safe for concurrent use. A nil *Cache computes every report
// directly.
type Cache struct {
	store   Store
	ttl     time.Duration
	group   singleflight.Group
	metrics *metrics.Metrics
	logger  *slog.Logger
	hits    atomic.Int64
	misses  atomic.Int64
}

func New(store Store, ttl time.Duration, m *metrics.Metrics) *Cache {
	return &Cache{
		store:   store,
		ttl:     ttl,
		metrics: m,
		logger:  slog.Default().With("component", "suggest-cache"),
	}
}

func (c *Cache) get(ctx context.Context, key string) (fuzzy.Report, bool) {
	var report fuzzy.Report
	found, err := c.store.GetJSON(ctx, key, &report)
	if err != nil {
		c.logger.Error("cache get failed", "key", key, "error", err)
	}
	if err != nil || !found {
		c.misses.Add(1)
		if c.metrics != nil {
			c.metrics.CacheMissesTotal.Inc()
		}
		return fuzzy.Report{}, false
	}
	c.hits.Add(1)
	if c.metrics != nil {
		c.metrics.CacheHitsTotal.Inc()
	}
	c.logger.Debug("cache hit", "key", key)
	return report, true
}

// GetOrCompute returns the cached report for word at the given vocabulary
// generation, or runs compute and stores its result. Concurrent misses for
// the same key share one compute call. Errors from compute are not cached.
// The returned bool reports a cache hit.
func (c *Cache) GetOrCompute(
	ctx context.Context,
	word string,
	generation uint64,
	compute func() (fuzzy.Report, error),
) (fuzzy.Report, bool, error) {
	if c == nil {
		report, err := compute()
		return report, false, err
	}

	key := buildKey(word, generation)
	_, span := tracing.Start(ctx, "suggestcache.get")
	report, ok := c.get(ctx, key)
	span.SetAttr("hit", ok)
	span.End()
	if ok {
		report.Word = word
		return report, true, nil
	}
	val, err, _ := c.group.Do(key, func() (any, error) {
		report, err := compute()
		if err != nil {
			return nil, err
		}
		if err := c.store.SetJSON(ctx, key, report, c.ttl); err != nil {
			c.logger.Error("cache set failed", "key", key, "error", err)
		}
		return report, nil
	})
	if err != nil {
		return fuzzy.Report{}, false, err
	}
	report = val.(fuzzy.Report)
	report.Word = word
	return report, false, nil
}

// Invalidate deletes every cached report.
func (c *Cache) Invalidate(ctx context.Context) error {
	if c == nil {
		return nil
	}
	deleted, err := c.store.DeleteByPattern(ctx, keyPrefix+"*")
	if err != nil {
		return fmt.Errorf("invalidating suggest cache: %w", err)
	}
	c.logger.Info("cache invalidate", "keys_deleted", deleted)
	return nil
}

func (c *Cache) Stats() (hits, misses int64) {
	if c == nil {
		return 0, 0
	}
	return c.hits.Load(), c.misses.Load()
}

func buildKey(word string, generation uint64) string {
	hash := sha256.Sum256([]byte(tokenizer.NormalizeQuery(word)))
	return fmt.Sprintf("%sg%d:%x", keyPrefix, generation, hash[:16])
}
