package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/printshop/backend/internal/domain/billing"
	"github.com/printshop/backend/internal/infrastructure/config"
)

// limitsKey is the cache key for the effective limits snapshot
const limitsKey = "printshop:limits:current"

// LimitsCache caches the effective quota limits. Limits change rarely
// but are read on every print event, so a short-TTL snapshot avoids
// re-reading the settings log per request.
type LimitsCache interface {
	// Get returns the cached limits, or false if absent/expired
	Get(ctx context.Context) (billing.Limits, bool)

	// Set stores a limits snapshot
	Set(ctx context.Context, limits billing.Limits)

	// Invalidate drops the cached snapshot (after a limits update)
	Invalidate(ctx context.Context)
}

// cachedLimits is the serialized cache payload
type cachedLimits struct {
	DailyLimit  int       `json:"daily_limit"`
	WeeklyLimit int       `json:"weekly_limit"`
	UnitCost    string    `json:"unit_cost"`
	ApplyToAll  bool      `json:"apply_to_all"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toPayload(l billing.Limits) cachedLimits {
	return cachedLimits{
		DailyLimit:  l.DailyLimit,
		WeeklyLimit: l.WeeklyLimit,
		UnitCost:    l.UnitCost.StringFixed(4),
		ApplyToAll:  l.ApplyToAll,
		UpdatedAt:   l.UpdatedAt,
	}
}

func fromPayload(p cachedLimits) (billing.Limits, error) {
	cost, err := billing.ParseCostValue(p.UnitCost)
	if err != nil {
		return billing.Limits{}, err
	}
	return billing.Limits{
		DailyLimit:  p.DailyLimit,
		WeeklyLimit: p.WeeklyLimit,
		UnitCost:    cost,
		ApplyToAll:  p.ApplyToAll,
		UpdatedAt:   p.UpdatedAt,
	}, nil
}

// RedisLimitsCache stores the limits snapshot in Redis so several
// instances share one view
type RedisLimitsCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisLimitsCache creates a Redis-backed limits cache
func NewRedisLimitsCache(cfg config.RedisConfig, ttl time.Duration, logger *zap.Logger) (*RedisLimitsCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisLimitsCache{client: client, ttl: ttl, logger: logger}, nil
}

// Get returns the cached limits, or false if absent/expired
func (c *RedisLimitsCache) Get(ctx context.Context) (billing.Limits, bool) {
	data, err := c.client.Get(ctx, limitsKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("limits cache read failed", zap.Error(err))
		}
		return billing.Limits{}, false
	}

	var payload cachedLimits
	if err := json.Unmarshal(data, &payload); err != nil {
		c.logger.Warn("limits cache payload corrupt", zap.Error(err))
		return billing.Limits{}, false
	}

	limits, err := fromPayload(payload)
	if err != nil {
		c.logger.Warn("limits cache payload invalid", zap.Error(err))
		return billing.Limits{}, false
	}
	return limits, true
}

// Set stores a limits snapshot
func (c *RedisLimitsCache) Set(ctx context.Context, limits billing.Limits) {
	data, err := json.Marshal(toPayload(limits))
	if err != nil {
		c.logger.Warn("limits cache marshal failed", zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, limitsKey, data, c.ttl).Err(); err != nil {
		c.logger.Warn("limits cache write failed", zap.Error(err))
	}
}

// Invalidate drops the cached snapshot
func (c *RedisLimitsCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, limitsKey).Err(); err != nil {
		c.logger.Warn("limits cache invalidation failed", zap.Error(err))
	}
}

// Close releases the Redis client
func (c *RedisLimitsCache) Close() error {
	return c.client.Close()
}

// InMemoryLimitsCache is a single-process fallback used when Redis is
// disabled or unreachable
type InMemoryLimitsCache struct {
	mu        sync.RWMutex
	limits    billing.Limits
	hasValue  bool
	expiresAt time.Time
	ttl       time.Duration
}

// NewInMemoryLimitsCache creates an in-memory limits cache
func NewInMemoryLimitsCache(ttl time.Duration) *InMemoryLimitsCache {
	return &InMemoryLimitsCache{ttl: ttl}
}

// Get returns the cached limits, or false if absent/expired
func (c *InMemoryLimitsCache) Get(_ context.Context) (billing.Limits, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.hasValue || time.Now().After(c.expiresAt) {
		return billing.Limits{}, false
	}
	return c.limits, true
}

// Set stores a limits snapshot
func (c *InMemoryLimitsCache) Set(_ context.Context, limits billing.Limits) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.limits = limits
	c.hasValue = true
	c.expiresAt = time.Now().Add(c.ttl)
}

// Invalidate drops the cached snapshot
func (c *InMemoryLimitsCache) Invalidate(_ context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hasValue = false
}

// NewLimitsCache builds the configured cache: Redis when enabled and
// reachable, in-memory otherwise.
func NewLimitsCache(cfg config.RedisConfig, ttl time.Duration, logger *zap.Logger) LimitsCache {
	if cfg.Enabled {
		redisCache, err := NewRedisLimitsCache(cfg, ttl, logger)
		if err == nil {
			return redisCache
		}
		logger.Warn("redis unavailable, using in-memory limits cache", zap.Error(err))
	}
	return NewInMemoryLimitsCache(ttl)
}

var (
	_ LimitsCache = (*RedisLimitsCache)(nil)
	_ LimitsCache = (*InMemoryLimitsCache)(nil)
)
