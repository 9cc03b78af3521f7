package services

import (
	"context"
	"sync"
	"time"

	"github.com/iteka-youth/site-backend/logger"
	"github.com/redis/go-redis/v9"
)

// RateLimiterInterface defines the contract for rate limiting operations.
type RateLimiterInterface interface {
	Allow(ctx context.Context, key string) (bool, time.Duration, error)
}

// CounterStore increments a per-key counter inside a fixed window and
// reports the new count together with the time left until the window resets.
type CounterStore interface {
	Increment(ctx context.Context, key string, window time.Duration) (count int64, retryAfter time.Duration, err error)
}

// RateLimitService caps accepted operations per client key to a fixed number
// within a recurring window. Counter state lives in the injected store: the
// in-memory store is scoped to a single process instance (quotas silently
// reset on restart), the Redis store is shared across instances.
type RateLimitService struct {
	store  CounterStore
	limit  int
	window time.Duration
}

var _ RateLimiterInterface = (*RateLimitService)(nil)

func NewRateLimitService(store CounterStore, limit int, window time.Duration) *RateLimitService {
	return &RateLimitService{
		store:  store,
		limit:  limit,
		window: window,
	}
}

// Allow consumes one operation for the given key. It returns false with a
// retry-after hint once the key exceeds the configured limit. Store errors
// fail open so the API stays available if the counter backend is down.
func (s *RateLimitService) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	count, retryAfter, err := s.store.Increment(ctx, key, s.window)
	if err != nil {
		logger.GetLogger().Errorw("Rate limit store failure, allowing request",
			"key", key, "error", err)
		return true, 0, err
	}

	if count > int64(s.limit) {
		return false, retryAfter, nil
	}
	return true, 0, nil
}

type windowCounter struct {
	count     int64
	windowEnd time.Time
}

// MemoryCounterStore is a mutex-guarded fixed-window counter map. The clock
// is injectable for deterministic tests.
type MemoryCounterStore struct {
	mu       sync.Mutex
	counters map[string]*windowCounter
	now      func() time.Time
}

func NewMemoryCounterStore() *MemoryCounterStore {
	return &MemoryCounterStore{
		counters: make(map[string]*windowCounter),
		now:      time.Now,
	}
}

// NewMemoryCounterStoreWithClock returns a store that reads time from the
// given function instead of the wall clock.
func NewMemoryCounterStoreWithClock(now func() time.Time) *MemoryCounterStore {
	return &MemoryCounterStore{
		counters: make(map[string]*windowCounter),
		now:      now,
	}
}

func (s *MemoryCounterStore) Increment(_ context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	entry, ok := s.counters[key]
	if !ok || !now.Before(entry.windowEnd) {
		entry = &windowCounter{windowEnd: now.Add(window)}
		s.counters[key] = entry
	}
	entry.count++

	return entry.count, entry.windowEnd.Sub(now), nil
}

// RedisCounterStore implements the fixed-window counter on Redis with an
// INCR+EXPIRE pipeline, sharing quota state across deployed instances.
type RedisCounterStore struct {
	client    *redis.Client
	keyPrefix string
}

func NewRedisCounterStore(client *redis.Client) *RedisCounterStore {
	return &RedisCounterStore{
		client:    client,
		keyPrefix: "rate_limit:",
	}
}

func (s *RedisCounterStore) Increment(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	rKey := s.keyPrefix + key

	// ExpireNX arms the window only on the first increment, so the key
	// keeps a fixed window instead of sliding forward on every request.
	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, rKey)
	pipe.ExpireNX(ctx, rKey, window)
	ttl := pipe.TTL(ctx, rKey)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, 0, err
	}

	retryAfter := ttl.Val()
	if retryAfter < 0 {
		retryAfter = window
	}
	return incr.Val(), retryAfter, nil
}
