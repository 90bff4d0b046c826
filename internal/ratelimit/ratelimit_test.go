package ratelimit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiter_FixedWindow(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewMemoryLimiter(3, time.Minute)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := l.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, ok, "request %d should pass", i+1)
	}
	ok, _ := l.Allow(ctx, "1.2.3.4")
	assert.False(t, ok, "fourth request should be limited")

	ok, _ = l.Allow(ctx, "5.6.7.8")
	assert.True(t, ok, "other keys have their own window")

	now = now.Add(time.Minute)
	ok, _ = l.Allow(ctx, "1.2.3.4")
	assert.True(t, ok, "new window resets the count")
}

func TestMemoryLimiter_Concurrent(t *testing.T) {
	l := NewMemoryLimiter(30, time.Minute)
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, _ := l.Allow(ctx, "ip")
			if ok {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 30, allowed)
}

// fakeCounter mimics the Redis keyspace: a key carries a value and a TTL.
type fakeCounter struct {
	counts  map[string]int64
	ttls    map[string]time.Duration
	setErr  error
	incrErr error
}

func newFakeCounter() *fakeCounter {
	return &fakeCounter{counts: map[string]int64{}, ttls: map[string]time.Duration{}}
}

func (f *fakeCounter) SetNX(_ context.Context, key string, _ interface{}, d time.Duration) *redis.BoolCmd {
	if f.setErr != nil {
		return redis.NewBoolResult(false, f.setErr)
	}
	if _, ok := f.counts[key]; ok {
		return redis.NewBoolResult(false, nil)
	}
	f.counts[key] = 0
	f.ttls[key] = d
	return redis.NewBoolResult(true, nil)
}

func (f *fakeCounter) Incr(_ context.Context, key string) *redis.IntCmd {
	if f.incrErr != nil {
		return redis.NewIntResult(0, f.incrErr)
	}
	f.counts[key]++
	return redis.NewIntResult(f.counts[key], nil)
}

func TestRedisLimiter(t *testing.T) {
	fc := newFakeCounter()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewRedisLimiter(fc, "submit", 2, time.Minute)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	ok, err := l.Allow(ctx, "ip")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, _ = l.Allow(ctx, "ip")
	assert.True(t, ok)
	ok, _ = l.Allow(ctx, "ip")
	assert.False(t, ok)

	require.Len(t, fc.ttls, 1, "one key per window")
	for _, d := range fc.ttls {
		assert.Equal(t, time.Minute, d)
	}

	now = now.Add(time.Minute)
	ok, _ = l.Allow(ctx, "ip")
	assert.True(t, ok)
	assert.Len(t, fc.ttls, 2)
}

func TestRedisLimiter_Error(t *testing.T) {
	t.Run("setnx fails", func(t *testing.T) {
		fc := newFakeCounter()
		fc.setErr = errors.New("connection refused")
		l := NewRedisLimiter(fc, "submit", 2, time.Minute)

		_, err := l.Allow(context.Background(), "ip")
		assert.Error(t, err)
		assert.Empty(t, fc.counts, "no counter without a ttl")
	})

	t.Run("incr fails after key creation", func(t *testing.T) {
		fc := newFakeCounter()
		fc.incrErr = errors.New("connection reset")
		l := NewRedisLimiter(fc, "submit", 2, time.Minute)

		_, err := l.Allow(context.Background(), "ip")
		assert.Error(t, err)
		for key := range fc.counts {
			assert.Equal(t, time.Minute, fc.ttls[key], "key %s must expire", key)
		}
	})
}

func TestNewRedisClient_InvalidURL(t *testing.T) {
	_, err := NewRedisClient(context.Background(), "http://localhost:6379")
	assert.ErrorContains(t, err, "invalid redis url")
}
