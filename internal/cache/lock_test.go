package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type memoryStore struct {
	mu     sync.Mutex
	values map[string]string
	getErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{values: map[string]string{}}
}

func (s *memoryStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.values[key]; ok {
		return false, nil
	}
	s.values[key] = value.(string)
	return true, nil
}

func (s *memoryStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return "", s.getErr
	}
	value, ok := s.values[key]
	if !ok {
		return "", redis.Nil
	}
	return value, nil
}

func (s *memoryStore) Del(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.values, key)
	}
	return nil
}

func TestRedisLockExclusive(t *testing.T) {
	store := newMemoryStore()
	first, err := newRedisLock(store, "mk:lock:batch", time.Minute)
	if err != nil {
		t.Fatalf("new lock failed: %v", err)
	}
	second, _ := newRedisLock(store, "mk:lock:batch", time.Minute)
	ctx := context.Background()

	ok, err := first.Acquire(ctx)
	if err != nil || !ok {
		t.Fatalf("first acquire should succeed: ok=%v err=%v", ok, err)
	}
	ok, err = second.Acquire(ctx)
	if err != nil || ok {
		t.Fatalf("second acquire should fail: ok=%v err=%v", ok, err)
	}
	if err := second.Release(ctx); err != nil {
		t.Fatalf("release without ownership should be no-op: %v", err)
	}
	if _, exists := store.values["mk:lock:batch"]; !exists {
		t.Fatalf("non-owner must not delete the lock")
	}
	if err := first.Release(ctx); err != nil {
		t.Fatalf("release failed: %v", err)
	}
	ok, _ = second.Acquire(ctx)
	if !ok {
		t.Fatalf("lock should be free after release")
	}
}

func TestRedisLockReleaseKeepsForeignOwner(t *testing.T) {
	store := newMemoryStore()
	lock, _ := newRedisLock(store, "mk:lock:batch", time.Minute)
	ctx := context.Background()
	if ok, _ := lock.Acquire(ctx); !ok {
		t.Fatalf("acquire failed")
	}
	store.values["mk:lock:batch"] = "someone-else"
	if err := lock.Release(ctx); err != nil {
		t.Fatalf("release failed: %v", err)
	}
	if store.values["mk:lock:batch"] != "someone-else" {
		t.Fatalf("foreign owner must be kept")
	}
}

func TestRedisLockReleaseReadError(t *testing.T) {
	store := newMemoryStore()
	lock, _ := newRedisLock(store, "mk:lock:batch", 0)
	if lock.ttl != defaultLockTTL {
		t.Fatalf("expected default ttl, got %s", lock.ttl)
	}
	ctx := context.Background()
	if ok, _ := lock.Acquire(ctx); !ok {
		t.Fatalf("acquire failed")
	}
	boom := errors.New("boom")
	store.getErr = boom
	if err := lock.Release(ctx); !errors.Is(err, boom) {
		t.Fatalf("expected read error, got %v", err)
	}
}

func TestNewRedisLockRequiresRedis(t *testing.T) {
	if _, err := NewRedisLock("batch", time.Minute); !errors.Is(err, ErrLockUnavailable) {
		t.Fatalf("expected lock unavailable, got %v", err)
	}
	if _, err := newRedisLock(newMemoryStore(), "", time.Minute); err == nil {
		t.Fatalf("empty key should be rejected")
	}
}

func TestDisabledCacheIsNoop(t *testing.T) {
	ctx := context.Background()
	var dest map[string]string
	hit, err := GetJSON(ctx, "catalog:product:1", &dest)
	if err != nil || hit {
		t.Fatalf("disabled cache should miss: hit=%v err=%v", hit, err)
	}
	if err := SetJSON(ctx, "catalog:product:1", map[string]string{"a": "b"}, time.Minute); err != nil {
		t.Fatalf("disabled set should be no-op: %v", err)
	}
	if err := Del(ctx, "catalog:product:1"); err != nil {
		t.Fatalf("disabled del should be no-op: %v", err)
	}
	if BuildKey("catalog:product:1") != "mk:catalog:product:1" {
		t.Fatalf("unexpected key: %s", BuildKey("catalog:product:1"))
	}
}
