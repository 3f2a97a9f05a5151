package repositories

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"
)

type cacheItem struct {
	value     string
	expiresAt time.Time
}

func (i cacheItem) expired(now time.Time) bool {
	return !i.expiresAt.IsZero() && !now.Before(i.expiresAt)
}

// MemoryCacheRepository - кеш в памяти процесса, когда Redis не настроен.
type MemoryCacheRepository struct {
	mu    sync.Mutex
	items map[string]cacheItem
	now   func() time.Time
}

func NewMemoryCacheRepository() *MemoryCacheRepository {
	return &MemoryCacheRepository{items: make(map[string]cacheItem), now: time.Now}
}

func (r *MemoryCacheRepository) lookup(key string) (cacheItem, bool) {
	item, ok := r.items[key]
	if !ok {
		return cacheItem{}, false
	}
	if item.expired(r.now()) {
		delete(r.items, key)
		return cacheItem{}, false
	}
	return item, true
}

func (r *MemoryCacheRepository) Get(_ context.Context, key string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.lookup(key)
	if !ok {
		return "", ErrCacheMiss
	}
	return item.value, nil
}

func (r *MemoryCacheRepository) Set(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item := cacheItem{value: fmt.Sprint(value)}
	if expiration > 0 {
		item.expiresAt = r.now().Add(expiration)
	}
	r.items[key] = item
	return nil
}

func (r *MemoryCacheRepository) Del(_ context.Context, keys ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, key := range keys {
		delete(r.items, key)
	}
	return nil
}

func (r *MemoryCacheRepository) Incr(_ context.Context, key string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, _ := r.lookup(key)
	var n int64
	if item.value != "" {
		parsed, err := strconv.ParseInt(item.value, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("значение ключа %s не является числом: %w", key, err)
		}
		n = parsed
	}
	n++
	item.value = strconv.FormatInt(n, 10)
	r.items[key] = item
	return n, nil
}

func (r *MemoryCacheRepository) Expire(_ context.Context, key string, expiration time.Duration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.lookup(key)
	if !ok {
		return false, nil
	}
	item.expiresAt = r.now().Add(expiration)
	r.items[key] = item
	return true, nil
}
