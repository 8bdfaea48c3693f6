package pixgallery

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
)

// CacheKeyPrefix namespaces tag-analysis entries in the KV store.
const CacheKeyPrefix = "image_analysis_"

// CacheKey returns the store key for the analysis of imageURL.
func CacheKey(imageURL string) string {
	return CacheKeyPrefix + imageURL
}

// TagCache stores detection results as JSON-encoded tag arrays keyed by
// image URL. Entries are never evicted.
type TagCache struct {
	store KVStore
}

// NewTagCache wraps store. A nil store yields a cache that never hits.
func NewTagCache(store KVStore) *TagCache {
	return &TagCache{store: store}
}

// Get returns the cached tags for imageURL. Store and decode failures are
// logged and reported as a miss.
func (c *TagCache) Get(ctx context.Context, imageURL string) ([]string, bool) {
	if c == nil || c.store == nil {
		return nil, false
	}

	raw, ok, err := c.store.Get(ctx, CacheKey(imageURL))
	if err != nil {
		slog.Warn("pixgallery: cache read failed", "url", imageURL, "error", err.Error())
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		slog.Warn("pixgallery: cache entry unreadable", "url", imageURL, "error", err.Error())
		return nil, false
	}
	if tags == nil {
		tags = []string{}
	}
	return tags, true
}

// Put records tags for imageURL. Failures are logged and otherwise ignored.
func (c *TagCache) Put(ctx context.Context, imageURL string, tags []string) {
	if c == nil || c.store == nil {
		return
	}
	if tags == nil {
		tags = []string{}
	}

	raw, err := json.Marshal(tags)
	if err != nil {
		slog.Warn("pixgallery: cache encode failed", "url", imageURL, "error", err.Error())
		return
	}
	if err := c.store.Set(ctx, CacheKey(imageURL), string(raw)); err != nil {
		slog.Warn("pixgallery: cache write failed", "url", imageURL, "error", err.Error())
	}
}

// MemoryStore is a process-local KVStore. It is safe for concurrent use.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

func (m *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return fmt.Errorf("pixgallery: MemoryStore not initialized, use NewMemoryStore")
	}
	m.data[key] = value
	return nil
}

// Len returns the number of stored entries.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
