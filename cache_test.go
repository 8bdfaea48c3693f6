package pixgallery

import (
	"context"
	"reflect"
	"testing"
)

func TestCacheKey(t *testing.T) {
	t.Parallel()

	if got := CacheKey("https://cdn.example/a.jpg"); got != "image_analysis_https://cdn.example/a.jpg" {
		t.Errorf("CacheKey = %q", got)
	}
}

func TestTagCacheRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryStore()
	c := NewTagCache(store)

	if _, ok := c.Get(ctx, "u"); ok {
		t.Fatal("empty cache reported a hit")
	}

	c.Put(ctx, "u", []string{"dog", "frisbee"})

	raw, ok, _ := store.Get(ctx, "image_analysis_u")
	if !ok {
		t.Fatal("entry not written under the prefixed key")
	}
	if raw != `["dog","frisbee"]` {
		t.Errorf("stored value = %s, want JSON array", raw)
	}

	got, ok := c.Get(ctx, "u")
	if !ok || !reflect.DeepEqual(got, []string{"dog", "frisbee"}) {
		t.Errorf("Get = %v, %v", got, ok)
	}
}

func TestTagCacheEmptyResultIsAHit(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := NewTagCache(NewMemoryStore())
	c.Put(ctx, "u", nil)

	got, ok := c.Get(ctx, "u")
	if !ok {
		t.Fatal("empty tag list should still be cached")
	}
	if got == nil || len(got) != 0 {
		t.Errorf("Get = %#v, want empty non-nil slice", got)
	}
}

func TestTagCacheCorruptEntryIsMiss(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryStore()
	_ = store.Set(ctx, CacheKey("u"), "{oops")

	if _, ok := NewTagCache(store).Get(ctx, "u"); ok {
		t.Error("corrupt entry should be treated as a miss")
	}
}

func TestTagCacheStoreFailures(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := NewTagCache(failingStore{})

	c.Put(ctx, "u", []string{"a"}) // must not panic
	if _, ok := c.Get(ctx, "u"); ok {
		t.Error("read failure should be treated as a miss")
	}
}

func TestTagCacheNilStore(t *testing.T) {
	t.Parallel()

	c := NewTagCache(nil)
	c.Put(context.Background(), "u", []string{"a"})
	if _, ok := c.Get(context.Background(), "u"); ok {
		t.Error("nil store should never hit")
	}
}

func TestMemoryStoreZeroValue(t *testing.T) {
	t.Parallel()

	var m MemoryStore
	if _, ok, err := m.Get(context.Background(), "k"); ok || err != nil {
		t.Errorf("Get on zero value = %v, %v", ok, err)
	}
	if err := m.Set(context.Background(), "k", "v"); err == nil {
		t.Error("Set on zero value should fail")
	}
}
