package kvstore

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/anatolykoptev/go-pixgallery"
)

var _ pixgallery.KVStore = (*SQLiteStore)(nil)

func openTemp(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "cache.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestGetMissing(t *testing.T) {
	s := openTemp(t)

	v, ok, err := s.Get(context.Background(), "nope")
	if err != nil || ok || v != "" {
		t.Errorf("Get(missing) = %q, %v, %v", v, ok, err)
	}
}

func TestSetGetOverwrite(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	if err := s.Set(ctx, "k", "one"); err != nil {
		t.Fatal(err)
	}
	if err := s.Set(ctx, "k", "two"); err != nil {
		t.Fatal(err)
	}

	v, ok, err := s.Get(ctx, "k")
	if err != nil || !ok || v != "two" {
		t.Errorf("Get = %q, %v, %v; want two", v, ok, err)
	}
	if n, _ := s.Count(ctx); n != 1 {
		t.Errorf("Count = %d, want 1", n)
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Set(ctx, "image_analysis_u", `["dog"]`); err != nil {
		t.Fatal(err)
	}
	_ = s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	v, ok, err := s.Get(ctx, "image_analysis_u")
	if err != nil || !ok || v != `["dog"]` {
		t.Errorf("after reopen Get = %q, %v, %v", v, ok, err)
	}
}

func TestKeysByPrefix(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	for _, k := range []string{"image_analysis_b", "other", "image_analysis_a"} {
		if err := s.Set(ctx, k, "[]"); err != nil {
			t.Fatal(err)
		}
	}

	keys, err := s.Keys(ctx, pixgallery.CacheKeyPrefix)
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"image_analysis_a", "image_analysis_b"}; !reflect.DeepEqual(keys, want) {
		t.Errorf("Keys = %v, want %v", keys, want)
	}
}

func TestTagCacheOverSQLite(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	c := pixgallery.NewTagCache(s)

	c.Put(ctx, "https://cdn.example/x.jpg", []string{"cat", "sofa"})
	got, ok := c.Get(ctx, "https://cdn.example/x.jpg")
	if !ok || !reflect.DeepEqual(got, []string{"cat", "sofa"}) {
		t.Errorf("Get = %v, %v", got, ok)
	}
}

func TestMemoryDatabase(t *testing.T) {
	s, err := Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	ctx := context.Background()
	if err := s.Set(ctx, "a", "1"); err != nil {
		t.Fatal(err)
	}
	if v, ok, _ := s.Get(ctx, "a"); !ok || v != "1" {
		t.Errorf("Get = %q, %v", v, ok)
	}
}

func TestKeysNonASCIIPrefix(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	for _, k := range []string{"café_1", "café_2", "cafe_3"} {
		if err := s.Set(ctx, k, "v"); err != nil {
			t.Fatal(err)
		}
	}

	keys, err := s.Keys(ctx, "café_")
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	if want := []string{"café_1", "café_2"}; !reflect.DeepEqual(keys, want) {
		t.Errorf("Keys(café_) = %v, want %v", keys, want)
	}
}
