package sync

import (
	"errors"
	"testing"
)

func TestBadgerCacheRoundTrip(t *testing.T) {
	dir := t.TempDir()

	cache, err := OpenBadgerCache(dir)
	if err != nil {
		t.Fatalf("OpenBadgerCache: %v", err)
	}

	if _, err := cache.Get("missing"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("缺失键应返回 ErrCacheMiss, got %v", err)
	}

	if err := cache.Put("pet", []byte(`{"name":"Mochi"}`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := cache.Get("pet")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != `{"name":"Mochi"}` {
		t.Errorf("Get = %s", got)
	}

	if err := cache.Delete("pet"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := cache.Get("pet"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("删除后应返回 ErrCacheMiss, got %v", err)
	}
	if err := cache.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestBadgerCachePersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	cache, err := OpenBadgerCache(dir)
	if err != nil {
		t.Fatalf("OpenBadgerCache: %v", err)
	}
	if err := cache.Put("usage", []byte(`{"totalSessions":3}`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := cache.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := OpenBadgerCache(dir)
	if err != nil {
		t.Fatalf("重新打开失败: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Get("usage")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != `{"totalSessions":3}` {
		t.Errorf("重开后数据丢失: %s", got)
	}
}
