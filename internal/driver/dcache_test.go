package driver_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"scadfmt/internal/driver"
)

func TestDiskCacheRoundTrip(t *testing.T) {
	c, err := driver.NewDiskCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatalf("NewDiskCache: %v", err)
	}
	key := driver.CacheKey([]byte("cube();\n"), "fp", "test")

	if c.IsClean(key) {
		t.Fatalf("empty cache reports a hit")
	}
	if err := c.MarkClean(key, "a.scad", "fp"); err != nil {
		t.Fatalf("MarkClean: %v", err)
	}
	var p driver.CachePayload
	ok, err := c.Get(key, &p)
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if !p.Clean || p.Path != "a.scad" || p.Fingerprint != "fp" || p.Stored == 0 {
		t.Fatalf("unexpected payload %+v", p)
	}
}

func TestDiskCacheConcurrentWriters(t *testing.T) {
	c, err := driver.NewDiskCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskCache: %v", err)
	}
	key := driver.CacheKey([]byte("x"), "fp", "test")
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := c.MarkClean(key, "x.scad", "fp"); err != nil {
				t.Errorf("MarkClean: %v", err)
			}
			c.IsClean(key)
		}()
	}
	wg.Wait()
	if !c.IsClean(key) {
		t.Fatalf("entry lost")
	}
}

func TestDiskCacheDropAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	c, err := driver.NewDiskCache(dir)
	if err != nil {
		t.Fatalf("NewDiskCache: %v", err)
	}
	key := driver.CacheKey([]byte("x"), "fp", "test")
	if err := c.MarkClean(key, "x.scad", "fp"); err != nil {
		t.Fatalf("MarkClean: %v", err)
	}
	if err := c.DropAll(); err != nil {
		t.Fatalf("DropAll: %v", err)
	}
	if c.IsClean(key) {
		t.Fatalf("entry survived DropAll")
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("cache dir must exist after DropAll: %v", err)
	}
}

func TestNilCacheIsInert(t *testing.T) {
	var c *driver.DiskCache
	key := driver.CacheKey([]byte("x"), "fp", "test")
	if err := c.MarkClean(key, "x", "fp"); err != nil {
		t.Fatalf("nil Put: %v", err)
	}
	if c.IsClean(key) {
		t.Fatalf("nil cache reports a hit")
	}
}
