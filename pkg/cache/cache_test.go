package cache

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	// Same inputs produce the same key
	k1 := k.ReportKey("xmlhash", "imghash", ReportKeyOpts{})
	k2 := k.ReportKey("xmlhash", "imghash", ReportKeyOpts{})
	if k1 != k2 {
		t.Error("ReportKey should be deterministic")
	}
	if !strings.HasPrefix(k1, "report:") {
		t.Errorf("ReportKey should carry the report prefix: %s", k1)
	}

	// Either input hash changes the key
	if k1 == k.ReportKey("other", "imghash", ReportKeyOpts{}) {
		t.Error("Different xml hashes should produce different keys")
	}
	if k1 == k.ReportKey("xmlhash", "other", ReportKeyOpts{}) {
		t.Error("Different image hashes should produce different keys")
	}

	// Options that change report content change the key
	k3 := k.ReportKey("xmlhash", "imghash", ReportKeyOpts{DetectRegions: true})
	if k1 == k3 {
		t.Error("Different ReportKeyOpts should produce different keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "tenant-a")

	key := scoped.ReportKey("xmlhash", "imghash", ReportKeyOpts{})
	if !strings.HasPrefix(key, "tenant-a:report:") {
		t.Errorf("ScopedKeyer ReportKey should be prefixed: %s", key)
	}

	// The scoped key is the inner key plus the prefix
	want := "tenant-a:" + inner.ReportKey("xmlhash", "imghash", ReportKeyOpts{})
	if key != want {
		t.Errorf("ScopedKeyer key = %s, want %s", key, want)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	// Should use DefaultKeyer when inner is nil
	scoped := NewScopedKeyer(nil, "prefix")
	key := scoped.ReportKey("a", "b", ReportKeyOpts{})
	if !strings.HasPrefix(key, "prefix:report:") {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	// Missing key is a miss, not an error
	_, hit, err := c.Get(ctx, "missing")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("Get of missing key should be a miss")
	}

	// Set then Get round-trips the data
	if err := c.Set(ctx, "report:abc", []byte("payload"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "report:abc")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !hit {
		t.Fatal("Get after Set should hit")
	}
	if string(data) != "payload" {
		t.Errorf("Get data = %q, want %q", data, "payload")
	}

	// Delete removes the entry
	if err := c.Delete(ctx, "report:abc"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	_, hit, _ = c.Get(ctx, "report:abc")
	if hit {
		t.Error("Get after Delete should miss")
	}

	// Deleting a missing key is not an error
	if err := c.Delete(ctx, "report:abc"); err != nil {
		t.Errorf("Delete of missing key error: %v", err)
	}
}

func TestFileCacheTTLExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "short", []byte("stale"), time.Nanosecond); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	// The expired entry reads as a miss and its file is removed
	_, hit, err := c.Get(ctx, "short")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("Expired entry should be a miss")
	}
	path := c.(*FileCache).path("short")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Expired entry file should be removed on read")
	}
}

func TestFileCacheZeroTTLNeverExpires(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "pinned", []byte("keep"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "pinned")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !hit {
		t.Fatal("Zero-TTL entry should hit")
	}
	if string(data) != "keep" {
		t.Errorf("Get data = %q, want %q", data, "keep")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "broken", []byte("data"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	path := c.(*FileCache).path("broken")
	if err := os.WriteFile(path, []byte("not json"), 0644); err != nil {
		t.Fatalf("corrupt entry: %v", err)
	}

	// A corrupt entry reads as a miss and is cleaned up
	_, hit, err := c.Get(ctx, "broken")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("Corrupt entry should be a miss")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Corrupt entry file should be removed on read")
	}
}

func TestFileCacheFanout(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "report:xyz", []byte("x"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	// Entries land in a two-character subdirectory of the key hash
	hash := Hash([]byte("report:xyz"))
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir error: %v", err)
	}
	if len(entries) != 1 || !entries[0].IsDir() || entries[0].Name() != hash[:2] {
		t.Fatalf("expected fanout dir %q, got %v", hash[:2], entries)
	}
}
