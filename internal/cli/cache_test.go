package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCacheClearCommand(t *testing.T) {
	cacheHome := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", cacheHome)

	dir := filepath.Join(cacheHome, appName)
	sub := filepath.Join(dir, "ab")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{filepath.Join(dir, "one.json"), filepath.Join(sub, "two.json")} {
		if err := os.WriteFile(name, []byte(`{}`), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	if err := execute(t, "cache", "clear"); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 0 {
		t.Errorf("cache still contains %v after clear", files)
	}

	// The cache root itself stays in place.
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("cache dir should survive clear: %v", err)
	}
}

func TestCacheClearCommandEmpty(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	// No cache directory exists yet; clear reports an empty cache.
	if err := execute(t, "cache", "clear"); err != nil {
		t.Fatalf("Execute: %v", err)
	}
}

func TestCachePathCommand(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	if err := execute(t, "cache", "path"); err != nil {
		t.Fatalf("Execute: %v", err)
	}
}
