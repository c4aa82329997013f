package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/screenlint/screenlint/internal/config"
	"github.com/screenlint/screenlint/internal/store"
	"github.com/screenlint/screenlint/pkg/errors"
)

func TestRootCommandSubcommands(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	registered := map[string]bool{}
	for _, cmd := range root.Commands() {
		registered[cmd.Name()] = true
	}

	for _, name := range []string{"analyze", "contrast", "tree", "serve", "mcp", "cache", "completion"} {
		if !registered[name] {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestRootCommandVersion(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs([]string{"--version"})

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(buf.String(), "screenlint") {
		t.Errorf("version output = %q, want it to mention screenlint", buf.String())
	}
}

func TestSetLogLevel(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, LogInfo)

	c.Logger.Debug("hidden")
	if buf.Len() != 0 {
		t.Error("debug message should be filtered at info level")
	}

	c.SetLogLevel(LogDebug)
	c.Logger.Debug("visible")
	if buf.Len() == 0 {
		t.Error("debug message should appear at debug level")
	}
}

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	os.Unsetenv("XDG_CACHE_HOME")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	if dir == "" {
		t.Error("cacheDir() returned empty string")
	}

	home, _ := os.UserHomeDir()
	if !strings.HasPrefix(dir, home) {
		t.Errorf("cacheDir() = %q, should be under home %q", dir, home)
	}

	if !strings.HasSuffix(dir, appName) {
		t.Errorf("cacheDir() = %q, should end with %q", dir, appName)
	}

	expected := filepath.Join(home, ".cache", appName)
	if dir != expected {
		t.Errorf("cacheDir() = %q, want %q", dir, expected)
	}
}

func TestCacheDirXDG(t *testing.T) {
	customCache := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", customCache)

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	expected := filepath.Join(customCache, appName)
	if dir != expected {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q, want %q", dir, expected)
	}
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"json", false},
		{"yaml", false},
		{"xml", true},
		{"", true},
	}

	for _, tt := range tests {
		err := validateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("validateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && errors.GetCode(err) != errors.ErrCodeInvalidFormat {
			t.Errorf("validateFormat(%q) code = %q, want %q", tt.format, errors.GetCode(err), errors.ErrCodeInvalidFormat)
		}
	}
}

func TestEncodeDoc(t *testing.T) {
	doc := map[string]int{"count": 3}

	compact, err := encodeDoc(doc, formatJSON, false)
	if err != nil {
		t.Fatalf("encodeDoc json: %v", err)
	}
	if string(compact) != `{"count":3}` {
		t.Errorf("compact json = %s", compact)
	}

	pretty, err := encodeDoc(doc, formatJSON, true)
	if err != nil {
		t.Fatalf("encodeDoc pretty: %v", err)
	}
	if !bytes.Contains(pretty, []byte("\n")) {
		t.Error("pretty json should be indented")
	}

	y, err := encodeDoc(doc, formatYAML, false)
	if err != nil {
		t.Fatalf("encodeDoc yaml: %v", err)
	}
	if !strings.Contains(string(y), "count: 3") {
		t.Errorf("yaml = %s", y)
	}
}

func TestNewStoreDefaultsToMemory(t *testing.T) {
	st, err := newStore(context.Background(), config.Store{MaxRecords: 5})
	if err != nil {
		t.Fatalf("newStore: %v", err)
	}
	defer st.Close(context.Background())

	if _, ok := st.(*store.MemoryStore); !ok {
		t.Errorf("newStore without Mongo URI = %T, want *store.MemoryStore", st)
	}
}

func TestNewConfigRunner(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	cfg := config.Default()
	c := New(io.Discard, LogInfo)

	runner, err := c.newConfigRunner(context.Background(), cfg)
	if err != nil {
		t.Fatalf("newConfigRunner: %v", err)
	}
	defer runner.Close()

	if runner.TTL != cfg.Cache.TTL.Duration {
		t.Errorf("runner.TTL = %v, want %v", runner.TTL, cfg.Cache.TTL.Duration)
	}
}
