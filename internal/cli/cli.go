// Package cli implements the screenlint command-line interface.
//
// This package provides commands for analyzing screens for accessibility
// defects, rendering view hierarchies, running the HTTP and MCP servers,
// and managing the report cache. The CLI is built using cobra and supports
// verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - analyze: Run the full accessibility analysis on a hierarchy and screenshot
//   - contrast: Scan a screenshot for low-contrast text, no hierarchy needed
//   - tree: Render the view hierarchy as a Graphviz graph
//   - serve: Run the HTTP analysis service
//   - mcp: Expose the analyzer as MCP tools
//   - cache: Manage the report cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Logs and
// status output go to stderr; report documents go to stdout so they can
// be piped.
package cli

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/screenlint/screenlint/internal/config"
	"github.com/screenlint/screenlint/pkg/buildinfo"
	"github.com/screenlint/screenlint/pkg/cache"
	"github.com/screenlint/screenlint/pkg/errors"
	"github.com/screenlint/screenlint/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "screenlint"

	// Report output formats.
	formatJSON = "json"
	formatYAML = "yaml"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "screenlint",
		Short:        "Screenlint finds accessibility defects in mobile screens",
		Long:         `Screenlint inspects a screenshot together with its serialized view hierarchy and reports accessibility defects: interactive elements without content descriptions, undersized touch targets, text with insufficient color contrast, and malformed heading structure.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.analyzeCommand())
	root.AddCommand(c.contrastCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.mcpCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use, backed by the file
// cache under the user's cache directory.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	backend, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(backend, nil, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// newConfigRunner creates a pipeline runner from service configuration,
// selecting the cache backend in order: disabled, Redis, file.
func (c *CLI) newConfigRunner(ctx context.Context, cfg config.Config) (*pipeline.Runner, error) {
	backend, err := newConfigCache(ctx, cfg.Cache)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if cfg.Cache.Scope != "" {
		keyer = cache.NewScopedKeyer(nil, cfg.Cache.Scope)
	}
	runner := pipeline.NewRunner(backend, keyer, c.Logger)
	runner.TTL = cfg.Cache.TTL.Duration
	return runner, nil
}

func newConfigCache(ctx context.Context, cfg config.Cache) (cache.Cache, error) {
	switch {
	case cfg.Disabled:
		return cache.NewNullCache(), nil
	case cfg.RedisURL != "":
		return cache.NewRedisCache(ctx, cfg.RedisURL)
	}
	dir := cfg.Dir
	if dir == "" {
		d, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		dir = d
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/screenlint/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Output Helpers
// =============================================================================

// validateFormat checks a report output format flag.
func validateFormat(format string) error {
	switch format {
	case formatJSON, formatYAML:
		return nil
	}
	return errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s (use json or yaml)", format)
}

// encodeDoc marshals v in the requested output format. The pretty flag
// only affects JSON; YAML is always indented.
func encodeDoc(v any, format string, pretty bool) ([]byte, error) {
	if format == formatYAML {
		return yaml.Marshal(v)
	}
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}

// writeDoc writes an encoded document to path, or to stdout when path is
// empty. Stdout output always ends with a newline.
func writeDoc(out []byte, path string) error {
	if path == "" {
		if len(out) > 0 && out[len(out)-1] != '\n' {
			out = append(out, '\n')
		}
		_, err := os.Stdout.Write(out)
		return err
	}
	return os.WriteFile(path, out, 0o644)
}
