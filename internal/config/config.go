// Package config loads screenlint settings from TOML files and
// SCREENLINT_* environment variables.
//
// Precedence, lowest to highest: built-in defaults, the TOML file,
// environment overrides.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/screenlint/screenlint/pkg/cache"
	"github.com/screenlint/screenlint/pkg/errors"
	"github.com/screenlint/screenlint/pkg/imaging"
)

// Duration wraps time.Duration so TOML values like "30s" parse.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// Config is the full screenlint configuration.
type Config struct {
	Server   Server   `toml:"server"`
	Cache    Cache    `toml:"cache"`
	Store    Store    `toml:"store"`
	Analysis Analysis `toml:"analysis"`
}

// Server configures the HTTP API.
type Server struct {
	Addr            string   `toml:"addr"`
	ReadTimeout     Duration `toml:"read_timeout"`
	WriteTimeout    Duration `toml:"write_timeout"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
}

// Cache selects and configures the report cache backend.
type Cache struct {
	// Dir is the file cache directory. Empty uses the XDG default.
	Dir string `toml:"dir"`

	// RedisURL switches the backend to Redis when set.
	RedisURL string `toml:"redis_url"`

	// Scope prefixes every key, for shared backends.
	Scope string `toml:"scope"`

	// TTL bounds how long cached reports stay valid.
	TTL Duration `toml:"ttl"`

	// Disabled turns caching off entirely.
	Disabled bool `toml:"disabled"`
}

// Store configures report persistence for the server.
type Store struct {
	// MongoURI switches persistence to MongoDB when set; otherwise
	// reports are kept in a bounded in-memory store.
	MongoURI string `toml:"mongo_uri"`

	Database string `toml:"database"`

	// MaxRecords bounds the in-memory store.
	MaxRecords int `toml:"max_records"`
}

// Analysis carries default analysis options.
type Analysis struct {
	DetectRegions bool   `toml:"detect_regions"`
	Mark          bool   `toml:"mark"`
	MarkDir       string `toml:"mark_dir"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: Server{
			Addr:            ":8080",
			ReadTimeout:     Duration{30 * time.Second},
			WriteTimeout:    Duration{60 * time.Second},
			ShutdownTimeout: Duration{10 * time.Second},
		},
		Cache: Cache{
			TTL: Duration{cache.TTLReport},
		},
		Store: Store{
			Database:   "screenlint",
			MaxRecords: 100,
		},
		Analysis: Analysis{
			MarkDir: imaging.DefaultMarkDir,
		},
	}
}

// DefaultPath returns the standard config file location, honoring
// XDG_CONFIG_HOME.
func DefaultPath() string {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "screenlint", "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "screenlint", "config.toml")
}

// Load reads the configuration. When path is empty the default
// location is tried and may be absent; an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %q", path)
			}
		case explicit:
			return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "read config %q", path)
		case !os.IsNotExist(err):
			return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %q", path)
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("SCREENLINT_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("SCREENLINT_CACHE_DIR"); v != "" {
		c.Cache.Dir = v
	}
	if v := os.Getenv("SCREENLINT_REDIS_URL"); v != "" {
		c.Cache.RedisURL = v
	}
	if v := os.Getenv("SCREENLINT_CACHE_SCOPE"); v != "" {
		c.Cache.Scope = v
	}
	if v := os.Getenv("SCREENLINT_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			c.Cache.TTL = Duration{d}
		}
	}
	if v, ok := os.LookupEnv("SCREENLINT_NO_CACHE"); ok {
		c.Cache.Disabled = parseBool(v)
	}
	if v := os.Getenv("SCREENLINT_MONGO_URI"); v != "" {
		c.Store.MongoURI = v
	}
	if v := os.Getenv("SCREENLINT_DATABASE"); v != "" {
		c.Store.Database = v
	}
	if v := os.Getenv("SCREENLINT_MAX_RECORDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Store.MaxRecords = n
		}
	}
	if v := os.Getenv("SCREENLINT_MARK_DIR"); v != "" {
		c.Analysis.MarkDir = v
	}
}

func parseBool(v string) bool {
	b, err := strconv.ParseBool(v)
	return err == nil && b
}
