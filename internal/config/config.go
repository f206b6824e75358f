// Package config loads the artboard configuration from a TOML file.
//
// Every field has a default, so an empty or missing file yields a working
// single-process setup: in-memory presence, JSON file canvases and a file
// asset cache.
//
//	[server]
//	addr = ":8080"
//	store = "mongo"
//
//	[mongo]
//	uri = "mongodb://localhost:27017"
//
//	[autosave]
//	debounce = "1s"
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/artboard/pkg/asset"
	apperr "github.com/matzehuels/artboard/pkg/errors"
	"github.com/matzehuels/artboard/pkg/history"
	"github.com/matzehuels/artboard/pkg/persist"
	"github.com/matzehuels/artboard/pkg/presence"
	"github.com/matzehuels/artboard/pkg/snap"
)

// Backend names accepted by [Server.Store], [Presence.Backend] and
// [Assets.Cache].
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendMongo  = "mongo"
	BackendRedis  = "redis"
)

// Duration is a time.Duration written as a string ("1s", "250ms").
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Config is the full configuration file.
type Config struct {
	Server   Server   `toml:"server"`
	Mongo    Mongo    `toml:"mongo"`
	Redis    Redis    `toml:"redis"`
	Editor   Editor   `toml:"editor"`
	Presence Presence `toml:"presence"`
	Autosave Autosave `toml:"autosave"`
	Assets   Assets   `toml:"assets"`
}

type Server struct {
	Addr            string   `toml:"addr"`
	Store           string   `toml:"store"`
	DataDir         string   `toml:"data_dir"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
}

type Mongo struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

type Redis struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

type Editor struct {
	Width           float64 `toml:"width"`
	Height          float64 `toml:"height"`
	GridSize        float64 `toml:"grid_size"`
	SnapThreshold   float64 `toml:"snap_threshold"`
	GridSnap        bool    `toml:"grid_snap"`
	ObjectSnap      bool    `toml:"object_snap"`
	HistoryCapacity int     `toml:"history_capacity"`
}

type Presence struct {
	Backend   string   `toml:"backend"`
	Interval  Duration `toml:"interval"`
	Throttle  Duration `toml:"throttle"`
	Freshness Duration `toml:"freshness"`
}

type Autosave struct {
	Debounce Duration `toml:"debounce"`
}

type Assets struct {
	Attempts int      `toml:"attempts"`
	Delay    Duration `toml:"delay"`
	CacheTTL Duration `toml:"cache_ttl"`
	Origin   string   `toml:"origin"`
	NoCache  bool     `toml:"no_cache"`

	// Cache is "file" or "redis". Scope prefixes every cache key so that
	// deployments can share one redis.
	Cache string `toml:"cache"`
	Scope string `toml:"scope"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: Server{
			Addr:            ":8080",
			Store:           BackendFile,
			ShutdownTimeout: Duration{10 * time.Second},
		},
		Mongo: Mongo{
			URI:        "mongodb://localhost:27017",
			Database:   "artboard",
			Collection: persist.DefaultCollection,
		},
		Redis: Redis{
			Addr: "localhost:6379",
		},
		Editor: Editor{
			Width:           1200,
			Height:          800,
			GridSize:        snap.DefaultGridSize,
			SnapThreshold:   snap.DefaultThreshold,
			GridSnap:        true,
			ObjectSnap:      true,
			HistoryCapacity: history.DefaultCapacity,
		},
		Presence: Presence{
			Backend:   BackendMemory,
			Interval:  Duration{presence.PollInterval},
			Throttle:  Duration{presence.ThrottleWindow},
			Freshness: Duration{presence.Freshness},
		},
		Autosave: Autosave{
			Debounce: Duration{persist.DefaultDebounce},
		},
		Assets: Assets{
			Attempts: asset.DefaultAttempts,
			Delay:    Duration{asset.DefaultDelay},
			CacheTTL: Duration{asset.DefaultCacheTTL},
			Cache:    BackendFile,
		},
	}
}

// Load reads path over the defaults. An empty path returns the defaults;
// a missing file is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, apperr.New(apperr.ErrCodeNotFound, "config file %s does not exist", path)
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes TOML over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return cfg, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "parse config")
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return cfg, apperr.New(apperr.ErrCodeInvalidInput, "unknown config key %q", undec[0].String())
	}
	return cfg, cfg.Validate()
}

// Validate checks value ranges and backend names.
func (c Config) Validate() error {
	switch c.Server.Store {
	case BackendMemory, BackendFile, BackendMongo:
	default:
		return invalid("server.store must be memory, file or mongo, got %q", c.Server.Store)
	}
	switch c.Presence.Backend {
	case BackendMemory, BackendRedis:
	default:
		return invalid("presence.backend must be memory or redis, got %q", c.Presence.Backend)
	}
	switch c.Assets.Cache {
	case BackendFile, BackendRedis:
	default:
		return invalid("assets.cache must be file or redis, got %q", c.Assets.Cache)
	}
	if c.Server.Addr == "" {
		return invalid("server.addr is required")
	}
	if c.Server.Store == BackendMongo && c.Mongo.URI == "" {
		return invalid("mongo.uri is required for the mongo store")
	}
	if (c.Presence.Backend == BackendRedis || c.Assets.Cache == BackendRedis) && c.Redis.Addr == "" {
		return invalid("redis.addr is required for redis backends")
	}
	if c.Editor.Width <= 0 || c.Editor.Height <= 0 {
		return invalid("editor size must be positive")
	}
	if c.Editor.SnapThreshold < 0 || c.Editor.GridSize <= 0 {
		return invalid("editor.grid_size must be positive and snap_threshold non-negative")
	}
	if c.Editor.HistoryCapacity < 2 {
		return invalid("editor.history_capacity must be at least 2")
	}
	if c.Presence.Interval.Duration <= 0 || c.Presence.Freshness.Duration <= 0 {
		return invalid("presence interval and freshness must be positive")
	}
	if c.Autosave.Debounce.Duration < 0 {
		return invalid("autosave.debounce cannot be negative")
	}
	if c.Assets.Attempts < 1 {
		return invalid("assets.attempts must be at least 1")
	}
	return nil
}

func invalid(format string, args ...any) error {
	return apperr.New(apperr.ErrCodeInvalidInput, format, args...)
}

// Snap returns the snapping configuration of the editor section.
func (c Config) Snap() snap.Config {
	return snap.Config{
		GridSize:  c.Editor.GridSize,
		Threshold: c.Editor.SnapThreshold,
		Grid:      c.Editor.GridSnap,
		Objects:   c.Editor.ObjectSnap,
	}
}

// PresenceOptions returns broadcaster options for the presence section.
func (c Config) PresenceOptions() presence.Options {
	return presence.Options{
		Interval:  c.Presence.Interval.Duration,
		Throttle:  c.Presence.Throttle.Duration,
		Freshness: c.Presence.Freshness.Duration,
	}
}
