package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	apperr "github.com/matzehuels/artboard/pkg/errors"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if cfg.Autosave.Debounce.Duration != time.Second {
		t.Errorf("debounce = %v, want 1s", cfg.Autosave.Debounce)
	}
	if s := cfg.Snap(); !s.Grid || !s.Objects || s.Threshold != 5 {
		t.Errorf("Snap() = %+v", s)
	}
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
[server]
addr = ":9000"
store = "mongo"

[mongo]
database = "studio"

[presence]
backend = "redis"
interval = "500ms"

[editor]
grid_snap = false
`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.Server.Addr != ":9000" || cfg.Server.Store != BackendMongo {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Mongo.Database != "studio" || cfg.Mongo.URI == "" {
		t.Errorf("mongo = %+v, want defaults kept", cfg.Mongo)
	}
	if cfg.Presence.Interval.Duration != 500*time.Millisecond {
		t.Errorf("interval = %v", cfg.Presence.Interval)
	}
	if cfg.Presence.Freshness.Duration != 30*time.Second {
		t.Errorf("freshness = %v, want default", cfg.Presence.Freshness)
	}
	if cfg.Snap().Grid {
		t.Error("grid snap should be off")
	}
	if o := cfg.PresenceOptions(); o.Interval != 500*time.Millisecond {
		t.Errorf("PresenceOptions() = %+v", o)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		toml string
	}{
		{"syntax", `[server`},
		{"unknown key", "[server]\nport = 1"},
		{"bad duration", "[autosave]\ndebounce = \"soon\""},
		{"bad store", "[server]\nstore = \"sqlite\""},
		{"bad backend", "[presence]\nbackend = \"etcd\""},
		{"tiny history", "[editor]\nhistory_capacity = 1"},
		{"zero attempts", "[assets]\nattempts = 0"},
		{"bad cache", "[assets]\ncache = \"s3\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.toml)); !apperr.Is(err, apperr.ErrCodeInvalidInput) {
				t.Errorf("Parse() error = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	if cfg, err := Load(""); err != nil || cfg.Server.Addr != ":8080" {
		t.Errorf("Load(\"\") = %+v, %v", cfg.Server, err)
	}

	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "missing.toml")); !apperr.Is(err, apperr.ErrCodeNotFound) {
		t.Errorf("Load(missing) error = %v", err)
	}

	path := filepath.Join(dir, "artboard.toml")
	if err := os.WriteFile(path, []byte("[autosave]\ndebounce = \"2s\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Autosave.Debounce.Duration != 2*time.Second {
		t.Errorf("debounce = %v", cfg.Autosave.Debounce)
	}
}
