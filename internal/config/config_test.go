package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/cybergodev/virtualize"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"VIRTUALIZE_ADDR", "VIRTUALIZE_MAX_INPUT_BYTES", "VIRTUALIZE_CACHE_ENTRIES",
		"VIRTUALIZE_CACHE_TTL", "VIRTUALIZE_WORKERS", "VIRTUALIZE_MAX_DEPTH",
		"VIRTUALIZE_SANITIZE", "VIRTUALIZE_LOG_LEVEL", "VIRTUALIZE_LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Addr != ":8080" {
		t.Errorf("Addr = %q, want :8080", cfg.Addr)
	}
	if cfg.MaxInputBytes != virtualize.DefaultMaxInputSize {
		t.Errorf("MaxInputBytes = %d", cfg.MaxInputBytes)
	}
	if cfg.CacheTTL != virtualize.DefaultCacheTTL {
		t.Errorf("CacheTTL = %v", cfg.CacheTTL)
	}
	if cfg.Sanitize {
		t.Error("Sanitize should default to false")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("VIRTUALIZE_ADDR", "127.0.0.1:9000")
	t.Setenv("VIRTUALIZE_MAX_INPUT_BYTES", "1024")
	t.Setenv("VIRTUALIZE_CACHE_ENTRIES", "0")
	t.Setenv("VIRTUALIZE_CACHE_TTL", "5m")
	t.Setenv("VIRTUALIZE_WORKERS", "8")
	t.Setenv("VIRTUALIZE_MAX_DEPTH", "32")
	t.Setenv("VIRTUALIZE_SANITIZE", "true")
	t.Setenv("VIRTUALIZE_LOG_LEVEL", "debug")
	t.Setenv("VIRTUALIZE_LOG_FORMAT", "text")

	cfg := Load()
	want := Config{
		Addr:          "127.0.0.1:9000",
		MaxInputBytes: 1024,
		CacheEntries:  0,
		CacheTTL:      5 * time.Minute,
		Workers:       8,
		MaxDepth:      32,
		Sanitize:      true,
		LogLevel:      "debug",
		LogFormat:     "text",
	}
	if cfg != want {
		t.Errorf("Load() = %+v, want %+v", cfg, want)
	}

	level, err := cfg.Level()
	if err != nil || level != slog.LevelDebug {
		t.Errorf("Level() = %v, %v", level, err)
	}

	pc := cfg.Processor(nil)
	if pc.MaxInputSize != 1024 || pc.WorkerPoolSize != 8 || !pc.EnableSanitization {
		t.Errorf("Processor() = %+v", pc)
	}
	if _, err := virtualize.New(pc); err != nil {
		t.Errorf("virtualize.New(Processor()) = %v", err)
	}
}

func TestLoadClampsInvalidValues(t *testing.T) {
	t.Setenv("VIRTUALIZE_MAX_INPUT_BYTES", "-1")
	t.Setenv("VIRTUALIZE_CACHE_ENTRIES", "-5")
	t.Setenv("VIRTUALIZE_CACHE_TTL", "-1s")
	t.Setenv("VIRTUALIZE_WORKERS", "zero")
	t.Setenv("VIRTUALIZE_MAX_DEPTH", "0")

	cfg := Load()
	if cfg.MaxInputBytes != virtualize.DefaultMaxInputSize {
		t.Errorf("MaxInputBytes = %d", cfg.MaxInputBytes)
	}
	if cfg.CacheEntries != 0 {
		t.Errorf("CacheEntries = %d", cfg.CacheEntries)
	}
	if cfg.CacheTTL != virtualize.DefaultCacheTTL {
		t.Errorf("CacheTTL = %v", cfg.CacheTTL)
	}
	if cfg.Workers != virtualize.DefaultWorkerPoolSize {
		t.Errorf("Workers = %d", cfg.Workers)
	}
	if cfg.MaxDepth != virtualize.DefaultMaxDepth {
		t.Errorf("MaxDepth = %d", cfg.MaxDepth)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Addr: ":8080", LogLevel: "info", LogFormat: "json"}, false},
		{"empty addr", Config{LogLevel: "info", LogFormat: "json"}, true},
		{"bad level", Config{Addr: ":8080", LogLevel: "loud", LogFormat: "json"}, true},
		{"bad format", Config{Addr: ":8080", LogLevel: "warn", LogFormat: "xml"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
