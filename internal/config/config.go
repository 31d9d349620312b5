package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cybergodev/virtualize"
)

// Config is the service and CLI configuration, read from VIRTUALIZE_*
// environment variables.
type Config struct {
	Addr string

	// Processor limits
	MaxInputBytes int
	CacheEntries  int
	CacheTTL      time.Duration
	Workers       int
	MaxDepth      int
	Sanitize      bool

	// Logging
	LogLevel  string
	LogFormat string
}

// Load reads the configuration from the environment. Out-of-range numbers
// fall back to their defaults.
func Load() Config {
	cfg := Config{
		Addr: envOr("VIRTUALIZE_ADDR", ":8080"),

		MaxInputBytes: envInt("VIRTUALIZE_MAX_INPUT_BYTES", virtualize.DefaultMaxInputSize),
		CacheEntries:  envInt("VIRTUALIZE_CACHE_ENTRIES", virtualize.DefaultMaxCacheEntries),
		CacheTTL:      envDuration("VIRTUALIZE_CACHE_TTL", virtualize.DefaultCacheTTL),
		Workers:       envInt("VIRTUALIZE_WORKERS", virtualize.DefaultWorkerPoolSize),
		MaxDepth:      envInt("VIRTUALIZE_MAX_DEPTH", virtualize.DefaultMaxDepth),
		Sanitize:      envBool("VIRTUALIZE_SANITIZE", false),

		LogLevel:  envOr("VIRTUALIZE_LOG_LEVEL", "info"),
		LogFormat: envOr("VIRTUALIZE_LOG_FORMAT", "json"),
	}

	if cfg.MaxInputBytes <= 0 {
		cfg.MaxInputBytes = virtualize.DefaultMaxInputSize
	}
	if cfg.CacheEntries < 0 {
		cfg.CacheEntries = 0
	}
	if cfg.CacheTTL < 0 {
		cfg.CacheTTL = virtualize.DefaultCacheTTL
	}
	if cfg.Workers <= 0 {
		cfg.Workers = virtualize.DefaultWorkerPoolSize
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = virtualize.DefaultMaxDepth
	}

	return cfg
}

// Validate reports settings that cannot be clamped to a default.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("VIRTUALIZE_ADDR is required")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("unknown log format %q (want json or text)", c.LogFormat)
	}
	return nil
}

// Processor returns the processor configuration described by c.
func (c Config) Processor(logger *slog.Logger) virtualize.Config {
	return virtualize.Config{
		MaxInputSize:       c.MaxInputBytes,
		MaxCacheEntries:    c.CacheEntries,
		CacheTTL:           c.CacheTTL,
		WorkerPoolSize:     c.Workers,
		EnableSanitization: c.Sanitize,
		MaxDepth:           c.MaxDepth,
		Logger:             logger,
	}
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// Logger builds the process logger on stderr.
func (c Config) Logger() *slog.Logger {
	level, err := c.Level()
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
