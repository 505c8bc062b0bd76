package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

type Config struct {
	Addr           string
	AllowedOrigins string
	LogLevel       log.Level
	Clock          time.Duration

	EnginePath    string
	EngineDepth   int
	EngineMultiPV int
	EngineTimeout time.Duration

	OpeningsURL     string
	OpeningsTimeout time.Duration

	MatchmakingInterval time.Duration
}

// Default returns the configuration used when no environment overrides are set.
func Default() Config {
	return Config{
		Addr:                ":3000",
		AllowedOrigins:      "http://localhost:5173",
		LogLevel:            log.LevelInfo,
		Clock:               10 * time.Minute,
		EngineDepth:         12,
		EngineMultiPV:       3,
		EngineTimeout:       5 * time.Second,
		OpeningsURL:         "https://explorer.lichess.ovh/masters",
		OpeningsTimeout:     3 * time.Second,
		MatchmakingInterval: time.Second,
	}
}

// Load reads CHESS_* environment variables over the defaults.
func Load() (Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (Config, error) {
	cfg := Default()

	if v := getenv("CHESS_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := getenv("CHESS_ALLOWED_ORIGINS"); v != "" {
		cfg.AllowedOrigins = v
	}
	if v := getenv("CHESS_LOG_LEVEL"); v != "" {
		level, err := parseLevel(v)
		if err != nil {
			return Config{}, fmt.Errorf("CHESS_LOG_LEVEL: %w", err)
		}
		cfg.LogLevel = level
	}
	cfg.EnginePath = getenv("CHESS_ENGINE_PATH")
	if v := getenv("CHESS_OPENINGS_URL"); v != "" {
		cfg.OpeningsURL = v
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"CHESS_CLOCK", &cfg.Clock},
		{"CHESS_ENGINE_TIMEOUT", &cfg.EngineTimeout},
		{"CHESS_OPENINGS_TIMEOUT", &cfg.OpeningsTimeout},
		{"CHESS_MATCHMAKING_INTERVAL", &cfg.MatchmakingInterval},
	}
	for _, d := range durations {
		v := getenv(d.key)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", d.key, err)
		}
		if parsed <= 0 {
			return Config{}, fmt.Errorf("%s: must be positive, got %s", d.key, v)
		}
		*d.dst = parsed
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"CHESS_ENGINE_DEPTH", &cfg.EngineDepth},
		{"CHESS_ENGINE_MULTIPV", &cfg.EngineMultiPV},
	}
	for _, i := range ints {
		v := getenv(i.key)
		if v == "" {
			continue
		}
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", i.key, err)
		}
		if parsed < 1 {
			return Config{}, fmt.Errorf("%s: must be at least 1, got %d", i.key, parsed)
		}
		*i.dst = parsed
	}

	return cfg, nil
}

// Origins splits AllowedOrigins, a comma-separated list, into its entries.
func (c Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func parseLevel(s string) (log.Level, error) {
	switch strings.ToLower(s) {
	case "trace":
		return log.LevelTrace, nil
	case "debug":
		return log.LevelDebug, nil
	case "info":
		return log.LevelInfo, nil
	case "warn", "warning":
		return log.LevelWarn, nil
	case "error":
		return log.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}
