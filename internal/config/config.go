package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

const (
	DefaultAddr       = ":8080"
	DefaultLogLevel   = "info"
	DefaultUserName   = "Вы"
	DefaultUserAvatar = "/placeholder.svg"
	DefaultAPIURL     = "http://localhost:8080"
)

type Config struct {
	Addr       string
	SeedDir    string
	LogLevel   string
	UserName   string
	UserAvatar string
	APIURL     string
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func Load() (*Config, error) {
	cfg := &Config{
		Addr:       getenv("FEED_ADDR", DefaultAddr),
		SeedDir:    os.Getenv("FEED_SEED_DIR"),
		LogLevel:   strings.ToLower(getenv("FEED_LOG_LEVEL", DefaultLogLevel)),
		UserName:   getenv("FEED_USER_NAME", DefaultUserName),
		UserAvatar: getenv("FEED_USER_AVATAR", DefaultUserAvatar),
		APIURL:     getenv("FEED_API_URL", DefaultAPIURL),
	}

	if _, err := ParseLevel(cfg.LogLevel); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.UserName) == "" {
		return nil, fmt.Errorf("FEED_USER_NAME must not be blank")
	}

	if cfg.SeedDir != "" {
		info, err := os.Stat(cfg.SeedDir)
		if err != nil {
			return nil, fmt.Errorf("FEED_SEED_DIR: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("FEED_SEED_DIR %s is not a directory", cfg.SeedDir)
		}
	}

	return cfg, nil
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(level string) (slog.Level, error) {
	switch level {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("FEED_LOG_LEVEL must be one of debug, info, warn, error, got %q", level)
}
