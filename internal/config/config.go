package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config keeps runtime settings for the planner core.
type Config struct {
	DatabaseURL        string
	GenerateWindowDays int
	GenerateInterval   time.Duration
	CleanupTime        string // HH:MM, local time
	CleanupGraceDays   int
	SummaryTime        string // HH:MM, local time
	AIParseTimeout     time.Duration
	LogLevel           string
}

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	cfg := Config{
		DatabaseURL:        strings.TrimSpace(os.Getenv("DATABASE_URL")),
		GenerateWindowDays: parseInt(os.Getenv("GENERATE_WINDOW_DAYS"), 30),
		GenerateInterval:   parseHours(os.Getenv("GENERATE_INTERVAL_HOURS"), 6*time.Hour),
		CleanupTime:        strings.TrimSpace(os.Getenv("CLEANUP_TIME")),
		CleanupGraceDays:   parseInt(os.Getenv("CLEANUP_GRACE_DAYS"), 7),
		SummaryTime:        strings.TrimSpace(os.Getenv("SUMMARY_TIME")),
		AIParseTimeout:     parseSeconds(os.Getenv("AI_PARSE_TIMEOUT_SECONDS"), 5*time.Second),
		LogLevel:           strings.TrimSpace(os.Getenv("LOG_LEVEL")),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "todo_planner.db"
	}
	if cfg.CleanupTime == "" {
		cfg.CleanupTime = "03:30"
	}
	if cfg.SummaryTime == "" {
		cfg.SummaryTime = "08:00"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	return cfg, nil
}

func parseInt(raw string, fallback int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func parseHours(raw string, fallback time.Duration) time.Duration {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	hours, err := time.ParseDuration(raw + "h")
	if err != nil || hours <= 0 {
		return fallback
	}
	return hours
}

func parseSeconds(raw string, fallback time.Duration) time.Duration {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	seconds, err := time.ParseDuration(raw + "s")
	if err != nil || seconds <= 0 {
		return fallback
	}
	return seconds
}
