package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all configuration for the application.
type Config struct {
	// Server configuration
	Port  string
	Debug bool

	// Database
	DatabasePath string

	// Schedule configuration
	ScanSchedule string // "hourly", "daily" or "weekly"

	// Reddit credentials; when absent the source serves its sample dataset
	RedditClientID     string
	RedditClientSecret string
	RedditUserAgent    string

	// Fetch tuning
	FetchLimit       int
	FetchWindow      string // "hour", "day", "week", "month"
	FetchConcurrency int
	ScanConcurrency  int

	// External scoring service; the heuristic analyzer is used when unset
	ScoringAPIURL string
	ScoringAPIKey string

	// Azure archive for scan run summaries (optional)
	StorageAccount   string
	StorageContainer string

	// Seed monitor created on first start when the database holds none
	SeedKeywords   []string
	SeedSubreddits []string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:  getEnv("PORT", "8080"),
		Debug: getBoolEnv("DEBUG", false),

		DatabasePath: getEnv("DATABASE_PATH", "leadwatch.db"),

		ScanSchedule: getEnv("SCAN_SCHEDULE", "hourly"),

		RedditClientID:     getEnv("REDDIT_CLIENT_ID", ""),
		RedditClientSecret: getEnv("REDDIT_CLIENT_SECRET", ""),
		RedditUserAgent:    getEnv("REDDIT_USER_AGENT", "leadwatch-bot/1.0"),

		FetchLimit:       getIntEnv("FETCH_LIMIT", 50),
		FetchWindow:      getEnv("FETCH_WINDOW", "week"),
		FetchConcurrency: getIntEnv("FETCH_CONCURRENCY", 3),
		ScanConcurrency:  getIntEnv("SCAN_CONCURRENCY", 2),

		ScoringAPIURL: getEnv("SCORING_API_URL", ""),
		ScoringAPIKey: getEnv("SCORING_API_KEY", ""),

		StorageAccount:   getEnv("AZURE_STORAGE_ACCOUNT", ""),
		StorageContainer: getEnv("AZURE_STORAGE_CONTAINER", "scan-reports"),

		SeedKeywords:   getSliceEnv("KEYWORDS", nil),
		SeedSubreddits: getSliceEnv("SUBREDDITS", nil),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.ScanSchedule {
	case "hourly", "daily", "weekly":
	default:
		return fmt.Errorf("SCAN_SCHEDULE must be 'hourly', 'daily' or 'weekly'")
	}

	if c.FetchLimit < 1 || c.FetchLimit > 100 {
		return fmt.Errorf("FETCH_LIMIT must be between 1 and 100")
	}
	if c.FetchConcurrency < 1 {
		return fmt.Errorf("FETCH_CONCURRENCY must be at least 1")
	}
	if c.ScanConcurrency < 1 {
		return fmt.Errorf("SCAN_CONCURRENCY must be at least 1")
	}

	if c.ScoringAPIURL != "" && c.ScoringAPIKey == "" {
		return fmt.Errorf("SCORING_API_KEY is required when SCORING_API_URL is set")
	}

	return nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return defaultValue
}
