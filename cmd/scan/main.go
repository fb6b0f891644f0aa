// Command scan runs a single scan pass over every active monitor and prints
// the results. Useful for local runs and for exercising the pipeline against
// the sample dataset when no credentials are configured.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/leadwatch/leadwatch-bot/internal/config"
	"github.com/leadwatch/leadwatch-bot/internal/models"
	"github.com/leadwatch/leadwatch-bot/internal/monitoring"
	"github.com/leadwatch/leadwatch-bot/internal/scoring"
	"github.com/leadwatch/leadwatch-bot/internal/sources"
	"github.com/leadwatch/leadwatch-bot/internal/storage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logrus.SetLevel(logrus.WarnLevel)
	if cfg.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	store, err := storage.NewSQLiteStore(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	ctx := context.Background()

	monitors, err := store.ListActiveMonitors(ctx)
	if err != nil {
		log.Fatalf("Failed to list monitors: %v", err)
	}
	if len(monitors) == 0 {
		keywords := cfg.SeedKeywords
		if len(keywords) == 0 {
			fmt.Println("No active monitors and no KEYWORDS configured, nothing to scan.")
			os.Exit(1)
		}
		monitor := &models.Monitor{
			UserID:     "default",
			Name:       "Ad-hoc scan",
			Keywords:   keywords,
			Subreddits: cfg.SeedSubreddits,
			IsActive:   true,
		}
		if err := store.CreateMonitor(ctx, monitor); err != nil {
			log.Fatalf("Failed to create monitor: %v", err)
		}
		fmt.Printf("Created monitor %s for keywords %v\n", monitor.ID, keywords)
	}

	source := sources.NewRedditSource(cfg.RedditClientID, cfg.RedditClientSecret, cfg.RedditUserAgent)
	if !source.IsConfigured() {
		fmt.Println("Reddit credentials not configured, scanning the built-in sample dataset.")
	}

	var scorer scoring.Analyzer = scoring.NewHeuristic()
	if cfg.ScoringAPIURL != "" {
		scorer = scoring.NewRemote(cfg.ScoringAPIURL, cfg.ScoringAPIKey)
	}

	scanner := monitoring.NewService(cfg, store, source, scorer, storage.NoopArchive{})
	results := scanner.RunAllMonitorScans(ctx)

	fmt.Printf("\nScan results (%d monitors):\n", len(results))
	for _, result := range results {
		if !result.Success {
			fmt.Printf("  %s  FAILED after %d posts: %s\n", result.MonitorID, result.PostsScanned, result.Error)
			continue
		}
		fmt.Printf("  %s  %d posts scanned, %d new mentions (%dms)\n",
			result.MonitorID, result.PostsScanned, result.MentionsFound, result.DurationMs)
	}
}
