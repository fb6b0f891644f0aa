package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/leadwatch/leadwatch-bot/internal/config"
	"github.com/leadwatch/leadwatch-bot/internal/models"
	"github.com/leadwatch/leadwatch-bot/internal/monitoring"
	"github.com/leadwatch/leadwatch-bot/internal/scheduler"
	"github.com/leadwatch/leadwatch-bot/internal/scoring"
	"github.com/leadwatch/leadwatch-bot/internal/sources"
	"github.com/leadwatch/leadwatch-bot/internal/storage"
)

func main() {
	// Load environment variables from .env file if it exists
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logrus.SetLevel(logrus.InfoLevel)
	if cfg.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
	logrus.SetFormatter(&logrus.JSONFormatter{})

	logrus.Info("Starting leadwatch bot")

	store, err := storage.NewSQLiteStore(cfg.DatabasePath)
	if err != nil {
		logrus.Fatalf("Failed to initialize storage: %v", err)
	}

	if err := seedDefaultMonitor(store, cfg); err != nil {
		logrus.Fatalf("Failed to seed default monitor: %v", err)
	}

	source := sources.NewRedditSource(cfg.RedditClientID, cfg.RedditClientSecret, cfg.RedditUserAgent)
	if !source.IsConfigured() {
		logrus.Warn("Reddit credentials not configured, scans will use the built-in sample dataset")
	}

	var scorer scoring.Analyzer = scoring.NewHeuristic()
	if cfg.ScoringAPIURL != "" {
		scorer = scoring.NewRemote(cfg.ScoringAPIURL, cfg.ScoringAPIKey)
		logrus.Infof("Using remote scoring service at %s", cfg.ScoringAPIURL)
	}

	var archive storage.ReportArchive = storage.NoopArchive{}
	if cfg.StorageAccount != "" {
		archive, err = storage.NewAzureArchive(cfg.StorageAccount, cfg.StorageContainer)
		if err != nil {
			logrus.Fatalf("Failed to initialize report archive: %v", err)
		}
	}

	scanner := monitoring.NewService(cfg, store, source, scorer, archive)

	schedulerService := scheduler.NewService(cfg, scanner)
	if err := schedulerService.Start(); err != nil {
		logrus.Fatalf("Failed to start scheduler: %v", err)
	}
	defer schedulerService.Stop()

	// HTTP server for health checks, metrics and manual scan triggers
	router := mux.NewRouter()
	router.HandleFunc("/health", healthCheckHandler).Methods("GET")
	router.HandleFunc("/metrics", metricsHandler(scanner)).Methods("GET")
	router.HandleFunc("/scan", triggerAllHandler(scanner)).Methods("POST")
	router.HandleFunc("/scan/{monitorId}", triggerMonitorHandler(scanner)).Methods("POST")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logrus.Infof("HTTP server starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}

// seedDefaultMonitor creates one monitor from the KEYWORDS env var when the
// database holds no active monitors, so a fresh install scans something.
func seedDefaultMonitor(store *storage.SQLiteStore, cfg *config.Config) error {
	if len(cfg.SeedKeywords) == 0 {
		return nil
	}

	ctx := context.Background()
	monitors, err := store.ListActiveMonitors(ctx)
	if err != nil {
		return err
	}
	if len(monitors) > 0 {
		return nil
	}

	monitor := &models.Monitor{
		UserID:     "default",
		Name:       "Default monitor",
		Keywords:   cfg.SeedKeywords,
		Subreddits: cfg.SeedSubreddits,
		IsActive:   true,
	}
	if err := store.CreateMonitor(ctx, monitor); err != nil {
		return err
	}

	logrus.Infof("Seeded default monitor %s with %d keywords", monitor.ID, len(monitor.Keywords))
	return nil
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy","timestamp":"` + time.Now().Format(time.RFC3339) + `"}`))
}

func metricsHandler(scanner *monitoring.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(scanner.GetMetrics()))
	}
}

func triggerAllHandler(scanner *monitoring.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		go func() {
			results := scanner.RunAllMonitorScans(context.Background())
			logrus.Infof("Manual scan trigger finished for %d monitors", len(results))
		}()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte(`{"message":"Scan triggered"}`))
	}
}

func triggerMonitorHandler(scanner *monitoring.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		monitorID := mux.Vars(r)["monitorId"]

		result, err := scanner.RunMonitorScan(r.Context(), monitorID)
		w.Header().Set("Content-Type", "application/json")

		if errors.Is(err, monitoring.ErrMonitorInactive) {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		if err != nil {
			w.WriteHeader(http.StatusBadGateway)
			json.NewEncoder(w).Encode(map[string]interface{}{"error": err.Error(), "result": result})
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(result)
	}
}
