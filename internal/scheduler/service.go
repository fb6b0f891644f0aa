package scheduler

import (
	"context"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/leadwatch/leadwatch-bot/internal/config"
	"github.com/leadwatch/leadwatch-bot/internal/monitoring"
)

// Service triggers periodic all-monitor scans.
type Service struct {
	config  *config.Config
	scanner *monitoring.Service
	cron    *cron.Cron
}

// NewService creates a new scheduler service.
func NewService(cfg *config.Config, scanner *monitoring.Service) *Service {
	return &Service{
		config:  cfg,
		scanner: scanner,
		cron:    cron.New(cron.WithSeconds()),
	}
}

// Start begins the scheduled scans.
func (s *Service) Start() error {
	var cronExpression string

	switch s.config.ScanSchedule {
	case "hourly":
		cronExpression = "0 0 * * * *"
	case "daily":
		// Run daily at 6 AM UTC
		cronExpression = "0 0 6 * * *"
	case "weekly":
		// Run weekly on Monday at 6 AM UTC
		cronExpression = "0 0 6 * * MON"
	default:
		cronExpression = "0 0 * * * *"
	}

	_, err := s.cron.AddFunc(cronExpression, func() {
		logrus.Info("Starting scheduled scan run")
		results := s.scanner.RunAllMonitorScans(context.Background())

		failed := 0
		for _, result := range results {
			if !result.Success {
				failed++
			}
		}
		logrus.Infof("Scheduled scan run finished: %d monitors, %d failed", len(results), failed)
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	logrus.Infof("Scheduler started with %s schedule", s.config.ScanSchedule)
	return nil
}

// Stop stops the scheduler.
func (s *Service) Stop() {
	if s.cron != nil {
		s.cron.Stop()
		logrus.Info("Scheduler stopped")
	}
}
