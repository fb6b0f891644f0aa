package monitoring

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/leadwatch/leadwatch-bot/internal/config"
	"github.com/leadwatch/leadwatch-bot/internal/matcher"
	"github.com/leadwatch/leadwatch-bot/internal/models"
	"github.com/leadwatch/leadwatch-bot/internal/scoring"
	"github.com/leadwatch/leadwatch-bot/internal/sources"
	"github.com/leadwatch/leadwatch-bot/internal/storage"
)

// ErrMonitorInactive is returned when a scan targets a missing or disabled
// monitor. Caller error, never retried here.
var ErrMonitorInactive = errors.New("monitor is missing or inactive")

// At most this many keyword rules are turned into search calls per scan, to
// bound external call volume. Matching still runs against the full rule list.
const keywordSearchCap = 3

// Service orchestrates monitor scans: fetch candidates, match keyword rules,
// skip already-ingested items, score the rest and persist mentions plus one
// scan log per scan.
type Service struct {
	config  *config.Config
	store   storage.Store
	source  sources.Source
	scorer  scoring.Analyzer
	archive storage.ReportArchive

	metrics *Metrics
	mu      sync.RWMutex
}

// Metrics holds in-memory counters for the most recent all-monitors run.
type Metrics struct {
	TotalMentions   int            `json:"total_mentions"`
	LastRun         time.Time      `json:"last_run"`
	LastRunDuration string         `json:"last_run_duration"`
	MonitorMetrics  map[string]int `json:"monitor_metrics"`
	ErrorCount      int            `json:"error_count"`
}

// NewService creates a new scan orchestrator.
func NewService(cfg *config.Config, store storage.Store, source sources.Source, scorer scoring.Analyzer, archive storage.ReportArchive) *Service {
	return &Service{
		config:  cfg,
		store:   store,
		source:  source,
		scorer:  scorer,
		archive: archive,
		metrics: &Metrics{
			MonitorMetrics: make(map[string]int),
		},
	}
}

// RunMonitorScan scans one monitor. Exactly one scan log entry is written
// per scan, whether it succeeds or fails; the error (if any) is returned to
// the caller after logging so retry and alerting stay a caller decision.
func (s *Service) RunMonitorScan(ctx context.Context, monitorID string) (models.ScanResult, error) {
	start := time.Now()

	monitor, err := s.store.GetMonitor(ctx, monitorID)
	if err != nil {
		return models.ScanResult{}, fmt.Errorf("failed to load monitor %s: %w", monitorID, err)
	}
	if monitor == nil || !monitor.IsActive {
		return models.ScanResult{}, fmt.Errorf("%w: %s", ErrMonitorInactive, monitorID)
	}

	logrus.Infof("Scanning monitor %s (%s)", monitor.ID, monitor.Name)

	result, scanErr := s.scanMonitor(ctx, monitor)
	result.DurationMs = time.Since(start).Milliseconds()

	entry := &models.ScanLog{
		MonitorID:     monitor.ID,
		Platform:      s.source.Name(),
		PostsScanned:  result.PostsScanned,
		MentionsFound: result.MentionsFound,
		DurationMs:    result.DurationMs,
	}
	if scanErr != nil {
		entry.Error = scanErr.Error()
	}
	if err := s.store.AppendScanLog(ctx, entry); err != nil {
		logrus.Errorf("Failed to append scan log for monitor %s: %v", monitor.ID, err)
	}

	if scanErr != nil {
		logrus.Errorf("Scan of monitor %s failed after %d posts: %v", monitor.ID, result.PostsScanned, scanErr)
		return result, scanErr
	}

	logrus.Infof("Scan of monitor %s done: %d posts scanned, %d new mentions in %dms",
		monitor.ID, result.PostsScanned, result.MentionsFound, result.DurationMs)
	return result, nil
}

func (s *Service) scanMonitor(ctx context.Context, monitor *models.Monitor) (models.ScanResult, error) {
	posts, fetchErr := s.fetchCandidates(ctx, monitor)
	result := models.ScanResult{PostsScanned: len(posts)}
	if fetchErr != nil {
		return result, fetchErr
	}

	for _, post := range posts {
		match := matcher.Match(post.Title+" "+post.Body, monitor.Keywords)
		if !match.Matched {
			continue
		}

		exists, err := s.store.MentionExists(ctx, s.source.Name(), post.ExternalID)
		if err != nil {
			return result, fmt.Errorf("dedup check failed: %w", err)
		}
		if exists {
			continue
		}

		mention, err := s.enrich(ctx, monitor, post, match.Keywords)
		if err != nil {
			// One bad item must not sink the scan; the dedup gate lets a
			// later run pick it up again.
			logrus.Warnf("Skipping post %s for monitor %s, scoring failed: %v", post.ExternalID, monitor.ID, err)
			continue
		}

		if err := s.store.CreateMention(ctx, mention); err != nil {
			if errors.Is(err, storage.ErrDuplicateKey) {
				logrus.Debugf("Post %s already ingested by a concurrent scan, skipping", post.ExternalID)
				continue
			}
			return result, fmt.Errorf("failed to persist mention: %w", err)
		}

		result.MentionsFound++
	}

	return result, nil
}

// fetchCandidates gathers the candidate set for one monitor through a bounded
// concurrent fan-out: one listing call per configured subreddit, or one
// search call per keyword (capped) when no scope is set. On error the partial
// candidate set gathered so far is still returned for audit counts.
func (s *Service) fetchCandidates(ctx context.Context, monitor *models.Monitor) ([]sources.Post, error) {
	opts := sources.SearchOptions{
		Sort:       "new",
		TimeWindow: s.config.FetchWindow,
		Limit:      s.config.FetchLimit,
	}

	var calls []func(context.Context) ([]sources.Post, error)
	if len(monitor.Subreddits) > 0 {
		for _, subreddit := range monitor.Subreddits {
			subreddit := subreddit
			calls = append(calls, func(ctx context.Context) ([]sources.Post, error) {
				return s.source.ListSubreddit(ctx, subreddit, opts)
			})
		}
	} else {
		keywords := monitor.Keywords
		if len(keywords) > keywordSearchCap {
			keywords = keywords[:keywordSearchCap]
		}
		for _, keyword := range keywords {
			query := matcher.StripQuotes(keyword)
			calls = append(calls, func(ctx context.Context) ([]sources.Post, error) {
				return s.source.SearchPosts(ctx, query, opts)
			})
		}
	}

	workers := s.config.FetchConcurrency
	if workers < 1 {
		workers = 1
	}
	sem := make(chan struct{}, workers)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		posts    []sources.Post
		firstErr error
	)

	for _, call := range calls {
		wg.Add(1)
		go func(fetch func(context.Context) ([]sources.Post, error)) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			fetched, err := fetch(ctx)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			posts = append(posts, fetched...)
		}(call)
	}
	wg.Wait()

	return posts, firstErr
}

func (s *Service) enrich(ctx context.Context, monitor *models.Monitor, post sources.Post, matched []string) (*models.Mention, error) {
	text := strings.TrimSpace(post.Title + " " + post.Body)

	sentiment, err := s.scorer.AnalyzeSentiment(ctx, text)
	if err != nil {
		return nil, err
	}

	lead, err := s.scorer.ScoreLead(ctx, post.Title, post.Body, scoring.PostContext{
		Subreddit:   post.Subreddit,
		Score:       post.Score,
		NumComments: post.NumComments,
	})
	if err != nil {
		return nil, err
	}

	return &models.Mention{
		ID:              uuid.NewString(),
		UserID:          monitor.UserID,
		MonitorID:       monitor.ID,
		Platform:        s.source.Name(),
		ExternalID:      post.ExternalID,
		Title:           post.Title,
		Content:         post.Body,
		Author:          post.Author,
		URL:             post.URL,
		Subreddit:       post.Subreddit,
		Score:           post.Score,
		CommentCount:    post.NumComments,
		Sentiment:       sentiment.Label,
		SentimentScore:  sentiment.Score,
		LeadScore:       lead.Score,
		LeadReason:      lead.Reason,
		MatchedKeywords: matched,
		PostedAt:        time.Unix(post.CreatedUTC, 0).UTC(),
	}, nil
}

// RunAllMonitorScans scans every active monitor through a bounded worker
// pool. A failing monitor is captured in its own result entry and never
// stops the remaining monitors. This method never returns an error.
func (s *Service) RunAllMonitorScans(ctx context.Context) []models.MonitorScanResult {
	start := time.Now()

	monitors, err := s.store.ListActiveMonitors(ctx)
	if err != nil {
		logrus.Errorf("Failed to list active monitors: %v", err)
		return []models.MonitorScanResult{}
	}
	if len(monitors) == 0 {
		logrus.Info("No active monitors to scan")
		return []models.MonitorScanResult{}
	}

	logrus.Infof("Scanning %d active monitors", len(monitors))

	workers := s.config.ScanConcurrency
	if workers < 1 {
		workers = 1
	}
	sem := make(chan struct{}, workers)

	results := make([]models.MonitorScanResult, len(monitors))
	var wg sync.WaitGroup

	for i, monitor := range monitors {
		wg.Add(1)
		go func(i int, monitorID string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			scan, err := s.RunMonitorScan(ctx, monitorID)
			result := models.MonitorScanResult{
				MonitorID:  monitorID,
				Success:    err == nil,
				ScanResult: scan,
			}
			if err != nil {
				result.Error = err.Error()
			}
			results[i] = result
		}(i, monitor.ID)
	}
	wg.Wait()

	s.updateMetrics(results, time.Since(start))
	s.archiveRun(results)

	return results
}

func (s *Service) updateMetrics(results []models.MonitorScanResult, duration time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.metrics.LastRun = time.Now()
	s.metrics.LastRunDuration = duration.String()
	s.metrics.TotalMentions = 0
	s.metrics.ErrorCount = 0
	s.metrics.MonitorMetrics = make(map[string]int)

	for _, result := range results {
		s.metrics.TotalMentions += result.MentionsFound
		s.metrics.MonitorMetrics[result.MonitorID] = result.MentionsFound
		if !result.Success {
			s.metrics.ErrorCount++
		}
	}
}

// archiveRun uploads the run summary to the configured archive. Best effort:
// an archive failure never fails the run.
func (s *Service) archiveRun(results []models.MonitorScanResult) {
	if len(results) == 0 {
		return
	}

	data, err := json.Marshal(results)
	if err != nil {
		logrus.Errorf("Failed to marshal run summary: %v", err)
		return
	}

	name := fmt.Sprintf("scans/run-%s.json", time.Now().UTC().Format("2006-01-02-15-04-05"))
	if err := s.archive.Store(name, data); err != nil {
		logrus.Errorf("Failed to archive run summary: %v", err)
	}
}

// GetMetrics returns the current metrics as JSON.
func (s *Service) GetMetrics() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, _ := json.MarshalIndent(s.metrics, "", "  ")
	return string(data)
}
