package storage

import (
	"context"
	"errors"
	"time"

	"github.com/leadwatch/leadwatch-bot/internal/models"
)

// ErrDuplicateKey is returned by CreateMention when the (platform,
// external_id) pair already exists. The unique index is the single source of
// truth for "already ingested": a create racing against itself resolves to
// one winner and the loser receives this benign signal.
var ErrDuplicateKey = errors.New("duplicate key")

// Store is the persistence contract the scan engine depends on.
type Store interface {
	GetMonitor(ctx context.Context, id string) (*models.Monitor, error)
	ListActiveMonitors(ctx context.Context) ([]models.Monitor, error)
	MentionExists(ctx context.Context, platform, externalID string) (bool, error)
	CreateMention(ctx context.Context, mention *models.Mention) error
	AppendScanLog(ctx context.Context, entry *models.ScanLog) error
}

// MentionFilters narrows a mention listing. Zero values mean "no filter".
type MentionFilters struct {
	MonitorID    string
	Platform     string
	MinLeadScore int
	IsRead       *bool
	IsFlagged    *bool
	Limit        int
	Offset       int
	SortBy       string // "created_at", "posted_at", "lead_score", "score"
	SortOrder    string // "asc" or "desc"
}

// MentionPage is one page of a mention listing.
type MentionPage struct {
	Mentions []models.Mention `json:"mentions"`
	Total    int64            `json:"total"`
}

// Stats aggregates a user's mentions by platform and sentiment.
type Stats struct {
	Total       int64            `json:"total"`
	ByPlatform  map[string]int64 `json:"by_platform"`
	BySentiment map[string]int64 `json:"by_sentiment"`
}

// StatsFilters scope an aggregation.
type StatsFilters struct {
	Since     time.Time
	MonitorID string
}

// ReportArchive persists scan run summaries outside the primary store.
type ReportArchive interface {
	Store(name string, data []byte) error
	List(prefix string) ([]string, error)
}

// NoopArchive discards run summaries. Used when no archive is configured.
type NoopArchive struct{}

var _ ReportArchive = NoopArchive{}

func (NoopArchive) Store(string, []byte) error    { return nil }
func (NoopArchive) List(string) ([]string, error) { return nil, nil }
