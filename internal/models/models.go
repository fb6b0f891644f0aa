package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// StringList is an ordered list of strings stored as a JSON text column.
// The encoding happens only at the persistence boundary; everywhere else the
// list is a first-class slice.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("failed to encode string list: %w", err)
	}
	return string(data), nil
}

func (l *StringList) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported type %T for StringList", value)
	}
}

// Monitor is a standing watch configuration owned by a user.
//
// A keyword rule wrapped in double quotes matches as an exact case-insensitive
// phrase; an unquoted rule matches as a whole word.
type Monitor struct {
	ID           string     `json:"id" gorm:"primaryKey"`
	UserID       string     `json:"user_id" gorm:"index"`
	Name         string     `json:"name"`
	Keywords     StringList `json:"keywords" gorm:"type:text"`
	Subreddits   StringList `json:"subreddits" gorm:"type:text"`
	Platforms    StringList `json:"platforms" gorm:"type:text"`
	MinLeadScore int        `json:"min_lead_score"`
	IsActive     bool       `json:"is_active" gorm:"index"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Validate checks the monitor invariants before it is persisted.
func (m *Monitor) Validate() error {
	if len(m.Keywords) == 0 {
		return fmt.Errorf("monitor requires at least one keyword")
	}
	if m.MinLeadScore < 0 || m.MinLeadScore > 100 {
		return fmt.Errorf("min lead score must be between 0 and 100, got %d", m.MinLeadScore)
	}
	return nil
}

// Mention is one ingested content item that matched a monitor's rules.
// The (platform, external_id) pair is globally unique; a second ingestion
// attempt for the same item must not produce a duplicate row.
type Mention struct {
	ID              string     `json:"id" gorm:"primaryKey"`
	UserID          string     `json:"user_id" gorm:"index"`
	MonitorID       string     `json:"monitor_id" gorm:"index"`
	Platform        string     `json:"platform" gorm:"uniqueIndex:idx_mentions_platform_external"`
	ExternalID      string     `json:"external_id" gorm:"uniqueIndex:idx_mentions_platform_external"`
	Title           string     `json:"title"`
	Content         string     `json:"content"`
	Author          string     `json:"author"`
	URL             string     `json:"url"`
	Subreddit       string     `json:"subreddit"`
	Score           int        `json:"score"`
	CommentCount    int        `json:"comment_count"`
	Sentiment       string     `json:"sentiment"` // "positive", "negative", "neutral"
	SentimentScore  float64    `json:"sentiment_score"`
	LeadScore       int        `json:"lead_score"`
	LeadReason      string     `json:"lead_reason"`
	MatchedKeywords StringList `json:"matched_keywords" gorm:"type:text"`
	IsRead          bool       `json:"is_read"`
	IsFlagged       bool       `json:"is_flagged"`
	IsArchived      bool       `json:"is_archived"`
	PostedAt        time.Time  `json:"posted_at"`
	CreatedAt       time.Time  `json:"created_at"`
}

// ScanLog is one append-only audit record per scan attempt.
type ScanLog struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	MonitorID     string    `json:"monitor_id" gorm:"index"`
	Platform      string    `json:"platform"`
	PostsScanned  int       `json:"posts_scanned"`
	MentionsFound int       `json:"mentions_found"`
	DurationMs    int64     `json:"duration_ms"`
	Error         string    `json:"error,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// ScanResult summarizes a single monitor scan.
type ScanResult struct {
	PostsScanned  int   `json:"posts_scanned"`
	MentionsFound int   `json:"mentions_found"`
	DurationMs    int64 `json:"duration_ms"`
}

// MonitorScanResult is one entry in the outcome of an all-monitors run.
type MonitorScanResult struct {
	MonitorID string `json:"monitor_id"`
	Success   bool   `json:"success"`
	ScanResult
	Error string `json:"error,omitempty"`
}
