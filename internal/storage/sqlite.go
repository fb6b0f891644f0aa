package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/leadwatch/leadwatch-bot/internal/models"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100

	// Mentions below this lead score never show up as top leads.
	topLeadFloor = 50
)

// SQLiteStore implements the persistence contracts on SQLite via GORM.
type SQLiteStore struct {
	db *gorm.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (or creates) the database at path and migrates the
// schema. TranslateError is enabled so unique constraint violations surface
// as gorm.ErrDuplicatedKey.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}

	if err := db.AutoMigrate(&models.Monitor{}, &models.Mention{}, &models.ScanLog{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// CreateMonitor validates and persists a new monitor.
func (s *SQLiteStore) CreateMonitor(ctx context.Context, monitor *models.Monitor) error {
	if err := monitor.Validate(); err != nil {
		return err
	}
	if monitor.ID == "" {
		monitor.ID = uuid.NewString()
	}
	if len(monitor.Platforms) == 0 {
		monitor.Platforms = models.StringList{"reddit"}
	}
	if err := s.db.WithContext(ctx).Create(monitor).Error; err != nil {
		return fmt.Errorf("failed to create monitor: %w", err)
	}
	return nil
}

// GetMonitor returns a monitor by id, or nil when it does not exist.
func (s *SQLiteStore) GetMonitor(ctx context.Context, id string) (*models.Monitor, error) {
	var monitor models.Monitor
	err := s.db.WithContext(ctx).First(&monitor, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load monitor %s: %w", id, err)
	}
	return &monitor, nil
}

// ListActiveMonitors returns every active monitor, oldest first.
func (s *SQLiteStore) ListActiveMonitors(ctx context.Context) ([]models.Monitor, error) {
	var monitors []models.Monitor
	err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at asc").
		Find(&monitors).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active monitors: %w", err)
	}
	return monitors, nil
}

// UpdateMonitor persists changed monitor fields.
func (s *SQLiteStore) UpdateMonitor(ctx context.Context, monitor *models.Monitor) error {
	if err := monitor.Validate(); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Save(monitor).Error; err != nil {
		return fmt.Errorf("failed to update monitor %s: %w", monitor.ID, err)
	}
	return nil
}

// CreateMention persists a new mention. Returns ErrDuplicateKey when the
// (platform, external_id) pair was already ingested.
func (s *SQLiteStore) CreateMention(ctx context.Context, mention *models.Mention) error {
	if mention.ID == "" {
		mention.ID = uuid.NewString()
	}
	err := s.db.WithContext(ctx).Create(mention).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: mention %s/%s", ErrDuplicateKey, mention.Platform, mention.ExternalID)
	}
	if err != nil {
		return fmt.Errorf("failed to create mention: %w", err)
	}
	return nil
}

// MentionExists reports whether an item was already ingested.
func (s *SQLiteStore) MentionExists(ctx context.Context, platform, externalID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Mention{}).
		Where("platform = ? AND external_id = ?", platform, externalID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check mention existence: %w", err)
	}
	return count > 0, nil
}

// FindMentionByPlatformExternalID returns the mention for an external item,
// or nil when none was ingested.
func (s *SQLiteStore) FindMentionByPlatformExternalID(ctx context.Context, platform, externalID string) (*models.Mention, error) {
	var mention models.Mention
	err := s.db.WithContext(ctx).
		First(&mention, "platform = ? AND external_id = ?", platform, externalID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load mention %s/%s: %w", platform, externalID, err)
	}
	return &mention, nil
}

// ListMentions returns one page of a user's mentions matching the filters.
func (s *SQLiteStore) ListMentions(ctx context.Context, userID string, filters MentionFilters) (MentionPage, error) {
	query := s.db.WithContext(ctx).Model(&models.Mention{}).Where("user_id = ?", userID)

	if filters.MonitorID != "" {
		query = query.Where("monitor_id = ?", filters.MonitorID)
	}
	if filters.Platform != "" {
		query = query.Where("platform = ?", filters.Platform)
	}
	if filters.MinLeadScore > 0 {
		query = query.Where("lead_score >= ?", filters.MinLeadScore)
	}
	if filters.IsRead != nil {
		query = query.Where("is_read = ?", *filters.IsRead)
	}
	if filters.IsFlagged != nil {
		query = query.Where("is_flagged = ?", *filters.IsFlagged)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return MentionPage{}, fmt.Errorf("failed to count mentions: %w", err)
	}

	limit := filters.Limit
	if limit <= 0 || limit > maxPageSize {
		limit = defaultPageSize
	}

	var mentions []models.Mention
	err := query.Order(orderClause(filters.SortBy, filters.SortOrder)).
		Limit(limit).
		Offset(filters.Offset).
		Find(&mentions).Error
	if err != nil {
		return MentionPage{}, fmt.Errorf("failed to list mentions: %w", err)
	}

	return MentionPage{Mentions: mentions, Total: total}, nil
}

// UpdateMentionFlags mutates the read/flagged/archived flags of one mention.
// Nil pointers leave the corresponding flag untouched.
func (s *SQLiteStore) UpdateMentionFlags(ctx context.Context, id string, isRead, isFlagged, isArchived *bool) error {
	updates := map[string]interface{}{}
	if isRead != nil {
		updates["is_read"] = *isRead
	}
	if isFlagged != nil {
		updates["is_flagged"] = *isFlagged
	}
	if isArchived != nil {
		updates["is_archived"] = *isArchived
	}
	if len(updates) == 0 {
		return nil
	}

	result := s.db.WithContext(ctx).Model(&models.Mention{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update mention %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("mention %s not found", id)
	}
	return nil
}

// AggregateStats counts a user's mentions by platform and by sentiment.
func (s *SQLiteStore) AggregateStats(ctx context.Context, userID string, filters StatsFilters) (Stats, error) {
	base := s.db.WithContext(ctx).Model(&models.Mention{}).Where("user_id = ?", userID)
	if !filters.Since.IsZero() {
		base = base.Where("created_at >= ?", filters.Since)
	}
	if filters.MonitorID != "" {
		base = base.Where("monitor_id = ?", filters.MonitorID)
	}

	stats := Stats{
		ByPlatform:  make(map[string]int64),
		BySentiment: make(map[string]int64),
	}

	if err := base.Session(&gorm.Session{}).Count(&stats.Total).Error; err != nil {
		return Stats{}, fmt.Errorf("failed to count mentions: %w", err)
	}

	type bucket struct {
		Key   string
		Count int64
	}

	var byPlatform []bucket
	err := base.Session(&gorm.Session{}).
		Select("platform as key, count(*) as count").
		Group("platform").
		Scan(&byPlatform).Error
	if err != nil {
		return Stats{}, fmt.Errorf("failed to aggregate by platform: %w", err)
	}
	for _, b := range byPlatform {
		stats.ByPlatform[b.Key] = b.Count
	}

	var bySentiment []bucket
	err = base.Session(&gorm.Session{}).
		Select("sentiment as key, count(*) as count").
		Group("sentiment").
		Scan(&bySentiment).Error
	if err != nil {
		return Stats{}, fmt.Errorf("failed to aggregate by sentiment: %w", err)
	}
	for _, b := range bySentiment {
		stats.BySentiment[b.Key] = b.Count
	}

	return stats, nil
}

// TopLeads returns a user's highest scoring mentions, best first.
func (s *SQLiteStore) TopLeads(ctx context.Context, userID string, limit int) ([]models.Mention, error) {
	if limit <= 0 || limit > maxPageSize {
		limit = defaultPageSize
	}

	var mentions []models.Mention
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND lead_score >= ?", userID, topLeadFloor).
		Order("lead_score desc").
		Limit(limit).
		Find(&mentions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load top leads: %w", err)
	}
	return mentions, nil
}

// AppendScanLog writes one scan log entry. Entries are never updated or
// deleted.
func (s *SQLiteStore) AppendScanLog(ctx context.Context, entry *models.ScanLog) error {
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to append scan log: %w", err)
	}
	return nil
}

// ListScanLogs returns the most recent scan logs for one monitor.
func (s *SQLiteStore) ListScanLogs(ctx context.Context, monitorID string, limit int) ([]models.ScanLog, error) {
	if limit <= 0 || limit > maxPageSize {
		limit = defaultPageSize
	}

	var logs []models.ScanLog
	err := s.db.WithContext(ctx).
		Where("monitor_id = ?", monitorID).
		Order("id desc").
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list scan logs: %w", err)
	}
	return logs, nil
}

var sortColumns = map[string]string{
	"created_at": "created_at",
	"posted_at":  "posted_at",
	"lead_score": "lead_score",
	"score":      "score",
}

func orderClause(sortBy, sortOrder string) string {
	column, ok := sortColumns[sortBy]
	if !ok {
		column = "created_at"
	}
	order := "desc"
	if strings.EqualFold(sortOrder, "asc") {
		order = "asc"
	}
	return column + " " + order
}
