package sources

import "context"

// Post is one normalized content item returned by a source.
type Post struct {
	ExternalID  string
	Title       string
	Body        string
	Author      string
	Subreddit   string
	URL         string
	Score       int
	NumComments int
	CreatedUTC  int64
}

// SearchOptions bound a single fetch call.
type SearchOptions struct {
	Subreddit  string // restrict a keyword search to one subreddit
	Sort       string // "new", "hot", "top"
	TimeWindow string // "hour", "day", "week", "month"
	Limit      int
}

// Source is the contract every content platform adapter satisfies.
//
// IsConfigured reports whether live credentials are present; an unconfigured
// source serves a built-in sample dataset instead of failing, so the scan
// pipeline stays exercisable without credentials.
type Source interface {
	Name() string
	IsConfigured() bool
	SearchPosts(ctx context.Context, query string, opts SearchOptions) ([]Post, error)
	ListSubreddit(ctx context.Context, subreddit string, opts SearchOptions) ([]Post, error)
}
