package scoring

import (
	"context"
	"errors"
)

// ErrScoring marks failures of the scoring collaborator. A scoring failure
// for one item skips that item; it never aborts the surrounding scan.
var ErrScoring = errors.New("scoring failed")

// Sentiment is the outcome of sentiment analysis for one text.
type Sentiment struct {
	Label string  `json:"label"` // "positive", "neutral", "negative"
	Score float64 `json:"score"` // roughly [-1, 1]
}

// Lead is a 0-100 estimate of sales potential with a human-readable reason.
type Lead struct {
	Score  int    `json:"score"`
	Reason string `json:"reason"`
}

// PostContext carries source metadata that informs lead scoring.
type PostContext struct {
	Subreddit   string `json:"subreddit"`
	Score       int    `json:"score"`
	NumComments int    `json:"num_comments"`
}

// Analyzer is the scoring collaborator consumed by the scan engine.
type Analyzer interface {
	AnalyzeSentiment(ctx context.Context, text string) (Sentiment, error)
	ScoreLead(ctx context.Context, title, body string, meta PostContext) (Lead, error)
}
