package scoring

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeuristic_AnalyzeSentiment(t *testing.T) {
	analyzer := NewHeuristic()
	ctx := context.Background()

	tests := []struct {
		name          string
		text          string
		expectedLabel string
	}{
		{
			name:          "Positive text",
			text:          "This tool is great, works perfectly and solved my problem fast. Awesome support too.",
			expectedLabel: "positive",
		},
		{
			name:          "Negative text",
			text:          "Terrible experience, the export is broken and support was awful.",
			expectedLabel: "negative",
		},
		{
			name:          "Neutral text",
			text:          "We deploy on Fridays and roll back on Mondays.",
			expectedLabel: "neutral",
		},
		{
			name:          "Mixed text",
			text:          "Great idea but the implementation is broken.",
			expectedLabel: "neutral",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sentiment, err := analyzer.AnalyzeSentiment(ctx, tt.text)
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedLabel, sentiment.Label)
		})
	}
}

func TestHeuristic_SentimentScoreSign(t *testing.T) {
	analyzer := NewHeuristic()
	ctx := context.Background()

	positive, err := analyzer.AnalyzeSentiment(ctx, "love it, works great")
	assert.NoError(t, err)
	assert.Greater(t, positive.Score, 0.0)

	negative, err := analyzer.AnalyzeSentiment(ctx, "broken and full of bugs")
	assert.NoError(t, err)
	assert.Less(t, negative.Score, 0.0)

	neutral, err := analyzer.AnalyzeSentiment(ctx, "it exists")
	assert.NoError(t, err)
	assert.Zero(t, neutral.Score)
}

func TestHeuristic_ScoreLead(t *testing.T) {
	analyzer := NewHeuristic()
	ctx := context.Background()

	buying, err := analyzer.ScoreLead(ctx,
		"Looking for a screenshot API, would pay for something reliable",
		"Any recommendations?",
		PostContext{Subreddit: "webdev", Score: 42, NumComments: 17})
	assert.NoError(t, err)

	plain, err := analyzer.ScoreLead(ctx,
		"Deployed my side project today",
		"It renders charts.",
		PostContext{Subreddit: "webdev"})
	assert.NoError(t, err)

	assert.Greater(t, buying.Score, plain.Score)
	assert.Contains(t, buying.Reason, "asks for a solution")
	assert.Equal(t, "no buying signals detected", plain.Reason)
}

func TestHeuristic_ScoreLeadBounds(t *testing.T) {
	analyzer := NewHeuristic()
	ctx := context.Background()

	lead, err := analyzer.ScoreLead(ctx,
		"Looking for an alternative to our current tool, would pay, what do you use?",
		"Any recommendations? How do I pick one?",
		PostContext{Score: 500, NumComments: 200})
	assert.NoError(t, err)
	assert.LessOrEqual(t, lead.Score, 100)
	assert.GreaterOrEqual(t, lead.Score, 0)
	assert.NotEmpty(t, lead.Reason)
}

func TestHeuristic_ScoreLeadEngagementTiers(t *testing.T) {
	analyzer := NewHeuristic()
	ctx := context.Background()

	quiet, err := analyzer.ScoreLead(ctx, "A plain post", "Nothing here.", PostContext{NumComments: 0})
	assert.NoError(t, err)

	some, err := analyzer.ScoreLead(ctx, "A plain post", "Nothing here.", PostContext{NumComments: 5})
	assert.NoError(t, err)

	busy, err := analyzer.ScoreLead(ctx, "A plain post", "Nothing here.", PostContext{NumComments: 30})
	assert.NoError(t, err)

	assert.Greater(t, some.Score, quiet.Score)
	assert.Greater(t, busy.Score, some.Score)
}
