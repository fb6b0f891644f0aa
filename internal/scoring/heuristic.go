package scoring

import (
	"context"
	"fmt"
	"strings"
)

var positiveWords = []string{
	"good", "great", "excellent", "love", "awesome", "fantastic",
	"helpful", "works", "solved", "success",
}

var negativeWords = []string{
	"bad", "terrible", "awful", "hate", "broken", "error",
	"fail", "problem", "issue", "bug",
}

// Phrases that signal someone is actively shopping for a solution.
var intentPhrases = []string{
	"looking for", "any recommendations", "recommend a", "recommend an",
	"is there a tool", "is there a service", "what do you use",
	"alternative to", "would pay", "willing to pay", "how do i",
}

// Heuristic scores sentiment and lead potential from word lists. It is the
// default analyzer when no scoring service endpoint is configured.
type Heuristic struct{}

var _ Analyzer = (*Heuristic)(nil)

func NewHeuristic() *Heuristic {
	return &Heuristic{}
}

func (h *Heuristic) AnalyzeSentiment(_ context.Context, text string) (Sentiment, error) {
	content := strings.ToLower(text)

	positiveCount := 0
	negativeCount := 0
	for _, word := range positiveWords {
		if strings.Contains(content, word) {
			positiveCount++
		}
	}
	for _, word := range negativeWords {
		if strings.Contains(content, word) {
			negativeCount++
		}
	}

	total := positiveCount + negativeCount
	if total == 0 {
		return Sentiment{Label: "neutral", Score: 0}, nil
	}

	score := float64(positiveCount-negativeCount) / float64(total)
	label := "neutral"
	if positiveCount > negativeCount {
		label = "positive"
	} else if negativeCount > positiveCount {
		label = "negative"
	}

	return Sentiment{Label: label, Score: score}, nil
}

func (h *Heuristic) ScoreLead(_ context.Context, title, body string, meta PostContext) (Lead, error) {
	content := strings.ToLower(title + " " + body)

	score := 25
	var signals []string

	for _, phrase := range intentPhrases {
		if strings.Contains(content, phrase) {
			score += 20
			signals = append(signals, fmt.Sprintf("asks for a solution (%q)", phrase))
			break
		}
	}

	if strings.Contains(content, "?") {
		score += 10
		signals = append(signals, "poses a question")
	}

	if meta.NumComments >= 10 {
		score += 15
		signals = append(signals, fmt.Sprintf("active discussion (%d comments)", meta.NumComments))
	} else if meta.NumComments >= 3 {
		score += 5
		signals = append(signals, fmt.Sprintf("some discussion (%d comments)", meta.NumComments))
	}

	if meta.Score >= 20 {
		score += 10
		signals = append(signals, fmt.Sprintf("well upvoted (%d)", meta.Score))
	}

	if score > 100 {
		score = 100
	}

	reason := "no buying signals detected"
	if len(signals) > 0 {
		reason = strings.Join(signals, "; ")
	}

	return Lead{Score: score, Reason: reason}, nil
}
