package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatch_QuotedRule(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		matched bool
	}{
		{
			name:    "Exact phrase",
			text:    "We need a screenshot API for our reports",
			matched: true,
		},
		{
			name:    "Case insensitive phrase",
			text:    "Looking at the Screenshot API docs",
			matched: true,
		},
		{
			name:    "Words present but split",
			text:    "took a screenshot of the API dashboard",
			matched: false,
		},
		{
			name:    "Phrase absent",
			text:    "we only generate PDFs here",
			matched: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Match(tt.text, []string{`"screenshot API"`})
			assert.Equal(t, tt.matched, result.Matched)
		})
	}
}

func TestMatch_WholeWordRule(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		matched bool
	}{
		{
			name:    "Exact word",
			text:    "is there an api for this?",
			matched: true,
		},
		{
			name:    "Different casing",
			text:    "the API returns JSON",
			matched: true,
		},
		{
			name:    "Substring of a longer word",
			text:    "we visited an apiary last weekend",
			matched: false,
		},
		{
			name:    "Word with punctuation boundary",
			text:    "love this api!",
			matched: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Match(tt.text, []string{"api"})
			assert.Equal(t, tt.matched, result.Matched)
		})
	}
}

func TestMatch_ReportsEveryFiredRuleInOriginalCasing(t *testing.T) {
	rules := []string{`"screenshot API"`, "PDF generation", "webhook"}

	result := Match("Our screenshot api broke during pdf generation", rules)

	assert.True(t, result.Matched)
	assert.Equal(t, []string{`"screenshot API"`, "PDF generation"}, result.Keywords)
}

func TestMatch_NoRulesFired(t *testing.T) {
	result := Match("nothing relevant here", []string{"api", `"screenshot API"`})

	assert.False(t, result.Matched)
	assert.Empty(t, result.Keywords)
}

func TestMatch_IgnoresBlankRules(t *testing.T) {
	result := Match("an api question", []string{"", "  ", `""`, "api"})

	assert.True(t, result.Matched)
	assert.Equal(t, []string{"api"}, result.Keywords)
}

func TestStripQuotes(t *testing.T) {
	tests := []struct {
		name     string
		rule     string
		expected string
	}{
		{
			name:     "Quoted rule",
			rule:     `"screenshot API"`,
			expected: "screenshot API",
		},
		{
			name:     "Unquoted rule",
			rule:     "api",
			expected: "api",
		},
		{
			name:     "Surrounding whitespace",
			rule:     `  "PDF generation"  `,
			expected: "PDF generation",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StripQuotes(tt.rule))
		})
	}
}
