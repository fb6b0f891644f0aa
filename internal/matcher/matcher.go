package matcher

import (
	"regexp"
	"strings"
)

// Result is the outcome of matching one text against a monitor's rules.
type Result struct {
	Matched  bool
	Keywords []string
}

// Match checks text against a list of keyword rules. A rule wrapped in double
// quotes matches as an exact case-insensitive substring; an unquoted rule
// matches as a case-insensitive whole word. Every rule that fires is reported
// in its original casing.
func Match(text string, rules []string) Result {
	lower := strings.ToLower(text)

	var fired []string
	for _, rule := range rules {
		trimmed := strings.TrimSpace(rule)
		if trimmed == "" {
			continue
		}

		if isQuoted(trimmed) {
			phrase := strings.ToLower(trimmed[1 : len(trimmed)-1])
			if phrase != "" && strings.Contains(lower, phrase) {
				fired = append(fired, rule)
			}
			continue
		}

		re, err := wholeWordPattern(trimmed)
		if err != nil {
			continue
		}
		if re.MatchString(text) {
			fired = append(fired, rule)
		}
	}

	return Result{Matched: len(fired) > 0, Keywords: fired}
}

// StripQuotes returns the plain search term for a rule, without the exact
// phrase quoting. Used when a rule is turned into a source search query.
func StripQuotes(rule string) string {
	trimmed := strings.TrimSpace(rule)
	if isQuoted(trimmed) {
		return trimmed[1 : len(trimmed)-1]
	}
	return trimmed
}

func isQuoted(s string) bool {
	return len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"'
}

func wholeWordPattern(keyword string) (*regexp.Regexp, error) {
	return regexp.Compile(`(?i)\b` + regexp.QuoteMeta(keyword) + `\b`)
}
