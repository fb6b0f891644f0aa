package sources

import (
	"strings"
	"time"
)

// Built-in dataset served when no Reddit credentials are configured. Keeps
// the full scan pipeline exercisable offline.
var samplePosts = []Post{
	{
		ExternalID:  "sample1",
		Title:       "Looking for a screenshot API that handles single page apps",
		Body:        "We render dashboards client side and every screenshot API I tried returns a blank page. Any recommendations?",
		Author:      "frontend_fatigue",
		Subreddit:   "webdev",
		URL:         "https://reddit.com/r/webdev/comments/sample1",
		Score:       42,
		NumComments: 17,
	},
	{
		ExternalID:  "sample2",
		Title:       "PDF generation from HTML keeps breaking on page margins",
		Body:        "Is there a service that does PDF generation reliably? wkhtmltopdf is driving me crazy and I would pay for something that just works.",
		Author:      "invoice_builder",
		Subreddit:   "SaaS",
		URL:         "https://reddit.com/r/SaaS/comments/sample2",
		Score:       18,
		NumComments: 9,
	},
	{
		ExternalID:  "sample3",
		Title:       "Show off Saturday: my weekend project",
		Body:        "Built a small habit tracker over the weekend, feedback welcome.",
		Author:      "weekend_hacker",
		Subreddit:   "SideProject",
		URL:         "https://reddit.com/r/SideProject/comments/sample3",
		Score:       7,
		NumComments: 3,
	},
	{
		ExternalID:  "sample4",
		Title:       "What do you use to monitor brand mentions?",
		Body:        "Our marketing team wants alerts when someone talks about us. Keyword monitoring tools seem either overpriced or broken.",
		Author:      "growth_lead",
		Subreddit:   "marketing",
		URL:         "https://reddit.com/r/marketing/comments/sample4",
		Score:       55,
		NumComments: 31,
	},
	{
		ExternalID:  "sample5",
		Title:       "Recommend an uptime monitoring tool for a small team?",
		Body:        "Nothing fancy, just ping checks and a status page. Bonus if the API is decent.",
		Author:      "solo_sre",
		Subreddit:   "devops",
		URL:         "https://reddit.com/r/devops/comments/sample5",
		Score:       23,
		NumComments: 12,
	},
}

func sampleSearch(query string) []Post {
	q := strings.ToLower(query)
	var matched []Post
	for _, post := range samplePosts {
		content := strings.ToLower(post.Title + " " + post.Body)
		if strings.Contains(content, q) {
			matched = append(matched, withRecentTimestamp(post))
		}
	}
	return matched
}

func sampleListing(subreddit string) []Post {
	var matched []Post
	for _, post := range samplePosts {
		if strings.EqualFold(post.Subreddit, subreddit) {
			matched = append(matched, withRecentTimestamp(post))
		}
	}
	return matched
}

func withRecentTimestamp(post Post) Post {
	post.CreatedUTC = time.Now().Add(-2 * time.Hour).Unix()
	return post
}
