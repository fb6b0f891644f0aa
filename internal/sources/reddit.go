package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

const (
	redditAuthURL = "https://www.reddit.com/api/v1/access_token"
	redditAPIURL  = "https://oauth.reddit.com"

	// Tokens are refreshed this long before their real expiry.
	tokenExpiryMargin = 5 * time.Minute

	defaultFetchLimit = 50
)

// RedditSource fetches posts from the Reddit API. It owns the OAuth session
// lifecycle: the token is acquired lazily, cached with its expiry, and
// refreshed under a mutex so concurrent fetches against a stale token trigger
// at most one refresh.
type RedditSource struct {
	clientID     string
	clientSecret string
	userAgent    string
	client       *resty.Client

	authURL string
	apiURL  string

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

type redditAuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type redditListingResponse struct {
	Data struct {
		Children []struct {
			Data redditPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type redditPost struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Selftext    string  `json:"selftext"`
	Author      string  `json:"author"`
	Subreddit   string  `json:"subreddit"`
	Permalink   string  `json:"permalink"`
	Created     float64 `json:"created_utc"`
	Score       int     `json:"score"`
	NumComments int     `json:"num_comments"`
}

// NewRedditSource creates a new Reddit source.
func NewRedditSource(clientID, clientSecret, userAgent string) *RedditSource {
	return &RedditSource{
		clientID:     clientID,
		clientSecret: clientSecret,
		userAgent:    userAgent,
		client:       resty.New().SetTimeout(30 * time.Second),
		authURL:      redditAuthURL,
		apiURL:       redditAPIURL,
	}
}

func (r *RedditSource) Name() string {
	return "reddit"
}

func (r *RedditSource) IsConfigured() bool {
	return r.clientID != "" && r.clientSecret != ""
}

// SearchPosts searches Reddit for a query, optionally restricted to one
// subreddit via opts.Subreddit.
func (r *RedditSource) SearchPosts(ctx context.Context, query string, opts SearchOptions) ([]Post, error) {
	if !r.IsConfigured() {
		logrus.Debugf("Reddit credentials missing, serving sample dataset for query %q", query)
		return sampleSearch(query), nil
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("sort", sortOrDefault(opts.Sort))
	params.Set("t", windowOrDefault(opts.TimeWindow))
	params.Set("limit", strconv.Itoa(limitOrDefault(opts.Limit)))

	endpoint := r.apiURL + "/search.json"
	if opts.Subreddit != "" {
		params.Set("restrict_sr", "1")
		endpoint = fmt.Sprintf("%s/r/%s/search.json", r.apiURL, opts.Subreddit)
	}

	return r.fetchListing(ctx, endpoint+"?"+params.Encode())
}

// ListSubreddit fetches the newest posts of one subreddit.
func (r *RedditSource) ListSubreddit(ctx context.Context, subreddit string, opts SearchOptions) ([]Post, error) {
	if !r.IsConfigured() {
		logrus.Debugf("Reddit credentials missing, serving sample dataset for r/%s", subreddit)
		return sampleListing(subreddit), nil
	}

	params := url.Values{}
	params.Set("limit", strconv.Itoa(limitOrDefault(opts.Limit)))

	endpoint := fmt.Sprintf("%s/r/%s/%s.json", r.apiURL, subreddit, sortOrDefault(opts.Sort))
	return r.fetchListing(ctx, endpoint+"?"+params.Encode())
}

func (r *RedditSource) fetchListing(ctx context.Context, listingURL string) ([]Post, error) {
	token, err := r.token(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := r.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+token).
		SetHeader("User-Agent", r.userAgent).
		Get(listingURL)

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("%w: reddit API returned status %d", ErrFetch, resp.StatusCode())
	}

	var listing redditListingResponse
	if err := json.Unmarshal(resp.Body(), &listing); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}

	posts := make([]Post, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		posts = append(posts, toPost(child.Data))
	}
	return posts, nil
}

// token returns a valid access token, refreshing it when the cached one is
// stale. The lock is held across the refresh so callers racing against a
// stale token coalesce into a single request.
func (r *RedditSource) token(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.isStale(time.Now()) {
		return r.accessToken, nil
	}

	resp, err := r.client.R().
		SetContext(ctx).
		SetHeader("User-Agent", r.userAgent).
		SetBasicAuth(r.clientID, r.clientSecret).
		SetFormData(map[string]string{
			"grant_type": "client_credentials",
		}).
		Post(r.authURL)

	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAuth, err)
	}
	if resp.StatusCode() != 200 {
		return "", fmt.Errorf("%w: token endpoint returned status %d", ErrAuth, resp.StatusCode())
	}

	var authResp redditAuthResponse
	if err := json.Unmarshal(resp.Body(), &authResp); err != nil {
		return "", fmt.Errorf("%w: %v", ErrAuth, err)
	}
	if authResp.AccessToken == "" {
		return "", fmt.Errorf("%w: token endpoint returned an empty token", ErrAuth)
	}

	r.accessToken = authResp.AccessToken
	r.tokenExpiry = time.Now().Add(time.Duration(authResp.ExpiresIn) * time.Second)
	logrus.Debugf("Acquired Reddit token, expires in %ds", authResp.ExpiresIn)

	return r.accessToken, nil
}

// isStale reports whether the cached token needs a refresh. Callers must hold
// r.mu.
func (r *RedditSource) isStale(now time.Time) bool {
	return r.accessToken == "" || !now.Before(r.tokenExpiry.Add(-tokenExpiryMargin))
}

func toPost(p redditPost) Post {
	return Post{
		ExternalID:  p.ID,
		Title:       p.Title,
		Body:        p.Selftext,
		Author:      p.Author,
		Subreddit:   p.Subreddit,
		URL:         "https://reddit.com" + p.Permalink,
		Score:       p.Score,
		NumComments: p.NumComments,
		CreatedUTC:  int64(p.Created),
	}
}

func sortOrDefault(sort string) string {
	if sort == "" {
		return "new"
	}
	return sort
}

func windowOrDefault(window string) string {
	if window == "" {
		return "week"
	}
	return window
}

func limitOrDefault(limit int) int {
	if limit <= 0 || limit > 100 {
		return defaultFetchLimit
	}
	return limit
}
