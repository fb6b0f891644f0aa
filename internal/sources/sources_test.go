package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedditSource_Name(t *testing.T) {
	source := NewRedditSource("id", "secret", "test-agent")
	assert.Equal(t, "reddit", source.Name())
}

func TestRedditSource_IsConfigured(t *testing.T) {
	tests := []struct {
		name         string
		clientID     string
		clientSecret string
		expected     bool
	}{
		{
			name:         "Both credentials set",
			clientID:     "id",
			clientSecret: "secret",
			expected:     true,
		},
		{
			name:         "Missing secret",
			clientID:     "id",
			clientSecret: "",
			expected:     false,
		},
		{
			name:         "Missing both",
			clientID:     "",
			clientSecret: "",
			expected:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := NewRedditSource(tt.clientID, tt.clientSecret, "test-agent")
			assert.Equal(t, tt.expected, source.IsConfigured())
		})
	}
}

func TestRedditSource_IsStale(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name   string
		token  string
		expiry time.Time
		stale  bool
	}{
		{
			name:  "No token yet",
			token: "",
			stale: true,
		},
		{
			name:   "Fresh token",
			token:  "abc",
			expiry: now.Add(30 * time.Minute),
			stale:  false,
		},
		{
			name:   "Inside the refresh margin",
			token:  "abc",
			expiry: now.Add(4 * time.Minute),
			stale:  true,
		},
		{
			name:   "Expired token",
			token:  "abc",
			expiry: now.Add(-time.Minute),
			stale:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := NewRedditSource("id", "secret", "test-agent")
			source.accessToken = tt.token
			source.tokenExpiry = tt.expiry
			assert.Equal(t, tt.stale, source.isStale(now))
		})
	}
}

func TestRedditSource_UnconfiguredServesSampleDataset(t *testing.T) {
	source := NewRedditSource("", "", "test-agent")
	ctx := context.Background()

	posts, err := source.SearchPosts(ctx, "screenshot API", SearchOptions{})
	assert.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "sample1", posts[0].ExternalID)
	assert.NotZero(t, posts[0].CreatedUTC)

	posts, err = source.SearchPosts(ctx, "quantum blockchain", SearchOptions{})
	assert.NoError(t, err)
	assert.Empty(t, posts)

	posts, err = source.ListSubreddit(ctx, "SaaS", SearchOptions{})
	assert.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "sample2", posts[0].ExternalID)
}

func TestRedditSource_TokenIsAcquiredOnce(t *testing.T) {
	var authCalls int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/token":
			atomic.AddInt32(&authCalls, 1)
			user, _, ok := r.BasicAuth()
			assert.True(t, ok)
			assert.Equal(t, "id", user)
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"access_token":"tok123","token_type":"bearer","expires_in":3600}`))
		case "/search.json":
			assert.Equal(t, "Bearer tok123", r.Header.Get("Authorization"))
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"data":{"children":[{"data":{
				"id":"xyz1",
				"title":"Need a screenshot API",
				"selftext":"any recommendations?",
				"author":"dev1",
				"subreddit":"webdev",
				"permalink":"/r/webdev/comments/xyz1",
				"created_utc":1700000000.0,
				"score":12,
				"num_comments":4
			}}]}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	source := NewRedditSource("id", "secret", "test-agent")
	source.authURL = server.URL + "/token"
	source.apiURL = server.URL

	ctx := context.Background()

	posts, err := source.SearchPosts(ctx, "screenshot API", SearchOptions{})
	assert.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "xyz1", posts[0].ExternalID)
	assert.Equal(t, "Need a screenshot API", posts[0].Title)
	assert.Equal(t, "https://reddit.com/r/webdev/comments/xyz1", posts[0].URL)
	assert.Equal(t, int64(1700000000), posts[0].CreatedUTC)

	_, err = source.SearchPosts(ctx, "pdf generation", SearchOptions{})
	assert.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&authCalls))
}

func TestRedditSource_AuthFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	source := NewRedditSource("id", "wrong", "test-agent")
	source.authURL = server.URL + "/token"
	source.apiURL = server.URL

	_, err := source.SearchPosts(context.Background(), "anything", SearchOptions{})
	assert.ErrorIs(t, err, ErrAuth)
}

func TestRedditSource_FetchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/token" {
			w.Write([]byte(`{"access_token":"tok123","token_type":"bearer","expires_in":3600}`))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	source := NewRedditSource("id", "secret", "test-agent")
	source.authURL = server.URL + "/token"
	source.apiURL = server.URL

	_, err := source.ListSubreddit(context.Background(), "webdev", SearchOptions{})
	assert.ErrorIs(t, err, ErrFetch)
}

func TestLimitOrDefault(t *testing.T) {
	assert.Equal(t, defaultFetchLimit, limitOrDefault(0))
	assert.Equal(t, defaultFetchLimit, limitOrDefault(-5))
	assert.Equal(t, defaultFetchLimit, limitOrDefault(500))
	assert.Equal(t, 25, limitOrDefault(25))
}
