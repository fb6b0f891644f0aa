package scoring

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRemote_AnalyzeSentiment(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/sentiment", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Write([]byte(`{"label":"positive","score":0.8}`))
	}))
	defer server.Close()

	remote := NewRemote(server.URL, "test-key")
	sentiment, err := remote.AnalyzeSentiment(context.Background(), "this tool is great")

	assert.NoError(t, err)
	assert.Equal(t, "positive", sentiment.Label)
	assert.Equal(t, 0.8, sentiment.Score)
}

func TestRemote_ScoreLead(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/lead", r.URL.Path)
		w.Write([]byte(`{"score":85,"reason":"explicit buying intent"}`))
	}))
	defer server.Close()

	remote := NewRemote(server.URL, "test-key")
	lead, err := remote.ScoreLead(context.Background(), "Looking for a tool", "would pay", PostContext{})

	assert.NoError(t, err)
	assert.Equal(t, 85, lead.Score)
	assert.Equal(t, "explicit buying intent", lead.Reason)
}

func TestRemote_ScoreLeadOutOfRange(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"score":250,"reason":"overflow"}`))
	}))
	defer server.Close()

	remote := NewRemote(server.URL, "test-key")
	_, err := remote.ScoreLead(context.Background(), "title", "body", PostContext{})

	assert.ErrorIs(t, err, ErrScoring)
}

func TestRemote_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	remote := NewRemote(server.URL, "test-key")
	_, err := remote.AnalyzeSentiment(context.Background(), "anything")

	assert.ErrorIs(t, err, ErrScoring)
}
