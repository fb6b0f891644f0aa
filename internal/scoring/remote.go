package scoring

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Remote calls an external scoring service over HTTP. The service is opaque
// to the scan engine; any failure surfaces as ErrScoring.
type Remote struct {
	client  *resty.Client
	baseURL string
	apiKey  string
}

var _ Analyzer = (*Remote)(nil)

type leadRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	PostContext
}

func NewRemote(baseURL, apiKey string) *Remote {
	return &Remote{
		client:  resty.New().SetTimeout(60 * time.Second),
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

func (r *Remote) AnalyzeSentiment(ctx context.Context, text string) (Sentiment, error) {
	var sentiment Sentiment
	if err := r.post(ctx, "/v1/sentiment", map[string]string{"text": text}, &sentiment); err != nil {
		return Sentiment{}, err
	}
	return sentiment, nil
}

func (r *Remote) ScoreLead(ctx context.Context, title, body string, meta PostContext) (Lead, error) {
	var lead Lead
	req := leadRequest{Title: title, Body: body, PostContext: meta}
	if err := r.post(ctx, "/v1/lead", req, &lead); err != nil {
		return Lead{}, err
	}
	if lead.Score < 0 || lead.Score > 100 {
		return Lead{}, fmt.Errorf("%w: lead score %d out of range", ErrScoring, lead.Score)
	}
	return lead, nil
}

func (r *Remote) post(ctx context.Context, path string, body, out interface{}) error {
	resp, err := r.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+r.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(r.baseURL + path)

	if err != nil {
		return fmt.Errorf("%w: %v", ErrScoring, err)
	}
	if resp.StatusCode() != 200 {
		return fmt.Errorf("%w: scoring service returned status %d", ErrScoring, resp.StatusCode())
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("%w: %v", ErrScoring, err)
	}
	return nil
}
