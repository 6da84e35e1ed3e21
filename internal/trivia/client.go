// Package trivia fetches multiple-choice questions from an Open Trivia
// DB-compatible provider.
package trivia

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"trivia-quiz-service/internal/domain"
)

// Provider response codes.
const (
	codeSuccess     = 0
	codeNoResults   = 1
	codeRateLimited = 5
)

// questionType is fixed: this service only assembles multiple-choice quizzes.
const questionType = "multiple"

type envelope struct {
	ResponseCode int                  `json:"response_code"`
	Results      []domain.RawQuestion `json:"results"`
}

// Client calls the provider's question API with a bounded timeout.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// Fetch retrieves a batch of raw questions for a category/difficulty pair.
// A provider rate limit surfaces as domain.ErrRateLimited; any other
// transport, status, or parse failure surfaces as domain.ErrSourceUnavailable.
func (c *Client) Fetch(ctx context.Context, amount, categoryID int, difficulty domain.Difficulty) ([]domain.RawQuestion, error) {
	query := url.Values{}
	query.Set("amount", strconv.Itoa(amount))
	query.Set("category", strconv.Itoa(categoryID))
	query.Set("difficulty", difficulty.Provider())
	query.Set("type", questionType)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", domain.ErrSourceUnavailable, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, domain.ErrRateLimited
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: unexpected status %d", domain.ErrSourceUnavailable, resp.StatusCode)
	}

	var body envelope
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", domain.ErrSourceUnavailable, err)
	}

	switch body.ResponseCode {
	case codeSuccess:
		return body.Results, nil
	case codeNoResults:
		return nil, nil
	case codeRateLimited:
		return nil, domain.ErrRateLimited
	default:
		return nil, fmt.Errorf("%w: provider response code %d", domain.ErrSourceUnavailable, body.ResponseCode)
	}
}
