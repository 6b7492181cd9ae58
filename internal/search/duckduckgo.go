// Package search provides the web search collaborator. The default
// implementation queries the DuckDuckGo Instant Answer API, which needs no
// API key, and throttles requests to stay polite.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Searcher is the narrow interface the search tool depends on.
type Searcher interface {
	Search(ctx context.Context, query string) (string, error)
}

const defaultBaseURL = "https://api.duckduckgo.com"

// DuckDuckGo queries the DuckDuckGo Instant Answer API.
type DuckDuckGo struct {
	client  *http.Client
	limiter *rate.Limiter
	baseURL string
}

// Option configures a DuckDuckGo searcher.
type Option func(*DuckDuckGo)

// WithBaseURL overrides the API endpoint. Used in tests.
func WithBaseURL(u string) Option {
	return func(d *DuckDuckGo) { d.baseURL = u }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(d *DuckDuckGo) { d.client = c }
}

// NewDuckDuckGo creates a searcher limited to one request per second.
func NewDuckDuckGo(opts ...Option) *DuckDuckGo {
	d := &DuckDuckGo{
		client:  &http.Client{Timeout: 15 * time.Second},
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
		baseURL: defaultBaseURL,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

type instantAnswer struct {
	Heading       string `json:"Heading"`
	AbstractText  string `json:"AbstractText"`
	AbstractURL   string `json:"AbstractURL"`
	Answer        string `json:"Answer"`
	RelatedTopics []struct {
		Text     string `json:"Text"`
		FirstURL string `json:"FirstURL"`
	} `json:"RelatedTopics"`
}

// Search implements Searcher. It blocks on the rate limiter, then returns a
// compact text rendering of the instant answer and related topics.
func (d *DuckDuckGo) Search(ctx context.Context, query string) (string, error) {
	if err := d.limiter.Wait(ctx); err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/?q=%s&format=json&no_html=1&skip_disambig=1",
		d.baseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("search returned status %d", resp.StatusCode)
	}

	var answer instantAnswer
	if err := json.NewDecoder(resp.Body).Decode(&answer); err != nil {
		return "", fmt.Errorf("decode search response: %w", err)
	}

	return renderAnswer(&answer), nil
}

func renderAnswer(a *instantAnswer) string {
	var parts []string
	if a.Answer != "" {
		parts = append(parts, a.Answer)
	}
	if a.AbstractText != "" {
		if a.Heading != "" {
			parts = append(parts, fmt.Sprintf("%s: %s", a.Heading, a.AbstractText))
		} else {
			parts = append(parts, a.AbstractText)
		}
	}
	for i, t := range a.RelatedTopics {
		if i >= 5 {
			break
		}
		if t.Text != "" {
			parts = append(parts, "- "+t.Text)
		}
	}
	if len(parts) == 0 {
		return "No results found."
	}
	return strings.Join(parts, "\n")
}
