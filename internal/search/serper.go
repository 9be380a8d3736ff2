// Package search is the web-search collaborator: free-text summaries of
// top results, used to build research context for a company before the
// generation call.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		BaseURL: "https://google.serper.dev",
		APIKey:  apiKey,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

type searchReq struct {
	Q string `json:"q"`
}

type searchResp struct {
	Organic []struct {
		Title   string `json:"title"`
		Snippet string `json:"snippet"`
	} `json:"organic"`
}

// Search runs one query and summarizes the top 3 organic results as
// "- title: snippet" lines. An empty result set yields "No data found."
// rather than an error.
func (c *Client) Search(ctx context.Context, query string) (string, error) {
	b, err := json.Marshal(searchReq{Q: query})
	if err != nil {
		return "", err
	}

	url := strings.TrimRight(c.BaseURL, "/") + "/search"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("X-API-KEY", c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("serper: status %d", resp.StatusCode)
	}

	var decoded searchResp
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", err
	}

	if len(decoded.Organic) == 0 {
		return "No data found.", nil
	}

	var sb strings.Builder
	for i, r := range decoded.Organic {
		if i >= 3 {
			break
		}
		title := r.Title
		if title == "" {
			title = "No title"
		}
		snippet := r.Snippet
		if snippet == "" {
			snippet = "No snippet"
		}
		fmt.Fprintf(&sb, "- %s: %s\n", title, snippet)
	}
	return sb.String(), nil
}

// The five fixed research sub-queries issued per company.
var briefQueries = []struct {
	label string
	query string
}{
	{"company_overview", "%s company overview"},
	{"revenue_info", "%s revenue 2024"},
	{"competitors", "%s top competitors"},
	{"funding_info", "%s funding history"},
	{"gtm_strategy", "%s go to market strategy"},
}

// CompanyBrief concatenates labeled summaries for the five fixed
// sub-queries. Individual query failures degrade to a labeled "no data"
// line; the call errors only when every query fails.
func (c *Client) CompanyBrief(ctx context.Context, company string) (string, error) {
	var sb strings.Builder
	failures := 0
	for _, q := range briefQueries {
		summary, err := c.Search(ctx, fmt.Sprintf(q.query, company))
		if err != nil {
			failures++
			summary = "No data found."
		}
		fmt.Fprintf(&sb, "%s:\n%s\n", q.label, summary)
	}
	if failures == len(briefQueries) {
		return "", fmt.Errorf("search: all queries failed for %s", company)
	}
	return sb.String(), nil
}
