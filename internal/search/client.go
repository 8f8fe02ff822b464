package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Google Custom Search API endpoints
const (
	Endpoint             = "https://www.googleapis.com/customsearch/v1"
	SiteRestrictEndpoint = "https://www.googleapis.com/customsearch/v1/siterestrict"
)

// Safe search levels accepted by the API
var safeLevels = map[string]bool{
	"off":    true,
	"medium": true,
	"high":   true,
}

// Config holds the credentials and optional transport for the search client
type Config struct {
	APIKey     string
	CX         string
	HTTPClient *http.Client
}

// Client queries the Google Custom Search Engine API
type Client struct {
	httpClient           *http.Client
	apiKey               string
	cx                   string
	endpoint             string
	siteRestrictEndpoint string
}

// NewClient creates a new search client
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" || cfg.CX == "" {
		return nil, fmt.Errorf("search credentials not configured (set GOOGLE_API_KEY and GOOGLE_CX)")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 20 * time.Second}
	}
	return &Client{
		httpClient:           httpClient,
		apiKey:               cfg.APIKey,
		cx:                   cfg.CX,
		endpoint:             Endpoint,
		siteRestrictEndpoint: SiteRestrictEndpoint,
	}, nil
}

// Query holds one search invocation's parameters
type Query struct {
	Q               string `json:"q"`
	Num             int    `json:"num,omitempty"`
	Start           int    `json:"start,omitempty"`
	SiteSearch      string `json:"siteSearch,omitempty"`
	Safe            string `json:"safe,omitempty"`
	GL              string `json:"gl,omitempty"`
	HL              string `json:"hl,omitempty"`
	LR              string `json:"lr,omitempty"`
	UseSiteRestrict bool   `json:"useSiteRestrict,omitempty"`
}

// Result is one normalized search hit with a 1-based rank
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
	Rank    int    `json:"rank"`
}

// Response is the normalized search response
type Response struct {
	Provider   string         `json:"provider"`
	Query      Query          `json:"query"`
	SearchInfo map[string]any `json:"searchInfo,omitempty"`
	NextPage   int            `json:"nextPage,omitempty"`
	Results    []Result       `json:"results"`
	Kind       string         `json:"kind,omitempty"`
}

// raw API response, only the fields we consume
type apiResponse struct {
	Kind  string `json:"kind"`
	Items []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"items"`
	SearchInformation map[string]any `json:"searchInformation"`
	Queries           struct {
		NextPage []struct {
			StartIndex int `json:"startIndex"`
		} `json:"nextPage"`
	} `json:"queries"`
}

// Normalize clamps the query parameters to the ranges the API accepts and
// validates the enumerated ones. Invalid safe levels are an error rather
// than being silently corrected.
func (q Query) Normalize() (Query, error) {
	if q.Q == "" {
		return q, fmt.Errorf("query string is required")
	}
	if q.Num < 1 {
		q.Num = 1
	} else if q.Num > 10 {
		q.Num = 10
	}
	if q.Start < 1 {
		q.Start = 1
	}
	if q.Safe != "" && !safeLevels[q.Safe] {
		return q, fmt.Errorf("invalid safe level %q: must be one of off, medium, high", q.Safe)
	}
	return q, nil
}

// Search executes one Custom Search query and normalizes the results
func (c *Client) Search(ctx context.Context, q Query) (*Response, error) {
	q, err := q.Normalize()
	if err != nil {
		return nil, err
	}

	endpoint := c.endpoint
	if q.UseSiteRestrict {
		endpoint = c.siteRestrictEndpoint
	}

	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("cx", c.cx)
	params.Set("q", q.Q)
	params.Set("num", strconv.Itoa(q.Num))
	params.Set("start", strconv.Itoa(q.Start))
	if q.SiteSearch != "" {
		params.Set("siteSearch", q.SiteSearch)
	}
	if q.Safe != "" {
		params.Set("safe", q.Safe)
	}
	if q.GL != "" {
		params.Set("gl", q.GL)
	}
	if q.HL != "" {
		params.Set("hl", q.HL)
	}
	if q.LR != "" {
		params.Set("lr", q.LR)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("search failed with status %d: %s", resp.StatusCode, string(body))
	}

	var data apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	out := &Response{
		Provider:   "google-cse",
		Query:      q,
		SearchInfo: data.SearchInformation,
		Results:    make([]Result, 0, len(data.Items)),
		Kind:       data.Kind,
	}
	for i, item := range data.Items {
		out.Results = append(out.Results, Result{
			Title:   item.Title,
			URL:     item.Link,
			Snippet: item.Snippet,
			Rank:    i + 1,
		})
	}
	if len(data.Queries.NextPage) > 0 {
		out.NextPage = data.Queries.NextPage[0].StartIndex
	}
	return out, nil
}
