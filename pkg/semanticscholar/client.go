// Package semanticscholar provides a client for the Semantic Scholar
// Academic Graph API.
package semanticscholar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://api.semanticscholar.org/graph/v1"

	// Unauthenticated shared pool allows roughly 1 request/s; an API key
	// raises the budget. Kept conservative by default.
	defaultRateLimit = 1.0

	// SearchFields are the fields requested for title-search candidates.
	SearchFields = "paperId,title,year,publicationDate,externalIds,authors"

	// CitationFields are the fields requested for citing-paper pages.
	CitationFields = "year,publicationDate"
)

// Client defines the Semantic Scholar operations used by the engine.
type Client interface {
	// GetPaper fetches a paper by id: a Semantic Scholar paper id, or a
	// prefixed external id such as "DOI:10.1/xyz" or "arXiv:2101.00001".
	GetPaper(ctx context.Context, id string) (*Paper, error)
	// SearchPapers runs a relevance search over paper titles.
	SearchPapers(ctx context.Context, query string, limit int) ([]Paper, error)
	// ListCitations fetches one offset/limit page of a paper's citations.
	ListCitations(ctx context.Context, id string, offset, limit int) (*CitationsPage, error)
}

// Paper is a Semantic Scholar paper record.
type Paper struct {
	PaperID         string      `json:"paperId"`
	Title           string      `json:"title"`
	Year            int         `json:"year"`
	PublicationDate string      `json:"publicationDate"`
	ExternalIDs     ExternalIDs `json:"externalIds"`
	Authors         []Author    `json:"authors"`
}

// ExternalIDs holds a paper's persistent identifiers.
type ExternalIDs struct {
	DOI   string `json:"DOI"`
	ArXiv string `json:"ArXiv"`
}

// Author is a paper author.
type Author struct {
	Name string `json:"name"`
}

// Citation is one entry of a citations page.
type Citation struct {
	CitingPaper *Paper `json:"citingPaper"`
}

// CitationsPage is one page of a paper's citations listing.
type CitationsPage struct {
	Offset int        `json:"offset"`
	Next   int        `json:"next"`
	Data   []Citation `json:"data"`
}

type searchResponse struct {
	Total int     `json:"total"`
	Data  []Paper `json:"data"`
}

// Option configures the client.
type Option func(*httpClient)

// WithAPIKey sets the x-api-key header on every request.
func WithAPIKey(key string) Option {
	return func(c *httpClient) {
		c.apiKey = key
	}
}

// WithBaseURL overrides the default API base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit overrides the default requests-per-second budget.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a Semantic Scholar API client.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL: defaultBaseURL,
		limiter: rate.NewLimiter(rate.Limit(defaultRateLimit), 1),
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// get performs a rate-limited GET and decodes the JSON response into out.
// Any non-200 status is an error; callers treat errors as "provider
// returned nothing" and move on.
func (c *httpClient) get(ctx context.Context, reqURL string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return eris.Wrap(err, "semanticscholar: create request")
	}
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "semanticscholar: request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "semanticscholar: read response body")
	}
	if resp.StatusCode != http.StatusOK {
		return eris.Errorf("semanticscholar: status %d: %s", resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return eris.Wrap(err, "semanticscholar: unmarshal response")
	}
	return nil
}

func (c *httpClient) GetPaper(ctx context.Context, id string) (*Paper, error) {
	reqURL := fmt.Sprintf("%s/paper/%s?fields=%s", c.baseURL, url.PathEscape(id), SearchFields)
	var p Paper
	if err := c.get(ctx, reqURL, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *httpClient) SearchPapers(ctx context.Context, query string, limit int) ([]Paper, error) {
	reqURL := fmt.Sprintf("%s/paper/search?query=%s&limit=%d&fields=%s",
		c.baseURL, url.QueryEscape(query), limit, SearchFields)
	var res searchResponse
	if err := c.get(ctx, reqURL, &res); err != nil {
		return nil, err
	}
	return res.Data, nil
}

func (c *httpClient) ListCitations(ctx context.Context, id string, offset, limit int) (*CitationsPage, error) {
	reqURL := fmt.Sprintf("%s/paper/%s/citations?fields=%s&limit=%d&offset=%d",
		c.baseURL, url.PathEscape(id), CitationFields, limit, offset)
	var page CitationsPage
	if err := c.get(ctx, reqURL, &page); err != nil {
		return nil, err
	}
	return &page, nil
}
