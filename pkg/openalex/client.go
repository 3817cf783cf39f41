// Package openalex provides a client for the OpenAlex works API.
package openalex

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://api.openalex.org"

	// OpenAlex allows 10 requests/s in the polite pool.
	defaultRateLimit = 10.0

	// CursorStart is the sentinel token for the first page of a
	// cursor-paginated walk.
	CursorStart = "*"

	// SelectDates requests only the temporal fields of citing works.
	SelectDates = "publication_year,publication_date"

	// SelectDatesAuthorships additionally requests author-institution
	// metadata for sector classification.
	SelectDatesAuthorships = "authorships,publication_year,publication_date"
)

// Client defines the OpenAlex operations used by the engine.
type Client interface {
	// GetWork fetches a single work by id, e.g. "doi:10.1/xyz",
	// "arXiv:2101.00001", or an OpenAlex work id.
	GetWork(ctx context.Context, id string) (*Work, error)
	// SearchWorks runs a title search (filter=title.search).
	SearchWorks(ctx context.Context, title string, perPage int) ([]Work, error)
	// ListCitedBy fetches one numbered page of a cited_by collection. The
	// ref is the cited_by_api_url taken from a Work.
	ListCitedBy(ctx context.Context, ref string, page, perPage int, selectFields string) (*WorksPage, error)
	// ListCitedByCursor fetches one cursor page of a cited_by collection.
	// Pass CursorStart to begin; follow Meta.NextCursor until it is empty.
	ListCitedByCursor(ctx context.Context, ref, cursor string, perPage int, selectFields string) (*WorksPage, error)
}

// Work is an OpenAlex work record.
type Work struct {
	ID              string       `json:"id"`
	DOI             string       `json:"doi"`
	Title           string       `json:"title"`
	PublicationYear int          `json:"publication_year"`
	PublicationDate string       `json:"publication_date"`
	CitedByAPIURL   string       `json:"cited_by_api_url"`
	Authorships     []Authorship `json:"authorships"`
}

// Authorship links one author of a work to their institutions.
type Authorship struct {
	Author       WorkAuthor    `json:"author"`
	Institutions []Institution `json:"institutions"`
}

// WorkAuthor is an author as embedded in an authorship.
type WorkAuthor struct {
	DisplayName string `json:"display_name"`
}

// Institution is an institution as embedded in an authorship. Type is the
// free-text institution-type vocabulary string.
type Institution struct {
	DisplayName string `json:"display_name"`
	Type        string `json:"type"`
}

// WorksPage is a list response from the works endpoint.
type WorksPage struct {
	Meta    Meta   `json:"meta"`
	Results []Work `json:"results"`
}

// Meta carries list-response pagination state.
type Meta struct {
	Count      int    `json:"count"`
	NextCursor string `json:"next_cursor"`
}

// Option configures the client.
type Option func(*httpClient)

// WithMailto adds the given contact address as a courtesy query parameter
// on every request, joining the OpenAlex polite pool.
func WithMailto(mailto string) Option {
	return func(c *httpClient) {
		c.mailto = mailto
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
	mailto  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates an OpenAlex API client.
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

// addQuery appends a query fragment to a URL that may or may not already
// carry a query string. The cited_by_api_url values returned by OpenAlex
// come with a filter parameter attached.
func addQuery(rawURL, query string) string {
	sep := "?"
	if strings.Contains(rawURL, "?") {
		sep = "&"
	}
	return rawURL + sep + query
}

func (c *httpClient) get(ctx context.Context, reqURL string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	if c.mailto != "" {
		reqURL = addQuery(reqURL, "mailto="+url.QueryEscape(c.mailto))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return eris.Wrap(err, "openalex: create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "openalex: request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "openalex: read response body")
	}
	if resp.StatusCode != http.StatusOK {
		return eris.Errorf("openalex: status %d: %s", resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return eris.Wrap(err, "openalex: unmarshal response")
	}
	return nil
}

func (c *httpClient) GetWork(ctx context.Context, id string) (*Work, error) {
	reqURL := fmt.Sprintf("%s/works/%s", c.baseURL, url.PathEscape(id))
	var w Work
	if err := c.get(ctx, reqURL, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

func (c *httpClient) SearchWorks(ctx context.Context, title string, perPage int) ([]Work, error) {
	reqURL := fmt.Sprintf("%s/works?filter=title.search:%s&per_page=%d",
		c.baseURL, url.QueryEscape(title), perPage)
	var page WorksPage
	if err := c.get(ctx, reqURL, &page); err != nil {
		return nil, err
	}
	return page.Results, nil
}

func (c *httpClient) ListCitedBy(ctx context.Context, ref string, page, perPage int, selectFields string) (*WorksPage, error) {
	reqURL := addQuery(ref, fmt.Sprintf("select=%s&per_page=%d&page=%d",
		url.QueryEscape(selectFields), perPage, page))
	var out WorksPage
	if err := c.get(ctx, reqURL, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *httpClient) ListCitedByCursor(ctx context.Context, ref, cursor string, perPage int, selectFields string) (*WorksPage, error) {
	reqURL := addQuery(ref, fmt.Sprintf("select=%s&per_page=%d&cursor=%s",
		url.QueryEscape(selectFields), perPage, url.QueryEscape(cursor)))
	var out WorksPage
	if err := c.get(ctx, reqURL, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
