// Package crossref provides a client for the Crossref REST API.
package crossref

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
	defaultBaseURL = "https://api.crossref.org"

	// Crossref asks polite-pool users to stay in the low single digits.
	defaultRateLimit = 5.0
)

// Client defines the Crossref operations used by the engine.
type Client interface {
	// GetWork fetches a work by bare DOI.
	GetWork(ctx context.Context, doi string) (*Item, error)
	// QueryTitle runs a bibliographic title query and returns up to rows
	// candidate items in Crossref's relevance order.
	QueryTitle(ctx context.Context, title string, rows int) ([]Item, error)
}

// Item is a Crossref work record.
type Item struct {
	DOI    string   `json:"DOI"`
	Title  []string `json:"title"`
	Author []Author `json:"author"`
	Issued Date     `json:"issued"`
}

// PrimaryTitle returns the first title string, or "".
func (i Item) PrimaryTitle() string {
	if len(i.Title) == 0 {
		return ""
	}
	return i.Title[0]
}

// Year returns the issued year, or zero when absent.
func (i Item) Year() int {
	if len(i.Issued.DateParts) == 0 || len(i.Issued.DateParts[0]) == 0 {
		return 0
	}
	return i.Issued.DateParts[0][0]
}

// AuthorNames returns the authors as "Given Family" display names.
func (i Item) AuthorNames() []string {
	names := make([]string, 0, len(i.Author))
	for _, a := range i.Author {
		name := strings.TrimSpace(a.Given + " " + a.Family)
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

// Author is a Crossref contributor.
type Author struct {
	Given  string `json:"given"`
	Family string `json:"family"`
}

// Date is a Crossref partial date.
type Date struct {
	DateParts [][]int `json:"date-parts"`
}

type workResponse struct {
	Message Item `json:"message"`
}

type listResponse struct {
	Message struct {
		Items []Item `json:"items"`
	} `json:"message"`
}

// Option configures the client.
type Option func(*httpClient)

// WithMailto adds the given contact address as a courtesy query parameter,
// joining the Crossref polite pool.
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

// NewClient creates a Crossref API client.
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

func (c *httpClient) get(ctx context.Context, reqURL string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	if c.mailto != "" {
		sep := "?"
		if strings.Contains(reqURL, "?") {
			sep = "&"
		}
		reqURL += sep + "mailto=" + url.QueryEscape(c.mailto)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return eris.Wrap(err, "crossref: create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "crossref: request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "crossref: read response body")
	}
	if resp.StatusCode != http.StatusOK {
		return eris.Errorf("crossref: status %d: %s", resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return eris.Wrap(err, "crossref: unmarshal response")
	}
	return nil
}

func (c *httpClient) GetWork(ctx context.Context, doi string) (*Item, error) {
	reqURL := fmt.Sprintf("%s/works/%s", c.baseURL, url.PathEscape(doi))
	var res workResponse
	if err := c.get(ctx, reqURL, &res); err != nil {
		return nil, err
	}
	return &res.Message, nil
}

func (c *httpClient) QueryTitle(ctx context.Context, title string, rows int) ([]Item, error) {
	reqURL := fmt.Sprintf("%s/works?rows=%d&query.title=%s",
		c.baseURL, rows, url.QueryEscape(title))
	var res listResponse
	if err := c.get(ctx, reqURL, &res); err != nil {
		return nil, err
	}
	return res.Message.Items, nil
}
