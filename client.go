package pixgallery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
)

// maxResponseBytes caps the search response body. A full 200-hit page is
// well under this.
const maxResponseBytes = 4 << 20

// SearchPage identifies one request to the image source.
type SearchPage struct {
	Page    int    // 1-based page number
	PerPage int    // hits per page
	Query   string // empty = Config.DefaultQuery
}

// RawImageRecord is one hit as returned by the search API.
type RawImageRecord struct {
	ID            int    `json:"id"`
	PageURL       string `json:"pageURL"`
	PreviewURL    string `json:"webformatURL"`
	LargeImageURL string `json:"largeImageURL"`
	ImageWidth    int    `json:"imageWidth"`
	ImageHeight   int    `json:"imageHeight"`
	Views         int    `json:"views"`
	Downloads     int    `json:"downloads"`
	Likes         int    `json:"likes"`
	User          string `json:"user"`
	Tags          string `json:"tags"` // comma-separated
}

// SearchResponse is the decoded body of a search request.
type SearchResponse struct {
	Total     int              `json:"total"`
	TotalHits int              `json:"totalHits"`
	Hits      []RawImageRecord `json:"hits"`
}

// ImageSource fetches one page of search results.
type ImageSource interface {
	FetchPage(ctx context.Context, page SearchPage) (*SearchResponse, error)
}

// NetworkError reports a failed search request: a transport error, a
// non-2xx response, or a body that could not be decoded.
type NetworkError struct {
	URL        string // endpoint, without the query string
	StatusCode int    // 0 when no response was received
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("pixgallery: request %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("pixgallery: request %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Client issues paged search queries against the Pixabay API.
// It keeps no state between requests.
type Client struct {
	cfg Config
}

// NewClient returns a Client using cfg. Zero-value fields get defaults.
func NewClient(cfg Config) *Client {
	cfg.defaults()
	return &Client{cfg: cfg}
}

// FetchPage performs one search request. Page and PerPage below 1 are
// clamped; an empty query is replaced with the configured default term.
// The request is not retried.
func (c *Client) FetchPage(ctx context.Context, page SearchPage) (*SearchResponse, error) {
	if page.Page < 1 {
		page.Page = 1
	}
	if page.PerPage < 1 {
		page.PerPage = c.cfg.PageSize
	}
	page.Query = NormalizeQuery(page.Query, c.cfg.DefaultQuery)

	if c.cfg.OnFetch != nil {
		c.cfg.OnFetch(page)
	}

	reqURL, err := c.buildURL(page)
	if err != nil {
		return nil, &NetworkError{URL: c.cfg.BaseURL, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &NetworkError{URL: c.cfg.BaseURL, Err: err}
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: c.cfg.BaseURL, Err: c.redact(err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Pixabay reports errors as a short plain-text body.
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &NetworkError{
			URL:        c.cfg.BaseURL,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected response %q", string(msg)),
		}
	}

	var out SearchResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&out); err != nil {
		return nil, &NetworkError{URL: c.cfg.BaseURL, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}

	slog.Debug("pixgallery: page fetched",
		"query", page.Query, "page", page.Page, "hits", len(out.Hits), "total_hits", out.TotalHits)
	return &out, nil
}

// redact drops the query string, and with it the API key, from the request
// URL that net/http puts into transport errors.
func (c *Client) redact(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		uerr.URL = c.endpoint()
	}
	return err
}

func (c *Client) endpoint() string {
	u, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		return ""
	}
	u.RawQuery = ""
	u.User = nil
	return u.String()
}

func (c *Client) buildURL(page SearchPage) (string, error) {
	u, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}

	q := u.Query()
	q.Set("key", c.cfg.APIKey)
	q.Set("q", page.Query)
	q.Set("page", strconv.Itoa(page.Page))
	q.Set("per_page", strconv.Itoa(page.PerPage))
	q.Set("image_type", "photo")
	u.RawQuery = q.Encode()

	return u.String(), nil
}
