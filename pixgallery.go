package pixgallery

import (
	"context"
	"net/http"
)

const (
	// DefaultBaseURL is the Pixabay image search endpoint.
	DefaultBaseURL = "https://pixabay.com/api/"

	// DefaultQuery is substituted when a search is issued with an empty term.
	DefaultQuery = "nature"

	// DefaultPageSize is the number of hits requested per page.
	DefaultPageSize = 20

	// DefaultEnrichConcurrency bounds per-page enrichment fan-out.
	DefaultEnrichConcurrency = 8
)

// KVStore abstracts the device-local key-value store backing the tag cache.
// Get reports ok=false for a missing key; err is reserved for store failures.
type KVStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// Config holds the dependencies and knobs shared by the client and controller.
type Config struct {
	APIKey     string       // Pixabay API key (required for real requests)
	BaseURL    string       // default: DefaultBaseURL
	HTTPClient *http.Client // optional: default http client (nil = http.DefaultClient)
	UserAgent  string       // default: "Mozilla/5.0 (compatible; go-pixgallery/1.0)"

	PageSize          int    // default: DefaultPageSize (20)
	DefaultQuery      string // default: DefaultQuery ("nature")
	EnrichConcurrency int    // default: DefaultEnrichConcurrency (8)

	// OnChange is invoked with a snapshot after every GalleryState mutation.
	OnChange func(GalleryState)

	// OnFetch is invoked once per outbound page request.
	OnFetch func(SearchPage)
}

// defaults fills zero-value fields with sensible defaults.
func (c *Config) defaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.UserAgent == "" {
		c.UserAgent = "Mozilla/5.0 (compatible; go-pixgallery/1.0)"
	}
	if c.HTTPClient == nil {
		c.HTTPClient = http.DefaultClient
	}
	if c.PageSize <= 0 {
		c.PageSize = DefaultPageSize
	}
	if c.DefaultQuery == "" {
		c.DefaultQuery = DefaultQuery
	}
	if c.EnrichConcurrency <= 0 {
		c.EnrichConcurrency = DefaultEnrichConcurrency
	}
}
