package pixgallery

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ErrLoadInFlight is returned when an operation is dropped because another
// load has not finished yet. The caller must retry.
var ErrLoadInFlight = errors.New("pixgallery: load already in flight")

// GalleryState is everything a presentation layer renders.
type GalleryState struct {
	SessionID  string
	Images     []EnrichedImageRecord // arrival order across pages
	Query      string
	Page       int  // last page committed; 0 before the first load
	HasMore    bool // false once a page comes back empty
	Loading    bool
	Refreshing bool
	Err        string // message of the last failed load, "" when none
}

// Controller owns one GalleryState and drives paged loads through an
// ImageSource and an Enricher. At most one load runs at a time; requests
// arriving meanwhile are dropped with ErrLoadInFlight, not queued.
type Controller struct {
	cfg      Config
	source   ImageSource
	enricher Enricher

	mu    sync.Mutex
	state GalleryState
}

// NewController returns a Controller in its initial state: no images,
// HasMore true. Nothing is fetched until Search, Refresh or LoadMore.
func NewController(source ImageSource, enricher Enricher, cfg Config) *Controller {
	cfg.defaults()
	if enricher == nil {
		enricher = NativeTagEnricher{}
	}
	return &Controller{
		cfg:      cfg,
		source:   source,
		enricher: enricher,
		state: GalleryState{
			SessionID: uuid.NewString(),
			HasMore:   true,
		},
	}
}

// State returns a snapshot of the current gallery state.
func (c *Controller) State() GalleryState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Search switches to query and loads its first page, replacing the list.
// The query is recorded even when the load itself is dropped.
func (c *Controller) Search(ctx context.Context, query string) error {
	c.mu.Lock()
	c.state.Query = query
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)

	return c.load(ctx, 1, query, false)
}

// LoadMore appends the next page. It does nothing when no more pages are
// expected, and is dropped while another load is running.
func (c *Controller) LoadMore(ctx context.Context) error {
	c.mu.Lock()
	if c.state.Loading {
		c.mu.Unlock()
		return ErrLoadInFlight
	}
	if !c.state.HasMore {
		c.mu.Unlock()
		return nil
	}
	page, query := c.state.Page+1, c.state.Query
	c.mu.Unlock()

	return c.load(ctx, page, query, false)
}

// Refresh reloads the first page of the current query, replacing the list.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	query := c.state.Query
	c.mu.Unlock()

	return c.load(ctx, 1, query, true)
}

// FilterByTag keeps only the images whose derived tags contain tag
// (case-insensitive). The full list is overwritten, so a later LoadMore
// appends to the filtered set; only Refresh brings the rest back.
// An empty tag is the same as Refresh.
func (c *Controller) FilterByTag(ctx context.Context, tag string) error {
	if tag == "" {
		return c.Refresh(ctx)
	}

	c.mu.Lock()
	before := len(c.state.Images)
	c.state.Images = FilterImages(c.state.Images, tag)
	after := len(c.state.Images)
	snap := c.snapshotLocked()
	c.mu.Unlock()

	slog.Debug("pixgallery: filtered by tag", "session", snap.SessionID, "tag", tag, "before", before, "after", after)
	c.notify(snap)
	return nil
}

// load is the only caller of the image source. It fetches one page, enriches
// every hit, and commits the whole page or nothing.
func (c *Controller) load(ctx context.Context, page int, query string, refreshing bool) (err error) {
	if !c.begin(refreshing) {
		slog.Debug("pixgallery: load dropped", "page", page, "query", query)
		return ErrLoadInFlight
	}

	var (
		images    []EnrichedImageRecord
		hits      int
		committed bool
	)
	defer func() { c.finish(page, images, hits, committed, err) }()

	resp, err := c.source.FetchPage(ctx, SearchPage{Page: page, PerPage: c.cfg.PageSize, Query: query})
	if err != nil {
		return err
	}

	images = c.enrichAll(ctx, resp.Hits)
	hits = len(resp.Hits)
	committed = true
	return nil
}

// begin sets the loading guard. It reports false if a load is already running.
func (c *Controller) begin(refreshing bool) bool {
	c.mu.Lock()
	if c.state.Loading {
		c.mu.Unlock()
		return false
	}
	c.state.Loading = true
	c.state.Refreshing = refreshing
	c.state.Err = ""
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(snap)
	return true
}

// finish commits a loaded page (page 1 replaces, later pages append) and
// always clears the loading and refreshing flags.
func (c *Controller) finish(page int, images []EnrichedImageRecord, hits int, committed bool, err error) {
	c.mu.Lock()
	switch {
	case committed:
		if page == 1 {
			c.state.Images = images
		} else {
			c.state.Images = append(c.state.Images, images...)
		}
		c.state.HasMore = hits > 0
		c.state.Page = page
		c.state.Err = ""
	case err != nil:
		c.state.Err = err.Error()
	}
	c.state.Loading = false
	c.state.Refreshing = false
	snap := c.snapshotLocked()
	c.mu.Unlock()

	if err != nil {
		slog.Warn("pixgallery: page load failed", "session", snap.SessionID, "page", page, "error", err.Error())
	} else if committed {
		slog.Debug("pixgallery: page committed", "session", snap.SessionID, "page", page, "hits", hits, "total", len(snap.Images))
	}
	c.notify(snap)
}

// enrichAll tags every hit concurrently and returns them in hit order once
// all have finished.
func (c *Controller) enrichAll(ctx context.Context, hits []RawImageRecord) []EnrichedImageRecord {
	out := make([]EnrichedImageRecord, len(hits))

	var g errgroup.Group
	g.SetLimit(c.cfg.EnrichConcurrency)
	for i, h := range hits {
		g.Go(func() error {
			tags := c.enricher.Enrich(ctx, h)
			if tags == nil {
				tags = []string{}
			}
			out[i] = EnrichedImageRecord{RawImageRecord: h, DerivedTags: tags}
			return nil
		})
	}
	_ = g.Wait() // enrichers never fail

	return out
}

func (c *Controller) snapshotLocked() GalleryState {
	s := c.state
	s.Images = append([]EnrichedImageRecord(nil), c.state.Images...)
	return s
}

func (c *Controller) notify(s GalleryState) {
	if c.cfg.OnChange != nil {
		c.cfg.OnChange(s)
	}
}
