package pixgallery

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"net/http"
	"sync"
)

// DefaultMaxTags is how many detection labels are kept per image.
const DefaultMaxTags = 3

// Prediction is one detected object, ranked by the detector.
type Prediction struct {
	Label string
	Score float64
	Box   image.Rectangle // zero when the detector does not localize
}

// Detector runs label detection over a decoded image. Predictions are
// returned best first.
type Detector interface {
	Detect(ctx context.Context, img image.Image) ([]Prediction, error)
}

// DetectorFactory loads a Detector. It is expensive and called lazily.
type DetectorFactory func(ctx context.Context) (Detector, error)

// lazyDetector memoizes the first successful factory call. A failed load is
// retried on the next call.
type lazyDetector struct {
	mu      sync.Mutex
	factory DetectorFactory
	det     Detector
}

func (l *lazyDetector) get(ctx context.Context) (Detector, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.det != nil {
		return l.det, nil
	}
	if l.factory == nil {
		return nil, fmt.Errorf("pixgallery: no detector configured")
	}

	det, err := l.factory(ctx)
	if err != nil {
		return nil, fmt.Errorf("load detector: %w", err)
	}
	if det == nil {
		return nil, fmt.Errorf("load detector: factory returned nil")
	}
	l.det = det
	return det, nil
}

// DetectionOpts configures a DetectionEnricher.
type DetectionOpts struct {
	HTTPClient *http.Client // used to download previews (nil = http.DefaultClient)
	UserAgent  string
	MaxTags    int // default: DefaultMaxTags (3)
	Width      int // default: DetectionWidth (300)

	// OnDetect is called before every detector invocation (cache misses only).
	OnDetect func(imageURL string)
	// OnPanic is called when analysis of a single image panics.
	OnPanic func(imageURL string, r any)
}

// DetectionEnricher tags images by running a detector over the preview and
// caching the labels in a KVStore keyed by preview URL.
type DetectionEnricher struct {
	detector *lazyDetector
	cache    *TagCache
	opts     DetectionOpts
}

// NewDetectionEnricher returns an enricher that loads its detector from
// factory on first use. store may be nil to disable caching.
func NewDetectionEnricher(factory DetectorFactory, store KVStore, opts DetectionOpts) *DetectionEnricher {
	if opts.MaxTags <= 0 {
		opts.MaxTags = DefaultMaxTags
	}
	if opts.Width <= 0 {
		opts.Width = DetectionWidth
	}
	return &DetectionEnricher{
		detector: &lazyDetector{factory: factory},
		cache:    NewTagCache(store),
		opts:     opts,
	}
}

func (e *DetectionEnricher) Enrich(ctx context.Context, rec RawImageRecord) []string {
	return e.Analyze(ctx, rec.PreviewURL)
}

// Analyze returns up to MaxTags labels for the image at imageURL.
// Cached results are returned without downloading. Any failure is logged and
// yields an empty slice; the error never reaches the caller.
func (e *DetectionEnricher) Analyze(ctx context.Context, imageURL string) (tags []string) {
	if imageURL == "" {
		return []string{}
	}

	if cached, ok := e.cache.Get(ctx, imageURL); ok {
		slog.Debug("pixgallery: analysis cache hit", "url", imageURL)
		return cached
	}

	defer func() {
		if r := recover(); r != nil {
			slog.Error("pixgallery: analysis panicked", "url", imageURL, "panic", r)
			if e.opts.OnPanic != nil {
				e.opts.OnPanic(imageURL, r)
			}
			tags = []string{}
		}
	}()

	labels, err := e.detect(ctx, imageURL)
	if err != nil {
		slog.Warn("pixgallery: image analysis failed", "url", imageURL, "error", err.Error())
		return []string{}
	}

	e.cache.Put(ctx, imageURL, labels)
	return labels
}

func (e *DetectionEnricher) detect(ctx context.Context, imageURL string) ([]string, error) {
	det, err := e.detector.get(ctx)
	if err != nil {
		return nil, err
	}

	r, err := Download(ctx, e.opts.HTTPClient, imageURL, DownloadOpts{UserAgent: e.opts.UserAgent})
	if err != nil {
		return nil, err
	}

	img, err := DecodeImage(r.Data)
	if err != nil {
		return nil, err
	}
	rgba, err := NormalizeForDetection(img, e.opts.Width)
	if err != nil {
		return nil, err
	}

	if e.opts.OnDetect != nil {
		e.opts.OnDetect(imageURL)
	}
	preds, err := det.Detect(ctx, rgba)
	if err != nil {
		return nil, fmt.Errorf("detect: %w", err)
	}

	return topLabels(preds, e.opts.MaxTags), nil
}

// topLabels returns the labels of the first n predictions, in order.
func topLabels(preds []Prediction, n int) []string {
	if len(preds) > n {
		preds = preds[:n]
	}
	labels := make([]string, 0, len(preds))
	for _, p := range preds {
		labels = append(labels, p.Label)
	}
	return labels
}
