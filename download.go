package pixgallery

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DownloadOpts configures an image download.
type DownloadOpts struct {
	MaxBytes  int64         // max response body size (default: 2MB)
	Timeout   time.Duration // per-request timeout (default: 20s)
	UserAgent string        // default: "Mozilla/5.0 (compatible; go-pixgallery/1.0)"
}

const (
	defaultMaxBytes = 2 << 20 // 2MB, comfortably above a 640px preview
	defaultTimeout  = 20 * time.Second
)

// ErrNotImage is returned when the server answers with a non-image content type.
var ErrNotImage = errors.New("pixgallery: response is not an image")

// DownloadResult holds downloaded image data.
type DownloadResult struct {
	Data     []byte
	MIMEType string
}

// Download fetches the image at imageURL with client (nil = http.DefaultClient).
func Download(ctx context.Context, client *http.Client, imageURL string, opts DownloadOpts) (*DownloadResult, error) {
	if client == nil {
		client = http.DefaultClient
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = defaultMaxBytes
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "Mozilla/5.0 (compatible; go-pixgallery/1.0)"
	}

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", opts.UserAgent)

	resp, err := client.Do(req) //nolint:gosec // G107: URL comes from the search API response
	if err != nil {
		return nil, fmt.Errorf("fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch image: status %d", resp.StatusCode)
	}

	ct := resp.Header.Get("Content-Type")
	// Strip MIME parameters: "image/jpeg; charset=utf-8" → "image/jpeg"
	if idx := strings.IndexByte(ct, ';'); idx >= 0 {
		ct = strings.TrimSpace(ct[:idx])
	}
	if !strings.HasPrefix(ct, "image/") {
		return nil, fmt.Errorf("%w: %q", ErrNotImage, ct)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, opts.MaxBytes))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}

	return &DownloadResult{Data: data, MIMEType: ct}, nil
}
