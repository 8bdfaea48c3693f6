package pixgallery

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// makeJPEG returns a minimal valid JPEG of the given dimensions.
func makeJPEG(w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	// Fill with a solid color so the encoder produces a valid JPEG.
	for y := range h {
		for x := range w {
			img.Set(x, y, color.RGBA{R: 100, G: 149, B: 237, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		panic("makeJPEG: " + err.Error())
	}
	return buf.Bytes()
}

func newImageServer(t *testing.T, contentType string, body []byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// fakeDetector is a test double for the Detector interface.
type fakeDetector struct {
	mu     sync.Mutex
	preds  []Prediction
	err    error
	calls  int
	widths []int
}

func (d *fakeDetector) Detect(_ context.Context, img image.Image) ([]Prediction, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls++
	d.widths = append(d.widths, img.Bounds().Dx())
	return d.preds, d.err
}

func (d *fakeDetector) callCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

// failingStore is a KVStore whose every operation fails.
type failingStore struct{}

var errStoreDown = errors.New("store down")

func (failingStore) Get(context.Context, string) (string, bool, error) { return "", false, errStoreDown }
func (failingStore) Set(context.Context, string, string) error         { return errStoreDown }
