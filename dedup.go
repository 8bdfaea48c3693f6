package pixgallery

import (
	"context"
	"image"
	"log/slog"
	"net/http"

	"github.com/corona10/goimagehash"
	"golang.org/x/sync/errgroup"
)

const (
	// dedupThreshold is the maximum Hamming distance between two dHash values
	// below which images are considered perceptually identical.
	dedupThreshold = 10

	dedupConcurrency = 4
)

// dedupFilter remembers the hashes of images accepted so far.
type dedupFilter struct {
	hashes []*goimagehash.ImageHash
}

// isDuplicate returns true if hash is within dedupThreshold of a previously
// accepted hash. Unique hashes are stored for future comparisons.
func (d *dedupFilter) isDuplicate(hash *goimagehash.ImageHash) bool {
	for _, h := range d.hashes {
		dist, err := hash.Distance(h)
		if err == nil && dist < dedupThreshold {
			return true
		}
	}
	d.hashes = append(d.hashes, hash)
	return false
}

// CollapseDuplicates returns images without the ones whose preview is
// perceptually identical to an earlier image in the list. Previews that
// cannot be downloaded or hashed are kept. The input is not modified.
func CollapseDuplicates(ctx context.Context, client *http.Client, images []EnrichedImageRecord) []EnrichedImageRecord {
	hashes := make([]*goimagehash.ImageHash, len(images))

	var g errgroup.Group
	g.SetLimit(dedupConcurrency)
	for i, img := range images {
		g.Go(func() error {
			hashes[i] = previewHash(ctx, client, img.PreviewURL)
			return nil
		})
	}
	_ = g.Wait()

	filter := &dedupFilter{}
	out := make([]EnrichedImageRecord, 0, len(images))
	for i, img := range images {
		if hashes[i] != nil && filter.isDuplicate(hashes[i]) {
			slog.Debug("pixgallery: duplicate preview collapsed", "id", img.ID, "url", img.PreviewURL)
			continue
		}
		out = append(out, img)
	}
	return out
}

// previewHash returns the dHash of the image at url, or nil on any failure.
func previewHash(ctx context.Context, client *http.Client, url string) *goimagehash.ImageHash {
	if url == "" {
		return nil
	}
	r, err := Download(ctx, client, url, DownloadOpts{})
	if err != nil {
		slog.Debug("pixgallery: dedup download failed", "url", url, "error", err.Error())
		return nil
	}
	img, err := DecodeImage(r.Data)
	if err != nil {
		return nil
	}
	return hashImage(img)
}

func hashImage(img image.Image) *goimagehash.ImageHash {
	hash, err := goimagehash.DifferenceHash(img)
	if err != nil {
		return nil
	}
	return hash
}
