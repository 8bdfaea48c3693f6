package pixgallery

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// DetectionWidth is the width, in pixels, images are scaled to before detection.
const DetectionWidth = 300

var errEmptyImage = errors.New("pixgallery: image has zero size")

// DecodeImage decodes JPEG, PNG, GIF or WebP bytes.
func DecodeImage(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// NormalizeForDetection scales img to width pixels wide, keeping the aspect
// ratio, and converts it to RGBA.
func NormalizeForDetection(img image.Image, width int) (*image.RGBA, error) {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, errEmptyImage
	}
	if width <= 0 {
		width = DetectionWidth
	}

	height := b.Dy() * width / b.Dx()
	if height < 1 {
		height = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst, nil
}
