// Package image provides product image loading, decoding and thumbnails.
package image

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"path/filepath"
	"strings"

	"gallery/pkg/geometry"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Asset is a decoded product image together with its source reference.
type Asset struct {
	Ref    string      // URL or file path the image was loaded from
	Image  image.Image // decoded image data
	Format string      // decoder name, e.g. "jpeg"
}

// Decode reads and decodes an image from r.
func Decode(ref string, r io.Reader) (*Asset, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", ref, err)
	}
	return &Asset{Ref: ref, Image: img, Format: format}, nil
}

// Width returns the image width in pixels.
func (a *Asset) Width() int {
	if a == nil || a.Image == nil {
		return 0
	}
	return a.Image.Bounds().Dx()
}

// Height returns the image height in pixels.
func (a *Asset) Height() int {
	if a == nil || a.Image == nil {
		return 0
	}
	return a.Image.Bounds().Dy()
}

// Size returns the natural image dimensions.
func (a *Asset) Size() geometry.Size {
	return geometry.Size{
		Width:  float64(a.Width()),
		Height: float64(a.Height()),
	}
}

// Placeholder returns a flat image used for skeleton cards and failed loads.
func Placeholder(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.RGBA{0x2a, 0x2a, 0x2e, 0xff}}, image.Point{}, draw.Src)
	return img
}

// SupportedFormats returns the list of supported image extensions.
func SupportedFormats() []string {
	return []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp", ".tiff", ".tif"}
}

// IsSupportedFormat checks if the given path has a supported image format.
func IsSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range SupportedFormats() {
		if ext == format {
			return true
		}
	}
	return false
}
