package storage

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/anime-shed/image-diagnostics-go/internal/raster"
)

// Sentinel errors shared by every fetcher
var (
	ErrSourceNotFound = errors.New("image source not found")
	ErrImageDecode    = errors.New("image could not be decoded")
)

// maxImageBytes bounds how much of a single source is read
const maxImageBytes = 64 << 20

// DefaultMaxImagePixels caps width*height when no limit is configured
const DefaultMaxImagePixels int64 = 40_000_000

// ImageFetcher loads an image from a backend-specific source string
// (a URL, a blob path or a file path).
type ImageFetcher interface {
	FetchImage(ctx context.Context, source string) (image.Image, error)
	ValidateSource(source string) error
	Name() string
}

// PixelLimiter is implemented by fetchers that refuse oversized images
// before decoding their pixel data.
type PixelLimiter interface {
	SetMaxPixels(n int64)
}

// pixelLimit is embedded by every fetcher. The zero value applies
// DefaultMaxImagePixels.
type pixelLimit struct {
	maxPixels int64
}

// SetMaxPixels changes the limit; n <= 0 restores the default.
func (p *pixelLimit) SetMaxPixels(n int64) {
	p.maxPixels = n
}

func (p *pixelLimit) limit() int64 {
	if p.maxPixels <= 0 {
		return DefaultMaxImagePixels
	}
	return p.maxPixels
}

// decodeBody wraps every failure in ErrImageDecode. Oversized images also
// match raster.ErrTooManyPixels.
func (p *pixelLimit) decodeBody(body io.Reader) (image.Image, error) {
	img, _, err := raster.DecodeLimited(io.LimitReader(body, maxImageBytes), p.limit())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrImageDecode, err)
	}
	return img, nil
}
