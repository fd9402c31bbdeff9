package raster

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrTooManyPixels is returned when an image header declares more pixels than allowed
var ErrTooManyPixels = errors.New("image exceeds pixel limit")

// Decode reads any registered image format (png, jpeg, gif, bmp, tiff, webp)
// and returns the image together with its format name.
func Decode(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	return img, format, nil
}

// DecodeLimited reads the image header first and refuses to decode images
// whose width*height exceeds maxPixels. maxPixels <= 0 disables the check.
func DecodeLimited(r io.Reader, maxPixels int64) (image.Image, string, error) {
	if maxPixels <= 0 {
		return Decode(r)
	}

	var header bytes.Buffer
	cfg, _, err := image.DecodeConfig(io.TeeReader(r, &header))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image header: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, "", fmt.Errorf("failed to decode image: invalid dimensions %dx%d", cfg.Width, cfg.Height)
	}
	if pixels := int64(cfg.Width) * int64(cfg.Height); pixels > maxPixels {
		return nil, "", fmt.Errorf("%w: %dx%d is more than %d pixels", ErrTooManyPixels, cfg.Width, cfg.Height, maxPixels)
	}

	return Decode(io.MultiReader(&header, r))
}
