package analyzer

import "errors"

var (
	// ErrEmptyRaster indicates a raster with zero width or height
	ErrEmptyRaster = errors.New("empty raster")

	// ErrInvalidKernelSize indicates an even, non-positive or oversized blur kernel
	ErrInvalidKernelSize = errors.New("invalid kernel size")

	// ErrRasterTooSmall indicates a raster below 3x3, where border and interior cannot be split
	ErrRasterTooSmall = errors.New("raster too small")
)
