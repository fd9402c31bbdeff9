package analyzer

import "fmt"

// Channels is the number of samples per pixel (R, G, B).
const Channels = 3

// ChannelNames lists the channel labels in storage order.
var ChannelNames = [Channels]string{"R", "G", "B"}

// Raster is a height x width grid of RGB float samples stored row-major with
// interleaved channels. Loaders fill it with Set before handing it to the
// analyses; the analyses only ever read it.
//
// Samples are expected in [0,1] but are not range-checked.
type Raster struct {
	width, height int
	pix           []float64
}

// NewRaster allocates a zeroed raster. Negative dimensions are clamped to 0.
func NewRaster(width, height int) *Raster {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Raster{
		width:  width,
		height: height,
		pix:    make([]float64, width*height*Channels),
	}
}

// NewRasterFromPixels wraps an interleaved RGB sample slice. The slice is copied.
func NewRasterFromPixels(width, height int, pix []float64) (*Raster, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("negative raster dimensions %dx%d", width, height)
	}
	if len(pix) != width*height*Channels {
		return nil, fmt.Errorf("raster %dx%d needs %d samples, got %d",
			width, height, width*height*Channels, len(pix))
	}
	r := NewRaster(width, height)
	copy(r.pix, pix)
	return r, nil
}

func (r *Raster) Width() int  { return r.width }
func (r *Raster) Height() int { return r.height }

// Empty reports whether the raster has zero area.
func (r *Raster) Empty() bool { return r == nil || r.width == 0 || r.height == 0 }

// PixelCount returns width*height.
func (r *Raster) PixelCount() int { return r.width * r.height }

func (r *Raster) offset(x, y int) int { return (y*r.width + x) * Channels }

// At returns the three samples of pixel (x, y).
func (r *Raster) At(x, y int) [Channels]float64 {
	i := r.offset(x, y)
	return [Channels]float64{r.pix[i], r.pix[i+1], r.pix[i+2]}
}

// Sample returns channel c of pixel (x, y).
func (r *Raster) Sample(x, y, c int) float64 { return r.pix[r.offset(x, y)+c] }

// Set stores the samples of pixel (x, y). Only loaders call this, before the
// raster is shared.
func (r *Raster) Set(x, y int, px [Channels]float64) {
	i := r.offset(x, y)
	r.pix[i], r.pix[i+1], r.pix[i+2] = px[0], px[1], px[2]
}

// Channel returns a copy of every sample of channel c in row-major order.
func (r *Raster) Channel(c int) []float64 {
	out := make([]float64, 0, r.PixelCount())
	for i := c; i < len(r.pix); i += Channels {
		out = append(out, r.pix[i])
	}
	return out
}

// Samples returns a copy of all interleaved samples.
func (r *Raster) Samples() []float64 {
	out := make([]float64, len(r.pix))
	copy(out, r.pix)
	return out
}

// ResidualRaster holds the high-frequency part of a raster: the input minus its
// local box mean. It has the same extent as the raster it was computed from.
type ResidualRaster struct {
	Raster
}

func newResidualRaster(width, height int) *ResidualRaster {
	return &ResidualRaster{Raster: *NewRaster(width, height)}
}
