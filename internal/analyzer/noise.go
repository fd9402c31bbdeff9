package analyzer

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// DefaultKernelSize is the box-blur window used for noise estimation
const DefaultKernelSize = 5

// summedAreaTable is an inclusive 2-D prefix sum over a reflect-padded raster,
// with a leading zero row and column so that rectangle sums need no bounds
// checks. It is built per call and never shared.
type summedAreaTable struct {
	width  int // padded width + 1
	height int // padded height + 1
	sums   []float64
}

// reflectIndex mirrors i about the first and last sample of an axis of length n
// without repeating the edge sample: -1 maps to 1, n maps to n-2.
func reflectIndex(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		}
		if i >= n {
			i = 2*(n-1) - i
		}
	}
	return i
}

func newSummedAreaTable(r *Raster, pad int) *summedAreaTable {
	pw, ph := r.width+2*pad, r.height+2*pad
	t := &summedAreaTable{
		width:  pw + 1,
		height: ph + 1,
		sums:   make([]float64, (pw+1)*(ph+1)*Channels),
	}

	var rowSum [Channels]float64
	for py := 0; py < ph; py++ {
		sy := reflectIndex(py-pad, r.height)
		rowSum = [Channels]float64{}
		for px := 0; px < pw; px++ {
			sx := reflectIndex(px-pad, r.width)
			src := r.offset(sx, sy)
			above := t.index(px+1, py)
			dst := t.index(px+1, py+1)
			for c := 0; c < Channels; c++ {
				rowSum[c] += r.pix[src+c]
				t.sums[dst+c] = t.sums[above+c] + rowSum[c]
			}
		}
	}
	return t
}

func (t *summedAreaTable) index(x, y int) int { return (y*t.width + x) * Channels }

// rectSum returns the sum of channel c over the k x k padded window whose
// top-left padded sample is (x, y).
func (t *summedAreaTable) rectSum(x, y, k, c int) float64 {
	return t.sums[t.index(x+k, y+k)+c] -
		t.sums[t.index(x+k, y)+c] -
		t.sums[t.index(x, y+k)+c] +
		t.sums[t.index(x, y)+c]
}

// CheckKernelSize reports whether k is usable on some raster: odd and positive.
// Whether it fits a particular raster is checked by the analyses themselves.
func CheckKernelSize(k int) error {
	if k <= 0 || k%2 == 0 {
		return fmt.Errorf("%w: %d must be odd and positive", ErrInvalidKernelSize, k)
	}
	return nil
}

func validateKernel(r *Raster, k int) error {
	if r.Empty() {
		return ErrEmptyRaster
	}
	if err := CheckKernelSize(k); err != nil {
		return err
	}
	if k > r.width || k > r.height {
		return fmt.Errorf("%w: %d exceeds raster %dx%d", ErrInvalidKernelSize, k, r.width, r.height)
	}
	return nil
}

// BoxMean returns the k x k local mean of every pixel, computed in O(1) per
// pixel from a summed-area table over the reflect-padded raster.
func BoxMean(r *Raster, k int) (*Raster, error) {
	if err := validateKernel(r, k); err != nil {
		return nil, fmt.Errorf("box mean: %w", err)
	}
	return boxMean(r, k), nil
}

func boxMean(r *Raster, k int) *Raster {
	table := newSummedAreaTable(r, k/2)
	area := float64(k * k)
	out := NewRaster(r.width, r.height)
	for y := 0; y < r.height; y++ {
		for x := 0; x < r.width; x++ {
			i := out.offset(x, y)
			for c := 0; c < Channels; c++ {
				out.pix[i+c] = table.rectSum(x, y, k, c) / area
			}
		}
	}
	return out
}

// EstimateNoise subtracts a k x k box blur from the raster and returns the
// population standard deviation of the residual over all pixels and channels,
// together with the residual itself.
func EstimateNoise(r *Raster, k int) (float64, *ResidualRaster, error) {
	if err := validateKernel(r, k); err != nil {
		return 0, nil, fmt.Errorf("estimate noise: %w", err)
	}

	blur := boxMean(r, k)
	residual := newResidualRaster(r.width, r.height)
	for i := range r.pix {
		residual.pix[i] = r.pix[i] - blur.pix[i]
	}

	_, variance := stat.PopMeanVariance(residual.pix, nil)
	return math.Sqrt(math.Max(variance, 0)), residual, nil
}
