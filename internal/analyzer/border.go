package analyzer

import "fmt"

// DefaultBorderThreshold is the interior-minus-border margin that flags a dark frame
const DefaultBorderThreshold = 1e-3

// BorderMeans returns the mean over the four edge lines and the mean over the
// open interior, both taken across all channels.
//
// The edge lines are the top row, bottom row, left column and right column,
// concatenated, so each corner pixel is counted twice. This weighting is kept
// on purpose; reports must stay comparable with earlier runs.
func BorderMeans(r *Raster) (borderMean, coreMean float64, err error) {
	if r.Empty() || r.width < 3 || r.height < 3 {
		return 0, 0, fmt.Errorf("border means: %w: need at least 3x3, got %dx%d",
			ErrRasterTooSmall, r.width, r.height)
	}

	w, h := r.width, r.height
	var borderSum float64
	for x := 0; x < w; x++ {
		borderSum += pixelSum(r, x, 0) + pixelSum(r, x, h-1)
	}
	for y := 0; y < h; y++ {
		borderSum += pixelSum(r, 0, y) + pixelSum(r, w-1, y)
	}
	borderCount := float64(2 * (w + h) * Channels)

	var coreSum float64
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			coreSum += pixelSum(r, x, y)
		}
	}
	coreCount := float64((w - 2) * (h - 2) * Channels)

	return borderSum / borderCount, coreSum / coreCount, nil
}

// BorderLooksDark reports whether the interior is brighter than the border by
// more than threshold. It is a heuristic for the one-pixel black frame
// artifact: uniformly dark images are not flagged, only relative darkening.
func BorderLooksDark(r *Raster, threshold float64) (bool, error) {
	borderMean, coreMean, err := BorderMeans(r)
	if err != nil {
		return false, err
	}
	return coreMean-borderMean > threshold, nil
}

func pixelSum(r *Raster, x, y int) float64 {
	i := r.offset(x, y)
	return r.pix[i] + r.pix[i+1] + r.pix[i+2]
}
