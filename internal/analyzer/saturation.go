package analyzer

import "fmt"

// DefaultSaturationThreshold marks a channel as clipped
const DefaultSaturationThreshold = 0.98

// SaturationRatio returns the fraction of pixels in which at least one channel
// is >= threshold. A threshold outside [0,1] is accepted; for samples in [0,1]
// it simply yields 0 or 1.
func SaturationRatio(r *Raster, threshold float64) (float64, error) {
	if r.Empty() {
		return 0, fmt.Errorf("saturation ratio: %w", ErrEmptyRaster)
	}

	saturated := 0
	for i := 0; i < len(r.pix); i += Channels {
		if r.pix[i] >= threshold || r.pix[i+1] >= threshold || r.pix[i+2] >= threshold {
			saturated++
		}
	}
	return float64(saturated) / float64(r.PixelCount()), nil
}
