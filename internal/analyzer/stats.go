package analyzer

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ChannelStats summarises the samples of one channel
type ChannelStats struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

// ChannelSet holds the statistics of the R, G and B channels
type ChannelSet struct {
	R ChannelStats `json:"R"`
	G ChannelStats `json:"G"`
	B ChannelStats `json:"B"`
}

// ByIndex returns the statistics of channel c (0=R, 1=G, 2=B).
func (s ChannelSet) ByIndex(c int) ChannelStats {
	switch c {
	case 0:
		return s.R
	case 1:
		return s.G
	default:
		return s.B
	}
}

// ByName returns the statistics for "R", "G" or "B".
func (s ChannelSet) ByName(name string) (ChannelStats, bool) {
	for i, n := range ChannelNames {
		if n == name {
			return s.ByIndex(i), true
		}
	}
	return ChannelStats{}, false
}

// ComputeStats computes mean, population standard deviation, minimum and
// maximum of every channel over all pixels.
func ComputeStats(r *Raster) (ChannelSet, error) {
	if r.Empty() {
		return ChannelSet{}, fmt.Errorf("compute stats: %w", ErrEmptyRaster)
	}

	var out [Channels]ChannelStats
	for c := 0; c < Channels; c++ {
		samples := r.Channel(c)
		mean, variance := stat.PopMeanVariance(samples, nil)
		lo, hi := floats.Min(samples), floats.Max(samples)
		// rounding can push the mean of near-constant data just outside [lo, hi]
		mean = math.Min(math.Max(mean, lo), hi)
		out[c] = ChannelStats{
			Mean: mean,
			Std:  math.Sqrt(math.Max(variance, 0)),
			Min:  lo,
			Max:  hi,
		}
	}
	return ChannelSet{R: out[0], G: out[1], B: out[2]}, nil
}
