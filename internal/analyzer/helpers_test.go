package analyzer

import "math"

const tolerance = 1e-6

// createFlatRaster creates a raster filled with a single color
func createFlatRaster(width, height int, px [Channels]float64) *Raster {
	r := NewRaster(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r.Set(x, y, px)
		}
	}
	return r
}

// createSequentialRaster fills every channel with (y*width+x)/(width*height-1)
func createSequentialRaster(width, height int) *Raster {
	r := NewRaster(width, height)
	n := float64(width*height - 1)
	if n == 0 {
		n = 1
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := float64(y*width+x) / n
			r.Set(x, y, [Channels]float64{v, v * 0.5, 1 - v})
		}
	}
	return r
}

// createNoisyRaster builds a deterministic pseudo-random raster
func createNoisyRaster(width, height int) *Raster {
	r := NewRaster(width, height)
	seed := uint32(2463534242)
	next := func() float64 {
		seed ^= seed << 13
		seed ^= seed >> 17
		seed ^= seed << 5
		return float64(seed%1000) / 999.0
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r.Set(x, y, [Channels]float64{next(), next(), next()})
		}
	}
	return r
}

// createFramedRaster has a border of value edge around an interior of value core
func createFramedRaster(width, height int, edge, core float64) *Raster {
	r := NewRaster(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := core
			if x == 0 || y == 0 || x == width-1 || y == height-1 {
				v = edge
			}
			r.Set(x, y, [Channels]float64{v, v, v})
		}
	}
	return r
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= tolerance
}
