package raster

import (
	"image"
	"image/color"

	"github.com/anime-shed/image-diagnostics-go/internal/analyzer"
)

// FromImage converts a decoded image into a float raster in [0,1]. Alpha is
// dropped rather than premultiplied and each channel is quantised to 8 bits
// before dividing by 255, so results match an 8-bit RGB loader.
func FromImage(img image.Image) *analyzer.Raster {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	r := analyzer.NewRaster(width, height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			r.Set(x, y, [analyzer.Channels]float64{
				float64(c.R) / 255.0,
				float64(c.G) / 255.0,
				float64(c.B) / 255.0,
			})
		}
	}
	return r
}
