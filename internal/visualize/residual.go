// Package visualize renders diagnostics output for people. Nothing here feeds
// back into the analyses.
package visualize

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/fogleman/gg"

	"github.com/anime-shed/image-diagnostics-go/internal/analyzer"
)

// ResidualGain amplifies residuals so that +-0.125 spans the full display range
const ResidualGain = 4.0

const titleBarHeight = 20

// ResidualToImage maps each residual sample r to clip(r*ResidualGain+0.5, 0, 1)
// so zero residual is mid grey.
func ResidualToImage(res *analyzer.ResidualRaster) *image.NRGBA {
	if res == nil || res.Empty() {
		return image.NewNRGBA(image.Rect(0, 0, 0, 0))
	}

	w, h := res.Width(), res.Height()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			px := res.At(x, y)
			img.SetNRGBA(x, y, color.NRGBA{
				R: toByte(px[0]),
				G: toByte(px[1]),
				B: toByte(px[2]),
				A: 0xFF,
			})
		}
	}
	return img
}

func toByte(v float64) uint8 {
	v = v*ResidualGain + 0.5
	v = math.Max(0, math.Min(1, v))
	return uint8(math.Round(v * 255))
}

// WriteResidualPNG encodes the residual preview to w. A non-empty title is
// drawn on a black bar above the image.
func WriteResidualPNG(w io.Writer, res *analyzer.ResidualRaster, title string) error {
	img := ResidualToImage(res)
	if title == "" {
		return png.Encode(w, img)
	}
	return titled(img, title).EncodePNG(w)
}

func titled(img image.Image, title string) *gg.Context {
	bounds := img.Bounds()
	dc := gg.NewContext(bounds.Dx(), bounds.Dy()+titleBarHeight)
	dc.SetRGB(0, 0, 0)
	dc.Clear()
	dc.DrawImage(img, 0, titleBarHeight)
	dc.SetRGB(1, 1, 1)
	dc.DrawStringAnchored(title, 4, titleBarHeight/2, 0, 0.5)
	return dc
}
