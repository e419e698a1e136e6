package thumbnail

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Geometry describes how one source image becomes one output tile. Either
// Width/Height or Scale selects the resize; Crop is taken from the resized
// image.
type Geometry struct {
	Width  int
	Height int
	Scale  float64
	Crop   image.Rectangle
}

var (
	// ServantStrip is one row of a servant support sheet.
	ServantStrip = Geometry{Width: 157, Height: 157, Crop: image.Rect(0, 47, 157, 97)}
	// SplitStrip is the narrower strip written one file per face.
	SplitStrip = Geometry{Width: 157, Height: 157, Crop: image.Rect(0, 47, 125, 91)}
	// CraftEssenceCard is the single crop used for craft essences.
	CraftEssenceCard = Geometry{Scale: 1.23, Crop: image.Rect(4, 57, 151, 98)}
)

// Apply resizes src with a Lanczos filter and returns the crop rectangle.
// The result always has the crop's dimensions; any part of the rectangle
// outside the resized image is left black.
func (g Geometry) Apply(src image.Image) *image.NRGBA {
	width, height := g.Width, g.Height
	if g.Scale > 0 {
		b := src.Bounds()
		width = int(float64(b.Dx()) * g.Scale)
		height = int(float64(b.Dy()) * g.Scale)
	}
	resized := imaging.Resize(src, width, height, imaging.Lanczos)

	if g.Crop.In(resized.Bounds()) {
		return imaging.Crop(resized, g.Crop)
	}
	tile := imaging.New(g.Crop.Dx(), g.Crop.Dy(), color.Black)
	return imaging.Paste(tile, imaging.Crop(resized, g.Crop), image.Pt(0, 0))
}
