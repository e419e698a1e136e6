package thumbnail

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
)

// ServantSheet stacks one ServantStrip per image, top to bottom in the given
// order. It returns nil for an empty slice.
func ServantSheet(images []image.Image) *image.NRGBA {
	if len(images) == 0 {
		return nil
	}
	width := ServantStrip.Crop.Dx()
	rowHeight := ServantStrip.Crop.Dy()
	sheet := imaging.New(width, rowHeight*len(images), color.Black)
	for i, img := range images {
		sheet = imaging.Paste(sheet, ServantStrip.Apply(img), image.Pt(0, i*rowHeight))
	}
	return sheet
}

// CraftEssenceImage crops the craft essence card out of img.
func CraftEssenceImage(img image.Image) *image.NRGBA {
	if img == nil {
		return nil
	}
	return CraftEssenceCard.Apply(img)
}

// SplitStrips returns one grayscale SplitStrip per image.
func SplitStrips(images []image.Image) []*image.Gray {
	strips := make([]*image.Gray, 0, len(images))
	for _, img := range images {
		strips = append(strips, Grayscale(SplitStrip.Apply(img)))
	}
	return strips
}

// Grayscale converts img to a single-channel image of the same size.
func Grayscale(img image.Image) *image.Gray {
	b := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(gray, gray.Bounds(), img, b.Min, draw.Src)
	return gray
}
