package inpaint

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/ironsheep/image-translate/internal/detection"
)

// Mask pixel values.
const (
	Keep        uint8 = 0
	Reconstruct uint8 = 255
)

// BuildMask returns a single-channel mask the size of bounds: black (Keep)
// everywhere except inside each detection's rectangle, which is white
// (Reconstruct).
//
// Painting is a union, so the order of dets and any overlap between their
// rectangles do not affect the result. Rectangles that extend past bounds are
// clipped.
func BuildMask(bounds image.Rectangle, dets []detection.Detection) *image.Gray {
	mask := image.NewGray(bounds) // zero value is Keep
	white := image.NewUniform(color.Gray{Y: Reconstruct})

	for _, d := range dets {
		r := d.Quad.Rect().Intersect(bounds)
		if r.Empty() {
			continue
		}
		draw.Draw(mask, r, white, image.Point{}, draw.Src)
	}

	return mask
}

// Count returns the number of Reconstruct pixels in mask.
func Count(mask *image.Gray) int {
	n := 0
	b := mask.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := mask.Pix[mask.PixOffset(b.Min.X, y):mask.PixOffset(b.Max.X, y)]
		for _, v := range row {
			if v != Keep {
				n++
			}
		}
	}
	return n
}
