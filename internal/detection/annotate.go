package detection

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"strconv"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// boxThickness is the outline width of preview boxes, in pixels.
const boxThickness = 3

// Annotate returns a copy of img with an outline around every detection and
// its confidence, rounded to two decimals, written at the detection's anchor.
//
// The preview is a debugging aid: it shows what the detector found before any
// pixels are erased. img itself is not modified.
func Annotate(img image.Image, dets []Detection, boxColor color.Color) *image.NRGBA {
	out := imaging.Clone(img)

	for _, d := range dets {
		strokeRect(out, d.Quad.Rect(), boxColor)
	}

	// Labels go on after every box so a later box never hides an earlier label.
	for _, d := range dets {
		a := d.Quad.Anchor()
		drawer := &font.Drawer{
			Dst:  out,
			Src:  image.NewUniform(color.Black),
			Face: basicfont.Face7x13,
			Dot:  fixed.P(a.X, a.Y),
		}
		drawer.DrawString(formatConfidence(d.Confidence))
	}

	return out
}

// formatConfidence rounds to two decimals and drops trailing zeros (0.9, not 0.90).
func formatConfidence(c float64) string {
	return strconv.FormatFloat(math.Round(c*100)/100, 'f', -1, 64)
}

// strokeRect draws a boxThickness-wide outline centred on the edges of r.
func strokeRect(dst draw.Image, r image.Rectangle, c color.Color) {
	src := image.NewUniform(c)
	half := boxThickness / 2
	x1, y1 := r.Min.X, r.Min.Y
	x2, y2 := r.Max.X-1, r.Max.Y-1

	edges := []image.Rectangle{
		image.Rect(x1-half, y1-half, x2+half+1, y1+half+1), // top
		image.Rect(x1-half, y2-half, x2+half+1, y2+half+1), // bottom
		image.Rect(x1-half, y1-half, x1+half+1, y2+half+1), // left
		image.Rect(x2-half, y1-half, x2+half+1, y2+half+1), // right
	}
	for _, e := range edges {
		draw.Draw(dst, e.Intersect(dst.Bounds()), src, image.Point{}, draw.Src)
	}
}
