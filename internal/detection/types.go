package detection

import (
	"fmt"
	"image"
)

// Point represents a 2D coordinate in pixel space.
type Point struct {
	X int `json:"x"` // Horizontal position (0 = leftmost)
	Y int `json:"y"` // Vertical position (0 = topmost)
}

// Quad is the quadrilateral an OCR engine reports around a run of text.
//
// Engines list the corners clockwise starting at the top-left, so point 0 is
// the top-left corner and point 2 the bottom-right. Only those two corners are
// used: every quad is treated as the axis-aligned rectangle they span.
type Quad [4]Point

// QuadFromRect returns the quad a rectangle-reporting engine would produce for
// the inclusive pixel rectangle r (r.Max is exclusive, as for image.Rectangle).
func QuadFromRect(r image.Rectangle) Quad {
	x1, y1 := r.Min.X, r.Min.Y
	x2, y2 := r.Max.X-1, r.Max.Y-1
	return Quad{
		{X: x1, Y: y1},
		{X: x2, Y: y1},
		{X: x2, Y: y2},
		{X: x1, Y: y2},
	}
}

// Anchor returns the point overlay text is drawn from (corner 0).
func (q Quad) Anchor() Point {
	return q[0]
}

// Rect returns the axis-aligned rectangle spanned by corners 0 and 2.
//
// Both corners are inclusive, so the returned image.Rectangle has its Max one
// pixel beyond the larger corner. Corners given in any order are normalised.
func (q Quad) Rect() image.Rectangle {
	a, b := q[0], q[2]
	return image.Rect(minInt(a.X, b.X), minInt(a.Y, b.Y), maxInt(a.X, b.X)+1, maxInt(a.Y, b.Y)+1)
}

// Detection is one OCR result: where the text is, what it says, and how sure
// the engine is about it.
type Detection struct {
	// Quad is the region the text occupies.
	Quad Quad `json:"quad"`

	// Text is the recognized text in the source language.
	Text string `json:"text"`

	// Confidence is the engine's score in [0, 1].
	Confidence float64 `json:"confidence"`
}

// String renders the detection the way it appears in logs.
func (d Detection) String() string {
	r := d.Quad.Rect()
	return fmt.Sprintf("%q conf=%.2f rect=(%d,%d)-(%d,%d)",
		d.Text, d.Confidence, r.Min.X, r.Min.Y, r.Max.X-1, r.Max.Y-1)
}

// Union returns the smallest rectangle covering every detection, or the empty
// rectangle when there are none.
func Union(dets []Detection) image.Rectangle {
	var u image.Rectangle
	for _, d := range dets {
		u = u.Union(d.Quad.Rect())
	}
	return u
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
