package imaging

import (
	"fmt"
	"image"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
)

// Selection is a rectangular area chosen by dragging from Start to End.
//
// The drag may go in any direction; Rect normalises it. A selection narrower
// or shorter than two pixels means "no selection" and the whole image is used.
type Selection struct {
	Start image.Point `json:"start"`
	End   image.Point `json:"end"`
}

// NewSelection returns the selection covering the w×h area whose top-left
// corner is (x, y).
func NewSelection(x, y, w, h int) *Selection {
	return &Selection{Start: image.Pt(x, y), End: image.Pt(x+w, y+h)}
}

// ParseSelection parses "x,y,w,h" as produced by command-line flags.
// An empty string returns nil.
func ParseSelection(s string) (*Selection, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("invalid area %q: want x,y,w,h", s)
	}
	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid area %q: %w", s, err)
		}
		v[i] = n
	}
	if v[2] < 0 || v[3] < 0 {
		return nil, fmt.Errorf("invalid area %q: width and height must not be negative", s)
	}
	return NewSelection(v[0], v[1], v[2], v[3]), nil
}

// Rect returns the normalised rectangle, or false when the selection is too
// small to mean anything.
func (s *Selection) Rect() (image.Rectangle, bool) {
	if s == nil {
		return image.Rectangle{}, false
	}
	r := image.Rectangle{Min: s.Start, Max: s.End}.Canon()
	if r.Dx() <= 1 || r.Dy() <= 1 {
		return image.Rectangle{}, false
	}
	return r, true
}

// Clip returns the part of bounds that sel covers, in the coordinates of
// bounds. sel is relative to bounds.Min. A nil or degenerate selection covers
// all of bounds; a selection entirely outside bounds is an error.
func (s *Selection) Clip(bounds image.Rectangle) (image.Rectangle, error) {
	r, ok := s.Rect()
	if !ok {
		return bounds, nil
	}

	clipped := r.Add(bounds.Min).Intersect(bounds)
	if clipped.Empty() {
		return image.Rectangle{}, fmt.Errorf("selection (%d,%d)-(%d,%d) outside image bounds (%d,%d)-(%d,%d)",
			r.Min.X, r.Min.Y, r.Max.X, r.Max.Y, bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
	}
	return clipped, nil
}

// CropSelection returns the part of img covered by sel as a new image with
// its origin at (0,0), along with the rectangle of img it was cut from. A nil
// or degenerate selection returns a copy of the whole image. The selection is
// clipped to the image bounds, so the returned rectangle's Min is where the
// crop's (0,0) lies in img.
func CropSelection(img image.Image, sel *Selection) (*image.NRGBA, image.Rectangle, error) {
	clipped, err := sel.Clip(img.Bounds())
	if err != nil {
		return nil, image.Rectangle{}, err
	}
	if clipped == img.Bounds() {
		return imaging.Clone(img), clipped, nil
	}
	return imaging.Crop(img, clipped), clipped, nil
}
