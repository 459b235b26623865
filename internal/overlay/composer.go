package overlay

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"sync"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/ironsheep/image-translate/internal/detection"
)

// Defaults used when Options leaves a field zero.
const (
	DefaultThreshold = 0.25
	DefaultFontSize  = 22
	DefaultThickness = 2
)

// Options configures NewComposer.
type Options struct {
	// FontPath is a TrueType or OpenType file. Empty selects the bundled Go Regular.
	FontPath string

	// FontSize is the em size in pixels.
	FontSize float64

	// Color is the text colour. Nil means black.
	Color color.Color

	// Thickness is the stroke width in pixels.
	Thickness int

	// Threshold is the confidence a detection must exceed to be drawn, in
	// [0, 1]. Nil selects DefaultThreshold.
	Threshold *float64
}

// Item pairs a detection with the outcome of translating it.
type Item struct {
	Detection  detection.Detection
	Translated string

	// OK is false when translation failed; such items are never drawn.
	OK bool

	// Color overrides the Composer's colour for this item when non-nil.
	Color color.Color
}

// Composer draws translated text onto images.
type Composer struct {
	Face      font.Face
	Color     color.Color
	Thickness int
	Threshold float64

	// font.Face implementations cache glyphs and are not safe for concurrent use.
	mu sync.Mutex
}

// NewComposer loads the configured font and returns a ready Composer.
func NewComposer(opts Options) (*Composer, error) {
	size := opts.FontSize
	if size <= 0 {
		size = DefaultFontSize
	}

	data := goregular.TTF
	if opts.FontPath != "" {
		b, err := os.ReadFile(opts.FontPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read font: %w", err)
		}
		data = b
	}

	face, err := LoadFace(data, size)
	if err != nil {
		return nil, err
	}

	c := opts.Color
	if c == nil {
		c = color.Black
	}
	thickness := opts.Thickness
	if thickness <= 0 {
		thickness = DefaultThickness
	}
	threshold := DefaultThreshold
	if opts.Threshold != nil {
		threshold = *opts.Threshold
		if threshold < 0 || threshold > 1 {
			return nil, fmt.Errorf("threshold must be between 0 and 1, got %v", threshold)
		}
	}

	return &Composer{
		Face:      face,
		Color:     c,
		Thickness: thickness,
		Threshold: threshold,
	}, nil
}

// LoadFace parses a TrueType/OpenType font and returns a face at size pixels.
func LoadFace(data []byte, size float64) (font.Face, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create font face: %w", err)
	}
	return face, nil
}

// Drawn reports whether Compose would draw item: its translation succeeded
// and produced text, and its confidence is strictly above the threshold. An
// empty translation is skipped since it would draw nothing.
func (c *Composer) Drawn(item Item) bool {
	return item.OK && item.Translated != "" && item.Detection.Confidence > c.Threshold
}

// Compose returns a copy of cleaned with every drawable item's translation
// written at its anchor. Items are drawn in order, so later text overwrites
// earlier text where they overlap. cleaned is not modified.
func (c *Composer) Compose(cleaned image.Image, items []Item) *image.NRGBA {
	out := imaging.Clone(cleaned)

	c.mu.Lock()
	defer c.mu.Unlock()

	src := image.NewUniform(c.Color)
	drawer := &font.Drawer{
		Dst:  out,
		Face: c.Face,
	}
	lo, hi := strokeSpan(c.Thickness)

	for _, it := range items {
		if !c.Drawn(it) {
			continue
		}
		drawer.Src = src
		if it.Color != nil {
			drawer.Src = image.NewUniform(it.Color)
		}
		a := it.Detection.Quad.Anchor()
		for dy := lo; dy <= hi; dy++ {
			for dx := lo; dx <= hi; dx++ {
				drawer.Dot = fixed.P(a.X+dx, a.Y+dy)
				drawer.DrawString(it.Translated)
			}
		}
	}

	return out
}

// Bounds returns the pixel rectangle Compose may touch when drawing text at
// anchor, stroke included. Parts outside the image are clipped at draw time.
func (c *Composer) Bounds(text string, anchor detection.Point) image.Rectangle {
	c.mu.Lock()
	b, _ := font.BoundString(c.Face, text)
	c.mu.Unlock()

	lo, hi := strokeSpan(c.Thickness)
	return image.Rect(
		anchor.X+b.Min.X.Floor()+lo,
		anchor.Y+b.Min.Y.Floor()+lo,
		anchor.X+b.Max.X.Ceil()+hi,
		anchor.Y+b.Max.Y.Ceil()+hi,
	)
}

// strokeSpan returns the offset range of a thickness-wide stroke around 0.
func strokeSpan(thickness int) (lo, hi int) {
	if thickness < 1 {
		thickness = 1
	}
	lo = -(thickness - 1) / 2
	return lo, lo + thickness - 1
}
