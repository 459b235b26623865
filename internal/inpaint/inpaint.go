package inpaint

import (
	"errors"
	"fmt"
	"image"
	"sort"
	"strings"
	"sync"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/image-translate/internal/detection"
)

// ErrDimensionMismatch is returned when a mask and the image it applies to
// differ in size. It indicates a programming error in the caller.
var ErrDimensionMismatch = errors.New("mask dimensions do not match image")

// Inpainter reconstructs the pixels a mask marks as Reconstruct.
//
// Implementations must return a new image the size of img, leave every Keep
// pixel identical to img, and give every Reconstruct pixel an in-range colour
// derived from its surroundings. img is never modified.
type Inpainter interface {
	Inpaint(img image.Image, mask *image.Gray) (*image.NRGBA, error)
}

// Factory builds an Inpainter with the given neighbourhood radius.
type Factory func(radius int) Inpainter

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{
		"telea": func(radius int) Inpainter { return Telea{Radius: radius} },
	}
)

// Register makes an inpainting method available to New under name.
// Registering the same name twice replaces the earlier factory.
func Register(name string, f Factory) {
	registryMu.Lock()
	registry[strings.ToLower(name)] = f
	registryMu.Unlock()
}

// Methods returns the registered method names, sorted.
func Methods() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// New returns the inpainter registered under method. An empty method selects
// the built-in fast-marching implementation.
func New(method string, radius int) (Inpainter, error) {
	if method == "" {
		method = "telea"
	}
	registryMu.RLock()
	f, ok := registry[strings.ToLower(method)]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown inpaint method %q (available: %s)", method, strings.Join(Methods(), ", "))
	}
	return f(radius), nil
}

// Clean erases every detection from img in a single reconstruction pass.
//
// The mask is the union of all detection rectangles; it is returned alongside
// the cleaned image. With no detections the mask is all Keep and the cleaned
// image is a pixel-identical copy of img.
func Clean(in Inpainter, img image.Image, dets []detection.Detection) (cleaned *image.NRGBA, mask *image.Gray, err error) {
	mask = BuildMask(img.Bounds(), dets)
	if len(dets) == 0 || Count(mask) == 0 {
		return imaging.Clone(img), mask, nil
	}

	cleaned, err = in.Inpaint(img, mask)
	if err != nil {
		return nil, mask, err
	}
	return cleaned, mask, nil
}

func checkDimensions(img image.Image, mask *image.Gray) error {
	if mask == nil {
		return fmt.Errorf("%w: mask is nil", ErrDimensionMismatch)
	}
	is, ms := img.Bounds().Size(), mask.Bounds().Size()
	if is != ms {
		return fmt.Errorf("%w: image %dx%d, mask %dx%d", ErrDimensionMismatch, is.X, is.Y, ms.X, ms.Y)
	}
	return nil
}
