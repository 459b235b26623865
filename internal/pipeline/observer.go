package pipeline

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"github.com/anthonynsimon/bild/imgio"

	"github.com/ironsheep/image-translate/internal/detection"
)

// Observer receives intermediate images as a run progresses. It exists for
// debugging; a nil Observer means no intermediate output at all.
type Observer interface {
	Mask(runID string, mask *image.Gray) error
	Cleaned(runID string, img image.Image) error
	Preview(runID string, img image.Image, dets []detection.Detection) error
	Translated(runID string, img image.Image) error
}

// Artifact file names written by DirObserver.
const (
	MaskFile       = "mask.png"
	CleanedFile    = "inpaint.png"
	PreviewFile    = "rect.png"
	TranslatedFile = "translated.png"
)

// previewBoxColor outlines detections in the preview image.
var previewBoxColor = color.NRGBA{R: 0, G: 255, B: 0, A: 255}

// DirObserver writes each intermediate image as a PNG under Dir/<runID>/.
type DirObserver struct {
	Dir string
}

func (o DirObserver) Mask(runID string, mask *image.Gray) error {
	return o.save(runID, MaskFile, mask)
}

func (o DirObserver) Cleaned(runID string, img image.Image) error {
	return o.save(runID, CleanedFile, img)
}

// Preview draws every detection's box and confidence before saving.
func (o DirObserver) Preview(runID string, img image.Image, dets []detection.Detection) error {
	return o.save(runID, PreviewFile, detection.Annotate(img, dets, previewBoxColor))
}

func (o DirObserver) Translated(runID string, img image.Image) error {
	return o.save(runID, TranslatedFile, img)
}

// Path returns where name is written for runID.
func (o DirObserver) Path(runID, name string) string {
	return filepath.Join(o.Dir, runID, name)
}

func (o DirObserver) save(runID, name string, img image.Image) error {
	path := o.Path(runID, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create debug directory: %w", err)
	}
	if err := imgio.Save(path, img, imgio.PNGEncoder()); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}
