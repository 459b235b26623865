package pipeline

import (
	"context"
	"fmt"
	"image"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/image-translate/internal/detection"
	imgio "github.com/ironsheep/image-translate/internal/imaging"
	"github.com/ironsheep/image-translate/internal/inpaint"
	"github.com/ironsheep/image-translate/internal/logging"
	"github.com/ironsheep/image-translate/internal/overlay"
	"github.com/ironsheep/image-translate/internal/translate"
)

// DefaultConcurrency bounds in-flight translation requests when none is set.
const DefaultConcurrency = 4

// Detector finds text in an image. Quads are in img's coordinate space.
type Detector interface {
	Detect(ctx context.Context, img image.Image) ([]detection.Detection, error)
}

// DetectorFunc adapts a function to the Detector interface.
type DetectorFunc func(ctx context.Context, img image.Image) ([]detection.Detection, error)

// Detect calls f.
func (f DetectorFunc) Detect(ctx context.Context, img image.Image) ([]detection.Detection, error) {
	return f(ctx, img)
}

// Pipeline turns an image with source-language text into the same image with
// that text erased and replaced by its translation.
type Pipeline struct {
	Detector   Detector
	Translator translate.Translator
	Inpainter  inpaint.Inpainter
	Composer   *overlay.Composer

	// Observer receives intermediate images. Nil disables them.
	Observer Observer

	// Logger defaults to logging.Discard().
	Logger *logging.Logger

	SourceLang string
	TargetLang string

	// Concurrency bounds in-flight translations. Zero means DefaultConcurrency.
	Concurrency int

	// Timeout bounds each translation call. Zero means no per-call limit.
	Timeout time.Duration

	// SkipLowConfidence skips translating detections the composer would not
	// draw anyway. Off by default so every detection is translated.
	SkipLowConfidence bool
}

// Result holds everything a run produced.
type Result struct {
	RunID string

	// Original is the input image, unchanged.
	Original image.Image

	// Mask marks the pixels that were reconstructed.
	Mask *image.Gray

	// Cleaned is Original with every detection erased.
	Cleaned *image.NRGBA

	// Final is Cleaned with the translations drawn on.
	Final *image.NRGBA

	Detections []detection.Detection

	// Translations is index-aligned with Detections.
	Translations []overlay.Item

	// Failures lists per-detection translation errors in detection order.
	Failures []*Error
}

// Drawn returns how many translations ended up on Final.
func (r *Result) Drawn(c *overlay.Composer) int {
	n := 0
	for _, it := range r.Translations {
		if c.Drawn(it) {
			n++
		}
	}
	return n
}

// Run detects text in img and runs the rest of the pipeline on it.
func (p *Pipeline) Run(ctx context.Context, img image.Image) (*Result, error) {
	runID := uuid.New().String()
	log := p.logger().With("run", runID)

	if p.Detector == nil {
		return nil, NewDetectionFailedError(runID, fmt.Errorf("no detector configured"))
	}

	start := time.Now()
	dets, err := p.Detector.Detect(ctx, img)
	if err != nil {
		log.Error("Detection failed", "error", err)
		return nil, NewDetectionFailedError(runID, err)
	}
	log.Info("Detected text", "count", len(dets), "elapsed", time.Since(start).Round(time.Millisecond))

	return p.run(ctx, runID, log, img, dets)
}

// RunDetections runs the pipeline on detections produced elsewhere, such as
// an external OCR engine. dets must be in img's coordinate space.
func (p *Pipeline) RunDetections(ctx context.Context, img image.Image, dets []detection.Detection) (*Result, error) {
	runID := uuid.New().String()
	return p.run(ctx, runID, p.logger().With("run", runID), img, dets)
}

func (p *Pipeline) run(ctx context.Context, runID string, log *logging.Logger, img image.Image, dets []detection.Detection) (*Result, error) {
	if p.Composer == nil {
		return nil, fmt.Errorf("pipeline has no composer")
	}
	if p.Translator == nil {
		return nil, fmt.Errorf("pipeline has no translator")
	}

	for i, d := range dets {
		log.Debug("Detection", "index", i, "detection", d)
	}
	if len(dets) > 0 {
		log.Debug("Text area", "bounds", detection.Union(dets))
	}

	res := &Result{
		RunID:      runID,
		Original:   img,
		Detections: dets,
	}

	if p.Observer != nil {
		p.observe(log, "preview", p.Observer.Preview(runID, img, dets))
	}

	// Every rectangle is erased in one pass over the original, before any
	// text is drawn.
	in := p.Inpainter
	if in == nil {
		in = inpaint.Telea{}
	}
	start := time.Now()
	cleaned, mask, err := inpaint.Clean(in, img, dets)
	if err != nil {
		log.Error("Inpainting failed", "error", err)
		return nil, NewInpaintError(runID, err)
	}
	res.Mask, res.Cleaned = mask, cleaned
	log.Info("Erased text", "pixels", inpaint.Count(mask), "elapsed", time.Since(start).Round(time.Millisecond))

	if p.Observer != nil {
		p.observe(log, "mask", p.Observer.Mask(runID, mask))
		p.observe(log, "cleaned", p.Observer.Cleaned(runID, cleaned))
	}

	start = time.Now()
	items, failures, err := p.translateAll(ctx, runID, log, dets)
	if err != nil {
		return nil, err
	}
	res.Translations, res.Failures = items, failures
	log.Info("Translated text", "ok", len(dets)-len(failures), "failed", len(failures),
		"elapsed", time.Since(start).Round(time.Millisecond))

	res.Final = p.Composer.Compose(cleaned, items)
	log.Info("Composed output", "drawn", res.Drawn(p.Composer))

	if p.Observer != nil {
		p.observe(log, "translated", p.Observer.Translated(runID, res.Final))
	}
	return res, nil
}

// translateAll translates every detection with bounded concurrency. Results
// are written by index so they stay aligned with dets whatever order the
// calls finish in. Failed translations are returned, not raised; only a
// cancelled ctx aborts.
func (p *Pipeline) translateAll(ctx context.Context, runID string, log *logging.Logger, dets []detection.Detection) ([]overlay.Item, []*Error, error) {
	items := make([]overlay.Item, len(dets))
	errs := make([]*Error, len(dets))

	limit := p.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	var g errgroup.Group
	g.SetLimit(limit)

	for i, d := range dets {
		i, d := i, d
		items[i] = overlay.Item{Detection: d}
		if p.SkipLowConfidence && d.Confidence <= p.Composer.Threshold {
			continue
		}

		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			tctx := ctx
			if p.Timeout > 0 {
				var cancel context.CancelFunc
				tctx, cancel = context.WithTimeout(ctx, p.Timeout)
				defer cancel()
			}

			out, err := p.Translator.Translate(tctx, d.Text, p.SourceLang, p.TargetLang)
			if err != nil {
				errs[i] = NewTranslationFailedError(runID, i, d.Text, err)
				log.Warn("Translation failed", "index", i, "text", d.Text, "error", err)
				return nil
			}
			items[i].Translated = out
			items[i].OK = true
			log.Debug("Translated", "index", i, "from", d.Text, "to", out)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		log.Warn("Run cancelled", "error", err)
		return nil, nil, NewCancelledError(runID, err)
	}

	var failures []*Error
	for _, e := range errs {
		if e != nil {
			failures = append(failures, e)
		}
	}
	return items, failures, nil
}

// RunFile translates the image at in and writes the result to out as a PNG.
// sel restricts processing to part of the image; nil means all of it.
func (p *Pipeline) RunFile(ctx context.Context, in, out string, sel *imgio.Selection) (*Result, error) {
	return p.RunFileDetections(ctx, in, out, sel, nil)
}

// RunFileDetections is RunFile with detections supplied by the caller in the
// input file's coordinates. A nil dets runs the Detector instead; an empty
// non-nil dets means the image has no text.
func (p *Pipeline) RunFileDetections(ctx context.Context, in, out string, sel *imgio.Selection, dets []detection.Detection) (*Result, error) {
	img, err := loadImage(in)
	if err != nil {
		return nil, NewIOFailedError("", "read", in, err)
	}

	// from.Min is where the crop's origin lies in the input, after clipping.
	src, from, err := imgio.CropSelection(img, sel)
	if err != nil {
		return nil, NewIOFailedError("", "crop", in, err)
	}

	var res *Result
	if dets == nil {
		res, err = p.Run(ctx, src)
	} else {
		res, err = p.RunDetections(ctx, src, shiftDetections(dets, from.Min, src.Bounds()))
	}
	if err != nil {
		return nil, err
	}

	if err := imgio.SavePNG(out, res.Final); err != nil {
		return nil, NewIOFailedError(res.RunID, "write", out, err)
	}
	p.logger().Info("Wrote output", "run", res.RunID, "path", out)
	return res, nil
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := imgio.Decode(f)
	return img, err
}

// shiftDetections moves dets from input-image coordinates into the cropped
// image's 0-origin space and drops those that end up entirely outside it.
func shiftDetections(dets []detection.Detection, origin image.Point, bounds image.Rectangle) []detection.Detection {
	out := make([]detection.Detection, 0, len(dets))
	for _, d := range dets {
		for i := range d.Quad {
			d.Quad[i].X -= origin.X
			d.Quad[i].Y -= origin.Y
		}
		if d.Quad.Rect().Overlaps(bounds) {
			out = append(out, d)
		}
	}
	return out
}

func (p *Pipeline) observe(log *logging.Logger, stage string, err error) {
	if err != nil {
		log.Warn("Failed to record intermediate image", "stage", stage, "error", err)
	}
}

func (p *Pipeline) logger() *logging.Logger {
	if p.Logger == nil {
		return logging.Discard()
	}
	return p.Logger
}

// Erase removes dets from img without translating anything.
func Erase(in inpaint.Inpainter, img image.Image, dets []detection.Detection) (*image.NRGBA, error) {
	if in == nil {
		in = inpaint.Telea{}
	}
	cleaned, _, err := inpaint.Clean(in, img, dets)
	if err != nil {
		return nil, NewInpaintError("", err)
	}
	return cleaned, nil
}
