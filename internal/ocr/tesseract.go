package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/ironsheep/image-translate/internal/detection"
)

// DefaultLanguage is the Tesseract language used when none is configured.
const DefaultLanguage = "kor"

// Tesseract detects text with the Tesseract engine through gosseract.
//
// Each call creates its own Tesseract client, so one Tesseract value can serve
// concurrent Detect calls.
type Tesseract struct {
	// Language is one or more Tesseract language codes joined by "+",
	// e.g. "kor" or "kor+eng". The matching traineddata must be installed.
	Language string

	// TessdataPrefix is the directory holding *.traineddata files. Empty means
	// TessdataDir's search order.
	TessdataPrefix string

	// Lines reports one detection per text line instead of per word. Lines
	// keep phrases together, which usually translates better.
	Lines bool
}

// Detect runs OCR over img and returns one detection per recognized word
// (or line, when Lines is set).
//
// Parameters:
//   - ctx: Checked before OCR starts. Tesseract itself cannot be interrupted.
//   - img: Any image; non-zero origins are handled.
//
// Returns:
//   - []detection.Detection: Words in Tesseract's reading order. Empty words are
//     dropped. Confidence is scaled from Tesseract's 0-100 to 0-1. Quads are in
//     img's coordinate space.
//   - error: Non-nil if the image cannot be encoded or Tesseract fails.
func (t *Tesseract) Detect(ctx context.Context, img image.Image) ([]detection.Detection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image for OCR: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if dir := TessdataDir(t.TessdataPrefix); dir != "" {
		if err := client.SetTessdataPrefix(dir); err != nil {
			return nil, fmt.Errorf("failed to set tessdata prefix: %w", err)
		}
	}

	if err := client.SetLanguage(splitLanguages(t.Language)...); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}

	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	level := gosseract.RIL_WORD
	if t.Lines {
		level = gosseract.RIL_TEXTLINE
	}
	boxes, err := client.GetBoundingBoxes(level)
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	origin := img.Bounds().Min
	dets := make([]detection.Detection, 0, len(boxes))
	for _, box := range boxes {
		text := strings.TrimSpace(box.Word)
		if text == "" {
			continue
		}
		dets = append(dets, detection.Detection{
			Quad:       detection.QuadFromRect(box.Box.Add(origin)),
			Text:       text,
			Confidence: clampConfidence(box.Confidence / 100.0),
		})
	}
	return dets, nil
}

func splitLanguages(lang string) []string {
	if strings.TrimSpace(lang) == "" {
		return []string{DefaultLanguage}
	}
	var langs []string
	for _, l := range strings.Split(lang, "+") {
		if l = strings.TrimSpace(l); l != "" {
			langs = append(langs, l)
		}
	}
	return langs
}

func clampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}

// TessdataDir resolves the traineddata directory. It returns, in order:
// prefix when non-empty, $TESSDATA_PREFIX, a "tessdata" directory next to
// the executable if one exists, or "" to let Tesseract use its built-in path.
func TessdataDir(prefix string) string {
	if prefix != "" {
		return prefix
	}
	if env := os.Getenv("TESSDATA_PREFIX"); env != "" {
		return env
	}

	exePath, err := os.Executable()
	if err != nil {
		return ""
	}
	// Resolve symlinks to get actual binary location
	if real, err := filepath.EvalSymlinks(exePath); err == nil {
		exePath = real
	}
	dir := filepath.Join(filepath.Dir(exePath), "tessdata")
	if st, err := os.Stat(dir); err == nil && st.IsDir() {
		return dir
	}
	return ""
}

// TesseractVersion returns the linked Tesseract version.
func TesseractVersion() string {
	client := gosseract.NewClient()
	defer client.Close()
	return client.Version()
}

// OCRInfo contains information about the OCR subsystem.
type OCRInfo struct {
	Available    bool     `json:"available"`
	Version      string   `json:"version,omitempty"`
	Error        string   `json:"error,omitempty"`
	Backend      string   `json:"backend"`
	Languages    []string `json:"languages"`
	TessdataPath string   `json:"tessdata_path,omitempty"`
}

// Info reports whether Tesseract can be initialised for t's languages.
func (t *Tesseract) Info() OCRInfo {
	info := OCRInfo{
		Backend:      "gosseract",
		Languages:    splitLanguages(t.Language),
		TessdataPath: TessdataDir(t.TessdataPrefix),
	}

	client := gosseract.NewClient()
	defer client.Close()

	info.Version = client.Version()

	if info.TessdataPath != "" {
		if err := client.SetTessdataPrefix(info.TessdataPath); err != nil {
			info.Error = err.Error()
			return info
		}
	}
	if err := client.SetLanguage(info.Languages...); err != nil {
		info.Error = err.Error()
		return info
	}

	// Initialisation is lazy; a blank image forces it so missing language
	// data shows up here rather than on the first real request.
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 8, 8))); err != nil {
		info.Error = err.Error()
		return info
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		info.Error = err.Error()
		return info
	}
	if _, err := client.Text(); err != nil {
		info.Error = err.Error()
		return info
	}

	info.Available = true
	return info
}
