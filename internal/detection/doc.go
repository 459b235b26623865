// Package detection holds the OCR data model shared by every stage of the
// translation pipeline.
//
// A Detection pairs a text region (Quad) with the recognized text and the
// engine's confidence. Detections are produced by a text detector, consumed
// in the order the detector returned them, and never re-sorted: the overlay
// stage draws them in that order.
//
// # Coordinate System
//
// All coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//
// A Quad's corners are inclusive pixels. Quad.Rect converts them to a
// half-open image.Rectangle, so a quad spanning (10,10)-(50,30) covers
// image.Rect(10, 10, 51, 31).
//
// # Input Formats
//
// ParseEasyOCR reads the JSON form of an EasyOCR readtext() result, which
// lets detections produced outside this program drive the pipeline.
//
// # Preview
//
// Annotate renders a debugging preview: an outline around each detection and
// its confidence at the anchor point.
package detection
