// Package ocr finds text in images using Tesseract.
//
// Tesseract wraps the engine (via gosseract/v2) as a text detector: it reports
// every word it recognizes together with the word's bounding box and a
// confidence in [0, 1]. Boxes become detection quads, so the rest of the
// translator never sees Tesseract types.
//
// # Prerequisites
//
// Tesseract and its language data must be installed:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-kor
//   - macOS: brew install tesseract tesseract-lang
//
// Language data is looked up in the configured prefix, then $TESSDATA_PREFIX,
// then a tessdata directory next to the binary, then Tesseract's default.
//
// # Languages
//
// Language codes are Tesseract's, not ISO 639-1: "kor" for Korean, "jpn" for
// Japanese, "chi_sim" for Simplified Chinese. Combine them with "+".
//
// # Performance Considerations
//
// OCR is CPU-bound and cannot be cancelled once started. Cropping to a
// selection before detection is the cheapest way to speed it up.
package ocr
