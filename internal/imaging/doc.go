// Package imaging handles image input and output for the translator.
//
// It loads images from disk (PNG, JPEG, GIF, BMP, TIFF and WebP) through a
// shared ImageCache, crops an optional user Selection, parses hex colours,
// and writes PNG results either to disk or as base64 for the MCP server.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with the origin at the top-left corner.
// X increases rightward and Y increases downward. Regions use the
// image.Rectangle convention: Min is inclusive, Max is exclusive.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. Images it returns are shared and
// must not be modified; crop and encode functions never modify their input.
package imaging
