// Package overlay writes translated text back onto a cleaned image.
//
// Each translation is drawn at its detection's anchor (corner 0 of the quad)
// with the text baseline starting there, the same convention raster text
// primitives use. Only detections whose confidence is strictly above the
// composer's threshold are drawn, and only when their translation succeeded.
//
// Text that runs past the canvas edge is clipped. Nothing is wrapped, resized
// or re-flowed to fit the original box.
package overlay
