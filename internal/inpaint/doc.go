// Package inpaint erases detected text from an image and reconstructs the
// background underneath it.
//
// The work happens in two steps:
//
//  1. BuildMask paints every detection rectangle white on a black canvas the
//     size of the image. White pixels are reconstructed, black pixels are kept.
//  2. An Inpainter fills the white pixels from their surroundings in one pass
//     over the combined mask.
//
// Clean runs both steps. The image passed in is never modified; every call
// returns a fresh *image.NRGBA whose bounds start at (0,0).
//
// # Methods
//
// "telea" is a pure-Go fast marching implementation and is always available.
// Building with the gocv tag adds "opencv-telea" and "opencv-ns", which call
// OpenCV's cv::inpaint.
//
// # Invariants
//
//   - The mask always has the image's dimensions; Inpaint returns
//     ErrDimensionMismatch otherwise.
//   - Keep pixels in the output equal the input exactly.
//   - With an empty detection list the output equals the input.
package inpaint
