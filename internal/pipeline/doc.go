// Package pipeline runs the translation steps in order:
//
//  1. Detect text (or accept detections from elsewhere).
//  2. Build one mask from every detection rectangle and inpaint it in a
//     single pass over the original image.
//  3. Translate every detection, several at a time.
//  4. Draw each successful, confident translation on the cleaned image.
//
// Detection and inpainting failures abort a run. A failed translation only
// leaves its detection undrawn and is reported in Result.Failures.
package pipeline
