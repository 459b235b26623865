package detection

import (
	"encoding/json"
	"fmt"
	"io"
)

// ParseEasyOCR decodes detections from the JSON form of an EasyOCR
// readtext() result:
//
//	[
//	  [[[10, 10], [50, 10], [50, 30], [10, 30]], "안녕", 0.93],
//	  ...
//	]
//
// Coordinates may be floats; they are truncated toward zero. Entries keep the
// order they appear in, which is the engine's return order.
func ParseEasyOCR(r io.Reader) ([]Detection, error) {
	var raw [][]json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode detections: %w", err)
	}

	dets := make([]Detection, 0, len(raw))
	for i, entry := range raw {
		if len(entry) != 3 {
			return nil, fmt.Errorf("detection %d: expected [box, text, confidence], got %d fields", i, len(entry))
		}

		var pts [][]float64
		if err := json.Unmarshal(entry[0], &pts); err != nil {
			return nil, fmt.Errorf("detection %d: invalid box: %w", i, err)
		}
		if len(pts) != 4 {
			return nil, fmt.Errorf("detection %d: box has %d points, want 4", i, len(pts))
		}

		var q Quad
		for j, p := range pts {
			if len(p) != 2 {
				return nil, fmt.Errorf("detection %d: point %d has %d coordinates, want 2", i, j, len(p))
			}
			q[j] = Point{X: int(p[0]), Y: int(p[1])}
		}

		var d Detection
		d.Quad = q
		if err := json.Unmarshal(entry[1], &d.Text); err != nil {
			return nil, fmt.Errorf("detection %d: invalid text: %w", i, err)
		}
		if err := json.Unmarshal(entry[2], &d.Confidence); err != nil {
			return nil, fmt.Errorf("detection %d: invalid confidence: %w", i, err)
		}
		dets = append(dets, d)
	}

	return dets, nil
}
