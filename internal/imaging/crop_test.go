package imaging

import (
	"image"
	"image/color"
	"testing"
)

// createPatternImage creates a quadrant image: red top-left, green top-right,
// blue bottom-left, white bottom-right.
func createPatternImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var c color.RGBA
			switch {
			case x < width/2 && y < height/2:
				c = color.RGBA{255, 0, 0, 255}
			case x >= width/2 && y < height/2:
				c = color.RGBA{0, 255, 0, 255}
			case x < width/2:
				c = color.RGBA{0, 0, 255, 255}
			default:
				c = color.RGBA{255, 255, 255, 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestSelection_Rect(t *testing.T) {
	tests := []struct {
		name   string
		sel    *Selection
		want   image.Rectangle
		wantOK bool
	}{
		{"nil", nil, image.Rectangle{}, false},
		{"down-right drag", &Selection{Start: image.Pt(10, 20), End: image.Pt(50, 60)}, image.Rect(10, 20, 50, 60), true},
		{"up-left drag", &Selection{Start: image.Pt(50, 60), End: image.Pt(10, 20)}, image.Rect(10, 20, 50, 60), true},
		{"up-right drag", &Selection{Start: image.Pt(10, 60), End: image.Pt(50, 20)}, image.Rect(10, 20, 50, 60), true},
		{"click", &Selection{Start: image.Pt(5, 5), End: image.Pt(5, 5)}, image.Rectangle{}, false},
		{"one pixel wide", &Selection{Start: image.Pt(5, 5), End: image.Pt(6, 40)}, image.Rectangle{}, false},
		{"two pixels", &Selection{Start: image.Pt(5, 5), End: image.Pt(7, 7)}, image.Rect(5, 5, 7, 7), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.sel.Rect()
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Rect() = %v, %v; want %v, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestParseSelection(t *testing.T) {
	sel, err := ParseSelection("10, 20,30,40")
	if err != nil {
		t.Fatalf("ParseSelection failed: %v", err)
	}
	r, ok := sel.Rect()
	if !ok || r != image.Rect(10, 20, 40, 60) {
		t.Errorf("got %v %v", r, ok)
	}

	if sel, err := ParseSelection(""); sel != nil || err != nil {
		t.Errorf("empty string: got %v, %v", sel, err)
	}

	for _, bad := range []string{"1,2,3", "a,b,c,d", "1,2,-3,4", "1,2,3,4,5"} {
		if _, err := ParseSelection(bad); err == nil {
			t.Errorf("ParseSelection(%q) should fail", bad)
		}
	}
}

func TestCropSelection(t *testing.T) {
	img := createPatternImage(100, 100)

	out, from, err := CropSelection(img, &Selection{Start: image.Pt(50, 50), End: image.Pt(0, 0)})
	if err != nil {
		t.Fatalf("CropSelection failed: %v", err)
	}

	if out.Bounds() != image.Rect(0, 0, 50, 50) {
		t.Fatalf("bounds = %v, want 50x50 at origin", out.Bounds())
	}
	if from != image.Rect(0, 0, 50, 50) {
		t.Errorf("source rect = %v, want (0,0)-(50,50)", from)
	}
	if c := out.NRGBAAt(25, 25); c != (color.NRGBA{255, 0, 0, 255}) {
		t.Errorf("cropped content = %v, want red", c)
	}
}

func TestCropSelection_NilIsWholeImage(t *testing.T) {
	img := createPatternImage(40, 30)

	out, from, err := CropSelection(img, nil)
	if err != nil {
		t.Fatalf("CropSelection failed: %v", err)
	}
	if out.Bounds() != img.Bounds() {
		t.Errorf("bounds = %v, want %v", out.Bounds(), img.Bounds())
	}
	if from != img.Bounds() {
		t.Errorf("source rect = %v, want %v", from, img.Bounds())
	}

	out.Set(0, 0, color.Black)
	if img.RGBAAt(0, 0) != (color.RGBA{255, 0, 0, 255}) {
		t.Error("CropSelection must return a copy")
	}
}

func TestCropSelection_Clipped(t *testing.T) {
	img := createPatternImage(100, 100)

	out, from, err := CropSelection(img, NewSelection(80, 80, 50, 50))
	if err != nil {
		t.Fatalf("CropSelection failed: %v", err)
	}
	if out.Bounds().Dx() != 20 || out.Bounds().Dy() != 20 {
		t.Errorf("got %dx%d, want 20x20", out.Bounds().Dx(), out.Bounds().Dy())
	}
	if from != image.Rect(80, 80, 100, 100) {
		t.Errorf("source rect = %v, want (80,80)-(100,100)", from)
	}
	if c := out.NRGBAAt(0, 0); c != (color.NRGBA{255, 255, 255, 255}) {
		t.Errorf("corner = %v, want white", c)
	}
}

func TestCropSelection_OutsideImage(t *testing.T) {
	img := createPatternImage(50, 50)

	if _, _, err := CropSelection(img, NewSelection(200, 200, 10, 10)); err == nil {
		t.Error("expected error for selection outside the image")
	}
}

func TestCropSelection_NonZeroOrigin(t *testing.T) {
	img := createPatternImage(100, 100).SubImage(image.Rect(50, 0, 100, 50))

	out, from, err := CropSelection(img, NewSelection(0, 0, 10, 10))
	if err != nil {
		t.Fatalf("CropSelection failed: %v", err)
	}
	if c := out.NRGBAAt(5, 5); c != (color.NRGBA{0, 255, 0, 255}) {
		t.Errorf("got %v, want green: selection is relative to the image origin", c)
	}
	if from != image.Rect(50, 0, 60, 10) {
		t.Errorf("source rect = %v, want (50,0)-(60,10)", from)
	}
}

func TestCropSelection_StartsOutsideImage(t *testing.T) {
	img := createPatternImage(40, 40)

	out, from, err := CropSelection(img, NewSelection(-10, -10, 30, 30))
	if err != nil {
		t.Fatalf("CropSelection failed: %v", err)
	}
	if from != image.Rect(0, 0, 20, 20) {
		t.Errorf("source rect = %v, want (0,0)-(20,20)", from)
	}
	if out.Bounds() != image.Rect(0, 0, 20, 20) {
		t.Errorf("bounds = %v, want 20x20 at origin", out.Bounds())
	}
	if !samePixel(out, 0, 0, img, 0, 0) || !samePixel(out, 19, 19, img, 19, 19) {
		t.Error("crop should start at the image's top-left corner")
	}
}

func TestSelection_Clip(t *testing.T) {
	bounds := image.Rect(0, 0, 40, 40)
	tests := []struct {
		name    string
		sel     *Selection
		want    image.Rectangle
		wantErr bool
	}{
		{"nil", nil, bounds, false},
		{"inside", NewSelection(5, 5, 10, 10), image.Rect(5, 5, 15, 15), false},
		{"negative start", NewSelection(-10, -10, 30, 30), image.Rect(0, 0, 20, 20), false},
		{"past the end", NewSelection(30, 30, 30, 30), image.Rect(30, 30, 40, 40), false},
		{"outside", NewSelection(-50, -50, 20, 20), image.Rectangle{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.sel.Clip(bounds)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Clip = %v, want %v", got, tt.want)
			}
		})
	}
}

func samePixel(a *image.NRGBA, ax, ay int, b image.Image, bx, by int) bool {
	return color.NRGBAModel.Convert(b.At(bx, by)) == a.NRGBAAt(ax, ay)
}
