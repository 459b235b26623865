//go:build gocv

package inpaint

// OpenCV-backed inpainting. Build with -tags gocv on a system with OpenCV 4
// installed to register the "opencv-telea" and "opencv-ns" methods.

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"gocv.io/x/gocv"
)

func init() {
	Register("opencv-telea", func(radius int) Inpainter { return OpenCV{Radius: radius, Method: gocv.Telea} })
	Register("opencv-ns", func(radius int) Inpainter { return OpenCV{Radius: radius, Method: gocv.NS} })
}

// OpenCV inpaints with cv::inpaint.
type OpenCV struct {
	Radius int
	Method gocv.InpaintMethods
}

// Inpaint implements Inpainter.
func (o OpenCV) Inpaint(img image.Image, mask *image.Gray) (*image.NRGBA, error) {
	if err := checkDimensions(img, mask); err != nil {
		return nil, err
	}
	radius := o.Radius
	if radius <= 0 {
		radius = DefaultRadius
	}

	src := imaging.Clone(img)
	w, h := src.Bounds().Dx(), src.Bounds().Dy()

	rgba, err := gocv.NewMatFromBytes(h, w, gocv.MatTypeCV8UC4, src.Pix)
	if err != nil {
		return nil, fmt.Errorf("failed to convert image: %w", err)
	}
	defer rgba.Close()

	bgr := gocv.NewMat()
	defer bgr.Close()
	gocv.CvtColor(rgba, &bgr, gocv.ColorRGBAToBGR)

	m, err := gocv.NewMatFromBytes(h, w, gocv.MatTypeCV8UC1, packedGray(mask))
	if err != nil {
		return nil, fmt.Errorf("failed to convert mask: %w", err)
	}
	defer m.Close()

	dst := gocv.NewMat()
	defer dst.Close()
	gocv.Inpaint(bgr, m, &dst, float32(radius), o.Method)

	back := gocv.NewMat()
	defer back.Close()
	gocv.CvtColor(dst, &back, gocv.ColorBGRToRGBA)

	out := imaging.Clone(img)
	pix := back.ToBytes()
	mb := mask.Bounds()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if mask.GrayAt(mb.Min.X+x, mb.Min.Y+y).Y == Keep {
				continue
			}
			off := out.PixOffset(x, y)
			copy(out.Pix[off:off+3], pix[off:off+3])
			out.Pix[off+3] = 255
		}
	}
	return out, nil
}

// packedGray returns mask's pixels as a contiguous width*height slice.
func packedGray(mask *image.Gray) []byte {
	b := mask.Bounds()
	w := b.Dx()
	if mask.Stride == w && b.Min == (image.Point{}) {
		return mask.Pix[:w*b.Dy()]
	}
	out := make([]byte, 0, w*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := mask.PixOffset(b.Min.X, y)
		out = append(out, mask.Pix[off:off+w]...)
	}
	return out
}
