package inpaint

import (
	"container/heap"
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// DefaultRadius is the neighbourhood radius, in pixels, used when none is given.
const DefaultRadius = 3

// Pixel states during fast marching.
const (
	known  uint8 = iota // value is final
	band                // on the front; value final, arrival time may still be queued
	inside              // not yet reached
)

// far is the arrival time of pixels the front has not reached.
const far = 1e6

// Telea reconstructs masked pixels with the fast marching method described in
// A. Telea, "An Image Inpainting Technique Based on the Fast Marching Method"
// (2004).
//
// The front starts at the known pixels bordering the mask and advances inward
// in order of arrival time T. Each pixel it reaches takes a weighted average
// of the already-final pixels within Radius, weighted by
//   - direction: alignment of the offset with the gradient of T (isophotes),
//   - distance: 1/|r|^3,
//   - level: 1/(1+|ΔT|), favouring pixels on the same front.
//
// Only the zero-order term is used; the image-gradient correction of the
// paper is omitted. Keep pixels are copied unchanged.
type Telea struct {
	// Radius is the neighbourhood considered for each pixel. Zero means DefaultRadius.
	Radius int
}

// Inpaint implements Inpainter.
func (t Telea) Inpaint(img image.Image, mask *image.Gray) (*image.NRGBA, error) {
	if err := checkDimensions(img, mask); err != nil {
		return nil, err
	}

	radius := t.Radius
	if radius <= 0 {
		radius = DefaultRadius
	}

	out := imaging.Clone(img)
	fm := newMarcher(out, mask, radius)
	if !fm.seed() {
		// Nothing known to propagate from (empty mask or fully masked image).
		return out, nil
	}
	fm.run()
	return out, nil
}

// marcher holds the state of one fast-marching pass over a 0-origin image.
type marcher struct {
	img    *image.NRGBA
	w, h   int
	radius int
	flag   []uint8
	t      []float64
	queue  frontHeap
}

func newMarcher(img *image.NRGBA, mask *image.Gray, radius int) *marcher {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	m := &marcher{
		img:    img,
		w:      w,
		h:      h,
		radius: radius,
		flag:   make([]uint8, w*h),
		t:      make([]float64, w*h),
	}

	mb := mask.Bounds()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if mask.GrayAt(mb.Min.X+x, mb.Min.Y+y).Y != Keep {
				i := y*w + x
				m.flag[i] = inside
				m.t[i] = far
			}
		}
	}
	return m
}

// seed puts every known pixel that touches the mask on the front. It reports
// whether the front is non-empty.
func (m *marcher) seed() bool {
	for y := 0; y < m.h; y++ {
		for x := 0; x < m.w; x++ {
			i := y*m.w + x
			if m.flag[i] != known {
				continue
			}
			if m.isInside(x-1, y) || m.isInside(x+1, y) || m.isInside(x, y-1) || m.isInside(x, y+1) {
				m.flag[i] = band
				heap.Push(&m.queue, frontItem{x: x, y: y, t: 0})
			}
		}
	}
	return m.queue.Len() > 0
}

func (m *marcher) run() {
	neighbours := [4][2]int{{-1, 0}, {0, -1}, {1, 0}, {0, 1}}

	for m.queue.Len() > 0 {
		p := heap.Pop(&m.queue).(frontItem)
		m.flag[p.y*m.w+p.x] = known

		for _, d := range neighbours {
			x, y := p.x+d[0], p.y+d[1]
			if !m.isInside(x, y) {
				continue
			}
			i := y*m.w + x

			m.t[i] = math.Min(
				math.Min(m.solve(x-1, y, x, y-1), m.solve(x+1, y, x, y-1)),
				math.Min(m.solve(x-1, y, x, y+1), m.solve(x+1, y, x, y+1)),
			)
			m.fill(x, y)
			m.flag[i] = band
			heap.Push(&m.queue, frontItem{x: x, y: y, t: m.t[i]})
		}
	}
}

// solve returns the arrival time implied by the horizontal neighbour
// (x1,y1) and vertical neighbour (x2,y2), per the eikonal equation |∇T| = 1.
func (m *marcher) solve(x1, y1, x2, y2 int) float64 {
	in1, in2 := m.isInsideOrOut(x1, y1), m.isInsideOrOut(x2, y2)
	switch {
	case !in1 && !in2:
		a, b := m.t[y1*m.w+x1], m.t[y2*m.w+x2]
		if math.Abs(a-b) >= 1 {
			return 1 + math.Min(a, b)
		}
		r := math.Sqrt(2 - (a-b)*(a-b))
		return (a + b + r) * 0.5
	case !in1:
		return 1 + m.t[y1*m.w+x1]
	case !in2:
		return 1 + m.t[y2*m.w+x2]
	default:
		return 1 + far
	}
}

// gradT estimates the gradient of T at (x,y) from neighbours the front has passed.
func (m *marcher) gradT(x, y int) (gx, gy float64) {
	t := m.t[y*m.w+x]

	left, right := !m.isInsideOrOut(x-1, y), !m.isInsideOrOut(x+1, y)
	switch {
	case left && right:
		gx = (m.t[y*m.w+x+1] - m.t[y*m.w+x-1]) * 0.5
	case right:
		gx = m.t[y*m.w+x+1] - t
	case left:
		gx = t - m.t[y*m.w+x-1]
	}

	up, down := !m.isInsideOrOut(x, y-1), !m.isInsideOrOut(x, y+1)
	switch {
	case up && down:
		gy = (m.t[(y+1)*m.w+x] - m.t[(y-1)*m.w+x]) * 0.5
	case down:
		gy = m.t[(y+1)*m.w+x] - t
	case up:
		gy = t - m.t[(y-1)*m.w+x]
	}
	return gx, gy
}

// fill computes the colour of (x,y) from final pixels within the radius.
func (m *marcher) fill(x, y int) {
	gx, gy := m.gradT(x, y)
	t := m.t[y*m.w+x]
	r2max := m.radius * m.radius

	var sum [4]float64
	var total float64

	for ny := y - m.radius; ny <= y+m.radius; ny++ {
		if ny < 0 || ny >= m.h {
			continue
		}
		for nx := x - m.radius; nx <= x+m.radius; nx++ {
			if nx < 0 || nx >= m.w {
				continue
			}
			j := ny*m.w + nx
			if m.flag[j] == inside {
				continue
			}
			rx, ry := float64(x-nx), float64(y-ny)
			lenR := rx*rx + ry*ry
			if lenR == 0 || lenR > float64(r2max) {
				continue
			}

			dir := rx*gx + ry*gy
			if math.Abs(dir) <= 0.01 {
				dir = 1e-6
			}
			dst := 1 / (lenR * math.Sqrt(lenR))
			lev := 1 / (1 + math.Abs(m.t[j]-t))
			wgt := math.Abs(dir * dst * lev)

			off := m.img.PixOffset(nx, ny)
			px := m.img.Pix[off : off+4 : off+4]
			for c := 0; c < 4; c++ {
				sum[c] += wgt * float64(px[c])
			}
			total += wgt
		}
	}

	if total == 0 {
		return
	}

	off := m.img.PixOffset(x, y)
	for c := 0; c < 4; c++ {
		m.img.Pix[off+c] = clampUint8(sum[c]/total + 0.5)
	}
}

// isInside reports whether (x,y) is in bounds and not yet reached.
func (m *marcher) isInside(x, y int) bool {
	if x < 0 || y < 0 || x >= m.w || y >= m.h {
		return false
	}
	return m.flag[y*m.w+x] == inside
}

// isInsideOrOut treats out-of-bounds pixels like unreached ones, so they never
// contribute an arrival time.
func (m *marcher) isInsideOrOut(x, y int) bool {
	if x < 0 || y < 0 || x >= m.w || y >= m.h {
		return true
	}
	return m.flag[y*m.w+x] == inside
}

func clampUint8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}

type frontItem struct {
	x, y int
	t    float64
}

// frontHeap is a min-heap of front pixels ordered by arrival time.
type frontHeap []frontItem

func (h frontHeap) Len() int           { return len(h) }
func (h frontHeap) Less(i, j int) bool { return h[i].t < h[j].t }
func (h frontHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *frontHeap) Push(x interface{}) { *h = append(*h, x.(frontItem)) }

func (h *frontHeap) Pop() interface{} {
	old := *h
	n := len(old)
	it := old[n-1]
	*h = old[:n-1]
	return it
}
