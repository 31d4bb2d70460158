package service

import (
	"container/heap"
	"context"
	"image"
	"math"

	"github.com/lemaitregabinpro-creator/SaaS-DiapoNoteBookLM/config"
)

const (
	fmmKnown uint8 = iota
	fmmBand
	fmmInside
)

const (
	fmmInf = 1e6
	// how many pixels are finalized between context checks
	fmmCheckEvery = 1024
)

var fmmNeighbors = [4][2]int{{0, -1}, {-1, 0}, {1, 0}, {0, 1}}

// FastMarchingInpainter implements Telea's fast marching inpainting.
//
// The masked region is filled from its boundary inward in order of increasing
// distance T. Each new pixel is a weighted average of already-known pixels
// within radius. Weights favour neighbours that are close, lie on the same
// level set of T and sit along the normal direction of the front. A
// gradient term then nudges the estimate along image edges.
type FastMarchingInpainter struct {
	radius int
}

func NewFastMarchingInpainter(radius int) *FastMarchingInpainter {
	return &FastMarchingInpainter{radius: clampRadius(radius)}
}

func (f *FastMarchingInpainter) Name() string { return config.StrategyFastMarching }

// Inpaint returns a copy of src with every mask pixel reconstructed.
func (f *FastMarchingInpainter) Inpaint(ctx context.Context, src *image.NRGBA, mask *image.Gray) (*image.NRGBA, error) {
	if src.Rect.Size() != mask.Rect.Size() {
		return nil, ErrDimensionMismatch
	}

	w, h := src.Rect.Dx(), src.Rect.Dy()
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		copy(out.Pix[y*out.Stride:y*out.Stride+w*4], src.Pix[y*src.Stride:y*src.Stride+w*4])
	}

	g := newFMMGrid(w, h, mask)
	if g.insideCount > 0 {
		g.solveOutside(f.radius)
		if err := g.inpaint(ctx, out, f.radius); err != nil {
			return nil, err
		}
	}

	restoreUnmasked(out, src, mask)
	return out, nil
}

type fmmGrid struct {
	w, h        int
	flag        []uint8
	t           []float64
	insideCount int
	seq         int
}

func newFMMGrid(w, h int, mask *image.Gray) *fmmGrid {
	g := &fmmGrid{
		w:    w,
		h:    h,
		flag: make([]uint8, w*h),
		t:    make([]float64, w*h),
	}

	for y := 0; y < h; y++ {
		row := mask.Pix[y*mask.Stride:]
		for x := 0; x < w; x++ {
			i := y*w + x
			g.t[i] = fmmInf
			if row[x] != 0 {
				g.flag[i] = fmmInside
				g.insideCount++
			}
		}
	}

	// known pixels touching the mask form the initial front
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			if g.flag[i] != fmmKnown {
				continue
			}
			for _, d := range fmmNeighbors {
				nx, ny := x+d[0], y+d[1]
				if g.in(nx, ny) && g.flag[ny*w+nx] == fmmInside {
					g.flag[i] = fmmBand
					g.t[i] = 0
					break
				}
			}
		}
	}
	return g
}

func (g *fmmGrid) in(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.w && y < g.h
}

// solveOutside marches outward from the front into the known ring of width
// radius and stores negated distances there, so T has a usable gradient on
// both sides of the boundary.
func (g *fmmGrid) solveOutside(radius int) {
	inside := make([]bool, len(g.flag))
	for i, f := range g.flag {
		inside[i] = f == fmmInside
	}
	ring := dilateSquare(inside, g.w, g.h, radius)

	flag := make([]uint8, len(g.flag))
	q := &fmmHeap{}
	for i, f := range g.flag {
		switch {
		case f == fmmBand:
			flag[i] = fmmBand
			g.push(q, i)
		case f == fmmKnown && ring[i]:
			flag[i] = fmmInside
		default:
			flag[i] = fmmKnown
		}
	}

	var reached []int
	for q.Len() > 0 {
		p := heap.Pop(q).(fmmNode)
		flag[p.idx] = fmmKnown
		reached = append(reached, p.idx)

		x, y := p.idx%g.w, p.idx/g.w
		for _, d := range fmmNeighbors {
			nx, ny := x+d[0], y+d[1]
			if !g.in(nx, ny) {
				continue
			}
			n := ny*g.w + nx
			if flag[n] != fmmInside {
				continue
			}
			g.t[n] = g.eikonal(flag, nx, ny)
			flag[n] = fmmBand
			g.push(q, n)
		}
	}

	for _, i := range reached {
		g.t[i] = -g.t[i]
	}
}

func (g *fmmGrid) inpaint(ctx context.Context, out *image.NRGBA, radius int) error {
	q := &fmmHeap{}
	for i, f := range g.flag {
		if f == fmmBand {
			g.push(q, i)
		}
	}

	finalized := 0
	for q.Len() > 0 {
		finalized++
		if finalized%fmmCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		p := heap.Pop(q).(fmmNode)
		g.flag[p.idx] = fmmKnown

		x, y := p.idx%g.w, p.idx/g.w
		for _, d := range fmmNeighbors {
			nx, ny := x+d[0], y+d[1]
			if !g.in(nx, ny) {
				continue
			}
			n := ny*g.w + nx
			if g.flag[n] != fmmInside {
				continue
			}
			g.t[n] = g.eikonal(g.flag, nx, ny)
			g.fill(out, nx, ny, radius)
			g.flag[n] = fmmBand
			g.push(q, n)
		}
	}
	return nil
}

// fill estimates the colour of (x, y) from known pixels within radius.
func (g *fmmGrid) fill(out *image.NRGBA, x, y, radius int) {
	tValue := func(px, py int) float64 { return g.t[py*g.w+px] }
	gtx, gty := g.grad(x, y, tValue)
	tc := g.t[y*g.w+x]
	r2 := float64(radius * radius)

	var ia, jx, jy [3]float64
	s := 1e-20

	for wy := y - radius; wy <= y+radius; wy++ {
		for wx := x - radius; wx <= x+radius; wx++ {
			if !g.in(wx, wy) {
				continue
			}
			wi := wy*g.w + wx
			if g.flag[wi] == fmmInside {
				continue
			}
			rx, ry := float64(x-wx), float64(y-wy)
			lenSq := rx*rx + ry*ry
			if lenSq == 0 || lenSq > r2 {
				continue
			}

			dist := 1 / (lenSq * math.Sqrt(lenSq))
			lev := 1 / (1 + math.Abs(g.t[wi]-tc))
			dir := rx*gtx + ry*gty
			if math.Abs(dir) <= 0.01 {
				dir = 1e-6
			}
			weight := math.Abs(dist * lev * dir)

			pix := out.Pix[wy*out.Stride+wx*4:]
			for c := 0; c < 3; c++ {
				channel := func(px, py int) float64 { return float64(out.Pix[py*out.Stride+px*4+c]) }
				gix, giy := g.grad(wx, wy, channel)
				ia[c] += weight * float64(pix[c])
				jx[c] -= weight * gix * rx
				jy[c] -= weight * giy * ry
			}
			s += weight
		}
	}

	dst := out.Pix[y*out.Stride+x*4:]
	for c := 0; c < 3; c++ {
		v := ia[c]/s + (jx[c]+jy[c])/(math.Sqrt(jx[c]*jx[c]+jy[c]*jy[c])+1e-20)
		dst[c] = clampUint8(v + 0.5)
	}
	dst[3] = 0xff
}

// eikonal solves |grad T| = 1 at (x, y) from the four upwind quadrants.
func (g *fmmGrid) eikonal(flag []uint8, x, y int) float64 {
	up, down := g.index(x, y-1), g.index(x, y+1)
	left, right := g.index(x-1, y), g.index(x+1, y)
	return min(
		g.solve(flag, up, left),
		g.solve(flag, down, left),
		g.solve(flag, up, right),
		g.solve(flag, down, right),
	)
}

func (g *fmmGrid) solve(flag []uint8, a, b int) float64 {
	ta, knownA := g.sample(flag, a)
	tb, knownB := g.sample(flag, b)
	m := math.Min(ta, tb)

	switch {
	case knownA && knownB:
		d := ta - tb
		if math.Abs(d) >= 1 {
			return 1 + m
		}
		return (ta + tb + math.Sqrt(2-d*d)) * 0.5
	case knownA:
		return 1 + ta
	case knownB:
		return 1 + tb
	default:
		return 1 + m
	}
}

func (g *fmmGrid) sample(flag []uint8, i int) (float64, bool) {
	if i < 0 {
		return fmmInf, false
	}
	return g.t[i], flag[i] != fmmInside
}

func (g *fmmGrid) index(x, y int) int {
	if !g.in(x, y) {
		return -1
	}
	return y*g.w + x
}

// grad takes one-sided or central differences of val, skipping unknown neighbours.
func (g *fmmGrid) grad(x, y int, val func(x, y int) float64) (float64, float64) {
	return g.diff(x, y, 1, 0, val), g.diff(x, y, 0, 1, val)
}

func (g *fmmGrid) diff(x, y, dx, dy int, val func(x, y int) float64) float64 {
	fwd := g.usable(x+dx, y+dy)
	back := g.usable(x-dx, y-dy)
	switch {
	case fwd && back:
		return (val(x+dx, y+dy) - val(x-dx, y-dy)) * 0.5
	case fwd:
		return val(x+dx, y+dy) - val(x, y)
	case back:
		return val(x, y) - val(x-dx, y-dy)
	default:
		return 0
	}
}

func (g *fmmGrid) usable(x, y int) bool {
	return g.in(x, y) && g.flag[y*g.w+x] != fmmInside
}

func (g *fmmGrid) push(q *fmmHeap, i int) {
	g.seq++
	heap.Push(q, fmmNode{idx: i, t: g.t[i], seq: g.seq})
}

// dilateSquare marks every cell within Chebyshev distance r of a set cell.
func dilateSquare(src []bool, w, h, r int) []bool {
	tmp := make([]bool, len(src))
	for y := 0; y < h; y++ {
		scanLine(src, tmp, y*w, 1, w, r)
	}
	out := make([]bool, len(src))
	for x := 0; x < w; x++ {
		scanLine(tmp, out, x, w, h, r)
	}
	return out
}

func scanLine(src, dst []bool, start, step, n, r int) {
	last := -r - 1
	for i := 0; i < n; i++ {
		if src[start+i*step] {
			last = i
		}
		if i-last <= r {
			dst[start+i*step] = true
		}
	}
	next := n + r + 1
	for i := n - 1; i >= 0; i-- {
		if src[start+i*step] {
			next = i
		}
		if next-i <= r {
			dst[start+i*step] = true
		}
	}
}

func clampUint8(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(v)
	}
}

type fmmNode struct {
	idx int
	t   float64
	seq int
}

// fmmHeap is a min-heap on T; ties pop in insertion order.
type fmmHeap []fmmNode

func (h fmmHeap) Len() int { return len(h) }

func (h fmmHeap) Less(i, j int) bool {
	if h[i].t != h[j].t {
		return h[i].t < h[j].t
	}
	return h[i].seq < h[j].seq
}

func (h fmmHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *fmmHeap) Push(x any) { *h = append(*h, x.(fmmNode)) }

func (h *fmmHeap) Pop() any {
	old := *h
	n := len(old)
	node := old[n-1]
	*h = old[:n-1]
	return node
}
