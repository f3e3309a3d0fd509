package render

import (
	"fmt"
	"math"
	"strings"

	"basislab/internal/basis"
)

// Layer orders what is drawn on top. Higher layers overwrite lower ones.
type Layer uint8

const (
	LayerEmpty Layer = iota
	LayerAxis
	LayerBasisLine
	LayerShift
	LayerBasis
	LayerVector
	LayerLabel
)

type Cell struct {
	R rune
	L Layer
}

// Canvas is a character raster over the square [-Extent, Extent]².
// Row 0 is the top edge.
type Canvas struct {
	W, H   int
	Extent float64
	cells  []Cell
}

func NewCanvas(w, h int, extent float64) *Canvas {
	if w < 3 {
		w = 3
	}
	if h < 3 {
		h = 3
	}
	c := &Canvas{W: w, H: h, Extent: extent, cells: make([]Cell, w*h)}
	for i := range c.cells {
		c.cells[i] = Cell{R: ' '}
	}
	return c
}

func (c *Canvas) At(col, row int) Cell { return c.cells[row*c.W+col] }

// Set writes r unless a higher layer already owns the cell.
func (c *Canvas) Set(col, row int, r rune, l Layer) {
	if col < 0 || row < 0 || col >= c.W || row >= c.H {
		return
	}
	i := row*c.W + col
	if c.cells[i].L > l {
		return
	}
	c.cells[i] = Cell{R: r, L: l}
}

// cell maps a world point to fractional cell coordinates.
func (c *Canvas) cell(p basis.Vec2) (float64, float64) {
	span := 2 * c.Extent
	return (p.X + c.Extent) / span * float64(c.W-1), (c.Extent - p.Y) / span * float64(c.H-1)
}

func (c *Canvas) Point(p basis.Vec2, r rune, l Layer) {
	x, y := c.cell(p)
	c.Set(int(math.Round(x)), int(math.Round(y)), r, l)
}

// Segment draws a-b clipped to the view. Every dash-th cell is drawn; 1
// gives a solid line.
func (c *Canvas) Segment(a, b basis.Vec2, r rune, l Layer, dash int) {
	a, b, ok := clip(a, b, c.Extent)
	if !ok {
		return
	}
	x0, y0 := c.cell(a)
	x1, y1 := c.cell(b)
	n := int(math.Ceil(math.Max(math.Abs(x1-x0), math.Abs(y1-y0))))
	if n == 0 {
		c.Set(int(math.Round(x0)), int(math.Round(y0)), r, l)
		return
	}
	if dash < 1 {
		dash = 1
	}
	for i := 0; i <= n; i += dash {
		t := float64(i) / float64(n)
		c.Set(int(math.Round(x0+(x1-x0)*t)), int(math.Round(y0+(y1-y0)*t)), r, l)
	}
}

// Arrow draws vec starting at from, with a head at the tip.
func (c *Canvas) Arrow(from, vec basis.Vec2, l Layer) {
	if vec.Len() == 0 {
		c.Point(from, '•', l)
		return
	}
	tip := from.Add(vec)
	c.Segment(from, tip, bodyRune(vec), l, 1)
	c.Point(tip, headRune(vec), l)
}

// Label writes s left-to-right starting one cell right of p.
func (c *Canvas) Label(p basis.Vec2, s string, l Layer) {
	x, y := c.cell(p)
	col, row := int(math.Round(x))+1, int(math.Round(y))
	for i, r := range []rune(s) {
		c.Set(col+i, row, r, l)
	}
}

// Rows returns the raster as plain strings.
func (c *Canvas) Rows() []string {
	out := make([]string, c.H)
	var b strings.Builder
	for row := 0; row < c.H; row++ {
		b.Reset()
		for col := 0; col < c.W; col++ {
			b.WriteRune(c.At(col, row).R)
		}
		out[row] = strings.TrimRight(b.String(), " ")
	}
	return out
}

func (c *Canvas) String() string { return strings.Join(c.Rows(), "\n") }

// PlotOptions sizes the diagram.
type PlotOptions struct {
	Width, Height int
	MinExtent     float64
}

func DefaultPlotOptions() PlotOptions { return PlotOptions{Width: 61, Height: 31, MinExtent: 4.0} }

// Plot draws the global axes, both basis lines extended through the new
// origin, the origin shift, the basis arrows, and the global vector to the
// point.
func Plot(in basis.Input, opts PlotOptions) *Canvas {
	if opts.MinExtent <= 0 {
		opts.MinExtent = 4.0
	}
	ext := Extent(in.Point, in.Origin, opts.MinExtent)
	c := NewCanvas(opts.Width, opts.Height, ext)

	c.Segment(basis.V(-ext, 0), basis.V(ext, 0), '─', LayerAxis, 1)
	c.Segment(basis.V(0, -ext), basis.V(0, ext), '│', LayerAxis, 1)
	c.Point(basis.Vec2{}, '┼', LayerAxis)

	const scale = 100
	for _, b := range []basis.Vec2{in.Basis1, in.Basis2} {
		c.Segment(in.Origin.Sub(b.Mul(scale)), in.Origin.Add(b.Mul(scale)), '·', LayerBasisLine, 2)
	}

	if in.Origin.Len() > 0.1 {
		c.Arrow(basis.Vec2{}, in.Origin, LayerShift)
		c.Label(in.Origin, "New Origin", LayerLabel)
	}

	c.Arrow(in.Origin, in.Basis1, LayerBasis)
	c.Arrow(in.Origin, in.Basis2, LayerBasis)
	c.Arrow(basis.Vec2{}, in.Point, LayerVector)
	c.Label(in.Point, fmt.Sprintf("P(%s,%s)", num(in.Point.X), num(in.Point.Y)), LayerLabel)
	return c
}

// octant returns 0..7 counter-clockwise from +X.
func octant(v basis.Vec2) int {
	a := math.Atan2(v.Y, v.X)
	o := int(math.Round(a/(math.Pi/4))) % 8
	if o < 0 {
		o += 8
	}
	return o
}

func bodyRune(v basis.Vec2) rune {
	return [...]rune{'─', '╱', '│', '╲', '─', '╱', '│', '╲'}[octant(v)]
}

func headRune(v basis.Vec2) rune {
	return [...]rune{'→', '↗', '↑', '↖', '←', '↙', '↓', '↘'}[octant(v)]
}

// clip applies Liang–Barsky to the segment a-b against [-e,e]².
func clip(a, b basis.Vec2, e float64) (basis.Vec2, basis.Vec2, bool) {
	d := b.Sub(a)
	t0, t1 := 0.0, 1.0
	p := [4]float64{-d.X, d.X, -d.Y, d.Y}
	q := [4]float64{a.X + e, e - a.X, a.Y + e, e - a.Y}
	for i := 0; i < 4; i++ {
		if p[i] == 0 {
			if q[i] < 0 {
				return a, b, false
			}
			continue
		}
		r := q[i] / p[i]
		if p[i] < 0 {
			if r > t1 {
				return a, b, false
			}
			if r > t0 {
				t0 = r
			}
		} else {
			if r < t0 {
				return a, b, false
			}
			if r < t1 {
				t1 = r
			}
		}
	}
	return a.Add(d.Mul(t0)), a.Add(d.Mul(t1)), true
}
