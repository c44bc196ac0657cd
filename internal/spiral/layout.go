package spiral

import (
	"fmt"
	"math"
	"strings"
)

// Variant selects the spiral geometry.
type Variant uint8

const (
	Square Variant = iota
	Polar
)

func (v Variant) String() string {
	switch v {
	case Square:
		return "square"
	case Polar:
		return "polar"
	default:
		return fmt.Sprintf("Variant(%d)", uint8(v))
	}
}

// ParseVariant parses "square" or "polar", case-insensitively.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "square", "lattice", "ulam":
		return Square, nil
	case "polar":
		return Polar, nil
	}
	return 0, fmt.Errorf("spiral: unknown variant %q", s)
}

// Layout places the cells of indices 1..N inside a square bitmap.
//
// Position returns the top-left pixel of the index's cell; the cell spans
// Unit() pixels in both directions. Side is the bitmap side length, sized
// so that every cell of 1..N lies inside it.
type Layout interface {
	Variant() Variant
	Bound() int
	Unit() float64
	Side() int
	Position(index int) Point
	// Locate returns the index whose cell contains p, if any.
	Locate(p Point) (index int, ok bool)
}

// New returns the layout of indices 1..n for the variant with cells of
// unit pixels. unit must be positive.
func New(v Variant, n int, unit float64) Layout {
	n = max(n, 0)
	switch v {
	case Polar:
		r := math.Sqrt(float64(max(n, 1))) * unit
		return &polarLayout{
			n:      n,
			unit:   unit,
			center: r,
			side:   int(math.Ceil(2*r + unit)),
		}
	default:
		rings := Ring(max(n, 1))
		return &squareLayout{
			n:      n,
			unit:   unit,
			center: float64(rings) * unit,
			side:   int(math.Ceil(float64(2*rings+1) * unit)),
		}
	}
}

// CellCenter returns the pixel center of the index's cell.
func CellCenter(l Layout, index int) Point {
	p := l.Position(index)
	h := l.Unit() / 2
	return Point{p.X + h, p.Y + h}
}

type squareLayout struct {
	n      int
	unit   float64
	center float64 // pixel offset of the origin cell's top-left corner
	side   int
}

func (l *squareLayout) Variant() Variant { return Square }
func (l *squareLayout) Bound() int       { return l.n }
func (l *squareLayout) Unit() float64    { return l.unit }
func (l *squareLayout) Side() int        { return l.side }

func (l *squareLayout) Position(index int) Point {
	x, y := SquareCoord(index)
	return Point{
		X: float64(x)*l.unit + l.center,
		Y: float64(-y)*l.unit + l.center,
	}
}

func (l *squareLayout) Locate(p Point) (int, bool) {
	x := int(math.Floor((p.X - l.center) / l.unit))
	y := -int(math.Floor((p.Y - l.center) / l.unit))
	i := SquareIndex(x, y)
	return i, i <= l.n
}

type polarLayout struct {
	n      int
	unit   float64
	center float64
	side   int
}

// PolarCoord returns the offset of index from the spiral center. The
// radius is sqrt(index)·unit and the angle is 2π times that radius.
func PolarCoord(index int, unit float64) Point {
	r := math.Sqrt(float64(index)) * unit
	a := 2 * math.Pi * r
	return Point{r * math.Cos(a), r * math.Sin(a)}
}

func (l *polarLayout) Variant() Variant { return Polar }
func (l *polarLayout) Bound() int       { return l.n }
func (l *polarLayout) Unit() float64    { return l.unit }
func (l *polarLayout) Side() int        { return l.side }

func (l *polarLayout) Position(index int) Point {
	o := PolarCoord(index, l.unit)
	return Point{l.center + o.X, l.center + o.Y}
}

// Locate returns the cell whose center is nearest to p, if p lies within
// half a unit of it. Cell centers sit at radius sqrt(i)·unit, so only the
// indices whose radius is within a unit of p's are scanned.
func (l *polarLayout) Locate(p Point) (int, bool) {
	h := l.unit / 2
	r := math.Hypot(p.X-l.center-h, p.Y-l.center-h) / l.unit
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, false
	}
	lo := math.Floor(math.Max(r-1, 0) * math.Max(r-1, 0))
	hi := math.Min(float64(l.n), math.Ceil((r+1)*(r+1)))
	if lo > hi {
		return 0, false
	}
	best, bestD := 0, math.Inf(1)
	for i := max(int(lo), 1); i <= int(hi); i++ {
		c := CellCenter(l, i)
		d := math.Hypot(c.X-p.X, c.Y-p.Y)
		if d < bestD {
			best, bestD = i, d
		}
	}
	return best, best > 0 && bestD <= l.unit/2
}
