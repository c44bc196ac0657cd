package spiral

import (
	"math"
	"testing"
)

func TestSquareCoordFirstTen(t *testing.T) {
	want := [][2]int{
		1: {0, 0}, 2: {1, 0}, 3: {1, 1}, 4: {0, 1}, 5: {-1, 1},
		6: {-1, 0}, 7: {-1, -1}, 8: {0, -1}, 9: {1, -1}, 10: {2, -1},
	}
	for i := 1; i <= 10; i++ {
		x, y := SquareCoord(i)
		if x != want[i][0] || y != want[i][1] {
			t.Errorf("SquareCoord(%d) = (%d, %d), want (%d, %d)", i, x, y, want[i][0], want[i][1])
		}
	}
}

func TestOriginForAnyUnit(t *testing.T) {
	for _, unit := range []float64{0.5, 1, 3, 10, 100} {
		l := New(Square, 50, unit)
		x, y := SquareCoord(1)
		if x != 0 || y != 0 {
			t.Fatalf("SquareCoord(1) = (%d, %d)", x, y)
		}
		p := l.Position(1)
		c := float64(Ring(50)) * unit
		if p.X != c || p.Y != c {
			t.Errorf("unit %v: Position(1) = %v, want (%v, %v)", unit, p, c, c)
		}
	}
}

func TestRingCornersChebyshev(t *testing.T) {
	for k := 1; k <= 200; k++ {
		top := (2*k + 1) * (2*k + 1)
		corners := []int{top, top - 2*k, top - 4*k, top - 6*k}
		for _, c := range corners {
			x, y := SquareCoord(c)
			if d := max(abs(x), abs(y)); d != k {
				t.Errorf("ring %d corner %d at (%d, %d): distance %d", k, c, x, y, d)
			}
			if abs(x) != k || abs(y) != k {
				t.Errorf("ring %d corner %d at (%d, %d) is not a corner", k, c, x, y)
			}
		}
	}
}

func TestRingMatchesFormula(t *testing.T) {
	for i := 2; i <= 100_000; i++ {
		want := int(math.Ceil((math.Sqrt(float64(i)) - 1) / 2))
		if got := Ring(i); got != want {
			t.Fatalf("Ring(%d) = %d, want %d", i, got, want)
		}
	}
}

func TestSquareWalkIsContiguous(t *testing.T) {
	px, py := SquareCoord(1)
	for i := 2; i <= 10_000; i++ {
		x, y := SquareCoord(i)
		if abs(x-px)+abs(y-py) != 1 {
			t.Fatalf("step %d -> %d jumps from (%d, %d) to (%d, %d)", i-1, i, px, py, x, y)
		}
		px, py = x, y
	}
}

func TestSquareIndexInverts(t *testing.T) {
	for i := 1; i <= 20_000; i++ {
		x, y := SquareCoord(i)
		if got := SquareIndex(x, y); got != i {
			t.Fatalf("SquareIndex(SquareCoord(%d)) = %d", i, got)
		}
	}
}

func TestSquareCoordPanicsOnZero(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("SquareCoord(0) did not panic")
		}
	}()
	SquareCoord(0)
}

func TestLayoutContainsEveryCell(t *testing.T) {
	bounds := []int{0, 1, 2, 3, 9, 10, 25, 26, 100, 1_000, 10_000, 100_000}
	units := []float64{1, 2.5, 10}
	for _, v := range []Variant{Square, Polar} {
		for _, n := range bounds {
			for _, unit := range units {
				l := New(v, n, unit)
				side := float64(l.Side())
				if side < unit {
					t.Errorf("%v n=%d unit=%v: side %v smaller than one cell", v, n, unit, side)
				}
				for i := 1; i <= n; i++ {
					p := l.Position(i)
					if p.X < 0 || p.Y < 0 || p.X+unit > side || p.Y+unit > side {
						t.Fatalf("%v n=%d unit=%v: cell %d at %v outside side %v", v, n, unit, i, p, side)
					}
				}
			}
		}
	}
}

func TestSquareSideIsTight(t *testing.T) {
	for _, n := range []int{1, 2, 9, 10, 25, 26, 1_000_000} {
		l := New(Square, n, 1)
		want := 2*Ring(n) + 1
		if l.Side() != want {
			t.Errorf("n=%d: side %d, want %d", n, l.Side(), want)
		}
	}
}

func TestPolarCoordRelation(t *testing.T) {
	for _, unit := range []float64{1, 4} {
		for i := 1; i <= 1000; i++ {
			p := PolarCoord(i, unit)
			r := math.Sqrt(float64(i)) * unit
			a := 2 * math.Pi * r
			if p.X != r*math.Cos(a) || p.Y != r*math.Sin(a) {
				t.Fatalf("PolarCoord(%d, %v) = %v", i, unit, p)
			}
			if math.Abs(math.Hypot(p.X, p.Y)-r) > 1e-9*r {
				t.Fatalf("PolarCoord(%d, %v) radius %v, want %v", i, unit, math.Hypot(p.X, p.Y), r)
			}
		}
	}
}

func TestLocate(t *testing.T) {
	l := New(Square, 100, 10)
	for _, i := range []int{1, 2, 7, 50, 100} {
		c := CellCenter(l, i)
		got, ok := l.Locate(c)
		if !ok || got != i {
			t.Errorf("Locate(center of %d) = %d, %v", i, got, ok)
		}
	}
	if _, ok := l.Locate(Point{-1000, -1000}); ok {
		t.Error("Locate far outside the spiral reported a cell")
	}

	p := New(Polar, 30, 10)
	got, ok := p.Locate(CellCenter(p, 30))
	if !ok || got != 30 {
		t.Errorf("polar Locate(center of 30) = %d, %v", got, ok)
	}
}

// nearestCell scans every cell of a polar layout.
func nearestCell(l Layout, p Point) (int, bool) {
	best, bestD := 0, math.Inf(1)
	for i := 1; i <= l.Bound(); i++ {
		c := CellCenter(l, i)
		if d := math.Hypot(c.X-p.X, c.Y-p.Y); d < bestD {
			best, bestD = i, d
		}
	}
	return best, best > 0 && bestD <= l.Unit()/2
}

func TestPolarLocateMatchesScan(t *testing.T) {
	for _, tt := range []struct {
		n    int
		unit float64
	}{
		{0, 5}, {1, 5}, {40, 9}, {2000, 5}, {2000, 0.7},
	} {
		l := New(Polar, tt.n, tt.unit)
		side := float64(l.Side())
		step := math.Max(side/97, 0.3)
		for y := -step; y <= side+step; y += step {
			for x := -step; x <= side+step; x += step {
				p := Point{x, y}
				gi, gok := l.Locate(p)
				wi, wok := nearestCell(l, p)
				if gi != wi && (gok || wok) || gok != wok {
					t.Fatalf("n=%d unit=%v Locate(%v) = %d, %v; scan gives %d, %v", tt.n, tt.unit, p, gi, gok, wi, wok)
				}
			}
		}
	}
}

func TestPolarLocateLargeBound(t *testing.T) {
	l := New(Polar, 4_000_000, 1)
	for _, i := range []int{1, 2, 1_000_000, 3_999_999, 4_000_000} {
		if got, ok := l.Locate(CellCenter(l, i)); !ok || got != i {
			t.Errorf("Locate(center of %d) = %d, %v", i, got, ok)
		}
	}
	if _, ok := l.Locate(Point{math.NaN(), 0}); ok {
		t.Error("Locate(NaN) reported a cell")
	}
	if _, ok := l.Locate(Point{1e300, 1e300}); ok {
		t.Error("Locate far outside the spiral reported a cell")
	}
}

func TestParseVariant(t *testing.T) {
	tests := []struct {
		in      string
		want    Variant
		wantErr bool
	}{
		{"square", Square, false},
		{" Polar ", Polar, false},
		{"ulam", Square, false},
		{"hex", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseVariant(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseVariant(%q) = %v, %v", tt.in, got, err)
		}
		if err == nil && got.String() == "" {
			t.Errorf("%v has no name", got)
		}
	}
}
