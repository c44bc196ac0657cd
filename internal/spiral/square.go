// Package spiral maps positive integers onto spiral layouts.
//
// Two variants exist: the square lattice of the classic Ulam spiral and a
// polar spiral. Both are pure functions of (index, unit size) and are the
// only source of geometry for every rendered layer.
package spiral

import (
	"fmt"
	"math"
)

// Point is a position in cell or pixel units.
type Point struct {
	X, Y float64
}

// ceilSqrt returns the smallest s with s*s >= n, for n >= 0.
func ceilSqrt(n int) int {
	s := int(math.Sqrt(float64(n)))
	for s > 0 && s*s > n {
		s--
	}
	for s*s < n {
		s++
	}
	return s
}

// Ring returns the square ring that holds index: the Chebyshev distance of
// its lattice cell from the origin, ceil((sqrt(index)-1)/2). Indices below
// 2 are on ring 0.
func Ring(index int) int {
	if index <= 1 {
		return 0
	}
	return ceilSqrt(index) / 2
}

// SquareCoord returns the lattice cell of index on the square spiral, with
// y growing upward. Index 1 is the origin, 2 is (1, 0), 3 is (1, 1) and
// the walk continues counter-clockwise ring by ring.
//
// Indices below 1 are a programming error and panic.
func SquareCoord(index int) (x, y int) {
	if index < 1 {
		panic(fmt.Sprintf("spiral: index %d out of range", index))
	}
	if index == 1 {
		return 0, 0
	}
	layer := Ring(index)
	sideLength := 2 * layer
	ringMax := (2*layer + 1) * (2*layer + 1)
	stepsFromMax := ringMax - index
	side := stepsFromMax / sideLength
	pos := stepsFromMax % sideLength

	// sides are walked in bitmap orientation (rows grow downward)
	switch side {
	case 0: // top
		x, y = layer-pos, layer
	case 1: // left
		x, y = -layer, layer-pos
	case 2: // bottom
		x, y = -layer+pos, -layer
	case 3: // right
		x, y = layer, -layer+pos
	default:
		panic(fmt.Sprintf("spiral: internal inconsistency: index %d on side %d of ring %d", index, side, layer))
	}
	return x, -y
}

// SquareIndex is the inverse of SquareCoord.
func SquareIndex(x, y int) int {
	y = -y
	k := max(abs(x), abs(y))
	if k == 0 {
		return 1
	}
	ringMax := (2*k + 1) * (2*k + 1)
	var steps int
	switch {
	case y == k && x > -k:
		steps = k - x
	case x == -k && y > -k:
		steps = 2*k + (k - y)
	case y == -k && x < k:
		steps = 4*k + (x + k)
	default: // x == k && y < k
		steps = 6*k + (y + k)
	}
	return ringMax - steps
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
