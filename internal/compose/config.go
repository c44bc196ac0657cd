package compose

import (
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/gg"

	"primal/internal/primes"
	"primal/internal/spiral"
)

const (
	// MaxSide caps the bitmap side length in pixels.
	MaxSide = 8192
	// MaxBound caps the highest number; the sieve holds one byte per number.
	MaxBound = 100_000_000
)

var (
	// ErrInvalidBound reports a negative bound or a non-positive unit size.
	ErrInvalidBound = errors.New("compose: invalid bound")
	// ErrTooLarge reports a bound above MaxBound or a bitmap that would
	// exceed MaxSide.
	ErrTooLarge = errors.New("compose: bitmap too large")
)

// Layer is one of the fixed rendering layers, in back-to-front order.
type Layer uint8

const (
	Background Layer = iota
	Grid
	Path
	Primes
	Labels

	NumLayers = int(Labels) + 1
)

var layerNames = [NumLayers]string{"background", "grid", "path", "primes", "labels"}

func (l Layer) String() string {
	if int(l) < NumLayers {
		return layerNames[l]
	}
	return fmt.Sprintf("Layer(%d)", uint8(l))
}

// LayerStyle is the look of one layer. Width is the stroke width in pixels
// for the grid and path layers and the text size for the label layer; the
// background and prime layers ignore it.
type LayerStyle struct {
	Enabled bool
	Color   gg.RGBA
	Width   float64
}

// RenderConfig is the complete input of one regeneration request. It is a
// plain value: copies handed to a job are never changed afterwards.
type RenderConfig struct {
	Bound   int
	Variant spiral.Variant
	Unit    float64
	Styles  [NumLayers]LayerStyle
}

// Validate rejects configurations that cannot be rendered.
func (c RenderConfig) Validate() error {
	if err := primes.Validate(c.Bound); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidBound, err)
	}
	if c.Bound > MaxBound {
		return fmt.Errorf("%w: bound %d exceeds %d", ErrTooLarge, c.Bound, MaxBound)
	}
	if !(c.Unit > 0) || math.IsInf(c.Unit, 0) {
		return fmt.Errorf("%w: unit size %v", ErrInvalidBound, c.Unit)
	}
	if side := c.Layout().Side(); side > MaxSide {
		return fmt.Errorf("%w: side %d exceeds %d", ErrTooLarge, side, MaxSide)
	}
	return nil
}

// Layout returns the spiral layout described by c.
func (c RenderConfig) Layout() spiral.Layout {
	return spiral.New(c.Variant, c.Bound, c.Unit)
}

// Enabled reports whether layer l is switched on.
func (c RenderConfig) Enabled(l Layer) bool {
	return c.Styles[l].Enabled
}

// DefaultStyles returns the stock layer styles for cells of unit pixels:
// a transparent background with black prime markers, and grid, path and
// labels switched off.
func DefaultStyles(unit float64) [NumLayers]LayerStyle {
	return [NumLayers]LayerStyle{
		Background: {Enabled: true, Color: gg.Hex("#FFFFFF00")},
		Grid:       {Color: gg.Hex("#000000"), Width: unit / 10},
		Path:       {Color: gg.Hex("#00FF00"), Width: unit / 5},
		Primes:     {Enabled: true, Color: gg.Hex("#000000")},
		Labels:     {Color: gg.Hex("#00CC00"), Width: unit / 3},
	}
}
