package tui

import (
	"fmt"
	"image/color"
	"math"

	"github.com/charmbracelet/x/ansi"
	"github.com/gogpu/gg"
)

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// truncate keeps the first n visible columns of s.
func truncate(s string, n int) string {
	return ansi.Truncate(s, n, "")
}

// skip drops the first n visible columns of s.
func skip(s string, n int) string {
	return ansi.TruncateLeft(s, n, "")
}

func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// rgba8 converts a gg color to 8-bit channels with straight alpha.
func rgba8(c gg.RGBA) color.RGBA {
	return color.RGBA{channel(c.R), channel(c.G), channel(c.B), channel(c.A)}
}

func channel(v float64) uint8 {
	return uint8(math.Round(max(0, min(1, v)) * 0xFF))
}

// luma is the perceived brightness of c in [0, 255].
func luma(c color.RGBA) int {
	return (299*int(c.R) + 587*int(c.G) + 114*int(c.B)) / 1000
}
