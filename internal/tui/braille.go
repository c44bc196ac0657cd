package tui

import (
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type brailleBuf struct {
	w, h int            // in cells
	m    [][]uint8      // per-cell 8-bit mask
	c    [][]color.RGBA // per-cell ink color
}

func newBrailleBuf(w, h int) *brailleBuf {
	m := make([][]uint8, h)
	c := make([][]color.RGBA, h)
	for i := range m {
		m[i] = make([]uint8, w)
		c[i] = make([]color.RGBA, w)
	}
	return &brailleBuf{w: w, h: h, m: m, c: c}
}

// dotBits maps a micro-pixel inside a cell (column, row) to its braille bit.
var dotBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// setPixel sets a micro-pixel at micro coords (2x4 per cell) and colors
// its cell with ink.
func (b *brailleBuf) setPixel(mx, my int, ink color.RGBA) {
	if mx < 0 || my < 0 {
		return
	}
	cx, rx := mx/2, mx%2
	cy, ry := my/4, my%4
	if cy >= b.h || cx >= b.w {
		return
	}
	b.m[cy][cx] |= dotBits[rx][ry]
	b.c[cy][cx] = ink
}

// drawLineMicro draws a line on the microgrid using Bresenham
func (b *brailleBuf) drawLineMicro(x0, y0, x1, y1 int, ink color.RGBA) {
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		b.setPixel(x0, y0, ink)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// toLines returns the plain braille glyphs, one string per row.
func (b *brailleBuf) toLines() []string {
	out := make([]string, b.h)
	for y := 0; y < b.h; y++ {
		row := make([]rune, b.w)
		for x := 0; x < b.w; x++ {
			row[x] = glyph(b.m[y][x])
		}
		out[y] = string(row)
	}
	return out
}

// render returns the colored frame. Runs of cells sharing an ink color are
// styled together.
func (b *brailleBuf) render() string {
	styles := map[color.RGBA]lipgloss.Style{}
	lines := make([]string, b.h)
	var sb, run strings.Builder
	for y := 0; y < b.h; y++ {
		sb.Reset()
		var cur color.RGBA
		flush := func() {
			if run.Len() == 0 {
				return
			}
			s, ok := styles[cur]
			if !ok {
				s = inkStyle(cur)
				styles[cur] = s
			}
			sb.WriteString(s.Render(run.String()))
			run.Reset()
		}
		for x := 0; x < b.w; x++ {
			mask := b.m[y][x]
			if mask == 0 {
				flush()
				sb.WriteByte(' ')
				continue
			}
			if c := b.c[y][x]; c != cur {
				flush()
				cur = c
			}
			run.WriteRune(glyph(mask))
		}
		flush()
		lines[y] = sb.String()
	}
	return strings.Join(lines, "\n")
}

func glyph(mask uint8) rune {
	if mask == 0 {
		return ' '
	}
	return rune(0x2800 + int(mask))
}

// inkStyle colors braille cells. Near-black ink uses the terminal's own
// foreground so it stays visible on dark terminals.
func inkStyle(c color.RGBA) lipgloss.Style {
	if c.R < 0x20 && c.G < 0x20 && c.B < 0x20 {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hexColor(c)))
}
