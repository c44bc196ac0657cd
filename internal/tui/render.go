package tui

import (
	"image/color"
	"math"

	"primal/internal/compose"
)

// maxSamples caps the samples per axis taken for one micro-pixel when the
// bitmap is zoomed out.
const maxSamples = 4

// inkThreshold is the per-channel distance from the background color above
// which a pixel counts as drawn.
const inkThreshold = 48

// renderSpiral draws the visible part of the published bitmap into a w×h
// cell braille frame. Each micro-pixel is mapped back into the bitmap
// through the view transform; when several bitmap pixels fall into one
// micro-pixel, any inked sample sets the dot.
func (m Model) renderSpiral(w, h int) string {
	br := newBrailleBuf(w, h)
	b := m.ready.Bitmap
	bg, hasBg := background(m.ready.Config)

	scale := m.xf.Scale()
	k := 1
	if scale < 1 {
		k = min(maxSamples, int(math.Ceil(1/scale)))
	}
	step := 1 / (scale * float64(k))

	for my := 0; my < h*4; my++ {
		for mx := 0; mx < w*2; mx++ {
			p := m.xf.ToBitmap(float64(mx), float64(my))
			if p.X+float64(k)*step < 0 || p.Y+float64(k)*step < 0 ||
				p.X >= float64(b.Width()) || p.Y >= float64(b.Height()) {
				continue
			}
		sample:
			for j := 0; j < k; j++ {
				for i := 0; i < k; i++ {
					x := int(math.Floor(p.X + (float64(i)+0.5)*step))
					y := int(math.Floor(p.Y + (float64(j)+0.5)*step))
					if c := b.RGBAAt(x, y); inked(c, bg, hasBg) {
						br.setPixel(mx, my, c)
						break sample
					}
				}
			}
		}
	}

	if m.debug {
		// crosshair on the zoom anchor
		cx, cy := w, h*2
		mark := color.RGBA{0xFF, 0xA5, 0x00, 0xFF}
		br.drawLineMicro(cx-3, cy, cx+3, cy, mark)
		br.drawLineMicro(cx, cy-3, cx, cy+3, mark)
	}
	return br.render()
}

// background returns the opaque background color of rc, if it draws one.
func background(rc compose.RenderConfig) (color.RGBA, bool) {
	s := rc.Styles[compose.Background]
	if !s.Enabled || s.Color.A < 0.5 {
		return color.RGBA{}, false
	}
	c := rgba8(s.Color)
	c.A = 0xFF
	return c, true
}

// inked reports whether c is drawn ink rather than background.
func inked(c, bg color.RGBA, hasBg bool) bool {
	if c.A < 0x80 {
		return false
	}
	if !hasBg {
		return true
	}
	return abs(int(c.R)-int(bg.R)) > inkThreshold ||
		abs(int(c.G)-int(bg.G)) > inkThreshold ||
		abs(int(c.B)-int(bg.B)) > inkThreshold
}
