// Package view maps the published bitmap onto the viewport.
//
// A Transform is a uniform scale followed by a translation. It belongs to
// the UI loop and is never shared with generation jobs.
package view

import (
	"math"

	"github.com/gogpu/gg"
)

// Transform holds the pan offset (viewport pixels) and the scale
// (viewport pixels per bitmap pixel).
type Transform struct {
	scale  float64
	pan    gg.Point
	vw, vh float64 // viewport size
}

// New returns a transform with the given initial scale and no pan.
func New(scale float64) *Transform {
	t := &Transform{scale: 1}
	t.SetScale(scale)
	return t
}

// Scale returns the current scale.
func (t *Transform) Scale() float64 { return t.scale }

// Pan returns the current pan offset.
func (t *Transform) Pan() gg.Point { return t.pan }

// Viewport returns the last recorded viewport size.
func (t *Transform) Viewport() (w, h float64) { return t.vw, t.vh }

// SetScale replaces the scale without moving the pan. Non-positive or
// non-finite values are ignored.
func (t *Transform) SetScale(s float64) {
	if valid(s) {
		t.scale = s
	}
}

// ZoomBy multiplies the scale by factor, keeping the viewport center fixed
// on screen. Non-positive or non-finite factors are ignored.
func (t *Transform) ZoomBy(factor float64) {
	next := t.scale * factor
	if !valid(factor) || !valid(next) {
		return
	}
	ratio := next / t.scale
	cx, cy := t.vw/2, t.vh/2
	t.pan.X = (t.pan.X-cx)*ratio + cx
	t.pan.Y = (t.pan.Y-cy)*ratio + cy
	t.scale = next
}

// PanBy moves the bitmap by (dx, dy) viewport pixels.
func (t *Transform) PanBy(dx, dy float64) {
	t.pan.X += dx
	t.pan.Y += dy
}

// Resize records a new viewport size.
func (t *Transform) Resize(w, h float64) {
	t.vw, t.vh = w, h
}

// Recenter records the viewport size and pans so that a bitmap of bw×bh
// pixels sits centered at the current scale.
func (t *Transform) Recenter(bw, bh, vw, vh float64) {
	t.Resize(vw, vh)
	t.pan.X = (vw - bw*t.scale) / 2
	t.pan.Y = (vh - bh*t.scale) / 2
}

// Matrix returns the bitmap-to-viewport matrix: scale, then translate.
func (t *Transform) Matrix() gg.Matrix {
	return gg.Translate(t.pan.X, t.pan.Y).Multiply(gg.Scale(t.scale, t.scale))
}

// ToBitmap maps a viewport point into bitmap coordinates.
func (t *Transform) ToBitmap(x, y float64) gg.Point {
	return gg.Pt((x-t.pan.X)/t.scale, (y-t.pan.Y)/t.scale)
}

// ToViewport maps a bitmap point into viewport coordinates.
func (t *Transform) ToViewport(x, y float64) gg.Point {
	return t.Matrix().TransformPoint(gg.Pt(x, y))
}

func valid(f float64) bool {
	return f > 0 && !math.IsInf(f, 0)
}
