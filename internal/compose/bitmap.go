package compose

import (
	"image"
	"image/color"
)

// Bitmap is a finished rendering. It has no mutating methods; the pixels
// returned by Image must be treated as read-only.
type Bitmap struct {
	img *image.RGBA
}

// Width returns the bitmap width in pixels.
func (b *Bitmap) Width() int { return b.img.Rect.Dx() }

// Height returns the bitmap height in pixels.
func (b *Bitmap) Height() int { return b.img.Rect.Dy() }

// Bounds returns the pixel rectangle, anchored at the origin.
func (b *Bitmap) Bounds() image.Rectangle { return b.img.Rect }

// RGBAAt returns the pixel at (x, y), or transparent outside the bitmap.
func (b *Bitmap) RGBAAt(x, y int) color.RGBA { return b.img.RGBAAt(x, y) }

// Image exposes the pixel buffer for presentation and export.
func (b *Bitmap) Image() image.Image { return b.img }
