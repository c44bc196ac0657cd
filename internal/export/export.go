// Package export writes rendered spirals to disk.
package export

import (
	"errors"
	"fmt"
	"io"

	"github.com/gogpu/gg"

	"primal/internal/compose"
)

// ErrNoBitmap is returned when there is nothing to export yet.
var ErrNoBitmap = errors.New("export: no bitmap")

// SavePNG writes b to path as a PNG file.
func SavePNG(b *compose.Bitmap, path string) error {
	if b == nil {
		return ErrNoBitmap
	}
	dc := gg.NewContextForImage(b.Image())
	defer dc.Close()
	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	return nil
}

// EncodePNG writes b to w as a PNG stream.
func EncodePNG(w io.Writer, b *compose.Bitmap) error {
	if b == nil {
		return ErrNoBitmap
	}
	dc := gg.NewContextForImage(b.Image())
	defer dc.Close()
	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}
