package compose

import (
	"context"
	"image"
	"strconv"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"

	"primal/internal/job"
	"primal/internal/primes"
	"primal/internal/spiral"
)

// flushEvery bounds the number of cells batched into one gg path before it
// is filled or stroked.
const flushEvery = 4096

// meterEvery is how many visited cells are batched per meter update.
const meterEvery = 1024

// bandRenderer draws every layer for the rows [y0, y1) of the bitmap into
// a context of its own. Cells whose box misses the band are skipped.
type bandRenderer struct {
	cfg    RenderConfig
	layout spiral.Layout
	set    *primes.Set
	font   *text.FontSource
	y0, y1 int
	meter  *meter

	dc      *gg.Context
	pending int // cells in the current unflushed path
	visited int64
}

func (r *bandRenderer) render(ctx context.Context) (image.Image, error) {
	r.dc = gg.NewContext(r.layout.Side(), r.y1-r.y0)
	defer r.dc.Close()

	steps := []struct {
		layer Layer
		draw  func(context.Context, LayerStyle) error
	}{
		{Background, r.background},
		{Grid, r.grid},
		{Path, r.path},
		{Primes, r.primes},
		{Labels, r.labels},
	}
	for _, s := range steps {
		style := r.cfg.Styles[s.layer]
		if !style.Enabled {
			continue
		}
		r.dc.SetRGBA(style.Color.R, style.Color.G, style.Color.B, style.Color.A)
		if err := s.draw(ctx, style); err != nil {
			return nil, err
		}
	}
	r.flushMeter()
	return r.dc.Image(), nil
}

// hits reports whether the vertical span [top, bottom] widened by pad
// touches the band.
func (r *bandRenderer) hits(top, bottom, pad float64) bool {
	return bottom+pad >= float64(r.y0) && top-pad < float64(r.y1)
}

// local converts a bitmap y coordinate to band coordinates.
func (r *bandRenderer) local(y float64) float64 {
	return y - float64(r.y0)
}

// tick is called once per visited cell: it polls for cancellation and
// feeds the progress meter.
func (r *bandRenderer) tick(ctx context.Context) error {
	if job.Stopped(ctx) {
		return errStopped
	}
	r.visited++
	if r.visited%meterEvery == 0 {
		r.flushMeter()
	}
	return nil
}

func (r *bandRenderer) flushMeter() {
	if r.visited > 0 {
		r.meter.add(r.visited)
		r.visited = 0
	}
}

// batch counts a cell added to the current path and paints the path when
// the batch is full.
func (r *bandRenderer) batch(paint func() error) error {
	r.pending++
	if r.pending < flushEvery {
		return nil
	}
	return r.flush(paint)
}

func (r *bandRenderer) flush(paint func() error) error {
	if r.pending == 0 {
		return nil
	}
	r.pending = 0
	return paint()
}

func (r *bandRenderer) background(_ context.Context, s LayerStyle) error {
	r.dc.ClearWithColor(s.Color)
	return nil
}

func (r *bandRenderer) grid(ctx context.Context, s LayerStyle) error {
	u := r.layout.Unit()
	r.dc.SetLineWidth(s.Width)
	r.dc.SetLineCap(gg.LineCapButt)
	for i := 1; i <= r.cfg.Bound; i++ {
		if err := r.tick(ctx); err != nil {
			return err
		}
		p := r.layout.Position(i)
		if !r.hits(p.Y, p.Y+u, s.Width) {
			continue
		}
		r.dc.DrawRectangle(p.X, r.local(p.Y), u, u)
		if err := r.batch(r.dc.Stroke); err != nil {
			return err
		}
	}
	return r.flush(r.dc.Stroke)
}

func (r *bandRenderer) path(ctx context.Context, s LayerStyle) error {
	r.dc.SetLineWidth(s.Width)
	r.dc.SetLineCap(gg.LineCapSquare)
	var prev spiral.Point
	for i := 1; i <= r.cfg.Bound; i++ {
		if err := r.tick(ctx); err != nil {
			return err
		}
		c := spiral.CellCenter(r.layout, i)
		if i > 1 && r.hits(min(prev.Y, c.Y), max(prev.Y, c.Y), s.Width) {
			r.dc.MoveTo(prev.X, r.local(prev.Y))
			r.dc.LineTo(c.X, r.local(c.Y))
			if err := r.batch(r.dc.Stroke); err != nil {
				return err
			}
		}
		prev = c
	}
	return r.flush(r.dc.Stroke)
}

func (r *bandRenderer) primes(ctx context.Context, _ LayerStyle) error {
	if r.set == nil {
		return nil
	}
	u := r.layout.Unit()
	for p := range r.set.All {
		if p > r.cfg.Bound {
			break
		}
		if err := r.tick(ctx); err != nil {
			return err
		}
		pos := r.layout.Position(p)
		if !r.hits(pos.Y, pos.Y+u, 0) {
			continue
		}
		r.dc.DrawRectangle(pos.X, r.local(pos.Y), u, u)
		if err := r.batch(r.dc.Fill); err != nil {
			return err
		}
	}
	return r.flush(r.dc.Fill)
}

func (r *bandRenderer) labels(ctx context.Context, s LayerStyle) error {
	if !(s.Width > 0) {
		return nil
	}
	r.dc.SetFont(r.font.Face(s.Width))
	u := r.layout.Unit()
	for i := 1; i <= r.cfg.Bound; i++ {
		if err := r.tick(ctx); err != nil {
			return err
		}
		p := r.layout.Position(i)
		if !r.hits(p.Y, p.Y+u, s.Width) {
			continue
		}
		c := spiral.CellCenter(r.layout, i)
		r.dc.DrawStringAnchored(strconv.Itoa(i), c.X, r.local(c.Y), 0.5, 0.5)
	}
	return nil
}
