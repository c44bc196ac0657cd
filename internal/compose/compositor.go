// Package compose renders the Ulam spiral into an RGBA bitmap.
//
// Layers are drawn back to front (background, grid, path, prime markers,
// labels) with gg. Large bitmaps are split into horizontal bands that are
// rendered on separate goroutines, each into its own context, and then
// copied into disjoint rows of the result, so no drawing is ever shared.
package compose

import (
	"context"
	"errors"
	"fmt"
	"image"
	"runtime"
	"sync/atomic"

	"github.com/gogpu/gg/text"
	"golang.org/x/image/draw"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/sync/errgroup"

	"primal/internal/job"
	"primal/internal/primes"
)

// minBandHeight keeps bands from getting so thin that per-band overhead
// dominates.
const minBandHeight = 64

// errStopped aborts the remaining bands once the job is cancelled.
var errStopped = errors.New("compose: stopped")

// ErrInternal wraps a panic recovered from a band goroutine.
var ErrInternal = errors.New("compose: internal inconsistency")

// Compositor renders spirals. It is safe for concurrent use; each Render
// call works on its own buffers.
type Compositor struct {
	font    *text.FontSource
	workers int
}

// Option configures a Compositor.
type Option func(*Compositor)

// WithWorkers sets the number of bands rendered in parallel. Values below
// 1 render sequentially.
func WithWorkers(n int) Option {
	return func(c *Compositor) {
		c.workers = max(n, 1)
	}
}

// New returns a Compositor using the Go Regular font for labels.
func New(opts ...Option) (*Compositor, error) {
	src, err := text.NewFontSource(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("compose: load label font: %w", err)
	}
	c := &Compositor{font: src, workers: runtime.GOMAXPROCS(0)}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Workers returns the configured band parallelism.
func (c *Compositor) Workers() int { return c.workers }

// Render draws cfg over the primes in set onto a fresh bitmap.
//
// ctx is polled once per drawn cell; when it is cancelled Render returns
// (nil, job.Cancelled, nil) and the partial buffer is dropped. progress, if
// not nil, receives the completed fraction of the work in [0, 1] and may be
// called from several goroutines.
//
// A panic inside a band is returned as an error wrapping ErrInternal.
func (c *Compositor) Render(ctx context.Context, cfg RenderConfig, set *primes.Set, progress func(float64)) (*Bitmap, job.State, error) {
	if err := cfg.Validate(); err != nil {
		return nil, job.Idle, err
	}
	if job.Stopped(ctx) {
		return nil, job.Cancelled, nil
	}
	layout := cfg.Layout()
	side := layout.Side()
	out := image.NewRGBA(image.Rect(0, 0, side, side))

	bands := c.bands(side)
	meter := newMeter(workFor(cfg, set)*int64(len(bands)), progress)

	g, gctx := errgroup.WithContext(ctx)
	for _, rows := range bands {
		g.Go(func() (err error) {
			defer func() {
				if v := recover(); v != nil {
					err = fmt.Errorf("%w: rows %d-%d: %v", ErrInternal, rows.Min.Y, rows.Max.Y, v)
				}
			}()
			r := &bandRenderer{
				cfg:    cfg,
				layout: layout,
				set:    set,
				font:   c.font,
				y0:     rows.Min.Y,
				y1:     rows.Max.Y,
				meter:  meter,
			}
			img, err := r.render(gctx)
			if err != nil {
				return err
			}
			// bands cover disjoint rows of out
			draw.Draw(out, rows, img, image.Point{}, draw.Src)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if errors.Is(err, errStopped) {
			return nil, job.Cancelled, nil
		}
		return nil, job.Completed, err
	}
	meter.finish()
	return &Bitmap{img: out}, job.Completed, nil
}

// bands splits [0, side) into row ranges, one per worker.
func (c *Compositor) bands(side int) []image.Rectangle {
	n := max(1, min(c.workers, side/minBandHeight))
	h := (side + n - 1) / n
	var out []image.Rectangle
	for y := 0; y < side; y += h {
		out = append(out, image.Rect(0, y, side, min(y+h, side)))
	}
	if len(out) == 0 {
		out = append(out, image.Rect(0, 0, side, side))
	}
	return out
}

// workFor counts the cells one band visits across all enabled layers.
// The background layer is a single fill and is not counted.
func workFor(cfg RenderConfig, set *primes.Set) int64 {
	var n int64
	for _, l := range []Layer{Grid, Path, Labels} {
		if cfg.Enabled(l) {
			n += int64(max(cfg.Bound, 0))
		}
	}
	if cfg.Enabled(Primes) && set != nil {
		n += int64(set.Len())
	}
	return n
}

// meter aggregates per-cell progress from all bands and reports whole
// percent steps.
type meter struct {
	total    int64
	done     atomic.Int64
	reported atomic.Int64
	report   func(float64)
}

func newMeter(total int64, report func(float64)) *meter {
	m := &meter{total: total, report: report}
	m.reported.Store(-1)
	return m
}

func (m *meter) add(n int64) {
	if m.report == nil || m.total <= 0 {
		return
	}
	done := m.done.Add(n)
	pct := done * 100 / m.total
	for {
		last := m.reported.Load()
		if pct <= last {
			return
		}
		if m.reported.CompareAndSwap(last, pct) {
			m.report(float64(pct) / 100)
			return
		}
	}
}

func (m *meter) finish() {
	if m.report != nil && m.reported.Load() < 100 {
		m.reported.Store(100)
		m.report(1)
	}
}
