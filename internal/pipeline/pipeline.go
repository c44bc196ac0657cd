// Package pipeline runs spiral generation in the background.
//
// Every Request supersedes the one before it: the running job is cancelled
// and a new job starts once the old one has stopped. Only the most recent
// request may publish its bitmap; results are delivered to the bubbletea
// loop as messages.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"primal/internal/compose"
	"primal/internal/job"
	"primal/internal/primes"
)

const defaultBuffer = 16

var (
	// ErrClosed is returned by Request after Close.
	ErrClosed = errors.New("pipeline: closed")
	// ErrInternal wraps a panic recovered from a generation job.
	ErrInternal = errors.New("pipeline: internal inconsistency")
)

type renderFunc func(context.Context, compose.RenderConfig, *primes.Set, func(float64)) (*compose.Bitmap, job.State, error)

// Pipeline owns the generation job and the published bitmap.
type Pipeline struct {
	render renderFunc
	msgs   chan tea.Msg

	ctx  context.Context // cancelled by Close
	stop context.CancelFunc
	wg   sync.WaitGroup

	mu       sync.Mutex
	seq      uint64 // id of the most recent request
	cancel   context.CancelFunc
	done     chan struct{} // closed when the most recent job returns
	state    job.State
	latest   *ReadyMsg
	lastErr  error
	isClosed bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithBuffer sets the capacity of the message channel.
func WithBuffer(n int) Option {
	return func(p *Pipeline) {
		p.msgs = make(chan tea.Msg, max(n, 1))
	}
}

// New returns an idle pipeline rendering with c.
func New(c *compose.Compositor, opts ...Option) *Pipeline {
	ctx, stop := context.WithCancel(context.Background())
	p := &Pipeline{
		render: c.Render,
		ctx:    ctx,
		stop:   stop,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.msgs == nil {
		p.msgs = make(chan tea.Msg, defaultBuffer)
	}
	return p
}

// Messages returns the channel of ReadyMsg, ProgressMsg and FailedMsg
// values. The channel is never closed.
func (p *Pipeline) Messages() <-chan tea.Msg { return p.msgs }

// Request validates cfg and starts generating it, superseding any job in
// flight. It returns the new job id without waiting for any drawing.
func (p *Pipeline) Request(cfg compose.RenderConfig) (uint64, error) {
	if err := cfg.Validate(); err != nil {
		return 0, err
	}

	p.mu.Lock()
	if p.isClosed {
		p.mu.Unlock()
		return 0, ErrClosed
	}
	if p.cancel != nil {
		p.cancel()
	}
	p.seq++
	id := p.seq
	ctx, cancel := context.WithCancel(p.ctx)
	prev, done := p.done, make(chan struct{})
	p.cancel, p.done = cancel, done
	p.state = job.Running
	p.wg.Add(1)
	p.mu.Unlock()

	Logger().Debug("generation requested", "id", id, "bound", cfg.Bound, "variant", cfg.Variant, "unit", cfg.Unit)
	go p.run(ctx, cancel, id, cfg, prev, done)
	return id, nil
}

// Cancel stops the running job, if any, without starting another.
func (p *Pipeline) Cancel() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		p.cancel()
	}
}

// Close cancels the running job and waits for every job goroutine to
// return. Further requests fail with ErrClosed.
func (p *Pipeline) Close() {
	p.mu.Lock()
	p.isClosed = true
	p.mu.Unlock()
	p.stop()
	p.wg.Wait()
}

// State returns the state of the most recent request.
func (p *Pipeline) State() job.State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Latest returns the most recently published result.
func (p *Pipeline) Latest() (ReadyMsg, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.latest == nil {
		return ReadyMsg{}, false
	}
	return *p.latest, true
}

// Err returns the error of the most recent failed job, cleared by the next
// publication.
func (p *Pipeline) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

func (p *Pipeline) run(ctx context.Context, cancel context.CancelFunc, id uint64, cfg compose.RenderConfig, prev, done chan struct{}) {
	defer p.wg.Done()
	defer close(done)
	defer cancel()

	// the previous job may still be drawing; never overlap two jobs
	if prev != nil {
		<-prev
	}

	defer func() {
		if r := recover(); r != nil {
			Logger().Error("generation panicked", "id", id, "panic", r, "stack", string(debug.Stack()))
			p.fail(id, fmt.Errorf("%w: %v", ErrInternal, r))
		}
	}()

	start := time.Now()
	set, state := primes.Sieve(ctx, cfg.Bound)
	if state == job.Cancelled {
		p.cancelled(id, "sieve")
		return
	}
	bm, state, err := p.render(ctx, cfg, set, func(f float64) {
		p.progress(id, f)
	})
	switch {
	case err != nil:
		if errors.Is(err, compose.ErrInternal) {
			err = fmt.Errorf("%w: %w", ErrInternal, err)
		}
		Logger().Error("render failed", "id", id, "err", err)
		p.fail(id, err)
	case state == job.Cancelled:
		p.cancelled(id, "render")
	default:
		p.publish(ReadyMsg{
			ID:      id,
			Bitmap:  bm,
			Primes:  set,
			Config:  cfg,
			Elapsed: time.Since(start),
		})
	}
}

// publish makes msg current if its job is still the latest request.
func (p *Pipeline) publish(msg ReadyMsg) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if msg.ID != p.seq {
		Logger().Debug("dropping superseded bitmap", "id", msg.ID, "latest", p.seq)
		return
	}
	p.latest = &msg
	p.lastErr = nil
	p.state = job.Completed
	Logger().Info("bitmap published", "id", msg.ID, "side", msg.Bitmap.Width(), "primes", msg.Primes.Len(), "elapsed", msg.Elapsed)
	p.send(msg)
}

func (p *Pipeline) fail(id uint64, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if id != p.seq {
		return
	}
	p.lastErr = err
	p.state = job.Idle
	p.send(FailedMsg{ID: id, Err: err})
}

func (p *Pipeline) cancelled(id uint64, stage string) {
	Logger().Debug("generation cancelled", "id", id, "stage", stage)
	p.mu.Lock()
	defer p.mu.Unlock()
	if id == p.seq {
		p.state = job.Cancelled
	}
}

func (p *Pipeline) progress(id uint64, f float64) {
	p.mu.Lock()
	latest := id == p.seq
	p.mu.Unlock()
	if !latest {
		return
	}
	select {
	case p.msgs <- ProgressMsg{ID: id, Fraction: f}:
	default:
	}
}

// send delivers msg without blocking. When the channel is full the oldest
// message is dropped so the newest wins.
func (p *Pipeline) send(msg tea.Msg) {
	for {
		select {
		case p.msgs <- msg:
			return
		default:
		}
		select {
		case <-p.msgs:
		default:
		}
	}
}
