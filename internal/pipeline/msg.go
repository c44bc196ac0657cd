package pipeline

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"primal/internal/compose"
	"primal/internal/primes"
)

// ReadyMsg announces a published bitmap.
type ReadyMsg struct {
	ID      uint64
	Bitmap  *compose.Bitmap
	Primes  *primes.Set
	Config  compose.RenderConfig
	Elapsed time.Duration
}

// ProgressMsg reports how far the running job is, in [0, 1]. Progress
// messages are dropped when the receiver falls behind.
type ProgressMsg struct {
	ID       uint64
	Fraction float64
}

// FailedMsg reports a job that ended with an internal error. The
// previously published bitmap stays current.
type FailedMsg struct {
	ID  uint64
	Err error
}

// WaitForMsg returns a command that delivers the next message from ch.
// Re-issue it after every message to keep listening.
func WaitForMsg(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}
