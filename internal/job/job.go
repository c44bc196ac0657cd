// Package job holds the lifecycle states shared by the generation stages.
//
// Long-running stages (the sieve and the compositor) report how they ended
// as a State rather than an error: being superseded is an ordinary outcome.
package job

import "context"

// State is the lifecycle state of a generation job.
type State uint8

const (
	Idle State = iota
	Running
	Completed
	Cancelled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Stopped polls ctx without blocking and reports whether it was cancelled.
func Stopped(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
