package homomorphism

import (
	"sync"
	"sync/atomic"
	"time"
)

// Timeout is the shared cancellation controller handed to every worker at
// spawn time. It carries two distinct signals:
//
//   - stop: the search should halt. Set by deadline expiry, by an external
//     Abort, or by the coordinator when one worker finds a solution.
//   - aborted: the run ended early rather than completing. Set by expiry
//     and Abort but NOT by a winning worker, so the reported status can
//     distinguish "aborted" from "found".
//
// Workers poll ShouldStop at every node expansion; blocking operations
// (the lackey round-trip) select on Done instead. Once stop is set, every
// worker unwinds within a bounded number of node expansions.
type Timeout struct {
	timer    *time.Timer
	stop     chan struct{}
	stopOnce sync.Once
	aborted  atomic.Bool
}

// NewTimeout creates a controller that aborts the run after limit. A zero
// or negative limit means no deadline.
func NewTimeout(limit time.Duration) *Timeout {
	t := &Timeout{stop: make(chan struct{})}
	if limit > 0 {
		t.timer = time.AfterFunc(limit, t.Abort)
	}
	return t
}

// Abort marks the run as aborted and stops all workers. Safe to call from
// any goroutine, any number of times.
func (t *Timeout) Abort() {
	t.aborted.Store(true)
	t.Stop()
}

// Stop halts all workers without marking the run aborted. The coordinator
// calls this when a worker wins, reusing the cancellation path for
// inter-worker signalling.
func (t *Timeout) Stop() {
	t.stopOnce.Do(func() { close(t.stop) })
}

// ShouldStop is the cheap poll used at every search-tree node expansion.
func (t *Timeout) ShouldStop() bool {
	select {
	case <-t.stop:
		return true
	default:
		return false
	}
}

// Done returns a channel closed once the search should halt, for use at
// blocking suspension points.
func (t *Timeout) Done() <-chan struct{} { return t.stop }

// Aborted reports whether the run ended by abort (deadline or external)
// rather than by finding an answer or exhausting the search.
func (t *Timeout) Aborted() bool { return t.aborted.Load() }

// Release cancels the pending deadline timer, if any. Called once the
// solve returns so a long deadline does not pin the timer.
func (t *Timeout) Release() {
	if t.timer != nil {
		t.timer.Stop()
	}
}
