// Package parallel provides the worker-group plumbing for multi-threaded
// search: a fixed set of workers spawned either eagerly or lazily, with
// the expansion decision owned by the caller.
package parallel

import (
	"runtime"
	"sync"
)

// Group manages a fixed-size set of search workers. Workers run to
// completion or cancellation; the group never queues work beyond the one
// function each worker runs. Two spawn strategies are supported:
//
//   - Run starts every worker immediately;
//   - RunDeferred starts only worker 0, and Expand (typically called from
//     the bootstrap worker's first-restart hook) launches the rest. This
//     amortizes spawn cost for instances solved before the first restart.
type Group struct {
	size       int
	fn         func(id int)
	wg         sync.WaitGroup
	expandOnce sync.Once
}

// NewGroup creates a group of the given size. A size of zero or less
// autodetects hardware concurrency.
func NewGroup(size int) *Group {
	if size <= 0 {
		size = runtime.NumCPU()
	}
	return &Group{size: size}
}

// Size returns the number of workers the group will run at full strength.
func (g *Group) Size() int { return g.size }

// Run starts fn(id) in its own goroutine for every id in [0, size).
func (g *Group) Run(fn func(id int)) {
	g.fn = fn
	g.expandOnce.Do(func() {})
	for id := 0; id < g.size; id++ {
		g.spawn(id)
	}
}

// RunDeferred starts only worker 0. The remaining workers start when
// Expand is called.
func (g *Group) RunDeferred(fn func(id int)) {
	g.fn = fn
	g.spawn(0)
}

// Expand launches workers [1, size). Idempotent; a no-op after Run.
func (g *Group) Expand() {
	g.expandOnce.Do(func() {
		for id := 1; id < g.size; id++ {
			g.spawn(id)
		}
	})
}

// Wait blocks until every started worker has returned.
func (g *Group) Wait() { g.wg.Wait() }

func (g *Group) spawn(id int) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		g.fn(id)
	}()
}
