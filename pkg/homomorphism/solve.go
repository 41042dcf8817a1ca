package homomorphism

import (
	"fmt"
	"math/rand"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/plan-systems/klog"

	"github.com/gitrdm/bigmatch/internal/parallel"
)

// Mapping is a total assignment from pattern vertex ids to target vertex
// ids.
type Mapping []int

// Format renders the mapping as "(a -> x) (b -> y) " using display names,
// the form the result report and enumeration callbacks print.
func (m Mapping) Format(pattern, target *Bigraph) string {
	var b strings.Builder
	for p, t := range m {
		fmt.Fprintf(&b, "(%s -> %s) ", pattern.Name(p), target.Name(t))
	}
	return b.String()
}

// Status is the overall outcome of a solve.
type Status int

const (
	StatusNotFound Status = iota
	StatusFound
	StatusAborted
)

// String returns the status in its report form.
func (s Status) String() string {
	switch s {
	case StatusFound:
		return "true"
	case StatusAborted:
		return "aborted"
	default:
		return "false"
	}
}

// EnumerateFunc receives each solution as it is found when enumerating.
// It is called from whichever worker found the solution; enumeration runs
// single-worker, so calls are never concurrent.
type EnumerateFunc func(Mapping)

// Params configures one solve. The zero value asks for a first-solution,
// non-induced, sequential search with no restarts and biased ordering.
type Params struct {
	// Induced requires non-adjacency to be preserved as well as adjacency,
	// in both layers. Mappings are always injective.
	Induced bool

	// CountSolutions counts all solutions instead of stopping at the
	// first. Enumerate implies CountSolutions.
	CountSolutions bool

	// Enumerate, when non-nil, is invoked with every solution found.
	Enumerate EnumerateFunc

	// Restarts describes the restart schedule; each worker mints its own
	// instance, or one shared instance under TriggeredRestarts.
	Restarts RestartPolicy

	// ValueOrdering selects the candidate-ordering heuristic.
	ValueOrdering ValueOrdering

	// Symmetry lists image-ordering constraints resolved against the
	// pattern (see ResolveSymmetryConstraints).
	Symmetry []SymmetryConstraint

	// Threads is the worker count: 1 for sequential search, 0 to
	// autodetect hardware concurrency.
	Threads int

	// TriggeredRestarts shares one restart schedule across all workers;
	// any worker's restart is broadcast to the others.
	TriggeredRestarts bool

	// DelayThreadCreation starts a single bootstrap worker and expands to
	// the full group only after its first restart.
	DelayThreadCreation bool

	// Lackey, when non-nil, is consulted for every assignment the search
	// is about to accept.
	Lackey Lackey

	// Timeout is the shared cancellation controller. Nil means no
	// deadline (one is still created internally for worker signalling).
	Timeout *Timeout

	// StartTime anchors elapsed-time measurements; zero means now.
	StartTime time.Time

	// RandomSeed seeds the per-worker generators used by the random and
	// biased orderings. Worker i uses RandomSeed + i.
	RandomSeed int64
}

// Result aggregates the outcome of a solve across all workers.
type Result struct {
	Status Status

	// Mapping is the winning assignment in first-solution mode, nil
	// otherwise.
	Mapping Mapping

	// SolutionCount is meaningful in counting and enumerating modes.
	SolutionCount uint64

	// Nodes and Propagations are summed across workers. Under parallel
	// search their values vary with scheduling; the set of valid mappings
	// does not.
	Nodes        uint64
	Propagations uint64

	// Extra carries free-form diagnostic lines for the report.
	Extra []string
}

// Solve searches for injective homomorphisms from pattern into target.
// The Timeout in params (or an internal one) is polled at every node
// expansion; on expiry the result carries StatusAborted along with
// whatever counters were accumulated. A lackey protocol failure also
// aborts, with a diagnostic line in Extra.
func Solve(pattern, target *Bigraph, params Params) (Result, error) {
	if pattern == nil || target == nil {
		return Result{}, errors.New("homomorphism: pattern and target must be non-nil")
	}

	timeout := params.Timeout
	if timeout == nil {
		timeout = NewTimeout(0)
	}
	defer timeout.Release()

	start := params.StartTime
	if start.IsZero() {
		start = time.Now()
	}

	counting := params.CountSolutions || params.Enumerate != nil

	pr := &problem{pattern: pattern, target: target, induced: params.Induced}
	symmetry := newSymmetryIndex(params.Symmetry, pattern.VertexCount())

	rootDoms, feasible := pr.rootDomains()
	if !feasible {
		return Result{Status: StatusNotFound}, nil
	}

	threads := params.Threads
	policy := params.Restarts
	if counting {
		// Counting must visit each solution exactly once: parallel workers
		// would each recount the whole tree, and a restart would revisit
		// solutions found before it. One worker, no restarts.
		threads = 1
		policy = RestartPolicy{Kind: RestartsNone}
	}
	if threads <= 0 {
		threads = runtime.NumCPU()
	}

	var shared *sharedSchedule
	if params.TriggeredRestarts && threads > 1 {
		shared = &sharedSchedule{inner: policy.NewSchedule()}
	}

	group := parallel.NewGroup(threads)
	workers := make([]*searcher, threads)

	var (
		mu     sync.Mutex
		winner Mapping
	)

	worker := func(id int) {
		s := &searcher{
			problem:    pr,
			id:         id,
			timeout:    timeout,
			shared:     shared,
			lackey:     params.Lackey,
			symmetry:   symmetry,
			order:      params.ValueOrdering,
			rng:        rand.New(rand.NewSource(params.RandomSeed + int64(id))),
			counting:   counting,
			enumerate:  params.Enumerate,
			startTime:  start,
			rootDoms:   rootDoms,
			assignment: make([]int, pattern.VertexCount()),
		}
		for p := range s.assignment {
			s.assignment[p] = -1
		}
		if shared == nil {
			s.schedule = policy.NewSchedule()
		}
		if params.ValueOrdering == OrderBiased {
			s.bias = make([]float64, pattern.VertexCount()*target.VertexCount())
		}
		if id == 0 && params.DelayThreadCreation && threads > 1 {
			s.onFirstRestart = group.Expand
		}
		workers[id] = s

		out, mapping := s.run()
		klog.V(2).Infof("worker %d finished: outcome=%d nodes=%d backtracks=%d", id, out, s.nodes, s.backtracks)

		if out == outFound {
			mu.Lock()
			if winner == nil {
				winner = mapping
				// Reuse the cancellation path to stop the losers; Stop
				// (not Abort) keeps the status reporting as found.
				timeout.Stop()
			}
			mu.Unlock()
		}
	}

	if threads == 1 {
		worker(0)
	} else if params.DelayThreadCreation {
		group.RunDeferred(worker)
		group.Wait()
	} else {
		group.Run(worker)
		group.Wait()
	}

	res := Result{}
	var restarts uint64
	for _, s := range workers {
		if s == nil {
			// Deferred workers that were never expanded.
			continue
		}
		res.Nodes += s.nodes
		res.Propagations += s.propagations
		res.SolutionCount += s.solutions
		res.Extra = append(res.Extra, s.diag...)
		restarts += s.restarts
	}
	if restarts > 0 {
		res.Extra = append(res.Extra, fmt.Sprintf("restarts = %d", restarts))
	}

	switch {
	case timeout.Aborted():
		res.Status = StatusAborted
	case winner != nil:
		res.Status = StatusFound
		res.Mapping = winner
	case counting && res.SolutionCount > 0:
		res.Status = StatusFound
	default:
		res.Status = StatusNotFound
	}
	return res, nil
}
