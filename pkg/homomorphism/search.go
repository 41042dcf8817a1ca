package homomorphism

import (
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/plan-systems/klog"
)

// outcome is the result of exploring one subtree (or, at the root, one
// whole restart round).
type outcome int

const (
	outDeadEnd outcome = iota // subtree exhausted, keep searching
	outFound                  // terminal: single-solution mode succeeded
	outAborted                // terminal: stop signal observed
	outRestart                // unwind to the root and start over
)

// sharedSchedule wraps one restart schedule for triggered-restart mode.
// Whichever worker's backtrack count fires the schedule advances it once
// under the lock and bumps the epoch; every other worker observes the new
// epoch at its next backtrack and restarts too. No user logic runs while
// the lock is held.
type sharedSchedule struct {
	mu    sync.Mutex
	inner RestartSchedule
	epoch atomic.Uint64
}

// due reports whether the calling worker should restart now. seen is the
// worker's private record of the last epoch it acted on.
func (ss *sharedSchedule) due(backtracks uint64, elapsed time.Duration, seen *uint64) bool {
	if e := ss.epoch.Load(); e != *seen {
		*seen = e
		return true
	}
	ss.mu.Lock()
	fired := ss.inner.ShouldRestart(backtracks, elapsed)
	if fired {
		ss.inner.DidRestart()
		ss.epoch.Add(1)
	}
	ss.mu.Unlock()
	if fired {
		*seen = ss.epoch.Load()
	}
	return fired
}

// searcher is one worker's search-engine instance. It owns its domains,
// assignment, counters, and (unless shared) restart schedule outright; the
// only cross-worker state it touches is the Timeout, the shared schedule,
// and the lackey handle.
type searcher struct {
	*problem
	id int

	timeout   *Timeout
	schedule  RestartSchedule // owned; nil under triggered restarts
	shared    *sharedSchedule // non-nil under triggered restarts
	epochSeen uint64
	lackey    Lackey
	symmetry  symmetryIndex
	order     ValueOrdering
	rng       *rand.Rand
	counting  bool
	enumerate EnumerateFunc
	startTime time.Time
	rootDoms  domains

	assignment []int
	bias       []float64 // per (pattern, target) pair; OrderBiased only

	nodes        uint64
	propagations uint64
	backtracks   uint64
	solutions    uint64
	restarts     uint64
	diag         []string

	backtracksSinceRestart uint64

	// onFirstRestart fires once, on this worker's first restart. The
	// coordinator uses it to expand the worker group under delayed thread
	// creation.
	onFirstRestart func()
	restarted      bool
}

// run drives the restart loop: explore from the root until a terminal
// outcome, resetting the assignment and re-cloning the root domains on
// every restart. Restarting is always safe because each round re-explores
// the full root domains; the bias table is deliberately carried forward.
func (s *searcher) run() (outcome, Mapping) {
	for {
		out := s.explore(s.rootDoms.clone())
		switch out {
		case outRestart:
			s.restarts++
			s.backtracksSinceRestart = 0
			for p := range s.assignment {
				s.assignment[p] = -1
			}
			if !s.restarted {
				s.restarted = true
				if s.onFirstRestart != nil {
					s.onFirstRestart()
				}
			}
			klog.V(2).Infof("worker %d restarting after %d backtracks", s.id, s.backtracks)
		case outFound:
			return out, append(Mapping(nil), s.assignment...)
		default:
			return out, nil
		}
	}
}

// explore is the recursive state machine of the search. Entry corresponds
// to Explore(depth); candidate trials run Propagate; falling off the
// candidate loop is Backtrack; a full assignment is Solution.
func (s *searcher) explore(doms domains) outcome {
	if s.timeout.ShouldStop() {
		return outAborted
	}
	s.nodes++

	p := s.selectVariable(doms)
	if p < 0 {
		return s.acceptSolution()
	}

	cands := doms.values(p)
	s.orderCandidates(p, cands)

	for _, t := range cands {
		// Symmetry filtering happens before propagation: a candidate that
		// violates an image-ordering constraint costs no domain work.
		if !s.symmetry.allows(s.assignment, p, t) {
			continue
		}

		s.assignment[p] = t
		trial := doms.clone()
		s.propagations++
		ok := s.propagate(trial, s.assignment, p, t)

		if ok && s.lackey != nil {
			accepted, err := s.lackey.Check(s.assignment)
			if err != nil {
				// Protocol failure is fatal: the external procedure is
				// required for soundness once configured.
				s.diag = append(s.diag, "lackey_failure = "+err.Error())
				s.timeout.Abort()
				s.assignment[p] = -1
				return outAborted
			}
			ok = accepted
		}

		if ok {
			out := s.explore(trial)
			if out != outDeadEnd {
				if out != outFound {
					s.assignment[p] = -1
				}
				return out
			}
		}
		s.assignment[p] = -1
	}

	s.backtracks++
	s.backtracksSinceRestart++
	if s.restartDue() {
		return outRestart
	}
	return outDeadEnd
}

// selectVariable picks the unassigned pattern vertex with the smallest
// current domain, breaking ties toward the lowest id. This ordering is
// fixed; it drives pruning and is not configurable.
func (s *searcher) selectVariable(doms domains) int {
	best := -1
	bestCount := int(^uint(0) >> 1)
	for p := range s.assignment {
		if s.assignment[p] >= 0 {
			continue
		}
		if c := doms.count(p); c < bestCount {
			best, bestCount = p, c
		}
	}
	return best
}

// acceptSolution handles a total assignment. Single-solution mode is
// terminal; counting and enumerating modes record the solution and then
// treat it as a dead end so the search continues.
func (s *searcher) acceptSolution() outcome {
	if s.order == OrderBiased {
		s.learnBias()
	}
	s.solutions++
	if !s.counting {
		return outFound
	}
	if s.enumerate != nil {
		s.enumerate(append(Mapping(nil), s.assignment...))
	}
	return outDeadEnd
}

func (s *searcher) restartDue() bool {
	elapsed := time.Since(s.startTime)
	if s.shared != nil {
		return s.shared.due(s.backtracksSinceRestart, elapsed, &s.epochSeen)
	}
	if s.schedule == nil {
		return false
	}
	if s.schedule.ShouldRestart(s.backtracksSinceRestart, elapsed) {
		s.schedule.DidRestart()
		return true
	}
	return false
}
