package homomorphism

import (
	"time"

	"github.com/pkg/errors"
)

// Default schedule parameters, used when the corresponding policy field is
// left zero.
const (
	DefaultLubyMultiplier      uint64 = 660
	DefaultGeometricInitial           = 10.0
	DefaultGeometricMultiplier        = 1.5
	DefaultRestartInterval            = 100 * time.Millisecond
	DefaultRestartMinimum      uint64 = 100
)

// RestartSchedule decides when a worker should abandon its current search
// tree and start over from the root. ShouldRestart is consulted at every
// backtrack with the number of backtracks performed since the last restart
// and the wall time elapsed since the search began; DidRestart advances
// the schedule's internal state and is called exactly once per restart
// taken.
//
// Schedules are stateful and owned by a single worker, except under
// triggered restarts where one instance is shared behind a lock (see
// sharedSchedule in search.go).
type RestartSchedule interface {
	ShouldRestart(backtracksSinceRestart uint64, elapsed time.Duration) bool
	DidRestart()
}

// NoRestartsSchedule never restarts; the search runs to natural
// exhaustion or cancellation.
type NoRestartsSchedule struct{}

func (NoRestartsSchedule) ShouldRestart(uint64, time.Duration) bool { return false }
func (NoRestartsSchedule) DidRestart()                              {}

// LubyRestartsSchedule restarts after m * L_i backtracks, where L is the
// Luby sequence 1,1,2,1,1,2,4,1,1,2,1,1,2,4,8,... The sequence index
// advances on every restart. The unbounded tail keeps the search
// complete: every depth is eventually explored without interruption.
//
// The sequence is generated by Knuth's reluctant-doubling recurrence
// (u,v) <- (u & -u == v) ? (u+1, 1) : (u, 2v), whose v column is exactly
// the Luby sequence.
type LubyRestartsSchedule struct {
	multiplier uint64
	u, v       uint64
}

func NewLubyRestartsSchedule(multiplier uint64) *LubyRestartsSchedule {
	if multiplier == 0 {
		multiplier = DefaultLubyMultiplier
	}
	return &LubyRestartsSchedule{multiplier: multiplier, u: 1, v: 1}
}

// CurrentBudget returns the backtrack budget of the current sequence term.
func (s *LubyRestartsSchedule) CurrentBudget() uint64 { return s.v * s.multiplier }

func (s *LubyRestartsSchedule) ShouldRestart(backtracks uint64, _ time.Duration) bool {
	return backtracks >= s.CurrentBudget()
}

func (s *LubyRestartsSchedule) DidRestart() {
	if s.u&(^s.u+1) == s.v {
		s.u++
		s.v = 1
	} else {
		s.v <<= 1
	}
}

// GeometricRestartsSchedule restarts after c * r^i backtracks for the
// i-th restart. Budgets are strictly increasing for r > 1, so the tail is
// unbounded and the schedule is complete.
type GeometricRestartsSchedule struct {
	current    float64
	multiplier float64
}

func NewGeometricRestartsSchedule(initial, multiplier float64) *GeometricRestartsSchedule {
	if initial <= 0 {
		initial = DefaultGeometricInitial
	}
	if multiplier <= 0 {
		multiplier = DefaultGeometricMultiplier
	}
	return &GeometricRestartsSchedule{current: initial, multiplier: multiplier}
}

// CurrentBudget returns the backtrack budget of the current term, rounded
// down to whole backtracks.
func (s *GeometricRestartsSchedule) CurrentBudget() uint64 { return uint64(s.current) }

func (s *GeometricRestartsSchedule) ShouldRestart(backtracks uint64, _ time.Duration) bool {
	return backtracks >= s.CurrentBudget()
}

func (s *GeometricRestartsSchedule) DidRestart() { s.current *= s.multiplier }

// TimedRestartsSchedule restarts once wall-clock time since the last
// restart reaches the configured interval AND at least minimumBacktracks
// backtracks have happened since then. The backtrack floor guards against
// restart thrashing when the interval is short relative to search speed;
// when only the time condition holds, the schedule waits.
type TimedRestartsSchedule struct {
	duration          time.Duration
	minimumBacktracks uint64
	lastRestart       time.Time
}

func NewTimedRestartsSchedule(duration time.Duration, minimumBacktracks uint64) *TimedRestartsSchedule {
	if duration <= 0 {
		duration = DefaultRestartInterval
	}
	if minimumBacktracks == 0 {
		minimumBacktracks = DefaultRestartMinimum
	}
	return &TimedRestartsSchedule{
		duration:          duration,
		minimumBacktracks: minimumBacktracks,
		lastRestart:       time.Now(),
	}
}

func (s *TimedRestartsSchedule) ShouldRestart(backtracks uint64, _ time.Duration) bool {
	return backtracks >= s.minimumBacktracks && time.Since(s.lastRestart) >= s.duration
}

func (s *TimedRestartsSchedule) DidRestart() { s.lastRestart = time.Now() }

// RestartPolicyKind enumerates the closed set of restart policies.
type RestartPolicyKind int

const (
	RestartsNone RestartPolicyKind = iota
	RestartsLuby
	RestartsGeometric
	RestartsTimed
)

// RestartPolicy is the configuration-side description of a schedule. It is
// a value, not an instance: NewSchedule mints a fresh stateful schedule
// from it, so each worker can own an independent copy (or the coordinator
// a single shared one under triggered restarts).
type RestartPolicy struct {
	Kind RestartPolicyKind

	// Luby
	LubyMultiplier uint64

	// Geometric
	GeometricInitial    float64
	GeometricMultiplier float64

	// Timed
	Interval          time.Duration
	MinimumBacktracks uint64
}

// NewSchedule creates a fresh schedule instance for this policy.
func (p RestartPolicy) NewSchedule() RestartSchedule {
	switch p.Kind {
	case RestartsLuby:
		return NewLubyRestartsSchedule(p.LubyMultiplier)
	case RestartsGeometric:
		return NewGeometricRestartsSchedule(p.GeometricInitial, p.GeometricMultiplier)
	case RestartsTimed:
		return NewTimedRestartsSchedule(p.Interval, p.MinimumBacktracks)
	default:
		return NoRestartsSchedule{}
	}
}

// ParseRestartPolicyKind maps a policy name from the command surface to
// its kind.
func ParseRestartPolicyKind(name string) (RestartPolicyKind, error) {
	switch name {
	case "luby":
		return RestartsLuby, nil
	case "geometric":
		return RestartsGeometric, nil
	case "timed":
		return RestartsTimed, nil
	case "none":
		return RestartsNone, nil
	default:
		return RestartsNone, errors.Errorf("unknown restarts policy %q", name)
	}
}
