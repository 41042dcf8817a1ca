package homomorphism

import (
	"math"
	"sort"

	"github.com/pkg/errors"
)

// ValueOrdering selects the order in which a pattern vertex's candidate
// target vertices are tried. Variable selection itself (smallest domain
// first) is fixed; only value ordering is configurable.
type ValueOrdering int

const (
	// OrderBiased tries candidates in a weighted-random order that favours
	// high-degree target vertices and values that have appeared in
	// previously found solutions. The bias table is carried forward across
	// restarts, so a restart re-explores the root with everything learned
	// so far.
	OrderBiased ValueOrdering = iota

	// OrderDegree tries candidates in ascending target-degree order.
	OrderDegree

	// OrderAntiDegree tries candidates in descending target-degree order.
	OrderAntiDegree

	// OrderRandom tries candidates in a uniformly random order, seeded per
	// worker for reproducibility at fixed seeds.
	OrderRandom
)

func (v ValueOrdering) String() string {
	switch v {
	case OrderBiased:
		return "biased"
	case OrderDegree:
		return "degree"
	case OrderAntiDegree:
		return "antidegree"
	case OrderRandom:
		return "random"
	default:
		return "unknown"
	}
}

// ParseValueOrdering maps a heuristic name from the command surface to a
// ValueOrdering.
func ParseValueOrdering(name string) (ValueOrdering, error) {
	switch name {
	case "biased":
		return OrderBiased, nil
	case "degree":
		return OrderDegree, nil
	case "antidegree":
		return OrderAntiDegree, nil
	case "random":
		return OrderRandom, nil
	default:
		return OrderBiased, errors.Errorf("unknown value-ordering heuristic %q", name)
	}
}

// orderCandidates reorders cands in place per the worker's heuristic.
// cands arrives in ascending id order, and the degree orderings sort
// stably, so ties keep the lowest-id-first tie-break.
func (s *searcher) orderCandidates(p int, cands []int) {
	switch s.order {
	case OrderDegree:
		sort.SliceStable(cands, func(i, j int) bool {
			return s.target.Degree(cands[i]) < s.target.Degree(cands[j])
		})
	case OrderAntiDegree:
		sort.SliceStable(cands, func(i, j int) bool {
			return s.target.Degree(cands[i]) > s.target.Degree(cands[j])
		})
	case OrderRandom:
		s.rng.Shuffle(len(cands), func(i, j int) {
			cands[i], cands[j] = cands[j], cands[i]
		})
	case OrderBiased:
		s.biasedShuffle(p, cands)
	}
}

// biasedShuffle performs a weighted random shuffle (Efraimidis-Spirakis:
// sort by Exp(1)/weight ascending), where a candidate's weight grows
// exponentially with its target degree and linearly with the number of
// found solutions it participated in.
func (s *searcher) biasedShuffle(p int, cands []int) {
	type weighted struct {
		t   int
		key float64
	}
	ws := make([]weighted, len(cands))
	for i, t := range cands {
		deg := s.target.Degree(t)
		if deg > 30 {
			deg = 30
		}
		w := (1 + s.bias[p*s.target.VertexCount()+t]) * math.Ldexp(1, deg)
		ws[i] = weighted{t: t, key: s.rng.ExpFloat64() / w}
	}
	sort.SliceStable(ws, func(i, j int) bool { return ws[i].key < ws[j].key })
	for i := range ws {
		cands[i] = ws[i].t
	}
}

// learnBias credits every pair of the just-found solution.
func (s *searcher) learnBias() {
	tn := s.target.VertexCount()
	for p, t := range s.assignment {
		s.bias[p*tn+t]++
	}
}
