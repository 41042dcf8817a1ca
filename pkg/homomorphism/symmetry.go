package homomorphism

import (
	"strings"

	"github.com/pkg/errors"
)

// SymmetryConstraint requires image(A) < image(B) under the target vertex
// id ordering. Constraints of this form eliminate one representative per
// symmetric equivalence class of the pattern: they prune branches, never
// solution classes.
type SymmetryConstraint struct {
	A, B int
}

// ParseLessThan splits a "v<w" constraint string from the command surface
// into its two vertex names.
func ParseLessThan(s string) (string, string, error) {
	i := strings.IndexByte(s, '<')
	if i < 0 {
		return "", "", errors.Errorf("invalid pattern less-than constraint %q", s)
	}
	return s[:i], s[i+1:], nil
}

// ResolveSymmetryConstraints resolves name pairs against the pattern
// bigraph's vertex names. Unknown names are a configuration error.
func ResolveSymmetryConstraints(pairs [][2]string, pattern *Bigraph) ([]SymmetryConstraint, error) {
	out := make([]SymmetryConstraint, 0, len(pairs))
	for _, pair := range pairs {
		a, ok := pattern.VertexID(pair[0])
		if !ok {
			return nil, errors.Errorf("pattern less-than constraint names unknown vertex %q", pair[0])
		}
		b, ok := pattern.VertexID(pair[1])
		if !ok {
			return nil, errors.Errorf("pattern less-than constraint names unknown vertex %q", pair[1])
		}
		out = append(out, SymmetryConstraint{A: a, B: b})
	}
	return out, nil
}

// symmetryIndex precomputes, for each pattern vertex, the constraints it
// participates in, so the per-candidate check touches only relevant pairs.
type symmetryIndex struct {
	lessThan    [][]int // lessThan[p]: vertices w with constraint (p, w)
	greaterThan [][]int // greaterThan[p]: vertices v with constraint (v, p)
}

func newSymmetryIndex(constraints []SymmetryConstraint, patternN int) symmetryIndex {
	idx := symmetryIndex{
		lessThan:    make([][]int, patternN),
		greaterThan: make([][]int, patternN),
	}
	for _, c := range constraints {
		idx.lessThan[c.A] = append(idx.lessThan[c.A], c.B)
		idx.greaterThan[c.B] = append(idx.greaterThan[c.B], c.A)
	}
	return idx
}

// allows reports whether binding p -> t respects every active constraint
// given the current partial assignment. Applied before propagation, so a
// rejected candidate costs no domain work.
func (idx symmetryIndex) allows(assignment []int, p, t int) bool {
	for _, w := range idx.lessThan[p] {
		if tw := assignment[w]; tw >= 0 && t >= tw {
			return false
		}
	}
	for _, v := range idx.greaterThan[p] {
		if tv := assignment[v]; tv >= 0 && tv >= t {
			return false
		}
	}
	return true
}
