package homomorphism

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLessThan(t *testing.T) {
	a, b, err := ParseLessThan("x<y")
	require.NoError(t, err)
	require.Equal(t, "x", a)
	require.Equal(t, "y", b)

	_, _, err = ParseLessThan("xy")
	require.Error(t, err)
}

func TestResolveSymmetryConstraints(t *testing.T) {
	pattern := linkBigraph(3, nil)

	cs, err := ResolveSymmetryConstraints([][2]string{{"v0", "v2"}}, pattern)
	require.NoError(t, err)
	require.Equal(t, []SymmetryConstraint{{A: 0, B: 2}}, cs)

	_, err = ResolveSymmetryConstraints([][2]string{{"v0", "bogus"}}, pattern)
	require.Error(t, err)
}

func TestSymmetryIndexAllows(t *testing.T) {
	idx := newSymmetryIndex([]SymmetryConstraint{{A: 0, B: 1}}, 2)
	assignment := []int{-1, -1}

	// Nothing bound yet: every candidate passes.
	require.True(t, idx.allows(assignment, 0, 5))

	// With image(1) = 3, image(0) must be < 3.
	assignment[1] = 3
	require.True(t, idx.allows(assignment, 0, 2))
	require.False(t, idx.allows(assignment, 0, 3))
	require.False(t, idx.allows(assignment, 0, 4))

	// And from the other side: with image(0) = 3, image(1) must be > 3.
	assignment[0], assignment[1] = 3, -1
	require.True(t, idx.allows(assignment, 1, 4))
	require.False(t, idx.allows(assignment, 1, 3))
	require.False(t, idx.allows(assignment, 1, 2))
}

// TestSymmetrySoundness: breaking a genuine symmetry never removes the
// last solution class. The pattern edge v0-v1 is symmetric under swapping
// its endpoints, so constraining image(v0) < image(v1) must leave at
// least one solution whenever the unconstrained search finds one — and
// here exactly one of the two automorphic solutions survives.
func TestSymmetrySoundness(t *testing.T) {
	pattern := linkBigraph(2, [][2]int{{0, 1}})
	target := linkBigraph(2, [][2]int{{0, 1}})

	unconstrained, err := Solve(pattern, target, Params{Induced: true, CountSolutions: true})
	require.NoError(t, err)
	require.Equal(t, uint64(2), unconstrained.SolutionCount)

	cs, err := ResolveSymmetryConstraints([][2]string{{"v0", "v1"}}, pattern)
	require.NoError(t, err)
	constrained, err := Solve(pattern, target, Params{
		Induced:        true,
		CountSolutions: true,
		Symmetry:       cs,
	})
	require.NoError(t, err)
	require.Equal(t, StatusFound, constrained.Status)
	require.Equal(t, uint64(1), constrained.SolutionCount)
}
