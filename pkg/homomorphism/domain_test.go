package homomorphism

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBitsetBasics(t *testing.T) {
	b := newFullBitset(70)
	require.Equal(t, 70, b.count())
	require.True(t, b.has(0))
	require.True(t, b.has(69))
	require.False(t, b.has(70), "bits beyond n stay clear")

	b.unset(69)
	require.False(t, b.has(69))
	require.Equal(t, 69, b.count())

	b.set(69)
	require.True(t, b.has(69))
}

func TestBitsetSetOps(t *testing.T) {
	a := newBitset(8)
	a.set(1)
	a.set(3)
	a.set(5)

	other := newBitset(8)
	other.set(3)
	other.set(5)
	other.set(7)

	inter := a.clone()
	inter.intersect(other)
	require.Equal(t, []int{3, 5}, inter.values())

	diff := a.clone()
	diff.subtract(other)
	require.Equal(t, []int{1}, diff.values())

	require.Equal(t, []int{1, 3, 5}, a.values(), "source unchanged by cloned ops")
}

func TestBitsetEmpty(t *testing.T) {
	b := newBitset(100)
	require.True(t, b.empty())
	b.set(64)
	require.False(t, b.empty())
}

func TestDomainsCloneIsIndependent(t *testing.T) {
	d := newDomains(2, 5)
	require.Equal(t, 5, d.count(0))

	c := d.clone()
	c.remove(0, 2)
	require.Equal(t, 4, c.count(0))
	require.Equal(t, 5, d.count(0), "clone must not alias the original")
	require.True(t, d.has(0, 2))
	require.False(t, c.has(0, 2))
}
