package homomorphism

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGraphAdjacency(t *testing.T) {
	g := NewGraph([]string{"a", "b", "c"}, false)
	g.AddEdge(0, 1)

	require.True(t, g.Adjacent(0, 1))
	require.True(t, g.Adjacent(1, 0), "undirected edges are symmetric")
	require.False(t, g.Adjacent(0, 2))
	require.Equal(t, 1, g.Degree(0))
	require.Equal(t, 0, g.Degree(2))
}

func TestGraphDirected(t *testing.T) {
	g := NewGraph([]string{"p", "q"}, true)
	g.AddEdge(0, 1)

	require.True(t, g.Adjacent(0, 1))
	require.False(t, g.Adjacent(1, 0))
	require.Equal(t, 1, g.OutDegree(0))
	require.Equal(t, 0, g.InDegree(0))
	require.Equal(t, 1, g.InDegree(1))
	require.Equal(t, 1, g.Degree(0), "directed degree is out plus in")
}

func TestGraphEdgeOutOfRangePanics(t *testing.T) {
	g := NewGraph([]string{"a"}, false)
	require.Panics(t, func() { g.AddEdge(0, 1) })
}

func TestBigraphLayersShareIDs(t *testing.T) {
	b := NewBigraph([]string{"root", "cell", "port"})
	b.AddPlace(0, 1)
	b.AddLink(1, 2)

	require.True(t, b.Place.Adjacent(0, 1))
	require.False(t, b.Place.Adjacent(1, 0), "place layer is directed")
	require.True(t, b.Link.Adjacent(2, 1))

	v, ok := b.VertexID("cell")
	require.True(t, ok)
	require.Equal(t, 1, v)
	require.Equal(t, "port", b.Name(2))

	_, ok = b.VertexID("nope")
	require.False(t, ok)

	require.Equal(t, 2, b.Degree(1), "place out+in plus link degree")
}

func TestBigraphDuplicateNamePanics(t *testing.T) {
	require.Panics(t, func() { NewBigraph([]string{"a", "a"}) })
}
