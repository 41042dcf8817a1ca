package formats

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleBigraph = `
# a cell containing two linked sites
node cell, s1, s2
node probe

place cell s1   # containment
place cell s2
link s1 s2
link probe s1
`

func TestReadBigraph(t *testing.T) {
	bg, err := ReadBigraph(strings.NewReader(sampleBigraph), "sample.bg")
	require.NoError(t, err)
	require.Equal(t, 4, bg.VertexCount())

	cell, ok := bg.VertexID("cell")
	require.True(t, ok)
	s1, ok := bg.VertexID("s1")
	require.True(t, ok)
	s2, ok := bg.VertexID("s2")
	require.True(t, ok)
	probe, ok := bg.VertexID("probe")
	require.True(t, ok)

	// Ids follow declaration order.
	require.Equal(t, []int{0, 1, 2, 3}, []int{cell, s1, s2, probe})

	require.True(t, bg.Place.Adjacent(cell, s1))
	require.True(t, bg.Place.Adjacent(cell, s2))
	require.False(t, bg.Place.Adjacent(s1, cell), "containment is directed")

	require.True(t, bg.Link.Adjacent(s1, s2))
	require.True(t, bg.Link.Adjacent(s2, s1), "links are undirected")
	require.True(t, bg.Link.Adjacent(probe, s1))
	require.False(t, bg.Link.Adjacent(probe, s2))
}

func TestReadBigraphEmpty(t *testing.T) {
	bg, err := ReadBigraph(strings.NewReader("# only comments\n"), "empty.bg")
	require.NoError(t, err)
	require.Equal(t, 0, bg.VertexCount())
}

func TestReadBigraphDuplicateNode(t *testing.T) {
	_, err := ReadBigraph(strings.NewReader("node a\nnode a\n"), "dup.bg")
	require.Error(t, err)
	require.Contains(t, err.Error(), "duplicate node")
}

func TestReadBigraphUndeclaredEdge(t *testing.T) {
	_, err := ReadBigraph(strings.NewReader("node a\nlink a ghost\n"), "ghost.bg")
	require.Error(t, err)
	require.Contains(t, err.Error(), "undeclared node")

	_, err = ReadBigraph(strings.NewReader("node a\nplace ghost a\n"), "ghost.bg")
	require.Error(t, err)
	require.Contains(t, err.Error(), "undeclared node")
}

func TestReadBigraphSyntaxError(t *testing.T) {
	_, err := ReadBigraph(strings.NewReader("node a\nfrobnicate a b\n"), "bad.bg")
	require.Error(t, err)
	require.Contains(t, err.Error(), "bad.bg")
}

func TestLoadBigraphMissingFile(t *testing.T) {
	_, err := LoadBigraph("testdata/does-not-exist.bg")
	require.Error(t, err)
}
