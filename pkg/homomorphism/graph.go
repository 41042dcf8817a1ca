// Package homomorphism decides, counts, or enumerates injective
// (optionally induced) homomorphisms from a pattern bigraph into a target
// bigraph. A bigraph couples two structural layers over one vertex id
// space: a directed containment (place) graph and an undirected
// connectivity (link) graph. An accepted mapping must preserve adjacency
// in both layers simultaneously.
//
// The package is organized around an immutable problem description
// (Graph, Bigraph, Params) and per-worker mutable search state (domains,
// assignment), so parallel workers share the problem at zero cost and
// never contend on search state.
package homomorphism

// Graph is a finite graph over vertex ids [0, n). Adjacency is stored as
// one bitset row per vertex (plus reverse rows when directed), giving O(1)
// adjacency probes and word-parallel domain pruning during propagation.
//
// A Graph is built once with AddEdge and is read-only for the lifetime of
// a solve; the engine never mutates it.
type Graph struct {
	n        int
	directed bool
	names    []string
	out      []bitset // out[v]: successors of v (neighbours when undirected)
	in       []bitset // in[v]: predecessors of v (aliases out when undirected)
}

// NewGraph creates an edgeless graph with one vertex per display name.
// Vertex ids follow the order of names.
func NewGraph(names []string, directed bool) *Graph {
	n := len(names)
	g := &Graph{
		n:        n,
		directed: directed,
		names:    names,
		out:      make([]bitset, n),
	}
	for v := 0; v < n; v++ {
		g.out[v] = newBitset(n)
	}
	if directed {
		g.in = make([]bitset, n)
		for v := 0; v < n; v++ {
			g.in[v] = newBitset(n)
		}
	} else {
		g.in = g.out
	}
	return g
}

// AddEdge adds the edge a->b (both directions when the graph is
// undirected). Out-of-range ids are a programming defect and panic.
func (g *Graph) AddEdge(a, b int) {
	if a < 0 || a >= g.n || b < 0 || b >= g.n {
		panic("homomorphism: edge endpoint out of range")
	}
	g.out[a].set(b)
	g.in[b].set(a)
	if !g.directed {
		g.out[b].set(a)
	}
}

// Adjacent reports whether the edge a->b exists. For undirected graphs
// the relation is symmetric.
func (g *Graph) Adjacent(a, b int) bool {
	return g.out[a].has(b)
}

// Degree returns the degree of v: neighbour count for undirected graphs,
// out-degree plus in-degree for directed ones. Derived from the adjacency
// rows rather than stored.
func (g *Graph) Degree(v int) int {
	if g.directed {
		return g.out[v].count() + g.in[v].count()
	}
	return g.out[v].count()
}

// OutDegree returns the out-degree of v.
func (g *Graph) OutDegree(v int) int { return g.out[v].count() }

// InDegree returns the in-degree of v.
func (g *Graph) InDegree(v int) int { return g.in[v].count() }

// VertexCount returns the number of vertices.
func (g *Graph) VertexCount() int { return g.n }

// Name returns the display name of v.
func (g *Graph) Name(v int) string { return g.names[v] }

// Directed reports whether edges are directed.
func (g *Graph) Directed() bool { return g.directed }

// row and inRow expose the adjacency bitsets to the propagation engine.
func (g *Graph) row(v int) bitset   { return g.out[v] }
func (g *Graph) inRow(v int) bitset { return g.in[v] }

// Bigraph couples a directed place (containment) graph and an undirected
// link (connectivity) graph over one shared vertex id space.
type Bigraph struct {
	Place *Graph
	Link  *Graph

	names []string
	index map[string]int
}

// NewBigraph creates a bigraph with one vertex per name and no edges in
// either layer. Duplicate names are a construction defect and panic.
func NewBigraph(names []string) *Bigraph {
	index := make(map[string]int, len(names))
	for v, name := range names {
		if _, dup := index[name]; dup {
			panic("homomorphism: duplicate vertex name " + name)
		}
		index[name] = v
	}
	return &Bigraph{
		Place: NewGraph(names, true),
		Link:  NewGraph(names, false),
		names: names,
		index: index,
	}
}

// AddPlace records that parent contains child in the place layer.
func (b *Bigraph) AddPlace(parent, child int) { b.Place.AddEdge(parent, child) }

// AddLink records a connectivity edge between a and b in the link layer.
func (b *Bigraph) AddLink(a, v int) { b.Link.AddEdge(a, v) }

// VertexCount returns the number of vertices shared by both layers.
func (b *Bigraph) VertexCount() int { return len(b.names) }

// Name returns the display name of v.
func (b *Bigraph) Name(v int) string { return b.names[v] }

// VertexID resolves a display name to its id.
func (b *Bigraph) VertexID(name string) (int, bool) {
	v, ok := b.index[name]
	return v, ok
}

// Degree returns the combined degree of v across both layers. Used by the
// degree-based value-ordering heuristics; advisory only.
func (b *Bigraph) Degree(v int) int {
	return b.Place.Degree(v) + b.Link.Degree(v)
}
