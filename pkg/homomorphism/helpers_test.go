package homomorphism

import (
	"fmt"
	"math/rand"
)

// linkBigraph builds a bigraph with undirected link edges only; vertices
// are named v0, v1, ...
func linkBigraph(n int, edges [][2]int) *Bigraph {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("v%d", i)
	}
	b := NewBigraph(names)
	for _, e := range edges {
		b.AddLink(e[0], e[1])
	}
	return b
}

func namedLinkBigraph(names []string, edges [][2]string) *Bigraph {
	b := NewBigraph(names)
	for _, e := range edges {
		a, ok := b.VertexID(e[0])
		if !ok {
			panic("bad test edge")
		}
		c, ok := b.VertexID(e[1])
		if !ok {
			panic("bad test edge")
		}
		b.AddLink(a, c)
	}
	return b
}

// completeLink builds K_n in the link layer.
func completeLink(n int) *Bigraph {
	var edges [][2]int
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			edges = append(edges, [2]int{i, j})
		}
	}
	return linkBigraph(n, edges)
}

// cycleLink builds C_n in the link layer.
func cycleLink(n int) *Bigraph {
	var edges [][2]int
	for i := 0; i < n; i++ {
		edges = append(edges, [2]int{i, (i + 1) % n})
	}
	return linkBigraph(n, edges)
}

// completeMultipartite builds the complete multipartite link graph with
// the given number of parts of equal size: edges between every pair of
// vertices in different parts. Its largest clique has one vertex per
// part, so K_{parts+1} has no embedding.
func completeMultipartite(parts, size int) *Bigraph {
	n := parts * size
	var edges [][2]int
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if i/size != j/size {
				edges = append(edges, [2]int{i, j})
			}
		}
	}
	return linkBigraph(n, edges)
}

// randomBigraph builds a bigraph with random edges in both layers.
func randomBigraph(rng *rand.Rand, n int, pLink, pPlace float64) *Bigraph {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("v%d", i)
	}
	b := NewBigraph(names)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if rng.Float64() < pLink {
				b.AddLink(i, j)
			}
			if rng.Float64() < pPlace {
				b.AddPlace(i, j)
			}
			if rng.Float64() < pPlace {
				b.AddPlace(j, i)
			}
		}
	}
	return b
}

// validMapping checks adjacency preservation in both layers, including
// loops, plus non-adjacency when induced. The reference semantics the
// engine is tested against.
func validMapping(pattern, target *Bigraph, m []int, induced bool) bool {
	pn := pattern.VertexCount()
	for p := 0; p < pn; p++ {
		for q := 0; q < pn; q++ {
			if pattern.Place.Adjacent(p, q) != target.Place.Adjacent(m[p], m[q]) {
				if pattern.Place.Adjacent(p, q) || induced {
					return false
				}
			}
			if pattern.Link.Adjacent(p, q) != target.Link.Adjacent(m[p], m[q]) {
				if pattern.Link.Adjacent(p, q) || induced {
					return false
				}
			}
		}
	}
	return true
}

// bruteForceCount enumerates every injective function from pattern to
// target vertices and counts the valid mappings.
func bruteForceCount(pattern, target *Bigraph, induced bool) uint64 {
	pn, tn := pattern.VertexCount(), target.VertexCount()
	m := make([]int, pn)
	used := make([]bool, tn)
	var count uint64
	var rec func(p int)
	rec = func(p int) {
		if p == pn {
			if validMapping(pattern, target, m, induced) {
				count++
			}
			return
		}
		for t := 0; t < tn; t++ {
			if used[t] {
				continue
			}
			m[p] = t
			used[t] = true
			rec(p + 1)
			used[t] = false
		}
	}
	rec(0)
	return count
}
