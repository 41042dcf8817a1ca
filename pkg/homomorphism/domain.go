package homomorphism

import "math/bits"

// bitset is a fixed-capacity set of small non-negative integers backed by
// raw words. Adjacency rows and candidate domains both use it, so the
// propagation inner loop reduces to word-wise AND / AND-NOT.
type bitset struct {
	words []uint64
}

func newBitset(n int) bitset {
	return bitset{words: make([]uint64, (n+63)/64)}
}

// newFullBitset returns a bitset with bits [0, n) all set.
func newFullBitset(n int) bitset {
	b := newBitset(n)
	for i := 0; i < n; i++ {
		b.words[i/64] |= 1 << uint(i%64)
	}
	return b
}

func (b bitset) clone() bitset {
	words := make([]uint64, len(b.words))
	copy(words, b.words)
	return bitset{words: words}
}

func (b bitset) set(v int)   { b.words[v/64] |= 1 << uint(v%64) }
func (b bitset) unset(v int) { b.words[v/64] &^= 1 << uint(v%64) }

func (b bitset) has(v int) bool {
	return (b.words[v/64]>>uint(v%64))&1 == 1
}

func (b bitset) count() int {
	c := 0
	for _, w := range b.words {
		c += bits.OnesCount64(w)
	}
	return c
}

func (b bitset) empty() bool {
	for _, w := range b.words {
		if w != 0 {
			return false
		}
	}
	return true
}

// intersect removes from b every value absent from o.
func (b bitset) intersect(o bitset) {
	for i := range b.words {
		b.words[i] &= o.words[i]
	}
}

// subtract removes from b every value present in o.
func (b bitset) subtract(o bitset) {
	for i := range b.words {
		b.words[i] &^= o.words[i]
	}
}

// values returns the members in ascending order.
func (b bitset) values() []int {
	out := make([]int, 0, b.count())
	for i, w := range b.words {
		for w != 0 {
			off := bits.TrailingZeros64(w)
			out = append(out, i*64+off)
			w &= w - 1
		}
	}
	return out
}

// domains holds, for each pattern vertex, the set of target vertices still
// consistent with the current partial assignment. Domains are branch
// scoped: each candidate trial works on a clone, so backtracking out of a
// branch restores the parent's domains by simply discarding the clone.
type domains struct {
	sets []bitset
}

func newDomains(patternN, targetN int) domains {
	d := domains{sets: make([]bitset, patternN)}
	for p := range d.sets {
		d.sets[p] = newFullBitset(targetN)
	}
	return d
}

func (d domains) clone() domains {
	c := domains{sets: make([]bitset, len(d.sets))}
	for p := range d.sets {
		c.sets[p] = d.sets[p].clone()
	}
	return c
}

func (d domains) count(p int) int    { return d.sets[p].count() }
func (d domains) values(p int) []int { return d.sets[p].values() }
func (d domains) has(p, t int) bool  { return d.sets[p].has(t) }
func (d domains) remove(p, t int)    { d.sets[p].unset(t) }
