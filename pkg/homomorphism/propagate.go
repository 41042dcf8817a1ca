package homomorphism

// problem is the immutable solve instance shared by every worker: the two
// bigraphs plus the induced-ness flag. All search state lives elsewhere.
type problem struct {
	pattern *Bigraph
	target  *Bigraph
	induced bool
}

// rootDomains builds the initial candidate domains, filtered by the unary
// constraints that hold regardless of any assignment:
//
//   - loop consistency in both layers (a self-loop on a pattern vertex
//     requires one on its image; under induced matching the absence of a
//     self-loop must be mirrored too);
//   - degree bounds in both layers: an injective mapping cannot send a
//     pattern vertex to a target vertex of smaller out-, in-, or link
//     degree.
//
// The second result is false when some pattern vertex has no viable
// candidate at all, in which case the instance is unsatisfiable without
// any search.
func (pr *problem) rootDomains() (domains, bool) {
	pn := pr.pattern.VertexCount()
	tn := pr.target.VertexCount()
	doms := newDomains(pn, tn)

	for p := 0; p < pn; p++ {
		for t := 0; t < tn; t++ {
			if !pr.unaryCompatible(p, t) {
				doms.remove(p, t)
			}
		}
		if doms.count(p) == 0 {
			return doms, false
		}
	}
	return doms, true
}

func (pr *problem) unaryCompatible(p, t int) bool {
	pPlace, tPlace := pr.pattern.Place, pr.target.Place
	pLink, tLink := pr.pattern.Link, pr.target.Link

	if pPlace.Adjacent(p, p) != tPlace.Adjacent(t, t) {
		if pPlace.Adjacent(p, p) || pr.induced {
			return false
		}
	}
	if pLink.Adjacent(p, p) != tLink.Adjacent(t, t) {
		if pLink.Adjacent(p, p) || pr.induced {
			return false
		}
	}

	return pPlace.OutDegree(p) <= tPlace.OutDegree(t) &&
		pPlace.InDegree(p) <= tPlace.InDegree(t) &&
		pLink.Degree(p) <= tLink.Degree(t)
}

// propagate prunes the domains of every unassigned pattern vertex after
// tentatively binding pattern vertex p to target vertex t. For each other
// unassigned vertex q it removes:
//
//   - t itself (injectivity);
//   - any candidate that breaks adjacency preservation: if p-q is an edge
//     in a pattern layer, q's candidates are intersected with the image
//     row of t in the corresponding target layer (outgoing and incoming
//     place edges independently, plus link edges); under induced matching
//     a non-edge p-q additionally subtracts that row, so absence of
//     adjacency is mirrored as well.
//
// Both layers must hold simultaneously. The return value is false exactly
// when some domain was wiped out, which the caller treats as a dead end,
// never as an error. Repeating the call with the same arguments removes
// nothing further (the pruning is a pure intersection), so propagation is
// idempotent.
func (pr *problem) propagate(doms domains, assignment []int, p, t int) bool {
	pn := pr.pattern.VertexCount()
	pPlace, tPlace := pr.pattern.Place, pr.target.Place
	pLink, tLink := pr.pattern.Link, pr.target.Link

	for q := 0; q < pn; q++ {
		if q == p || assignment[q] >= 0 {
			continue
		}
		dq := doms.sets[q]
		dq.unset(t)

		// Place layer, outgoing then incoming.
		if pPlace.Adjacent(p, q) {
			dq.intersect(tPlace.row(t))
		} else if pr.induced {
			dq.subtract(tPlace.row(t))
		}
		if pPlace.Adjacent(q, p) {
			dq.intersect(tPlace.inRow(t))
		} else if pr.induced {
			dq.subtract(tPlace.inRow(t))
		}

		// Link layer, symmetric.
		if pLink.Adjacent(p, q) {
			dq.intersect(tLink.row(t))
		} else if pr.induced {
			dq.subtract(tLink.row(t))
		}

		if dq.empty() {
			return false
		}
	}
	return true
}
