package mesh

// Triangle is an unordered triple of mutually adjacent nodes, stored in
// canonical ascending order (A < B < C).
type Triangle struct {
	A, B, C string
}

// Triangles enumerates all 3-cliques in the graph in deterministic order:
// triples are discovered by ascending node ID, so the same graph always
// yields the same slice. Returns nil if the graph has no triangles.
//
// Enumeration is O(n * d^2) over sorted adjacency lists, which is fine at
// county scale (regions rarely exceed a few hundred towers).
func Triangles(g *Graph) []Triangle {
	var out []Triangle
	for _, a := range g.NodeIDs() {
		nbrs := g.Neighbors(a)
		for i, b := range nbrs {
			if b <= a {
				continue
			}
			// nbrs is sorted, so every c after b satisfies a < b < c.
			for _, c := range nbrs[i+1:] {
				if g.HasEdge(b, c) {
					out = append(out, Triangle{A: a, B: b, C: c})
				}
			}
		}
	}
	return out
}

// HasTriangles reports whether the graph contains at least one 3-clique.
// Unlike [Triangles] it stops at the first hit.
func HasTriangles(g *Graph) bool {
	for _, a := range g.NodeIDs() {
		nbrs := g.Neighbors(a)
		for i, b := range nbrs {
			if b <= a {
				continue
			}
			for _, c := range nbrs[i+1:] {
				if g.HasEdge(b, c) {
					return true
				}
			}
		}
	}
	return false
}
