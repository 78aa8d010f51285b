package alloc

import (
	"github.com/telcoplan/hubgrid/pkg/mesh"
)

// RefineTriangles removes the heaviest edge of every triangle in the graph
// and returns the refined graph along with the number of edges removed. The
// input graph is not modified.
//
// The heaviest edge of a triangle is its weakest adjacency constraint: the
// two endpoints are the farthest apart of the three pairs, so letting them
// share a hub costs the least, while the two shorter edges keep their
// endpoints correctly separated. Feeding the refined graph back into
// [Greedy] typically lowers the hub count on dense regions.
//
// Triangles are processed in the deterministic order produced by
// [mesh.Triangles] on the input graph. Removing an edge can break a later
// triangle that shared it; such triangles are skipped, since they are no
// longer 3-cliques in the working graph. This ordering dependency is a
// heuristic property, not a correctness requirement.
func RefineTriangles(g *mesh.Graph) (*mesh.Graph, int) {
	work := g.Clone()
	removed := 0
	for _, tri := range mesh.Triangles(g) {
		u, v, ok := heaviestEdge(work, tri)
		if !ok {
			continue // an edge was already removed; no longer a triangle
		}
		work.RemoveEdge(u, v)
		removed++
	}
	return work, removed
}

// heaviestEdge returns the endpoints of the heaviest edge of the triangle
// as present in g. Returns ok == false if any of the three edges is absent.
// Weight ties break toward the canonically smallest pair, keeping the
// refinement deterministic.
func heaviestEdge(g *mesh.Graph, tri mesh.Triangle) (string, string, bool) {
	pairs := [3][2]string{
		{tri.A, tri.B},
		{tri.A, tri.C},
		{tri.B, tri.C},
	}

	bestU, bestV := "", ""
	bestW := -1.0
	for _, p := range pairs {
		w, ok := g.Weight(p[0], p[1])
		if !ok {
			return "", "", false
		}
		if w > bestW {
			bestU, bestV = p[0], p[1]
			bestW = w
		}
	}
	return bestU, bestV, true
}
