package alloc

import (
	"slices"

	"github.com/telcoplan/hubgrid/pkg/errors"
	"github.com/telcoplan/hubgrid/pkg/mesh"
)

// MaxReduceIterations caps the edge-stripping loop in [ReduceHubs]. Each
// iteration removes at least one edge per over-indexed node, so county-size
// graphs converge long before the cap; the cap only guards degenerate input.
const MaxReduceIterations = 32

// ReduceHubs iteratively strips edges until the allocation's hub count
// drops to targetMax or refinement can make no further progress. The input
// graph and allocation are not modified; the refined graph and the
// allocation re-derived from it are returned.
//
// Each iteration removes, for every node whose hub index exceeds targetMax,
// that node's heaviest remaining incident edge (both directions), then
// re-runs [Greedy] on the stripped graph. The loop stops when:
//
//   - the hub count reaches targetMax (err == nil),
//   - no over-indexed node has a removable edge left (fixed point),
//   - an iteration would increase the hub count (regression), or
//   - [MaxReduceIterations] is exceeded.
//
// The last three cases return the best allocation achieved together with a
// non-fatal ErrCodeNotConverged diagnostic; the caller decides whether a
// hub count above target is acceptable. Hub count never increases between
// the allocations this function moves through.
func ReduceHubs(a Allocation, g *mesh.Graph, targetMax int) (*mesh.Graph, Allocation, error) {
	if err := errors.ValidateTargetMax(targetMax); err != nil {
		return nil, nil, err
	}

	work := g.Clone()
	cur := a.Clone()

	for iter := 0; cur.HubCount() > targetMax; iter++ {
		if iter >= MaxReduceIterations {
			return work, cur, errors.New(errors.ErrCodeNotConverged,
				"hub count %d still above target %d after %d iterations", cur.HubCount(), targetMax, iter)
		}

		removed := stripOverIndexed(work, cur, targetMax)
		if removed == 0 {
			return work, cur, errors.New(errors.ErrCodeNotConverged,
				"no removable edges left with hub count %d above target %d", cur.HubCount(), targetMax)
		}

		next := Greedy(work)
		if next.HubCount() > cur.HubCount() {
			// Stripping regressed the greedy result; keep the best achieved.
			return work, cur, errors.New(errors.ErrCodeNotConverged,
				"refinement regressed from %d to %d hubs; keeping %d", cur.HubCount(), next.HubCount(), cur.HubCount())
		}
		cur = next
	}
	return work, cur, nil
}

// stripOverIndexed removes the heaviest remaining incident edge of every
// node whose hub index exceeds targetMax. Returns the number of edges
// removed. Nodes are visited in ascending ID order and weight ties break
// toward the smallest neighbor ID, keeping the pass deterministic.
func stripOverIndexed(g *mesh.Graph, a Allocation, targetMax int) int {
	var over []string
	for id, hub := range a {
		if hub > targetMax {
			over = append(over, id)
		}
	}
	slices.Sort(over)

	removed := 0
	for _, id := range over {
		bestN := ""
		bestW := -1.0
		for _, n := range g.Neighbors(id) {
			w, ok := g.Weight(id, n)
			if ok && w > bestW {
				bestN = n
				bestW = w
			}
		}
		if bestN == "" {
			continue // isolated already; nothing left to strip
		}
		g.RemoveEdge(id, bestN)
		removed++
	}
	return removed
}
