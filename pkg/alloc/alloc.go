// Package alloc implements hub allocation over proximity graphs.
//
// A hub is a group of mutually non-adjacent towers: no two towers that are
// within the adjacency threshold of each other may share a hub. Allocation
// is a graph-coloring problem; the exact minimum is NP-hard, so this
// package uses a degree-greedy maximal-independent-set cover ([Greedy])
// plus two structural refinement passes that strip edges to reduce the hub
// count ([RefineTriangles] and [ReduceHubs]).
//
// All functions treat their input graph as read-only and return new
// structures, so callers can compare allocations across refinement stages.
package alloc

import (
	"slices"

	"github.com/telcoplan/hubgrid/pkg/mesh"
)

// Allocation maps each node ID to its hub index. Hub indices are dense
// positive integers starting at 1.
type Allocation map[string]int

// HubCount returns the number of distinct hubs in the allocation.
func (a Allocation) HubCount() int {
	seen := make(map[int]struct{}, len(a))
	for _, hub := range a {
		seen[hub] = struct{}{}
	}
	return len(seen)
}

// Hubs groups node IDs by hub index. Members of each hub are sorted
// ascending for deterministic output.
func (a Allocation) Hubs() map[int][]string {
	out := make(map[int][]string)
	for id, hub := range a {
		out[hub] = append(out[hub], id)
	}
	for hub := range out {
		slices.Sort(out[hub])
	}
	return out
}

// Clone returns an independent copy of the allocation.
func (a Allocation) Clone() Allocation {
	c := make(Allocation, len(a))
	for id, hub := range a {
		c[id] = hub
	}
	return c
}

// Valid reports whether the allocation is a proper coloring of g: no two
// adjacent nodes share a hub and every node of g is allocated.
func (a Allocation) Valid(g *mesh.Graph) bool {
	for _, id := range g.NodeIDs() {
		if _, ok := a[id]; !ok {
			return false
		}
	}
	for _, e := range g.Edges() {
		if a[e.U] == a[e.V] {
			return false
		}
	}
	return true
}

// Greedy partitions the graph's nodes into hubs via degree-greedy maximal-
// independent-set extraction:
//
//  1. Among unallocated nodes, pick the one with the highest degree counted
//     over edges to other unallocated nodes. Ties break by ascending node
//     ID, so the result is reproducible.
//  2. Open a new hub with that node, then absorb every unallocated node
//     (ascending ID) that is not adjacent to any member absorbed so far.
//     Each absorption forbids the new member's neighbors, so hub membership
//     only grows toward mutual non-adjacency.
//  3. Repeat until every node has a hub.
//
// Every iteration allocates at least one node, so the loop terminates with
// at most one hub per node. The result is always a valid coloring of g by
// construction, though not necessarily a minimal one.
func Greedy(g *mesh.Graph) Allocation {
	a := make(Allocation, g.NodeCount())
	remaining := make(map[string]struct{}, g.NodeCount())
	for _, id := range g.NodeIDs() {
		remaining[id] = struct{}{}
	}

	hub := 0
	for len(remaining) > 0 {
		hub++
		seed := pickSeed(g, remaining)
		a[seed] = hub
		delete(remaining, seed)

		// Forbidden set: union of neighbors of all hub members so far.
		forbidden := make(map[string]struct{})
		for _, n := range g.Neighbors(seed) {
			forbidden[n] = struct{}{}
		}

		// One ascending pass suffices: the forbidden set only grows, so a
		// node rejected now would be rejected on any later pass too.
		for _, id := range sortedKeys(remaining) {
			if _, banned := forbidden[id]; banned {
				continue
			}
			a[id] = hub
			delete(remaining, id)
			for _, n := range g.Neighbors(id) {
				forbidden[n] = struct{}{}
			}
		}
	}
	return a
}

// pickSeed returns the unallocated node with the highest degree counted
// among unallocated neighbors, breaking ties by ascending node ID.
func pickSeed(g *mesh.Graph, remaining map[string]struct{}) string {
	best := ""
	bestDegree := -1
	for _, id := range sortedKeys(remaining) {
		degree := 0
		for _, n := range g.Neighbors(id) {
			if _, ok := remaining[n]; ok {
				degree++
			}
		}
		if degree > bestDegree {
			best = id
			bestDegree = degree
		}
	}
	return best
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
