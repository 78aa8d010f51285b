// Package mesh provides the weighted proximity graph used for hub allocation.
//
// A mesh.Graph is an undirected graph over tower identifiers where an edge
// means two towers are within the configured adjacency threshold of each
// other. Edge weights carry the distance between the endpoints; a weight of
// zero is a real edge (co-located towers), distinct from the absence of an
// edge.
//
// Graphs are built from a distance Matrix with [Build] and consumed by the
// allocation algorithms in pkg/alloc. All transformations in this codebase
// return new graphs rather than mutating inputs; use [Graph.Clone] when a
// working copy is needed.
//
// # Invariants
//
//   - No self-loops
//   - Symmetry: Weight(u, v) == Weight(v, u) for every edge
//   - Non-negative weights
//
// Graph is not safe for concurrent use without external synchronization.
package mesh

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is
	// empty. All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with
	// the same ID already exists in the graph. Node IDs must be unique.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownNode is returned by [Graph.AddEdge] when either endpoint
	// does not exist in the graph.
	ErrUnknownNode = errors.New("unknown node")

	// ErrSelfLoop is returned by [Graph.AddEdge] when both endpoints are
	// the same node. Proximity graphs never contain self-loops.
	ErrSelfLoop = errors.New("self-loops are not allowed")

	// ErrNegativeWeight is returned by [Graph.AddEdge] for a negative
	// weight. Distances are non-negative by definition.
	ErrNegativeWeight = errors.New("edge weight must be non-negative")

	// ErrAsymmetric is returned by [Graph.Validate] when the internal
	// adjacency structure lost symmetry. This indicates graph corruption.
	ErrAsymmetric = errors.New("adjacency structure is asymmetric")
)

// Edge is an undirected weighted edge in canonical order (U < V).
type Edge struct {
	U      string
	V      string
	Weight float64
}

// Graph is an undirected weighted proximity graph keyed by node ID.
//
// The zero value is not usable - use [New] to create a valid instance.
type Graph struct {
	nodes map[string]struct{}
	adj   map[string]map[string]float64
}

// New creates an empty proximity graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]struct{}),
		adj:   make(map[string]map[string]float64),
	}
}

// AddNode adds an isolated node to the graph.
// Returns ErrInvalidNodeID for an empty ID or ErrDuplicateNodeID if the
// node already exists.
func (g *Graph) AddNode(id string) error {
	if id == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.nodes[id]; exists {
		return ErrDuplicateNodeID
	}
	g.nodes[id] = struct{}{}
	return nil
}

// HasNode reports whether the node exists in the graph.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// AddEdge adds an undirected edge between two existing nodes, recording the
// weight in both directions. Adding an edge that already exists overwrites
// its weight.
//
// Returns ErrUnknownNode if either endpoint is missing, ErrSelfLoop if
// u == v, or ErrNegativeWeight for a negative weight. A zero weight is a
// valid edge (co-located towers).
func (g *Graph) AddEdge(u, v string, weight float64) error {
	if u == v {
		return ErrSelfLoop
	}
	if !g.HasNode(u) || !g.HasNode(v) {
		return ErrUnknownNode
	}
	if weight < 0 {
		return ErrNegativeWeight
	}
	if g.adj[u] == nil {
		g.adj[u] = make(map[string]float64)
	}
	if g.adj[v] == nil {
		g.adj[v] = make(map[string]float64)
	}
	g.adj[u][v] = weight
	g.adj[v][u] = weight
	return nil
}

// RemoveEdge removes the edge between u and v in both directions.
// Removing an edge that does not exist is a no-op.
func (g *Graph) RemoveEdge(u, v string) {
	delete(g.adj[u], v)
	delete(g.adj[v], u)
}

// Weight returns the weight of the edge between u and v, and whether the
// edge exists. The boolean distinguishes a genuine zero-distance edge from
// the absence of an edge.
func (g *Graph) Weight(u, v string) (float64, bool) {
	w, ok := g.adj[u][v]
	return w, ok
}

// HasEdge reports whether an edge exists between u and v.
func (g *Graph) HasEdge(u, v string) bool {
	_, ok := g.adj[u][v]
	return ok
}

// Neighbors returns the IDs adjacent to the node in ascending order.
// Returns nil for an isolated or unknown node.
func (g *Graph) Neighbors(id string) []string {
	if len(g.adj[id]) == 0 {
		return nil
	}
	out := make([]string, 0, len(g.adj[id]))
	for n := range g.adj[id] {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}

// Degree returns the number of edges incident to the node.
// Returns 0 for an isolated or unknown node.
func (g *Graph) Degree(id string) int { return len(g.adj[id]) }

// NodeIDs returns all node IDs in ascending order.
func (g *Graph) NodeIDs() []string {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of undirected edges in the graph.
func (g *Graph) EdgeCount() int {
	total := 0
	for _, nbrs := range g.adj {
		total += len(nbrs)
	}
	return total / 2
}

// Edges returns all edges in canonical order (U < V), sorted by U then V.
// Modifications to the returned slice do not affect the graph.
func (g *Graph) Edges() []Edge {
	var edges []Edge
	for u, nbrs := range g.adj {
		for v, w := range nbrs {
			if u < v {
				edges = append(edges, Edge{U: u, V: v, Weight: w})
			}
		}
	}
	slices.SortFunc(edges, func(a, b Edge) int {
		if a.U != b.U {
			if a.U < b.U {
				return -1
			}
			return 1
		}
		if a.V < b.V {
			return -1
		}
		if a.V > b.V {
			return 1
		}
		return 0
	})
	return edges
}

// Clone returns a deep copy of the graph. The copy shares no state with
// the original, so refinement passes can strip edges freely.
func (g *Graph) Clone() *Graph {
	c := New()
	for id := range g.nodes {
		c.nodes[id] = struct{}{}
	}
	for u, nbrs := range g.adj {
		m := make(map[string]float64, len(nbrs))
		for v, w := range nbrs {
			m[v] = w
		}
		c.adj[u] = m
	}
	return c
}

// Validate checks graph integrity and returns nil if valid.
// It verifies that every edge endpoint exists, that no self-loops are
// present, and that the adjacency structure is symmetric with matching
// weights in both directions.
func (g *Graph) Validate() error {
	for u, nbrs := range g.adj {
		if !g.HasNode(u) {
			return ErrUnknownNode
		}
		for v, w := range nbrs {
			if u == v {
				return ErrSelfLoop
			}
			if !g.HasNode(v) {
				return ErrUnknownNode
			}
			back, ok := g.adj[v][u]
			if !ok || back != w {
				return ErrAsymmetric
			}
		}
	}
	return nil
}
