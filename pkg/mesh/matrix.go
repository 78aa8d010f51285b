package mesh

import (
	"math"
	"slices"

	"github.com/telcoplan/hubgrid/pkg/errors"
)

// Matrix is a pairwise distance matrix over node IDs.
//
// Entries are stored directionally so that [Matrix.Validate] can detect
// asymmetric input from external producers. Builders that compute distances
// themselves (pkg/geo) set both directions and always validate cleanly.
type Matrix struct {
	ids  []string
	dist map[string]map[string]float64
}

// NewMatrix creates an empty distance matrix for the given node IDs.
// The ID order is preserved for deterministic iteration but does not affect
// lookups.
func NewMatrix(ids []string) *Matrix {
	m := &Matrix{
		ids:  slices.Clone(ids),
		dist: make(map[string]map[string]float64, len(ids)),
	}
	for _, id := range ids {
		m.dist[id] = make(map[string]float64, len(ids))
	}
	return m
}

// IDs returns the node IDs covered by the matrix, in insertion order.
func (m *Matrix) IDs() []string { return slices.Clone(m.ids) }

// Len returns the number of node IDs covered by the matrix.
func (m *Matrix) Len() int { return len(m.ids) }

// Set records the distance from u to v in one direction only.
// Producers are expected to call it for both directions; Validate flags
// matrices where they did not.
func (m *Matrix) Set(u, v string, d float64) {
	if m.dist[u] == nil {
		m.dist[u] = make(map[string]float64)
		m.ids = append(m.ids, u)
	}
	m.dist[u][v] = d
}

// Get returns the recorded distance from u to v and whether it exists.
// The diagonal is implicitly zero and always present.
func (m *Matrix) Get(u, v string) (float64, bool) {
	if u == v {
		if _, ok := m.dist[u]; ok {
			return 0, true
		}
		return 0, false
	}
	d, ok := m.dist[u][v]
	return d, ok
}

// Validate checks that the matrix is a well-formed distance matrix:
// every off-diagonal pair is present in both directions with equal,
// non-negative, finite values, and the diagonal (when recorded) is zero.
//
// A malformed matrix is a fatal input error reported with
// ErrCodeInvalidMatrix; Build rejects it rather than repairing it.
func (m *Matrix) Validate() error {
	for _, u := range m.ids {
		for _, v := range m.ids {
			if u == v {
				if d, ok := m.dist[u][u]; ok && d != 0 {
					return errors.New(errors.ErrCodeInvalidMatrix, "nonzero diagonal at %s: %g", u, d)
				}
				continue
			}
			d, ok := m.dist[u][v]
			if !ok {
				return errors.New(errors.ErrCodeInvalidMatrix, "missing distance %s -> %s", u, v)
			}
			if math.IsNaN(d) || math.IsInf(d, 0) {
				return errors.New(errors.ErrCodeInvalidMatrix, "non-finite distance %s -> %s", u, v)
			}
			if d < 0 {
				return errors.New(errors.ErrCodeInvalidMatrix, "negative distance %s -> %s: %g", u, v, d)
			}
			back, ok := m.dist[v][u]
			if !ok || back != d {
				return errors.New(errors.ErrCodeInvalidMatrix, "asymmetric distance %s <-> %s: %g vs %g", u, v, d, back)
			}
		}
	}
	return nil
}
