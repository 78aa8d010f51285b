package mesh

import (
	"github.com/telcoplan/hubgrid/pkg/errors"
)

// Build constructs a proximity graph from a distance matrix.
//
// Every unordered node pair whose distance is at or below threshold becomes
// an edge weighted by that distance; pairs farther apart get no edge. A
// zero distance (co-located towers) produces a real zero-weight edge,
// distinct from the absence of an edge.
//
// Build is a pure function of its inputs: the matrix is consumed read-only
// and the same inputs always produce the same graph. The matrix is
// validated first; a malformed matrix (negative, NaN, or asymmetric
// distances) is a fatal input error.
func Build(m *Matrix, threshold float64) (*Graph, error) {
	if err := errors.ValidateThreshold(threshold); err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}

	g := New()
	ids := m.IDs()
	for _, id := range ids {
		if err := g.AddNode(id); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidMatrix, err, "add node %s", id)
		}
	}

	for i, u := range ids {
		for _, v := range ids[i+1:] {
			d, ok := m.Get(u, v)
			if !ok {
				continue
			}
			if d <= threshold {
				if err := g.AddEdge(u, v, d); err != nil {
					return nil, errors.Wrap(errors.ErrCodeInternal, err, "add edge %s-%s", u, v)
				}
			}
		}
	}
	return g, nil
}
