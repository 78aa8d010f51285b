// Package geo provides tower records and the great-circle distance
// primitives consumed by the allocation pipeline.
//
// Distances are computed with the haversine formula and expressed in
// kilometers, matching the default 20 km adjacency threshold used by
// pkg/plan.
package geo

import (
	"math"
	"slices"

	"github.com/telcoplan/hubgrid/pkg/errors"
	"github.com/telcoplan/hubgrid/pkg/mesh"
)

// earthRadiusKm is the mean Earth radius used by the haversine formula.
const earthRadiusKm = 6371.0

// Node is a single cell tower. Nodes are immutable once loaded: the
// pipeline never modifies them, it only derives allocations keyed by ID.
type Node struct {
	ID      string  `json:"id" bson:"id"`
	Lat     float64 `json:"lat" bson:"lat"`
	Lon     float64 `json:"lon" bson:"lon"`
	County  string  `json:"county" bson:"county"`
	State   string  `json:"state" bson:"state"`
	Carrier string  `json:"carrier" bson:"carrier"`
}

// Validate checks the node's identifier and coordinates.
func (n Node) Validate() error {
	if err := errors.ValidateNodeID(n.ID); err != nil {
		return err
	}
	return errors.ValidateCoordinates(n.Lat, n.Lon)
}

// Region identifies the administrative partition a node belongs to.
// Allocation is computed independently per region.
type Region struct {
	State   string `json:"state" bson:"state"`
	County  string `json:"county" bson:"county"`
	Carrier string `json:"carrier" bson:"carrier"`
}

// RegionOf returns the node's region key.
func RegionOf(n Node) Region {
	return Region{State: n.State, County: n.County, Carrier: n.Carrier}
}

// String renders the region as "state/county/carrier" for logs and errors.
func (r Region) String() string {
	return r.State + "/" + r.County + "/" + r.Carrier
}

// Haversine returns the great-circle distance between two nodes in
// kilometers. It is a pure function: no rounding, no caching.
func Haversine(a, b Node) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}

// DistanceMatrix computes the pairwise haversine distance matrix for a set
// of nodes. Node order in the matrix follows ascending ID regardless of
// input order, so the same node set always yields the same matrix. Node
// validation failures are fatal input errors.
func DistanceMatrix(nodes []Node) (*mesh.Matrix, error) {
	byID := make(map[string]Node, len(nodes))
	ids := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if err := n.Validate(); err != nil {
			return nil, err
		}
		if _, dup := byID[n.ID]; dup {
			return nil, errors.New(errors.ErrCodeInvalidNode, "duplicate node ID: %s", n.ID)
		}
		byID[n.ID] = n
		ids = append(ids, n.ID)
	}
	slices.Sort(ids)

	m := mesh.NewMatrix(ids)
	for i, u := range ids {
		for _, v := range ids[i+1:] {
			d := Haversine(byID[u], byID[v])
			m.Set(u, v, d)
			m.Set(v, u, d)
		}
	}
	return m, nil
}
