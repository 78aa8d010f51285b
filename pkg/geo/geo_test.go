package geo

import (
	"math"
	"testing"

	"github.com/telcoplan/hubgrid/pkg/errors"
)

func TestHaversineKnownDistances(t *testing.T) {
	tests := []struct {
		name   string
		a, b   Node
		wantKm float64
		tolKm  float64
	}{
		{
			name:   "austin to dallas",
			a:      Node{ID: "aus", Lat: 30.2672, Lon: -97.7431},
			b:      Node{ID: "dal", Lat: 32.7767, Lon: -96.7970},
			wantKm: 293,
			tolKm:  5,
		},
		{
			name:   "london to paris",
			a:      Node{ID: "lon", Lat: 51.5074, Lon: -0.1278},
			b:      Node{ID: "par", Lat: 48.8566, Lon: 2.3522},
			wantKm: 344,
			tolKm:  5,
		},
		{
			name:   "same point",
			a:      Node{ID: "x", Lat: 40.0, Lon: -105.0},
			b:      Node{ID: "y", Lat: 40.0, Lon: -105.0},
			wantKm: 0,
			tolKm:  1e-9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Haversine(tt.a, tt.b)
			if math.Abs(got-tt.wantKm) > tt.tolKm {
				t.Errorf("Haversine() = %.2f km, want %.0f +/- %.0f", got, tt.wantKm, tt.tolKm)
			}
		})
	}
}

func TestHaversineSymmetric(t *testing.T) {
	a := Node{ID: "a", Lat: 30.1, Lon: -97.2}
	b := Node{ID: "b", Lat: 30.9, Lon: -97.8}

	if Haversine(a, b) != Haversine(b, a) {
		t.Error("Haversine is not symmetric")
	}
}

func TestDistanceMatrix(t *testing.T) {
	nodes := []Node{
		{ID: "b", Lat: 30.0, Lon: -97.0, County: "travis", State: "tx", Carrier: "acme"},
		{ID: "a", Lat: 30.1, Lon: -97.1, County: "travis", State: "tx", Carrier: "acme"},
	}

	m, err := DistanceMatrix(nodes)
	if err != nil {
		t.Fatalf("DistanceMatrix() = %v", err)
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("matrix failed Validate(): %v", err)
	}

	// IDs come out sorted regardless of input order.
	ids := m.IDs()
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Errorf("IDs() = %v, want [a b]", ids)
	}

	d, ok := m.Get("a", "b")
	if !ok || d <= 0 {
		t.Errorf("Get(a, b) = %g, %v, want a positive distance", d, ok)
	}
}

func TestDistanceMatrixRejectsBadNodes(t *testing.T) {
	tests := []struct {
		name  string
		nodes []Node
	}{
		{"empty ID", []Node{{ID: "", Lat: 0, Lon: 0}}},
		{"bad latitude", []Node{{ID: "a", Lat: 91, Lon: 0}}},
		{"duplicate IDs", []Node{{ID: "a", Lat: 1, Lon: 1}, {ID: "a", Lat: 2, Lon: 2}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DistanceMatrix(tt.nodes); !errors.Is(err, errors.ErrCodeInvalidNode) {
				t.Errorf("DistanceMatrix() error = %v, want ErrCodeInvalidNode", err)
			}
		})
	}
}

func TestRegionOf(t *testing.T) {
	n := Node{ID: "a", Lat: 1, Lon: 1, County: "travis", State: "tx", Carrier: "acme"}
	r := RegionOf(n)

	if r != (Region{State: "tx", County: "travis", Carrier: "acme"}) {
		t.Errorf("RegionOf() = %+v", r)
	}
	if r.String() != "tx/travis/acme" {
		t.Errorf("String() = %q", r.String())
	}
}
