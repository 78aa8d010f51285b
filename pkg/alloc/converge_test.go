package alloc

import (
	"testing"

	"github.com/telcoplan/hubgrid/pkg/errors"
)

func TestReduceHubsReachesTarget(t *testing.T) {
	// K4 forces 4 hubs under greedy; stripping edges must land at 2.
	g := graphOf(t, []string{"a", "b", "c", "d"}, map[[2]string]float64{
		{"a", "b"}: 1, {"a", "c"}: 2, {"a", "d"}: 3,
		{"b", "c"}: 4, {"b", "d"}: 5, {"c", "d"}: 6,
	})
	a := Greedy(g)
	if a.HubCount() != 4 {
		t.Fatalf("K4 greedy HubCount() = %d, want 4", a.HubCount())
	}

	refined, reduced, err := ReduceHubs(a, g, 2)
	if err != nil {
		t.Fatalf("ReduceHubs() = %v", err)
	}
	if reduced.HubCount() > 2 {
		t.Errorf("HubCount() = %d, want <= 2", reduced.HubCount())
	}
	if !reduced.Valid(refined) {
		t.Error("reduced allocation is not a valid coloring of the refined graph")
	}
	// Input untouched.
	if g.EdgeCount() != 6 {
		t.Errorf("input graph mutated: EdgeCount() = %d, want 6", g.EdgeCount())
	}
	if a.HubCount() != 4 {
		t.Errorf("input allocation mutated: HubCount() = %d, want 4", a.HubCount())
	}
}

func TestReduceHubsAlreadyAtTarget(t *testing.T) {
	g := graphOf(t, []string{"a", "b"}, map[[2]string]float64{{"a", "b"}: 1})
	a := Greedy(g)

	refined, reduced, err := ReduceHubs(a, g, 2)
	if err != nil {
		t.Fatalf("ReduceHubs() = %v", err)
	}
	if reduced.HubCount() != a.HubCount() {
		t.Errorf("HubCount() changed from %d to %d", a.HubCount(), reduced.HubCount())
	}
	if refined.EdgeCount() != g.EdgeCount() {
		t.Errorf("edges were stripped although the target was already met")
	}
}

func TestReduceHubsMonotonicAndTerminates(t *testing.T) {
	// K5: large over-fragmented allocation, strict target.
	ids := []string{"a", "b", "c", "d", "e"}
	edges := make(map[[2]string]float64)
	w := 1.0
	for i, u := range ids {
		for _, v := range ids[i+1:] {
			edges[[2]string{u, v}] = w
			w++
		}
	}
	g := graphOf(t, ids, edges)
	a := Greedy(g)

	refined, reduced, err := ReduceHubs(a, g, 2)
	if err != nil {
		t.Fatalf("ReduceHubs() = %v", err)
	}
	if reduced.HubCount() > a.HubCount() {
		t.Errorf("hub count increased: %d -> %d", a.HubCount(), reduced.HubCount())
	}
	if reduced.HubCount() > 2 {
		t.Errorf("HubCount() = %d, want <= 2", reduced.HubCount())
	}
	if err := refined.Validate(); err != nil {
		t.Errorf("refined graph failed Validate(): %v", err)
	}
}

func TestReduceHubsUnreachableTargetDiagnostic(t *testing.T) {
	// Target 1 with any edge present is unreachable: stripping leaves the
	// graph edgeless eventually, at which point greedy gives 1 hub - but a
	// fully disconnected pair already allocates into a single hub, so use a
	// triangle and demand the impossible before edges run out.
	g := graphOf(t, []string{"a", "b", "c"}, map[[2]string]float64{
		{"a", "b"}: 1, {"a", "c"}: 2, {"b", "c"}: 3,
	})
	a := Greedy(g)

	_, reduced, err := ReduceHubs(a, g, 1)
	if err == nil {
		// Permitted: stripping every edge leaves an edgeless graph whose
		// greedy allocation is one hub. Either way, the result must be
		// best-effort valid.
		if reduced.HubCount() != 1 {
			t.Errorf("nil error but HubCount() = %d, want 1", reduced.HubCount())
		}
		return
	}
	if !errors.Is(err, errors.ErrCodeNotConverged) {
		t.Errorf("error = %v, want ErrCodeNotConverged", err)
	}
	if reduced == nil {
		t.Error("diagnostic error must still surface a best-effort allocation")
	}
}

func TestReduceHubsInvalidTarget(t *testing.T) {
	g := graphOf(t, []string{"a"}, nil)

	_, _, err := ReduceHubs(Allocation{"a": 1}, g, 0)
	if !errors.Is(err, errors.ErrCodeInvalidTarget) {
		t.Errorf("error = %v, want ErrCodeInvalidTarget", err)
	}
}

func TestReduceHubsPreservesSymmetry(t *testing.T) {
	g := graphOf(t, []string{"a", "b", "c", "d"}, map[[2]string]float64{
		{"a", "b"}: 1, {"a", "c"}: 2, {"a", "d"}: 3,
		{"b", "c"}: 4, {"b", "d"}: 5, {"c", "d"}: 6,
	})

	refined, _, _ := ReduceHubs(Greedy(g), g, 2)
	if err := refined.Validate(); err != nil {
		t.Errorf("refined graph failed Validate(): %v", err)
	}
}
