package alloc

import (
	"testing"
)

func TestRefineTrianglesRemovesHeaviestEdge(t *testing.T) {
	g := graphOf(t, []string{"a", "b", "c"}, map[[2]string]float64{
		{"a", "b"}: 5, {"a", "c"}: 8, {"b", "c"}: 6,
	})

	refined, removed := RefineTriangles(g)

	if removed != 1 {
		t.Errorf("removed %d edges, want 1", removed)
	}
	if refined.HasEdge("a", "c") {
		t.Error("heaviest edge a-c should be removed")
	}
	if !refined.HasEdge("a", "b") || !refined.HasEdge("b", "c") {
		t.Error("lighter triangle edges must survive")
	}
	// Input graph untouched.
	if !g.HasEdge("a", "c") {
		t.Error("input graph was mutated")
	}
}

func TestRefineTrianglesIdempotentWithoutTriangles(t *testing.T) {
	g := graphOf(t, []string{"a", "b", "c", "d"}, map[[2]string]float64{
		{"a", "b"}: 1, {"b", "c"}: 2, {"c", "d"}: 3,
	})

	refined, removed := RefineTriangles(g)

	if removed != 0 {
		t.Errorf("removed %d edges from a triangle-free graph, want 0", removed)
	}
	got, want := refined.Edges(), g.Edges()
	if len(got) != len(want) {
		t.Fatalf("edge count changed: %d vs %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("edge %d changed: %+v vs %+v", i, got[i], want[i])
		}
	}
}

func TestRefineTrianglesSharedEdge(t *testing.T) {
	// Triangles a-b-c and b-c-d share edge b-c. Removing b-c while
	// processing the first (it is the heaviest there) breaks the second,
	// which must then be skipped rather than losing another edge.
	g := graphOf(t, []string{"a", "b", "c", "d"}, map[[2]string]float64{
		{"a", "b"}: 1, {"a", "c"}: 2, {"b", "c"}: 9,
		{"b", "d"}: 3, {"c", "d"}: 4,
	})

	refined, removed := RefineTriangles(g)

	if removed != 1 {
		t.Errorf("removed %d edges, want 1", removed)
	}
	if refined.HasEdge("b", "c") {
		t.Error("edge b-c should be removed")
	}
	if !refined.HasEdge("b", "d") || !refined.HasEdge("c", "d") {
		t.Error("edges of the broken second triangle must survive")
	}
}

func TestRefineTrianglesPreservesSymmetry(t *testing.T) {
	g := graphOf(t, []string{"a", "b", "c", "d"}, map[[2]string]float64{
		{"a", "b"}: 1, {"a", "c"}: 2, {"b", "c"}: 3, {"c", "d"}: 4,
	})

	refined, _ := RefineTriangles(g)
	if err := refined.Validate(); err != nil {
		t.Errorf("refined graph failed Validate(): %v", err)
	}
}

func TestRefineTrianglesThenGreedyLowersHubCount(t *testing.T) {
	// A triangle forces 3 hubs; removing its heaviest edge allows 2.
	g := graphOf(t, []string{"a", "b", "c"}, map[[2]string]float64{
		{"a", "b"}: 5, {"a", "c"}: 8, {"b", "c"}: 6,
	})

	before := Greedy(g)
	refined, _ := RefineTriangles(g)
	after := Greedy(refined)

	if before.HubCount() != 3 {
		t.Errorf("triangle should need 3 hubs, got %d", before.HubCount())
	}
	if after.HubCount() != 2 {
		t.Errorf("refined triangle should need 2 hubs, got %d", after.HubCount())
	}
	if !after.Valid(refined) {
		t.Error("refined allocation is not a valid coloring")
	}
}

func TestRefineTrianglesZeroWeightEdges(t *testing.T) {
	// Co-located towers form a genuine zero-weight edge; the triangle is
	// still real and its heaviest edge goes.
	g := graphOf(t, []string{"a", "b", "c"}, map[[2]string]float64{
		{"a", "b"}: 0, {"a", "c"}: 4, {"b", "c"}: 2,
	})

	refined, removed := RefineTriangles(g)

	if removed != 1 {
		t.Errorf("removed %d edges, want 1", removed)
	}
	if refined.HasEdge("a", "c") {
		t.Error("heaviest edge a-c should be removed")
	}
	if !refined.HasEdge("a", "b") {
		t.Error("zero-weight edge must survive")
	}
}
