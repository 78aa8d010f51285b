package alloc_test

import (
	"fmt"

	"github.com/telcoplan/hubgrid/pkg/alloc"
	"github.com/telcoplan/hubgrid/pkg/mesh"
)

// Four towers where A, B and C form a triangle and D is isolated. The
// triangle refinement drops the heaviest edge A-C, after which two hubs
// suffice: {B, D} and {A, C}.
func Example() {
	m := mesh.NewMatrix([]string{"A", "B", "C", "D"})
	set := func(u, v string, d float64) {
		m.Set(u, v, d)
		m.Set(v, u, d)
	}
	set("A", "B", 5)
	set("A", "C", 8)
	set("A", "D", 25)
	set("B", "C", 6)
	set("B", "D", 22)
	set("C", "D", 30)

	g, err := mesh.Build(m, 20)
	if err != nil {
		panic(err)
	}

	refined, removed := alloc.RefineTriangles(g)
	a := alloc.Greedy(refined)

	fmt.Println("edges removed:", removed)
	fmt.Println("hubs:", a.HubCount())
	for _, id := range []string{"A", "B", "C", "D"} {
		fmt.Printf("%s -> hub %d\n", id, a[id])
	}
	// Output:
	// edges removed: 1
	// hubs: 2
	// A -> hub 2
	// B -> hub 1
	// C -> hub 2
	// D -> hub 1
}

func ExampleGreedy() {
	g := mesh.New()
	for _, id := range []string{"x", "y", "z"} {
		_ = g.AddNode(id)
	}
	_ = g.AddEdge("x", "y", 3)

	a := alloc.Greedy(g)
	fmt.Println("valid:", a.Valid(g))
	fmt.Println("hubs:", a.HubCount())
	// Output:
	// valid: true
	// hubs: 2
}
