package mesh_test

import (
	"fmt"

	"github.com/telcoplan/hubgrid/pkg/mesh"
)

func ExampleBuild() {
	// Three towers: a and b are close, c is far from both.
	m := mesh.NewMatrix([]string{"a", "b", "c"})
	set := func(u, v string, d float64) {
		m.Set(u, v, d)
		m.Set(v, u, d)
	}
	set("a", "b", 12.5)
	set("a", "c", 48.0)
	set("b", "c", 51.0)

	g, err := mesh.Build(m, 20)
	if err != nil {
		panic(err)
	}

	fmt.Println("Nodes:", g.NodeCount())
	fmt.Println("Edges:", g.EdgeCount())
	fmt.Println("a-b adjacent:", g.HasEdge("a", "b"))
	fmt.Println("a-c adjacent:", g.HasEdge("a", "c"))
	// Output:
	// Nodes: 3
	// Edges: 1
	// a-b adjacent: true
	// a-c adjacent: false
}

func ExampleTriangles() {
	g := mesh.New()
	for _, id := range []string{"a", "b", "c"} {
		_ = g.AddNode(id)
	}
	_ = g.AddEdge("a", "b", 5)
	_ = g.AddEdge("a", "c", 8)
	_ = g.AddEdge("b", "c", 6)

	for _, tri := range mesh.Triangles(g) {
		fmt.Println(tri.A, tri.B, tri.C)
	}
	// Output:
	// a b c
}
