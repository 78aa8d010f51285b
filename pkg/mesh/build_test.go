package mesh

import (
	"math"
	"testing"

	"github.com/telcoplan/hubgrid/pkg/errors"
)

// matrixOf builds a symmetric matrix from canonical pair distances.
func matrixOf(ids []string, pairs map[[2]string]float64) *Matrix {
	m := NewMatrix(ids)
	for pair, d := range pairs {
		m.Set(pair[0], pair[1], d)
		m.Set(pair[1], pair[0], d)
	}
	return m
}

func TestBuildThresholdRule(t *testing.T) {
	m := matrixOf([]string{"a", "b", "c", "d"}, map[[2]string]float64{
		{"a", "b"}: 5,
		{"a", "c"}: 8,
		{"a", "d"}: 25,
		{"b", "c"}: 6,
		{"b", "d"}: 22,
		{"c", "d"}: 30,
	})

	g, err := Build(m, 20)
	if err != nil {
		t.Fatalf("Build() = %v", err)
	}

	if g.NodeCount() != 4 {
		t.Errorf("NodeCount() = %d, want 4", g.NodeCount())
	}
	if g.EdgeCount() != 3 {
		t.Errorf("EdgeCount() = %d, want 3", g.EdgeCount())
	}
	for _, e := range [][2]string{{"a", "b"}, {"a", "c"}, {"b", "c"}} {
		if !g.HasEdge(e[0], e[1]) {
			t.Errorf("expected edge %s-%s", e[0], e[1])
		}
	}
	for _, e := range [][2]string{{"a", "d"}, {"b", "d"}, {"c", "d"}} {
		if g.HasEdge(e[0], e[1]) {
			t.Errorf("unexpected edge %s-%s", e[0], e[1])
		}
	}
	if err := g.Validate(); err != nil {
		t.Errorf("built graph failed Validate(): %v", err)
	}
}

func TestBuildThresholdBoundaryInclusive(t *testing.T) {
	m := matrixOf([]string{"a", "b"}, map[[2]string]float64{{"a", "b"}: 20})

	g, err := Build(m, 20)
	if err != nil {
		t.Fatalf("Build() = %v", err)
	}
	if !g.HasEdge("a", "b") {
		t.Error("distance equal to threshold should produce an edge")
	}
}

func TestBuildKeepsZeroDistanceEdge(t *testing.T) {
	m := matrixOf([]string{"a", "b"}, map[[2]string]float64{{"a", "b"}: 0})

	g, err := Build(m, 20)
	if err != nil {
		t.Fatalf("Build() = %v", err)
	}
	w, ok := g.Weight("a", "b")
	if !ok || w != 0 {
		t.Errorf("Weight(a, b) = %g, %v, want 0, true", w, ok)
	}
}

func TestBuildRejectsMalformedMatrix(t *testing.T) {
	tests := []struct {
		name string
		m    *Matrix
	}{
		{"negative", matrixOf([]string{"a", "b"}, map[[2]string]float64{{"a", "b"}: -3})},
		{"nan", matrixOf([]string{"a", "b"}, map[[2]string]float64{{"a", "b"}: math.NaN()})},
		{"infinite", matrixOf([]string{"a", "b"}, map[[2]string]float64{{"a", "b"}: math.Inf(1)})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Build(tt.m, 20); !errors.Is(err, errors.ErrCodeInvalidMatrix) {
				t.Errorf("Build() error = %v, want ErrCodeInvalidMatrix", err)
			}
		})
	}
}

func TestBuildRejectsAsymmetricMatrix(t *testing.T) {
	m := NewMatrix([]string{"a", "b"})
	m.Set("a", "b", 5)
	m.Set("b", "a", 6)

	if _, err := Build(m, 20); !errors.Is(err, errors.ErrCodeInvalidMatrix) {
		t.Errorf("Build() error = %v, want ErrCodeInvalidMatrix", err)
	}
}

func TestBuildRejectsBadThreshold(t *testing.T) {
	m := matrixOf([]string{"a", "b"}, map[[2]string]float64{{"a", "b"}: 5})

	for _, threshold := range []float64{0, -20, math.NaN()} {
		if _, err := Build(m, threshold); !errors.Is(err, errors.ErrCodeInvalidThreshold) {
			t.Errorf("Build(threshold=%g) error = %v, want ErrCodeInvalidThreshold", threshold, err)
		}
	}
}

func TestBuildEmptyMatrix(t *testing.T) {
	g, err := Build(NewMatrix(nil), 20)
	if err != nil {
		t.Fatalf("Build() = %v", err)
	}
	if g.NodeCount() != 0 || g.EdgeCount() != 0 {
		t.Errorf("empty matrix should give empty graph, got %d nodes %d edges", g.NodeCount(), g.EdgeCount())
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	m := matrixOf([]string{"b", "a", "c"}, map[[2]string]float64{
		{"a", "b"}: 1,
		{"a", "c"}: 2,
		{"b", "c"}: 30,
	})

	g1, err := Build(m, 20)
	if err != nil {
		t.Fatalf("Build() = %v", err)
	}
	g2, _ := Build(m, 20)

	e1, e2 := g1.Edges(), g2.Edges()
	if len(e1) != len(e2) {
		t.Fatalf("edge counts differ: %d vs %d", len(e1), len(e2))
	}
	for i := range e1 {
		if e1[i] != e2[i] {
			t.Errorf("edge %d differs: %+v vs %+v", i, e1[i], e2[i])
		}
	}
}
