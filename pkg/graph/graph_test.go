package graph

import (
	"errors"
	"reflect"
	"testing"
)

func TestNewComplete(t *testing.T) {
	tests := []struct {
		name      string
		n         int
		wantEdges int
	}{
		{name: "K1", n: 1, wantEdges: 0},
		{name: "K3", n: 3, wantEdges: 3},
		{name: "K4", n: 4, wantEdges: 6},
		{name: "K7", n: 7, wantEdges: 21},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := New(tt.n)
			if err != nil {
				t.Fatalf("New(%d): %v", tt.n, err)
			}
			if got := g.EdgeCount(); got != tt.wantEdges {
				t.Errorf("EdgeCount() = %d, want %d", got, tt.wantEdges)
			}
			for a := 1; a <= tt.n; a++ {
				for b := 1; b <= tt.n; b++ {
					want := a != b
					if got := g.HasEdge(Node(a), Node(b)); got != want {
						t.Errorf("HasEdge(%d,%d) = %v, want %v", a, b, got, want)
					}
				}
			}
			for a := 1; a <= tt.n; a++ {
				if got := g.Degree(Node(a)); got != tt.n-1 {
					t.Errorf("Degree(%d) = %d, want %d", a, got, tt.n-1)
				}
			}
		})
	}
}

func TestNewInvalidOrder(t *testing.T) {
	if _, err := New(0); !errors.Is(err, ErrInvalidOrder) {
		t.Errorf("New(0) err = %v, want ErrInvalidOrder", err)
	}
	if _, err := NewEmpty(-3); !errors.Is(err, ErrInvalidOrder) {
		t.Errorf("NewEmpty(-3) err = %v, want ErrInvalidOrder", err)
	}
}

func TestRemoveEdge(t *testing.T) {
	g, err := New(3)
	if err != nil {
		t.Fatal(err)
	}
	if err := g.RemoveEdge(1, 2); err != nil {
		t.Fatalf("RemoveEdge(1,2): %v", err)
	}
	if g.EdgeCount() != 2 {
		t.Errorf("EdgeCount() = %d, want 2", g.EdgeCount())
	}
	if g.HasEdge(1, 2) || g.HasEdge(2, 1) {
		t.Error("edge {1,2} still present after removal")
	}
	if !g.HasEdge(1, 3) || !g.HasEdge(2, 3) {
		t.Error("unrelated edges were removed")
	}

	if err := g.RemoveEdge(1, 2); !errors.Is(err, ErrEdgeNotFound) {
		t.Errorf("double removal err = %v, want ErrEdgeNotFound", err)
	}
}

func TestRemoveEdgesAllOrNothing(t *testing.T) {
	g, err := New(4)
	if err != nil {
		t.Fatal(err)
	}
	batch := []Edge{NewEdge(1, 2), NewEdge(3, 4)}
	if err := g.RemoveEdges(batch); err != nil {
		t.Fatalf("RemoveEdges: %v", err)
	}
	if g.EdgeCount() != 4 {
		t.Errorf("EdgeCount() = %d, want 4", g.EdgeCount())
	}

	// One present, one absent: nothing may change.
	bad := []Edge{NewEdge(1, 3), NewEdge(1, 2)}
	if err := g.RemoveEdges(bad); !errors.Is(err, ErrEdgeNotFound) {
		t.Fatalf("RemoveEdges err = %v, want ErrEdgeNotFound", err)
	}
	if !g.HasEdge(1, 3) {
		t.Error("partial removal happened on failed batch")
	}
	if g.EdgeCount() != 4 {
		t.Errorf("EdgeCount() after failed batch = %d, want 4", g.EdgeCount())
	}
}

func TestCandidates(t *testing.T) {
	g, err := New(4)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		required []Node
		want     []Node
	}{
		{name: "None", required: nil, want: []Node{1, 2, 3, 4}},
		{name: "Single", required: []Node{1}, want: []Node{2, 3, 4}},
		{name: "Pair", required: []Node{1, 2}, want: []Node{3, 4}},
		{name: "Triple", required: []Node{1, 2, 3}, want: []Node{4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := g.Candidates(tt.required)
			if len(got) != len(tt.want) {
				t.Fatalf("Candidates(%v) = %v, want %v", tt.required, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("Candidates(%v) = %v, want %v", tt.required, got, tt.want)
				}
			}
		})
	}
}

func TestFirstEdge(t *testing.T) {
	g, err := NewEmpty(5)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := g.FirstEdge(); ok {
		t.Error("FirstEdge() on empty graph reported an edge")
	}
	if err := g.AddEdge(4, 5); err != nil {
		t.Fatal(err)
	}
	if err := g.AddEdge(2, 3); err != nil {
		t.Fatal(err)
	}
	e, ok := g.FirstEdge()
	if !ok || e != NewEdge(2, 3) {
		t.Errorf("FirstEdge() = %v, %v; want 2-3, true", e, ok)
	}
}

func TestComponents(t *testing.T) {
	g, err := NewEmpty(7)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range []Edge{NewEdge(1, 2), NewEdge(2, 3), NewEdge(5, 6)} {
		if err := g.AddEdge(e.A, e.B); err != nil {
			t.Fatal(err)
		}
	}

	comps := g.Components()
	if len(comps) != 2 {
		t.Fatalf("Components() = %v, want 2 components", comps)
	}
	if len(comps[0]) != 3 || comps[0][0] != 1 || comps[0][2] != 3 {
		t.Errorf("first component = %v, want [1 2 3]", comps[0])
	}
	if len(comps[1]) != 2 || comps[1][0] != 5 || comps[1][1] != 6 {
		t.Errorf("second component = %v, want [5 6]", comps[1])
	}

	sub := g.Subgraph(comps[0])
	if sub.EdgeCount() != 2 {
		t.Errorf("Subgraph edge count = %d, want 2", sub.EdgeCount())
	}
	if sub.HasEdge(5, 6) {
		t.Error("Subgraph contains edge outside component")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	g, err := New(4)
	if err != nil {
		t.Fatal(err)
	}
	c := g.Clone()
	if err := c.RemoveEdge(1, 2); err != nil {
		t.Fatal(err)
	}
	if !g.HasEdge(1, 2) {
		t.Error("removing from clone mutated original")
	}
	if g.Signature() == c.Signature() {
		t.Error("signatures equal after divergence")
	}
}

func TestSignatureStable(t *testing.T) {
	a, _ := New(4)
	b, _ := New(4)
	if a.Signature() != b.Signature() {
		t.Error("equal graphs produced different signatures")
	}
}

func TestDegreeSequence(t *testing.T) {
	g, err := NewEmpty(5)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range []Edge{NewEdge(1, 2), NewEdge(1, 3), NewEdge(1, 4), NewEdge(2, 3)} {
		if err := g.AddEdge(e.A, e.B); err != nil {
			t.Fatal(err)
		}
	}

	got := g.DegreeSequence()
	want := []int{3, 2, 2, 1, 0}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DegreeSequence() = %v, want %v", got, want)
	}
}
