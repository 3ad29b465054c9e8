package render

import (
	"strings"
	"testing"

	"github.com/matzehuels/prost/pkg/graph"
	"github.com/matzehuels/prost/pkg/lattice"
	"github.com/matzehuels/prost/pkg/solve"
)

func triangleRound() solve.Round {
	return solve.Round{
		Placements: []solve.Placement{
			{Node: 1, Pos: lattice.Position{Q: 0, R: 0}},
			{Node: 2, Pos: lattice.Position{Q: 1, R: 0}},
			{Node: 3, Pos: lattice.Position{Q: 0, R: 1}},
		},
		Edges: []graph.Edge{{A: 1, B: 2}, {A: 1, B: 3}, {A: 2, B: 3}},
	}
}

func TestASCIIRoundTriangle(t *testing.T) {
	got := ASCIIRound(triangleRound())
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	want := []string{
		"   3",
		"  / \\",
		" 1 - 2",
	}
	if len(lines) != len(want) {
		t.Fatalf("rendered %d lines, want %d:\n%s", len(lines), len(want), got)
	}
	for i := range want {
		if strings.TrimRight(lines[i], " ") != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestASCIIRoundSingleEdge(t *testing.T) {
	r := solve.Round{
		Placements: []solve.Placement{
			{Node: 2, Pos: lattice.Position{Q: 0, R: 0}},
			{Node: 4, Pos: lattice.Position{Q: 1, R: 0}},
		},
		Edges: []graph.Edge{{A: 2, B: 4}},
	}
	got := strings.TrimRight(ASCIIRound(r), "\n")
	if got != " 2 - 4" {
		t.Errorf("ASCIIRound = %q, want %q", got, " 2 - 4")
	}
}

func TestASCIIRoundEmpty(t *testing.T) {
	if got := ASCIIRound(solve.Round{}); got != "" {
		t.Errorf("empty round rendered %q", got)
	}
}

func TestASCIIDecomposition(t *testing.T) {
	d := &solve.Decomposition{
		N:         3,
		Rounds:    []solve.Round{triangleRound()},
		TimeSteps: [][]int{{0}},
		Exact:     true,
	}
	got := ASCII(d)
	for _, want := range []string{"K_3: 1 rounds in 1 time steps", "Time step 1", "Round 1 (3 edges)"} {
		if !strings.Contains(got, want) {
			t.Errorf("ASCII output missing %q:\n%s", want, got)
		}
	}
}

func TestToDOT(t *testing.T) {
	d := &solve.Decomposition{
		N:         3,
		Rounds:    []solve.Round{triangleRound()},
		TimeSteps: [][]int{{0}},
	}
	dot := ToDOT(d, Options{})
	for _, want := range []string{"graph clinks {", "  1;", "  3;", `1 -- 2 [color=`} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "label=") {
		t.Error("plain DOT must not label edges")
	}

	detailed := ToDOT(d, Options{Detailed: true})
	if !strings.Contains(detailed, `label="r1"`) {
		t.Errorf("detailed DOT missing round labels:\n%s", detailed)
	}
}
