package solve

import (
	"context"
	"testing"

	"github.com/matzehuels/prost/pkg/errors"
	"github.com/matzehuels/prost/pkg/graph"
	"github.com/matzehuels/prost/pkg/lattice"
)

func TestMergeTimeSteps(t *testing.T) {
	round := func(nodes ...graph.Node) Round {
		r := Round{}
		for i, n := range nodes {
			r.Placements = append(r.Placements, Placement{Node: n, Pos: lattice.Position{Q: i}})
		}
		return r
	}

	tests := []struct {
		name   string
		rounds []Round
		want   [][]int
	}{
		{
			name:   "disjoint rounds share a step",
			rounds: []Round{round(1, 2), round(3, 4)},
			want:   [][]int{{0, 1}},
		},
		{
			name:   "overlapping rounds split",
			rounds: []Round{round(1, 2), round(2, 3)},
			want:   [][]int{{0}, {1}},
		},
		{
			name:   "first fit packs into earliest step",
			rounds: []Round{round(1, 2), round(2, 3), round(4, 5)},
			want:   [][]int{{0, 2}, {1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mergeTimeSteps(tt.rounds)
			if len(got) != len(tt.want) {
				t.Fatalf("steps = %v, want %v", got, tt.want)
			}
			for i := range got {
				if len(got[i]) != len(tt.want[i]) {
					t.Fatalf("steps = %v, want %v", got, tt.want)
				}
				for j := range got[i] {
					if got[i][j] != tt.want[i][j] {
						t.Fatalf("steps = %v, want %v", got, tt.want)
					}
				}
			}
		})
	}
}

func TestValidateCatchesTampering(t *testing.T) {
	s := newSolver(t, Options{Mode: ModeAStar})
	d, err := s.Decompose(context.Background(), 4)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.Validate(); err != nil {
		t.Fatalf("untampered decomposition invalid: %v", err)
	}

	t.Run("dropped edge", func(t *testing.T) {
		broken := *d
		broken.Rounds = append([]Round(nil), d.Rounds...)
		last := broken.Rounds[len(broken.Rounds)-1]
		last.Edges = last.Edges[:len(last.Edges)-1]
		broken.Rounds[len(broken.Rounds)-1] = last
		if broken.Validate() == nil {
			t.Error("dropped edge not detected")
		}
	})

	t.Run("duplicated round", func(t *testing.T) {
		broken := *d
		broken.Rounds = append(append([]Round(nil), d.Rounds...), d.Rounds[0])
		err := broken.Validate()
		if err == nil {
			t.Fatal("duplicated round not detected")
		}
		if !errors.Is(err, errors.ErrCodeEdgeNotFound) {
			t.Errorf("err = %v, want EDGE_NOT_FOUND", err)
		}
	})

	t.Run("colliding placements", func(t *testing.T) {
		broken := *d
		broken.Rounds = append([]Round(nil), d.Rounds...)
		first := broken.Rounds[0]
		first.Placements = append([]Placement(nil), first.Placements...)
		first.Placements[1].Pos = first.Placements[0].Pos
		broken.Rounds[0] = first
		if !errors.Is(broken.Validate(), errors.ErrCodeInvalidPlacement) {
			t.Error("position collision not detected")
		}
	})
}

func TestEdgesKeyOmitsOrder(t *testing.T) {
	g5, err := graph.NewEmpty(5)
	if err != nil {
		t.Fatal(err)
	}
	g6, err := graph.NewEmpty(6)
	if err != nil {
		t.Fatal(err)
	}
	for _, g := range []*graph.Graph{g5, g6} {
		if err := g.AddEdge(1, 2); err != nil {
			t.Fatal(err)
		}
		if err := g.AddEdge(2, 3); err != nil {
			t.Fatal(err)
		}
	}
	if graphKey(g5) != graphKey(g6) {
		t.Error("identical edge sets over different orders must share a key")
	}
}
