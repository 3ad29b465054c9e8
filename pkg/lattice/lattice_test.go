package lattice

import (
	"errors"
	"testing"

	"github.com/matzehuels/prost/pkg/graph"
)

func TestDirectionAlgebra(t *testing.T) {
	for d := Direction(0); d < 6; d++ {
		if got := d.Opposite().Opposite(); got != d {
			t.Errorf("Opposite(Opposite(%d)) = %d", d, got)
		}
		if got := d.RotateCW().RotateCCW(); got != d {
			t.Errorf("RotateCW then RotateCCW of %d = %d", d, got)
		}
		o := d.Offset()
		oo := d.Opposite().Offset()
		if o.Q+oo.Q != 0 || o.R+oo.R != 0 {
			t.Errorf("offset of %d and its opposite do not cancel", d)
		}
	}
}

func TestNeighborsAdjacent(t *testing.T) {
	p := Position{Q: 2, R: -1}
	nbs := p.Neighbors()
	seen := make(map[Position]bool)
	for _, nb := range nbs {
		if !p.Adjacent(nb) {
			t.Errorf("neighbor %v not adjacent to %v", nb, p)
		}
		if seen[nb] {
			t.Errorf("duplicate neighbor %v", nb)
		}
		seen[nb] = true
	}
	if p.Adjacent(p) {
		t.Error("position adjacent to itself")
	}
	if p.Adjacent(Position{Q: 4, R: -1}) {
		t.Error("distance-2 position reported adjacent")
	}
}

func TestPlaceStrict(t *testing.T) {
	g, err := graph.New(4)
	if err != nil {
		t.Fatal(err)
	}
	v := Validator{}
	s := NewState()

	// First placement is free.
	if _, err := v.Place(1, Position{}, s, g); err != nil {
		t.Fatalf("first placement: %v", err)
	}
	// Second must be adjacent.
	if v.CanPlace(2, Position{Q: 3, R: 0}, s, g) {
		t.Error("CanPlace allowed a non-frontier position")
	}
	edges, err := v.Place(2, Position{Q: 1, R: 0}, s, g)
	if err != nil {
		t.Fatalf("second placement: %v", err)
	}
	if len(edges) != 1 || edges[0] != graph.NewEdge(1, 2) {
		t.Errorf("realized = %v, want [1-2]", edges)
	}

	// A common neighbor of both realizes two edges.
	edges, err = v.Place(3, Position{Q: 0, R: 1}, s, g)
	if err != nil {
		t.Fatalf("third placement: %v", err)
	}
	if len(edges) != 2 {
		t.Errorf("realized = %v, want two edges", edges)
	}
	if s.RealizedCount() != 3 {
		t.Errorf("RealizedCount() = %d, want 3", s.RealizedCount())
	}
}

func TestPlaceStrictRejectsMissingEdge(t *testing.T) {
	g, err := graph.NewEmpty(3)
	if err != nil {
		t.Fatal(err)
	}
	// Only 1-2 and 1-3 exist; 2-3 does not.
	if err := g.AddEdge(1, 2); err != nil {
		t.Fatal(err)
	}
	if err := g.AddEdge(1, 3); err != nil {
		t.Fatal(err)
	}

	v := Validator{}
	s := NewState()
	if _, err := v.Place(1, Position{}, s, g); err != nil {
		t.Fatal(err)
	}
	if _, err := v.Place(2, Position{Q: 1, R: 0}, s, g); err != nil {
		t.Fatal(err)
	}

	// (0,1) touches both 1 and 2, but 3 has no edge to 2: strict refuses.
	if v.CanPlace(3, Position{Q: 0, R: 1}, s, g) {
		t.Error("strict CanPlace allowed adjacency without a remaining edge")
	}
	// (-1,0) touches only node 1: fine.
	if !v.CanPlace(3, Position{Q: -1, R: 0}, s, g) {
		t.Error("strict CanPlace refused a clean frontier position")
	}

	// Lenient tolerates the missing 2-3 edge and realizes just 1-3.
	lenient := Validator{Lenient: true}
	if !lenient.CanPlace(3, Position{Q: 0, R: 1}, s, g) {
		t.Error("lenient CanPlace refused a partially matched position")
	}
	edges, err := lenient.Place(3, Position{Q: 0, R: 1}, s, g)
	if err != nil {
		t.Fatal(err)
	}
	if len(edges) != 1 || edges[0] != graph.NewEdge(1, 3) {
		t.Errorf("lenient realized = %v, want [1-3]", edges)
	}
}

func TestPlaceMisuse(t *testing.T) {
	g, err := graph.New(3)
	if err != nil {
		t.Fatal(err)
	}
	v := Validator{}
	s := NewState()
	if _, err := v.Place(1, Position{}, s, g); err != nil {
		t.Fatal(err)
	}

	if _, err := v.Place(1, Position{Q: 1, R: 0}, s, g); !errors.Is(err, ErrInvalidPlacement) {
		t.Errorf("re-placing node err = %v, want ErrInvalidPlacement", err)
	}
	if _, err := v.Place(2, Position{}, s, g); !errors.Is(err, ErrInvalidPlacement) {
		t.Errorf("occupied position err = %v, want ErrInvalidPlacement", err)
	}
}

func TestFrontierAndValence(t *testing.T) {
	g, err := graph.New(3)
	if err != nil {
		t.Fatal(err)
	}
	v := Validator{}
	s := NewState()
	if len(s.Frontier()) != 0 {
		t.Error("empty state has a frontier")
	}
	if _, err := v.Place(1, Position{}, s, g); err != nil {
		t.Fatal(err)
	}
	if got := len(s.Frontier()); got != 6 {
		t.Errorf("frontier size after one placement = %d, want 6", got)
	}
	if _, err := v.Place(2, Position{Q: 1, R: 0}, s, g); err != nil {
		t.Fatal(err)
	}

	// The two common neighbors of (0,0) and (1,0) have valence 2.
	want2 := []Position{{Q: 1, R: -1}, {Q: 0, R: 1}}
	for _, p := range want2 {
		if got := s.Valence(p); got != 2 {
			t.Errorf("Valence(%v) = %d, want 2", p, got)
		}
	}
	if got := s.Valence(Position{Q: 2, R: 0}); got != 1 {
		t.Errorf("Valence((2,0)) = %d, want 1", got)
	}

	frontier := s.Frontier()
	for i := 1; i < len(frontier); i++ {
		if frontier[i].Less(frontier[i-1]) {
			t.Fatalf("frontier not sorted: %v", frontier)
		}
	}
}

func TestTerminal(t *testing.T) {
	g, err := graph.New(3)
	if err != nil {
		t.Fatal(err)
	}
	v := Validator{}
	s := NewState()
	for _, pl := range []struct {
		n graph.Node
		p Position
	}{
		{1, Position{}},
		{2, Position{Q: 1, R: 0}},
		{3, Position{Q: 0, R: 1}},
	} {
		if _, err := v.Place(pl.n, pl.p, s, g); err != nil {
			t.Fatal(err)
		}
	}
	// All of K3 is realized: nothing left to place.
	if !v.Terminal(s, g) {
		t.Error("complete K3 triangle not terminal")
	}
}

func TestCloneIndependence(t *testing.T) {
	g, err := graph.New(3)
	if err != nil {
		t.Fatal(err)
	}
	v := Validator{}
	s := NewState()
	if _, err := v.Place(1, Position{}, s, g); err != nil {
		t.Fatal(err)
	}
	c := s.Clone()
	if _, err := v.Place(2, Position{Q: 1, R: 0}, c, g); err != nil {
		t.Fatal(err)
	}
	if s.Contains(2) {
		t.Error("placing into clone mutated original")
	}
	if c.Len() != 2 || s.Len() != 1 {
		t.Errorf("Len() = (%d, %d), want (2, 1)", c.Len(), s.Len())
	}
}
