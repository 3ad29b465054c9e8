package lattice

import (
	"errors"
	"fmt"

	"github.com/matzehuels/prost/pkg/graph"
)

// ErrInvalidPlacement is returned by Validator.Place when the placement is
// inconsistent: the position is occupied, the node is already placed, or
// the placement fails the embeddability check. It signals caller misuse,
// not a solvable condition.
var ErrInvalidPlacement = errors.New("lattice: invalid placement")

// Validator is the embeddability oracle. It decides whether a node may
// occupy a lattice position given the current partial round and the
// remaining graph.
//
// In strict mode (the default) geometric adjacency and graph adjacency must
// coincide exactly: every occupied neighbor of the position must hold a
// node whose edge to the placed node is still remaining and not yet
// realized in this round. In lenient mode occupied neighbors without a
// usable edge are tolerated and simply realize nothing; at least one edge
// must still be realized so every placement makes progress.
type Validator struct {
	// Lenient allows a round's realized edges to be a proper subset of the
	// lattice-adjacent pairs among its placed nodes. This changes
	// achievable round counts and is never assumed implicitly.
	Lenient bool
}

// CanPlace reports whether the node may legally occupy the position.
//
// The first node of a round may be placed anywhere. Every later node must
// go on the frontier, and its newly formed adjacencies must obey the mode's
// embeddability rule.
func (v Validator) CanPlace(n graph.Node, p Position, s *State, g *graph.Graph) bool {
	if s.Contains(n) {
		return false
	}
	if _, occ := s.At(p); occ {
		return false
	}
	if s.Len() == 0 {
		return true
	}

	realizable := 0
	for _, m := range s.occupiedNeighbors(p) {
		e := graph.NewEdge(n, m)
		usable := g.HasEdge(e.A, e.B) && !s.HasRealized(e)
		if usable {
			realizable++
			continue
		}
		if !v.Lenient {
			return false
		}
	}
	return realizable > 0
}

// Place validates and applies the placement, mutating the state. It returns
// the newly realized edges in sorted order. A failed validation returns
// ErrInvalidPlacement and leaves the state untouched.
func (v Validator) Place(n graph.Node, p Position, s *State, g *graph.Graph) ([]graph.Edge, error) {
	if s.Contains(n) {
		return nil, fmt.Errorf("%w: node %d already placed", ErrInvalidPlacement, n)
	}
	if m, occ := s.At(p); occ {
		return nil, fmt.Errorf("%w: position (%d,%d) occupied by node %d", ErrInvalidPlacement, p.Q, p.R, m)
	}
	if !v.CanPlace(n, p, s, g) {
		return nil, fmt.Errorf("%w: node %d at (%d,%d)", ErrInvalidPlacement, n, p.Q, p.R)
	}

	var realized []graph.Edge
	for _, m := range s.occupiedNeighbors(p) {
		e := graph.NewEdge(n, m)
		if g.HasEdge(e.A, e.B) && !s.HasRealized(e) {
			realized = append(realized, e)
		}
	}
	graph.SortEdges(realized)
	s.place(n, p, realized)
	return realized, nil
}

// Terminal reports whether the round is maximal: no remaining node can be
// legally placed at any frontier position.
func (v Validator) Terminal(s *State, g *graph.Graph) bool {
	if s.Len() == 0 {
		return g.IsEmpty()
	}
	for _, p := range s.Frontier() {
		required := s.occupiedNeighbors(p)
		if v.Lenient {
			// Any unplaced node with a remaining edge to one occupied
			// neighbor suffices.
			for _, m := range required {
				for _, cand := range g.Neighbors(m) {
					if !s.Contains(cand) && v.CanPlace(cand, p, s, g) {
						return false
					}
				}
			}
			continue
		}
		for _, cand := range g.Candidates(required) {
			if s.Contains(cand) {
				continue
			}
			if v.CanPlace(cand, p, s, g) {
				return false
			}
		}
	}
	return true
}
