package lattice

import (
	"sort"

	"github.com/matzehuels/prost/pkg/graph"
)

// State is one in-progress or finished round: an injective assignment of
// nodes to lattice positions together with the edges the round realizes.
//
// The zero value is not usable - use NewState. State is not safe for
// concurrent use; searches branch by cloning.
type State struct {
	positions map[graph.Node]Position
	occupied  map[Position]graph.Node
	realized  map[graph.Edge]struct{}
}

// NewState creates an empty round.
func NewState() *State {
	return &State{
		positions: make(map[graph.Node]Position),
		occupied:  make(map[Position]graph.Node),
		realized:  make(map[graph.Edge]struct{}),
	}
}

// Clone returns a deep copy of the state.
func (s *State) Clone() *State {
	c := &State{
		positions: make(map[graph.Node]Position, len(s.positions)),
		occupied:  make(map[Position]graph.Node, len(s.occupied)),
		realized:  make(map[graph.Edge]struct{}, len(s.realized)),
	}
	for n, p := range s.positions {
		c.positions[n] = p
	}
	for p, n := range s.occupied {
		c.occupied[p] = n
	}
	for e := range s.realized {
		c.realized[e] = struct{}{}
	}
	return c
}

// Len returns the number of placed nodes.
func (s *State) Len() int { return len(s.positions) }

// Nodes returns the placed nodes in ascending order.
func (s *State) Nodes() []graph.Node {
	out := make([]graph.Node, 0, len(s.positions))
	for n := range s.positions {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Position returns the position of a placed node.
func (s *State) Position(n graph.Node) (Position, bool) {
	p, ok := s.positions[n]
	return p, ok
}

// At returns the node occupying a position.
func (s *State) At(p Position) (graph.Node, bool) {
	n, ok := s.occupied[p]
	return n, ok
}

// Contains reports whether the node is placed in this round.
func (s *State) Contains(n graph.Node) bool {
	_, ok := s.positions[n]
	return ok
}

// Realized returns the edges realized by this round, sorted by (A, B).
func (s *State) Realized() []graph.Edge {
	out := make([]graph.Edge, 0, len(s.realized))
	for e := range s.realized {
		out = append(out, e)
	}
	graph.SortEdges(out)
	return out
}

// RealizedCount returns the number of edges realized by this round.
func (s *State) RealizedCount() int { return len(s.realized) }

// HasRealized reports whether the round already realizes the edge.
func (s *State) HasRealized(e graph.Edge) bool {
	_, ok := s.realized[e]
	return ok
}

// Frontier returns the empty positions adjacent to at least one occupied
// position, sorted in (R, Q) order. These are the only positions eligible
// for the next placement. An empty state has an empty frontier.
func (s *State) Frontier() []Position {
	seen := make(map[Position]struct{})
	var out []Position
	for p := range s.occupied {
		for _, nb := range p.Neighbors() {
			if _, occ := s.occupied[nb]; occ {
				continue
			}
			if _, dup := seen[nb]; dup {
				continue
			}
			seen[nb] = struct{}{}
			out = append(out, nb)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// Valence counts the occupied neighbors of a position. Higher valence means
// a placement there closes more triangles.
func (s *State) Valence(p Position) int {
	v := 0
	for _, nb := range p.Neighbors() {
		if _, occ := s.occupied[nb]; occ {
			v++
		}
	}
	return v
}

// occupiedNeighbors returns the nodes on positions adjacent to p.
func (s *State) occupiedNeighbors(p Position) []graph.Node {
	var out []graph.Node
	for _, nb := range p.Neighbors() {
		if n, occ := s.occupied[nb]; occ {
			out = append(out, n)
		}
	}
	return out
}

// place records the node at the position and marks the given edges
// realized. Callers must have validated the placement.
func (s *State) place(n graph.Node, p Position, edges []graph.Edge) {
	s.positions[n] = p
	s.occupied[p] = n
	for _, e := range edges {
		s.realized[e] = struct{}{}
	}
}

// Positions returns the occupied positions in (R, Q) order.
func (s *State) Positions() []Position {
	out := make([]Position, 0, len(s.occupied))
	for p := range s.occupied {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}
