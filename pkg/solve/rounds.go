package solve

import (
	"fmt"
	"sort"

	"github.com/matzehuels/prost/pkg/graph"
	"github.com/matzehuels/prost/pkg/lattice"
)

// enumerateRounds visits every distinct realizable round of g that contains
// the edge e, exactly once per realized edge set. The two endpoints of e
// are pinned to (0,0) and (1,0), which quotients translation and most of
// the rotation symmetry up front; the configuration then grows one frontier
// placement at a time, and every intermediate state is itself a legal round
// (rounds may close early, they need not be maximal).
//
// canonical selects the dedup key for search states: the symmetry-canonical
// labeled form, or the literal placement when disabled. expand is called
// once per state actually explored; returning an error aborts the
// enumeration (budget and cancellation checks hook in here).
func enumerateRounds(v lattice.Validator, g *graph.Graph, e graph.Edge, canonical bool, expand func() error, visit func(Round) error) error {
	s := lattice.NewState()
	if _, err := v.Place(e.A, lattice.Position{Q: 0, R: 0}, s, g); err != nil {
		return err
	}
	if _, err := v.Place(e.B, lattice.Position{Q: 1, R: 0}, s, g); err != nil {
		return err
	}

	en := &enumeration{
		v:         v,
		g:         g,
		canonical: canonical,
		expand:    expand,
		visit:     visit,
		seen:      make(map[string]struct{}),
		emitted:   make(map[string]struct{}),
	}
	return en.grow(s)
}

type enumeration struct {
	v         lattice.Validator
	g         *graph.Graph
	canonical bool
	expand    func() error
	visit     func(Round) error
	seen      map[string]struct{} // explored states
	emitted   map[string]struct{} // emitted rounds, by realized edge set
}

func (en *enumeration) grow(s *lattice.State) error {
	if en.expand != nil {
		if err := en.expand(); err != nil {
			return err
		}
	}

	key := edgesKey(s.Realized())
	if _, dup := en.emitted[key]; !dup {
		en.emitted[key] = struct{}{}
		if err := en.visit(roundFromState(s)); err != nil {
			return err
		}
	}

	for _, p := range s.Frontier() {
		for _, n := range en.candidates(s, p) {
			if !en.v.CanPlace(n, p, s, en.g) {
				continue
			}
			next := s.Clone()
			if _, err := en.v.Place(n, p, next, en.g); err != nil {
				return err
			}
			if _, dup := en.seen[en.stateKey(next)]; dup {
				continue
			}
			en.seen[en.stateKey(next)] = struct{}{}
			if err := en.grow(next); err != nil {
				return err
			}
		}
	}
	return nil
}

// candidates lists the unplaced nodes worth trying at position p, in
// ascending order.
func (en *enumeration) candidates(s *lattice.State, p lattice.Position) []graph.Node {
	required := occupiedNeighbors(s, p)
	if len(required) == 0 {
		return nil
	}
	var pool []graph.Node
	if en.v.Lenient {
		// Any node with a remaining edge to one occupied neighbor.
		set := make(map[graph.Node]struct{})
		for _, m := range required {
			for _, cand := range en.g.Neighbors(m) {
				set[cand] = struct{}{}
			}
		}
		for n := range set {
			pool = append(pool, n)
		}
		sortNodes(pool)
	} else {
		pool = en.g.Candidates(required)
	}
	out := pool[:0]
	for _, n := range pool {
		if !s.Contains(n) {
			out = append(out, n)
		}
	}
	return out
}

func (en *enumeration) stateKey(s *lattice.State) string {
	if en.canonical {
		return lattice.CanonicalStateKey(s)
	}
	return literalStateKey(s)
}

// literalStateKey serializes the exact placement, used when
// canonicalization is disabled.
func literalStateKey(s *lattice.State) string {
	var sb []byte
	for _, n := range s.Nodes() {
		p, _ := s.Position(n)
		sb = fmt.Appendf(sb, "%d@%d,%d;", n, p.Q, p.R)
	}
	return string(sb)
}

// occupiedNeighbors returns the nodes on positions adjacent to p.
func occupiedNeighbors(s *lattice.State, p lattice.Position) []graph.Node {
	var out []graph.Node
	for _, nb := range p.Neighbors() {
		if n, occ := s.At(nb); occ {
			out = append(out, n)
		}
	}
	return out
}

func sortNodes(nodes []graph.Node) {
	sort.Slice(nodes, func(i, j int) bool { return nodes[i] < nodes[j] })
}
