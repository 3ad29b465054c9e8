package solve

import (
	"context"

	"github.com/matzehuels/prost/pkg/errors"
	"github.com/matzehuels/prost/pkg/graph"
	"github.com/matzehuels/prost/pkg/lattice"
)

// Greedy builds one maximal round per call with a fully deterministic
// policy. It never backtracks, so the resulting round count is an upper
// bound on the minimum.
//
// Seeding: the node with the smallest positive residual degree goes to
// (0,0) and its lowest-degree remaining neighbor to (1,0). Low-degree nodes
// are placed first because they are the hardest to serve later.
//
// Growth: among all legal (position, node) placements, pick the one that
// realizes the most edges; break ties by smaller residual degree, then
// smaller node ID, then frontier scan order. Repeat until no placement is
// legal.
type Greedy struct {
	Validator lattice.Validator
}

// NextRound builds the next round from the remaining graph. The graph is
// not modified.
func (st *Greedy) NextRound(ctx context.Context, g *graph.Graph) (Round, error) {
	if g.IsEmpty() {
		return Round{}, errors.New(errors.ErrCodeInternal, "next round requested on empty graph")
	}

	s := lattice.NewState()
	a := seedNode(g)
	b := seedNeighbor(g, a)
	if _, err := st.Validator.Place(a, lattice.Position{Q: 0, R: 0}, s, g); err != nil {
		return Round{}, err
	}
	if _, err := st.Validator.Place(b, lattice.Position{Q: 1, R: 0}, s, g); err != nil {
		return Round{}, err
	}

	for {
		if err := ctx.Err(); err != nil {
			return Round{}, err
		}
		n, p, ok := st.bestPlacement(s, g)
		if !ok {
			break
		}
		if _, err := st.Validator.Place(n, p, s, g); err != nil {
			return Round{}, err
		}
	}
	return roundFromState(s), nil
}

// seedNode returns the node with the smallest positive residual degree,
// smallest ID on ties.
func seedNode(g *graph.Graph) graph.Node {
	best := graph.Node(0)
	bestDeg := 0
	for i := 1; i <= g.Order(); i++ {
		d := g.Degree(graph.Node(i))
		if d == 0 {
			continue
		}
		if best == 0 || d < bestDeg {
			best, bestDeg = graph.Node(i), d
		}
	}
	return best
}

// seedNeighbor returns the lowest-degree remaining neighbor of the seed,
// smallest ID on ties.
func seedNeighbor(g *graph.Graph, seed graph.Node) graph.Node {
	best := graph.Node(0)
	bestDeg := 0
	for _, n := range g.Neighbors(seed) {
		d := g.Degree(n)
		if best == 0 || d < bestDeg {
			best, bestDeg = n, d
		}
	}
	return best
}

// bestPlacement scans the frontier in (R, Q) order and returns the legal
// placement that realizes the most edges. Strict inequalities on the
// tie-break chain keep the first-scanned position on full ties.
func (st *Greedy) bestPlacement(s *lattice.State, g *graph.Graph) (graph.Node, lattice.Position, bool) {
	var (
		bestNode  graph.Node
		bestPos   lattice.Position
		bestGain  int
		bestDeg   int
		found     bool
		validator = st.Validator
	)
	for _, p := range s.Frontier() {
		required := occupiedNeighbors(s, p)
		var pool []graph.Node
		if validator.Lenient {
			set := make(map[graph.Node]struct{})
			for _, m := range required {
				for _, cand := range g.Neighbors(m) {
					set[cand] = struct{}{}
				}
			}
			for n := range set {
				pool = append(pool, n)
			}
			sortNodes(pool)
		} else {
			pool = g.Candidates(required)
		}
		for _, n := range pool {
			if s.Contains(n) || !validator.CanPlace(n, p, s, g) {
				continue
			}
			gain := realizableAt(s, g, n, p)
			deg := g.Degree(n)
			if !found || gain > bestGain ||
				(gain == bestGain && deg < bestDeg) ||
				(gain == bestGain && deg == bestDeg && n < bestNode) {
				bestNode, bestPos, bestGain, bestDeg = n, p, gain, deg
				found = true
			}
		}
	}
	return bestNode, bestPos, found
}

// realizableAt counts the edges a placement would realize.
func realizableAt(s *lattice.State, g *graph.Graph, n graph.Node, p lattice.Position) int {
	count := 0
	for _, m := range occupiedNeighbors(s, p) {
		e := graph.NewEdge(n, m)
		if g.HasEdge(e.A, e.B) && !s.HasRealized(e) {
			count++
		}
	}
	return count
}
