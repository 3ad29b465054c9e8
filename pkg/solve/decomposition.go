package solve

import (
	"sort"
	"strings"
	"time"

	"github.com/matzehuels/prost/pkg/errors"
	"github.com/matzehuels/prost/pkg/graph"
	"github.com/matzehuels/prost/pkg/lattice"
)

// Placement assigns one node to one lattice position.
type Placement struct {
	Node graph.Node       `json:"node"`
	Pos  lattice.Position `json:"pos"`
}

// Round is one finished round: a connected lattice configuration together
// with the edges it realizes. Placements are sorted by node, edges by
// (A, B).
type Round struct {
	Placements []Placement  `json:"placements"`
	Edges      []graph.Edge `json:"edges"`
}

// roundFromState freezes a search state into a Round.
func roundFromState(s *lattice.State) Round {
	nodes := s.Nodes()
	placements := make([]Placement, 0, len(nodes))
	for _, n := range nodes {
		p, _ := s.Position(n)
		placements = append(placements, Placement{Node: n, Pos: p})
	}
	return Round{Placements: placements, Edges: s.Realized()}
}

// Nodes returns the nodes placed in the round, ascending.
func (r Round) Nodes() []graph.Node {
	out := make([]graph.Node, len(r.Placements))
	for i, p := range r.Placements {
		out[i] = p.Node
	}
	return out
}

// Stats records how a decomposition was found.
type Stats struct {
	Mode        Mode          `json:"mode"`
	Expansions  int64         `json:"expansions"`
	CacheHits   int64         `json:"cache_hits"`
	CacheMisses int64         `json:"cache_misses"`
	Components  int           `json:"components"`
	BudgetHit   bool          `json:"budget_hit,omitempty"`
	Duration    time.Duration `json:"duration"`
}

// Decomposition is the solver output: an ordered list of rounds whose edge
// sets partition the input graph's edges, plus the round-to-time-step
// packing.
type Decomposition struct {
	// N is the node count of the input graph.
	N int `json:"n"`

	// Lenient records the embeddability mode the rounds were built under.
	Lenient bool `json:"lenient,omitempty"`

	// Rounds realize every input edge exactly once.
	Rounds []Round `json:"rounds"`

	// TimeSteps groups indices of node-disjoint rounds that can run
	// simultaneously.
	TimeSteps [][]int `json:"time_steps"`

	// Exact is false when a search budget forced a greedy completion, so
	// the round count is an upper bound rather than the minimum.
	Exact bool `json:"exact"`

	Stats Stats `json:"stats"`
}

// RoundCount returns the number of rounds.
func (d *Decomposition) RoundCount() int { return len(d.Rounds) }

// TimeStepCount returns the number of time steps after packing.
func (d *Decomposition) TimeStepCount() int { return len(d.TimeSteps) }

// mergeTimeSteps packs rounds into time steps first-fit: each round joins
// the earliest step containing no round that shares a node with it.
func mergeTimeSteps(rounds []Round) [][]int {
	var steps [][]int
	occupied := []map[graph.Node]struct{}{}
	for i, r := range rounds {
		placed := false
		for si, occ := range occupied {
			if disjoint(occ, r) {
				steps[si] = append(steps[si], i)
				for _, n := range r.Nodes() {
					occ[n] = struct{}{}
				}
				placed = true
				break
			}
		}
		if placed {
			continue
		}
		occ := make(map[graph.Node]struct{})
		for _, n := range r.Nodes() {
			occ[n] = struct{}{}
		}
		occupied = append(occupied, occ)
		steps = append(steps, []int{i})
	}
	return steps
}

func disjoint(occ map[graph.Node]struct{}, r Round) bool {
	for _, p := range r.Placements {
		if _, busy := occ[p.Node]; busy {
			return false
		}
	}
	return true
}

// Validate replays the decomposition against a fresh copy of the input
// graph and checks every structural invariant: rounds are injective,
// connected, obey the embeddability mode, and together realize every edge
// exactly once.
func (d *Decomposition) Validate() error {
	g, err := graph.New(d.N)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "rebuild K_%d", d.N)
	}
	for i, r := range d.Rounds {
		if err := d.validateRound(i, r, g); err != nil {
			return err
		}
		if err := g.RemoveEdges(r.Edges); err != nil {
			return errors.Wrap(errors.ErrCodeEdgeNotFound, err, "round %d realizes an edge twice or out of range", i)
		}
	}
	if !g.IsEmpty() {
		return errors.New(errors.ErrCodeInternal, "%d edges never realized", g.EdgeCount())
	}
	return nil
}

func (d *Decomposition) validateRound(i int, r Round, g *graph.Graph) error {
	if len(r.Edges) == 0 {
		return errors.New(errors.ErrCodeInternal, "round %d realizes no edges", i)
	}

	byNode := make(map[graph.Node]lattice.Position, len(r.Placements))
	byPos := make(map[lattice.Position]graph.Node, len(r.Placements))
	for _, p := range r.Placements {
		if _, dup := byNode[p.Node]; dup {
			return errors.New(errors.ErrCodeInvalidPlacement, "round %d places node %d twice", i, p.Node)
		}
		if m, dup := byPos[p.Pos]; dup {
			return errors.New(errors.ErrCodeInvalidPlacement, "round %d places nodes %d and %d on (%d,%d)", i, m, p.Node, p.Pos.Q, p.Pos.R)
		}
		byNode[p.Node] = p.Pos
		byPos[p.Pos] = p.Node
	}

	// Every realized edge joins two adjacent placed nodes and is still
	// remaining at this point of the replay.
	inRound := make(map[graph.Edge]struct{}, len(r.Edges))
	for _, e := range r.Edges {
		inRound[e] = struct{}{}
		pa, oka := byNode[e.A]
		pb, okb := byNode[e.B]
		if !oka || !okb {
			return errors.New(errors.ErrCodeInvalidPlacement, "round %d realizes %s without placing both endpoints", i, e)
		}
		if !pa.Adjacent(pb) {
			return errors.New(errors.ErrCodeInvalidPlacement, "round %d realizes %s between non-adjacent positions", i, e)
		}
		if !g.HasEdge(e.A, e.B) {
			return errors.New(errors.ErrCodeEdgeNotFound, "round %d realizes already-covered edge %s", i, e)
		}
	}

	// Adjacent placed pairs with a remaining edge must realize it; in
	// strict mode adjacency without a remaining edge is itself illegal.
	nodes := make([]graph.Node, 0, len(byNode))
	for n := range byNode {
		nodes = append(nodes, n)
	}
	sort.Slice(nodes, func(a, b int) bool { return nodes[a] < nodes[b] })
	for ai, a := range nodes {
		for _, b := range nodes[ai+1:] {
			if !byNode[a].Adjacent(byNode[b]) {
				continue
			}
			e := graph.NewEdge(a, b)
			if _, ok := inRound[e]; ok {
				continue
			}
			if g.HasEdge(e.A, e.B) {
				return errors.New(errors.ErrCodeInvalidPlacement, "round %d leaves adjacent edge %s unrealized", i, e)
			}
			if !d.Lenient {
				return errors.New(errors.ErrCodeInvalidPlacement, "round %d has adjacency %d-%d with no edge to realize", i, a, b)
			}
		}
	}

	if !connectedByEdges(nodes, r.Edges) {
		return errors.New(errors.ErrCodeInvalidPlacement, "round %d is not connected", i)
	}
	return nil
}

// connectedByEdges reports whether the realized edges connect all placed
// nodes.
func connectedByEdges(nodes []graph.Node, edges []graph.Edge) bool {
	if len(nodes) == 0 {
		return false
	}
	adj := make(map[graph.Node][]graph.Node)
	for _, e := range edges {
		adj[e.A] = append(adj[e.A], e.B)
		adj[e.B] = append(adj[e.B], e.A)
	}
	seen := map[graph.Node]struct{}{nodes[0]: {}}
	queue := []graph.Node{nodes[0]}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, m := range adj[n] {
			if _, ok := seen[m]; !ok {
				seen[m] = struct{}{}
				queue = append(queue, m)
			}
		}
	}
	return len(seen) == len(nodes)
}

// edgesKey serializes a sorted edge slice; used for round dedup and memo
// keys. Unlike graph.Signature it omits the node count, so residual graphs
// over different n that share an edge set share a key. That is what makes
// memo entries reusable when n grows.
func edgesKey(edges []graph.Edge) string {
	var sb strings.Builder
	sb.Grow(len(edges) * 6)
	for _, e := range edges {
		sb.WriteString(e.String())
		sb.WriteByte(';')
	}
	return sb.String()
}

// graphKey is edgesKey over a graph's remaining edges.
func graphKey(g *graph.Graph) string {
	return edgesKey(g.RemainingEdges())
}
