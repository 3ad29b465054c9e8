package solve

import (
	"container/heap"
	"context"
	"sync/atomic"

	"github.com/matzehuels/prost/pkg/errors"
	"github.com/matzehuels/prost/pkg/graph"
	"github.com/matzehuels/prost/pkg/lattice"
)

// AStar is the exact strategy: a memoized branch-and-bound over candidate
// rounds. For a residual graph it enumerates every realizable round
// containing the lexicographically smallest remaining edge (some round of
// any decomposition contains that edge, so this loses no optimum and
// breaks the round-ordering symmetry), recurses on each remainder, and
// keeps the best completion.
//
// Candidates are expanded richest-first from a priority queue; a completed
// branch gives an upper bound that prunes candidates whose optimistic
// estimate cannot beat it. Results per residual edge set are memoized in
// the shared Table, so identical subproblems, including ones produced by
// solves of smaller graphs, are solved once.
type AStar struct {
	Validator lattice.Validator
	Table     *Table

	// Canonical enables symmetry dedup of enumeration states.
	Canonical bool

	// MaxExpansions caps explored states across all searches sharing this
	// strategy. Zero means unlimited.
	MaxExpansions int64

	expansions atomic.Int64
}

// Expansions returns the number of search states explored so far.
func (st *AStar) Expansions() int64 { return st.expansions.Load() }

// NextRound returns the first round of an optimal decomposition of g.
func (st *AStar) NextRound(ctx context.Context, g *graph.Graph) (Round, error) {
	rounds, err := st.Search(ctx, g)
	if err != nil {
		return Round{}, err
	}
	if len(rounds) == 0 {
		return Round{}, errors.New(errors.ErrCodeInternal, "next round requested on empty graph")
	}
	return rounds[0], nil
}

// Search returns an optimal decomposition of g's remaining edges into
// rounds. An empty graph yields nil. Exceeding the expansion budget or the
// context deadline returns ErrBudgetExceeded (wrapped).
func (st *AStar) Search(ctx context.Context, g *graph.Graph) ([]Round, error) {
	if g.IsEmpty() {
		return nil, nil
	}

	key := graphKey(g)
	if rounds, ok := st.Table.Lookup(ctx, key); ok {
		return rounds, nil
	}

	cands, err := st.collectCandidates(ctx, g)
	if err != nil {
		return nil, err
	}

	bound := lowerBound(g)
	best := -1
	var bestRounds []Round
	for cands.Len() > 0 {
		c := heap.Pop(cands).(*candidate)
		rest := g.Clone()
		if err := rest.RemoveEdges(c.round.Edges); err != nil {
			return nil, err
		}
		if best >= 0 && 1+lowerBound(rest) >= best {
			continue
		}
		sub, err := st.Search(ctx, rest)
		if err != nil {
			return nil, err
		}
		if total := 1 + len(sub); best < 0 || total < best {
			best = total
			bestRounds = append([]Round{c.round}, sub...)
			if best == bound {
				break
			}
		}
	}

	st.Table.Store(ctx, key, bestRounds)
	return bestRounds, nil
}

// collectCandidates enumerates the rounds containing the first remaining
// edge into a max-heap ordered by realized edge count.
func (st *AStar) collectCandidates(ctx context.Context, g *graph.Graph) (*candidateHeap, error) {
	first, _ := g.FirstEdge()
	cands := &candidateHeap{}
	expand := func() error {
		if err := ctx.Err(); err != nil {
			return ErrBudgetExceeded
		}
		if n := st.expansions.Add(1); st.MaxExpansions > 0 && n > st.MaxExpansions {
			return ErrBudgetExceeded
		}
		return nil
	}
	err := enumerateRounds(st.Validator, g, first, st.Canonical, expand, func(r Round) error {
		heap.Push(cands, &candidate{round: r, key: edgesKey(r.Edges)})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cands, nil
}

// lowerBound is an admissible estimate of the rounds needed for g: each
// node realizes at most six edges per round, so a node of residual degree d
// needs at least ceil(d/6) more rounds, and every component needs at least
// one.
func lowerBound(g *graph.Graph) int {
	if g.IsEmpty() {
		return 0
	}
	lb := (g.MaxDegree() + 5) / 6
	if comps := len(g.Components()); comps > lb {
		lb = comps
	}
	return lb
}

// candidate is one possible next round.
type candidate struct {
	round Round
	key   string
}

// candidateHeap pops candidates with the most realized edges first, with
// the edge-set key as a total tie-break so pop order is deterministic.
type candidateHeap []*candidate

func (h candidateHeap) Len() int { return len(h) }

func (h candidateHeap) Less(i, j int) bool {
	if len(h[i].round.Edges) != len(h[j].round.Edges) {
		return len(h[i].round.Edges) > len(h[j].round.Edges)
	}
	return h[i].key < h[j].key
}

func (h candidateHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *candidateHeap) Push(x any) { *h = append(*h, x.(*candidate)) }

func (h *candidateHeap) Pop() any {
	old := *h
	n := len(old)
	c := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return c
}
