package solve

import (
	"context"

	"github.com/matzehuels/prost/pkg/errors"
	"github.com/matzehuels/prost/pkg/graph"
	"github.com/matzehuels/prost/pkg/lattice"
)

// MinRounds exhaustively computes the minimum number of rounds for g's
// remaining edges. It shares the round enumeration with the exact strategy
// but none of its machinery: no heuristic, no pruning, no priority order,
// no budget, and no symmetry dedup — states are identified literally, so
// the answer does not depend on the canonicalizer this oracle is used to
// cross-check. It is restricted to small graphs; orders above maxOrder are
// rejected.
func MinRounds(ctx context.Context, g *graph.Graph, lenient bool, maxOrder int) (int, error) {
	if maxOrder <= 0 {
		maxOrder = DefaultVerifyThreshold
	}
	if g.Order() > maxOrder {
		return 0, errors.New(errors.ErrCodeUnsupported, "exhaustive verification is limited to %d nodes, got %d", maxOrder, g.Order())
	}
	v := lattice.Validator{Lenient: lenient}
	memo := make(map[string]int)
	return verifyMin(ctx, v, g, memo)
}

func verifyMin(ctx context.Context, v lattice.Validator, g *graph.Graph, memo map[string]int) (int, error) {
	if g.IsEmpty() {
		return 0, nil
	}
	key := graphKey(g)
	if n, ok := memo[key]; ok {
		return n, nil
	}

	first, _ := g.FirstEdge()
	var rounds []Round
	expand := func() error { return ctx.Err() }
	err := enumerateRounds(v, g, first, false, expand, func(r Round) error {
		rounds = append(rounds, r)
		return nil
	})
	if err != nil {
		return 0, err
	}

	best := g.EdgeCount() + 1
	for _, r := range rounds {
		rest := g.Clone()
		if err := rest.RemoveEdges(r.Edges); err != nil {
			return 0, err
		}
		sub, err := verifyMin(ctx, v, rest, memo)
		if err != nil {
			return 0, err
		}
		if 1+sub < best {
			best = 1 + sub
		}
	}
	memo[key] = best
	return best, nil
}
