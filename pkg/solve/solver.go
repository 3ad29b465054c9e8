// Package solve decomposes a graph's edges into the fewest rounds, where a
// round is a set of edges realizable as a connected configuration on the
// triangular lattice.
//
// # Strategies
//
// Three strategies are available behind one interface:
//
//   - Greedy: deterministic one-pass maximizer, fast, upper bound.
//   - AStar: memoized branch-and-bound, exact, budget-capped.
//   - Hybrid: exact on sparse components, greedy on dense ones.
//
// # Usage
//
//	solver, err := solve.New(solve.Options{Mode: solve.ModeAStar})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	d, err := solver.Decompose(ctx, 6)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(d.RoundCount(), d.TimeStepCount())
//
// When the search budget runs out the solver does not fail: it finishes the
// affected components greedily and returns the decomposition with Exact set
// to false.
package solve

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/prost/pkg/errors"
	"github.com/matzehuels/prost/pkg/graph"
	"github.com/matzehuels/prost/pkg/lattice"
)

// ErrBudgetExceeded reports that the exact search ran out of expansions or
// time. Internally it aborts the search; callers of the Solver never see it
// as a failure, only as Exact=false on the result.
var ErrBudgetExceeded = stderrors.New("solve: search budget exceeded")

// Strategy produces the next round from a remaining graph without
// modifying it.
type Strategy interface {
	NextRound(ctx context.Context, g *graph.Graph) (Round, error)
}

// Solver drives rounds until no edges remain, subtracting each round's
// realized edges at the round boundary. Connected components are solved
// independently and concurrently; their rounds concatenate and their time
// steps interleave.
type Solver struct {
	opts  Options
	table *Table
	log   *log.Logger
}

// New creates a Solver, validating the options and filling defaults.
func New(opts Options) (*Solver, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	return &Solver{
		opts:  opts,
		table: NewTable(opts.TableLimit),
		log:   opts.Logger,
	}, nil
}

// Table exposes the memo table, which outlives individual solves. Reusing
// one Solver across growing n is what makes successive solves cheaper.
func (s *Solver) Table() *Table { return s.table }

// Decompose solves the complete graph K_n.
func (s *Solver) Decompose(ctx context.Context, n int) (*Decomposition, error) {
	g, err := graph.New(n)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "build K_%d", n)
	}
	return s.DecomposeGraph(ctx, g)
}

// DecomposeGraph solves an arbitrary remaining graph. The input is cloned;
// the caller's graph is untouched.
func (s *Solver) DecomposeGraph(ctx context.Context, g *graph.Graph) (*Decomposition, error) {
	start := time.Now()
	if s.opts.Budget.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Budget.Timeout)
		defer cancel()
	}

	if s.opts.Store != nil {
		if err := s.table.Load(ctx, s.opts.Store, s.opts.Keyer, "memo"); err != nil {
			s.log.Warn("memo table load failed, starting cold", "err", err)
		}
	}

	astar := &AStar{
		Validator:     lattice.Validator{Lenient: s.opts.Lenient},
		Table:         s.table,
		Canonical:     !s.opts.SkipCanonical,
		MaxExpansions: s.opts.Budget.MaxExpansions,
	}

	comps := g.Components()
	results := make([]componentResult, len(comps))
	jobs := make(chan int)
	var wg sync.WaitGroup
	workers := s.opts.Workers
	if workers > len(comps) {
		workers = len(comps)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				sub := g.Subgraph(comps[i])
				results[i] = s.solveComponent(ctx, sub, astar)
			}
		}()
	}
	for i := range comps {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	d := &Decomposition{
		N:       g.Order(),
		Lenient: s.opts.Lenient,
		Exact:   true,
	}
	budgetHit := false
	for i, res := range results {
		if res.err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, res.err, "solve component %d", i)
		}
		d.Rounds = append(d.Rounds, res.rounds...)
		if !res.exact {
			d.Exact = false
		}
		if res.budget {
			budgetHit = true
		}
	}
	d.TimeSteps = mergeTimeSteps(d.Rounds)
	d.Stats = Stats{
		Mode:        s.opts.Mode,
		Expansions:  astar.Expansions(),
		CacheHits:   s.table.Hits(),
		CacheMisses: s.table.Misses(),
		Components:  len(comps),
		BudgetHit:   budgetHit,
		Duration:    time.Since(start),
	}

	if s.opts.Store != nil {
		if err := s.table.Persist(ctx, s.opts.Store, s.opts.Keyer, "memo", s.opts.StoreTTL); err != nil {
			s.log.Warn("memo table persist failed", "err", err)
		}
	}

	s.log.Info("decomposition complete",
		"n", d.N,
		"rounds", d.RoundCount(),
		"time_steps", d.TimeStepCount(),
		"exact", d.Exact,
		"expansions", d.Stats.Expansions,
		"duration", d.Stats.Duration)
	return d, nil
}

type componentResult struct {
	rounds []Round
	exact  bool
	budget bool
	err    error
}

// solveComponent decomposes one connected component. Budget exhaustion in
// the exact search falls back to a greedy completion of the whole
// component, flagged inexact.
func (s *Solver) solveComponent(ctx context.Context, g *graph.Graph, astar *AStar) componentResult {
	exact := s.opts.Mode == ModeAStar ||
		(s.opts.Mode == ModeHybrid && averageDegree(g) <= s.opts.HybridDensity)

	budget := false
	if exact {
		rounds, err := astar.Search(ctx, g)
		if err == nil {
			return componentResult{rounds: rounds, exact: true}
		}
		if !stderrors.Is(err, ErrBudgetExceeded) {
			return componentResult{err: err}
		}
		budget = true
		s.log.Debug("budget exceeded, completing greedily",
			"nodes", g.Order(), "edges", g.EdgeCount())
		// The deadline may already have fired; the greedy completion is
		// cheap and must still run.
		ctx = context.WithoutCancel(ctx)
	}

	rounds, err := s.greedyAll(ctx, g.Clone())
	if stderrors.Is(err, context.DeadlineExceeded) {
		// The solve timeout fired during the greedy pass itself. The budget
		// is a result, not a failure: finish the component uncancelled and
		// flag the hit.
		budget = true
		rounds, err = s.greedyAll(context.WithoutCancel(ctx), g.Clone())
	}
	if err != nil {
		return componentResult{err: err}
	}
	return componentResult{rounds: rounds, budget: budget}
}

// greedyAll runs the greedy strategy to exhaustion, mutating g.
func (s *Solver) greedyAll(ctx context.Context, g *graph.Graph) ([]Round, error) {
	st := &Greedy{Validator: lattice.Validator{Lenient: s.opts.Lenient}}
	var rounds []Round
	for !g.IsEmpty() {
		r, err := st.NextRound(ctx, g)
		if err != nil {
			return nil, err
		}
		if err := g.RemoveEdges(r.Edges); err != nil {
			return nil, err
		}
		rounds = append(rounds, r)
	}
	return rounds, nil
}

// averageDegree is 2E/N over nodes that still have edges. The degree
// sequence is sorted descending, so active nodes form its prefix.
func averageDegree(g *graph.Graph) float64 {
	active := 0
	for _, d := range g.DegreeSequence() {
		if d == 0 {
			break
		}
		active++
	}
	if active == 0 {
		return 0
	}
	return float64(2*g.EdgeCount()) / float64(active)
}
