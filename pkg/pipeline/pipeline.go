// Package pipeline provides the solve → render pipeline for prost.
//
// This package implements the complete model → solve → render flow shared
// by every entry point. Centralizing it keeps CLI behavior and any future
// surface identical.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Solve: decompose K_n (or an imported graph) into rounds
//  2. Render: produce output artifacts (ascii, json, dot, svg, png)
//
// Solve results are cached by n and the solver options that affect them,
// so re-rendering a known decomposition in a new format never re-runs the
// search.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    N:       7,
//	    Formats: []string{"ascii", "svg"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(string(result.Artifacts["ascii"]))
package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/prost/pkg/cache"
	"github.com/matzehuels/prost/pkg/errors"
	prostio "github.com/matzehuels/prost/pkg/io"
	"github.com/matzehuels/prost/pkg/render"
	"github.com/matzehuels/prost/pkg/solve"
)

// Output formats.
const (
	FormatASCII = "ascii"
	FormatJSON  = "json"
	FormatDOT   = "dot"
	FormatSVG   = "svg"
	FormatPNG   = "png"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatASCII: true,
	FormatJSON:  true,
	FormatDOT:   true,
	FormatSVG:   true,
	FormatPNG:   true,
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if !ValidFormats[f] {
			return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: ascii, json, dot, svg, png)", f)
		}
	}
	return nil
}

// Options configures a pipeline run.
type Options struct {
	// N is the number of clink participants; the input graph is K_N.
	N int `json:"n"`

	// Solver carries the search configuration.
	Solver solve.Options `json:"solver"`

	// Formats selects the artifacts to produce (default: ascii).
	Formats []string `json:"formats,omitempty"`

	// Detailed labels DOT edges with round numbers.
	Detailed bool `json:"detailed,omitempty"`

	// Refresh skips the result cache and re-solves.
	Refresh bool `json:"refresh,omitempty"`

	// Logger is propagated into the solver (not serialized).
	Logger *log.Logger `json:"-"`

	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// Idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.N < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "n must be at least 1, got %d", o.N)
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatASCII}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if o.Solver.Logger == nil {
		o.Solver.Logger = o.Logger
	}
	o.validated = true
	return nil
}

// solveFingerprint hashes everything that changes the solve result, for
// the result-cache key.
func (o *Options) solveFingerprint() string {
	data, _ := json.Marshal(struct {
		Mode    solve.Mode   `json:"mode"`
		Lenient bool         `json:"lenient"`
		Budget  solve.Budget `json:"budget"`
		Density float64      `json:"density"`
	}{o.Solver.Mode, o.Solver.Lenient, o.Solver.Budget, o.Solver.HybridDensity})
	return cache.Hash(data)
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID uniquely identifies this execution in logs and artifacts.
	RunID string

	// Decomposition is the solved model.
	Decomposition *solve.Decomposition

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	SolveTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits per pipeline stage.
type CacheInfo struct {
	SolveHit bool // Whether the decomposition came from the result cache
}

// Runner executes the pipeline with caching. It is stateless apart from
// the cache, keyer and logger, so one Runner serves concurrent runs with
// different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables result caching, a nil
// keyer selects the default keyer, a nil logger the default logger.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs the complete solve → render pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{
		RunID:     uuid.NewString(),
		Artifacts: make(map[string][]byte),
	}

	solveStart := time.Now()
	d, hit, err := r.SolveWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Decomposition = d
	result.Stats.SolveTime = time.Since(solveStart)
	result.CacheInfo.SolveHit = hit

	r.Logger.Info("solved",
		"run_id", result.RunID,
		"n", d.N,
		"rounds", d.RoundCount(),
		"time_steps", d.TimeStepCount(),
		"exact", d.Exact,
		"cached", hit,
		"duration", result.Stats.SolveTime)

	renderStart := time.Now()
	for _, format := range opts.Formats {
		artifact, err := r.renderFormat(ctx, d, format, opts)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "render %s", format)
		}
		result.Artifacts[format] = artifact
	}
	result.Stats.RenderTime = time.Since(renderStart)

	return result, nil
}

// SolveWithCacheInfo returns the decomposition for the options, from the
// result cache when possible, and reports whether it was a hit.
func (r *Runner) SolveWithCacheInfo(ctx context.Context, opts Options) (*solve.Decomposition, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	key := r.Keyer.ResultKey(opts.N, opts.solveFingerprint())

	if !opts.Refresh {
		if data, ok, err := r.Cache.Get(ctx, key); err == nil && ok {
			if d, err := prostio.ReadJSON(bytes.NewReader(data)); err == nil {
				return d, true, nil
			}
			// Corrupt entries are dropped and recomputed.
			_ = r.Cache.Delete(ctx, key)
		}
	}

	solver, err := solve.New(opts.Solver)
	if err != nil {
		return nil, false, err
	}
	d, err := solver.Decompose(ctx, opts.N)
	if err != nil {
		return nil, false, err
	}

	var buf bytes.Buffer
	if err := prostio.WriteJSON(d, &buf); err == nil {
		if err := r.Cache.Set(ctx, key, buf.Bytes(), 0); err != nil {
			r.Logger.Warn("result cache write failed", "err", err)
		}
	}
	return d, false, nil
}

func (r *Runner) renderFormat(ctx context.Context, d *solve.Decomposition, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatASCII:
		return []byte(render.ASCII(d)), nil
	case FormatJSON:
		var buf bytes.Buffer
		if err := prostio.WriteJSON(d, &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatDOT:
		return []byte(render.ToDOT(d, render.Options{Detailed: opts.Detailed})), nil
	case FormatSVG:
		return render.RenderSVG(ctx, render.ToDOT(d, render.Options{Detailed: opts.Detailed}))
	case FormatPNG:
		return render.RenderPNG(ctx, render.ToDOT(d, render.Options{Detailed: opts.Detailed}))
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}
