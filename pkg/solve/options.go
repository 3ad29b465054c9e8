package solve

import (
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/prost/pkg/cache"
	"github.com/matzehuels/prost/pkg/errors"
)

// Mode selects the round-search strategy.
type Mode string

// Available search modes.
const (
	// ModeGreedy builds each round with the deterministic greedy maximizer.
	// Fast, round counts are upper bounds.
	ModeGreedy Mode = "greedy"

	// ModeAStar runs the exact memoized branch-and-bound search. Round
	// counts are minimal unless the budget runs out.
	ModeAStar Mode = "astar"

	// ModeHybrid runs the exact search on components below the density
	// threshold and greedy on the rest.
	ModeHybrid Mode = "hybrid"
)

// ParseMode converts a string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeGreedy, ModeAStar, ModeHybrid:
		return Mode(s), nil
	default:
		return "", errors.New(errors.ErrCodeInvalidMode, "unknown mode %q (valid: greedy, astar, hybrid)", s)
	}
}

// =============================================================================
// Default Values - Single Source of Truth for CLI and Pipeline
// =============================================================================

const (
	// DefaultMode balances exactness and runtime.
	DefaultMode = ModeHybrid

	// DefaultHybridDensity is the average residual degree up to which
	// hybrid mode runs the exact search on a component.
	DefaultHybridDensity = 6.0

	// DefaultMaxExpansions caps search-state expansions per solve.
	DefaultMaxExpansions = int64(2_000_000)

	// DefaultTableLimit caps the number of memo-table entries.
	DefaultTableLimit = 1 << 18

	// DefaultVerifyThreshold is the largest graph order the exhaustive
	// verifier accepts.
	DefaultVerifyThreshold = 7
)

// Budget bounds the exact search. A zero field means unlimited.
type Budget struct {
	// MaxExpansions caps the number of search states expanded.
	MaxExpansions int64 `json:"max_expansions,omitempty"`

	// Timeout caps wall-clock time for one solve.
	Timeout time.Duration `json:"timeout,omitempty"`
}

// Options configures a Solver.
type Options struct {
	// Mode selects the strategy (greedy, astar, hybrid).
	Mode Mode `json:"mode,omitempty"`

	// Lenient relaxes embeddability: a round's realized edges may be a
	// proper subset of the lattice-adjacent pairs among its nodes.
	Lenient bool `json:"lenient,omitempty"`

	// SkipCanonical disables symmetry canonicalization of search states.
	// Dedup then falls back to literal placement identity, which explores
	// up to twelve times more states (default: false = canonicalize).
	SkipCanonical bool `json:"skip_canonical,omitempty"`

	// HybridDensity is the average residual degree threshold for hybrid
	// mode. Components at or below it get the exact search.
	HybridDensity float64 `json:"hybrid_density,omitempty"`

	// Budget bounds the exact search; on exhaustion the solver completes
	// greedily and flags the result inexact.
	Budget Budget `json:"budget,omitempty"`

	// Workers is the number of components solved concurrently.
	Workers int `json:"workers,omitempty"`

	// TableLimit caps memo-table entries. Entries past the limit are
	// computed but not retained.
	TableLimit int `json:"table_limit,omitempty"`

	// VerifyThreshold is passed through to the exhaustive verifier.
	VerifyThreshold int `json:"verify_threshold,omitempty"`

	// Runtime collaborators (not serialized)
	Logger *log.Logger `json:"-"`

	// Store persists the memo table across solver instances. Optional.
	Store cache.Cache `json:"-"`

	// Keyer scopes store keys. Defaults to a keyer scoped by mode and
	// strictness so incompatible runs never share entries.
	Keyer cache.Keyer `json:"-"`

	// StoreTTL bounds the lifetime of persisted entries. Zero means no
	// expiry.
	StoreTTL time.Duration `json:"-"`
}

// ValidateAndSetDefaults checks the options and fills in defaults.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Mode == "" {
		o.Mode = DefaultMode
	}
	switch o.Mode {
	case ModeGreedy, ModeAStar, ModeHybrid:
	default:
		return errors.New(errors.ErrCodeInvalidMode, "unknown mode %q", o.Mode)
	}
	if o.HybridDensity == 0 {
		o.HybridDensity = DefaultHybridDensity
	}
	if o.HybridDensity < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "hybrid_density must be non-negative, got %v", o.HybridDensity)
	}
	if o.Budget.MaxExpansions == 0 {
		o.Budget.MaxExpansions = DefaultMaxExpansions
	}
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.TableLimit == 0 {
		o.TableLimit = DefaultTableLimit
	}
	if o.VerifyThreshold == 0 {
		o.VerifyThreshold = DefaultVerifyThreshold
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if o.Store != nil && o.Keyer == nil {
		o.Keyer = cache.NewScopedKeyer(cache.NewDefaultKeyer(), o.scope())
	}
	return nil
}

// scope isolates persisted entries by everything that changes their meaning.
func (o *Options) scope() string {
	s := string(o.Mode) + ":strict:"
	if o.Lenient {
		s = string(o.Mode) + ":lenient:"
	}
	return s
}
