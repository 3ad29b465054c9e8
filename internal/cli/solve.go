package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/prost/pkg/pipeline"
	"github.com/matzehuels/prost/pkg/solve"
)

// solveCommand creates the solve command.
func (c *CLI) solveCommand() *cobra.Command {
	var (
		mode          string
		formats       string
		output        string
		lenient       bool
		detailed      bool
		noCache       bool
		refresh       bool
		maxExpansions int64
		timeout       time.Duration
		workers       int
	)

	cmd := &cobra.Command{
		Use:   "solve <n>",
		Short: "Decompose K_n into the fewest lattice-embeddable rounds",
		Long: `Solve computes a clink decomposition: every pair among n participants
clinks exactly once, each round is a connected arrangement on the
triangular seating lattice, and the number of rounds is minimized.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("n must be an integer, got %q", args[0])
			}

			solveMode, err := solve.ParseMode(mode)
			if err != nil {
				return err
			}

			runner, err := c.newRunner(cmd.Context(), noCache)
			if err != nil {
				return err
			}

			opts := pipeline.Options{
				N:        n,
				Formats:  parseFormats(formats),
				Detailed: detailed,
				Refresh:  refresh,
				Logger:   c.Logger,
				Solver: solve.Options{
					Mode:    solveMode,
					Lenient: lenient || c.Config.Lenient,
					Workers: workers,
					Budget: solve.Budget{
						MaxExpansions: maxExpansions,
						Timeout:       timeout,
					},
				},
			}
			if opts.Solver.Budget.MaxExpansions == 0 {
				opts.Solver.Budget.MaxExpansions = c.Config.MaxExpansions
			}
			if opts.Solver.Workers == 0 {
				opts.Solver.Workers = c.Config.Workers
			}

			spinner := newSpinnerWithContext(cmd.Context(), fmt.Sprintf("Solving K_%d...", n))
			spinner.Start()
			result, err := runner.Execute(cmd.Context(), opts)
			spinner.Stop()
			if err != nil {
				return err
			}

			d := result.Decomposition
			printSuccess("Decomposed K_%d", n)
			printStats(d.RoundCount(), d.TimeStepCount(), d.Exact, result.CacheInfo.SolveHit)
			if d.Stats.BudgetHit {
				printWarning("search budget exceeded; round count is an upper bound (rerun with --max-expansions)")
			}

			return writeArtifacts(result, output, n)
		},
	}

	cmd.Flags().StringVarP(&mode, "mode", "m", c.Config.defaultMode(), "search mode: greedy, astar, or hybrid")
	cmd.Flags().StringVarP(&formats, "format", "f", c.Config.defaultFormats(), "output formats (comma-separated: ascii, json, dot, svg, png)")
	cmd.Flags().StringVarP(&output, "output", "o", ".", "directory for file artifacts")
	cmd.Flags().BoolVar(&lenient, "lenient", false, "allow rounds to realize a subset of adjacent pairs")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "label DOT edges with round numbers")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore cached results and re-solve")
	cmd.Flags().Int64Var(&maxExpansions, "max-expansions", 0, "search budget in state expansions (0 = default)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "wall-clock budget for the search (0 = none)")
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent component solvers (0 = GOMAXPROCS)")

	return cmd
}

// writeArtifacts prints terminal formats to stdout and writes the rest to
// files named prost-k<n>.<format> in the output directory.
func writeArtifacts(result *pipeline.Result, output string, n int) error {
	for _, format := range []string{pipeline.FormatASCII, pipeline.FormatJSON, pipeline.FormatDOT, pipeline.FormatSVG, pipeline.FormatPNG} {
		data, ok := result.Artifacts[format]
		if !ok {
			continue
		}
		if format == pipeline.FormatASCII {
			fmt.Print(string(data))
			continue
		}
		path := filepath.Join(output, fmt.Sprintf("prost-k%d.%s", n, format))
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	return nil
}
