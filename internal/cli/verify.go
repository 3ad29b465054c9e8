package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/prost/pkg/graph"
	"github.com/matzehuels/prost/pkg/solve"
)

// verifyCommand creates the verify command, which cross-checks the
// optimized search against the plain exhaustive one.
func (c *CLI) verifyCommand() *cobra.Command {
	var (
		lenient   bool
		threshold int
	)

	cmd := &cobra.Command{
		Use:   "verify <n>",
		Short: "Cross-check the solver against the exhaustive search",
		Long: `Verify solves K_n twice: once with the memoized branch-and-bound and
once with the unpruned exhaustive enumeration, and fails if the round
counts disagree. Only practical for small n.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("n must be an integer, got %q", args[0])
			}

			solver, err := solve.New(solve.Options{
				Mode:    solve.ModeAStar,
				Lenient: lenient,
				Logger:  c.Logger,
			})
			if err != nil {
				return err
			}

			spinner := newSpinnerWithContext(cmd.Context(), fmt.Sprintf("Verifying K_%d...", n))
			spinner.Start()
			d, err := solver.Decompose(cmd.Context(), n)
			if err != nil {
				spinner.Stop()
				return err
			}

			g, err := graph.New(n)
			if err != nil {
				spinner.Stop()
				return err
			}
			want, err := solve.MinRounds(cmd.Context(), g, lenient, threshold)
			spinner.Stop()
			if err != nil {
				return err
			}

			if err := d.Validate(); err != nil {
				printError("solver decomposition is structurally invalid")
				return err
			}
			if d.RoundCount() != want {
				printError("solver found %d rounds, exhaustive search found %d", d.RoundCount(), want)
				return fmt.Errorf("verification failed for n=%d", n)
			}

			printSuccess("K_%d verified: %d rounds is optimal", n, want)
			printDetail("expansions: %d, cache hits: %d", d.Stats.Expansions, d.Stats.CacheHits)
			return nil
		},
	}

	cmd.Flags().BoolVar(&lenient, "lenient", false, "allow rounds to realize a subset of adjacent pairs")
	cmd.Flags().IntVar(&threshold, "threshold", 0, "largest n the exhaustive search accepts (0 = default)")

	return cmd
}
