package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/prost/pkg/pipeline"
	"github.com/matzehuels/prost/pkg/render"
	"github.com/matzehuels/prost/pkg/solve"
)

// browseCommand creates the browse command, an interactive round viewer.
func (c *CLI) browseCommand() *cobra.Command {
	var (
		mode    string
		lenient bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "browse <n>",
		Short: "Step through the rounds of a decomposition interactively",
		Args:  cobra.ExactArgs(1),
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
			d, _, err := runner.SolveWithCacheInfo(cmd.Context(), pipeline.Options{
				N:      n,
				Logger: c.Logger,
				Solver: solve.Options{Mode: solveMode, Lenient: lenient},
			})
			if err != nil {
				return err
			}
			if d.RoundCount() == 0 {
				printInfo("K_%d has no edges, nothing to browse", n)
				return nil
			}

			model := newBrowseModel(d)
			_, err = tea.NewProgram(model, tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	cmd.Flags().StringVarP(&mode, "mode", "m", c.Config.defaultMode(), "search mode: greedy, astar, or hybrid")
	cmd.Flags().BoolVar(&lenient, "lenient", false, "allow rounds to realize a subset of adjacent pairs")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")

	return cmd
}

var (
	browseSelected = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	browseDiagram  = lipgloss.NewStyle().Padding(1, 2)
)

// browseModel is the bubbletea model for stepping through rounds.
type browseModel struct {
	d      *solve.Decomposition
	cursor int
}

func newBrowseModel(d *solve.Decomposition) browseModel {
	return browseModel{d: d}
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h", "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "right", "l", "down", "j":
			if m.cursor < m.d.RoundCount()-1 {
				m.cursor++
			}
		case "home", "g":
			m.cursor = 0
		case "end", "G":
			m.cursor = m.d.RoundCount() - 1
		}
	}
	return m, nil
}

func (m browseModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(fmt.Sprintf("K_%d decomposition", m.d.N)))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("←/→ switch round  q quit"))
	b.WriteString("\n\n")

	for i := range m.d.Rounds {
		label := fmt.Sprintf(" %d ", i+1)
		if i == m.cursor {
			b.WriteString(browseSelected.Render("[" + strings.TrimSpace(label) + "]"))
		} else {
			b.WriteString(StyleDim.Render(label))
		}
	}
	b.WriteString("\n")

	r := m.d.Rounds[m.cursor]
	step := 0
	for si, indices := range m.d.TimeSteps {
		for _, ri := range indices {
			if ri == m.cursor {
				step = si + 1
			}
		}
	}
	b.WriteString(StyleDim.Render(fmt.Sprintf("round %d of %d · %d edges · time step %d",
		m.cursor+1, m.d.RoundCount(), len(r.Edges), step)))
	b.WriteString("\n")
	b.WriteString(browseDiagram.Render(render.ASCIIRound(r)))
	b.WriteString("\n")

	return b.String()
}
