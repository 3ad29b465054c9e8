// Package render turns decompositions into human-readable output: ASCII
// lattice diagrams for terminals and DOT/SVG/PNG graphs via Graphviz.
package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/matzehuels/prost/pkg/graph"
	"github.com/matzehuels/prost/pkg/lattice"
	"github.com/matzehuels/prost/pkg/solve"
)

// ASCIIRound draws one round's lattice configuration. Each node is printed
// in a 3-character cell; realized edges appear as "-" to the right
// neighbor and as "/" and "\" to the two lower neighbors. Rows run top to
// bottom by decreasing R, with each row shifted two columns right per unit
// of R so the 60-degree axes read correctly.
func ASCIIRound(r solve.Round) string {
	if len(r.Placements) == 0 {
		return ""
	}

	pos := make(map[graph.Node]lattice.Position, len(r.Placements))
	at := make(map[lattice.Position]graph.Node, len(r.Placements))
	for _, p := range r.Placements {
		pos[p.Node] = p.Pos
		at[p.Pos] = p.Node
	}
	realized := make(map[graph.Edge]struct{}, len(r.Edges))
	for _, e := range r.Edges {
		realized[e] = struct{}{}
	}
	linked := func(a graph.Node, p lattice.Position, d lattice.Direction) bool {
		b, ok := at[p.Neighbor(d)]
		if !ok {
			return false
		}
		_, ok = realized[graph.NewEdge(a, b)]
		return ok
	}

	// Group placements into rows by R, top row first.
	rows := make(map[int][]solve.Placement)
	minCol := 0
	maxR, minR := r.Placements[0].Pos.R, r.Placements[0].Pos.R
	first := true
	for _, p := range r.Placements {
		rows[p.Pos.R] = append(rows[p.Pos.R], p)
		c := col(p.Pos)
		if first || c < minCol {
			minCol = c
		}
		first = false
		if p.Pos.R > maxR {
			maxR = p.Pos.R
		}
		if p.Pos.R < minR {
			minR = p.Pos.R
		}
	}

	var sb strings.Builder
	for rr := maxR; rr >= minR; rr-- {
		row := rows[rr]
		if len(row) == 0 {
			continue
		}
		sortPlacements(row)

		line := 0
		for _, p := range row {
			x := col(p.Pos) - minCol
			pad(&sb, x-line)
			sb.WriteString(center3(int(p.Node)))
			if linked(p.Node, p.Pos, lattice.Right) {
				sb.WriteByte('-')
			} else {
				sb.WriteByte(' ')
			}
			line = x + 4
		}
		sb.WriteString("\n")

		if rr == minR {
			break
		}
		line = 0
		for _, p := range row {
			x := col(p.Pos) - minCol
			pad(&sb, x-line)
			if linked(p.Node, p.Pos, lattice.BottomLeft) {
				sb.WriteByte('/')
			} else {
				sb.WriteByte(' ')
			}
			sb.WriteByte(' ')
			if linked(p.Node, p.Pos, lattice.BottomRight) {
				sb.WriteByte('\\')
			} else {
				sb.WriteByte(' ')
			}
			sb.WriteByte(' ')
			line = x + 4
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), " \n") + "\n"
}

// ASCII draws every round of a decomposition with headers, grouped by time
// step.
func ASCII(d *solve.Decomposition) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "K_%d: %d rounds in %d time steps\n", d.N, d.RoundCount(), d.TimeStepCount())
	for si, step := range d.TimeSteps {
		fmt.Fprintf(&sb, "\nTime step %d\n", si+1)
		for _, ri := range step {
			fmt.Fprintf(&sb, "\nRound %d (%d edges)\n", ri+1, len(d.Rounds[ri].Edges))
			sb.WriteString(ASCIIRound(d.Rounds[ri]))
		}
	}
	return sb.String()
}

// col maps an axial position to its terminal column: four columns per Q
// step plus two per R step, which renders the diagonal axis at roughly 60
// degrees.
func col(p lattice.Position) int { return p.Q*4 + p.R*2 }

func pad(sb *strings.Builder, n int) {
	for i := 0; i < n; i++ {
		sb.WriteByte(' ')
	}
}

func center3(n int) string {
	s := fmt.Sprintf("%d", n)
	switch len(s) {
	case 1:
		return " " + s + " "
	case 2:
		return s + " "
	default:
		return s[:3]
	}
}

func sortPlacements(row []solve.Placement) {
	sort.Slice(row, func(i, j int) bool { return row[i].Pos.Q < row[j].Pos.Q })
}
