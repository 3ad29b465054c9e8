package render

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/prost/pkg/solve"
)

// Options configures DOT rendering.
type Options struct {
	// Detailed labels every edge with its round number in addition to the
	// color coding.
	Detailed bool
}

// palette cycles through edge colors per round.
var palette = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// ToDOT converts a decomposition to Graphviz DOT format. Every node of the
// input graph appears once; each edge is colored by the round that
// realizes it. The resulting string can be rendered with [RenderSVG] or
// [RenderPNG].
func ToDOT(d *solve.Decomposition, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph clinks {\n")
	buf.WriteString("  layout=circo;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=18];\n")
	buf.WriteString("\n")

	for n := 1; n <= d.N; n++ {
		fmt.Fprintf(&buf, "  %d;\n", n)
	}

	buf.WriteString("\n")
	for ri, r := range d.Rounds {
		color := palette[ri%len(palette)]
		for _, e := range r.Edges {
			if opts.Detailed {
				fmt.Fprintf(&buf, "  %d -- %d [color=%q, label=%q];\n", e.A, e.B, color, fmt.Sprintf("r%d", ri+1))
				continue
			}
			fmt.Fprintf(&buf, "  %d -- %d [color=%q];\n", e.A, e.B, color)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	return renderFormat(ctx, dot, graphviz.SVG)
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return renderFormat(ctx, dot, graphviz.PNG)
}

func renderFormat(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
