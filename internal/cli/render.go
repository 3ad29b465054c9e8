package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	prostio "github.com/matzehuels/prost/pkg/io"
	"github.com/matzehuels/prost/pkg/pipeline"
	"github.com/matzehuels/prost/pkg/render"
)

// renderCommand creates the render command, which re-renders a previously
// exported decomposition without solving again.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formats  string
		output   string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "render <file.json>",
		Short: "Re-render an exported decomposition",
		Long: `Render reads a decomposition exported by "solve --format json" and
produces artifacts in the requested formats. The decomposition is
validated on import.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := prostio.ImportJSON(args[0])
			if err != nil {
				return err
			}

			list := parseFormats(formats)
			if err := pipeline.ValidateFormats(list); err != nil {
				return err
			}

			base := strings.TrimSuffix(filepath.Base(args[0]), ".json")
			for _, format := range list {
				switch format {
				case pipeline.FormatASCII:
					fmt.Print(render.ASCII(d))
				case pipeline.FormatJSON:
					// Re-exporting the input is a no-op; skip it.
					printDetail("skipping json (input already is)")
				case pipeline.FormatDOT:
					path := filepath.Join(output, base+".dot")
					dot := render.ToDOT(d, render.Options{Detailed: detailed})
					if err := os.WriteFile(path, []byte(dot), 0644); err != nil {
						return fmt.Errorf("write %s: %w", path, err)
					}
					printFile(path)
				case pipeline.FormatSVG, pipeline.FormatPNG:
					dot := render.ToDOT(d, render.Options{Detailed: detailed})
					var data []byte
					if format == pipeline.FormatSVG {
						data, err = render.RenderSVG(cmd.Context(), dot)
					} else {
						data, err = render.RenderPNG(cmd.Context(), dot)
					}
					if err != nil {
						return fmt.Errorf("render %s: %w", format, err)
					}
					path := filepath.Join(output, base+"."+format)
					if err := os.WriteFile(path, data, 0644); err != nil {
						return fmt.Errorf("write %s: %w", path, err)
					}
					printFile(path)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&formats, "format", "f", "ascii", "output formats (comma-separated: ascii, dot, svg, png)")
	cmd.Flags().StringVarP(&output, "output", "o", ".", "directory for file artifacts")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "label DOT edges with round numbers")

	return cmd
}
