package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/figflow/figflow/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output      string   // output file (single format) or base path (multiple)
	formats     []string // output formats: "svg", "dot", "json"
	engine      string   // SVG engine: "layered" or "graphviz"
	theme       string   // TOML theme file path
	width       float64  // canvas width in pixels
	height      float64  // canvas height in pixels
	title       bool     // draw the spec title onto the SVG
	noCache     bool     // disable the local artifact cache
	refresh     bool     // bypass cache reads, recompute everything
	defaultType string   // node type for nodes without an explicit one
}

// newRenderCmd creates the render command, the end-to-end entry point:
// spec in, artifacts out. Without an argument it opens an interactive
// picker over spec files in the current directory.
func newRenderCmd() *cobra.Command {
	var formatsStr string
	opts := renderOpts{
		width:  pipeline.DefaultWidth,
		height: pipeline.DefaultHeight,
	}

	cmd := &cobra.Command{
		Use:   "render [spec-file]",
		Short: "Render a diagram spec to SVG, DOT, or JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}

			input := ""
			if len(args) == 1 {
				input = args[0]
			} else {
				picked, err := pickSpecFile()
				if err != nil {
					return err
				}
				input = picked
			}
			return runRender(cmd.Context(), input, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, json (comma-separated)")
	cmd.Flags().StringVar(&opts.engine, "engine", "", "SVG engine: layered (default) or graphviz")
	cmd.Flags().StringVar(&opts.theme, "theme", "", "TOML theme file")
	cmd.Flags().Float64Var(&opts.width, "width", opts.width, "canvas width")
	cmd.Flags().Float64Var(&opts.height, "height", opts.height, "canvas height")
	cmd.Flags().BoolVar(&opts.title, "title", false, "draw the spec title onto the SVG")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the local artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute everything, ignoring cached results")
	cmd.Flags().StringVar(&opts.defaultType, "default-type", "", "node type for nodes without an explicit one")

	return cmd
}

func runRender(ctx context.Context, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)

	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("read spec: %w", err)
	}

	runner := newRunner(ctx, opts.noCache)
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s", input))
	spinner.Start()

	result, err := runner.Execute(ctx, pipeline.Options{
		Spec:            string(data),
		DefaultNodeType: opts.defaultType,
		Width:           opts.width,
		Height:          opts.height,
		Formats:         opts.formats,
		Engine:          opts.engine,
		Theme:           opts.theme,
		ShowTitle:       opts.title,
		Refresh:         opts.refresh,
		Logger:          logger,
	})
	if err != nil {
		if spinner.Cancelled() {
			spinner.Stop()
			return ctx.Err()
		}
		spinner.StopWithError(fmt.Sprintf("Render failed: %v", err))
		return err
	}
	spinner.StopWithSuccess(fmt.Sprintf("Rendered %s", input))
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.RenderHit)

	return writeArtifacts(input, opts, result.Artifacts)
}

// writeArtifacts writes each rendered format to disk. A single format
// goes to --output directly; multiple formats derive per-format names
// from the base path.
func writeArtifacts(input string, opts *renderOpts, artifacts map[string][]byte) error {
	if len(opts.formats) == 1 {
		format := opts.formats[0]
		path := opts.output
		if path == "" {
			path = basePath("", input) + "." + format
		}
		if err := os.WriteFile(path, artifacts[format], 0644); err != nil {
			return err
		}
		printFile(path)
		return nil
	}

	base := basePath(opts.output, input)
	for _, format := range opts.formats {
		path := fmt.Sprintf("%s.%s", base, format)
		if err := os.WriteFile(path, artifacts[format], 0644); err != nil {
			return err
		}
		printFile(path)
	}
	return nil
}
