package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/figflow/figflow/pkg/layout"
	"github.com/figflow/figflow/pkg/plan"
)

// layoutOpts holds the command-line flags for the layout command.
type layoutOpts struct {
	output string  // output file path (stdout if empty)
	width  float64 // canvas width in pixels
	height float64 // canvas height in pixels
}

// newLayoutCmd creates the layout command. It accepts either a DSL spec
// file or a plan JSON file and writes the positioned layout as JSON.
func newLayoutCmd() *cobra.Command {
	opts := layoutOpts{width: layout.DefaultWidth, height: layout.DefaultHeight}

	cmd := &cobra.Command{
		Use:   "layout [spec-or-plan-file]",
		Short: "Compute a deterministic layout for a spec or plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLayout(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if omitted)")
	cmd.Flags().Float64Var(&opts.width, "width", opts.width, "canvas width")
	cmd.Flags().Float64Var(&opts.height, "height", opts.height, "canvas height")

	return cmd
}

func runLayout(ctx context.Context, input string, opts *layoutOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	p, err := loadPlan(input)
	if err != nil {
		return err
	}
	logger.Debugf("Loaded plan: %d nodes, %d edges", p.NodeCount(), p.EdgeCount())

	result, err := layout.Compute(p, layout.Options{Width: opts.width, Height: opts.height})
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Laid out %d nodes on a %gx%g canvas", len(result.Nodes), result.Width, result.Height))

	if opts.output == "" {
		data, err := layout.Marshal(result)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(append(data, '\n'))
		return err
	}
	if err := layout.WriteFile(result, opts.output); err != nil {
		return err
	}

	printSuccess("Wrote layout")
	printFile(opts.output)
	printNextStep("Render it", fmt.Sprintf("figflow render %s", input))
	return nil
}

// loadPlan reads a plan from either a DSL spec file or a plan JSON file,
// dispatching on the file extension.
func loadPlan(input string) (*plan.Plan, error) {
	if strings.EqualFold(filepath.Ext(input), ".json") {
		return plan.ReadFile(input)
	}
	data, err := os.ReadFile(input)
	if err != nil {
		return nil, fmt.Errorf("read spec: %w", err)
	}
	return plan.Parse(string(data), plan.ParseOptions{})
}
