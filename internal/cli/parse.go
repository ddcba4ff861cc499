package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/figflow/figflow/pkg/plan"
)

// parseOpts holds the command-line flags for the parse command.
type parseOpts struct {
	output      string // output file path (stdout if empty)
	defaultType string // node type assigned when the spec omits one
}

// newParseCmd creates the parse command. It turns a DSL spec file into a
// validated plan JSON document, the input format of the layout command.
func newParseCmd() *cobra.Command {
	var opts parseOpts

	cmd := &cobra.Command{
		Use:   "parse [spec-file]",
		Short: "Parse a diagram spec into a plan JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if omitted)")
	cmd.Flags().StringVar(&opts.defaultType, "default-type", plan.DefaultNodeType, "node type for nodes without an explicit one")

	return cmd
}

func runParse(ctx context.Context, input string, opts *parseOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("read spec: %w", err)
	}

	p, err := plan.Parse(string(data), plan.ParseOptions{DefaultNodeType: opts.defaultType})
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Parsed %d nodes, %d edges", p.NodeCount(), p.EdgeCount()))

	if opts.output == "" {
		return plan.Write(p, os.Stdout)
	}
	if err := plan.WriteFile(p, opts.output); err != nil {
		return err
	}

	printSuccess("Wrote plan")
	printFile(opts.output)
	printStats(p.NodeCount(), p.EdgeCount(), false)
	printNextStep("Compute a layout", fmt.Sprintf("figflow layout %s", opts.output))
	return nil
}
