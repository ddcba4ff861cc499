// Package dot exports plans as Graphviz DOT and renders them to SVG
// through the graphviz engine. It is an alternative output path for users
// who want graphviz's own layout instead of the deterministic layered one.
package dot

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/figflow/figflow/pkg/plan"
	"github.com/figflow/figflow/pkg/render/styles"
)

// Options configures DOT generation.
type Options struct {
	// Theme supplies per-type node colors. Zero value uses the default
	// theme.
	Theme styles.Theme

	// Rankdir sets the graphviz layout direction. Defaults to "LR" to
	// match the layered engine's left-to-right flow.
	Rankdir string
}

// ToDOT converts a plan to Graphviz DOT format. Node colors follow the
// theme's shape for each node type; edge labels become DOT edge labels.
func ToDOT(p *plan.Plan, opts Options) string {
	theme := opts.Theme
	if len(theme.Shapes) == 0 {
		theme = styles.Default()
	}
	rankdir := opts.Rankdir
	if rankdir == "" {
		rankdir = "LR"
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", rankdir)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	if p.Title != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n", p.Title)
	}
	buf.WriteString("\n")

	for _, n := range p.Nodes {
		shape := theme.ShapeFor(n.Type)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, nodeAttrs(n, shape))
	}

	buf.WriteString("\n")
	for _, e := range p.Edges {
		if e.Label != "" {
			fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", e.From, e.To, e.Label)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n plan.Node, s styles.Shape) string {
	attrs := []string{
		fmt.Sprintf("label=%q", n.DisplayLabel()),
		fmt.Sprintf("fillcolor=%q", s.Fill),
		fmt.Sprintf("color=%q", s.Stroke),
		fmt.Sprintf("fontcolor=%q", s.TextColor),
	}
	return strings.Join(attrs, ", ")
}

// RenderSVG renders a DOT graph to SVG using graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
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
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}
