// Package svg materializes a computed layout as a standalone SVG document.
//
// The output is deterministic: the same layout and theme always produce
// byte-identical SVG, which keeps artifacts cacheable by content hash.
package svg

import (
	"bytes"
	"fmt"

	"github.com/figflow/figflow/pkg/layout"
	"github.com/figflow/figflow/pkg/render/styles"
)

// Node box geometry. Positions coming from the layout engine are shape
// centers, so rects are offset by half these dimensions.
const (
	NodeWidth    = 160.0
	NodeHeight   = 60.0
	CornerRadius = 12.0

	fontFamily = "Inter, Helvetica, Arial, sans-serif"
	fontSize   = 16
	edgeStroke = "#334155"
)

const arrowMarker = `  <defs>
    <marker id="arrow" markerWidth="10" markerHeight="7" refX="10" refY="3.5" orient="auto" markerUnits="strokeWidth">
      <path d="M0,0 L0,7 L10,3.5 z" fill="#334155"/>
    </marker>
  </defs>
`

type Option func(*renderer)

type renderer struct {
	theme     styles.Theme
	showTitle bool
}

// WithTheme overrides the default theme.
func WithTheme(t styles.Theme) Option { return func(r *renderer) { r.theme = t } }

// WithTitle draws the layout's title across the top of the canvas.
func WithTitle() Option { return func(r *renderer) { r.showTitle = true } }

// Render produces the SVG document for a layout. Nodes are drawn as
// rounded rectangles with wrapped labels, edges as straight arrows between
// node centers.
func Render(l layout.Result, opts ...Option) []byte {
	r := renderer{theme: styles.Default()}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">`+"\n",
		l.Width, l.Height, l.Width, l.Height)
	buf.WriteString(arrowMarker)

	if r.showTitle && l.Title != "" {
		renderTitle(&buf, l)
	}

	for _, n := range l.Nodes {
		shape := r.theme.ShapeFor(n.Type)
		renderNodeRect(&buf, n, shape)
		renderNodeLabel(&buf, n, shape)
	}

	lookup := l.NodeMap()
	for _, e := range l.Edges {
		renderEdge(&buf, lookup[e.From], lookup[e.To], e.Label)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderTitle(buf *bytes.Buffer, l layout.Result) {
	fmt.Fprintf(buf, `  <text x="%.2f" y="%.2f" fill="#0f172a" font-family="%s" font-size="20px" font-weight="bold" text-anchor="middle">%s</text>`+"\n",
		l.Width/2, 30.0, fontFamily, EscapeXML(l.Title))
}

func renderNodeRect(buf *bytes.Buffer, n layout.PositionedNode, s styles.Shape) {
	fmt.Fprintf(buf, `  <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="%.0f" ry="%.0f" fill="%s" stroke="%s" stroke-width="%g"/>`+"\n",
		n.X-NodeWidth/2, n.Y-NodeHeight/2, NodeWidth, NodeHeight,
		CornerRadius, CornerRadius, s.Fill, s.Stroke, s.StrokeWidth)
}

func renderNodeLabel(buf *bytes.Buffer, n layout.PositionedNode, s styles.Shape) {
	fmt.Fprintf(buf, `  <text x="%.2f" y="%.2f" fill="%s" font-family="%s" font-size="%dpx" text-anchor="middle" dominant-baseline="middle">`,
		n.X, n.Y, s.TextColor, fontFamily, fontSize)

	lines := WrapLabel(n.DisplayLabel(), WrapWidth)
	if len(lines) == 1 {
		buf.WriteString(EscapeXML(lines[0]))
	} else {
		for i, line := range lines {
			dy := "1.2em"
			if i == 0 {
				dy = "0"
			}
			fmt.Fprintf(buf, `<tspan x="%.2f" dy="%s">%s</tspan>`, n.X, dy, EscapeXML(line))
		}
	}
	buf.WriteString("</text>\n")
}

func renderEdge(buf *bytes.Buffer, from, to layout.PositionedNode, label string) {
	fmt.Fprintf(buf, `  <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="2" marker-end="url(#arrow)"`,
		from.X, from.Y, to.X, to.Y, edgeStroke)
	if label != "" {
		fmt.Fprintf(buf, ` data-label="%s"`, EscapeXML(label))
	}
	buf.WriteString("/>\n")
}
