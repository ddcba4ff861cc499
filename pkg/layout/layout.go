// Package layout implements the deterministic layout engine: it takes an
// abstract plan (nodes and directed edges, no positions) and produces a
// collision-free 2-D arrangement inside a fixed canvas.
//
// The engine works in two stages:
//
//  1. Layering: every node gets an integer depth consistent with edge
//     direction (longest-path relaxation, tolerant of cycles and
//     disconnected nodes).
//  2. Placement: layers become left-to-right columns; within a column
//     nodes stack vertically in lexicographic ID order, centered in the
//     canvas.
//
// [Compute] is a pure function of (plan, canvas size): no shared state, no
// I/O, safe for concurrent use with independent plans.
package layout

import (
	"github.com/figflow/figflow/pkg/errors"
	"github.com/figflow/figflow/pkg/plan"
)

// Spacing and canvas constants. These are part of the visual contract:
// changing them changes every rendered diagram.
const (
	// HorizontalSpacing is the distance between adjacent layer columns.
	HorizontalSpacing = 200.0
	// VerticalSpacing is the distance between vertically stacked nodes.
	VerticalSpacing = 140.0
	// Margin is the canvas padding on the left and top edges.
	Margin = 60.0

	// DefaultWidth is the default canvas width when none is supplied.
	DefaultWidth = 800.0
	// DefaultHeight is the default canvas height when none is supplied.
	DefaultHeight = 600.0
)

// Options configures a layout computation.
// Zero or negative dimensions fall back to the defaults.
type Options struct {
	Width  float64
	Height float64
}

// PositionedNode is a plan node plus the geometric center of its drawn
// shape. Metadata is a defensive copy; mutating it does not affect the
// source plan.
type PositionedNode struct {
	plan.Node `bson:"inline"`

	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Result is the positioned graph handed to a renderer: canvas size, one
// positioned node per input node, and the original edges unchanged.
type Result struct {
	Width  float64          `json:"width" bson:"width"`
	Height float64          `json:"height" bson:"height"`
	Nodes  []PositionedNode `json:"nodes" bson:"nodes"`
	Edges  []plan.Edge      `json:"edges" bson:"edges"`

	// Title and Description are carried through from the plan for
	// renderers that display them. Opaque to layout itself.
	Title       string `json:"title,omitempty" bson:"title,omitempty"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
}

// NodeMap returns a lookup map from node ID to positioned node.
func (r *Result) NodeMap() map[string]PositionedNode {
	m := make(map[string]PositionedNode, len(r.Nodes))
	for _, n := range r.Nodes {
		m[n.ID] = n
	}
	return m
}

// Compute generates a deterministic layout for the supplied plan.
//
// Every node in the plan appears exactly once in the result. Edges whose
// endpoints are not declared in the plan are rejected up front with an
// UNKNOWN_NODE error naming the dangling identifier. Cyclic and
// disconnected plans always produce a complete layout; an empty plan
// yields an empty result with the requested canvas size.
func Compute(p *plan.Plan, opts Options) (Result, error) {
	width, height := opts.Width, opts.Height
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}

	if err := checkEdgeEndpoints(p); err != nil {
		return Result{}, err
	}

	layers, err := assignLayers(p)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Width:       width,
		Height:      height,
		Nodes:       place(p, layers, width, height),
		Edges:       p.Edges,
		Title:       p.Title,
		Description: p.Description,
	}, nil
}

// checkEdgeEndpoints rejects edges naming node IDs absent from the plan.
// Failing here keeps a dangling reference from surfacing as a confusing
// lookup miss deep inside placement or rendering.
func checkEdgeEndpoints(p *plan.Plan) error {
	ids := make(map[string]struct{}, len(p.Nodes))
	for _, n := range p.Nodes {
		ids[n.ID] = struct{}{}
	}
	for _, e := range p.Edges {
		if _, ok := ids[e.From]; !ok {
			return errors.New(errors.ErrCodeUnknownNode, "edge %s->%s references unknown node %q", e.From, e.To, e.From)
		}
		if _, ok := ids[e.To]; !ok {
			return errors.New(errors.ErrCodeUnknownNode, "edge %s->%s references unknown node %q", e.From, e.To, e.To)
		}
	}
	return nil
}
