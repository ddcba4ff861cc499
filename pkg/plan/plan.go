// Package plan defines the abstract diagram model: named nodes, directed
// edges, and the plan that holds them.
//
// A Plan is the position-free graph extracted from a textual figure
// specification. It is produced by [Parse] (or decoded from JSON with
// [ReadFile]), consumed by the layout engine, and never mutated after
// construction.
package plan

import (
	"github.com/figflow/figflow/pkg/errors"
)

// DefaultNodeType is the category assigned to nodes that do not declare one.
const DefaultNodeType = "process"

// Node represents a single diagram element.
//
// The zero value is not usable - ID must be non-empty before the node is
// added to a plan. IDs are unique within a plan; the parser enforces this.
type Node struct {
	ID    string            `json:"id" bson:"id"`
	Label string            `json:"label" bson:"label"`
	Type  string            `json:"type,omitempty" bson:"type,omitempty"` // Category driving visual style
	Meta  map[string]string `json:"meta,omitempty" bson:"meta,omitempty"` // Carried through layout unchanged
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Edge represents a directed relationship between two nodes.
// From and To reference node IDs within the same plan.
type Edge struct {
	From  string `json:"from" bson:"from"`
	To    string `json:"to" bson:"to"`
	Label string `json:"label,omitempty" bson:"label,omitempty"`
}

// Plan is the structured view of a figure specification: ordered nodes and
// edges plus optional title and description. Title and description are
// opaque to layout and rendering positions; the SVG renderer uses the title
// as the document heading when present.
type Plan struct {
	Nodes       []Node `json:"nodes" bson:"nodes"`
	Edges       []Edge `json:"edges" bson:"edges"`
	Title       string `json:"title,omitempty" bson:"title,omitempty"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
}

// NodeMap returns a lookup map from node ID to node.
// When duplicate IDs are present the last declaration wins.
func (p *Plan) NodeMap() map[string]Node {
	m := make(map[string]Node, len(p.Nodes))
	for _, n := range p.Nodes {
		m[n.ID] = n
	}
	return m
}

// NodeCount returns the number of nodes in the plan.
func (p *Plan) NodeCount() int { return len(p.Nodes) }

// EdgeCount returns the number of edges in the plan.
func (p *Plan) EdgeCount() int { return len(p.Edges) }

// Validate checks plan integrity: non-empty node IDs, unique node IDs, and
// edges whose endpoints reference declared nodes.
//
// Returns an INVALID_SPEC error for ID problems and an UNKNOWN_NODE error
// naming the dangling identifier for bad edge endpoints.
func (p *Plan) Validate() error {
	seen := make(map[string]struct{}, len(p.Nodes))
	for _, n := range p.Nodes {
		if n.ID == "" {
			return errors.New(errors.ErrCodeInvalidSpec, "node ID must not be empty")
		}
		if _, dup := seen[n.ID]; dup {
			return errors.New(errors.ErrCodeInvalidSpec, "duplicate node ID %q", n.ID)
		}
		seen[n.ID] = struct{}{}
	}
	for _, e := range p.Edges {
		if _, ok := seen[e.From]; !ok {
			return errors.New(errors.ErrCodeUnknownNode, "edge %s->%s references unknown node %q", e.From, e.To, e.From)
		}
		if _, ok := seen[e.To]; !ok {
			return errors.New(errors.ErrCodeUnknownNode, "edge %s->%s references unknown node %q", e.From, e.To, e.To)
		}
	}
	return nil
}

// CopyMeta returns a copy of a node metadata map, or nil for nil input.
// The layout result stores copies so renderer-side mutation cannot reach
// back into the source plan.
func CopyMeta(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
