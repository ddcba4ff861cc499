package layout

import (
	"slices"

	"github.com/figflow/figflow/pkg/plan"
)

// place maps layer assignments to final coordinates.
//
// Layers become columns ordered left to right by layer value; gaps in the
// layer sequence (e.g. layers {0,2} with nothing at 1) do not leave an
// empty column because the column index, not the raw layer number, drives
// x. Within a column, nodes are sorted lexicographically by ID and stacked
// with a fixed vertical spacing, centered in the canvas height.
//
// place is total: every node with a layer entry gets a position, and
// assignLayers guarantees an entry for every node.
func place(p *plan.Plan, layers []int, width, height float64) []PositionedNode {
	if len(p.Nodes) == 0 {
		return nil
	}

	columns := make(map[int][]string)
	for i, node := range p.Nodes {
		columns[layers[i]] = append(columns[layers[i]], node.ID)
	}

	sortedLayers := make([]int, 0, len(columns))
	for layer := range columns {
		sortedLayers = append(sortedLayers, layer)
	}
	slices.Sort(sortedLayers)

	lookup := p.NodeMap()
	nodes := make([]PositionedNode, 0, len(p.Nodes))

	for columnIndex, layer := range sortedLayers {
		column := columns[layer]
		slices.Sort(column)

		x := Margin + float64(columnIndex)*HorizontalSpacing
		span := VerticalSpacing * float64(len(column)-1)
		start := max(Margin, (height-span)/2)

		for rowIndex, id := range column {
			node := lookup[id]
			node.Meta = plan.CopyMeta(node.Meta)
			nodes = append(nodes, PositionedNode{
				Node: node,
				X:    x,
				Y:    start + float64(rowIndex)*VerticalSpacing,
			})
		}
	}

	return nodes
}
