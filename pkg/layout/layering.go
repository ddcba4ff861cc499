package layout

import (
	"github.com/figflow/figflow/pkg/errors"
	"github.com/figflow/figflow/pkg/plan"
)

// assignLayers computes an integer layer for every node in the plan,
// indexed by the node's position in the plan's declared order.
//
// The algorithm is a breadth-first longest-path relaxation:
//
//  1. Build adjacency lists over dense integer IDs assigned in declared
//     node order (one pass over the edge list).
//  2. Seed a FIFO queue with every zero-in-degree node at layer 0. If no
//     such node exists (fully cyclic graph), seed with the first declared
//     node so progress is guaranteed.
//  3. For the current node at layer L, propose L+1 for each outgoing
//     neighbor; assign and re-enqueue only on strict increase. A node
//     reachable via two paths of different length keeps the layer of the
//     longer path, so acyclic edges never point leftward.
//  4. Nodes never reached stay at layer 0.
//
// On cyclic input the strict-increase rule alone does not terminate (a
// 2-cycle ratchets both layers upward forever), so proposals are capped at
// nodeCount-1: no simple path is longer, which leaves every acyclic result
// untouched and bounds each node to at most nodeCount assignments. A step
// counter additionally guards the queue; exceeding it returns a
// LAYOUT_DIVERGED error rather than looping.
func assignLayers(p *plan.Plan) ([]int, error) {
	n := len(p.Nodes)
	if n == 0 {
		return nil, nil
	}

	index := make(map[string]int, n)
	for i, node := range p.Nodes {
		index[node.ID] = i
	}

	outgoing := make([][]int, n)
	inDegree := make([]int, n)
	for _, e := range p.Edges {
		src, dst := index[e.From], index[e.To]
		outgoing[src] = append(outgoing[src], dst)
		inDegree[dst]++
	}

	const unassigned = -1
	layers := make([]int, n)
	for i := range layers {
		layers[i] = unassigned
	}

	queue := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if inDegree[i] == 0 {
			layers[i] = 0
			queue = append(queue, i)
		}
	}
	if len(queue) == 0 {
		// Fully cyclic graph: fall back to the first declared node.
		layers[0] = 0
		queue = append(queue, 0)
	}

	maxLayer := n - 1
	budget := n*n + n

	for len(queue) > 0 {
		if budget--; budget < 0 {
			return nil, errors.New(errors.ErrCodeLayoutDiverged, "layer relaxation did not converge after %d steps", n*n+n)
		}

		curr := queue[0]
		queue = queue[1:]

		proposed := layers[curr] + 1
		if proposed > maxLayer {
			continue
		}
		for _, next := range outgoing[curr] {
			if layers[next] == unassigned || proposed > layers[next] {
				layers[next] = proposed
				queue = append(queue, next)
			}
		}
	}

	// Isolated nodes, and nodes only reachable from sourceless components
	// the fallback seed never toured, sit at layer zero.
	for i := range layers {
		if layers[i] == unassigned {
			layers[i] = 0
		}
	}

	return layers, nil
}
