package layout

import (
	"fmt"
	"testing"

	"github.com/figflow/figflow/pkg/plan"
)

func layersByID(p *plan.Plan, layers []int) map[string]int {
	m := make(map[string]int, len(layers))
	for i, n := range p.Nodes {
		m[n.ID] = layers[i]
	}
	return m
}

func TestAssignLayers_Chain(t *testing.T) {
	p := makePlan([]string{"a", "b", "c"}, [][2]string{{"a", "b"}, {"b", "c"}})

	layers, err := assignLayers(p)
	if err != nil {
		t.Fatalf("assignLayers() error = %v", err)
	}
	got := layersByID(p, layers)
	want := map[string]int{"a": 0, "b": 1, "c": 2}
	for id, l := range want {
		if got[id] != l {
			t.Errorf("layer(%s) = %d, want %d", id, got[id], l)
		}
	}
}

func TestAssignLayers_DiamondLongestPath(t *testing.T) {
	// a->d directly and via b: the longer path decides d's layer.
	p := makePlan(
		[]string{"a", "b", "c", "d"},
		[][2]string{{"a", "b"}, {"a", "c"}, {"b", "d"}, {"c", "d"}, {"a", "d"}},
	)

	layers, err := assignLayers(p)
	if err != nil {
		t.Fatalf("assignLayers() error = %v", err)
	}
	got := layersByID(p, layers)
	if got["d"] != 2 {
		t.Errorf("layer(d) = %d, want 2 (longest path)", got["d"])
	}
}

func TestAssignLayers_IsolatedNodesAtZero(t *testing.T) {
	p := makePlan([]string{"a", "b", "iso1", "iso2"}, [][2]string{{"a", "b"}})

	layers, err := assignLayers(p)
	if err != nil {
		t.Fatalf("assignLayers() error = %v", err)
	}
	got := layersByID(p, layers)
	for _, id := range []string{"a", "iso1", "iso2"} {
		if got[id] != 0 {
			t.Errorf("layer(%s) = %d, want 0", id, got[id])
		}
	}
}

func TestAssignLayers_FullyCyclicFallbackSeed(t *testing.T) {
	// Triangle: every node has an incoming edge, so the first declared
	// node seeds the relaxation.
	p := makePlan([]string{"a", "b", "c"}, [][2]string{{"a", "b"}, {"b", "c"}, {"c", "a"}})

	layers, err := assignLayers(p)
	if err != nil {
		t.Fatalf("assignLayers() error = %v", err)
	}
	got := layersByID(p, layers)
	if got["a"] != 0 || got["b"] != 1 || got["c"] != 2 {
		t.Errorf("layers = %v, want a:0 b:1 c:2", got)
	}
}

func TestAssignLayers_TwoCycleTerminates(t *testing.T) {
	p := makePlan([]string{"a", "b"}, [][2]string{{"a", "b"}, {"b", "a"}})

	layers, err := assignLayers(p)
	if err != nil {
		t.Fatalf("assignLayers() error = %v", err)
	}
	for i, l := range layers {
		if l < 0 || l > 1 {
			t.Errorf("layer(%s) = %d, outside [0, n-1]", p.Nodes[i].ID, l)
		}
	}
}

func TestAssignLayers_SelfLoop(t *testing.T) {
	// The self-edge makes this cyclic, so exact layers are a degree of
	// freedom; the relaxation must terminate with both nodes in bounds.
	p := makePlan([]string{"a", "b"}, [][2]string{{"a", "a"}, {"a", "b"}})

	layers, err := assignLayers(p)
	if err != nil {
		t.Fatalf("assignLayers() error = %v", err)
	}
	for i, l := range layers {
		if l < 0 || l > 1 {
			t.Errorf("layer(%s) = %d, outside [0, n-1]", p.Nodes[i].ID, l)
		}
	}
}

func TestAssignLayers_CycleWithTailCoversAllNodes(t *testing.T) {
	// a<->b with a tail b->c: fallback seeding must still reach c.
	p := makePlan([]string{"a", "b", "c"}, [][2]string{{"a", "b"}, {"b", "a"}, {"b", "c"}})

	layers, err := assignLayers(p)
	if err != nil {
		t.Fatalf("assignLayers() error = %v", err)
	}
	for i, l := range layers {
		if l < 0 {
			t.Errorf("node %s left unassigned", p.Nodes[i].ID)
		}
	}
}

func TestAssignLayers_Empty(t *testing.T) {
	layers, err := assignLayers(&plan.Plan{})
	if err != nil {
		t.Fatalf("assignLayers() error = %v", err)
	}
	if layers != nil {
		t.Errorf("layers = %v, want nil", layers)
	}
}

func TestAssignLayers_LargeCyclicGraphStaysWithinBudget(t *testing.T) {
	// A long directed ring stresses the proposal cap without tripping
	// the step budget.
	const n = 50
	ids := make([]string, n)
	edges := make([][2]string, n)
	for i := 0; i < n; i++ {
		ids[i] = fmt.Sprintf("n%03d", i)
	}
	for i := 0; i < n; i++ {
		edges[i] = [2]string{ids[i], ids[(i+1)%n]}
	}

	layers, err := assignLayers(makePlan(ids, edges))
	if err != nil {
		t.Fatalf("assignLayers() error = %v", err)
	}
	for i, l := range layers {
		if l < 0 || l > n-1 {
			t.Errorf("layer(%s) = %d, outside [0, %d]", ids[i], l, n-1)
		}
	}
}
