package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/figflow/figflow/pkg/errors"
	"github.com/figflow/figflow/pkg/plan"
)

const testSpec = `# Test Diagram

## Nodes
- a | Alpha | io
- b | Beta

## Edges
- a -> b | flows
`

func writeSpecFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "spec.md")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunParse_WritesPlanJSON(t *testing.T) {
	input := writeSpecFile(t, testSpec)
	output := filepath.Join(t.TempDir(), "plan.json")

	err := runParse(context.Background(), input, &parseOpts{output: output, defaultType: plan.DefaultNodeType})
	if err != nil {
		t.Fatalf("runParse() error = %v", err)
	}

	p, err := plan.ReadFile(output)
	if err != nil {
		t.Fatalf("output is not a valid plan: %v", err)
	}
	if p.Title != "Test Diagram" || p.NodeCount() != 2 {
		t.Errorf("plan = %+v", p)
	}
	if p.Nodes[1].Type != plan.DefaultNodeType {
		t.Errorf("default type not applied: %q", p.Nodes[1].Type)
	}
}

func TestRunParse_InvalidSpec(t *testing.T) {
	input := writeSpecFile(t, "no sections here")

	err := runParse(context.Background(), input, &parseOpts{defaultType: plan.DefaultNodeType})
	if !errors.Is(err, errors.ErrCodeInvalidSpec) {
		t.Fatalf("error = %v, want INVALID_SPEC", err)
	}
}

func TestRunParse_MissingFile(t *testing.T) {
	err := runParse(context.Background(), filepath.Join(t.TempDir(), "nope.md"), &parseOpts{})
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
