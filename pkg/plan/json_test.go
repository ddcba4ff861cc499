package plan

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/figflow/figflow/pkg/errors"
)

func TestMarshalUnmarshal_RoundTrip(t *testing.T) {
	p := &Plan{
		Nodes: []Node{
			{ID: "a", Label: "Alpha", Type: "io", Meta: map[string]string{"team": "data"}},
			{ID: "b", Label: "Beta", Type: "process"},
		},
		Edges: []Edge{{From: "a", To: "b", Label: "feeds"}},
		Title: "Example",
	}

	data, err := Marshal(p)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	got, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if got.Title != "Example" || len(got.Nodes) != 2 || len(got.Edges) != 1 {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if got.Nodes[0].Meta["team"] != "data" {
		t.Errorf("Meta lost in round trip: %+v", got.Nodes[0].Meta)
	}
}

func TestRead_RejectsDanglingEdge(t *testing.T) {
	in := `{"nodes":[{"id":"a"}],"edges":[{"from":"a","to":"ghost"}]}`
	_, err := Read(strings.NewReader(in))
	if !errors.Is(err, errors.ErrCodeUnknownNode) {
		t.Fatalf("Read() error = %v, want UNKNOWN_NODE", err)
	}
}

func TestRead_MalformedJSON(t *testing.T) {
	_, err := Read(strings.NewReader("{not json"))
	if err == nil {
		t.Fatal("Read() error = nil, want decode error")
	}
}

func TestWriteFileReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.json")
	p := &Plan{Nodes: []Node{{ID: "a", Label: "A"}}}

	if err := WriteFile(p, path); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if len(got.Nodes) != 1 || got.Nodes[0].ID != "a" {
		t.Errorf("ReadFile() = %+v", got)
	}
}

func TestReadFile_Missing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Fatal("ReadFile() error = nil, want open error")
	}
}
