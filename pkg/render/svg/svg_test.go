package svg

import (
	"bytes"
	"strings"
	"testing"

	"github.com/figflow/figflow/pkg/layout"
	"github.com/figflow/figflow/pkg/plan"
	"github.com/figflow/figflow/pkg/render/styles"
)

func sampleLayout() layout.Result {
	return layout.Result{
		Width:  800,
		Height: 600,
		Title:  "Ingest Pipeline",
		Nodes: []layout.PositionedNode{
			{Node: plan.Node{ID: "in", Label: "Raw Events", Type: "io"}, X: 60, Y: 300},
			{Node: plan.Node{ID: "proc", Label: "Normalize and deduplicate incoming records", Type: "process"}, X: 260, Y: 300},
		},
		Edges: []plan.Edge{{From: "in", To: "proc", Label: "feeds"}},
	}
}

func TestRender_Document(t *testing.T) {
	out := string(Render(sampleLayout()))

	if !strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg" width="800" height="600" viewBox="0 0 800 600">`) {
		t.Errorf("unexpected document header:\n%s", out[:min(len(out), 120)])
	}
	if !strings.HasSuffix(out, "</svg>\n") {
		t.Error("document not closed")
	}
	if !strings.Contains(out, `<marker id="arrow"`) {
		t.Error("arrow marker defs missing")
	}
	if got := strings.Count(out, "<rect "); got != 2 {
		t.Errorf("got %d rects, want 2", got)
	}
}

func TestRender_NodeGeometry(t *testing.T) {
	out := string(Render(sampleLayout()))

	// Center (60, 300) with a 160x60 box puts the rect corner at (-20, 270).
	if !strings.Contains(out, `<rect x="-20.00" y="270.00" width="160.00" height="60.00" rx="12" ry="12"`) {
		t.Errorf("io node rect not positioned from its center:\n%s", out)
	}
	if !strings.Contains(out, `fill="#ede9fe" stroke="#7c3aed"`) {
		t.Error("io node missing themed fill and stroke")
	}
}

func TestRender_EdgeBetweenCenters(t *testing.T) {
	out := string(Render(sampleLayout()))

	want := `<line x1="60.00" y1="300.00" x2="260.00" y2="300.00" stroke="#334155" stroke-width="2" marker-end="url(#arrow)" data-label="feeds"/>`
	if !strings.Contains(out, want) {
		t.Errorf("edge line missing or malformed:\n%s", out)
	}
}

func TestRender_LongLabelWraps(t *testing.T) {
	out := string(Render(sampleLayout()))

	if !strings.Contains(out, `<tspan x="260.00" dy="0">`) {
		t.Error("first wrapped line should carry dy=0")
	}
	if !strings.Contains(out, `dy="1.2em"`) {
		t.Error("continuation lines should carry dy=1.2em")
	}
	// Short labels stay tspan-free.
	if strings.Contains(out, `<tspan x="60.00"`) {
		t.Error("single-line label should not be wrapped in tspans")
	}
}

func TestRender_TitleOption(t *testing.T) {
	l := sampleLayout()

	if strings.Contains(string(Render(l)), "Ingest Pipeline") {
		t.Error("title rendered without WithTitle")
	}
	if !strings.Contains(string(Render(l, WithTitle())), "Ingest Pipeline") {
		t.Error("WithTitle did not render the title")
	}
}

func TestRender_CustomTheme(t *testing.T) {
	theme := styles.Default()
	theme.Shapes["io"] = styles.Shape{Fill: "#000000", Stroke: "#111111", StrokeWidth: 3, TextColor: "#ffffff"}

	out := string(Render(sampleLayout(), WithTheme(theme)))
	if !strings.Contains(out, `fill="#000000" stroke="#111111" stroke-width="3"`) {
		t.Error("custom theme not applied")
	}
}

func TestRender_EscapesLabels(t *testing.T) {
	l := layout.Result{
		Width: 800, Height: 600,
		Nodes: []layout.PositionedNode{
			{Node: plan.Node{ID: "a", Label: "Fetch <config> & parse"}, X: 60, Y: 300},
		},
	}

	out := Render(l)
	if bytes.Contains(out, []byte("<config>")) {
		t.Error("label not XML-escaped")
	}
	if !bytes.Contains(out, []byte("&lt;config&gt; &amp; parse")) {
		t.Errorf("escaped label missing:\n%s", out)
	}
}

func TestRender_Deterministic(t *testing.T) {
	l := sampleLayout()
	if !bytes.Equal(Render(l, WithTitle()), Render(l, WithTitle())) {
		t.Error("same layout produced different SVG bytes")
	}
}

func TestWrapLabel(t *testing.T) {
	tests := []struct {
		name  string
		label string
		want  []string
	}{
		{"empty", "", []string{""}},
		{"short", "Load data", []string{"Load data"}},
		{"exact fit", "abcdefghij abcdefghijk", []string{"abcdefghij abcdefghijk"}},
		{"wraps on word boundary", "Normalize and deduplicate incoming records", []string{"Normalize and", "deduplicate incoming", "records"}},
		{"oversized word kept whole", "supercalifragilisticexpialidocious yes", []string{"supercalifragilisticexpialidocious", "yes"}},
		{"collapses whitespace", "  a \t b  ", []string{"a b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WrapLabel(tt.label, WrapWidth)
			if len(got) != len(tt.want) {
				t.Fatalf("WrapLabel(%q) = %v, want %v", tt.label, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("line %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}
