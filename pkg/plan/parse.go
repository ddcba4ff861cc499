package plan

import (
	"regexp"
	"strings"

	"github.com/figflow/figflow/pkg/errors"
)

// ParseOptions controls how textual specs are interpreted.
type ParseOptions struct {
	// DefaultNodeType is assigned to node lines that omit the type field.
	// Empty means DefaultNodeType ("process").
	DefaultNodeType string
}

var (
	nodePattern = regexp.MustCompile(`^[-*]\s*(?P<id>[\w-]+)\s*\|\s*(?P<label>[^|]+?)(?:\s*\|\s*(?P<type>[^|]+))?\s*$`)
	edgePattern = regexp.MustCompile(`^[-*]\s*(?P<src>[\w-]+)\s*->\s*(?P<tgt>[\w-]+)(?:\s*\|\s*(?P<label>.+))?\s*$`)
)

// Parse converts a lightweight markdown-style DSL into a Plan.
//
// The format uses named sections separated by markdown headings, so a
// figure spec can live inside a README or prompt without extra tooling:
//
//	# Title
//	Scientific Workflow
//
//	## Nodes
//	- ingest | Data Ingest | io
//	- process | Model Training
//	- evaluate | Evaluation | decision
//
//	## Edges
//	- ingest -> process
//	- process -> evaluate | accuracy report
//
// Section names are case-insensitive. A Nodes section is required; Edges
// is optional. Lines starting with "#" inside a section are skipped.
// Body text before any "##" heading becomes the description when no
// explicit Description section exists.
//
// Parse returns an INVALID_SPEC error for malformed lines, a missing
// Nodes section, or duplicate node IDs, and an UNKNOWN_NODE error when an
// edge references an undeclared node.
func Parse(text string, opts ParseOptions) (*Plan, error) {
	if opts.DefaultNodeType == "" {
		opts.DefaultNodeType = DefaultNodeType
	}

	sections := splitSections(text)

	nodesSection, ok := sections["nodes"]
	if !ok || nodesSection == "" {
		return nil, errors.New(errors.ErrCodeInvalidSpec, "a figure specification must include a 'Nodes' section")
	}

	nodes, err := parseLines(nodesSection, func(line string) (Node, error) {
		return parseNodeLine(line, opts)
	})
	if err != nil {
		return nil, err
	}

	edges, err := parseLines(sections["edges"], parseEdgeLine)
	if err != nil {
		return nil, err
	}

	p := &Plan{
		Nodes:       nodes,
		Edges:       edges,
		Title:       strings.TrimSpace(sections["title"]),
		Description: strings.TrimSpace(sections["description"]),
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func parseNodeLine(line string, opts ParseOptions) (Node, error) {
	m := nodePattern.FindStringSubmatch(line)
	if m == nil {
		return Node{}, errors.New(errors.ErrCodeInvalidSpec, "invalid node line: %q", line)
	}
	nodeType := strings.TrimSpace(m[3])
	if nodeType == "" {
		nodeType = opts.DefaultNodeType
	}
	return Node{
		ID:    m[1],
		Label: strings.TrimSpace(m[2]),
		Type:  nodeType,
	}, nil
}

func parseEdgeLine(line string) (Edge, error) {
	m := edgePattern.FindStringSubmatch(line)
	if m == nil {
		return Edge{}, errors.New(errors.ErrCodeInvalidSpec, "invalid edge line: %q", line)
	}
	return Edge{
		From:  m[1],
		To:    m[2],
		Label: strings.TrimSpace(m[3]),
	}, nil
}

// splitSections breaks the spec into named sections. "# " starts the title,
// "## " starts a named section (lowercased), and everything before the
// first heading lands in "body". The body doubles as the description when
// no Description section is present.
func splitSections(text string) map[string]string {
	current := "body"
	sections := map[string][]string{current: nil}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		switch {
		case strings.HasPrefix(line, "## "):
			current = strings.ToLower(strings.TrimSpace(line[3:]))
			if _, ok := sections[current]; !ok {
				sections[current] = nil
			}
		case strings.HasPrefix(line, "# "):
			current = "title"
			sections[current] = []string{strings.TrimSpace(line[2:])}
		default:
			sections[current] = append(sections[current], raw)
		}
	}

	if _, ok := sections["description"]; !ok {
		sections["description"] = sections["body"]
	}

	out := make(map[string]string, len(sections))
	for name, lines := range sections {
		out[name] = strings.TrimSpace(strings.Join(lines, "\n"))
	}
	return out
}

// parseLines applies parser to every non-empty, non-comment line.
func parseLines[T any](section string, parser func(string) (T, error)) ([]T, error) {
	var results []T
	for _, line := range strings.Split(section, "\n") {
		stripped := strings.TrimSpace(line)
		if stripped == "" || strings.HasPrefix(stripped, "#") {
			continue
		}
		item, err := parser(stripped)
		if err != nil {
			return nil, err
		}
		results = append(results, item)
	}
	return results, nil
}
