package plan

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// Plan Serialization API
// =============================================================================

// Marshal converts a Plan to pretty-printed JSON bytes.
// Node and edge order is preserved, so output is deterministic for a given
// plan and round-trips through Unmarshal unchanged.
func Marshal(p *Plan) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(p, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal deserializes JSON bytes to a Plan and validates it.
func Unmarshal(data []byte) (*Plan, error) {
	return Read(bytes.NewReader(data))
}

// Write encodes a Plan as indented JSON to an io.Writer.
func Write(p *Plan, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Read decodes a JSON plan from an io.Reader.
// Returns validation errors for duplicate node IDs or edges referencing
// unknown nodes, so a decoded plan is always safe to hand to layout.
func Read(r io.Reader) (*Plan, error) {
	var p Plan
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// WriteFile writes a Plan to a JSON file.
// The file is created with 0644 permissions.
func WriteFile(p *Plan, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(p, f)
}

// ReadFile reads a JSON file and returns the decoded Plan.
func ReadFile(path string) (*Plan, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}
