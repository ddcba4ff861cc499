package layout

import (
	"encoding/json"
	"fmt"
	"os"
)

// =============================================================================
// Result Serialization API
// =============================================================================

// Marshal serializes a Result to pretty-printed JSON bytes.
func Marshal(r Result) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// Unmarshal deserializes JSON bytes into a Result.
// Canvas dimensions must be positive; a result without them cannot be
// rendered meaningfully.
func Unmarshal(data []byte) (Result, error) {
	var r Result
	if err := json.Unmarshal(data, &r); err != nil {
		return Result{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	if r.Width <= 0 || r.Height <= 0 {
		return Result{}, fmt.Errorf("layout must carry positive canvas dimensions")
	}
	return r, nil
}

// WriteFile writes a Result to a JSON file.
func WriteFile(r Result, path string) error {
	data, err := Marshal(r)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadFile reads a Result from a JSON file.
func ReadFile(path string) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Unmarshal(data)
}
