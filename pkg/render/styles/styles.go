// Package styles defines the visual vocabulary for diagram rendering: one
// [Shape] per node type, bundled into a [Theme]. Themes can be loaded from
// TOML files and always fall back to the built-in defaults for types they
// do not override.
package styles

// Shape describes how nodes of one type are drawn.
type Shape struct {
	Fill        string  `toml:"fill" json:"fill"`
	Stroke      string  `toml:"stroke" json:"stroke"`
	StrokeWidth float64 `toml:"stroke_width" json:"strokeWidth"`
	TextColor   string  `toml:"text_color" json:"textColor"`
}

// Theme maps node type names to shapes. FallbackType is used for any node
// type the theme does not define.
type Theme struct {
	Shapes       map[string]Shape `toml:"shapes"`
	FallbackType string           `toml:"fallback_type"`
}

// DefaultFallbackType is the node type every unknown type resolves to.
const DefaultFallbackType = "process"

// Default returns the built-in theme covering the three standard node
// types.
func Default() Theme {
	return Theme{
		FallbackType: DefaultFallbackType,
		Shapes: map[string]Shape{
			"process": {
				Fill:        "#e0f2fe",
				Stroke:      "#0284c7",
				StrokeWidth: 2,
				TextColor:   "#0f172a",
			},
			"io": {
				Fill:        "#ede9fe",
				Stroke:      "#7c3aed",
				StrokeWidth: 2,
				TextColor:   "#0f172a",
			},
			"decision": {
				Fill:        "#fef3c7",
				Stroke:      "#f59e0b",
				StrokeWidth: 2,
				TextColor:   "#0f172a",
			},
		},
	}
}

// ShapeFor resolves the shape for a node type, falling back to the theme's
// fallback type and finally to the built-in process shape. It never
// returns a zero Shape.
func (t Theme) ShapeFor(nodeType string) Shape {
	if s, ok := t.Shapes[nodeType]; ok {
		return s
	}
	fallback := t.FallbackType
	if fallback == "" {
		fallback = DefaultFallbackType
	}
	if s, ok := t.Shapes[fallback]; ok {
		return s
	}
	return Default().Shapes[DefaultFallbackType]
}

// Types returns the node type names the theme defines. Order is not
// specified.
func (t Theme) Types() []string {
	types := make([]string, 0, len(t.Shapes))
	for name := range t.Shapes {
		types = append(types, name)
	}
	return types
}
