package styles

import (
	"os"
	"regexp"

	"github.com/BurntSushi/toml"

	"github.com/figflow/figflow/pkg/errors"
)

var colorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Load reads a theme from a TOML file and merges it over the defaults:
// shapes the file defines replace the built-in ones, everything else stays.
//
// Example file:
//
//	fallback_type = "process"
//
//	[shapes.process]
//	fill = "#e0f2fe"
//	stroke = "#0284c7"
//	stroke_width = 2.0
//	text_color = "#1e293b"
func Load(path string) (Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Theme{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "theme file %s", path)
		}
		return Theme{}, errors.Wrap(errors.ErrCodeInvalidTheme, err, "read theme %s", path)
	}
	return Parse(data)
}

// Parse decodes TOML theme bytes and merges them over the defaults.
func Parse(data []byte) (Theme, error) {
	var file Theme
	if err := toml.Unmarshal(data, &file); err != nil {
		return Theme{}, errors.Wrap(errors.ErrCodeInvalidTheme, err, "parse theme")
	}

	theme := Default()
	if file.FallbackType != "" {
		theme.FallbackType = file.FallbackType
	}
	for name, shape := range file.Shapes {
		if err := validateShape(name, shape); err != nil {
			return Theme{}, err
		}
		base := theme.ShapeFor(name)
		theme.Shapes[name] = mergeShape(base, shape)
	}

	if _, ok := theme.Shapes[theme.FallbackType]; !ok {
		return Theme{}, errors.New(errors.ErrCodeInvalidTheme, "fallback type %q has no shape", theme.FallbackType)
	}
	return theme, nil
}

// mergeShape overlays set fields of override onto base, so partial shape
// tables only change what they mention.
func mergeShape(base, override Shape) Shape {
	if override.Fill != "" {
		base.Fill = override.Fill
	}
	if override.Stroke != "" {
		base.Stroke = override.Stroke
	}
	if override.StrokeWidth > 0 {
		base.StrokeWidth = override.StrokeWidth
	}
	if override.TextColor != "" {
		base.TextColor = override.TextColor
	}
	return base
}

func validateShape(name string, s Shape) error {
	for field, color := range map[string]string{
		"fill":       s.Fill,
		"stroke":     s.Stroke,
		"text_color": s.TextColor,
	} {
		if color != "" && !colorPattern.MatchString(color) {
			return errors.New(errors.ErrCodeInvalidTheme, "shape %q: %s %q is not a hex color", name, field, color)
		}
	}
	if s.StrokeWidth < 0 {
		return errors.New(errors.ErrCodeInvalidTheme, "shape %q: negative stroke width", name)
	}
	return nil
}
