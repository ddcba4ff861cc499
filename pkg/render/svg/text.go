package svg

import (
	"bytes"
	"encoding/xml"
	"strings"
)

// WrapWidth is the maximum characters per label line.
const WrapWidth = 22

// WrapLabel splits a label into lines of at most maxLen characters using
// greedy word wrapping. A single word longer than maxLen becomes its own
// line rather than being split mid-word. An empty label yields one empty
// line so callers always have something to emit.
func WrapLabel(label string, maxLen int) []string {
	words := strings.Fields(label)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	var current []string
	for _, word := range words {
		tentative := strings.Join(append(current, word), " ")
		if len(tentative) <= maxLen {
			current = append(current, word)
			continue
		}
		if len(current) > 0 {
			lines = append(lines, strings.Join(current, " "))
			current = []string{word}
		} else {
			lines = append(lines, word)
		}
	}
	if len(current) > 0 {
		lines = append(lines, strings.Join(current, " "))
	}
	return lines
}

// EscapeXML escapes a string for safe embedding in SVG text and
// attributes.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
