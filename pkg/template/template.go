// Package template substitutes {{variable}} placeholders in prompt text.
//
// Values come from two layers: the script's declared dynamic variables, then
// the entities collected during the session, which win on conflict. Unknown
// placeholders are left intact so prompt authors can spot them in transcripts
// instead of silently losing them.
package template

import (
	"fmt"
	"regexp"
)

var placeholderPattern = regexp.MustCompile(`\{\{\s*([a-zA-Z0-9_]+)\s*\}\}`)

// Render substitutes placeholders from the variable layers. Later layers
// override earlier ones.
func Render(text string, layers ...map[string]any) string {
	return placeholderPattern.ReplaceAllStringFunc(text, func(match string) string {
		name := placeholderPattern.FindStringSubmatch(match)[1]

		for i := len(layers) - 1; i >= 0; i-- {
			if value, ok := layers[i][name]; ok {
				return stringify(value)
			}
		}

		return match
	})
}

// Layer adapts a string map to the layer type Render takes.
func Layer(values map[string]string) map[string]any {
	layer := make(map[string]any, len(values))
	for name, value := range values {
		layer[name] = value
	}

	return layer
}

// Placeholders lists the distinct placeholder names in the text, in order of
// first appearance.
func Placeholders(text string) []string {
	seen := make(map[string]struct{})

	var names []string

	for _, match := range placeholderPattern.FindAllStringSubmatch(text, -1) {
		name := match[1]
		if _, dup := seen[name]; dup {
			continue
		}

		seen[name] = struct{}{}
		names = append(names, name)
	}

	return names
}

func stringify(value any) string {
	if s, ok := value.(string); ok {
		return s
	}

	return fmt.Sprintf("%v", value)
}
