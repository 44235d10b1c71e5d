package dictionary

import (
	"strings"

	"golang.org/x/text/width"
)

// Hints renders each assembly as the concatenated aliases of its elements.
// Unbound elements (fallback letters, placeholders) are shown full-width.
func Hints(assemblies []Assembly, keys *KeyMap) []Hint {
	hints := make([]Hint, 0, len(assemblies))
	for _, a := range assemblies {
		var b strings.Builder
		for _, e := range a.Elements {
			if alias, ok := keys.Alias(e); ok {
				b.WriteString(alias)
			} else {
				b.WriteString(width.Widen.String(e))
			}
		}
		hints = append(hints, Hint{Name: a.Name, Text: b.String()})
	}
	return hints
}
