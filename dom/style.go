package dom

import (
	"strings"

	"github.com/aymerick/douceur/parser"
)

// parseInlineStyle reads a style attribute the way a browser's
// CSSStyleDeclaration does: names lower-cased, one entry per property in
// first-seen order, last declaration wins unless an earlier one is important.
// Text the CSS parser rejects yields no properties.
func parseInlineStyle(text string) []StyleProperty {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	decls, err := parser.ParseDeclarations(text)
	if err != nil {
		return nil
	}

	props := make([]StyleProperty, 0, len(decls))
	index := make(map[string]int, len(decls))
	for _, d := range decls {
		if d == nil {
			continue
		}
		name := strings.ToLower(strings.TrimSpace(d.Property))
		value := strings.TrimSpace(d.Value)
		if name == "" || value == "" {
			continue
		}
		if i, ok := index[name]; ok {
			if props[i].Important && !d.Important {
				continue
			}
			props[i].Value = value
			props[i].Important = d.Important
			continue
		}
		index[name] = len(props)
		props = append(props, StyleProperty{Name: name, Value: value, Important: d.Important})
	}
	if len(props) == 0 {
		return nil
	}
	return props
}
