package internal

import "strings"

// ParseClass turns a class attribute into a set of class flags. Duplicates
// and surrounding whitespace do not matter. ok is false when there is no
// class token.
func ParseClass(text string) (classes map[string]bool, ok bool) {
	for _, name := range strings.Fields(text) {
		if classes == nil {
			classes = make(map[string]bool)
		}
		classes[name] = true
	}
	return classes, classes != nil
}
