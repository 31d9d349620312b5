package internal

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const importantMarker = "!important"

// TransformName converts a kebab-case CSS property name to camelCase.
// A leading dash is dropped and the following character lower-cased, so
// "-webkit-transition" becomes "webkitTransition".
func TransformName(name string) string {
	if name == "" {
		return ""
	}
	var sb strings.Builder
	sb.Grow(len(name))
	upper := false
	for i := 0; i < len(name); {
		r, size := utf8.DecodeRuneInString(name[i:])
		i += size
		if r == '-' && i < len(name) {
			next, _ := utf8.DecodeRuneInString(name[i:])
			if isWordRune(next) {
				upper = true
				continue
			}
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		sb.WriteRune(r)
	}
	out := sb.String()
	first, size := utf8.DecodeRuneInString(out)
	return string(unicode.ToLower(first)) + out[size:]
}

func isWordRune(r rune) bool {
	return r == '_' || (r < utf8.RuneSelf && (unicode.IsLetter(r) || unicode.IsDigit(r)))
}

// ParseStyle parses inline style text into a camelCase property map.
// Declarations are split on ';' and then on the first ':'; values are trimmed
// and a trailing !important is removed. Empty segments are skipped. A segment
// without a ':' makes the whole text malformed and ok is false. ok is also
// false when no declaration survives.
func ParseStyle(text string) (style map[string]string, ok bool) {
	for _, segment := range strings.Split(text, ";") {
		rawName, rawValue, found := strings.Cut(segment, ":")
		name := TransformName(strings.TrimSpace(rawName))
		if name == "" {
			continue
		}
		if !found {
			return nil, false
		}
		value := strings.TrimSpace(rawValue)
		if strings.HasSuffix(strings.ToLower(value), importantMarker) {
			value = strings.TrimSpace(value[:len(value)-len(importantMarker)])
		}
		if style == nil {
			style = make(map[string]string)
		}
		style[name] = value
	}
	return style, style != nil
}
