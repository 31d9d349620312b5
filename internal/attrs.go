package internal

import "golang.org/x/net/html"

// IsSpecialAttr reports whether an attribute is carried in its own VNode
// field rather than in the attribute map.
func IsSpecialAttr(name string) bool {
	return name == "style" || name == "class"
}

// FilterAttrs copies every non-special attribute into a map, passing each
// value through decode when it is not nil. It returns nil when nothing is left.
func FilterAttrs(attrs []html.Attribute, decode func(string) string) map[string]string {
	var out map[string]string
	for _, a := range attrs {
		if IsSpecialAttr(a.Key) {
			continue
		}
		name := a.Key
		if a.Namespace != "" {
			name = a.Namespace + ":" + a.Key
		}
		val := a.Val
		if decode != nil {
			val = decode(val)
		}
		if out == nil {
			out = make(map[string]string, len(attrs))
		}
		out[name] = val
	}
	return out
}
