package internal

import (
	"strings"

	"golang.org/x/net/html"
)

var tagsToRemove = map[string]bool{
	"script": true, "style": true, "noscript": true, "iframe": true,
	"embed": true, "object": true, "frame": true, "frameset": true, "base": true,
}

var uriAttributes = map[string]bool{
	"href":       true,
	"src":        true,
	"cite":       true,
	"action":     true,
	"data":       true,
	"formaction": true,
	"poster":     true,
	"background": true,
	"longdesc":   true,
	"usemap":     true,
	"profile":    true,
	"xlink:href": true,
}

// SanitizeForest strips active content from a parsed forest: script-like
// elements, every on* attribute and URI attributes with unsafe schemes.
// The forest is modified in place; the surviving top-level nodes are returned.
func SanitizeForest(forest []*ForestNode) []*ForestNode {
	kept := forest[:0]
	for _, n := range forest {
		if sanitizeNode(n) {
			kept = append(kept, n)
		}
	}
	return kept
}

func sanitizeNode(n *ForestNode) bool {
	if n.Kind != ForestElement {
		return true
	}
	if tagsToRemove[strings.ToLower(n.Name)] {
		return false
	}

	filtered := n.Attrs[:0]
	for _, a := range n.Attrs {
		key := strings.ToLower(a.Key)
		if a.Namespace != "" {
			key = a.Namespace + ":" + key
		}
		if strings.HasPrefix(key, "on") {
			continue
		}
		if uriAttributes[key] && !isSafeURI(html.UnescapeString(a.Val)) {
			continue
		}
		filtered = append(filtered, a)
	}
	n.Attrs = filtered
	n.Children = SanitizeForest(n.Children)
	return true
}

// urlNoise is stripped by browsers before a URL scheme is resolved.
var urlNoise = strings.NewReplacer("\t", "", "\n", "", "\r", "")

func isSafeURI(uri string) bool {
	if uri == "" {
		return true
	}

	trimmed := strings.TrimSpace(urlNoise.Replace(uri))
	lowerURI := strings.ToLower(trimmed)

	switch {
	case strings.HasPrefix(lowerURI, "javascript:"),
		strings.HasPrefix(lowerURI, "vbscript:"),
		strings.HasPrefix(lowerURI, "file:"):
		return false
	case strings.HasPrefix(lowerURI, "data:"):
		return isValidDataURL(trimmed)
	}
	return true
}

func isValidDataURL(url string) bool {
	commaIdx := strings.IndexByte(url, ',')
	if commaIdx <= len("data:") {
		return false
	}

	mediaPart := url[len("data:"):commaIdx]
	dataPart := url[commaIdx+1:]

	mediaType, params, _ := strings.Cut(mediaPart, ";")
	if mediaType != "" && !isValidMediaType(mediaType) {
		return false
	}
	// Markup media types can carry script.
	if lower := strings.ToLower(mediaType); lower == "text/html" || lower == "image/svg+xml" {
		return false
	}

	isBase64 := strings.HasSuffix(params, "base64")
	for i := 0; i < len(dataPart); i++ {
		b := dataPart[i]
		if isBase64 {
			if !(isBase64Char(b) || b == '=' || b == '\r' || b == '\n') {
				return false
			}
		} else if b < 9 || (b >= 11 && b <= 12) || (b >= 14 && b < 32) || b == 127 {
			return false
		}
	}
	return true
}

func isValidMediaType(mediaType string) bool {
	slashIdx := strings.IndexByte(mediaType, '/')
	if slashIdx <= 0 || slashIdx == len(mediaType)-1 {
		return false
	}
	for i := 0; i < len(mediaType); i++ {
		c := mediaType[i]
		if !((c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') ||
			(c >= '0' && c <= '9') || c == '-' || c == '+' ||
			c == '/' || c == '.' || c == '_') {
			return false
		}
	}
	return true
}

func isBase64Char(b byte) bool {
	return (b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9') ||
		b == '+' || b == '/'
}
