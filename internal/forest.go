package internal

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ForestKind discriminates forest nodes.
type ForestKind uint8

const (
	ForestText ForestKind = iota
	ForestElement
)

// ForestNode is one node of the parsed markup forest. Text content and
// attribute values are kept exactly as written: character references are
// left for the entity decoder.
type ForestNode struct {
	Kind     ForestKind
	Content  string // ForestText
	Name     string // ForestElement
	Attrs    []html.Attribute
	Children []*ForestNode
}

// Attr returns the raw value of the named attribute.
func (n *ForestNode) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

var fragmentContext = &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}

// rawTextElements do not decode references in their content, so the
// escaping applied before parsing has to be undone for them.
var rawTextElements = map[atom.Atom]bool{
	atom.Script:    true,
	atom.Style:     true,
	atom.Xmp:       true,
	atom.Iframe:    true,
	atom.Noembed:   true,
	atom.Noframes:  true,
	atom.Noscript:  true,
	atom.Plaintext: true,
}

// ParseForest parses markup as a body fragment and returns its top-level
// nodes in source order. Comments and doctypes are dropped, as are top-level
// text nodes made only of whitespace. An empty result means the parser found
// nothing it could keep.
func ParseForest(markup string) ([]*ForestNode, error) {
	// Every '&' is escaped so the parser's own reference decoding restores the
	// source text instead of decoding it.
	escaped := strings.ReplaceAll(markup, "&", "&amp;")
	nodes, err := html.ParseFragment(strings.NewReader(escaped), fragmentContext)
	if err != nil {
		return nil, fmt.Errorf("parse fragment: %w", err)
	}

	forest := make([]*ForestNode, 0, len(nodes))
	for _, n := range nodes {
		if n.Type == html.TextNode && strings.TrimSpace(n.Data) == "" {
			continue
		}
		if fn := toForest(n, false); fn != nil {
			forest = append(forest, fn)
		}
	}
	return forest, nil
}

func toForest(n *html.Node, rawText bool) *ForestNode {
	switch n.Type {
	case html.TextNode:
		content := n.Data
		if rawText {
			content = strings.ReplaceAll(content, "&amp;", "&")
		}
		return &ForestNode{Kind: ForestText, Content: content}
	case html.ElementNode:
		fn := &ForestNode{Kind: ForestElement, Name: n.Data}
		if len(n.Attr) > 0 {
			fn.Attrs = make([]html.Attribute, len(n.Attr))
			copy(fn.Attrs, n.Attr)
		}
		childRaw := n.Namespace == "" && rawTextElements[n.DataAtom]
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if child := toForest(c, childRaw); child != nil {
				fn.Children = append(fn.Children, child)
			}
		}
		return fn
	default:
		return nil
	}
}
