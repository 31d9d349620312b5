// Package dom is the live document model read by the virtualize converters.
//
// Document, Node and Element describe what the converters need from a host:
// element creation, node-type introspection, attributes, children, inline
// style properties, the class list and event-handler slots. HTMLDocument
// implements the contract on top of golang.org/x/net/html trees, so markup
// parsed by the standard parser can be mutated, given handlers and converted.
package dom

import "golang.org/x/net/html"

// NodeType discriminates the node kinds the converters care about.
type NodeType uint8

const (
	OtherNode   NodeType = iota // comments, doctypes, documents
	ElementNode                 // <div>, <span>, ...
	TextNode                    // character data
)

// String returns the string representation of the NodeType.
func (t NodeType) String() string {
	switch t {
	case ElementNode:
		return "Element"
	case TextNode:
		return "Text"
	default:
		return "Other"
	}
}

// Attribute is re-exported from golang.org/x/net/html.
type Attribute = html.Attribute

// StyleProperty is one declaration of an element's inline style as the host
// reports it: lower-cased property name, value without the priority marker.
type StyleProperty struct {
	Name      string
	Value     string
	Important bool
}

// Node is read access to a live document node.
type Node interface {
	NodeType() NodeType
	// TagName is the element's tag name; empty for non-elements.
	TagName() string
	TextContent() string
	Attributes() []Attribute
	ChildNodes() []Node
	Style() []StyleProperty
	ClassName() string
	// Handler returns the value stored in an "on*" handler slot, or nil.
	Handler(slot string) any
}

// Element is a node whose markup can be replaced.
type Element interface {
	Node
	SetInnerHTML(markup string) error
}

// Document creates elements.
type Document interface {
	CreateElement(tag string) Element
}

// InlineHandler is the handler a slot reports when it was populated from an
// inline markup attribute such as onclick="save()". The value is the source.
type InlineHandler string
