// Package vnode defines the virtual-node descriptors produced by virtualize.
//
// A VNode is either an element (tag, optional Data, optional children) or a
// text run. Trees are built once by the converters and treated as immutable
// afterwards; the JSON form follows the snabbdom layout (sel, data, children,
// text) so it can be handed to a JavaScript diff/patch renderer unchanged.
package vnode

import (
	"encoding/json"
	"maps"
	"sort"

	"github.com/cybergodev/virtualize/dom"
)

// Kind is the node type discriminator.
type Kind uint8

const (
	KindElement Kind = iota // <div>, <span>, ...
	KindText                // plain text
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	default:
		return "Unknown"
	}
}

// VNode is one virtual node.
type VNode struct {
	Kind     Kind
	Tag      string   // element tag name, lower case
	Data     *Data    // nil when the element has no class, style, attrs or listeners
	Children []*VNode // nil when the element has no children
	Text     string   // KindText only

	// Elm points back at the live node the VNode was built from. It is never
	// set for nodes built from markup strings and is not owned by the VNode.
	Elm dom.Node
}

// Data is the payload of an element node. Absent fields are nil.
type Data struct {
	Class map[string]bool
	Style map[string]string
	Attrs map[string]string
	On    map[string]any
}

// IsEmpty reports whether no field is populated.
func (d *Data) IsEmpty() bool {
	return d == nil || (len(d.Class) == 0 && len(d.Style) == 0 && len(d.Attrs) == 0 && len(d.On) == 0)
}

// H creates an element node. Empty data and empty children are normalised to nil.
func H(tag string, data *Data, children []*VNode) *VNode {
	if data.IsEmpty() {
		data = nil
	}
	if len(children) == 0 {
		children = nil
	}
	return &VNode{Kind: KindElement, Tag: tag, Data: data, Children: children}
}

// NewText creates a text node.
func NewText(text string) *VNode {
	return &VNode{Kind: KindText, Text: text}
}

// IsText reports whether v is a text node.
func (v *VNode) IsText() bool {
	return v != nil && v.Kind == KindText
}

// Clone returns a deep copy of the tree rooted at v. Maps are copied;
// listener values and Elm are shared.
func (v *VNode) Clone() *VNode {
	if v == nil {
		return nil
	}
	c := *v
	c.Data = v.Data.clone()
	if v.Children != nil {
		c.Children = make([]*VNode, len(v.Children))
		for i, child := range v.Children {
			c.Children[i] = child.Clone()
		}
	}
	return &c
}

func (d *Data) clone() *Data {
	if d == nil {
		return nil
	}
	return &Data{
		Class: maps.Clone(d.Class),
		Style: maps.Clone(d.Style),
		Attrs: maps.Clone(d.Attrs),
		On:    maps.Clone(d.On),
	}
}

// Count returns the number of nodes in the tree rooted at v.
func (v *VNode) Count() int {
	if v == nil {
		return 0
	}
	n := 1
	for _, c := range v.Children {
		n += c.Count()
	}
	return n
}

// Walk visits v and its descendants in post-order, the order in which the
// converters create them. It stops at the first error.
func (v *VNode) Walk(fn func(*VNode) error) error {
	if v == nil {
		return nil
	}
	for _, c := range v.Children {
		if err := c.Walk(fn); err != nil {
			return err
		}
	}
	return fn(v)
}

type wire struct {
	Sel      string    `json:"sel,omitempty" yaml:"sel,omitempty"`
	Data     *wireData `json:"data,omitempty" yaml:"data,omitempty"`
	Children []*wire   `json:"children,omitempty" yaml:"children,omitempty"`
	Text     *string   `json:"text,omitempty" yaml:"text,omitempty"`
}

type wireData struct {
	Class map[string]bool   `json:"class,omitempty" yaml:"class,omitempty"`
	Style map[string]string `json:"style,omitempty" yaml:"style,omitempty"`
	Attrs map[string]string `json:"attrs,omitempty" yaml:"attrs,omitempty"`
	On    []string          `json:"on,omitempty" yaml:"on,omitempty"`
}

func (v *VNode) toWire() *wire {
	if v == nil {
		return nil
	}
	if v.Kind == KindText {
		text := v.Text
		return &wire{Text: &text}
	}
	w := &wire{Sel: v.Tag}
	if !v.Data.IsEmpty() {
		w.Data = &wireData{Class: v.Data.Class, Style: v.Data.Style, Attrs: v.Data.Attrs}
		if len(v.Data.On) > 0 {
			// Handlers are not serialisable; the event names are.
			w.Data.On = make([]string, 0, len(v.Data.On))
			for name := range v.Data.On {
				w.Data.On = append(w.Data.On, name)
			}
			sort.Strings(w.Data.On)
		}
	}
	for _, c := range v.Children {
		w.Children = append(w.Children, c.toWire())
	}
	return w
}

// MarshalJSON implements json.Marshaler.
func (v *VNode) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.toWire())
}

// MarshalYAML returns the same layout as MarshalJSON for YAML encoders.
func (v *VNode) MarshalYAML() (any, error) {
	return v.toWire(), nil
}
