package dom

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HTMLNode wraps one *html.Node of an HTMLDocument.
type HTMLNode struct {
	doc      *HTMLDocument
	n        *html.Node
	handlers map[string]any // guarded by doc.mu
}

// HTML returns the underlying parser node.
func (h *HTMLNode) HTML() *html.Node {
	return h.n
}

// Document returns the owning document.
func (h *HTMLNode) Document() *HTMLDocument {
	return h.doc
}

// NodeType implements Node.
func (h *HTMLNode) NodeType() NodeType {
	switch h.n.Type {
	case html.ElementNode:
		return ElementNode
	case html.TextNode:
		return TextNode
	default:
		return OtherNode
	}
}

// TagName implements Node. HTML elements report upper case, as browsers do;
// foreign (SVG, MathML) elements keep their case.
func (h *HTMLNode) TagName() string {
	if h.n.Type != html.ElementNode {
		return ""
	}
	if h.n.Namespace == "" {
		return strings.ToUpper(h.n.Data)
	}
	return h.n.Data
}

// TextContent implements Node.
func (h *HTMLNode) TextContent() string {
	switch h.n.Type {
	case html.TextNode, html.CommentNode:
		return h.n.Data
	case html.DoctypeNode:
		return ""
	}
	var sb strings.Builder
	collectText(h.n, &sb)
	return sb.String()
}

func collectText(n *html.Node, sb *strings.Builder) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			sb.WriteString(c.Data)
		case html.ElementNode:
			collectText(c, sb)
		}
	}
}

// SetTextContent replaces the children of an element with a single text node.
// On a text node it replaces the character data.
func (h *HTMLNode) SetTextContent(text string) {
	if h.n.Type == html.TextNode {
		h.n.Data = text
		return
	}
	h.removeChildren()
	if text != "" {
		h.n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	}
}

// Attributes implements Node. The returned slice is a copy.
func (h *HTMLNode) Attributes() []Attribute {
	if h.n.Type != html.ElementNode || len(h.n.Attr) == 0 {
		return nil
	}
	out := make([]Attribute, len(h.n.Attr))
	copy(out, h.n.Attr)
	return out
}

// GetAttribute returns the value of the named attribute.
func (h *HTMLNode) GetAttribute(name string) (string, bool) {
	name = strings.ToLower(name)
	for _, a := range h.n.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttribute sets or replaces the named attribute.
func (h *HTMLNode) SetAttribute(name, value string) {
	name = strings.ToLower(name)
	for i, a := range h.n.Attr {
		if a.Namespace == "" && a.Key == name {
			h.n.Attr[i].Val = value
			return
		}
	}
	h.n.Attr = append(h.n.Attr, html.Attribute{Key: name, Val: value})
}

// RemoveAttribute removes the named attribute if present.
func (h *HTMLNode) RemoveAttribute(name string) {
	name = strings.ToLower(name)
	for i, a := range h.n.Attr {
		if a.Namespace == "" && a.Key == name {
			h.n.Attr = append(h.n.Attr[:i], h.n.Attr[i+1:]...)
			return
		}
	}
}

// ChildNodes implements Node.
func (h *HTMLNode) ChildNodes() []Node {
	var out []Node
	for c := h.n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, h.doc.Node(c))
	}
	return out
}

// AppendChild moves child to the end of h's children.
func (h *HTMLNode) AppendChild(child *HTMLNode) {
	if child.n.Parent != nil {
		child.n.Parent.RemoveChild(child.n)
	}
	h.n.AppendChild(child.n)
}

func (h *HTMLNode) removeChildren() {
	for c := h.n.FirstChild; c != nil; {
		next := c.NextSibling
		h.n.RemoveChild(c)
		c = next
	}
}

// Style implements Node by parsing the inline style attribute.
func (h *HTMLNode) Style() []StyleProperty {
	text, ok := h.GetAttribute("style")
	if !ok {
		return nil
	}
	return parseInlineStyle(text)
}

// ClassName implements Node.
func (h *HTMLNode) ClassName() string {
	v, _ := h.GetAttribute("class")
	return v
}

// SetHandler stores handler in the given "on*" slot. A nil handler clears it.
func (h *HTMLNode) SetHandler(slot string, handler any) error {
	slot = strings.ToLower(slot)
	if len(slot) <= 2 || !strings.HasPrefix(slot, "on") {
		return fmt.Errorf("%w: %q", ErrInvalidHandlerSlot, slot)
	}
	if h.n.Type != html.ElementNode {
		return ErrNotElement
	}
	h.doc.mu.Lock()
	defer h.doc.mu.Unlock()
	if handler == nil {
		delete(h.handlers, slot)
		return nil
	}
	if h.handlers == nil {
		h.handlers = make(map[string]any)
	}
	h.handlers[slot] = handler
	return nil
}

// Handler implements Node. A handler set with SetHandler wins over an inline
// attribute of the same name, which is reported as an InlineHandler.
func (h *HTMLNode) Handler(slot string) any {
	if h.n.Type != html.ElementNode {
		return nil
	}
	h.doc.mu.Lock()
	handler, ok := h.handlers[slot]
	h.doc.mu.Unlock()
	if ok {
		return handler
	}
	if src, ok := h.GetAttribute(slot); ok {
		return InlineHandler(src)
	}
	return nil
}

// SetInnerHTML implements Element: markup is parsed in the context of this
// element and replaces its children.
func (h *HTMLNode) SetInnerHTML(markup string) error {
	if h.n.Type != html.ElementNode {
		return ErrNotElement
	}
	context := &html.Node{
		Type:      html.ElementNode,
		Data:      h.n.Data,
		DataAtom:  h.n.DataAtom,
		Namespace: h.n.Namespace,
	}
	if context.DataAtom == 0 && context.Namespace == "" {
		context.Data, context.DataAtom = "div", atom.Div
	}
	nodes, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return fmt.Errorf("set inner html: %w", err)
	}
	h.removeChildren()
	for _, n := range nodes {
		h.n.AppendChild(n)
	}
	return nil
}

// InnerHTML serialises the children of h.
func (h *HTMLNode) InnerHTML() (string, error) {
	var buf bytes.Buffer
	for c := h.n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}
