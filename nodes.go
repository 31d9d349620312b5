package virtualize

import (
	"strings"

	"github.com/cybergodev/virtualize/dom"
	"github.com/cybergodev/virtualize/internal"
	"github.com/cybergodev/virtualize/vnode"
)

func (c *conversion) convertRoot(n dom.Node) error {
	if n == nil {
		return nil
	}
	v, err := c.convertNode(n, 1)
	if err != nil {
		return err
	}
	if v != nil {
		c.roots = append(c.roots, v)
	}
	return nil
}

// convertNode builds the VNode for a live node. Nodes that are neither
// elements nor text yield nil and are skipped by the caller.
func (c *conversion) convertNode(n dom.Node, depth int) (*vnode.VNode, error) {
	if err := c.checkDepth(depth); err != nil {
		return nil, err
	}

	switch n.NodeType() {
	case dom.TextNode:
		v := vnode.NewText(c.decode(n.TextContent()))
		v.Elm = n
		return c.record(v), nil
	case dom.ElementNode:
	default:
		return nil, nil
	}

	data := &vnode.Data{
		Attrs: internal.FilterAttrs(n.Attributes(), nil),
		On:    listeners(n),
	}
	data.Class, _ = internal.ParseClass(n.ClassName())
	data.Style = nodeStyle(n)

	var children []*vnode.VNode
	for _, child := range n.ChildNodes() {
		v, err := c.convertNode(child, depth+1)
		if err != nil {
			return nil, err
		}
		if v != nil {
			children = append(children, v)
		}
	}

	v := vnode.H(strings.ToLower(n.TagName()), data, children)
	v.Elm = n
	return c.record(v), nil
}

// nodeStyle reads the host's inline style properties. Values are taken as
// the host reports them.
func nodeStyle(n dom.Node) map[string]string {
	props := n.Style()
	if len(props) == 0 {
		return nil
	}
	style := make(map[string]string, len(props))
	for _, p := range props {
		style[internal.TransformName(p.Name)] = p.Value
	}
	return style
}

func listeners(n dom.Node) map[string]any {
	var on map[string]any
	for _, slot := range internal.EventSlots {
		h := n.Handler(slot)
		if h == nil {
			continue
		}
		if on == nil {
			on = make(map[string]any)
		}
		on[internal.EventName(slot)] = h
	}
	return on
}
