package virtualize

import (
	"fmt"

	"github.com/cybergodev/virtualize/internal"
	"github.com/cybergodev/virtualize/vnode"
)

func (c *conversion) convertString(markup string) error {
	if markup == "" {
		return nil
	}

	forest, err := internal.ParseForest(markup)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrParse, err)
	}
	if len(forest) == 0 {
		// Nothing the parser could keep: the input is plain text.
		c.roots = append(c.roots, c.record(vnode.NewText(c.decode(markup))))
		return nil
	}
	if c.sanitize {
		forest = internal.SanitizeForest(forest)
	}

	for _, fn := range forest {
		v, err := c.mapForest(fn, 1)
		if err != nil {
			return err
		}
		c.roots = append(c.roots, v)
	}
	return nil
}

func (c *conversion) mapForest(fn *internal.ForestNode, depth int) (*vnode.VNode, error) {
	if err := c.checkDepth(depth); err != nil {
		return nil, err
	}
	if fn.Kind == internal.ForestText {
		return c.record(vnode.NewText(c.decode(fn.Content))), nil
	}

	data := &vnode.Data{Attrs: internal.FilterAttrs(fn.Attrs, c.decode)}
	if text, ok := fn.Attr("style"); ok {
		data.Style, _ = internal.ParseStyle(text)
	}
	if text, ok := fn.Attr("class"); ok {
		data.Class, _ = internal.ParseClass(text)
	}

	var children []*vnode.VNode
	if len(fn.Children) > 0 {
		children = make([]*vnode.VNode, 0, len(fn.Children))
	}
	for _, child := range fn.Children {
		v, err := c.mapForest(child, depth+1)
		if err != nil {
			return nil, err
		}
		children = append(children, v)
	}

	return c.record(vnode.H(fn.Name, data, children)), nil
}
