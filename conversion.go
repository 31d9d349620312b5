package virtualize

import (
	"fmt"

	"github.com/cybergodev/virtualize/dom"
	"github.com/cybergodev/virtualize/internal"
	"github.com/cybergodev/virtualize/vnode"
)

// conversion is the state of one Convert call. It owns the scratch element
// used for entity decoding, so concurrent calls never share one.
type conversion struct {
	doc      dom.Document
	decoder  *internal.EntityDecoder
	hooks    Hooks
	maxDepth int
	sanitize bool

	roots   []*vnode.VNode
	created []*vnode.VNode
}

func newConversion(opts Options) *conversion {
	doc := opts.Context
	if doc == nil {
		doc = dom.NewDocument()
	}
	c := &conversion{
		doc:      doc,
		hooks:    opts.Hooks,
		maxDepth: opts.MaxDepth,
		sanitize: opts.Sanitize,
	}
	c.decoder = internal.NewEntityDecoder(func() internal.Scratch {
		return doc.CreateElement(internal.DefaultScratchTag)
	})
	return c
}

func (c *conversion) decode(text string) string {
	return c.decoder.Decode(text)
}

// record appends n to the created-nodes log. Callers record children before
// their parent, which makes the log post-order.
func (c *conversion) record(n *vnode.VNode) *vnode.VNode {
	c.created = append(c.created, n)
	return n
}

func (c *conversion) checkDepth(depth int) error {
	if c.maxDepth > 0 && depth > c.maxDepth {
		return fmt.Errorf("%w: depth %d, max %d", ErrMaxDepthExceeded, depth, c.maxDepth)
	}
	return nil
}

func (c *conversion) finish() (Result, error) {
	if err := dispatchCreate(c.created, c.hooks.Create); err != nil {
		return Result{}, err
	}
	return Result{nodes: c.roots, created: len(c.created)}, nil
}
