// Package virtualize converts live document nodes and markup strings into
// virtual-node trees for virtual-DOM renderers.
//
// Convert is the single entry point. It takes either a StringInput, which is
// parsed with golang.org/x/net/html, or a NodeInput holding a live dom.Node,
// and returns a Result: nothing, one node, or an ordered list of nodes.
// Every node created by a call is reported to the optional create hook in
// post-order once the whole tree is built.
//
//	res, err := virtualize.ConvertString(`<ul><li>One</li><li>Two</li></ul>`, virtualize.Options{})
//	root := res.Node() // ul with two li children
//
// Processor adds size limits, caching, batch conversion and byte, file and
// Markdown sources on top of Convert.
package virtualize

import (
	"encoding/json"
	"fmt"

	"github.com/cybergodev/virtualize/dom"
	"github.com/cybergodev/virtualize/vnode"
)

// Input is what Convert accepts: a StringInput or a NodeInput.
type Input interface {
	isInput()
}

// StringInput is raw markup.
type StringInput string

// NodeInput is a live document node.
type NodeInput struct {
	Node dom.Node
}

func (StringInput) isInput() {}
func (NodeInput) isInput()   {}

// Hooks are callbacks run after a conversion completes.
type Hooks struct {
	// Create is called once per created node, descendants before ancestors,
	// siblings left to right. The first error stops dispatch.
	Create func(*vnode.VNode) error
}

// Options configures one conversion.
type Options struct {
	// Context creates the scratch element used for entity decoding.
	// Defaults to a new empty dom.HTMLDocument per call.
	Context dom.Document
	Hooks   Hooks

	// MaxDepth limits nesting; 0 means unlimited.
	MaxDepth int

	// Sanitize strips scripts, on* attributes and unsafe URIs from string input.
	Sanitize bool
}

// Result holds the outcome of a conversion: no node, a single node, or an
// ordered list of nodes.
type Result struct {
	nodes   []*vnode.VNode
	created int
}

// IsNull reports whether the conversion produced nothing.
func (r Result) IsNull() bool {
	return len(r.nodes) == 0
}

// IsList reports whether the conversion produced more than one top-level node.
func (r Result) IsList() bool {
	return len(r.nodes) > 1
}

// Node returns the single top-level node, or nil for null and list results.
func (r Result) Node() *vnode.VNode {
	if len(r.nodes) == 1 {
		return r.nodes[0]
	}
	return nil
}

// Nodes returns every top-level node in source order.
func (r Result) Nodes() []*vnode.VNode {
	return r.nodes
}

// Len returns the number of top-level nodes.
func (r Result) Len() int {
	return len(r.nodes)
}

// Created returns the number of nodes built, at every depth.
func (r Result) Created() int {
	return r.created
}

// clone returns a copy of r whose trees share nothing with r.
func (r Result) clone() Result {
	if len(r.nodes) == 0 {
		return r
	}
	nodes := make([]*vnode.VNode, len(r.nodes))
	for i, n := range r.nodes {
		nodes[i] = n.Clone()
	}
	return Result{nodes: nodes, created: r.created}
}

// MarshalJSON encodes null, a single node, or an array.
func (r Result) MarshalJSON() ([]byte, error) {
	switch len(r.nodes) {
	case 0:
		return []byte("null"), nil
	case 1:
		return json.Marshal(r.nodes[0])
	default:
		return json.Marshal(r.nodes)
	}
}

// MarshalYAML mirrors MarshalJSON.
func (r Result) MarshalYAML() (any, error) {
	switch len(r.nodes) {
	case 0:
		return nil, nil
	case 1:
		return r.nodes[0], nil
	default:
		return r.nodes, nil
	}
}

// Convert turns in into virtual nodes and then runs the create hook over
// every node it built. A nil input, a NodeInput without a node and an empty
// string all produce a null Result.
func Convert(in Input, opts Options) (Result, error) {
	c := newConversion(opts)

	var err error
	switch in := in.(type) {
	case StringInput:
		err = c.convertString(string(in))
	case NodeInput:
		err = c.convertRoot(in.Node)
	case nil:
	default:
		return Result{}, fmt.Errorf("virtualize: unsupported input %T", in)
	}
	if err != nil {
		return Result{}, err
	}
	return c.finish()
}

// ConvertString converts markup.
func ConvertString(markup string, opts Options) (Result, error) {
	return Convert(StringInput(markup), opts)
}

// ConvertNode converts a live node.
func ConvertNode(n dom.Node, opts Options) (Result, error) {
	return Convert(NodeInput{Node: n}, opts)
}

// dispatchCreate runs the create hook over the log in order.
func dispatchCreate(created []*vnode.VNode, hook func(*vnode.VNode) error) error {
	if hook == nil {
		return nil
	}
	for i, n := range created {
		if err := hook(n); err != nil {
			return fmt.Errorf("%w: node %d of %d: %w", ErrCreateHook, i+1, len(created), err)
		}
	}
	return nil
}
