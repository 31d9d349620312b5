package dom

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HTMLDocument is a Document backed by a golang.org/x/net/html tree.
// It is safe for concurrent use; the underlying tree is not, so callers
// mutating nodes from several goroutines must synchronise themselves.
type HTMLDocument struct {
	root *html.Node

	mu    sync.Mutex
	nodes map[*html.Node]*HTMLNode
}

// NewDocument creates an empty document.
func NewDocument() *HTMLDocument {
	return Wrap(&html.Node{Type: html.DocumentNode})
}

// Wrap creates a document over an existing tree. root is usually the node
// returned by html.Parse but any node works.
func Wrap(root *html.Node) *HTMLDocument {
	return &HTMLDocument{
		root:  root,
		nodes: make(map[*html.Node]*HTMLNode),
	}
}

// ParseDocument parses a full HTML document.
func ParseDocument(r io.Reader) (*HTMLDocument, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return Wrap(root), nil
}

// ParseString parses a full HTML document held in a string.
func ParseString(markup string) (*HTMLDocument, error) {
	return ParseDocument(strings.NewReader(markup))
}

// Root returns the document node.
func (d *HTMLDocument) Root() *HTMLNode {
	return d.Node(d.root)
}

// Body returns the first body element, or nil.
func (d *HTMLDocument) Body() *HTMLNode {
	if n := findElement(d.root, atom.Body); n != nil {
		return d.Node(n)
	}
	return nil
}

// Node returns the wrapper for n. Wrappers are stable: the same *html.Node
// always yields the same *HTMLNode, so handlers set on it persist.
func (d *HTMLDocument) Node(n *html.Node) *HTMLNode {
	if n == nil {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if w, ok := d.nodes[n]; ok {
		return w
	}
	w := &HTMLNode{doc: d, n: n}
	d.nodes[n] = w
	return w
}

// CreateElement implements Document.
func (d *HTMLDocument) CreateElement(tag string) Element {
	return d.NewElement(tag)
}

// NewElement creates a detached element.
func (d *HTMLDocument) NewElement(tag string) *HTMLNode {
	tag = strings.ToLower(strings.TrimSpace(tag))
	return d.Node(&html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	})
}

// CreateTextNode creates a detached text node.
func (d *HTMLDocument) CreateTextNode(text string) *HTMLNode {
	return d.Node(&html.Node{Type: html.TextNode, Data: text})
}

// QuerySelectorAll returns the elements under the document root matching the
// CSS selector, in document order.
func (d *HTMLDocument) QuerySelectorAll(selector string) ([]*HTMLNode, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidSelector, selector, err)
	}
	matches := sel.MatchAll(d.root)
	out := make([]*HTMLNode, 0, len(matches))
	for _, m := range matches {
		out = append(out, d.Node(m))
	}
	return out, nil
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n == nil {
		return nil
	}
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}
