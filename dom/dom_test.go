package dom

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mustParse(t *testing.T, markup string) *HTMLDocument {
	t.Helper()
	doc, err := ParseString(markup)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}
	return doc
}

func TestNodeIntrospection(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, `<html><body><div id="d" class="a b" data-x="1">hi<!-- c --><span>there</span></div></body></html>`)
	divs, err := doc.QuerySelectorAll("#d")
	if err != nil || len(divs) != 1 {
		t.Fatalf("QuerySelectorAll() = %v, %v", divs, err)
	}
	div := divs[0]

	if div.NodeType() != ElementNode || div.TagName() != "DIV" {
		t.Errorf("NodeType/TagName = %v/%q", div.NodeType(), div.TagName())
	}
	if div.ClassName() != "a b" {
		t.Errorf("ClassName() = %q", div.ClassName())
	}
	if div.TextContent() != "hithere" {
		t.Errorf("TextContent() = %q", div.TextContent())
	}

	children := div.ChildNodes()
	var kinds []NodeType
	for _, c := range children {
		kinds = append(kinds, c.NodeType())
	}
	if diff := cmp.Diff([]NodeType{TextNode, OtherNode, ElementNode}, kinds); diff != "" {
		t.Errorf("child kinds mismatch (-want +got):\n%s", diff)
	}
	if children[0].TagName() != "" {
		t.Errorf("text TagName() = %q", children[0].TagName())
	}

	attrs := div.Attributes()
	if len(attrs) != 3 {
		t.Errorf("Attributes() = %v", attrs)
	}
	attrs[0].Val = "mutated"
	if v, _ := div.GetAttribute("id"); v != "d" {
		t.Error("Attributes() must return a copy")
	}
}

func TestStableWrappers(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, `<p><b>x</b></p>`)
	first, _ := doc.QuerySelectorAll("b")
	second, _ := doc.QuerySelectorAll("b")
	if first[0] != second[0] {
		t.Error("same parser node should yield the same wrapper")
	}
	p, _ := doc.QuerySelectorAll("p")
	if p[0].ChildNodes()[0] != Node(first[0]) {
		t.Error("ChildNodes() should return the registered wrapper")
	}
}

func TestBuildTree(t *testing.T) {
	t.Parallel()

	doc := NewDocument()
	ul := doc.NewElement(" UL ")
	for _, text := range []string{"One", "Two"} {
		li := doc.NewElement("li")
		li.AppendChild(doc.CreateTextNode(text))
		ul.AppendChild(li)
	}
	ul.SetAttribute("ID", "list")

	if ul.TagName() != "UL" {
		t.Errorf("TagName() = %q", ul.TagName())
	}
	if v, ok := ul.GetAttribute("id"); !ok || v != "list" {
		t.Errorf("GetAttribute(id) = %q, %v", v, ok)
	}
	html, err := ul.InnerHTML()
	if err != nil {
		t.Fatal(err)
	}
	if html != "<li>One</li><li>Two</li>" {
		t.Errorf("InnerHTML() = %q", html)
	}

	ul.SetAttribute("id", "other")
	ul.RemoveAttribute("id")
	if _, ok := ul.GetAttribute("id"); ok {
		t.Error("RemoveAttribute() did not remove")
	}

	// Moving a node detaches it from its old parent.
	other := doc.NewElement("ol")
	li := ul.ChildNodes()[0].(*HTMLNode)
	other.AppendChild(li)
	if len(ul.ChildNodes()) != 1 || len(other.ChildNodes()) != 1 {
		t.Errorf("AppendChild() did not move the node")
	}
}

func TestSetInnerHTMLDecodesReferences(t *testing.T) {
	t.Parallel()

	doc := NewDocument()
	el := doc.CreateElement("div")

	tests := map[string]string{
		"&amp;":     "&",
		"&#169;":    "©",
		"&#xA9;":    "©",
		"&lt;b&gt;": "<b>",
		"&zzzz;":    "&zzzz;",
	}
	for ref, want := range tests {
		if err := el.SetInnerHTML(ref); err != nil {
			t.Fatalf("SetInnerHTML(%q) error = %v", ref, err)
		}
		if got := el.TextContent(); got != want {
			t.Errorf("SetInnerHTML(%q) text = %q, want %q", ref, got, want)
		}
	}

	if err := doc.CreateTextNode("x").SetInnerHTML("y"); !errors.Is(err, ErrNotElement) {
		t.Errorf("SetInnerHTML on text node = %v, want ErrNotElement", err)
	}
}

func TestStyle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		style string
		want  []StyleProperty
	}{
		{
			name:  "declarations in order",
			style: "z-index:17;position:absolute",
			want: []StyleProperty{
				{Name: "z-index", Value: "17"},
				{Name: "position", Value: "absolute"},
			},
		},
		{
			name:  "important marker removed",
			style: "color: red !important",
			want:  []StyleProperty{{Name: "color", Value: "red", Important: true}},
		},
		{
			name:  "last declaration wins",
			style: "color: red; color: blue",
			want:  []StyleProperty{{Name: "color", Value: "blue"}},
		},
		{
			name:  "important beats later normal",
			style: "color: red !important; color: blue",
			want:  []StyleProperty{{Name: "color", Value: "red", Important: true}},
		},
		{name: "empty", style: "   ", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			el := NewDocument().NewElement("div")
			el.SetAttribute("style", tt.style)
			if diff := cmp.Diff(tt.want, el.Style()); diff != "" {
				t.Errorf("Style() mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if got := NewDocument().NewElement("div").Style(); got != nil {
		t.Errorf("Style() without attribute = %v", got)
	}
}

func TestHandlers(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, `<button onclick="save()">Save</button>`)
	buttons, _ := doc.QuerySelectorAll("button")
	btn := buttons[0]

	if got := btn.Handler("onclick"); got != InlineHandler("save()") {
		t.Errorf("inline Handler(onclick) = %#v", got)
	}
	if got := btn.Handler("oninput"); got != nil {
		t.Errorf("Handler(oninput) = %#v, want nil", got)
	}

	called := false
	fn := func() { called = true }
	if err := btn.SetHandler("onClick", fn); err != nil {
		t.Fatal(err)
	}
	h, ok := btn.Handler("onclick").(func())
	if !ok {
		t.Fatalf("Handler(onclick) = %T, want func()", btn.Handler("onclick"))
	}
	h()
	if !called {
		t.Error("stored handler not returned")
	}

	if err := btn.SetHandler("onclick", nil); err != nil {
		t.Fatal(err)
	}
	if got := btn.Handler("onclick"); got != InlineHandler("save()") {
		t.Errorf("after clearing, Handler(onclick) = %#v", got)
	}

	if err := btn.SetHandler("click", fn); !errors.Is(err, ErrInvalidHandlerSlot) {
		t.Errorf("SetHandler(click) = %v, want ErrInvalidHandlerSlot", err)
	}
	if err := doc.CreateTextNode("x").SetHandler("onclick", fn); !errors.Is(err, ErrNotElement) {
		t.Errorf("SetHandler on text = %v, want ErrNotElement", err)
	}
}

func TestQuerySelectorAllInvalid(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, `<p>x</p>`)
	if _, err := doc.QuerySelectorAll("p["); !errors.Is(err, ErrInvalidSelector) {
		t.Errorf("QuerySelectorAll(p[) = %v, want ErrInvalidSelector", err)
	}
	got, err := doc.QuerySelectorAll("table")
	if err != nil || len(got) != 0 {
		t.Errorf("QuerySelectorAll(table) = %v, %v", got, err)
	}
}

func TestBody(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, `<title>t</title><p>x</p>`)
	body := doc.Body()
	if body == nil || body.TagName() != "BODY" {
		t.Fatalf("Body() = %v", body)
	}
	if NewDocument().Body() != nil {
		t.Error("empty document should have no body")
	}
	if doc.Root().NodeType() != OtherNode {
		t.Error("document node should be OtherNode")
	}
}
