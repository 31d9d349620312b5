package internal

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/net/html"
)

func TestParseForest(t *testing.T) {
	t.Parallel()

	t.Run("single element", func(t *testing.T) {
		forest, err := ParseForest(`<ul><li>One</li><li>Two</li></ul>`)
		if err != nil {
			t.Fatal(err)
		}
		want := []*ForestNode{{
			Kind: ForestElement,
			Name: "ul",
			Children: []*ForestNode{
				{Kind: ForestElement, Name: "li", Children: []*ForestNode{{Kind: ForestText, Content: "One"}}},
				{Kind: ForestElement, Name: "li", Children: []*ForestNode{{Kind: ForestText, Content: "Two"}}},
			},
		}}
		if diff := cmp.Diff(want, forest); diff != "" {
			t.Errorf("ParseForest() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("references kept raw", func(t *testing.T) {
		forest, err := ParseForest(`<a title="&quot;x&quot;">&amp; &#169; &lt;</a>`)
		if err != nil {
			t.Fatal(err)
		}
		a := forest[0]
		if v, _ := a.Attr("title"); v != "&quot;x&quot;" {
			t.Errorf("title = %q", v)
		}
		if got := a.Children[0].Content; got != "&amp; &#169; &lt;" {
			t.Errorf("text = %q", got)
		}
	})

	t.Run("raw text elements", func(t *testing.T) {
		forest, err := ParseForest(`<script>if (a && b) {}</script>`)
		if err != nil {
			t.Fatal(err)
		}
		if got := forest[0].Children[0].Content; got != "if (a && b) {}" {
			t.Errorf("script text = %q", got)
		}
	})

	t.Run("multiple roots and whitespace", func(t *testing.T) {
		forest, err := ParseForest("\n  <p>a</p>\n  <p>b</p>\n")
		if err != nil {
			t.Fatal(err)
		}
		if len(forest) != 2 || forest[0].Name != "p" || forest[1].Name != "p" {
			t.Errorf("got %d roots", len(forest))
		}
	})

	t.Run("comments dropped", func(t *testing.T) {
		forest, err := ParseForest(`<!-- note --><b>x<!-- inner --></b>`)
		if err != nil {
			t.Fatal(err)
		}
		if len(forest) != 1 || len(forest[0].Children) != 1 {
			t.Errorf("comments not dropped: %+v", forest)
		}
	})

	t.Run("plain text", func(t *testing.T) {
		forest, err := ParseForest("just text")
		if err != nil {
			t.Fatal(err)
		}
		if len(forest) != 1 || forest[0].Kind != ForestText || forest[0].Content != "just text" {
			t.Errorf("forest = %+v", forest)
		}
	})

	t.Run("nothing kept", func(t *testing.T) {
		for _, input := range []string{"", "   \n\t", "<!-- only a comment -->"} {
			forest, err := ParseForest(input)
			if err != nil {
				t.Fatal(err)
			}
			if len(forest) != 0 {
				t.Errorf("ParseForest(%q) = %d nodes, want 0", input, len(forest))
			}
		}
	})
}

func TestFilterAttrs(t *testing.T) {
	t.Parallel()

	attrs := []html.Attribute{
		{Key: "id", Val: "main"},
		{Key: "class", Val: "a b"},
		{Key: "style", Val: "color: red"},
		{Key: "data-x", Val: "&amp;"},
		{Namespace: "xlink", Key: "href", Val: "#icon"},
	}

	got := FilterAttrs(attrs, nil)
	want := map[string]string{"id": "main", "data-x": "&amp;", "xlink:href": "#icon"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FilterAttrs() mismatch (-want +got):\n%s", diff)
	}

	got = FilterAttrs(attrs, func(s string) string { return strings.ReplaceAll(s, "&amp;", "&") })
	if got["data-x"] != "&" {
		t.Errorf("decoded data-x = %q", got["data-x"])
	}

	if got := FilterAttrs([]html.Attribute{{Key: "class", Val: "x"}}, nil); got != nil {
		t.Errorf("FilterAttrs() = %v, want nil", got)
	}
}

func TestSanitizeForest(t *testing.T) {
	t.Parallel()

	forest, err := ParseForest(`<div onclick="x()" id="d">` +
		`<script>alert(1)</script>` +
		`<a href="javascript:alert(1)" title="t">link</a>` +
		`<a href="&#106;avascript:alert(1)">encoded</a>` +
		`<img src="data:image/png;base64,iVBORw0KG" onerror="x()">` +
		`<iframe src="https://example.com"></iframe>` +
		`<p style="color:red">ok</p>` +
		`</div><style>p{}</style>`)
	if err != nil {
		t.Fatal(err)
	}

	got := SanitizeForest(forest)
	if len(got) != 1 {
		t.Fatalf("got %d roots, want 1 (style removed)", len(got))
	}
	div := got[0]
	if _, ok := div.Attr("onclick"); ok {
		t.Error("onclick not removed")
	}
	if _, ok := div.Attr("id"); !ok {
		t.Error("id removed")
	}

	var names []string
	for _, c := range div.Children {
		names = append(names, c.Name)
	}
	if diff := cmp.Diff([]string{"a", "a", "img", "p"}, names); diff != "" {
		t.Errorf("children mismatch (-want +got):\n%s", diff)
	}
	for _, a := range div.Children[:2] {
		if _, ok := a.Attr("href"); ok {
			t.Errorf("unsafe href kept on %+v", a)
		}
	}
	img := div.Children[2]
	if _, ok := img.Attr("src"); !ok {
		t.Error("safe data: src removed")
	}
	if _, ok := img.Attr("onerror"); ok {
		t.Error("onerror not removed")
	}
	if _, ok := div.Children[3].Attr("style"); !ok {
		t.Error("style attribute should survive sanitisation")
	}
}

func TestIsSafeURI(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		uri  string
		safe bool
	}{
		{"empty", "", true},
		{"http", "https://example.com", true},
		{"relative", "/path/to/page", true},
		{"fragment", "#top", true},
		{"javascript", "javascript:alert(1)", false},
		{"javascript with spaces", " javascript:alert(1)", false},
		{"javascript uppercase", "JAVASCRIPT:alert(1)", false},
		{"javascript with tab", "java\tscript:alert(1)", false},
		{"vbscript", "vbscript:msgbox(1)", false},
		{"file", "file:///etc/passwd", false},
		{"data valid image", "data:image/png;base64,abc123", true},
		{"data valid font", "data:font/woff2;base64,abc", true},
		{"data plain text", "data:text/plain,abc", true},
		{"data svg", "data:image/svg+xml;base64,abc", false},
		{"data html", "data:text/html,<script>alert(1)</script>", false},
		{"data bad base64", "data:image/png;base64,\x01\x02", false},
		{"data no comma", "data:image/png", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isSafeURI(tt.uri); got != tt.safe {
				t.Errorf("isSafeURI(%q) = %v, want %v", tt.uri, got, tt.safe)
			}
		})
	}
}
