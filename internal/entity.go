package internal

import (
	"regexp"
	"strings"
)

// entityPattern matches named, decimal and hexadecimal character references.
var entityPattern = regexp.MustCompile(`(?i)&[a-z0-9#]+;`)

// Scratch is the host element an EntityDecoder delegates to: a reference is
// assigned as its markup and the resulting text read back.
type Scratch interface {
	SetInnerHTML(markup string) error
	TextContent() string
}

// EntityDecoder decodes character references through a lazily created
// scratch element. It is not safe for concurrent use; give every conversion
// its own decoder.
type EntityDecoder struct {
	newScratch func() Scratch
	scratch    Scratch
	memo       map[string]string
}

// NewEntityDecoder returns a decoder that calls newScratch at most once, the
// first time a reference needs decoding.
func NewEntityDecoder(newScratch func() Scratch) *EntityDecoder {
	return &EntityDecoder{newScratch: newScratch}
}

// Decode replaces every character reference in text with the characters the
// host produces for it. References the host does not know are kept verbatim.
func (d *EntityDecoder) Decode(text string) string {
	if !strings.ContainsRune(text, '&') {
		return text
	}
	return entityPattern.ReplaceAllStringFunc(text, d.decodeOne)
}

func (d *EntityDecoder) decodeOne(ref string) string {
	if v, ok := d.memo[ref]; ok {
		return v
	}
	if d.scratch == nil {
		d.scratch = d.newScratch()
		d.memo = make(map[string]string)
	}
	if err := d.scratch.SetInnerHTML(ref); err != nil {
		return ref
	}
	v := d.scratch.TextContent()
	d.memo[ref] = v
	return v
}
