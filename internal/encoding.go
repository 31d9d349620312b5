package internal

import (
	"bytes"
	"fmt"
	"regexp"
	"unicode/utf8"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	charsetPattern    = regexp.MustCompile(`(?i)<meta\s+[^>]*http-equiv=["']?content-type["']?[^>]*content=["']?[^;]*;\s*charset=([^"'\s>]+)`)
	charsetPatternAlt = regexp.MustCompile(`(?i)<meta\s+charset=["']?([^"'\s>]+)`)

	utf8BOM    = []byte{0xEF, 0xBB, 0xBF}
	utf16BEBOM = []byte{0xFE, 0xFF}
	utf16LEBOM = []byte{0xFF, 0xFE}
)

const (
	charsetSniffSize = 1024
	fallbackCharset  = "windows-1252"
)

// DetectCharset picks the charset of an HTML byte stream: byte order mark
// first, then a <meta> declaration, then UTF-8 validity, then windows-1252.
// Valid non-ASCII UTF-8 overrides a declaration.
func DetectCharset(data []byte) string {
	switch {
	case bytes.HasPrefix(data, utf8BOM):
		return "utf-8"
	case bytes.HasPrefix(data, utf16BEBOM):
		return "utf-16be"
	case bytes.HasPrefix(data, utf16LEBOM):
		return "utf-16le"
	}

	sample := data
	if len(sample) > charsetSniffSize {
		sample = sample[:charsetSniffSize]
	}
	if declared := declaredCharset(sample); declared != "" {
		if declared != "utf-8" && utf8.Valid(data) && hasUTF8Sequences(data) {
			return "utf-8"
		}
		return declared
	}
	if utf8.Valid(data) {
		return "utf-8"
	}
	return fallbackCharset
}

func declaredCharset(sample []byte) string {
	for _, re := range []*regexp.Regexp{charsetPattern, charsetPatternAlt} {
		if m := re.FindSubmatch(sample); len(m) > 1 {
			if name := CanonicalCharset(string(m[1])); name != "" {
				return name
			}
		}
	}
	return ""
}

// CanonicalCharset maps a charset label to its WHATWG name, or "" if unknown.
func CanonicalCharset(label string) string {
	enc, err := htmlindex.Get(label)
	if err != nil {
		return ""
	}
	name, err := htmlindex.Name(enc)
	if err != nil {
		return ""
	}
	return name
}

// hasUTF8Sequences reports whether data holds any multi-byte sequence, as
// opposed to plain ASCII which every charset decodes the same way.
func hasUTF8Sequences(data []byte) bool {
	for _, b := range data {
		if b >= utf8.RuneSelf {
			return true
		}
	}
	return false
}

// DecodeToUTF8 converts data to a UTF-8 string. forced, when not empty,
// overrides detection. It returns the text and the charset used.
func DecodeToUTF8(data []byte, forced string) (string, string, error) {
	charset := DetectCharset(data)
	if forced != "" {
		charset = CanonicalCharset(forced)
		if charset == "" {
			return "", "", fmt.Errorf("unknown charset %q", forced)
		}
	}

	if charset == "utf-8" {
		return string(bytes.TrimPrefix(data, utf8BOM)), charset, nil
	}

	enc, err := htmlindex.Get(charset)
	if err != nil {
		return "", "", fmt.Errorf("charset %q: %w", charset, err)
	}
	out, _, err := transform.Bytes(unicode.BOMOverride(enc.NewDecoder()), data)
	if err != nil {
		return "", "", fmt.Errorf("decode %s: %w", charset, err)
	}
	return string(out), charset, nil
}
