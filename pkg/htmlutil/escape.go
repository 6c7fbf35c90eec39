// Package htmlutil provides the HTML string helpers the renderers share:
// escaping, entity resolution, link-scheme safety and tag sanitizing.
package htmlutil

import (
	"net/url"
	"strings"

	"github.com/yuin/goldmark/util"
)

// Escape escapes &, <, >, " and ' for inclusion in HTML. With encode
// false, an ampersand that already starts an entity or character
// reference is left alone so escaped input is not escaped twice.
func Escape(s string, encode bool) string {
	if !strings.ContainsAny(s, `&<>"'`) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + len(s)/8)

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '&':
			if !encode && isEntityAt(s, i) {
				b.WriteByte('&')
			} else {
				b.WriteString("&amp;")
			}
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '"':
			b.WriteString("&quot;")
		case '\'':
			b.WriteString("&#39;")
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// isEntityAt reports whether s[i:] starts with &#?\w+;.
func isEntityAt(s string, i int) bool {
	j := i + 1
	if j < len(s) && s[j] == '#' {
		j++
	}
	start := j
	for j < len(s) && isWordByte(s[j]) {
		j++
	}
	return j > start && j < len(s) && s[j] == ';'
}

func isWordByte(c byte) bool {
	return c == '_' || (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// Unescape resolves named, decimal and hexadecimal character references.
func Unescape(s string) string {
	if !strings.Contains(s, "&") {
		return s
	}
	b := util.ResolveNumericReferences([]byte(s))
	b = util.ResolveEntityNames(b)
	return string(b)
}

// EscapeAttribute escapes a value for a double-quoted attribute.
func EscapeAttribute(s string) string {
	return Escape(s, true)
}

// unsafeSchemes are link schemes rejected in sanitize mode.
//
//nolint:gochecknoglobals // Read-only lookup table.
var unsafeSchemes = []string{"javascript:", "vbscript:"}

// IsSafeURL reports whether href may be emitted as a link target in
// sanitize mode. The check unescapes entities and percent-encoding and
// ignores every character other than letters, digits, '_' and ':' so
// obfuscated schemes are caught.
func IsSafeURL(href string) bool {
	prot := schemeProbe(href)
	for _, scheme := range unsafeSchemes {
		if strings.HasPrefix(prot, scheme) {
			return false
		}
	}
	return !strings.HasPrefix(prot, "data:")
}

// IsSafeImageURL is IsSafeURL but also accepts data:image/ sources.
func IsSafeImageURL(src string) bool {
	if IsSafeURL(src) {
		return true
	}
	prot := schemeProbe(src)
	return strings.HasPrefix(prot, "data:image")
}

func schemeProbe(href string) string {
	decoded := Unescape(href)
	if unescaped, err := url.PathUnescape(decoded); err == nil {
		decoded = unescaped
	}

	var b strings.Builder
	for i := 0; i < len(decoded); i++ {
		c := decoded[i]
		if isWordByte(c) || c == ':' {
			if c >= 'A' && c <= 'Z' {
				c += 'a' - 'A'
			}
			b.WriteByte(c)
		}
	}
	return b.String()
}
