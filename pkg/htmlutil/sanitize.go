package htmlutil

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// TagSet is a set of lowercase tag names.
type TagSet map[string]struct{}

// NewTagSet builds a TagSet from names, lowercasing them.
func NewTagSet(names ...string) TagSet {
	set := make(TagSet, len(names))
	for _, name := range names {
		set[strings.ToLower(name)] = struct{}{}
	}
	return set
}

// Has reports whether name is in the set.
func (s TagSet) Has(name string) bool {
	_, ok := s[strings.ToLower(name)]
	return ok
}

// DefaultAllowedTags are the tags kept by sanitize mode when the caller
// configures no allow-list.
func DefaultAllowedTags() TagSet {
	return NewTagSet(
		"a", "abbr", "b", "br", "code", "del", "em", "i", "img", "ins",
		"kbd", "mark", "q", "s", "samp", "small", "span", "strike",
		"strong", "sub", "sup", "u", "var",
	)
}

// urlAttributes hold link targets and are checked for unsafe schemes.
//
//nolint:gochecknoglobals // Read-only lookup table.
var urlAttributes = map[string]bool{
	"href":       true,
	"src":        true,
	"action":     true,
	"formaction": true,
	"xlink:href": true,
}

// SanitizeTag filters a raw HTML fragment against allow. Tags on the list
// are re-emitted with event-handler attributes and unsafe link targets
// removed; every other tag, comment or doctype is escaped so it shows as
// text. Text between tags is escaped without re-escaping references.
func SanitizeTag(raw string, allow TagSet) string {
	tokenizer := html.NewTokenizer(strings.NewReader(raw))

	var b strings.Builder
	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			if tokenizer.Err() != io.EOF {
				// Unparseable remainder; show it verbatim as text.
				b.WriteString(Escape(string(tokenizer.Raw()), false))
			}
			return b.String()
		}

		rawToken := string(tokenizer.Raw())
		switch tt {
		case html.TextToken:
			b.WriteString(Escape(rawToken, false))
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			tok := tokenizer.Token()
			if !allow.Has(tok.Data) {
				b.WriteString(Escape(rawToken, true))
				continue
			}
			b.WriteString(renderTag(tt, tok))
		default:
			b.WriteString(Escape(rawToken, true))
		}
	}
}

// TagName returns the lowercase name of the first tag in raw, or "" if
// raw does not start with a tag.
func TagName(raw string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(raw))
	switch tokenizer.Next() {
	case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
		name, _ := tokenizer.TagName()
		return string(name)
	default:
		return ""
	}
}

func renderTag(tt html.TokenType, tok html.Token) string {
	var b strings.Builder
	b.WriteByte('<')
	if tt == html.EndTagToken {
		b.WriteByte('/')
		b.WriteString(tok.Data)
		b.WriteByte('>')
		return b.String()
	}

	b.WriteString(tok.Data)
	for _, attr := range tok.Attr {
		key := strings.ToLower(attr.Key)
		if strings.HasPrefix(key, "on") {
			continue
		}
		if urlAttributes[key] && !IsSafeURL(attr.Val) {
			continue
		}
		b.WriteByte(' ')
		b.WriteString(key)
		b.WriteString(`="`)
		b.WriteString(EscapeAttribute(attr.Val))
		b.WriteByte('"')
	}
	if tt == html.SelfClosingTagToken {
		b.WriteString(" /")
	}
	b.WriteByte('>')
	return b.String()
}

// StripTags returns the text content of an HTML fragment with all tags
// and comments removed and entities resolved.
func StripTags(raw string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(raw))

	var b strings.Builder
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(tokenizer.Text())
		}
	}
}
