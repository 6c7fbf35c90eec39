package mdast

// TextToken is plain inline text, kept exactly as written.
type TextToken struct {
	TokenInfo
	Text string
}

// Kind implements Token.
func (*TextToken) Kind() TokenKind { return KindText }

// EscapeToken is a backslash escape; Char is the escaped character.
type EscapeToken struct {
	TokenInfo
	Char string
}

// Kind implements Token.
func (*EscapeToken) Kind() TokenKind { return KindEscape }

// StrongToken is strong emphasis.
type StrongToken struct {
	TokenInfo
	Inlines []Token
}

// Kind implements Token.
func (*StrongToken) Kind() TokenKind { return KindStrong }

// Children implements Container.
func (t *StrongToken) Children() []Token { return t.Inlines }

// RewriteChildren implements Rewritable.
func (t *StrongToken) RewriteChildren(r ChildRewriter) (Token, error) {
	inlines, changed, err := rewriteSlice(r, t.Inlines)
	if err != nil || !changed {
		return t, err
	}
	clone := *t
	clone.Inlines = inlines
	return &clone, nil
}

// EmToken is emphasis.
type EmToken struct {
	TokenInfo
	Inlines []Token
}

// Kind implements Token.
func (*EmToken) Kind() TokenKind { return KindEm }

// Children implements Container.
func (t *EmToken) Children() []Token { return t.Inlines }

// RewriteChildren implements Rewritable.
func (t *EmToken) RewriteChildren(r ChildRewriter) (Token, error) {
	inlines, changed, err := rewriteSlice(r, t.Inlines)
	if err != nil || !changed {
		return t, err
	}
	clone := *t
	clone.Inlines = inlines
	return &clone, nil
}

// DelToken is strikethrough.
type DelToken struct {
	TokenInfo
	Inlines []Token
}

// Kind implements Token.
func (*DelToken) Kind() TokenKind { return KindDel }

// Children implements Container.
func (t *DelToken) Children() []Token { return t.Inlines }

// RewriteChildren implements Rewritable.
func (t *DelToken) RewriteChildren(r ChildRewriter) (Token, error) {
	inlines, changed, err := rewriteSlice(r, t.Inlines)
	if err != nil || !changed {
		return t, err
	}
	clone := *t
	clone.Inlines = inlines
	return &clone, nil
}

// CodeSpanToken is inline code. Code is raw and unescaped.
type CodeSpanToken struct {
	TokenInfo
	Code string
}

// Kind implements Token.
func (*CodeSpanToken) Kind() TokenKind { return KindCodeSpan }

// LinkType records the syntax a link was written in.
type LinkType uint8

// Link syntaxes.
const (
	// LinkTypeInline is [text](href "title").
	LinkTypeInline LinkType = iota

	// LinkTypeReference is [text][label], [label][] or [label].
	LinkTypeReference

	// LinkTypeAuto is <href> or <user@example.com>.
	LinkTypeAuto

	// LinkTypeURL is a bare URL recognized in text.
	LinkTypeURL
)

// String returns the link type name.
func (t LinkType) String() string {
	switch t {
	case LinkTypeInline:
		return "inline"
	case LinkTypeReference:
		return "reference"
	case LinkTypeAuto:
		return "auto"
	case LinkTypeURL:
		return "url"
	default:
		return "unknown"
	}
}

// LinkToken is a hyperlink.
type LinkToken struct {
	TokenInfo
	LinkType LinkType
	Href     string
	Title    string
	// Email is set for autolinks to an address; Href then has a mailto: prefix.
	Email   bool
	Inlines []Token
}

// Kind implements Token.
func (*LinkToken) Kind() TokenKind { return KindLink }

// Children implements Container.
func (t *LinkToken) Children() []Token { return t.Inlines }

// RewriteChildren implements Rewritable.
func (t *LinkToken) RewriteChildren(r ChildRewriter) (Token, error) {
	inlines, changed, err := rewriteSlice(r, t.Inlines)
	if err != nil || !changed {
		return t, err
	}
	clone := *t
	clone.Inlines = inlines
	return &clone, nil
}

// ImageToken is an image. Alt is the raw alternative text.
type ImageToken struct {
	TokenInfo
	LinkType LinkType
	Href     string
	Title    string
	Alt      string
}

// Kind implements Token.
func (*ImageToken) Kind() TokenKind { return KindImage }

// BrToken is a hard line break.
type BrToken struct {
	TokenInfo
}

// Kind implements Token.
func (*BrToken) Kind() TokenKind { return KindBr }

// TagToken is raw inline HTML (a tag or a comment).
type TagToken struct {
	TokenInfo
	Raw string
}

// Kind implements Token.
func (*TagToken) Kind() TokenKind { return KindTag }

// PlainText returns the concatenated text content of inline tokens,
// dropping markup. It is used for heading ids and image alt text.
func PlainText(tokens []Token) string {
	var buf []byte
	var collect func(ts []Token)
	collect = func(ts []Token) {
		for _, t := range ts {
			switch tok := t.(type) {
			case *TextToken:
				buf = append(buf, tok.Text...)
			case *EscapeToken:
				buf = append(buf, tok.Char...)
			case *CodeSpanToken:
				buf = append(buf, tok.Code...)
			case *ImageToken:
				buf = append(buf, tok.Alt...)
			case *BrToken:
				buf = append(buf, ' ')
			case *TagToken:
			default:
				collect(Children(t))
			}
		}
	}
	collect(tokens)
	return string(buf)
}
