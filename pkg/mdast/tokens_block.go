package mdast

// Parser is the part of the tokenizer that deferred tokens need in order
// to resolve themselves. The parser package implements it.
type Parser interface {
	// Context returns the context currently in effect.
	Context() *Context

	// TokenizeInline lexes src with the inline rule set.
	TokenizeInline(src SourceInfo) ([]Token, error)
}

// NewLineToken is a run of blank lines.
type NewLineToken struct {
	TokenInfo
}

// Kind implements Token.
func (*NewLineToken) Kind() TokenKind { return KindNewLine }

// IgnoreToken marks consumed input that produces no output, such as link
// reference definitions.
type IgnoreToken struct {
	TokenInfo
}

// Kind implements Token.
func (*IgnoreToken) Kind() TokenKind { return KindIgnore }

// BlockTextToken is a line of text found where paragraphs are not
// eligible (inside list items). Runs of them are wrapped into paragraph
// or non-paragraph tokens by a rewrite pass.
type BlockTextToken struct {
	TokenInfo
	Text string
}

// Kind implements Token.
func (*BlockTextToken) Kind() TokenKind { return KindBlockText }

// HeadingToken is an ATX or setext heading.
type HeadingToken struct {
	TokenInfo
	Depth   int
	ID      string
	Inlines []Token
}

// Kind implements Token.
func (*HeadingToken) Kind() TokenKind { return KindHeading }

// Children implements Container.
func (t *HeadingToken) Children() []Token { return t.Inlines }

// RewriteChildren implements Rewritable.
func (t *HeadingToken) RewriteChildren(r ChildRewriter) (Token, error) {
	inlines, changed, err := rewriteSlice(r, t.Inlines)
	if err != nil || !changed {
		return t, err
	}
	clone := *t
	clone.Inlines = inlines
	return &clone, nil
}

// WithID returns a copy of the heading carrying id.
func (t *HeadingToken) WithID(id string) *HeadingToken {
	clone := *t
	clone.ID = id
	return &clone
}

// ParagraphToken is a paragraph of inline content.
type ParagraphToken struct {
	TokenInfo
	Inlines []Token
}

// Kind implements Token.
func (*ParagraphToken) Kind() TokenKind { return KindParagraph }

// Children implements Container.
func (t *ParagraphToken) Children() []Token { return t.Inlines }

// RewriteChildren implements Rewritable.
func (t *ParagraphToken) RewriteChildren(r ChildRewriter) (Token, error) {
	inlines, changed, err := rewriteSlice(r, t.Inlines)
	if err != nil || !changed {
		return t, err
	}
	clone := *t
	clone.Inlines = inlines
	return &clone, nil
}

// NonParagraphToken is inline content rendered without a paragraph
// wrapper, as in tight list items.
type NonParagraphToken struct {
	TokenInfo
	Inlines []Token
}

// Kind implements Token.
func (*NonParagraphToken) Kind() TokenKind { return KindNonParagraph }

// Children implements Container.
func (t *NonParagraphToken) Children() []Token { return t.Inlines }

// RewriteChildren implements Rewritable.
func (t *NonParagraphToken) RewriteChildren(r ChildRewriter) (Token, error) {
	inlines, changed, err := rewriteSlice(r, t.Inlines)
	if err != nil || !changed {
		return t, err
	}
	clone := *t
	clone.Inlines = inlines
	return &clone, nil
}

// CodeToken is an indented or fenced code block. Code holds the raw,
// unescaped content without the trailing newline.
type CodeToken struct {
	TokenInfo
	Lang   string
	Code   string
	Fenced bool
}

// Kind implements Token.
func (*CodeToken) Kind() TokenKind { return KindCode }

// HrToken is a thematic break.
type HrToken struct {
	TokenInfo
}

// Kind implements Token.
func (*HrToken) Kind() TokenKind { return KindHr }

// BlockquoteToken holds the block tokens of a quote.
type BlockquoteToken struct {
	TokenInfo
	Tokens []Token
}

// Kind implements Token.
func (*BlockquoteToken) Kind() TokenKind { return KindBlockquote }

// Children implements Container.
func (t *BlockquoteToken) Children() []Token { return t.Tokens }

// RewriteChildren implements Rewritable.
func (t *BlockquoteToken) RewriteChildren(r ChildRewriter) (Token, error) {
	tokens, changed, err := rewriteSlice(r, t.Tokens)
	if err != nil || !changed {
		return t, err
	}
	clone := *t
	clone.Tokens = tokens
	return &clone, nil
}

// ListToken is an ordered or bullet list. Items are ListItemTokens.
type ListToken struct {
	TokenInfo
	Ordered bool
	Start   int
	Items   []Token
}

// Kind implements Token.
func (*ListToken) Kind() TokenKind { return KindList }

// Children implements Container.
func (t *ListToken) Children() []Token { return t.Items }

// RewriteChildren implements Rewritable.
func (t *ListToken) RewriteChildren(r ChildRewriter) (Token, error) {
	items, changed, err := rewriteSlice(r, t.Items)
	if err != nil || !changed {
		return t, err
	}
	clone := *t
	clone.Items = items
	return &clone, nil
}

// IsLoose reports whether any item of the list is loose.
func (t *ListToken) IsLoose() bool {
	for _, item := range t.Items {
		if li, ok := item.(*ListItemToken); ok && li.Loose {
			return true
		}
	}
	return false
}

// ListItemToken is one list item. Loose items separate their blocks with
// blank lines and render text runs as paragraphs.
type ListItemToken struct {
	TokenInfo
	Loose  bool
	Tokens []Token
}

// Kind implements Token.
func (*ListItemToken) Kind() TokenKind { return KindListItem }

// Children implements Container.
func (t *ListItemToken) Children() []Token { return t.Tokens }

// RewriteChildren implements Rewritable.
func (t *ListItemToken) RewriteChildren(r ChildRewriter) (Token, error) {
	tokens, changed, err := rewriteSlice(r, t.Tokens)
	if err != nil || !changed {
		return t, err
	}
	clone := *t
	clone.Tokens = tokens
	return &clone, nil
}

// HTMLBlockToken is a raw HTML block. Blocks that are not preformatted
// have their content lexed for inline Markdown into Inlines; Pre blocks
// keep only Raw.
type HTMLBlockToken struct {
	TokenInfo
	Raw     string
	Pre     bool
	Inlines []Token
}

// Kind implements Token.
func (*HTMLBlockToken) Kind() TokenKind { return KindHTMLBlock }

// Children implements Container.
func (t *HTMLBlockToken) Children() []Token { return t.Inlines }

// RewriteChildren implements Rewritable.
func (t *HTMLBlockToken) RewriteChildren(r ChildRewriter) (Token, error) {
	inlines, changed, err := rewriteSlice(r, t.Inlines)
	if err != nil || !changed {
		return t, err
	}
	clone := *t
	clone.Inlines = inlines
	return &clone, nil
}

// Align is a table column alignment.
type Align uint8

// Column alignments.
const (
	AlignNone Align = iota
	AlignLeft
	AlignCenter
	AlignRight
)

// String returns the CSS text-align value, or "" for AlignNone.
func (a Align) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return ""
	}
}

// TableToken is a GFM table. Header holds one TableCellToken per column;
// each row of Rows holds one TableCellToken per cell.
type TableToken struct {
	TokenInfo
	Align  []Align
	Header []Token
	Rows   [][]Token
}

// Kind implements Token.
func (*TableToken) Kind() TokenKind { return KindTable }

// Children implements Container.
func (t *TableToken) Children() []Token {
	out := make([]Token, 0, len(t.Header)*(len(t.Rows)+1))
	out = append(out, t.Header...)
	for _, row := range t.Rows {
		out = append(out, row...)
	}
	return out
}

// RewriteChildren implements Rewritable.
func (t *TableToken) RewriteChildren(r ChildRewriter) (Token, error) {
	header, changed, err := rewriteSlice(r, t.Header)
	if err != nil {
		return nil, err
	}

	rows := t.Rows
	copied := false
	for i, row := range t.Rows {
		newRow, rowChanged, err := rewriteSlice(r, row)
		if err != nil {
			return nil, err
		}
		if !rowChanged {
			continue
		}
		if !copied {
			rows = append([][]Token(nil), t.Rows...)
			copied = true
		}
		rows[i] = newRow
	}

	if !changed && !copied {
		return t, nil
	}
	clone := *t
	clone.Header = header
	clone.Rows = rows
	return &clone, nil
}

// TableCellToken is one table cell.
type TableCellToken struct {
	TokenInfo
	Align   Align
	Header  bool
	Inlines []Token
}

// Kind implements Token.
func (*TableCellToken) Kind() TokenKind { return KindTableCell }

// Children implements Container.
func (t *TableCellToken) Children() []Token { return t.Inlines }

// RewriteChildren implements Rewritable.
func (t *TableCellToken) RewriteChildren(r ChildRewriter) (Token, error) {
	inlines, changed, err := rewriteSlice(r, t.Inlines)
	if err != nil || !changed {
		return t, err
	}
	clone := *t
	clone.Inlines = inlines
	return &clone, nil
}

// ExtractFunc resolves a deferred token into its final form.
type ExtractFunc func(p Parser, t *TwoPhaseToken) (Token, error)

// TwoPhaseToken is a placeholder for a span whose final token can only be
// built later, typically once every link definition of the document is
// known. The rewrite engine resolves it by calling Extract.
type TwoPhaseToken struct {
	TokenInfo
	Extractor ExtractFunc
}

// Kind implements Token.
func (*TwoPhaseToken) Kind() TokenKind { return KindTwoPhase }

// Extract resolves the token with p.
func (t *TwoPhaseToken) Extract(p Parser) (Token, error) {
	return t.Extractor(p, t)
}

// ExtensionToken carries a token kind contributed by an extension. Name
// selects the render handler; Payload is opaque to the core.
type ExtensionToken struct {
	TokenInfo
	Name    string
	Payload any
	Nested  []Token
}

// Kind implements Token.
func (*ExtensionToken) Kind() TokenKind { return KindExtension }

// Children implements Container.
func (t *ExtensionToken) Children() []Token { return t.Nested }

// RewriteChildren implements Rewritable.
func (t *ExtensionToken) RewriteChildren(r ChildRewriter) (Token, error) {
	children, changed, err := rewriteSlice(r, t.Nested)
	if err != nil || !changed {
		return t, err
	}
	clone := *t
	clone.Nested = children
	return &clone, nil
}
