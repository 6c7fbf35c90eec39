package mdast

// TokenKind classifies the concrete type of a token.
type TokenKind uint16

// Token kinds for block-level and inline-level Markdown constructs.
const (
	KindInvalid TokenKind = iota

	// Block-level tokens.
	KindNewLine
	KindIgnore
	KindBlockText
	KindHeading
	KindParagraph
	KindNonParagraph
	KindCode
	KindHr
	KindBlockquote
	KindList
	KindListItem
	KindHTMLBlock
	KindTable
	KindTableCell
	KindTwoPhase

	// Inline-level tokens.
	KindText
	KindEscape
	KindStrong
	KindEm
	KindDel
	KindCodeSpan
	KindLink
	KindImage
	KindBr
	KindTag

	// Tokens contributed by extensions.
	KindExtension
)

//nolint:gochecknoglobals // Read-only lookup table.
var kindNames = map[TokenKind]string{
	KindInvalid:      "Invalid",
	KindNewLine:      "NewLine",
	KindIgnore:       "Ignore",
	KindBlockText:    "BlockText",
	KindHeading:      "Heading",
	KindParagraph:    "Paragraph",
	KindNonParagraph: "NonParagraph",
	KindCode:         "Code",
	KindHr:           "Hr",
	KindBlockquote:   "Blockquote",
	KindList:         "List",
	KindListItem:     "ListItem",
	KindHTMLBlock:    "HTMLBlock",
	KindTable:        "Table",
	KindTableCell:    "TableCell",
	KindTwoPhase:     "TwoPhase",
	KindText:         "Text",
	KindEscape:       "Escape",
	KindStrong:       "Strong",
	KindEm:           "Em",
	KindDel:          "Del",
	KindCodeSpan:     "CodeSpan",
	KindLink:         "Link",
	KindImage:        "Image",
	KindBr:           "Br",
	KindTag:          "Tag",
	KindExtension:    "Extension",
}

// String returns the name of the kind.
func (k TokenKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// IsBlock returns true for block-level kinds.
func (k TokenKind) IsBlock() bool {
	return k >= KindNewLine && k <= KindTwoPhase
}

// IsInline returns true for inline-level kinds.
func (k TokenKind) IsInline() bool {
	return k >= KindText && k <= KindTag
}

// Rule identifies the rule that produced a token.
type Rule interface {
	// Name returns the rule name used in diagnostics (e.g. "Heading").
	Name() string
}

// RuleName returns the name of r, or "<nil>" when r is nil.
func RuleName(r Rule) string {
	if r == nil {
		return "<nil>"
	}
	return r.Name()
}

// NamedRule is a Rule that carries nothing but a name. It is used for
// tokens synthesized by rewriters rather than matched from input.
type NamedRule string

// Name implements Rule.
func (r NamedRule) Name() string {
	return string(r)
}

// TokenInfo is the provenance every token carries: the producing rule,
// the context it was produced in and its span of original text.
type TokenInfo struct {
	Rule    Rule
	Context *Context
	Source  SourceInfo
}

// Info returns the provenance. Embedding TokenInfo satisfies the Info
// method of Token.
func (t TokenInfo) Info() TokenInfo {
	return t
}

// Token is an immutable node describing one parsed construct.
//
// Tokens are never mutated after construction; rewriters replace them.
// Composite tokens own their children and no token references its parent.
type Token interface {
	// Info returns the token's rule, context and source span.
	Info() TokenInfo

	// Kind returns the token's concrete kind.
	Kind() TokenKind
}

// NewInfo builds a TokenInfo.
func NewInfo(rule Rule, ctx *Context, src SourceInfo) TokenInfo {
	return TokenInfo{Rule: rule, Context: ctx, Source: src}
}
