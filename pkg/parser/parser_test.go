package parser_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdlite/pkg/config"
	"github.com/yaklabco/mdlite/pkg/emoji"
	"github.com/yaklabco/mdlite/pkg/mdast"
	"github.com/yaklabco/mdlite/pkg/parser"
)

// tokenize lexes text with default options and resolves every two-phase
// token, the way the engine does.
func tokenize(t *testing.T, text string) []mdast.Token {
	t.Helper()
	return tokenizeWith(t, config.DefaultOptions(), text)
}

func tokenizeWith(t *testing.T, opts config.Options, text string) []mdast.Token {
	t.Helper()

	p := parser.New(opts, nil, nil)
	tokens, err := p.Tokenize(mdast.NewSourceInfo(parser.Normalize(text), "doc.md", 1))
	require.NoError(t, err)
	return resolve(t, p, tokens)
}

func resolve(t *testing.T, p *parser.Parser, tokens []mdast.Token) []mdast.Token {
	t.Helper()

	out := make([]mdast.Token, 0, len(tokens))
	for _, tok := range tokens {
		if tp, ok := tok.(*mdast.TwoPhaseToken); ok {
			resolved, err := tp.Extract(p)
			require.NoError(t, err)
			tok = resolved
		}
		switch v := tok.(type) {
		case *mdast.BlockquoteToken:
			clone := *v
			clone.Tokens = resolve(t, p, v.Tokens)
			tok = &clone
		case *mdast.ListToken:
			clone := *v
			clone.Items = resolve(t, p, v.Items)
			tok = &clone
		case *mdast.ListItemToken:
			clone := *v
			clone.Tokens = resolve(t, p, v.Tokens)
			tok = &clone
		}
		out = append(out, tok)
	}
	return out
}

// kinds lists the kinds of the non-newline tokens.
func kinds(tokens []mdast.Token) []mdast.TokenKind {
	var out []mdast.TokenKind
	for _, tok := range tokens {
		if tok.Kind() != mdast.KindNewLine {
			out = append(out, tok.Kind())
		}
	}
	return out
}

// dump renders a token tree as indented "Kind@line" lines.
func dump(tokens []mdast.Token) string {
	var b strings.Builder
	_ = mdast.WalkWithParents(tokens, func(tok mdast.Token, parents []mdast.Token) error {
		fmt.Fprintf(&b, "%s%s@%d %q\n", strings.Repeat("  ", len(parents)),
			tok.Kind(), tok.Info().Source.LineNumber, tok.Info().Source.Text)
		return nil
	})
	return b.String()
}

func TestTokenize_Heading(t *testing.T) {
	t.Parallel()

	tokens := tokenize(t, "# Hello\n")
	require.Len(t, tokens, 1)

	h, ok := tokens[0].(*mdast.HeadingToken)
	require.True(t, ok)
	assert.Equal(t, 1, h.Depth)
	assert.Equal(t, parser.RuleHeading, mdast.RuleName(h.Info().Rule))
	assert.Equal(t, "Hello", mdast.PlainText(h.Inlines))
}

func TestTokenize_SetextHeading(t *testing.T) {
	t.Parallel()

	tokens := tokenize(t, "Title\n=====\n\nSub\n---\n")
	require.Equal(t, []mdast.TokenKind{mdast.KindHeading, mdast.KindHeading}, kinds(tokens))
	assert.Equal(t, 1, tokens[0].(*mdast.HeadingToken).Depth)
	assert.Equal(t, 2, tokens[1].(*mdast.HeadingToken).Depth)
	assert.Equal(t, 4, tokens[1].Info().Source.LineNumber)
}

func TestTokenize_Emphasis(t *testing.T) {
	t.Parallel()

	tokens := tokenize(t, "*a* **b**\n")
	require.Len(t, tokens, 1)

	para, ok := tokens[0].(*mdast.ParagraphToken)
	require.True(t, ok)
	require.Equal(t, []mdast.TokenKind{mdast.KindEm, mdast.KindText, mdast.KindStrong}, kinds(para.Inlines))
	assert.Equal(t, "a", mdast.PlainText(para.Inlines[0].(*mdast.EmToken).Inlines))
	assert.Equal(t, "b", mdast.PlainText(para.Inlines[2].(*mdast.StrongToken).Inlines))
}

func TestTokenize_InlineLink(t *testing.T) {
	t.Parallel()

	tokens := tokenize(t, "[text](http://x.com \"t\")\n")
	para := tokens[0].(*mdast.ParagraphToken)
	require.Len(t, para.Inlines, 1)

	link, ok := para.Inlines[0].(*mdast.LinkToken)
	require.True(t, ok)
	assert.Equal(t, mdast.LinkTypeInline, link.LinkType)
	assert.Equal(t, "http://x.com", link.Href)
	assert.Equal(t, "t", link.Title)
	assert.Equal(t, "text", mdast.PlainText(link.Inlines))
}

func TestTokenize_Image(t *testing.T) {
	t.Parallel()

	tokens := tokenize(t, "![alt text](/img.png)\n")
	para := tokens[0].(*mdast.ParagraphToken)
	require.Len(t, para.Inlines, 1)

	img, ok := para.Inlines[0].(*mdast.ImageToken)
	require.True(t, ok)
	assert.Equal(t, "/img.png", img.Href)
	assert.Equal(t, "alt text", img.Alt)
}

func TestTokenize_ReferenceLinks(t *testing.T) {
	t.Parallel()

	tokens := tokenize(t, "[foo]: http://x.com \"T\"\n\n[a][foo] and [Foo]\n")
	require.Equal(t, []mdast.TokenKind{mdast.KindIgnore, mdast.KindParagraph}, kinds(tokens))

	links := mdast.FindByKind(tokens, mdast.KindLink)
	require.Len(t, links, 2)
	for _, tok := range links {
		link := tok.(*mdast.LinkToken)
		assert.Equal(t, mdast.LinkTypeReference, link.LinkType)
		assert.Equal(t, "http://x.com", link.Href)
		assert.Equal(t, "T", link.Title)
	}
}

func TestTokenize_ReferenceDefinedAfterUse(t *testing.T) {
	t.Parallel()

	tokens := tokenize(t, "see [here][x]\n\n[x]: /target\n")
	links := mdast.FindByKind(tokens, mdast.KindLink)
	require.Len(t, links, 1)
	assert.Equal(t, "/target", links[0].(*mdast.LinkToken).Href)
}

func TestTokenize_UnknownReferenceStaysText(t *testing.T) {
	t.Parallel()

	tokens := tokenize(t, "[a][nope]\n")
	para := tokens[0].(*mdast.ParagraphToken)

	assert.Empty(t, mdast.FindByKind(para.Inlines, mdast.KindLink))
	assert.Equal(t, "[a][nope]", mdast.PlainText(para.Inlines))
}

func TestTokenize_Autolinks(t *testing.T) {
	t.Parallel()

	tokens := tokenize(t, "<http://a.b> <me@x.org> http://x.com now\n")
	links := mdast.FindByKind(tokens, mdast.KindLink)
	require.Len(t, links, 3)

	auto := links[0].(*mdast.LinkToken)
	assert.Equal(t, mdast.LinkTypeAuto, auto.LinkType)
	assert.Equal(t, "http://a.b", auto.Href)

	email := links[1].(*mdast.LinkToken)
	assert.True(t, email.Email)
	assert.Equal(t, "mailto:me@x.org", email.Href)
	assert.Equal(t, "me@x.org", mdast.PlainText(email.Inlines))

	url := links[2].(*mdast.LinkToken)
	assert.Equal(t, mdast.LinkTypeURL, url.LinkType)
	assert.Equal(t, "http://x.com", url.Href)
}

func TestTokenize_NoBareURLInsideLinkText(t *testing.T) {
	t.Parallel()

	tokens := tokenize(t, "[see http://x.com](http://y.com)\n")
	links := mdast.FindByKind(tokens, mdast.KindLink)
	require.Len(t, links, 1)

	link := links[0].(*mdast.LinkToken)
	assert.Equal(t, "http://y.com", link.Href)
	assert.Empty(t, mdast.FindByKind(link.Inlines, mdast.KindLink))
	for _, tok := range link.Inlines {
		assert.True(t, tok.Info().Context.BoolVariable(mdast.VarInLink))
	}
}

func TestTokenize_GfmInlines(t *testing.T) {
	t.Parallel()

	tokens := tokenize(t, "~~gone~~ \\* `x` :smile: :nope:\n")
	para := tokens[0].(*mdast.ParagraphToken)

	require.Len(t, mdast.FindByKind(para.Inlines, mdast.KindDel), 1)

	esc := mdast.FindByKind(para.Inlines, mdast.KindEscape)
	require.Len(t, esc, 1)
	assert.Equal(t, "*", esc[0].(*mdast.EscapeToken).Char)

	code := mdast.FindByKind(para.Inlines, mdast.KindCodeSpan)
	require.Len(t, code, 1)
	assert.Equal(t, "x", code[0].(*mdast.CodeSpanToken).Code)

	ext := mdast.FindByKind(para.Inlines, mdast.KindExtension)
	require.Len(t, ext, 1)
	tok := ext[0].(*mdast.ExtensionToken)
	assert.Equal(t, emoji.ExtensionName, tok.Name)
	assert.Equal(t, "smile", tok.Payload.(emoji.Shortcode).Name)
	assert.Contains(t, mdast.PlainText(para.Inlines), ":nope:")
}

func TestTokenize_HardBreak(t *testing.T) {
	t.Parallel()

	tokens := tokenize(t, "a  \nb\n")
	para := tokens[0].(*mdast.ParagraphToken)
	assert.Equal(t, []mdast.TokenKind{mdast.KindText, mdast.KindBr, mdast.KindText}, kinds(para.Inlines))
	assert.Equal(t, 2, para.Inlines[2].Info().Source.LineNumber)
}

func TestTokenize_FencedCode(t *testing.T) {
	t.Parallel()

	tokens := tokenize(t, "```lang\ncode\n```\n")
	require.Len(t, tokens, 1)

	code, ok := tokens[0].(*mdast.CodeToken)
	require.True(t, ok)
	assert.True(t, code.Fenced)
	assert.Equal(t, "lang", code.Lang)
	assert.Equal(t, "code", code.Code)
}

func TestTokenize_IndentedCode(t *testing.T) {
	t.Parallel()

	tokens := tokenize(t, "    a\n      b\n\n")
	require.Equal(t, []mdast.TokenKind{mdast.KindCode}, kinds(tokens))
	assert.Equal(t, "a\n  b", tokens[0].(*mdast.CodeToken).Code)
}

func TestTokenize_FencesNeedGfm(t *testing.T) {
	t.Parallel()

	opts := config.DefaultOptions()
	opts.Gfm = false
	tokens := tokenizeWith(t, opts, "```\ncode\n```\n")
	assert.Empty(t, mdast.FindByKind(tokens, mdast.KindCode))
}

func TestTokenize_Table(t *testing.T) {
	t.Parallel()

	tokens := tokenize(t, "| a | b |\n|---|--:|\n| 1 | 2 |\n")
	require.Len(t, tokens, 1)

	table, ok := tokens[0].(*mdast.TableToken)
	require.True(t, ok)
	assert.Equal(t, []mdast.Align{mdast.AlignNone, mdast.AlignRight}, table.Align)
	require.Len(t, table.Header, 2)
	require.Len(t, table.Rows, 1)
	require.Len(t, table.Rows[0], 2)

	assert.Equal(t, "a", mdast.PlainText(mdast.Children(table.Header[0])))
	assert.True(t, table.Header[0].(*mdast.TableCellToken).Header)

	cell := table.Rows[0][1].(*mdast.TableCellToken)
	assert.Equal(t, "2", mdast.PlainText(cell.Inlines))
	assert.Equal(t, mdast.AlignRight, cell.Align)
	assert.Equal(t, 3, cell.Info().Source.LineNumber)
}

func TestTokenize_NoLeadingPipeTable(t *testing.T) {
	t.Parallel()

	tokens := tokenize(t, "a | b\n:- | :-:\n1 | 2\n3 | 4\n")
	require.Len(t, tokens, 1)

	table, ok := tokens[0].(*mdast.TableToken)
	require.True(t, ok)
	assert.Equal(t, parser.RuleNpTable, mdast.RuleName(table.Info().Rule))
	assert.Equal(t, []mdast.Align{mdast.AlignLeft, mdast.AlignCenter}, table.Align)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, 4, table.Rows[1][0].Info().Source.LineNumber)
}

func TestTokenize_TablesDisabled(t *testing.T) {
	t.Parallel()

	opts := config.DefaultOptions()
	opts.Tables = false
	tokens := tokenizeWith(t, opts, "| a | b |\n|---|---|\n| 1 | 2 |\n")
	assert.Empty(t, mdast.FindByKind(tokens, mdast.KindTable))
}

func TestTokenize_Blockquote(t *testing.T) {
	t.Parallel()

	tokens := tokenize(t, "text\n\n> quoted\n> more\n")
	require.Equal(t, []mdast.TokenKind{mdast.KindParagraph, mdast.KindBlockquote}, kinds(tokens))

	bq := tokens[len(tokens)-1].(*mdast.BlockquoteToken)
	assert.Equal(t, 3, bq.Info().Source.LineNumber)
	require.Equal(t, []mdast.TokenKind{mdast.KindParagraph}, kinds(bq.Tokens))
	assert.Equal(t, 3, bq.Tokens[0].Info().Source.LineNumber)
	assert.Equal(t, "quoted\nmore", mdast.PlainText(bq.Tokens[0].(*mdast.ParagraphToken).Inlines))
}

func TestTokenize_NoDefinitionsInsideBlockquote(t *testing.T) {
	t.Parallel()

	p := parser.New(config.DefaultOptions(), nil, nil)
	_, err := p.Tokenize(mdast.NewSourceInfo("> [x]: /y\n", "", 1))
	require.NoError(t, err)
	assert.Empty(t, p.Links())
}

func TestTokenize_Lists(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		wantLists int
		ordered   bool
		start     int
		loose     []bool
	}{
		{name: "tight", input: "- a\n- b\n", wantLists: 1, loose: []bool{false, false}},
		{name: "loose", input: "- a\n\n- b\n", wantLists: 1, loose: []bool{true, true}},
		{name: "ordered", input: "3. a\n4. b\n", wantLists: 1, ordered: true, start: 3, loose: []bool{false, false}},
		{name: "bullet change splits", input: "- a\n* b\n", wantLists: 2, loose: []bool{false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tokens := tokenize(t, tt.input)
			lists := mdast.FindByKind(tokens, mdast.KindList)
			require.Len(t, lists, tt.wantLists)

			list := lists[0].(*mdast.ListToken)
			assert.Equal(t, tt.ordered, list.Ordered)
			assert.Equal(t, tt.start, list.Start)
			require.Len(t, list.Items, len(tt.loose))
			for i, want := range tt.loose {
				assert.Equal(t, want, list.Items[i].(*mdast.ListItemToken).Loose, "item %d", i)
			}
		})
	}
}

func TestTokenize_ListItemsKeepSourceLines(t *testing.T) {
	t.Parallel()

	tokens := tokenize(t, "# A\n\npara one\nline two\n\n- x\n- y\n")
	require.Equal(t, []mdast.TokenKind{mdast.KindHeading, mdast.KindParagraph, mdast.KindList}, kinds(tokens))

	assert.Equal(t, 1, tokens[0].Info().Source.LineNumber)
	assert.Equal(t, 3, tokens[1].Info().Source.LineNumber)

	list := tokens[2].(*mdast.ListToken)
	assert.Equal(t, 6, list.Info().Source.LineNumber)

	second := list.Items[1].(*mdast.ListItemToken)
	assert.Equal(t, 7, second.Info().Source.LineNumber)
	require.NotEmpty(t, second.Tokens)
	text, ok := second.Tokens[0].(*mdast.BlockTextToken)
	require.True(t, ok, "list item content is block text")
	assert.Equal(t, "y", text.Text)
	assert.Equal(t, 7, text.Info().Source.LineNumber)
}

func TestTokenize_NestedList(t *testing.T) {
	t.Parallel()

	tokens := tokenize(t, "- a\n  - b\n")
	lists := mdast.FindByKind(tokens, mdast.KindList)
	require.Len(t, lists, 2)

	inner := lists[1].(*mdast.ListToken)
	assert.Equal(t, 2, inner.Info().Source.LineNumber)
	texts := mdast.FindByKind(inner.Items, mdast.KindBlockText)
	require.Len(t, texts, 1)
	assert.Equal(t, "b", texts[0].(*mdast.BlockTextToken).Text)
}

func TestTokenize_HTMLBlock(t *testing.T) {
	t.Parallel()

	tokens := tokenize(t, "<div>\n*hi*\n</div>\n\n<pre>\n*raw*\n</pre>\n")
	blocks := mdast.FindByKind(tokens, mdast.KindHTMLBlock)
	require.Len(t, blocks, 2)

	div := blocks[0].(*mdast.HTMLBlockToken)
	assert.False(t, div.Pre)
	assert.NotEmpty(t, mdast.FindByKind(div.Inlines, mdast.KindEm))

	pre := blocks[1].(*mdast.HTMLBlockToken)
	assert.True(t, pre.Pre)
	assert.Empty(t, pre.Inlines)
	assert.Equal(t, 5, pre.Info().Source.LineNumber)
}

func TestTokenize_SanitizedHTMLBecomesParagraph(t *testing.T) {
	t.Parallel()

	opts := config.DefaultOptions()
	opts.Sanitize = true
	tokens := tokenizeWith(t, opts, "<div>x</div>\n")

	assert.Empty(t, mdast.FindByKind(tokens, mdast.KindHTMLBlock))
	assert.NotEmpty(t, mdast.FindByKind(tokens, mdast.KindParagraph))
}

func TestTokenize_InlineSourceLines(t *testing.T) {
	t.Parallel()

	tokens := tokenize(t, "intro\n\na\n**b\nc**\n")
	strong := mdast.FindByKind(tokens, mdast.KindStrong)
	require.Len(t, strong, 1)
	assert.Equal(t, 4, strong[0].Info().Source.LineNumber)
	assert.Equal(t, 5, strong[0].Info().Source.EndLineNumber())
}

func TestTokenize_Deterministic(t *testing.T) {
	t.Parallel()

	input := "# T\n\n- a\n- b *c*\n\n> q [l](/x)\n\n| h |\n|---|\n| d |\n"
	first := dump(tokenize(t, input))
	second := dump(tokenize(t, input))
	assert.Equal(t, first, second)
	assert.NotEmpty(t, first)
}

func TestTokenize_NoRuleMatched(t *testing.T) {
	t.Parallel()

	opts := config.DefaultOptions()
	block := parser.NewBlockRules(opts)
	require.NoError(t, block.Remove(parser.RuleParagraph))
	require.NoError(t, block.Remove(parser.RuleText))

	p := parser.New(opts, block, nil)
	_, err := p.Tokenize(mdast.NewSourceInfo("# ok\n\nabc\n", "doc.md", 1))
	require.Error(t, err)
	require.ErrorIs(t, err, parser.ErrNoRuleMatched)

	var perr *parser.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "doc.md", perr.File)
	assert.Equal(t, 3, perr.Line)
	assert.Equal(t, "abc\n", perr.Excerpt)
	assert.Contains(t, err.Error(), "doc.md:3")
}

func TestTokenize_ExcerptIsTruncated(t *testing.T) {
	t.Parallel()

	block := parser.NewRuleSet(mdast.BlockContext)
	p := parser.New(config.DefaultOptions(), block, nil)
	_, err := p.Tokenize(mdast.NewSourceInfo(strings.Repeat("é", 300), "", 1))

	var perr *parser.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, parser.ExcerptLength, len([]rune(perr.Excerpt)))
}

func TestTokenize_EmptyMatchIsAnError(t *testing.T) {
	t.Parallel()

	opts := config.DefaultOptions()
	empty, err := parser.NewRegexRule("Empty", `^(?=a)`, func(p *parser.Parser, c *parser.Cursor, m *parser.Match) (mdast.Token, error) {
		return &mdast.IgnoreToken{TokenInfo: p.Info(m.Rule(), c.Base())}, nil
	})
	require.NoError(t, err)

	block := parser.NewBlockRules(opts)
	require.NoError(t, block.InsertBefore(parser.RuleNewLine, empty))

	_, err = parser.New(opts, block, nil).Tokenize(mdast.NewSourceInfo("abc\n", "", 1))
	require.ErrorIs(t, err, parser.ErrEmptyMatch)
}

func TestTokenize_CustomInlineRule(t *testing.T) {
	t.Parallel()

	opts := config.DefaultOptions()
	mention, err := parser.NewRegexRule("Mention", `^@(\w+)`, func(p *parser.Parser, c *parser.Cursor, m *parser.Match) (mdast.Token, error) {
		src := c.ConsumeMatch(m)
		return &mdast.ExtensionToken{TokenInfo: p.Info(m.Rule(), src), Name: "mention", Payload: m.Group(1)}, nil
	})
	require.NoError(t, err)

	inline := parser.NewInlineRules(opts)
	require.NoError(t, inline.InsertBefore(parser.RuleInlineText, mention))

	p := parser.New(opts, nil, inline)
	inlines, err := p.TokenizeInline(mdast.NewSourceInfo("@bob hi", "", 1))
	require.NoError(t, err)
	require.NotEmpty(t, inlines)

	ext, ok := inlines[0].(*mdast.ExtensionToken)
	require.True(t, ok)
	assert.Equal(t, "mention", ext.Name)
	assert.Equal(t, "bob", ext.Payload)
	assert.Equal(t, mdast.InlineContext, ext.Info().Context.Kind())
}
