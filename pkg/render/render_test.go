package render_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdlite/pkg/config"
	"github.com/yaklabco/mdlite/pkg/emoji"
	"github.com/yaklabco/mdlite/pkg/engine"
	"github.com/yaklabco/mdlite/pkg/mdast"
	"github.com/yaklabco/mdlite/pkg/render"
)

func parse(t *testing.T, opts config.Options, text string) []mdast.Token {
	t.Helper()

	doc, err := engine.New(opts).Parse(context.Background(), "doc.md", text)
	require.NoError(t, err)
	return doc.Tokens
}

// everyToken holds one resolved token of every type the tokenizer emits.
func everyToken() []mdast.Token {
	text := &mdast.TextToken{Text: "t"}
	return []mdast.Token{
		&mdast.NewLineToken{},
		&mdast.IgnoreToken{},
		&mdast.BlockTextToken{Text: "b"},
		&mdast.HeadingToken{Depth: 2, ID: "h", Inlines: []mdast.Token{text}},
		&mdast.ParagraphToken{Inlines: []mdast.Token{
			text,
			&mdast.EscapeToken{Char: "*"},
			&mdast.StrongToken{Inlines: []mdast.Token{text}},
			&mdast.EmToken{Inlines: []mdast.Token{text}},
			&mdast.DelToken{Inlines: []mdast.Token{text}},
			&mdast.CodeSpanToken{Code: "c"},
			&mdast.LinkToken{Href: "/l", Inlines: []mdast.Token{text}},
			&mdast.ImageToken{Href: "/i.png", Alt: "a"},
			&mdast.BrToken{},
			&mdast.TagToken{Raw: "<b>"},
			&mdast.ExtensionToken{Name: emoji.ExtensionName, Payload: emoji.Shortcode{Name: "smile", Unicode: "x"}},
		}},
		&mdast.NonParagraphToken{Inlines: []mdast.Token{text}},
		&mdast.CodeToken{Lang: "go", Code: "x", Fenced: true},
		&mdast.HrToken{},
		&mdast.BlockquoteToken{Tokens: []mdast.Token{&mdast.ParagraphToken{Inlines: []mdast.Token{text}}}},
		&mdast.ListToken{Start: 1, Items: []mdast.Token{
			&mdast.ListItemToken{Tokens: []mdast.Token{&mdast.NonParagraphToken{Inlines: []mdast.Token{text}}}},
		}},
		&mdast.HTMLBlockToken{Raw: "<div></div>\n"},
		&mdast.TableToken{
			Align:  []mdast.Align{mdast.AlignCenter},
			Header: []mdast.Token{&mdast.TableCellToken{Header: true, Align: mdast.AlignCenter, Inlines: []mdast.Token{text}}},
			Rows: [][]mdast.Token{{
				&mdast.TableCellToken{Align: mdast.AlignCenter, Inlines: []mdast.Token{text}},
			}},
		},
	}
}

func TestDispatch_EveryTokenType(t *testing.T) {
	t.Parallel()

	renderers := map[string]render.Renderer{
		"html":     render.NewHTMLRenderer(config.DefaultOptions()),
		"json":     render.NewJSONRenderer(),
		"markdown": render.NewMarkdownRenderer(config.DefaultOptions()),
	}

	for name, r := range renderers {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			out, err := render.Render(r, everyToken())
			require.NoError(t, err)
			assert.NotEmpty(t, out)
		})
	}
}

type stray struct {
	mdast.TokenInfo
}

func (*stray) Kind() mdast.TokenKind { return mdast.KindInvalid }

func TestDispatch_MissingRenderer(t *testing.T) {
	t.Parallel()

	r := render.NewHTMLRenderer(config.DefaultOptions())

	_, err := render.Render(r, []mdast.Token{&stray{TokenInfo: mdast.TokenInfo{Rule: mdast.NamedRule("Stray")}}})
	require.ErrorIs(t, err, render.ErrMissingRenderer)
	var missing *render.MissingRendererError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "Stray", missing.Rule)
	assert.Contains(t, missing.TokenType, "stray")

	_, err = render.Render(r, []mdast.Token{&mdast.ExtensionToken{Name: "mention"}})
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "mention", missing.Extension)
}

func TestDispatch_WithExtension(t *testing.T) {
	t.Parallel()

	mention := func(_ *render.Dispatcher, t *mdast.ExtensionToken) (string, error) {
		return "@" + t.Payload.(string), nil
	}
	out, err := render.Render(render.NewHTMLRenderer(config.DefaultOptions()),
		[]mdast.Token{&mdast.ExtensionToken{Name: "mention", Payload: "ana"}},
		render.WithExtension("mention", mention))
	require.NoError(t, err)
	assert.Equal(t, "@ana", out)
}

func TestHTML_UnresolvedTwoPhase(t *testing.T) {
	t.Parallel()

	_, err := render.Render(render.NewHTMLRenderer(config.DefaultOptions()), []mdast.Token{
		&mdast.TwoPhaseToken{TokenInfo: mdast.TokenInfo{Source: mdast.NewSourceInfo("x", "doc.md", 4)}},
	})
	require.ErrorIs(t, err, render.ErrUnresolvedToken)
	assert.Contains(t, err.Error(), "doc.md:4")
}

func TestHTML_TableAlignment(t *testing.T) {
	t.Parallel()

	tokens := parse(t, config.DefaultOptions(), "| a | b | c |\n|:-|:-:|-:|\n| 1 | 2 | 3 |\n")
	out, err := render.Render(render.NewHTMLRenderer(config.DefaultOptions()), tokens)
	require.NoError(t, err)

	assert.Contains(t, out, `<th style="text-align:left">a</th>`)
	assert.Contains(t, out, `<th style="text-align:center">b</th>`)
	assert.Contains(t, out, `<td style="text-align:right">3</td>`)
}

func TestHTML_Code(t *testing.T) {
	t.Parallel()

	highlight := config.DefaultOptions()
	highlight.Highlight = func(code, lang string) string {
		return "<i>" + lang + ":" + code + "</i>"
	}

	detect := config.DefaultOptions()
	detect.DetectLanguage = true

	noop := config.DefaultOptions()
	noop.Highlight = func(code, _ string) string { return code }

	quotedPrefix := config.DefaultOptions()
	quotedPrefix.LangPrefix = `a"b-`

	tests := []struct {
		name string
		opts config.Options
		in   string
		want string
	}{
		{
			name: "escaped without highlighter",
			opts: config.DefaultOptions(),
			in:   "```\na < b\n```\n",
			want: "<pre><code>a &lt; b\n</code></pre>\n",
		},
		{
			name: "highlighter output kept",
			opts: highlight,
			in:   "```go\nx\n```\n",
			want: "<pre><code class=\"lang-go\"><i>go:x</i>\n</code></pre>\n",
		},
		{
			name: "unchanged highlight is escaped",
			opts: noop,
			in:   "```\n<x>\n```\n",
			want: "<pre><code>&lt;x&gt;\n</code></pre>\n",
		},
		{
			name: "detected language",
			opts: detect,
			in:   "```\n#!/bin/bash\necho hi\n```\n",
			want: "<pre><code class=\"lang-bash\">#!/bin/bash\necho hi\n</code></pre>\n",
		},
		{
			name: "lang prefix escaped",
			opts: quotedPrefix,
			in:   "```go\nx\n```\n",
			want: "<pre><code class=\"a&quot;b-go\">x\n</code></pre>\n",
		},
		{
			name: "indented code",
			opts: config.DefaultOptions(),
			in:   "    x\n",
			want: "<pre><code>x\n</code></pre>\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, err := render.Render(render.NewHTMLRenderer(tt.opts), parse(t, tt.opts, tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestHTML_SanitizeAllowTags(t *testing.T) {
	t.Parallel()

	opts := config.DefaultOptions()
	opts.Sanitize = true
	opts.SanitizeAllowTags = []string{"kbd"}

	out, err := render.Render(render.NewHTMLRenderer(opts), parse(t, opts, "<kbd>k</kbd> <b onclick=\"x\">b</b>\n"))
	require.NoError(t, err)
	assert.Contains(t, out, "<kbd>k</kbd>")
	assert.Contains(t, out, "&lt;b onclick=")
}

func TestHTML_CustomSanitizer(t *testing.T) {
	t.Parallel()

	opts := config.DefaultOptions()
	opts.Sanitize = true
	opts.Sanitizer = func(string) string { return "[tag]" }

	out, err := render.Render(render.NewHTMLRenderer(opts), parse(t, opts, "a <b>b</b>\n"))
	require.NoError(t, err)
	assert.Equal(t, "<p>a [tag]b[tag]</p>\n", out)
}

func TestJSON_Tree(t *testing.T) {
	t.Parallel()

	out, err := render.Render(render.NewJSONRenderer(), parse(t, config.DefaultOptions(), "# Hi\n\ntext *em*\n"))
	require.NoError(t, err)

	var nodes []render.JSONNode
	require.NoError(t, json.Unmarshal([]byte(out), &nodes))
	require.Len(t, nodes, 2)

	heading := nodes[0]
	assert.Equal(t, "heading", heading.Name)
	assert.Equal(t, 1, heading.Line)
	assert.Equal(t, "doc.md", heading.File)
	assert.Equal(t, "Heading", heading.Rule)
	assert.InDelta(t, 1, heading.Attributes["depth"], 0)
	assert.Equal(t, "hi", heading.Attributes["id"])
	require.Len(t, heading.Children, 1)

	var child render.JSONNode
	require.NoError(t, json.Unmarshal(heading.Children[0], &child))
	assert.Equal(t, "text", child.Name)
	assert.Equal(t, "Hi", child.Attributes["text"])

	para := nodes[1]
	assert.Equal(t, "paragraph", para.Name)
	assert.Equal(t, 3, para.Line)
	assert.Len(t, para.Children, 2)
}

func TestJSON_EmptyDocument(t *testing.T) {
	t.Parallel()

	out, err := render.Render(&render.JSONRenderer{Compact: true}, nil)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", out)
}

func TestSmartyPants(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "a -- b", want: "a – b"},
		{in: "a --- b", want: "a — b"},
		{in: "wait...", want: "wait…"},
		{in: `"hi"`, want: "“hi”"},
		{in: "it's", want: "it’s"},
		{in: `say 'yes'`, want: "say ‘yes’"},
		{in: `("x")`, want: "(“x”)"},
		{in: "plain", want: "plain"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, render.SmartyPants(tt.in), tt.in)
	}
}
