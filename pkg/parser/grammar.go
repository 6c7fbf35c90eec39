package parser

import (
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/yaklabco/mdlite/pkg/config"
)

// Patterns are written for the .NET-style engine of regexp2: `\z` is the
// end of input (`$` would also match before a final newline), and groups
// that did not participate in a match never match as backreferences.

const bt = "`"

// Block-level pattern sources.
const (
	srcNewline    = `^\n+`
	srcCode       = `^( {4}[^\n]+\n*)+`
	srcHr         = `^( *[-*_]){3,} *(?:\n+|\z)`
	srcHeading    = `^ *(#{1,6}) *([^\n]+?) *#* *(?:\n+|\z)`
	srcGfmHeading = `^ *(#{1,6}) +([^\n]+?) *#* *(?:\n+|\z)`
	srcLHeading   = `^([^\n]+)\n *(=|-){2,} *(?:\n+|\z)`
	srcBlockquote = `^( *>[^\n]+(\n(?!def)[^\n]+)*\n*)+`
	srcList       = `^( *)(bull) [\s\S]+?(?:hr|def|\n{2,}(?! )(?!\1bull )\n*|\s*\z)`
	srcHTML       = `^ *(?:comment *(?:\n|\s*\z)|closed *(?:\n{2,}|\s*\z)|closing *(?:\n{2,}|\s*\z))`
	srcDef        = `^ *\[([^\]]+)\]: *<?([^\s>]+)>?(?: +["(]([^\n]+)[")])? *(?:\n+|\z)`
	srcParagraph  = `^((?:[^\n]+\n?(?!hr|heading|lheading|blockquote|tag|def))+)\n*`
	srcText       = `^[^\n]+`
	srcBullet     = `(?:[*+-]|\d+\.)`
	srcItem       = `^( *)(bull) [^\n]*(?:\n(?!\1bull )[^\n]*)*`
	srcNpTable    = `^ *(\S.*\|.*)\n *([-:]+ *\|[-| :]*)\n((?:.*\|.*(?:\n|\z))*)\n*`
	srcTable      = `^ *\|(.+)\n *\|( *[-:]+[-| :]*)\n((?: *\|.*(?:\n|\z))*)\n*`

	srcFences = `^ *(` + bt + `{3,}|~{3,})[ \.]*(\S+)? *\n([\s\S]*?)\s*\1 *(?:\n+|\z)`

	srcBlockTag = `(?!(?:a|em|strong|small|s|cite|q|dfn|abbr|data|time|code` +
		`|var|samp|kbd|sub|sup|i|b|u|mark|ruby|rt|rp|bdi|bdo` +
		`|span|br|wbr|ins|del|img)\b)\w+(?!:/|[^\w\s@]*@)\b`
	srcComment = `<!--[\s\S]*?-->`
	srcClosed  = `<(tag)[\s\S]+?<\/\1>`
	srcClosing = `<tag(?:"[^"]*"|'[^']*'|[^'">])*?>`

	// A line that opens a fenced block or a list item ends a GFM
	// paragraph. The fence group is \2 once nested in the paragraph.
	srcFenceStart = ` *(` + bt + `{3,}|~{3,})[ \.]*(\S+)? *\n([\s\S]*?)\s*\2 *(?:\n+|\z)`
	srcListStart  = ` *(?:[*+-]|\d+\.) [\s\S]`
)

// Inline pattern sources.
const (
	srcEscape    = `^\\([\\` + bt + `*{}\[\]()#+\-.!_>])`
	srcGfmEscape = `^\\([\\` + bt + `*{}\[\]()#+\-.!_>~|])`
	srcAutolink  = `^<([^ >]+(@|:\/)[^ >]+)>`
	srcURL       = `^(https?:\/\/[^\s<]+[^<.,:;"')\]\s])`
	srcTag       = `^<!--[\s\S]*?-->|^<\/?\w+(?:"[^"]*"|'[^']*'|[^'">])*?>`
	srcLink      = `^!?\[(inside)\]\(href\)`
	srcRefLink   = `^!?\[(inside)\]\s*\[([^\]]*)\]`
	srcNoLink    = `^!?\[((?:\[[^\]]*\]|[^\[\]])*)\]`
	srcStrong    = `^__([\s\S]+?)__(?!_)|^\*\*([\s\S]+?)\*\*(?!\*)`
	srcEm        = `^\b_((?:[^_]|__)+?)_\b|^\*((?:\*\*|[\s\S])+?)\*(?!\*)`
	srcCodeSpan  = `^(` + bt + `+)\s*([\s\S]*?[^` + bt + `])\s*\1(?!` + bt + `)`
	srcBr        = `^ {2,}\n(?!\s*\z)`
	srcBreaksBr  = `^ *\n(?!\s*\z)`
	srcDel       = `^~~(?=\S)([\s\S]*?\S)~~`
	srcEmoji     = `^:([a-z0-9_\+\-]+):`

	srcPedanticStrong = `^__(?=\S)([\s\S]*?\S)__(?!_)|^\*\*(?=\S)([\s\S]*?\S)\*\*(?!\*)`
	srcPedanticEm     = `^_(?=\S)([\s\S]*?\S)_(?!_)|^\*(?=\S)([\s\S]*?\S)\*(?!\*)`

	srcInside = `(?:\[[^\]]*\]|[^\[\]]|\](?=[^\[]*\]))*`
	srcHref   = `\s*<?([\s\S]*?)>?(?:\s+['"]([\s\S]*?)['"])?\s*`
)

// stripAnchors removes start-of-input anchors from a pattern that is
// about to be embedded in another one. Carets opening a negated
// character class are kept.
func stripAnchors(src string) string {
	var b strings.Builder
	b.Grow(len(src))
	for i := 0; i < len(src); i++ {
		if src[i] == '^' && (i == 0 || src[i-1] != '[') {
			continue
		}
		b.WriteByte(src[i])
	}
	return b.String()
}

// edit substitutes named placeholders in a pattern, stripping anchors
// from each substituted value. Placeholders are replaced in call order,
// first occurrence only unless all is set.
type edit struct {
	src string
}

func newEdit(src string) *edit {
	return &edit{src: src}
}

func (e *edit) replace(name, val string) *edit {
	e.src = strings.Replace(e.src, name, stripAnchors(val), 1)
	return e
}

func (e *edit) replaceAll(name, val string) *edit {
	e.src = strings.ReplaceAll(e.src, name, stripAnchors(val))
	return e
}

func (e *edit) String() string {
	return e.src
}

func mustCompile(src string, opts regexp2.RegexOptions) *regexp2.Regexp {
	return regexp2.MustCompile(src, opts)
}

// blockGrammar is the compiled block-level pattern table for one option
// set. Nil entries are disabled by the options.
type blockGrammar struct {
	newline    *regexp2.Regexp
	code       *regexp2.Regexp
	fences     *regexp2.Regexp
	heading    *regexp2.Regexp
	npTable    *regexp2.Regexp
	lHeading   *regexp2.Regexp
	hr         *regexp2.Regexp
	blockquote *regexp2.Regexp
	list       *regexp2.Regexp
	item       *regexp2.Regexp
	bullet     *regexp2.Regexp
	html       *regexp2.Regexp
	def        *regexp2.Regexp
	table      *regexp2.Regexp
	paragraph  *regexp2.Regexp
	text       *regexp2.Regexp
}

func newBlockGrammar(opts config.Options) *blockGrammar {
	list := newEdit(srcList).
		replaceAll("bull", srcBullet).
		replace("hr", `\n+(?=\1?(?:[-*_] *){3,}(?:\n+|\z))`).
		replace("def", `\n+(?=`+stripAnchors(srcDef)+`)`).
		String()

	blockquote := newEdit(srcBlockquote).replace("def", srcDef).String()

	html := newEdit(srcHTML).
		replace("comment", srcComment).
		replace("closed", srcClosed).
		replace("closing", srcClosing).
		replaceAll("tag", srcBlockTag).
		String()

	paragraph := newEdit(srcParagraph).
		replace("hr", srcHr).
		replace("heading", srcHeading).
		replace("lheading", srcLHeading).
		replace("blockquote", blockquote).
		replace("tag", "<"+srcBlockTag).
		replace("def", srcDef)

	g := &blockGrammar{
		newline:    mustCompile(srcNewline, regexp2.None),
		code:       mustCompile(srcCode, regexp2.None),
		heading:    mustCompile(srcHeading, regexp2.None),
		lHeading:   mustCompile(srcLHeading, regexp2.None),
		hr:         mustCompile(srcHr, regexp2.None),
		blockquote: mustCompile(blockquote, regexp2.None),
		list:       mustCompile(list, regexp2.None),
		item:       mustCompile(newEdit(srcItem).replaceAll("bull", srcBullet).String(), regexp2.Multiline),
		bullet:     mustCompile(srcBullet, regexp2.None),
		html:       mustCompile(html, regexp2.None),
		def:        mustCompile(srcDef, regexp2.None),
		text:       mustCompile(srcText, regexp2.None),
	}

	if opts.Gfm {
		g.fences = mustCompile(srcFences, regexp2.None)
		g.heading = mustCompile(srcGfmHeading, regexp2.None)
		paragraph = paragraph.replace("(?!", "(?!"+srcFenceStart+"|"+srcListStart+"|")
		if opts.Tables {
			g.npTable = mustCompile(srcNpTable, regexp2.None)
			g.table = mustCompile(srcTable, regexp2.None)
		}
	}
	g.paragraph = mustCompile(paragraph.String(), regexp2.None)

	return g
}

// inlineGrammar is the compiled inline pattern table for one option set.
type inlineGrammar struct {
	escape   *regexp2.Regexp
	autolink *regexp2.Regexp
	url      *regexp2.Regexp
	tag      *regexp2.Regexp
	link     *regexp2.Regexp
	refLink  *regexp2.Regexp
	noLink   *regexp2.Regexp
	strong   *regexp2.Regexp
	em       *regexp2.Regexp
	code     *regexp2.Regexp
	br       *regexp2.Regexp
	del      *regexp2.Regexp
	emoji    *regexp2.Regexp
	text     *regexp2.Regexp
}

func newInlineGrammar(opts config.Options) *inlineGrammar {
	g := &inlineGrammar{
		escape:   mustCompile(srcEscape, regexp2.None),
		autolink: mustCompile(srcAutolink, regexp2.None),
		tag:      mustCompile(srcTag, regexp2.None),
		link: mustCompile(newEdit(srcLink).
			replace("inside", srcInside).
			replace("href", srcHref).String(), regexp2.None),
		refLink: mustCompile(newEdit(srcRefLink).replace("inside", srcInside).String(), regexp2.None),
		noLink:  mustCompile(srcNoLink, regexp2.None),
		strong:  mustCompile(srcStrong, regexp2.None),
		em:      mustCompile(srcEm, regexp2.None),
		code:    mustCompile(srcCodeSpan, regexp2.None),
		br:      mustCompile(srcBr, regexp2.None),
	}

	stops := `\\<!\[_*` + bt
	extra := ""
	br := ` {2,}\n`

	switch {
	case opts.Gfm:
		g.escape = mustCompile(srcGfmEscape, regexp2.None)
		g.url = mustCompile(srcURL, regexp2.None)
		g.del = mustCompile(srcDel, regexp2.None)
		g.emoji = mustCompile(srcEmoji, regexp2.None)
		stops += "~:"
		extra = `|https?://`
		if opts.Breaks {
			g.br = mustCompile(srcBreaksBr, regexp2.None)
			br = ` *\n`
		}
	case opts.Pedantic:
		g.strong = mustCompile(srcPedanticStrong, regexp2.None)
		g.em = mustCompile(srcPedanticEm, regexp2.None)
	}

	g.text = mustCompile(`^[\s\S]+?(?=[`+stops+`]`+extra+`|`+br+`|\z)`, regexp2.None)

	return g
}
