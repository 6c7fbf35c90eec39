package render

import (
	"strconv"
	"strings"

	"github.com/yaklabco/mdlite/pkg/config"
	"github.com/yaklabco/mdlite/pkg/emoji"
	"github.com/yaklabco/mdlite/pkg/mdast"
)

// MarkdownRenderer renders tokens back to Markdown in one canonical
// layout: ATX headings, fenced code, "-" bullets, blank lines between
// blocks and reference links written inline. Rendering the tokens of
// its own output reproduces that output.
type MarkdownRenderer struct {
	opts config.Options

	// bullet is the marker the next unordered list uses.
	bullet string
}

// NewMarkdownRenderer creates a Markdown renderer. opts decides whether
// code blocks are fenced or indented.
func NewMarkdownRenderer(opts config.Options) *MarkdownRenderer {
	return &MarkdownRenderer{opts: opts, bullet: "-"}
}

// Extensions implements ExtensionProvider.
func (r *MarkdownRenderer) Extensions() map[string]ExtensionFunc {
	return map[string]ExtensionFunc{
		emoji.ExtensionName: func(_ *Dispatcher, t *mdast.ExtensionToken) (string, error) {
			if code, ok := t.Payload.(emoji.Shortcode); ok {
				return ":" + code.Name + ":", nil
			}
			return t.Info().Source.Text, nil
		},
	}
}

// RenderDocument implements DocumentRenderer.
func (r *MarkdownRenderer) RenderDocument(d *Dispatcher, tokens []mdast.Token) (string, error) {
	out, err := r.blocks(d, tokens, "\n\n")
	if err != nil || out == "" {
		return out, err
	}
	return out + "\n", nil
}

// blocks renders block tokens, dropping empty output, and joins them with
// sep. Adjacent bullet lists alternate markers so they stay separate.
func (r *MarkdownRenderer) blocks(d *Dispatcher, tokens []mdast.Token, sep string) (string, error) {
	var parts []string
	prevBullet := ""
	for _, t := range tokens {
		bullet := ""
		if list, ok := t.(*mdast.ListToken); ok && !list.Ordered {
			bullet = "-"
			if prevBullet == "-" {
				bullet = "*"
			}
			r.bullet = bullet
		}

		out, err := d.Render(t)
		if err != nil {
			return "", err
		}
		if out == "" {
			continue
		}
		parts = append(parts, out)
		prevBullet = bullet
	}
	return strings.Join(parts, sep), nil
}

// RenderNewLine implements Renderer.
func (r *MarkdownRenderer) RenderNewLine(*Dispatcher, *mdast.NewLineToken) (string, error) {
	return "", nil
}

// RenderIgnore implements Renderer.
func (r *MarkdownRenderer) RenderIgnore(*Dispatcher, *mdast.IgnoreToken) (string, error) {
	return "", nil
}

// RenderBlockText implements Renderer.
func (r *MarkdownRenderer) RenderBlockText(_ *Dispatcher, t *mdast.BlockTextToken) (string, error) {
	return t.Text, nil
}

// RenderHeading implements Renderer.
func (r *MarkdownRenderer) RenderHeading(d *Dispatcher, t *mdast.HeadingToken) (string, error) {
	body, err := d.RenderTokens(t.Inlines)
	if err != nil {
		return "", err
	}
	return strings.Repeat("#", t.Depth) + " " + body, nil
}

// RenderParagraph implements Renderer.
func (r *MarkdownRenderer) RenderParagraph(d *Dispatcher, t *mdast.ParagraphToken) (string, error) {
	return d.RenderTokens(t.Inlines)
}

// RenderNonParagraph implements Renderer.
func (r *MarkdownRenderer) RenderNonParagraph(d *Dispatcher, t *mdast.NonParagraphToken) (string, error) {
	return d.RenderTokens(t.Inlines)
}

// RenderCode implements Renderer.
func (r *MarkdownRenderer) RenderCode(_ *Dispatcher, t *mdast.CodeToken) (string, error) {
	code := strings.TrimRight(t.Code, " \n")
	if !r.opts.Gfm {
		return indentLines(code, "    ", true), nil
	}
	fence := strings.Repeat("`", max(3, longestRun(code, '`')+1))
	return fence + t.Lang + "\n" + code + "\n" + fence, nil
}

// RenderHr implements Renderer.
func (r *MarkdownRenderer) RenderHr(*Dispatcher, *mdast.HrToken) (string, error) {
	return "***", nil
}

// RenderBlockquote implements Renderer.
func (r *MarkdownRenderer) RenderBlockquote(d *Dispatcher, t *mdast.BlockquoteToken) (string, error) {
	body, err := r.blocks(d, t.Tokens, "\n\n")
	if err != nil {
		return "", err
	}
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		if line == "" {
			lines[i] = ">"
		} else {
			lines[i] = "> " + line
		}
	}
	return strings.Join(lines, "\n"), nil
}

// RenderList implements Renderer.
func (r *MarkdownRenderer) RenderList(d *Dispatcher, t *mdast.ListToken) (string, error) {
	bullet := r.bullet

	sep := "\n"
	if t.IsLoose() {
		sep = "\n\n"
	}

	items := make([]string, 0, len(t.Items))
	for i, item := range t.Items {
		marker := bullet + " "
		if t.Ordered {
			marker = strconv.Itoa(t.Start+i) + ". "
		}

		body, err := r.listItem(d, item, sep)
		if err != nil {
			return "", err
		}
		items = append(items, marker+indentLines(body, strings.Repeat(" ", len(marker)), false))
	}

	return strings.Join(items, sep), nil
}

func (r *MarkdownRenderer) listItem(d *Dispatcher, item mdast.Token, sep string) (string, error) {
	li, ok := item.(*mdast.ListItemToken)
	if !ok {
		return d.Render(item)
	}
	return r.blocks(d, li.Tokens, sep)
}

// RenderListItem implements Renderer. Lists render their items directly;
// this handles items outside a list.
func (r *MarkdownRenderer) RenderListItem(d *Dispatcher, t *mdast.ListItemToken) (string, error) {
	body, err := r.blocks(d, t.Tokens, "\n")
	if err != nil {
		return "", err
	}
	return "- " + indentLines(body, "  ", false), nil
}

// RenderHTMLBlock implements Renderer.
func (r *MarkdownRenderer) RenderHTMLBlock(_ *Dispatcher, t *mdast.HTMLBlockToken) (string, error) {
	return strings.Trim(t.Raw, "\n"), nil
}

// RenderTable implements Renderer.
func (r *MarkdownRenderer) RenderTable(d *Dispatcher, t *mdast.TableToken) (string, error) {
	header, err := r.tableRow(d, t.Header)
	if err != nil {
		return "", err
	}

	delims := make([]string, len(t.Header))
	for i := range delims {
		align := mdast.AlignNone
		if i < len(t.Align) {
			align = t.Align[i]
		}
		delims[i] = alignDelimiter(align)
	}

	lines := []string{header, "| " + strings.Join(delims, " | ") + " |"}
	for _, row := range t.Rows {
		line, err := r.tableRow(d, row)
		if err != nil {
			return "", err
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), nil
}

func (r *MarkdownRenderer) tableRow(d *Dispatcher, cells []mdast.Token) (string, error) {
	out := make([]string, len(cells))
	for i, cell := range cells {
		s, err := d.Render(cell)
		if err != nil {
			return "", err
		}
		out[i] = s
	}
	return "| " + strings.Join(out, " | ") + " |", nil
}

func alignDelimiter(a mdast.Align) string {
	switch a {
	case mdast.AlignLeft:
		return ":--"
	case mdast.AlignCenter:
		return ":-:"
	case mdast.AlignRight:
		return "--:"
	default:
		return "---"
	}
}

// RenderTableCell implements Renderer.
func (r *MarkdownRenderer) RenderTableCell(d *Dispatcher, t *mdast.TableCellToken) (string, error) {
	return d.RenderTokens(t.Inlines)
}

// RenderTwoPhase implements Renderer. Unresolved tokens are written as
// their source.
func (r *MarkdownRenderer) RenderTwoPhase(_ *Dispatcher, t *mdast.TwoPhaseToken) (string, error) {
	return strings.TrimRight(t.Info().Source.Text, "\n"), nil
}

// RenderText implements Renderer.
func (r *MarkdownRenderer) RenderText(_ *Dispatcher, t *mdast.TextToken) (string, error) {
	return t.Text, nil
}

// RenderEscape implements Renderer.
func (r *MarkdownRenderer) RenderEscape(_ *Dispatcher, t *mdast.EscapeToken) (string, error) {
	return `\` + t.Char, nil
}

// RenderStrong implements Renderer.
func (r *MarkdownRenderer) RenderStrong(d *Dispatcher, t *mdast.StrongToken) (string, error) {
	return wrapInlines(d, t.Inlines, "**", "**")
}

// RenderEm implements Renderer.
func (r *MarkdownRenderer) RenderEm(d *Dispatcher, t *mdast.EmToken) (string, error) {
	return wrapInlines(d, t.Inlines, "*", "*")
}

// RenderDel implements Renderer.
func (r *MarkdownRenderer) RenderDel(d *Dispatcher, t *mdast.DelToken) (string, error) {
	return wrapInlines(d, t.Inlines, "~~", "~~")
}

// RenderCodeSpan implements Renderer.
func (r *MarkdownRenderer) RenderCodeSpan(_ *Dispatcher, t *mdast.CodeSpanToken) (string, error) {
	fence := strings.Repeat("`", longestRun(t.Code, '`')+1)
	code := t.Code
	if strings.HasPrefix(code, "`") || strings.HasSuffix(code, "`") {
		code = " " + code + " "
	}
	return fence + code + fence, nil
}

// RenderLink implements Renderer.
func (r *MarkdownRenderer) RenderLink(d *Dispatcher, t *mdast.LinkToken) (string, error) {
	switch t.LinkType {
	case mdast.LinkTypeURL:
		return t.Href, nil
	case mdast.LinkTypeAuto:
		if t.Email {
			return "<" + mdast.PlainText(t.Inlines) + ">", nil
		}
		return "<" + t.Href + ">", nil
	}

	body, err := d.RenderTokens(t.Inlines)
	if err != nil {
		return "", err
	}
	return "[" + body + "](" + linkTarget(t.Href, t.Title) + ")", nil
}

// RenderImage implements Renderer.
func (r *MarkdownRenderer) RenderImage(_ *Dispatcher, t *mdast.ImageToken) (string, error) {
	return "![" + t.Alt + "](" + linkTarget(t.Href, t.Title) + ")", nil
}

func linkTarget(href, title string) string {
	if strings.ContainsAny(href, " \n") {
		href = "<" + href + ">"
	}
	if title == "" {
		return href
	}
	return href + ` "` + title + `"`
}

// RenderBr implements Renderer.
func (r *MarkdownRenderer) RenderBr(*Dispatcher, *mdast.BrToken) (string, error) {
	return "  \n", nil
}

// RenderTag implements Renderer.
func (r *MarkdownRenderer) RenderTag(_ *Dispatcher, t *mdast.TagToken) (string, error) {
	return t.Raw, nil
}

// indentLines prefixes lines of s with indent. The first line is only
// prefixed when first is set; empty lines are never prefixed.
func indentLines(s, indent string, first bool) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line == "" || (i == 0 && !first) {
			continue
		}
		lines[i] = indent + line
	}
	return strings.Join(lines, "\n")
}

// longestRun returns the length of the longest run of c in s.
func longestRun(s string, c byte) int {
	longest, run := 0, 0
	for i := 0; i < len(s); i++ {
		if s[i] != c {
			run = 0
			continue
		}
		run++
		longest = max(longest, run)
	}
	return longest
}
