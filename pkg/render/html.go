package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/mdlite/pkg/config"
	"github.com/yaklabco/mdlite/pkg/emoji"
	"github.com/yaklabco/mdlite/pkg/htmlutil"
	"github.com/yaklabco/mdlite/pkg/langdetect"
	"github.com/yaklabco/mdlite/pkg/mdast"
)

// HTMLRenderer renders marked-compatible HTML.
//
// The renderer keeps per-document state (the email mangling counter), so
// use one instance per document.
type HTMLRenderer struct {
	opts   config.Options
	allow  htmlutil.TagSet
	mangle int
}

// NewHTMLRenderer creates an HTML renderer for opts.
func NewHTMLRenderer(opts config.Options) *HTMLRenderer {
	allow := htmlutil.DefaultAllowedTags()
	if len(opts.SanitizeAllowTags) > 0 {
		allow = htmlutil.NewTagSet(opts.SanitizeAllowTags...)
	}
	return &HTMLRenderer{opts: opts, allow: allow}
}

// Extensions implements ExtensionProvider.
func (r *HTMLRenderer) Extensions() map[string]ExtensionFunc {
	return map[string]ExtensionFunc{
		emoji.ExtensionName: r.renderEmoji,
	}
}

func (r *HTMLRenderer) renderEmoji(_ *Dispatcher, t *mdast.ExtensionToken) (string, error) {
	code, ok := t.Payload.(emoji.Shortcode)
	if !ok {
		return "", fmt.Errorf("emoji token carries %T: %w", t.Payload, ErrMissingRenderer)
	}
	return `<span class="emoji" title=":` + htmlutil.EscapeAttribute(code.Name) + `:">` + code.Unicode + "</span>", nil
}

// sourceAttrs returns the source position attributes of a block element
// when source export is enabled.
func (r *HTMLRenderer) sourceAttrs(t mdast.Token) string {
	if !r.opts.ShouldExportSourceInfo {
		return ""
	}
	src := t.Info().Source
	end := src.Copy(strings.TrimRight(src.Text, "\n"), 0).EndLineNumber()
	return fmt.Sprintf(` sourceFile="%s" sourceStartLineNumber="%d" sourceEndLineNumber="%d"`,
		htmlutil.EscapeAttribute(src.File), src.LineNumber, end)
}

func (r *HTMLRenderer) voidEnd() string {
	if r.opts.XHTML {
		return "/>"
	}
	return ">"
}

// RenderNewLine implements Renderer.
func (r *HTMLRenderer) RenderNewLine(*Dispatcher, *mdast.NewLineToken) (string, error) {
	return "", nil
}

// RenderIgnore implements Renderer.
func (r *HTMLRenderer) RenderIgnore(*Dispatcher, *mdast.IgnoreToken) (string, error) {
	return "", nil
}

// RenderBlockText implements Renderer.
func (r *HTMLRenderer) RenderBlockText(_ *Dispatcher, t *mdast.BlockTextToken) (string, error) {
	return htmlutil.Escape(r.smartypants(t.Text), false), nil
}

// RenderHeading implements Renderer.
func (r *HTMLRenderer) RenderHeading(d *Dispatcher, t *mdast.HeadingToken) (string, error) {
	body, err := d.RenderTokens(t.Inlines)
	if err != nil {
		return "", err
	}
	level := strconv.Itoa(t.Depth)
	id := ""
	if t.ID != "" {
		id = ` id="` + htmlutil.EscapeAttribute(t.ID) + `"`
	}
	return "<h" + level + id + r.sourceAttrs(t) + ">" + body + "</h" + level + ">\n", nil
}

// RenderParagraph implements Renderer.
func (r *HTMLRenderer) RenderParagraph(d *Dispatcher, t *mdast.ParagraphToken) (string, error) {
	body, err := d.RenderTokens(t.Inlines)
	if err != nil {
		return "", err
	}
	return "<p" + r.sourceAttrs(t) + ">" + body + "</p>\n", nil
}

// RenderNonParagraph implements Renderer.
func (r *HTMLRenderer) RenderNonParagraph(d *Dispatcher, t *mdast.NonParagraphToken) (string, error) {
	return d.RenderTokens(t.Inlines)
}

// RenderCode implements Renderer.
func (r *HTMLRenderer) RenderCode(_ *Dispatcher, t *mdast.CodeToken) (string, error) {
	lang := t.Lang
	if lang == "" && t.Fenced && r.opts.DetectLanguage {
		if detected, ok := langdetect.Detect(t.Code); ok {
			lang = detected
		}
	}

	code := t.Code
	escaped := false
	if r.opts.Highlight != nil {
		if out := r.opts.Highlight(code, lang); out != "" && out != code {
			code, escaped = out, true
		}
	}
	if !escaped {
		code = htmlutil.Escape(code, true)
	}

	class := ""
	if lang != "" {
		class = ` class="` + htmlutil.EscapeAttribute(r.opts.LangPrefix) + htmlutil.Escape(lang, true) + `"`
	}
	return "<pre" + r.sourceAttrs(t) + "><code" + class + ">" + code + "\n</code></pre>\n", nil
}

// RenderHr implements Renderer.
func (r *HTMLRenderer) RenderHr(_ *Dispatcher, t *mdast.HrToken) (string, error) {
	return "<hr" + r.sourceAttrs(t) + r.voidEnd() + "\n", nil
}

// RenderBlockquote implements Renderer.
func (r *HTMLRenderer) RenderBlockquote(d *Dispatcher, t *mdast.BlockquoteToken) (string, error) {
	body, err := d.RenderTokens(t.Tokens)
	if err != nil {
		return "", err
	}
	return "<blockquote" + r.sourceAttrs(t) + ">\n" + body + "</blockquote>\n", nil
}

// RenderList implements Renderer.
func (r *HTMLRenderer) RenderList(d *Dispatcher, t *mdast.ListToken) (string, error) {
	body, err := d.RenderTokens(t.Items)
	if err != nil {
		return "", err
	}
	tag := "ul"
	start := ""
	if t.Ordered {
		tag = "ol"
		if t.Start != 1 {
			start = ` start="` + strconv.Itoa(t.Start) + `"`
		}
	}
	return "<" + tag + start + r.sourceAttrs(t) + ">\n" + body + "</" + tag + ">\n", nil
}

// RenderListItem implements Renderer.
func (r *HTMLRenderer) RenderListItem(d *Dispatcher, t *mdast.ListItemToken) (string, error) {
	body, err := d.RenderTokens(t.Tokens)
	if err != nil {
		return "", err
	}
	return "<li" + r.sourceAttrs(t) + ">" + body + "</li>\n", nil
}

// RenderHTMLBlock implements Renderer.
func (r *HTMLRenderer) RenderHTMLBlock(d *Dispatcher, t *mdast.HTMLBlockToken) (string, error) {
	if t.Inlines == nil {
		return t.Raw, nil
	}
	return d.RenderTokens(t.Inlines)
}

// RenderTable implements Renderer.
func (r *HTMLRenderer) RenderTable(d *Dispatcher, t *mdast.TableToken) (string, error) {
	var b strings.Builder
	b.WriteString("<table" + r.sourceAttrs(t) + ">\n<thead>\n<tr>\n")
	header, err := d.RenderTokens(t.Header)
	if err != nil {
		return "", err
	}
	b.WriteString(header)
	b.WriteString("</tr>\n</thead>\n<tbody>\n")
	for _, row := range t.Rows {
		cells, err := d.RenderTokens(row)
		if err != nil {
			return "", err
		}
		b.WriteString("<tr>\n" + cells + "</tr>\n")
	}
	b.WriteString("</tbody>\n</table>\n")
	return b.String(), nil
}

// RenderTableCell implements Renderer.
func (r *HTMLRenderer) RenderTableCell(d *Dispatcher, t *mdast.TableCellToken) (string, error) {
	body, err := d.RenderTokens(t.Inlines)
	if err != nil {
		return "", err
	}
	tag := "td"
	if t.Header {
		tag = "th"
	}
	style := ""
	if t.Align != mdast.AlignNone {
		style = ` style="text-align:` + t.Align.String() + `"`
	}
	return "<" + tag + style + ">" + body + "</" + tag + ">\n", nil
}

// RenderTwoPhase implements Renderer.
func (r *HTMLRenderer) RenderTwoPhase(_ *Dispatcher, t *mdast.TwoPhaseToken) (string, error) {
	return "", fmt.Errorf("%s at %s: %w", mdast.RuleName(t.Info().Rule), t.Info().Source.Location(), ErrUnresolvedToken)
}

// RenderText implements Renderer.
func (r *HTMLRenderer) RenderText(_ *Dispatcher, t *mdast.TextToken) (string, error) {
	return htmlutil.Escape(r.smartypants(t.Text), false), nil
}

// RenderEscape implements Renderer.
func (r *HTMLRenderer) RenderEscape(_ *Dispatcher, t *mdast.EscapeToken) (string, error) {
	return htmlutil.Escape(t.Char, true), nil
}

// RenderStrong implements Renderer.
func (r *HTMLRenderer) RenderStrong(d *Dispatcher, t *mdast.StrongToken) (string, error) {
	return wrapInlines(d, t.Inlines, "<strong>", "</strong>")
}

// RenderEm implements Renderer.
func (r *HTMLRenderer) RenderEm(d *Dispatcher, t *mdast.EmToken) (string, error) {
	return wrapInlines(d, t.Inlines, "<em>", "</em>")
}

// RenderDel implements Renderer.
func (r *HTMLRenderer) RenderDel(d *Dispatcher, t *mdast.DelToken) (string, error) {
	return wrapInlines(d, t.Inlines, "<del>", "</del>")
}

func wrapInlines(d *Dispatcher, inlines []mdast.Token, open, closing string) (string, error) {
	body, err := d.RenderTokens(inlines)
	if err != nil {
		return "", err
	}
	return open + body + closing, nil
}

// RenderCodeSpan implements Renderer.
func (r *HTMLRenderer) RenderCodeSpan(_ *Dispatcher, t *mdast.CodeSpanToken) (string, error) {
	return "<code>" + htmlutil.Escape(t.Code, true) + "</code>", nil
}

// RenderLink implements Renderer.
func (r *HTMLRenderer) RenderLink(d *Dispatcher, t *mdast.LinkToken) (string, error) {
	var text, href string
	if t.Email {
		addr := mdast.PlainText(t.Inlines)
		if r.opts.Mangle {
			text = r.mangleText(addr)
			href = r.mangleText("mailto:") + text
		} else {
			text = htmlutil.Escape(addr, true)
			href = "mailto:" + text
		}
	} else {
		body, err := d.RenderTokens(t.Inlines)
		if err != nil {
			return "", err
		}
		text = body
		href = htmlutil.Escape(t.Href, false)
	}

	if r.opts.Sanitize && !htmlutil.IsSafeURL(t.Href) {
		return "", nil
	}

	out := `<a href="` + href + `"`
	if t.Title != "" {
		out += ` title="` + htmlutil.Escape(t.Title, false) + `"`
	}
	return out + ">" + text + "</a>", nil
}

// RenderImage implements Renderer.
func (r *HTMLRenderer) RenderImage(_ *Dispatcher, t *mdast.ImageToken) (string, error) {
	if r.opts.Sanitize && !htmlutil.IsSafeImageURL(t.Href) {
		return htmlutil.Escape(t.Alt, false), nil
	}
	out := `<img src="` + htmlutil.Escape(t.Href, false) + `" alt="` + htmlutil.Escape(t.Alt, false) + `"`
	if t.Title != "" {
		out += ` title="` + htmlutil.Escape(t.Title, false) + `"`
	}
	return out + r.voidEnd(), nil
}

// RenderBr implements Renderer.
func (r *HTMLRenderer) RenderBr(*Dispatcher, *mdast.BrToken) (string, error) {
	return "<br" + r.voidEnd(), nil
}

// RenderTag implements Renderer.
func (r *HTMLRenderer) RenderTag(_ *Dispatcher, t *mdast.TagToken) (string, error) {
	if !r.opts.Sanitize {
		return t.Raw, nil
	}
	if r.opts.Sanitizer != nil {
		return r.opts.Sanitizer(t.Raw), nil
	}
	return htmlutil.SanitizeTag(t.Raw, r.allow), nil
}

// mangleText encodes every character as a character reference,
// alternating decimal and hexadecimal forms.
func (r *HTMLRenderer) mangleText(s string) string {
	var b strings.Builder
	for _, c := range s {
		if r.mangle%2 == 0 {
			fmt.Fprintf(&b, "&#%d;", c)
		} else {
			fmt.Fprintf(&b, "&#x%x;", c)
		}
		r.mangle++
	}
	return b.String()
}

func (r *HTMLRenderer) smartypants(s string) string {
	if !r.opts.SmartyPants {
		return s
	}
	return SmartyPants(s)
}
