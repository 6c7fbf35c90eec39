package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yaklabco/mdlite/pkg/emoji"
	"github.com/yaklabco/mdlite/pkg/mdast"
)

// JSONNode is one token in the JSON tree.
type JSONNode struct {
	Name       string            `json:"name"`
	Line       int               `json:"line"`
	EndLine    int               `json:"endLine"`
	File       string            `json:"file,omitempty"`
	Rule       string            `json:"rule,omitempty"`
	Attributes map[string]any    `json:"attributes,omitempty"`
	Children   []json.RawMessage `json:"children,omitempty"`
}

// JSONRenderer renders the token tree as JSON. Newlines and link
// definitions are omitted; two-phase tokens are emitted with their raw
// source so unresolved trees can be inspected.
type JSONRenderer struct {
	// Compact disables indentation of the document.
	Compact bool
}

// NewJSONRenderer creates a JSON renderer.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

// RenderDocument implements DocumentRenderer.
func (r *JSONRenderer) RenderDocument(d *Dispatcher, tokens []mdast.Token) (string, error) {
	children, err := renderJSONChildren(d, tokens)
	if err != nil {
		return "", err
	}
	if children == nil {
		children = []json.RawMessage{}
	}
	data, err := json.Marshal(children)
	if err != nil {
		return "", fmt.Errorf("encode JSON: %w", err)
	}
	if r.Compact {
		return string(data) + "\n", nil
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return "", fmt.Errorf("indent JSON: %w", err)
	}
	buf.WriteByte('\n')
	return buf.String(), nil
}

// Extensions implements ExtensionProvider.
func (r *JSONRenderer) Extensions() map[string]ExtensionFunc {
	return map[string]ExtensionFunc{
		emoji.ExtensionName: func(d *Dispatcher, t *mdast.ExtensionToken) (string, error) {
			attrs := map[string]any{}
			if code, ok := t.Payload.(emoji.Shortcode); ok {
				attrs["shortcode"] = code.Name
				attrs["unicode"] = code.Unicode
			}
			return jsonNode(d, t, "emoji", attrs, t.Nested)
		},
	}
}

func renderJSONChildren(d *Dispatcher, tokens []mdast.Token) ([]json.RawMessage, error) {
	var out []json.RawMessage
	for _, t := range tokens {
		s, err := d.Render(t)
		if err != nil {
			return nil, err
		}
		if s == "" {
			continue
		}
		out = append(out, json.RawMessage(s))
	}
	return out, nil
}

func jsonNode(d *Dispatcher, t mdast.Token, name string, attrs map[string]any, children []mdast.Token) (string, error) {
	rendered, err := renderJSONChildren(d, children)
	if err != nil {
		return "", err
	}
	return encodeNode(t, name, attrs, rendered)
}

func encodeNode(t mdast.Token, name string, attrs map[string]any, children []json.RawMessage) (string, error) {
	info := t.Info()
	src := info.Source
	node := JSONNode{
		Name:       name,
		Line:       src.LineNumber,
		EndLine:    src.Copy(strings.TrimRight(src.Text, "\n"), 0).EndLineNumber(),
		File:       src.File,
		Attributes: attrs,
		Children:   children,
	}
	if info.Rule != nil {
		node.Rule = info.Rule.Name()
	}
	data, err := json.Marshal(node)
	if err != nil {
		return "", fmt.Errorf("encode %s node: %w", name, err)
	}
	return string(data), nil
}

// RenderNewLine implements Renderer.
func (r *JSONRenderer) RenderNewLine(*Dispatcher, *mdast.NewLineToken) (string, error) {
	return "", nil
}

// RenderIgnore implements Renderer.
func (r *JSONRenderer) RenderIgnore(*Dispatcher, *mdast.IgnoreToken) (string, error) {
	return "", nil
}

// RenderBlockText implements Renderer.
func (r *JSONRenderer) RenderBlockText(d *Dispatcher, t *mdast.BlockTextToken) (string, error) {
	return jsonNode(d, t, "blockText", map[string]any{"text": t.Text}, nil)
}

// RenderHeading implements Renderer.
func (r *JSONRenderer) RenderHeading(d *Dispatcher, t *mdast.HeadingToken) (string, error) {
	attrs := map[string]any{"depth": t.Depth}
	if t.ID != "" {
		attrs["id"] = t.ID
	}
	return jsonNode(d, t, "heading", attrs, t.Inlines)
}

// RenderParagraph implements Renderer.
func (r *JSONRenderer) RenderParagraph(d *Dispatcher, t *mdast.ParagraphToken) (string, error) {
	return jsonNode(d, t, "paragraph", nil, t.Inlines)
}

// RenderNonParagraph implements Renderer.
func (r *JSONRenderer) RenderNonParagraph(d *Dispatcher, t *mdast.NonParagraphToken) (string, error) {
	return jsonNode(d, t, "nonParagraph", nil, t.Inlines)
}

// RenderCode implements Renderer.
func (r *JSONRenderer) RenderCode(d *Dispatcher, t *mdast.CodeToken) (string, error) {
	attrs := map[string]any{"code": t.Code, "fenced": t.Fenced}
	if t.Lang != "" {
		attrs["lang"] = t.Lang
	}
	return jsonNode(d, t, "code", attrs, nil)
}

// RenderHr implements Renderer.
func (r *JSONRenderer) RenderHr(d *Dispatcher, t *mdast.HrToken) (string, error) {
	return jsonNode(d, t, "hr", nil, nil)
}

// RenderBlockquote implements Renderer.
func (r *JSONRenderer) RenderBlockquote(d *Dispatcher, t *mdast.BlockquoteToken) (string, error) {
	return jsonNode(d, t, "blockquote", nil, t.Tokens)
}

// RenderList implements Renderer.
func (r *JSONRenderer) RenderList(d *Dispatcher, t *mdast.ListToken) (string, error) {
	attrs := map[string]any{"ordered": t.Ordered, "loose": t.IsLoose()}
	if t.Ordered {
		attrs["start"] = t.Start
	}
	return jsonNode(d, t, "list", attrs, t.Items)
}

// RenderListItem implements Renderer.
func (r *JSONRenderer) RenderListItem(d *Dispatcher, t *mdast.ListItemToken) (string, error) {
	return jsonNode(d, t, "listItem", map[string]any{"loose": t.Loose}, t.Tokens)
}

// RenderHTMLBlock implements Renderer.
func (r *JSONRenderer) RenderHTMLBlock(d *Dispatcher, t *mdast.HTMLBlockToken) (string, error) {
	return jsonNode(d, t, "html", map[string]any{"raw": t.Raw, "pre": t.Pre}, t.Inlines)
}

// RenderTable implements Renderer.
func (r *JSONRenderer) RenderTable(d *Dispatcher, t *mdast.TableToken) (string, error) {
	align := make([]string, len(t.Align))
	for i, a := range t.Align {
		align[i] = a.String()
	}

	rows := make([]json.RawMessage, 0, len(t.Rows)+1)
	header, err := r.tableRow(d, t, t.Header)
	if err != nil {
		return "", err
	}
	rows = append(rows, header)
	for _, row := range t.Rows {
		encoded, err := r.tableRow(d, t, row)
		if err != nil {
			return "", err
		}
		rows = append(rows, encoded)
	}
	return encodeNode(t, "table", map[string]any{"align": align}, rows)
}

func (r *JSONRenderer) tableRow(d *Dispatcher, t *mdast.TableToken, cells []mdast.Token) (json.RawMessage, error) {
	rendered, err := renderJSONChildren(d, cells)
	if err != nil {
		return nil, err
	}
	row := JSONNode{Name: "tableRow", Children: rendered}
	if len(cells) > 0 {
		row.Line = cells[0].Info().Source.LineNumber
		row.EndLine = row.Line
		row.File = t.Info().Source.File
	}
	data, err := json.Marshal(row)
	if err != nil {
		return nil, fmt.Errorf("encode table row: %w", err)
	}
	return data, nil
}

// RenderTableCell implements Renderer.
func (r *JSONRenderer) RenderTableCell(d *Dispatcher, t *mdast.TableCellToken) (string, error) {
	attrs := map[string]any{"header": t.Header}
	if t.Align != mdast.AlignNone {
		attrs["align"] = t.Align.String()
	}
	return jsonNode(d, t, "tableCell", attrs, t.Inlines)
}

// RenderTwoPhase implements Renderer.
func (r *JSONRenderer) RenderTwoPhase(d *Dispatcher, t *mdast.TwoPhaseToken) (string, error) {
	return jsonNode(d, t, "twoPhase", map[string]any{"source": t.Info().Source.Text}, nil)
}

// RenderText implements Renderer.
func (r *JSONRenderer) RenderText(d *Dispatcher, t *mdast.TextToken) (string, error) {
	return jsonNode(d, t, "text", map[string]any{"text": t.Text}, nil)
}

// RenderEscape implements Renderer.
func (r *JSONRenderer) RenderEscape(d *Dispatcher, t *mdast.EscapeToken) (string, error) {
	return jsonNode(d, t, "escape", map[string]any{"char": t.Char}, nil)
}

// RenderStrong implements Renderer.
func (r *JSONRenderer) RenderStrong(d *Dispatcher, t *mdast.StrongToken) (string, error) {
	return jsonNode(d, t, "strong", nil, t.Inlines)
}

// RenderEm implements Renderer.
func (r *JSONRenderer) RenderEm(d *Dispatcher, t *mdast.EmToken) (string, error) {
	return jsonNode(d, t, "em", nil, t.Inlines)
}

// RenderDel implements Renderer.
func (r *JSONRenderer) RenderDel(d *Dispatcher, t *mdast.DelToken) (string, error) {
	return jsonNode(d, t, "del", nil, t.Inlines)
}

// RenderCodeSpan implements Renderer.
func (r *JSONRenderer) RenderCodeSpan(d *Dispatcher, t *mdast.CodeSpanToken) (string, error) {
	return jsonNode(d, t, "codeSpan", map[string]any{"code": t.Code}, nil)
}

// RenderLink implements Renderer.
func (r *JSONRenderer) RenderLink(d *Dispatcher, t *mdast.LinkToken) (string, error) {
	attrs := map[string]any{"type": t.LinkType.String(), "href": t.Href}
	if t.Title != "" {
		attrs["title"] = t.Title
	}
	if t.Email {
		attrs["email"] = true
	}
	return jsonNode(d, t, "link", attrs, t.Inlines)
}

// RenderImage implements Renderer.
func (r *JSONRenderer) RenderImage(d *Dispatcher, t *mdast.ImageToken) (string, error) {
	attrs := map[string]any{"type": t.LinkType.String(), "href": t.Href, "alt": t.Alt}
	if t.Title != "" {
		attrs["title"] = t.Title
	}
	return jsonNode(d, t, "image", attrs, nil)
}

// RenderBr implements Renderer.
func (r *JSONRenderer) RenderBr(d *Dispatcher, t *mdast.BrToken) (string, error) {
	return jsonNode(d, t, "br", nil, nil)
}

// RenderTag implements Renderer.
func (r *JSONRenderer) RenderTag(d *Dispatcher, t *mdast.TagToken) (string, error) {
	return jsonNode(d, t, "tag", map[string]any{"raw": t.Raw}, nil)
}
