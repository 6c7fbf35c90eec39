// Package render turns token trees into output text.
//
// A Renderer has one method per token type, so a renderer that compiles
// handles every token the tokenizer produces. Extension tokens are
// dispatched by name through a handler table instead. The Dispatcher
// selects the method for each token and is what renderer methods call to
// render children.
package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yaklabco/mdlite/pkg/mdast"
)

// Sentinel errors. Use errors.Is to test for them.
var (
	// ErrMissingRenderer means no render method or extension handler
	// exists for a token.
	ErrMissingRenderer = errors.New("missing renderer")

	// ErrUnresolvedToken means a two-phase token reached a renderer that
	// needs resolved tokens.
	ErrUnresolvedToken = errors.New("unresolved two-phase token")
)

// MissingRendererError names the token a renderer could not handle.
type MissingRendererError struct {
	// TokenType is the Go type of the token.
	TokenType string
	// Rule is the name of the rule that produced the token.
	Rule string
	// Extension is the extension name for extension tokens.
	Extension string
}

func (e *MissingRendererError) Error() string {
	if e.Extension != "" {
		return fmt.Sprintf("no renderer for extension %q (token %s from rule %s)", e.Extension, e.TokenType, e.Rule)
	}
	return fmt.Sprintf("no renderer for token %s from rule %s", e.TokenType, e.Rule)
}

func (e *MissingRendererError) Unwrap() error {
	return ErrMissingRenderer
}

func missing(t mdast.Token) *MissingRendererError {
	return &MissingRendererError{
		TokenType: fmt.Sprintf("%T", t),
		Rule:      mdast.RuleName(t.Info().Rule),
	}
}

// Renderer renders each token type. Methods render children through d.
type Renderer interface {
	RenderNewLine(d *Dispatcher, t *mdast.NewLineToken) (string, error)
	RenderIgnore(d *Dispatcher, t *mdast.IgnoreToken) (string, error)
	RenderBlockText(d *Dispatcher, t *mdast.BlockTextToken) (string, error)
	RenderHeading(d *Dispatcher, t *mdast.HeadingToken) (string, error)
	RenderParagraph(d *Dispatcher, t *mdast.ParagraphToken) (string, error)
	RenderNonParagraph(d *Dispatcher, t *mdast.NonParagraphToken) (string, error)
	RenderCode(d *Dispatcher, t *mdast.CodeToken) (string, error)
	RenderHr(d *Dispatcher, t *mdast.HrToken) (string, error)
	RenderBlockquote(d *Dispatcher, t *mdast.BlockquoteToken) (string, error)
	RenderList(d *Dispatcher, t *mdast.ListToken) (string, error)
	RenderListItem(d *Dispatcher, t *mdast.ListItemToken) (string, error)
	RenderHTMLBlock(d *Dispatcher, t *mdast.HTMLBlockToken) (string, error)
	RenderTable(d *Dispatcher, t *mdast.TableToken) (string, error)
	RenderTableCell(d *Dispatcher, t *mdast.TableCellToken) (string, error)
	RenderTwoPhase(d *Dispatcher, t *mdast.TwoPhaseToken) (string, error)

	RenderText(d *Dispatcher, t *mdast.TextToken) (string, error)
	RenderEscape(d *Dispatcher, t *mdast.EscapeToken) (string, error)
	RenderStrong(d *Dispatcher, t *mdast.StrongToken) (string, error)
	RenderEm(d *Dispatcher, t *mdast.EmToken) (string, error)
	RenderDel(d *Dispatcher, t *mdast.DelToken) (string, error)
	RenderCodeSpan(d *Dispatcher, t *mdast.CodeSpanToken) (string, error)
	RenderLink(d *Dispatcher, t *mdast.LinkToken) (string, error)
	RenderImage(d *Dispatcher, t *mdast.ImageToken) (string, error)
	RenderBr(d *Dispatcher, t *mdast.BrToken) (string, error)
	RenderTag(d *Dispatcher, t *mdast.TagToken) (string, error)
}

// ExtensionFunc renders one extension token.
type ExtensionFunc func(d *Dispatcher, t *mdast.ExtensionToken) (string, error)

// ExtensionProvider is implemented by renderers that ship handlers for
// extension tokens.
type ExtensionProvider interface {
	Extensions() map[string]ExtensionFunc
}

// DocumentRenderer is implemented by renderers that wrap the root token
// array, for example to join blocks or emit a container.
type DocumentRenderer interface {
	RenderDocument(d *Dispatcher, tokens []mdast.Token) (string, error)
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithExtension registers fn for extension tokens called name, replacing
// any handler the renderer provides.
func WithExtension(name string, fn ExtensionFunc) Option {
	return func(d *Dispatcher) {
		d.extensions[name] = fn
	}
}

// Dispatcher routes tokens to a Renderer.
type Dispatcher struct {
	renderer   Renderer
	extensions map[string]ExtensionFunc
}

// NewDispatcher creates a dispatcher for r.
func NewDispatcher(r Renderer, opts ...Option) *Dispatcher {
	d := &Dispatcher{renderer: r, extensions: map[string]ExtensionFunc{}}
	if p, ok := r.(ExtensionProvider); ok {
		for name, fn := range p.Extensions() {
			d.extensions[name] = fn
		}
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Renderer returns the renderer tokens are dispatched to.
func (d *Dispatcher) Renderer() Renderer {
	return d.renderer
}

// Render renders one token.
//
//nolint:gocyclo,cyclop // One case per token type.
func (d *Dispatcher) Render(t mdast.Token) (string, error) {
	r := d.renderer
	switch tok := t.(type) {
	case *mdast.NewLineToken:
		return r.RenderNewLine(d, tok)
	case *mdast.IgnoreToken:
		return r.RenderIgnore(d, tok)
	case *mdast.BlockTextToken:
		return r.RenderBlockText(d, tok)
	case *mdast.HeadingToken:
		return r.RenderHeading(d, tok)
	case *mdast.ParagraphToken:
		return r.RenderParagraph(d, tok)
	case *mdast.NonParagraphToken:
		return r.RenderNonParagraph(d, tok)
	case *mdast.CodeToken:
		return r.RenderCode(d, tok)
	case *mdast.HrToken:
		return r.RenderHr(d, tok)
	case *mdast.BlockquoteToken:
		return r.RenderBlockquote(d, tok)
	case *mdast.ListToken:
		return r.RenderList(d, tok)
	case *mdast.ListItemToken:
		return r.RenderListItem(d, tok)
	case *mdast.HTMLBlockToken:
		return r.RenderHTMLBlock(d, tok)
	case *mdast.TableToken:
		return r.RenderTable(d, tok)
	case *mdast.TableCellToken:
		return r.RenderTableCell(d, tok)
	case *mdast.TwoPhaseToken:
		return r.RenderTwoPhase(d, tok)
	case *mdast.TextToken:
		return r.RenderText(d, tok)
	case *mdast.EscapeToken:
		return r.RenderEscape(d, tok)
	case *mdast.StrongToken:
		return r.RenderStrong(d, tok)
	case *mdast.EmToken:
		return r.RenderEm(d, tok)
	case *mdast.DelToken:
		return r.RenderDel(d, tok)
	case *mdast.CodeSpanToken:
		return r.RenderCodeSpan(d, tok)
	case *mdast.LinkToken:
		return r.RenderLink(d, tok)
	case *mdast.ImageToken:
		return r.RenderImage(d, tok)
	case *mdast.BrToken:
		return r.RenderBr(d, tok)
	case *mdast.TagToken:
		return r.RenderTag(d, tok)
	case *mdast.ExtensionToken:
		fn, ok := d.extensions[tok.Name]
		if !ok {
			err := missing(t)
			err.Extension = tok.Name
			return "", err
		}
		return fn(d, tok)
	case nil:
		return "", nil
	default:
		return "", missing(t)
	}
}

// RenderTokens renders tokens in order and concatenates the results.
func (d *Dispatcher) RenderTokens(tokens []mdast.Token) (string, error) {
	var b strings.Builder
	for _, t := range tokens {
		out, err := d.Render(t)
		if err != nil {
			return "", err
		}
		b.WriteString(out)
	}
	return b.String(), nil
}

// RenderDocument renders a root token array, letting the renderer wrap
// it when it implements DocumentRenderer.
func (d *Dispatcher) RenderDocument(tokens []mdast.Token) (string, error) {
	if dr, ok := d.renderer.(DocumentRenderer); ok {
		return dr.RenderDocument(d, tokens)
	}
	return d.RenderTokens(tokens)
}

// Render renders a document with r.
func Render(r Renderer, tokens []mdast.Token, opts ...Option) (string, error) {
	return NewDispatcher(r, opts...).RenderDocument(tokens)
}
