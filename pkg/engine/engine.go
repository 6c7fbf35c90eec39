// Package engine runs the Markdown pipeline: normalize, tokenize, the
// rewrite passes, validation and rendering.
//
// An Engine is immutable once built and may be shared between goroutines.
// Every Parse creates its own parser, link table and rewrite engines.
package engine

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/mdlite/internal/logging"
	"github.com/yaklabco/mdlite/pkg/config"
	"github.com/yaklabco/mdlite/pkg/mdast"
	"github.com/yaklabco/mdlite/pkg/parser"
	"github.com/yaklabco/mdlite/pkg/render"
	"github.com/yaklabco/mdlite/pkg/rewrite"
)

// Document is a parsed, fully resolved Markdown document.
type Document struct {
	// File is the name the document was parsed under.
	File string

	// Tokens is the root token array.
	Tokens []mdast.Token

	// Links holds the document's reference definitions.
	Links mdast.LinkTable
}

// Engine turns Markdown text into token trees and output.
type Engine struct {
	opts       config.Options
	logger     *log.Logger
	block      *parser.RuleSet
	inline     *parser.RuleSet
	rewriter   rewrite.TokenRewriter
	validators []Validator
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. Without one the engine logs to the logger
// in the Parse context, or the default logger.
func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithBlockRules replaces the block rule set. The set is cloned.
func WithBlockRules(rules *parser.RuleSet) Option {
	return func(e *Engine) {
		e.block = rules.Clone()
	}
}

// WithInlineRules replaces the inline rule set. The set is cloned.
func WithInlineRules(rules *parser.RuleSet) Option {
	return func(e *Engine) {
		e.inline = rules.Clone()
	}
}

// WithRewriter adds a rewrite pass that runs after heading ids are
// assigned. The rewriter is shared by every Parse, so it must not keep
// per-document state outside the rewrite engine's variables.
func WithRewriter(r rewrite.TokenRewriter) Option {
	return func(e *Engine) {
		e.rewriter = r
	}
}

// WithValidators adds validators run on every parsed document.
func WithValidators(validators ...Validator) Option {
	return func(e *Engine) {
		e.validators = append(e.validators, validators...)
	}
}

// New creates an engine for opts.
func New(opts config.Options, options ...Option) *Engine {
	e := &Engine{opts: opts.Clone()}
	for _, opt := range options {
		opt(e)
	}
	if e.block == nil {
		e.block = parser.NewBlockRules(e.opts)
	}
	if e.inline == nil {
		e.inline = parser.NewInlineRules(e.opts)
	}
	return e
}

// Options returns a copy of the engine options.
func (e *Engine) Options() config.Options {
	return e.opts.Clone()
}

func (e *Engine) log(ctx context.Context) *log.Logger {
	if e.logger != nil {
		return e.logger
	}
	return logging.FromContext(ctx)
}

// Parse tokenizes text and runs every rewrite pass over it. file names the
// document in source positions and errors.
func (e *Engine) Parse(ctx context.Context, file, text string) (*Document, error) {
	logger := e.log(ctx).With(logging.FieldPath, file)
	p := parser.New(e.opts, e.block, e.inline)

	var tokens []mdast.Token
	run := func(stage Stage, fn func() error) error {
		if err := ctx.Err(); err != nil {
			return &StageError{Stage: stage, File: file, Err: err}
		}
		logger.Debug("stage", logging.FieldStage, string(stage))
		if err := fn(); err != nil {
			return &StageError{Stage: stage, File: file, Err: err}
		}
		return nil
	}

	var src mdast.SourceInfo
	stages := []struct {
		stage Stage
		fn    func() error
	}{
		{StageNormalize, func() error {
			src = mdast.NewSourceInfo(parser.Normalize(text), file, 1)
			return nil
		}},
		{StageTokenize, func() (err error) {
			tokens, err = p.Tokenize(src)
			return err
		}},
		{StageWrap, func() (err error) {
			tokens = wrapRuns(tokens, false)
			tokens, err = rewrite.New(p, wrapRewriter()).Rewrite(tokens)
			return err
		}},
		{StageExtract, func() (err error) {
			passes := e.opts.MaxExtractCount + 1
			tokens, err = rewrite.New(p, extractRewriter(passes)).Rewrite(tokens)
			if err != nil {
				return err
			}
			if left := unresolved(tokens); len(left) > 0 {
				return &ExtractError{Passes: passes, Remaining: left}
			}
			return nil
		}},
		{StageHeadingID, func() (err error) {
			tokens, err = rewrite.New(p, headingIDs{prefix: e.opts.HeaderPrefix}).Rewrite(tokens)
			return err
		}},
		{StageRewrite, func() error {
			if e.rewriter == nil {
				return nil
			}
			re := rewrite.New(p, e.rewriter)
			out, err := re.Rewrite(tokens)
			if err != nil {
				return err
			}
			tokens = out
			return re.Complete()
		}},
		{StageValidate, func() error {
			return Validate(tokens, e.validators...)
		}},
	}

	for _, s := range stages {
		if err := run(s.stage, s.fn); err != nil {
			logger.Debug("parse failed", logging.FieldError, err)
			return nil, err
		}
	}

	logger.Debug("parsed", logging.FieldTokens, len(tokens))
	return &Document{File: file, Tokens: tokens, Links: p.Links()}, nil
}

// Render renders doc with r.
func (e *Engine) Render(doc *Document, r render.Renderer, opts ...render.Option) (string, error) {
	out, err := render.Render(r, doc.Tokens, opts...)
	if err != nil {
		return "", &StageError{Stage: StageRender, File: doc.File, Err: err}
	}
	return out, nil
}

// Markup parses text and renders it as HTML.
func (e *Engine) Markup(ctx context.Context, file, text string) (string, error) {
	doc, err := e.Parse(ctx, file, text)
	if err != nil {
		return "", err
	}
	return e.Render(doc, render.NewHTMLRenderer(e.opts))
}

// Renderer returns a fresh renderer for format. Renderers carry
// per-document state, so use one per document.
func (e *Engine) Renderer(format config.OutputFormat) (render.Renderer, error) {
	switch format {
	case config.FormatHTML, "":
		return render.NewHTMLRenderer(e.opts), nil
	case config.FormatJSON:
		return render.NewJSONRenderer(), nil
	case config.FormatMarkdown:
		return render.NewMarkdownRenderer(e.opts), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}
