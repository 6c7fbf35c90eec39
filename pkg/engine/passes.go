package engine

import (
	"strings"

	"github.com/yaklabco/mdlite/pkg/mdast"
	"github.com/yaklabco/mdlite/pkg/rewrite"
)

// Rules of tokens the engine synthesizes.
const (
	RuleWrapParagraph    mdast.NamedRule = "WrapParagraph"
	RuleWrapNonParagraph mdast.NamedRule = "WrapNonParagraph"
)

// varHeadingIDs is the rewrite variable holding the document's idTable.
const varHeadingIDs = "headingIds"

// wrapRuns merges each run of block text tokens separated by single
// newlines into one two-phase token. In a tight list item the run becomes
// a non-paragraph, anywhere else a paragraph. tokens is returned as is
// when it holds no block text.
func wrapRuns(tokens []mdast.Token, tight bool) []mdast.Token {
	if !hasBlockText(tokens) {
		return tokens
	}

	out := make([]mdast.Token, 0, len(tokens))
	for i := 0; i < len(tokens); i++ {
		first, ok := tokens[i].(*mdast.BlockTextToken)
		if !ok {
			out = append(out, tokens[i])
			continue
		}

		text := first.Text
		for i+2 < len(tokens) && isSingleNewLine(tokens[i+1]) {
			next, ok := tokens[i+2].(*mdast.BlockTextToken)
			if !ok {
				break
			}
			text += "\n" + next.Text
			i += 2
		}
		out = append(out, wrapToken(first, text, tight))
	}
	return out
}

func hasBlockText(tokens []mdast.Token) bool {
	for _, t := range tokens {
		if t.Kind() == mdast.KindBlockText {
			return true
		}
	}
	return false
}

func isSingleNewLine(t mdast.Token) bool {
	nl, ok := t.(*mdast.NewLineToken)
	return ok && nl.Info().Source.Text == "\n"
}

func wrapToken(first *mdast.BlockTextToken, text string, tight bool) *mdast.TwoPhaseToken {
	info := first.Info()
	info.Source = info.Source.Copy(text, 0)
	if tight {
		info.Rule = RuleWrapNonParagraph
	} else {
		info.Rule = RuleWrapParagraph
	}

	return &mdast.TwoPhaseToken{
		TokenInfo: info,
		Extractor: func(p mdast.Parser, t *mdast.TwoPhaseToken) (mdast.Token, error) {
			inlines, err := p.TokenizeInline(t.Info().Source)
			if err != nil {
				return nil, err
			}
			if tight {
				return &mdast.NonParagraphToken{TokenInfo: t.Info(), Inlines: inlines}, nil
			}
			return &mdast.ParagraphToken{TokenInfo: t.Info(), Inlines: inlines}, nil
		},
	}
}

// wrapRewriter applies wrapRuns inside list items and blockquotes.
func wrapRewriter() rewrite.TokenRewriter {
	return rewrite.Sequence(
		rewrite.Func(func(_ *rewrite.Engine, t *mdast.ListItemToken) (mdast.Token, error) {
			tokens := wrapRuns(t.Tokens, !t.Loose)
			if mdast.SameTokens(tokens, t.Tokens) {
				return nil, nil
			}
			clone := *t
			clone.Tokens = tokens
			return &clone, nil
		}),
		rewrite.Func(func(_ *rewrite.Engine, t *mdast.BlockquoteToken) (mdast.Token, error) {
			tokens := wrapRuns(t.Tokens, false)
			if mdast.SameTokens(tokens, t.Tokens) {
				return nil, nil
			}
			clone := *t
			clone.Tokens = tokens
			return &clone, nil
		}),
	)
}

// extractRewriter resolves two-phase tokens, following extractors that
// return further two-phase tokens up to passes times.
func extractRewriter(passes int) rewrite.TokenRewriter {
	extract := rewrite.Func(func(e *rewrite.Engine, t *mdast.TwoPhaseToken) (mdast.Token, error) {
		return t.Extract(e.Parser())
	})
	return rewrite.Loop(extract, passes)
}

// unresolved returns the sources of the two-phase tokens left in tokens.
func unresolved(tokens []mdast.Token) []mdast.SourceInfo {
	var out []mdast.SourceInfo
	for _, t := range mdast.FindByKind(tokens, mdast.KindTwoPhase) {
		out = append(out, t.Info().Source)
	}
	return out
}

// headingIDs assigns every heading a document-unique id derived from its
// text. The id table lives in the rewrite engine's variable store.
type headingIDs struct {
	prefix string
}

func (h headingIDs) Initialize(e *rewrite.Engine) error {
	e.SetVariable(varHeadingIDs, idTable{})
	return nil
}

func (h headingIDs) Rewrite(e *rewrite.Engine, t mdast.Token) (mdast.Token, error) {
	heading, ok := t.(*mdast.HeadingToken)
	if !ok || heading.ID != "" {
		return nil, nil
	}
	v, _ := e.Variable(varHeadingIDs)
	ids, ok := v.(idTable)
	if !ok {
		ids = idTable{}
		e.SetVariable(varHeadingIDs, ids)
	}
	id := ids.unique(h.prefix + Slug(strings.TrimSpace(mdast.PlainText(heading.Inlines))))
	return heading.WithID(id), nil
}
