package engine

import (
	"fmt"

	"github.com/yaklabco/mdlite/pkg/mdast"
)

// Validator inspects a finished token tree and reports violations.
type Validator interface {
	Name() string
	Validate(tokens []mdast.Token) []Violation
}

// ValidatorFunc adapts a function to a Validator.
type ValidatorFunc struct {
	ValidatorName string
	Fn            func(tokens []mdast.Token) []Violation
}

// Name implements Validator.
func (v ValidatorFunc) Name() string { return v.ValidatorName }

// Validate implements Validator.
func (v ValidatorFunc) Validate(tokens []mdast.Token) []Violation { return v.Fn(tokens) }

// NoNestedLinks rejects links inside the text of another link.
func NoNestedLinks() Validator {
	const name = "no-nested-links"
	return ValidatorFunc{
		ValidatorName: name,
		Fn: func(tokens []mdast.Token) []Violation {
			var out []Violation
			_ = mdast.WalkWithParents(tokens, func(t mdast.Token, parents []mdast.Token) error {
				if t.Kind() != mdast.KindLink {
					return nil
				}
				for _, p := range parents {
					if p.Kind() == mdast.KindLink {
						out = append(out, Violation{
							Validator: name,
							Message:   "link nested inside another link",
							Source:    t.Info().Source,
						})
						break
					}
				}
				return nil
			})
			return out
		},
	}
}

// HeadingDepth rejects headings deeper than maxDepth.
func HeadingDepth(maxDepth int) Validator {
	const name = "heading-depth"
	return ValidatorFunc{
		ValidatorName: name,
		Fn: func(tokens []mdast.Token) []Violation {
			var out []Violation
			for _, t := range mdast.FindByKind(tokens, mdast.KindHeading) {
				h, ok := t.(*mdast.HeadingToken)
				if !ok || h.Depth <= maxDepth {
					continue
				}
				out = append(out, Violation{
					Validator: name,
					Message:   fmt.Sprintf("heading depth %d exceeds %d", h.Depth, maxDepth),
					Source:    t.Info().Source,
				})
			}
			return out
		},
	}
}

// NoTwoPhase rejects unresolved two-phase tokens, for trees produced
// outside Engine.Parse.
func NoTwoPhase() Validator {
	const name = "no-two-phase"
	return ValidatorFunc{
		ValidatorName: name,
		Fn: func(tokens []mdast.Token) []Violation {
			var out []Violation
			for _, src := range unresolved(tokens) {
				out = append(out, Violation{
					Validator: name,
					Message:   "unresolved two-phase token",
					Source:    src,
				})
			}
			return out
		},
	}
}

// Validate runs validators over tokens and returns a *ValidationError
// holding every violation, or nil.
func Validate(tokens []mdast.Token, validators ...Validator) error {
	var violations []Violation
	for _, v := range validators {
		violations = append(violations, v.Validate(tokens)...)
	}
	if len(violations) == 0 {
		return nil
	}
	return &ValidationError{Violations: violations}
}
