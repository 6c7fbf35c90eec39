package parser

import (
	"errors"
	"fmt"
)

// Sentinel errors for tokenization failures. Use errors.Is to test for them.
var (
	// ErrNoRuleMatched means no rule of the active context matched the
	// remaining input, so the tokenizer could not make progress.
	ErrNoRuleMatched = errors.New("no rule matched")

	// ErrEmptyMatch means a rule reported a match without consuming input.
	ErrEmptyMatch = errors.New("rule matched without consuming input")

	// ErrRuleNotFound is returned by RuleSet edits naming an unknown rule.
	ErrRuleNotFound = errors.New("rule not found")

	// ErrDuplicateRule is returned when a RuleSet already holds a rule
	// with the same name.
	ErrDuplicateRule = errors.New("duplicate rule")
)

// ExcerptLength is the number of characters of remaining input quoted in a
// ParseError.
const ExcerptLength = 256

// ParseError is a fatal tokenization failure located in the original
// document.
type ParseError struct {
	Message string
	File    string
	Line    int
	// Excerpt is the start of the input that could not be tokenized.
	Excerpt string
	Err     error
}

func (e *ParseError) Error() string {
	loc := fmt.Sprintf("line %d", e.Line)
	if e.File != "" {
		loc = fmt.Sprintf("%s:%d", e.File, e.Line)
	}
	return fmt.Sprintf("%s: %s, markdown: %q", loc, e.Message, e.Excerpt)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func newParseError(c *Cursor, err error, msg string) *ParseError {
	rest := c.Remaining()
	if len(rest) > ExcerptLength {
		rest = rest[:ExcerptLength]
	}
	return &ParseError{
		Message: msg,
		File:    c.File(),
		Line:    c.Line(),
		Excerpt: string(rest),
		Err:     err,
	}
}
