package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yaklabco/mdlite/pkg/mdast"
)

// Sentinel errors. Use errors.Is to test for them.
var (
	// ErrExtractLimit means two-phase tokens were still unresolved after
	// MaxExtractCount+1 extraction passes.
	ErrExtractLimit = errors.New("two-phase extraction did not settle")

	// ErrValidation means a validator rejected the token tree.
	ErrValidation = errors.New("token tree validation failed")
)

// Stage names a step of the engine pipeline.
type Stage string

// Pipeline stages, in execution order.
const (
	StageNormalize Stage = "normalize"
	StageTokenize  Stage = "tokenize"
	StageWrap      Stage = "wrap"
	StageExtract   Stage = "extract"
	StageHeadingID Stage = "heading-id"
	StageRewrite   Stage = "rewrite"
	StageValidate  Stage = "validate"
	StageRender    Stage = "render"
)

// StageError reports the pipeline stage and file an error came from.
type StageError struct {
	Stage Stage
	File  string
	Err   error
}

func (e *StageError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("%s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Stage, e.File, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// ExtractError lists the two-phase tokens left after the extraction
// passes ran out.
type ExtractError struct {
	Passes    int
	Remaining []mdast.SourceInfo
}

func (e *ExtractError) Error() string {
	locs := make([]string, len(e.Remaining))
	for i, src := range e.Remaining {
		locs[i] = src.Location()
	}
	return fmt.Sprintf("%d two-phase token(s) unresolved after %d passes at %s",
		len(e.Remaining), e.Passes, strings.Join(locs, ", "))
}

func (e *ExtractError) Unwrap() error {
	return ErrExtractLimit
}

// Violation is one problem a validator found.
type Violation struct {
	Validator string
	Message   string
	Source    mdast.SourceInfo
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s (%s)", v.Source.Location(), v.Message, v.Validator)
}

// ValidationError collects every violation of one document.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 1 {
		return e.Violations[0].String()
	}
	lines := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		lines[i] = v.String()
	}
	return fmt.Sprintf("%d violations:\n  %s", len(e.Violations), strings.Join(lines, "\n  "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
