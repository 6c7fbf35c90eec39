package configloader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"

	"github.com/yaklabco/mdlite/pkg/config"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "markdown.max_extract_count").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string
	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)

	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues.
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	if cfg.Format != "" && !cfg.Format.IsValid() {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "format",
			Value:   cfg.Format,
			Message: fmt.Sprintf("invalid format %q; must be one of: html, json, markdown", cfg.Format),
		})
	}

	if cfg.Report != "" && !cfg.Report.IsValid() {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "report",
			Value:   cfg.Report,
			Message: fmt.Sprintf("invalid report format %q; must be one of: text, table, json", cfg.Report),
		})
	}

	if cfg.Jobs < 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "jobs",
			Value:   cfg.Jobs,
			Message: "jobs must be >= 0 (0 means auto)",
		})
	}

	validateOptions(cfg.Markdown, result)
	validateIgnorePatterns(cfg, result)

	for i, ext := range cfg.Extensions {
		if !strings.HasPrefix(ext, ".") {
			result.Warnings = append(result.Warnings, ValidationError{
				Field:   fmt.Sprintf("extensions[%d]", i),
				Value:   ext,
				Message: fmt.Sprintf("extension %q does not start with a dot and will never match", ext),
			})
		}
	}

	return result
}

func validateOptions(opts config.Options, result *ValidationResult) {
	if opts.MaxExtractCount < 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "markdown.max_extract_count",
			Value:   opts.MaxExtractCount,
			Message: "max_extract_count must be >= 0",
		})
	}

	if opts.Tables && !opts.Gfm {
		result.Warnings = append(result.Warnings, ValidationError{
			Field:   "markdown.tables",
			Value:   true,
			Message: "tables has no effect unless gfm is enabled",
		})
	}

	if len(opts.SanitizeAllowTags) > 0 && !opts.Sanitize {
		result.Warnings = append(result.Warnings, ValidationError{
			Field:   "markdown.sanitize_allow_tags",
			Value:   opts.SanitizeAllowTags,
			Message: "sanitize_allow_tags has no effect unless sanitize is enabled",
		})
	}
}

// validateIgnorePatterns checks that ignore patterns compile with the
// matcher file discovery uses.
func validateIgnorePatterns(cfg *config.Config, result *ValidationResult) {
	for i, pattern := range cfg.Ignore {
		if _, err := glob.Compile(filepath.ToSlash(pattern), '/'); err != nil {
			result.Errors = append(result.Errors, ValidationError{
				Field:   fmt.Sprintf("ignore[%d]", i),
				Value:   pattern,
				Message: fmt.Sprintf("invalid glob pattern: %v", err),
			})
		}
	}
}

// ValidateWithFile validates configuration and includes file path in errors.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)

	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}

	return result
}
