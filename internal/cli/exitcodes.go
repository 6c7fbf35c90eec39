package cli

import (
	"errors"

	"github.com/yaklabco/mdlite/pkg/runner"
)

// Exit codes for mdlite.
const (
	// ExitSuccess indicates every file was processed.
	ExitSuccess = 0

	// ExitFailures indicates some files failed, or `fmt --check` found
	// files that need formatting.
	ExitFailures = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors outside per-file processing.
	ExitIOError = 74
)

var (
	// ErrFilesFailed is returned when at least one file could not be
	// processed. The failures have already been reported.
	ErrFilesFailed = errors.New("some files failed")

	// ErrNeedsFormatting is returned by `fmt --check` when a file is not
	// already formatted.
	ErrNeedsFormatting = errors.New("some files need formatting")

	// ErrUsage marks invalid command-line usage.
	ErrUsage = errors.New("invalid usage")

	// ErrConfig marks configuration errors.
	ErrConfig = errors.New("invalid configuration")

	// ErrIO marks I/O errors outside per-file processing, such as
	// reading stdin or writing output.
	ErrIO = errors.New("i/o error")
)

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrFilesFailed), errors.Is(err, ErrNeedsFormatting):
		return ExitFailures
	case errors.Is(err, ErrUsage):
		return ExitInvalidUsage
	case errors.Is(err, ErrConfig):
		return ExitConfigError
	case errors.Is(err, ErrIO):
		return ExitIOError
	default:
		return ExitInternalError
	}
}

// IsReported reports whether err only signals an outcome that has already
// been printed, so it needs no further logging.
func IsReported(err error) bool {
	return errors.Is(err, ErrFilesFailed) || errors.Is(err, ErrNeedsFormatting)
}

// resultError returns the error signalling result's outcome. check makes
// unformatted files an error.
func resultError(result *runner.Result, check bool) error {
	switch {
	case result.HasFailures():
		return ErrFilesFailed
	case check && result.HasChanges():
		return ErrNeedsFormatting
	default:
		return nil
	}
}
