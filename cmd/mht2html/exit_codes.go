package main

import (
	"errors"
	"os"

	mht2html "github.com/5ime/mht2html"
	"github.com/5ime/mht2html/internal/config"
)

// Exit codes for the mht2html CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
// A run that completes with only non-fatal warnings still exits 0.
const (
	ExitSuccess = 0 // Successful conversion (warnings allowed)
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitArchive = 4 // Malformed archive or unparseable document
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Archive/document errors (exit 4)
	if errors.Is(err, mht2html.ErrMalformedArchive) ||
		errors.Is(err, mht2html.ErrNoHTMLPart) ||
		errors.Is(err, mht2html.ErrMalformedDocument) {
		return ExitArchive
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadArchive) ||
		errors.Is(err, ErrWriteHTML) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, mht2html.ErrEmptyArchive) ||
		errors.Is(err, mht2html.ErrInvalidResourceDir) ||
		errors.Is(err, ErrInvalidArgs) ||
		errors.Is(err, ErrInvalidWorkerCount) {
		return ExitUsage
	}

	return ExitGeneral
}
