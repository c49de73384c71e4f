package main

import (
	"errors"
	"os"

	mdcite "github.com/kweiss/go-mdcite"
	"github.com/kweiss/go-mdcite/internal/config"
)

// Exit codes for mdcite CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful extraction
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, mdcite.ErrBrowserConnect) ||
		errors.Is(err, mdcite.ErrPageCreate) ||
		errors.Is(err, mdcite.ErrPageLoad) ||
		errors.Is(err, mdcite.ErrScreenshot) ||
		errors.Is(err, mdcite.ErrNoBoundingBox) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrOutOfRange) ||
		errors.Is(err, mdcite.ErrEmptyDocument) ||
		errors.Is(err, mdcite.ErrEmptyPassage) ||
		errors.Is(err, mdcite.ErrPassageNotFound) ||
		errors.Is(err, mdcite.ErrValidation) ||
		errors.Is(err, mdcite.ErrInvalidViewport) {
		return ExitUsage
	}

	return ExitGeneral
}
