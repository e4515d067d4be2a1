package config

import "errors"

// Configuration validation errors returned by Config.Validate().
// Sentinel errors let callers use errors.Is while still getting a
// human-readable message.
var (
	// ErrInvalidWorkers is returned when the worker count is not positive.
	ErrInvalidWorkers = errors.New("invalid workers: must be positive")

	// ErrInvalidExiftoolTimeout is returned when the exiftool timeout is
	// not positive. A zero timeout would kill every invocation immediately.
	ErrInvalidExiftoolTimeout = errors.New("invalid exiftool timeout: must be positive")

	// ErrInvalidSampleSize is returned when the verification sample size
	// is negative. Use 0 to disable sample verification.
	ErrInvalidSampleSize = errors.New("invalid sample size: must be non-negative")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are specified.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrEmptyOutputDir is returned when the output directory is empty.
	ErrEmptyOutputDir = errors.New("output directory must not be empty")
)
