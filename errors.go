package virtualize

import (
	"errors"

	"github.com/cybergodev/virtualize/dom"
)

// Error definitions for the `cybergodev/virtualize` package.
var (
	// ErrInputTooLarge is returned when input exceeds MaxInputSize.
	ErrInputTooLarge = errors.New("virtualize: input size exceeds maximum")

	// ErrParse is returned when the markup parser fails outright.
	ErrParse = errors.New("virtualize: parse failed")

	// ErrMaxDepthExceeded is returned when nesting exceeds the configured depth.
	ErrMaxDepthExceeded = errors.New("virtualize: max depth exceeded")

	// ErrCreateHook wraps the error returned by a create hook.
	ErrCreateHook = errors.New("virtualize: create hook failed")

	// ErrInvalidSelector is returned when a CSS selector cannot be compiled.
	ErrInvalidSelector = dom.ErrInvalidSelector

	// ErrEncoding is returned when byte input cannot be decoded to UTF-8.
	ErrEncoding = errors.New("virtualize: cannot decode input")

	// ErrProcessorClosed is returned when operations are attempted on a closed processor.
	ErrProcessorClosed = errors.New("virtualize: processor closed")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("virtualize: invalid config")

	// ErrFileNotFound is returned when specified file cannot be read.
	ErrFileNotFound = errors.New("virtualize: file not found")

	// ErrInvalidFilePath is returned when file path validation fails.
	ErrInvalidFilePath = errors.New("virtualize: invalid file path")
)
