package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to
// use errors.Is() for programmatic error handling while still providing
// human-readable messages. Using errors.New() here rather than
// fmt.Errorf() because we don't need dynamic values in these messages.
var (
	// ErrNoDestination is returned when the destination directory is
	// empty. Every command operates on a destination.
	ErrNoDestination = errors.New("no destination directory specified")

	// ErrNoListenAddress is returned when the preview server has no
	// address to bind to.
	ErrNoListenAddress = errors.New("no listen address specified")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are specified. Only one output format can be used at
	// a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidHistoryLimit is returned when the history limit is not
	// positive. A limit of zero would make the compare command list
	// nothing.
	ErrInvalidHistoryLimit = errors.New("invalid history limit: must be positive")
)
