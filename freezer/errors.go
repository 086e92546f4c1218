package freezer

import (
	"errors"
	"fmt"
)

// ErrFreezeInProgress is returned by Freeze when the Freezer is already
// running. A Freezer runs one freeze at a time; the destination
// directory is exclusively owned by that run.
var ErrFreezeInProgress = errors.New("freeze already in progress")

// ConfigurationError reports malformed generator output or missing
// application wiring. It is fatal and aborts the freeze.
type ConfigurationError struct {
	// Generator is the name of the offending URL generator, if the
	// problem came from one.
	Generator string

	// Reason describes what was wrong.
	Reason string

	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	msg := "configuration error"
	if e.Generator != "" {
		msg += fmt.Sprintf(" in generator %q", e.Generator)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *ConfigurationError) Unwrap() error { return e.Err }

// PathSecurityError reports a URL whose mapped file path would escape
// the destination directory. This is a hard invariant: the freeze
// aborts rather than writing outside its own tree.
type PathSecurityError struct {
	// URL is the resolved URL that produced the bad path.
	URL string

	// Path is the offending relative path.
	Path string
}

// Error implements the error interface.
func (e *PathSecurityError) Error() string {
	return fmt.Sprintf("URL %q maps to path %q outside the destination directory", e.URL, e.Path)
}

// RedirectError reports a redirect that could not be handled: a
// cross-host Location target, a redirect loop, or any redirect at all
// under RedirectError policy.
type RedirectError struct {
	// URL is the URL whose response redirected.
	URL string

	// Location is the redirect target, if known.
	Location string

	// Reason describes why the redirect is fatal.
	Reason string
}

// Error implements the error interface.
func (e *RedirectError) Error() string {
	msg := fmt.Sprintf("redirect on URL %q", e.URL)
	if e.Location != "" {
		msg += fmt.Sprintf(" to %q", e.Location)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// NotFoundError reports a simulated response with status 404. Fatal by
// default; WithIgnore404 demotes it to a warning and writes the 404
// body as the page content.
type NotFoundError struct {
	// URL is the URL that was not found.
	URL string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("URL %q returned 404 Not Found", e.URL)
}

// UnexpectedStatusError reports a simulated response whose status code
// is neither success, a redirect, nor a 404.
type UnexpectedStatusError struct {
	// URL is the simulated URL.
	URL string

	// Status is the HTTP status code returned by the application.
	Status int
}

// Error implements the error interface.
func (e *UnexpectedStatusError) Error() string {
	return fmt.Sprintf("unexpected status %d on URL %q", e.Status, e.URL)
}
