package router

import "errors"

// Routing errors returned when registering routes or building URLs.
// These are sentinel errors so callers can use errors.Is; dynamic
// details (endpoint names, parameter names) are wrapped around them
// with fmt.Errorf at the call site.
var (
	// ErrUnknownEndpoint is returned by URL when no route is registered
	// under the requested endpoint name.
	ErrUnknownEndpoint = errors.New("unknown endpoint")

	// ErrDuplicateEndpoint is returned when a second route is registered
	// under an endpoint name that is already taken.
	ErrDuplicateEndpoint = errors.New("duplicate endpoint")

	// ErrMissingParam is returned by URL when the pattern contains a
	// placeholder for which no value was supplied.
	ErrMissingParam = errors.New("missing URL parameter")

	// ErrBadPattern is returned when a URL pattern cannot be parsed,
	// for example a {name...} rest segment that is not last.
	ErrBadPattern = errors.New("invalid URL pattern")
)
