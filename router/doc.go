// Package router provides the routing table consumed by the freezer.
//
// # Architecture
//
// A Router maps named endpoints to URL patterns and handlers. It plays
// two roles during a freeze: it is the read-only routing table the
// freezer enumerates to find no-argument and static-file endpoints, and
// it is the application itself, because Router implements http.Handler
// and dispatches simulated requests to the registered handlers.
//
// Design decision: We implement our own small router rather than using a
// third-party mux because:
//  1. The freezer needs to enumerate routes and build URLs from
//     endpoint names, which most muxes do not expose
//  2. URL building must be observable so that links constructed while a
//     page renders can be captured for transitive discovery
//  3. Patterns stay tiny: literal segments, {name} placeholders, and a
//     trailing {name...} rest segment
//
// # URL patterns
//
// Patterns are slash-separated. A segment of the form {name} matches
// exactly one path segment; {name...} matches the rest of the path,
// including slashes, and must be the last segment. A trailing slash in
// the pattern is significant: "/products/" only matches and builds URLs
// with the trailing slash.
//
// # Observers
//
// Router.Observe registers a callback invoked on every successful URL
// build and returns a release function. Observers form a stack, so a
// caller can scope observation to a single simulated request and is
// guaranteed removal by deferring the release.
package router
