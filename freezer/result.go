package freezer

import (
	"context"
	"time"
)

// WarningKind classifies the non-fatal diagnostics a freeze collects.
type WarningKind string

// Warning kinds, reported on Result.Warnings after the crawl finishes.
const (
	// WarnMissingURLGenerator marks an endpoint that exists in the
	// routing table but was never targeted by any seed. It usually
	// means a URL generator is missing for a parameterized route.
	WarnMissingURLGenerator WarningKind = "missing-url-generator"

	// WarnMimeTypeMismatch marks a response whose Content-Type does
	// not match the type implied by the output filename's extension.
	WarnMimeTypeMismatch WarningKind = "mimetype-mismatch"

	// WarnNotFound marks a 404 that was demoted from a fatal error by
	// WithIgnore404. The 404 body was written as the page content.
	WarnNotFound WarningKind = "not-found"

	// WarnRedirectIgnored marks a redirect skipped under RedirectIgnore
	// policy. Nothing was written for the URL.
	WarnRedirectIgnored WarningKind = "redirect-ignored"

	// WarnBrokenLink marks an internal link found in a written HTML
	// file that resolves to no frozen file. Only produced when the
	// link audit is enabled.
	WarnBrokenLink WarningKind = "broken-link"
)

// Warning is a non-fatal diagnostic collected during a freeze.
// Warnings never abort the crawl; they are accumulated and surfaced on
// the Result so one problematic page cannot hide later diagnostics.
type Warning struct {
	// Kind classifies the warning.
	Kind WarningKind `json:"kind"`

	// URL is the URL the warning concerns, when there is one.
	URL string `json:"url,omitempty"`

	// Message is the human-readable description.
	Message string `json:"message"`
}

// Error implements the error interface so warnings can be logged
// uniformly, but warnings are never returned as errors.
func (w Warning) Error() string { return w.Message }

// Page describes one frozen URL.
type Page struct {
	// URL is the resolved URL, the percent-decoded path component the
	// crawl deduplicates on.
	URL string `json:"url"`

	// Path is the file path relative to the destination directory.
	Path string `json:"path"`

	// Status is the HTTP status code of the simulated response.
	// Zero when the build was skipped before simulating.
	Status int `json:"status,omitempty"`

	// Hash is the SHA-256 hex digest of the written body. Empty when
	// the build was skipped by the skip-existing policy.
	Hash string `json:"hash,omitempty"`

	// Size is the body size in bytes.
	Size int64 `json:"size,omitempty"`

	// Skipped reports that the existing file was kept without
	// simulating a request (skip-existing policy or freshness hint).
	Skipped bool `json:"skipped,omitempty"`
}

// Result is the outcome of one freeze run.
type Result struct {
	// Destination is the absolute destination directory.
	Destination string `json:"destination"`

	// StartedAt and FinishedAt bound the run.
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	// URLs is the complete set of resolved URLs visited this run, in
	// crawl order. A preview server or further tooling can consume it.
	URLs []string `json:"urls"`

	// Pages holds one entry per visited URL, same order as URLs.
	Pages []Page `json:"pages"`

	// Warnings are the non-fatal diagnostics collected during the run.
	Warnings []Warning `json:"warnings,omitempty"`

	// Removed lists destination-relative paths deleted because no URL
	// produced them this run. Empty when remove-extra-files is off.
	Removed []string `json:"removed,omitempty"`
}

// Recorder persists freeze results, for example into the run-history
// database consumed by the compare command. A nil Recorder on the
// Freezer disables recording.
type Recorder interface {
	// Record stores the result of a completed freeze.
	Record(ctx context.Context, result *Result) error
}
