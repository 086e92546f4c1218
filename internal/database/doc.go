// Package database provides SQLite-based storage for freeze run
// history.
//
// Every completed freeze can be recorded as a run with its page
// inventory (URL, output path, content hash). The compare command diffs
// two runs to show what a rebuild actually changed, which is the
// fastest way to review a content or template change before deploying.
//
// The package uses modernc.org/sqlite, a pure-Go driver, so the CLI
// builds without cgo.
package database
