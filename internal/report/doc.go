// Package report renders freeze-history output: run listings and
// run-to-run diffs.
//
// Three formats are supported: human-readable text for the terminal,
// JSON for tool integration, and GitHub Flavored Markdown for sharing a
// deploy review. A MultiWriter fans one report out to several
// destinations, typically the terminal plus a file.
package report
