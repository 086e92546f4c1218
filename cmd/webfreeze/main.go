// Package main provides the entry point for the webfreeze CLI.
//
// webfreeze works with sites frozen by the freezer library: it previews
// a frozen build directory locally, scaffolds a configuration file, and
// compares recorded freeze runs against each other.
//
// Usage:
//
//	webfreeze serve
//	webfreeze compare
//	webfreeze init
//
// See --help for all available options.
package main

// main is the entry point for webfreeze.
func main() {
	Execute()
}
