// Package log provides the logging setup for the webfreeze CLI, built
// on top of the standard slog package.
//
// This package extends slog to provide:
//   - Readable path output: absolute paths under a base directory are
//     rewritten relative to it before records reach the terminal
//   - Configurable log levels with verbose mode support
//   - Consistent log formatting across the application
//
// A freeze touches hundreds of files under one destination directory;
// without rewriting, every log line repeats the same long absolute
// prefix and the interesting part scrolls off screen.
package log
