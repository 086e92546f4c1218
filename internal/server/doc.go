// Package server implements the preview server for a frozen site.
//
// It serves the destination directory with the same URL-to-path mapping
// the freezer writes with, so what the preview shows is what a static
// host will serve. It exists to check a build locally before deploying;
// it has no access controls and should stay bound to loopback.
package server
