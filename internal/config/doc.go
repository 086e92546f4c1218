// Package config holds the webfreeze CLI configuration: sensible
// defaults, validation, and the optional .webfreeze YAML file.
//
// The configuration is populated from CLI flags and the config file and
// passed through the application via dependency injection rather than
// global state. Library consumers of the freezer configure it with
// functional options instead; this package only concerns the command
// line tool.
package config
