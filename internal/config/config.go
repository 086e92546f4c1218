package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// Default configuration values. These match what the freezer library
// assumes, so a CLI pointed at a project with no config file inspects
// the same directory a plain library freeze writes to.
const (
	// DefaultDestination is the directory a frozen site is written to
	// and the directory the preview server and compare command inspect.
	DefaultDestination = "build"

	// DefaultListenAddress is where the preview server binds. Loopback
	// only: the preview server has no access controls and exists to
	// check a build locally before deploying it.
	DefaultListenAddress = "localhost:8000"

	// DefaultMimeType is assumed for files whose extension is unknown,
	// the same fallback most web servers use.
	DefaultMimeType = "application/octet-stream"

	// DefaultHistoryLimit caps how many past freeze runs the compare
	// command lists. Comparison itself always uses the latest two runs.
	DefaultHistoryLimit = 20

	// AppName is the application name used for XDG directory paths.
	AppName = "webfreeze"
)

// Config holds all configuration options for the webfreeze CLI.
// This struct is designed to be populated from CLI flags and the
// optional config file, then passed through the application via
// dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested
// structs (e.g., ServeConfig, CompareConfig) for simplicity. The number
// of options is manageable, and nesting would add complexity without
// significant benefit.
type Config struct {
	// Destination is the frozen site directory. The preview server
	// serves it and the compare command tracks its history.
	Destination string

	// BaseURL is the base URL of the deployed site, e.g.
	// "https://example.com/subdir". The preview server redirects its
	// path prefix away so frozen absolute links keep working locally.
	BaseURL string

	// DefaultMimeType is served for files whose extension is unknown.
	DefaultMimeType string

	// ListenAddress is the preview server's bind address.
	ListenAddress string

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only info and above are logged.
	Verbose bool

	// ConfigFilePath is the path to the configuration file. If empty,
	// the tool searches for .webfreeze in the current directory and
	// then in the user's home directory.
	ConfigFilePath string

	// DBDir is the directory holding the freeze-history SQLite
	// database. Defaults to the XDG data directory
	// (~/.local/share/webfreeze on Linux).
	DBDir string

	// JSONReport switches the compare command to JSON output.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport switches the compare command to GitHub Flavored
	// Markdown output. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the compare report. When
	// set, the report is written there instead of stdout. Parent
	// directories are created automatically.
	ReportFile string

	// HistoryLimit caps how many past runs the compare command lists.
	HistoryLimit int
}

// NewConfig creates a new Config with default values.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (e.g., the listen
// address). This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		Destination:     DefaultDestination,
		DefaultMimeType: DefaultMimeType,
		ListenAddress:   DefaultListenAddress,
		DBDir:           XDGDataDir(),
		HistoryLimit:    DefaultHistoryLimit,
	}
}

// XDGDataDir returns the XDG data directory for webfreeze.
// On Linux: ~/.local/share/webfreeze
// On macOS: ~/Library/Application Support/webfreeze
// On Windows: %LOCALAPPDATA%\webfreeze
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// DatabasePath returns the freeze-history database file inside DBDir.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DBDir, "history.db")
}

// Validate checks if the configuration is valid, returning a specific
// error describing what is invalid. It is called once after CLI
// parsing, before any command runs, so problems fail fast with a clear
// message. The first error found wins: fixing one error often makes
// others irrelevant.
func (c *Config) Validate() error {
	if c.Destination == "" {
		return ErrNoDestination
	}
	if c.ListenAddress == "" {
		return ErrNoListenAddress
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	if c.HistoryLimit <= 0 {
		return ErrInvalidHistoryLimit
	}
	return nil
}
