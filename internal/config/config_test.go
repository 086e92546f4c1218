package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// TestNewConfig verifies that NewConfig returns a Config with all
// expected default values. This serves as living documentation of the
// defaults: changes to them must be intentional.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default Destination is build", func(t *testing.T) {
		t.Parallel()
		if cfg.Destination != "build" {
			t.Errorf("expected Destination to be 'build', got '%s'", cfg.Destination)
		}
	})

	t.Run("default ListenAddress is localhost:8000", func(t *testing.T) {
		t.Parallel()
		if cfg.ListenAddress != "localhost:8000" {
			t.Errorf("expected ListenAddress to be 'localhost:8000', got '%s'", cfg.ListenAddress)
		}
	})

	t.Run("default mime type is application/octet-stream", func(t *testing.T) {
		t.Parallel()
		if cfg.DefaultMimeType != "application/octet-stream" {
			t.Errorf("expected DefaultMimeType to be 'application/octet-stream', got '%s'", cfg.DefaultMimeType)
		}
	})

	t.Run("default HistoryLimit is 20", func(t *testing.T) {
		t.Parallel()
		if cfg.HistoryLimit != 20 {
			t.Errorf("expected HistoryLimit to be 20, got %d", cfg.HistoryLimit)
		}
	})

	t.Run("default DBDir is the XDG data directory", func(t *testing.T) {
		t.Parallel()
		if cfg.DBDir != XDGDataDir() {
			t.Errorf("expected DBDir to be %q, got %q", XDGDataDir(), cfg.DBDir)
		}
	})

	t.Run("DatabasePath is inside DBDir", func(t *testing.T) {
		t.Parallel()
		want := filepath.Join(cfg.DBDir, "history.db")
		if got := cfg.DatabasePath(); got != want {
			t.Errorf("DatabasePath() = %q, want %q", got, want)
		}
	})
}

// TestConfigValidate tests the Validate method with various
// configurations. Each test case covers one validation rule.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	t.Run("valid config returns nil", func(t *testing.T) {
		t.Parallel()
		if err := NewConfig().Validate(); err != nil {
			t.Errorf("expected nil, got %v", err)
		}
	})

	t.Run("empty destination is rejected", func(t *testing.T) {
		t.Parallel()
		cfg := NewConfig()
		cfg.Destination = ""
		if err := cfg.Validate(); !errors.Is(err, ErrNoDestination) {
			t.Errorf("expected ErrNoDestination, got %v", err)
		}
	})

	t.Run("empty listen address is rejected", func(t *testing.T) {
		t.Parallel()
		cfg := NewConfig()
		cfg.ListenAddress = ""
		if err := cfg.Validate(); !errors.Is(err, ErrNoListenAddress) {
			t.Errorf("expected ErrNoListenAddress, got %v", err)
		}
	})

	t.Run("conflicting report formats are rejected", func(t *testing.T) {
		t.Parallel()
		cfg := NewConfig()
		cfg.JSONReport = true
		cfg.MarkdownReport = true
		if err := cfg.Validate(); !errors.Is(err, ErrConflictingReportFormats) {
			t.Errorf("expected ErrConflictingReportFormats, got %v", err)
		}
	})

	t.Run("non-positive history limit is rejected", func(t *testing.T) {
		t.Parallel()
		cfg := NewConfig()
		cfg.HistoryLimit = 0
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidHistoryLimit) {
			t.Errorf("expected ErrInvalidHistoryLimit, got %v", err)
		}
	})
}

// TestLoadConfigFile tests YAML parsing and the not-found sentinel.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("parses a full config file", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		content := `
destination: public
baseURL: https://example.com/subdir
defaultMimeType: text/plain
serve:
  address: 127.0.0.1:9999
`
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("write config: %v", err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("LoadConfigFile returned error: %v", err)
		}

		cfg := NewConfig()
		cf.ApplyTo(cfg)
		if cfg.Destination != "public" {
			t.Errorf("Destination = %q, want public", cfg.Destination)
		}
		if cfg.BaseURL != "https://example.com/subdir" {
			t.Errorf("BaseURL = %q", cfg.BaseURL)
		}
		if cfg.DefaultMimeType != "text/plain" {
			t.Errorf("DefaultMimeType = %q", cfg.DefaultMimeType)
		}
		if cfg.ListenAddress != "127.0.0.1:9999" {
			t.Errorf("ListenAddress = %q", cfg.ListenAddress)
		}
	})

	t.Run("empty file leaves defaults alone", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte(""), 0600); err != nil {
			t.Fatalf("write config: %v", err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("LoadConfigFile returned error: %v", err)
		}
		cfg := NewConfig()
		cf.ApplyTo(cfg)
		if cfg.Destination != DefaultDestination {
			t.Errorf("Destination = %q, want the default", cfg.Destination)
		}
	})

	t.Run("missing file returns ErrConfigNotFound", func(t *testing.T) {
		t.Parallel()
		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("malformed YAML is an error", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte("destination: [unclosed"), 0600); err != nil {
			t.Fatalf("write config: %v", err)
		}
		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected a parse error")
		}
	})
}

// TestFindConfigFile tests the search order for the config file.
func TestFindConfigFile(t *testing.T) {
	t.Run("explicit existing path wins", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(path, []byte(""), 0600); err != nil {
			t.Fatalf("write config: %v", err)
		}
		if got := FindConfigFile(path); got != path {
			t.Errorf("FindConfigFile = %q, want %q", got, path)
		}
	})

	t.Run("explicit missing path finds nothing", func(t *testing.T) {
		if got := FindConfigFile(filepath.Join(t.TempDir(), "nope")); got != "" {
			t.Errorf("FindConfigFile = %q, want empty", got)
		}
	})

	t.Run("current directory is searched", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, DefaultConfigFile)
		if err := os.WriteFile(path, []byte(""), 0600); err != nil {
			t.Fatalf("write config: %v", err)
		}
		t.Chdir(dir)
		if got := FindConfigFile(""); got != path {
			t.Errorf("FindConfigFile = %q, want %q", got, path)
		}
	})
}
