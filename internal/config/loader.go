package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".webfreeze"

// ErrConfigNotFound is returned when the configuration file does not
// exist. Callers decide how to react based on whether the path was
// explicitly specified by the user.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the .webfreeze configuration file.
// Every field is optional; set fields override the built-in defaults
// but lose against explicit CLI flags.
type File struct {
	// Destination is the frozen site directory.
	Destination string `yaml:"destination,omitempty"`

	// BaseURL is the base URL of the deployed site.
	BaseURL string `yaml:"baseURL,omitempty"`

	// DefaultMimeType is served for files with unknown extensions.
	DefaultMimeType string `yaml:"defaultMimeType,omitempty"`

	// Serve configures the preview server.
	Serve ServeConfig `yaml:"serve,omitempty"`
}

// ServeConfig is the preview server section of the config file.
type ServeConfig struct {
	// Address is the bind address, e.g. "localhost:8000".
	Address string `yaml:"address,omitempty"`
}

// ApplyTo copies the file's set fields onto a Config. Empty fields
// leave the Config untouched, so defaults and flag values survive.
func (cf *File) ApplyTo(c *Config) {
	if cf.Destination != "" {
		c.Destination = cf.Destination
	}
	if cf.BaseURL != "" {
		c.BaseURL = cf.BaseURL
	}
	if cf.DefaultMimeType != "" {
		c.DefaultMimeType = cf.DefaultMimeType
	}
	if cf.Serve.Address != "" {
		c.ListenAddress = cf.Serve.Address
	}
}

// LoadConfigFile loads the configuration from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}
	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following
// order:
//  1. If configPath is specified, use it directly
//  2. Look for .webfreeze in the current directory
//  3. Look for .webfreeze in the user's home directory
//
// Returns the path to the configuration file if found, or an empty
// string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}
