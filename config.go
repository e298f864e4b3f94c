// Package htmxlsp holds the configuration shared by the htmx language server
// and its command line tool.
package htmxlsp

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/cristianoliveira/htmx-lsp/analysis"
)

// ErrConfigNotFound is returned when no config file exists in a directory or
// any of its parents.
var ErrConfigNotFound = errors.New("config file not found")

// Config represents the .htmx-lsp.yaml configuration file.
type Config struct {
	// Attributes carrying this prefix are eligible for value completion.
	AttributePrefix string `yaml:"attribute_prefix,omitempty"`

	// Catalog replaces the built-in attribute catalog. Relative paths are
	// resolved against the directory of the config file.
	Catalog string `yaml:"catalog,omitempty"`

	Log LogConfig `yaml:"log,omitempty"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is a zap level name (debug, info, warn, error).
	Level string `yaml:"level,omitempty"`

	// File receives log output instead of stderr.
	File string `yaml:"file,omitempty"`
}

// DefaultConfigNames are the filenames we search for.
var DefaultConfigNames = []string{".htmx-lsp.yaml", ".htmx-lsp.yml", "htmx-lsp.yaml", "htmx-lsp.yml"}

// DefaultConfig returns the settings used when no config file is found.
func DefaultConfig() *Config {
	return &Config{
		AttributePrefix: analysis.DefaultAttributePrefix,
		Log:             LogConfig{Level: "info"},
	}
}

// LoadConfig finds and loads the nearest config file walking up from dir.
func LoadConfig(dir string) (*Config, error) {
	path, err := FindConfig(dir)
	if err != nil {
		return nil, err
	}

	return LoadConfigFile(path)
}

// FindConfig searches for a config file starting from dir and walking up.
func FindConfig(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	for dir := absDir; ; {
		for _, name := range DefaultConfigNames {
			path := filepath.Join(dir, name)

			_, err := os.Stat(path)
			if err == nil {
				return path, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrConfigNotFound
		}

		dir = parent
	}
}

// LoadConfigFile loads a config from a specific path. Fields the file leaves
// out keep their DefaultConfig values.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()

	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.Catalog != "" && !filepath.IsAbs(cfg.Catalog) {
		cfg.Catalog = filepath.Join(filepath.Dir(path), cfg.Catalog)
	}

	return cfg, nil
}

// Options returns the classifier options the config describes.
func (c *Config) Options() analysis.Options {
	return analysis.Options{AttributePrefix: c.AttributePrefix}
}
