// Package config loads converter defaults from YAML files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/5ime/mht2html/internal/fileutil"
	"github.com/5ime/mht2html/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
)

// Field length limits. The selector and placeholder end up inside the
// generated document, so cap them defensively.
const (
	MaxResourceDirLength = 255
	MaxPlaceholderLength = 200
	MaxSelectorLength    = 500
	MaxWorkers           = 64
)

// Config holds converter defaults. Flags override any field.
type Config struct {
	ResourceDir    string `yaml:"resourceDir"`    // resource directory name (empty = converter default)
	Workers        int    `yaml:"workers"`        // extraction workers (0 = auto)
	Placeholder    string `yaml:"placeholder"`    // blank-record placeholder text
	RecordSelector string `yaml:"recordSelector"` // CSS selector for one transcript record
}

// Default returns a configuration with every field unset, meaning the
// converter's own defaults apply.
func Default() *Config {
	return &Config{}
}

// Validate checks field lengths and ranges.
// Called automatically by Load, but available for consumers who construct
// Config manually.
func (c *Config) Validate() error {
	if err := validateFieldLength("resourceDir", c.ResourceDir, MaxResourceDirLength); err != nil {
		return err
	}
	if err := validateFieldLength("placeholder", c.Placeholder, MaxPlaceholderLength); err != nil {
		return err
	}
	if err := validateFieldLength("recordSelector", c.RecordSelector, MaxSelectorLength); err != nil {
		return err
	}
	if c.Workers < 0 || c.Workers > MaxWorkers {
		return fmt.Errorf("workers: must be between 0 and %d, got %d", MaxWorkers, c.Workers)
	}
	if strings.HasPrefix(c.ResourceDir, "/") || strings.Contains(c.ResourceDir, "..") {
		return fmt.Errorf("resourceDir: %q must be a relative path without traversal", c.ResourceDir)
	}
	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// Load loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard
// locations. Returns an error if the file is not found (no silent
// fallback).
func Load(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		resolved, err := resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
		configPath = resolved
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/mht2html/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "mht2html", name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
