package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/avern/go-pdfcompose/internal/fileutil"
	"github.com/avern/go-pdfcompose/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
)

// Config holds the CLI defaults a user can persist in a YAML file.
// Flags always win over config values.
type Config struct {
	Output  OutputConfig  `yaml:"output"`
	Layout  LayoutConfig  `yaml:"layout"`
	Engine  EngineConfig  `yaml:"engine"`
	Sorting SortingConfig `yaml:"sorting"`
	Debug   DebugConfig   `yaml:"debug"`
}

// OutputConfig defines output destination defaults.
type OutputConfig struct {
	Suffix    string `yaml:"suffix"`    // appended to the first input name
	Overwrite bool   `yaml:"overwrite"` // replace existing outputs
}

// LayoutConfig defines page layout defaults.
type LayoutConfig struct {
	Paper string `yaml:"paper"` // empty = fit the input page size
}

// EngineConfig names the external binaries.
type EngineConfig struct {
	Latex       string `yaml:"latex"`
	Ghostscript string `yaml:"ghostscript"`
}

// SortingConfig defines directory ingestion defaults.
type SortingConfig struct {
	Natural bool `yaml:"natural"`
}

// DebugConfig defines debug workspace defaults.
type DebugConfig struct {
	Folder string `yaml:"folder"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{Suffix: "_composed"},
		Engine: EngineConfig{
			Latex:       "pdflatex",
			Ghostscript: "gs",
		},
		Debug: DebugConfig{Folder: "temp"},
	}
}

// LoadConfig loads configuration from a file path or config name.
// A value with a path separator is treated as a file path; otherwise
// it is searched in standard locations. A missing file is an error,
// never a silent fallback.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	return cfg, nil
}

// resolveConfigPath searches for a config file by name.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, user config directory.
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
			userPath := filepath.Join(userConfigDir, "pdfcompose", name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
