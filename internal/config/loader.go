package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigPaths defines the config file search paths in priority order
var ConfigPaths = []string{
	"./.escapetime.yaml",               // Project-specific config (highest priority)
	"~/.config/escapetime/config.yaml", // User config
}

// Loader handles configuration loading with priority merging
type Loader struct {
	configPaths []string
	getenv      func(string) string
}

// NewLoader creates a new config loader
func NewLoader() *Loader {
	return &Loader{
		configPaths: ConfigPaths,
		getenv:      os.Getenv,
	}
}

// LoadConfig loads configuration from multiple sources with priority order:
// 1. Command line flags (handled by caller)
// 2. Environment variables
// 3. ./.escapetime.yaml
// 4. ~/.config/escapetime/config.yaml
// 5. Built-in defaults
func (l *Loader) LoadConfig(customPath string) (*Config, error) {
	config := DefaultConfig()

	if customPath != "" {
		if err := validateConfigPath(customPath); err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		if err := loadFromFile(config, customPath); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", customPath, err)
		}
	} else {
		// lowest priority first, so later files override earlier ones
		for i := len(l.configPaths) - 1; i >= 0; i-- {
			path := expandPath(l.configPaths[i])
			if !fileExists(path) {
				continue
			}
			if err := loadFromFile(config, path); err != nil {
				return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
			}
		}
	}

	if err := l.applyEnvOverrides(config); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// loadFromFile decodes a YAML file on top of config. Keys missing from the
// file keep their current value.
func loadFromFile(config *Config, path string) error {
	// #nosec G304 - path is validated or comes from ConfigPaths
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to the config
func (l *Loader) applyEnvOverrides(config *Config) error {
	envMappings := map[string]func(string) error{
		// Render Config
		"ESCAPETIME_RENDER_WIDTH":          func(v string) error { return parseInt(v, &config.Render.Width) },
		"ESCAPETIME_RENDER_MAX_ITERATIONS": func(v string) error { return parseInt(v, &config.Render.MaxIterations) },
		"ESCAPETIME_RENDER_VARIANT":        func(v string) error { config.Render.Variant = v; return nil },
		"ESCAPETIME_RENDER_SCHEME":         func(v string) error { config.Render.Scheme = v; return nil },
		"ESCAPETIME_RENDER_WORKERS":        func(v string) error { return parseInt(v, &config.Render.Workers) },
		"ESCAPETIME_RENDER_TILE_SIZE":      func(v string) error { return parseInt(v, &config.Render.TileSize) },

		// Julia Config
		"ESCAPETIME_JULIA_SEED_RE": func(v string) error { return parseFloat(v, &config.Julia.SeedRe) },
		"ESCAPETIME_JULIA_SEED_IM": func(v string) error { return parseFloat(v, &config.Julia.SeedIm) },

		// Interaction Config
		"ESCAPETIME_INTERACTION_CLICK_POLICY":       func(v string) error { config.Interaction.ClickPolicy = v; return nil },
		"ESCAPETIME_INTERACTION_STATIC_ZOOM_FACTOR": func(v string) error { return parseFloat(v, &config.Interaction.StaticZoomFactor) },

		// Server Config
		"ESCAPETIME_SERVER_PORT":       func(v string) error { return parseInt(v, &config.Server.Port) },
		"ESCAPETIME_SERVER_STATIC_DIR": func(v string) error { config.Server.StaticDir = v; return nil },

		// Output Config
		"ESCAPETIME_OUTPUT_FILENAME": func(v string) error { config.Output.Filename = v; return nil },
		"ESCAPETIME_OUTPUT_VERBOSE":  func(v string) error { return parseBool(v, &config.Output.Verbose) },
	}

	for envVar, setter := range envMappings {
		if value := l.getenv(envVar); value != "" {
			if err := setter(value); err != nil {
				return fmt.Errorf("invalid value for %s: %w", envVar, err)
			}
		}
	}
	return nil
}

// FindConfigFile finds the first existing config file in the search paths
func FindConfigFile() (string, bool) {
	for _, path := range ConfigPaths {
		expandedPath := expandPath(path)
		if fileExists(expandedPath) {
			return expandedPath, true
		}
	}
	return "", false
}

// Helper functions

// validateConfigPath validates that a config path is safe to read
func validateConfigPath(path string) error {
	cleanPath := filepath.Clean(path)

	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path traversal not allowed")
	}

	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("config file must have .yaml or .yml extension")
	}
	return nil
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Type conversion helpers

func parseInt(s string, dst *int) error {
	val, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseFloat(s string, dst *float64) error {
	val, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseBool(s string, dst *bool) error {
	val, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}
