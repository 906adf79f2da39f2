// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package config loads the YAML configuration shared by the CLI and the
// HTTP server. Configuration is optional; defaults describe a balanced
// regex-plus-recognizer setup.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"pii-guardian/internal/patterns"
	"pii-guardian/internal/policy"
)

// Config represents the application configuration.
type Config struct {
	Defaults struct {
		Mode    string `yaml:"mode"`
		Format  string `yaml:"format"`
		Verbose bool   `yaml:"verbose"`
		Debug   bool   `yaml:"debug"`
		NoColor bool   `yaml:"no_color"`
		Workers int    `yaml:"workers"`
	} `yaml:"defaults"`

	Recognizer struct {
		Endpoint      string `yaml:"endpoint"`
		Disabled      bool   `yaml:"disabled"`
		TimeoutMS     int    `yaml:"timeout_ms"`
		MaxTextLength int    `yaml:"max_text_length"`
	} `yaml:"recognizer"`

	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"server"`

	// Modes declares custom detection policies on top of the presets.
	Modes map[string]ModeOverride `yaml:"modes"`
}

// ModeOverride customizes a preset policy under a new name.
type ModeOverride struct {
	Base                  string   `yaml:"base"` // preset to start from, default balanced
	Threshold             *float64 `yaml:"threshold"`
	AggressiveRegex       string   `yaml:"aggressive_regex"`
	AFNPasses             string   `yaml:"afn_passes"`
	AcceptInvalidChecksum *bool    `yaml:"accept_invalid_checksum"`
	Description           string   `yaml:"description"`
}

// LoadConfig loads configuration from path, or defaults when path is empty.
func LoadConfig(path string) (*Config, error) {
	config := &Config{Modes: make(map[string]ModeOverride)}

	config.Defaults.Mode = policy.ModeBalanced
	config.Defaults.Format = "text"
	config.Defaults.Workers = 4
	config.Recognizer.TimeoutMS = 5000
	config.Recognizer.MaxTextLength = 10000
	config.Server.Host = "localhost"
	config.Server.Port = 8080

	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return config, nil
}

// FindConfigFile looks for a configuration file in standard locations.
// Returns an empty string when none exists.
func FindConfigFile() string {
	candidates := []string{
		"config.yaml",
		"pii-guardian.yaml",
		"pii-guardian.yml",
		".pii-guardian.yaml",
		".pii-guardian.yml",
	}
	for _, c := range candidates {
		if fileExists(c) {
			return c
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		standard := filepath.Join(home, ".pii-guardian", "config.yaml")
		if fileExists(standard) {
			return standard
		}
	}
	return ""
}

// ValidateConfig fails fast on any inconsistent setting, including custom
// modes that would not produce a usable policy.
func ValidateConfig(config *Config) error {
	switch config.Defaults.Format {
	case "text", "json", "csv":
	default:
		return fmt.Errorf("invalid format %q (valid: text, json, csv)", config.Defaults.Format)
	}
	if config.Defaults.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", config.Defaults.Workers)
	}
	if config.Recognizer.TimeoutMS < 1 {
		return fmt.Errorf("recognizer timeout must be positive, got %d", config.Recognizer.TimeoutMS)
	}
	if config.Recognizer.MaxTextLength < 1 {
		return fmt.Errorf("recognizer max text length must be positive, got %d", config.Recognizer.MaxTextLength)
	}
	if config.Server.Port < 1 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", config.Server.Port)
	}

	if _, err := config.ResolvePolicy(config.Defaults.Mode); err != nil {
		return fmt.Errorf("default mode: %w", err)
	}
	for name := range config.Modes {
		if _, err := config.ResolvePolicy(name); err != nil {
			return fmt.Errorf("mode %q: %w", name, err)
		}
	}
	return nil
}

// ResolvePolicy turns a mode name into a validated policy, honoring custom
// modes declared in the configuration.
func (c *Config) ResolvePolicy(name string) (policy.Policy, error) {
	if name == "" {
		name = c.Defaults.Mode
	}

	override, isCustom := c.Modes[name]
	if !isCustom {
		return policy.ByName(name)
	}

	pol, err := policy.ByName(override.Base)
	if err != nil {
		return policy.Policy{}, fmt.Errorf("base of custom mode %q: %w", name, err)
	}
	pol.Name = name
	if override.Threshold != nil {
		pol.Threshold = *override.Threshold
	}
	if override.AggressiveRegex != "" {
		pol.AggressiveRegex = patterns.Aggressiveness(override.AggressiveRegex)
	}
	if override.AFNPasses != "" {
		pol.AFN = policy.AFNPasses(override.AFNPasses)
	}
	if override.AcceptInvalidChecksum != nil {
		pol.AcceptInvalidChecksum = *override.AcceptInvalidChecksum
	}
	if err := pol.Validate(); err != nil {
		return policy.Policy{}, err
	}
	return pol, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
