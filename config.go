// Copyright 2025 Matthew Gall <me@matthewgall.dev>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	// Input
	DatasetPath string `yaml:"dataset_path"`

	// Presentation
	DefaultView    string `yaml:"default_view"`
	ChartWidth     int    `yaml:"chart_width"`
	ChartHeight    int    `yaml:"chart_height"`
	Theme          string `yaml:"theme"`
	CurrencyPrefix string `yaml:"currency_prefix"`

	// Demo population overrides (zero keeps the dataset's own settings)
	SyntheticSeed  uint64 `yaml:"synthetic_seed"`
	SyntheticCount int    `yaml:"synthetic_count"`

	// Storage
	StoragePath     string `yaml:"storage_path"`
	CacheTTLMinutes int    `yaml:"cache_ttl_minutes"`

	// Debugging
	Debug bool `yaml:"debug"`
}

var supportedThemes = []string{"light", "dark", "grafana", "ant"}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	// Set defaults
	config := &Config{
		DatasetPath:     filepath.Join("datasets", "electropuno.yaml"),
		DefaultView:     ViewGeographic.String(),
		ChartWidth:      DefaultChartWidth,
		ChartHeight:     DefaultChartHeight,
		Theme:           DefaultChartTheme,
		CurrencyPrefix:  DefaultCurrency,
		StoragePath:     getDefaultStoragePath(),
		CacheTTLMinutes: DefaultCacheTTLMinutes,
		Debug:           false,
	}

	// If no path provided, return defaults with env var overrides
	if path == "" {
		config.applyEnvironmentVariables()
		return config, nil
	}

	// Read the file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, &ConfigError{Field: path, Message: err.Error()}
	}

	// Apply environment variable overrides
	config.applyEnvironmentVariables()

	return config, nil
}

// getDefaultStoragePath returns the default storage path
func getDefaultStoragePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".anomviz"
	}
	return filepath.Join(home, ".config", "anomviz")
}

// applyEnvironmentVariables overrides config with environment variables
func (c *Config) applyEnvironmentVariables() {
	if val := os.Getenv("ANOMVIZ_DATASET"); val != "" {
		c.DatasetPath = val
	}
	if val := os.Getenv("ANOMVIZ_VIEW"); val != "" {
		c.DefaultView = val
	}
	if val := os.Getenv("ANOMVIZ_THEME"); val != "" {
		c.Theme = val
	}
	if val := os.Getenv("ANOMVIZ_CURRENCY"); val != "" {
		c.CurrencyPrefix = val
	}
	if val := os.Getenv("ANOMVIZ_SEED"); val != "" {
		if seed, err := strconv.ParseUint(val, 10, 64); err == nil {
			c.SyntheticSeed = seed
		}
	}
	if val := os.Getenv("ANOMVIZ_STORAGE_PATH"); val != "" {
		c.StoragePath = val
	}
	if val := os.Getenv("ANOMVIZ_DEBUG"); val == "true" || val == "1" {
		c.Debug = true
	}
}

// View returns the configured initial view
func (c *Config) View() (ViewMode, error) {
	return ParseViewMode(c.DefaultView)
}

// CacheTTL returns the chart cache lifetime
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLMinutes) * time.Minute
}

// ApplySyntheticOverrides replaces the dataset's demo population settings
// with any values set in the configuration
func (c *Config) ApplySyntheticOverrides(ds *Dataset) {
	if c.SyntheticSeed != 0 {
		ds.Synthetic.Seed = c.SyntheticSeed
	}
	if c.SyntheticCount > 0 {
		ds.Synthetic.Count = c.SyntheticCount
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errors []string

	if c.DatasetPath == "" {
		errors = append(errors, "dataset_path is required")
	}

	if _, err := c.View(); err != nil {
		errors = append(errors, "default_view must be one of geographic, scatter")
	}

	if c.ChartWidth < 200 || c.ChartWidth > 4000 {
		errors = append(errors, "chart_width must be between 200 and 4000")
	}
	if c.ChartHeight < 200 || c.ChartHeight > 4000 {
		errors = append(errors, "chart_height must be between 200 and 4000")
	}

	themeOK := false
	for _, t := range supportedThemes {
		if c.Theme == t {
			themeOK = true
			break
		}
	}
	if !themeOK {
		errors = append(errors, fmt.Sprintf("theme must be one of %s", strings.Join(supportedThemes, ", ")))
	}

	if c.SyntheticCount < 0 {
		errors = append(errors, "synthetic_count must not be negative")
	}

	if c.CacheTTLMinutes < 0 {
		errors = append(errors, "cache_ttl_minutes must not be negative")
	}

	// Set defaults if empty
	if c.CurrencyPrefix == "" {
		c.CurrencyPrefix = DefaultCurrency
	}
	if c.StoragePath == "" {
		c.StoragePath = getDefaultStoragePath()
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}
