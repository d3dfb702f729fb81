// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management
// for rugrat.
//
// Configuration comes from ~/.rugrat/config.toml with built-in defaults
// and environment variable overrides applied last.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/rugrat-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete rugrat configuration.
type Config struct {
	// General settings
	Version string `toml:"version"`
	Model   string `toml:"model"`
	Debug   bool   `toml:"debug"`

	// API configuration
	API APIConfig `toml:"api"`

	// Tools configuration
	Tools ToolsConfig `toml:"tools"`

	// Geolocation configuration
	Geo GeoConfig `toml:"geo"`

	// UI configuration
	UI UIConfig `toml:"ui"`
}

// APIConfig contains OpenRouter API configuration.
type APIConfig struct {
	// OpenRouterKey is the OpenRouter API key
	OpenRouterKey string `toml:"openrouter_key"`
	// BaseURL overrides the OpenRouter endpoint (tests, proxies)
	BaseURL string `toml:"base_url"`
	// TimeoutSecs is the per-request timeout in seconds
	TimeoutSecs int `toml:"timeout_secs"`
	// MaxRetries is the retry count for transient API failures
	MaxRetries int `toml:"max_retries"`
}

// ToolsConfig contains lookup tool configuration.
type ToolsConfig struct {
	// Enabled controls whether the agent may call lookup tools
	Enabled bool `toml:"enabled"`
	// MaxToolRounds caps tool round-trips per user turn
	MaxToolRounds int `toml:"max_tool_rounds"`
	// SearchResults is the default web search result count
	SearchResults int `toml:"search_results"`
}

// GeoConfig contains geolocation configuration.
type GeoConfig struct {
	// Enabled controls the session location lookup. When false the
	// assistant uses the neutral global persona.
	Enabled bool `toml:"enabled"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is the UI theme: "dark", "light", "auto"
	Theme string `toml:"theme"`
	// ShowStats displays generation statistics under replies
	ShowStats bool `toml:"show_stats"`
	// CompactMode uses a more compact UI layout
	CompactMode bool `toml:"compact_mode"`
	// ShowMap displays the ECCU map panel when the terminal is wide enough
	ShowMap bool `toml:"show_map"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1.0.0",
		Model:   "openai/gpt-4o-mini",
		Debug:   false,

		API: APIConfig{
			OpenRouterKey: "",
			BaseURL:       "",
			TimeoutSecs:   60,
			MaxRetries:    3,
		},

		Tools: ToolsConfig{
			Enabled:       true,
			MaxToolRounds: 5,
			SearchResults: 5,
		},

		Geo: GeoConfig{
			Enabled: true,
		},

		UI: UIConfig{
			Theme:       "dark",
			ShowStats:   true,
			CompactMode: false,
			ShowMap:     true,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the rugrat configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".rugrat"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// ensureSecurePermissions checks and fixes permissions on config files.
// SECURITY: Config files should be 0600 (owner read/write only) to protect API keys.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	if mode := info.Mode().Perm(); mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file, falling back to
// defaults. Environment overrides are applied last.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		cfg := Default()
		cfg.ApplyEnvOverrides()
		return cfg, err
	}

	if _, statErr := os.Stat(path); statErr != nil {
		// No config file: defaults plus environment.
		cfg := Default()
		cfg.ApplyEnvOverrides()
		return cfg, nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads configuration from a specific TOML file with full
// validation.
func LoadFromPath(path string) (*Config, error) {
	// SECURITY: Check and fix file permissions if needed
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	cfg.fillDefaults()
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// fillDefaults fills in any missing values with defaults.
func (c *Config) fillDefaults() {
	defaults := Default()

	if c.Version == "" {
		c.Version = defaults.Version
	}
	if c.Model == "" {
		c.Model = defaults.Model
	}
	if c.API.TimeoutSecs == 0 {
		c.API.TimeoutSecs = defaults.API.TimeoutSecs
	}
	if c.API.MaxRetries == 0 {
		c.API.MaxRetries = defaults.API.MaxRetries
	}
	if c.Tools.MaxToolRounds == 0 {
		c.Tools.MaxToolRounds = defaults.Tools.MaxToolRounds
	}
	if c.Tools.SearchResults == 0 {
		c.Tools.SearchResults = defaults.Tools.SearchResults
	}
	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides:
//   - OPENROUTER_API_KEY / RUGRAT_OPENROUTER_KEY: overrides api.openrouter_key
//   - RUGRAT_MODEL: overrides model
//   - RUGRAT_DEBUG: set to "1" or "true" to enable debug logging
//   - RUGRAT_NO_GEO: set to "1" or "true" to disable the location lookup
//   - RUGRAT_THEME: overrides ui.theme
func (c *Config) ApplyEnvOverrides() {
	if key := os.Getenv("OPENROUTER_API_KEY"); key != "" {
		c.API.OpenRouterKey = key
	}
	if key := os.Getenv("RUGRAT_OPENROUTER_KEY"); key != "" {
		c.API.OpenRouterKey = key
	}
	if model := os.Getenv("RUGRAT_MODEL"); model != "" {
		c.Model = model
	}
	if debug := os.Getenv("RUGRAT_DEBUG"); isTruthy(debug) {
		c.Debug = true
	}
	if noGeo := os.Getenv("RUGRAT_NO_GEO"); isTruthy(noGeo) {
		c.Geo.Enabled = false
	}
	if theme := os.Getenv("RUGRAT_THEME"); theme != "" {
		c.UI.Theme = theme
	}
}

// isTruthy interprets common boolean environment values.
func isTruthy(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate validates the configuration and returns the first error.
func (c *Config) Validate() error {
	if c.Model == "" {
		return ValidationError{Field: "model", Message: "must not be empty"}
	}

	if c.API.BaseURL != "" {
		if _, err := url.Parse(c.API.BaseURL); err != nil {
			return ValidationError{Field: "api.base_url", Message: fmt.Sprintf("invalid URL: %v", err)}
		}
	}
	if c.API.TimeoutSecs < 1 || c.API.TimeoutSecs > 600 {
		return ValidationError{
			Field:   "api.timeout_secs",
			Message: fmt.Sprintf("must be 1-600, got %d", c.API.TimeoutSecs),
		}
	}
	if c.API.MaxRetries < 0 || c.API.MaxRetries > 10 {
		return ValidationError{
			Field:   "api.max_retries",
			Message: fmt.Sprintf("must be 0-10, got %d", c.API.MaxRetries),
		}
	}

	if c.Tools.MaxToolRounds < 1 || c.Tools.MaxToolRounds > 20 {
		return ValidationError{
			Field:   "tools.max_tool_rounds",
			Message: fmt.Sprintf("must be 1-20, got %d", c.Tools.MaxToolRounds),
		}
	}
	if c.Tools.SearchResults < 1 || c.Tools.SearchResults > 10 {
		return ValidationError{
			Field:   "tools.search_results",
			Message: fmt.Sprintf("must be 1-10, got %d", c.Tools.SearchResults),
		}
	}

	switch strings.ToLower(c.UI.Theme) {
	case "dark", "light", "auto":
	default:
		return ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: dark, light, auto", c.UI.Theme),
		}
	}

	return nil
}

// =============================================================================
// SAVE
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTo(cfg, path)
}

// SaveTo saves the configuration to a TOML file.
// SECURITY: Creates config files with 0600 permissions (owner read/write only).
// RELIABILITY: Atomic write with fsync prevents data loss on crash.
func SaveTo(cfg *Config, path string) error {
	var buf strings.Builder
	buf.WriteString("# rugrat configuration file\n")
	buf.WriteString("# Generated by rugrat - edit with care\n\n")

	encoder := toml.NewEncoder(&buf)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, []byte(buf.String()), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// String renders the config with the API key redacted.
func (c *Config) String() string {
	safe := *c
	if safe.API.OpenRouterKey != "" {
		safe.API.OpenRouterKey = "[REDACTED]"
	}

	var sb strings.Builder
	toml.NewEncoder(&sb).Encode(safe)
	return sb.String()
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration instance.
// Loads configuration on first access. Thread-safe.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
			cfg = Default()
			cfg.ApplyEnvOverrides()
		}
		globalConfig = cfg
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// ReloadGlobal reloads the global configuration from disk. Thread-safe.
func ReloadGlobal() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
	return nil
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state for testing.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
