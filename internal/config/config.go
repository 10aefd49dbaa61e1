// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	json "github.com/goccy/go-json"
	"github.com/sethvargo/go-envconfig"

	"github.com/jeranaias/rbacdash/internal/logging"
	"github.com/jeranaias/rbacdash/internal/rbac"
	"github.com/jeranaias/rbacdash/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete rbacdash configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	// Watch reloads the config file while the dashboard runs.
	Watch bool `toml:"watch" json:"watch"`

	UI   UIConfig   `toml:"ui" json:"ui"`
	RBAC RBACConfig `toml:"rbac" json:"rbac"`
	Log  LogConfig  `toml:"log" json:"log"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is the UI theme: "auto", "dark", "light"
	Theme string `toml:"theme" json:"theme"`
	// Compact drops the blank lines between dashboard sections
	Compact bool `toml:"compact" json:"compact"`
	// ShowHelp renders the short key help under the table
	ShowHelp bool `toml:"show_help" json:"show_help"`
}

// RBACConfig selects the directory policies.
type RBACConfig struct {
	// IDStrategy is "sequence" or "positional"
	IDStrategy string `toml:"id_strategy" json:"id_strategy"`
	// RoleDeletePolicy is "ignore", "block" or "cascade"
	RoleDeletePolicy string `toml:"role_delete_policy" json:"role_delete_policy"`
	// EditUniqueness is "exclude_self" or "strict"
	EditUniqueness string `toml:"edit_uniqueness" json:"edit_uniqueness"`
}

// LogConfig controls the log file.
type LogConfig struct {
	Enabled bool   `toml:"enabled" json:"enabled"`
	Level   string `toml:"level" json:"level"`
	// Path is the log file (empty = ~/.rbacdash/rbacdash.log)
	Path string `toml:"path" json:"path"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1.0.0",
		Watch:   true,
		UI: UIConfig{
			Theme:    "auto",
			Compact:  false,
			ShowHelp: true,
		},
		RBAC: RBACConfig{
			IDStrategy:       string(rbac.IDSequence),
			RoleDeletePolicy: string(rbac.DeletePolicyIgnore),
			EditUniqueness:   string(rbac.EditExcludeSelf),
		},
		Log: LogConfig{
			Enabled: true,
			Level:   "info",
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// EnvConfigPath names the variable holding an explicit config file path.
const EnvConfigPath = "RBACDASH_CONFIG"

// ConfigDir returns the rbacdash configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".rbacdash"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// ActivePath returns the file Load reads: $RBACDASH_CONFIG when set, else the
// first of config.toml and config.json that exists, else the TOML path.
func ActivePath() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p, nil
	}
	tomlPath, err := ConfigPathTOML()
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(tomlPath); err == nil {
		return tomlPath, nil
	}
	jsonPath, err := ConfigPathJSON()
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(jsonPath); err == nil {
		return jsonPath, nil
	}
	return tomlPath, nil
}

// DefaultLogPath returns ~/.rbacdash/rbacdash.log.
func DefaultLogPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "rbacdash.log"), nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the active config file, or defaults when
// there is none. Environment overrides are applied last.
func Load() (*Config, error) {
	path, err := ActivePath()
	if err != nil {
		return nil, err
	}
	if _, statErr := os.Stat(path); statErr == nil {
		return LoadFromPath(path)
	} else if os.Getenv(EnvConfigPath) != "" {
		return nil, fmt.Errorf("config file %s: %w", path, statErr)
	}

	cfg := Default()
	if err := cfg.finish(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromPath loads configuration from a specific file path with full validation.
// Files ending in .json are decoded as JSON, anything else as TOML.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if strings.HasSuffix(strings.ToLower(path), ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	if err := cfg.finish(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadTOML decodes a TOML file over cfg.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON decodes a JSON file over cfg.
func LoadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

func (c *Config) finish() error {
	if err := c.ApplyEnvOverrides(); err != nil {
		return err
	}
	c.SetDefaults()
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// SaveTOML saves the configuration to a TOML file.
// Creates config files with 0600 permissions (owner read/write only).
func SaveTOML(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var b strings.Builder
	b.WriteString("# rbacdash configuration file\n")
	b.WriteString("# Generated by rbacdash - edit with care\n\n")
	if err := toml.NewEncoder(&b).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SaveJSON saves the configuration to a JSON file.
func SaveJSON(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
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

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	switch strings.ToLower(c.UI.Theme) {
	case "auto", "dark", "light":
	default:
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme %q (valid: auto, dark, light)", c.UI.Theme),
		})
	}

	if _, err := rbac.ParseIDStrategy(c.RBAC.IDStrategy); err != nil {
		errs = append(errs, ValidationError{Field: "rbac.id_strategy", Message: err.Error()})
	}
	if _, err := rbac.ParseDeletePolicy(c.RBAC.RoleDeletePolicy); err != nil {
		errs = append(errs, ValidationError{Field: "rbac.role_delete_policy", Message: err.Error()})
	}
	if _, err := rbac.ParseEditUniqueness(c.RBAC.EditUniqueness); err != nil {
		errs = append(errs, ValidationError{Field: "rbac.edit_uniqueness", Message: err.Error()})
	}

	if c.Log.Level != "" && !logging.ValidLevel(c.Log.Level) {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("invalid level %q (valid: trace, debug, info, warn, error)", c.Log.Level),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SetDefaults fills empty values and normalizes case.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.Version == "" {
		c.Version = defaults.Version
	}
	c.UI.Theme = strings.ToLower(strings.TrimSpace(c.UI.Theme))
	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}

	c.RBAC.IDStrategy = strings.ToLower(strings.TrimSpace(c.RBAC.IDStrategy))
	if c.RBAC.IDStrategy == "" {
		c.RBAC.IDStrategy = defaults.RBAC.IDStrategy
	}
	c.RBAC.RoleDeletePolicy = strings.ToLower(strings.TrimSpace(c.RBAC.RoleDeletePolicy))
	if c.RBAC.RoleDeletePolicy == "" {
		c.RBAC.RoleDeletePolicy = defaults.RBAC.RoleDeletePolicy
	}
	c.RBAC.EditUniqueness = strings.ToLower(strings.TrimSpace(c.RBAC.EditUniqueness))
	if c.RBAC.EditUniqueness == "" {
		c.RBAC.EditUniqueness = defaults.RBAC.EditUniqueness
	}

	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
	if c.Log.Path == "" {
		if p, err := DefaultLogPath(); err == nil {
			c.Log.Path = p
		}
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// envOverrides lists the variables that override file settings.
type envOverrides struct {
	Theme            string `env:"RBACDASH_THEME"`
	LogLevel         string `env:"RBACDASH_LOG_LEVEL"`
	LogPath          string `env:"RBACDASH_LOG_PATH"`
	IDStrategy       string `env:"RBACDASH_ID_STRATEGY"`
	RoleDeletePolicy string `env:"RBACDASH_ROLE_DELETE_POLICY"`
	EditUniqueness   string `env:"RBACDASH_EDIT_UNIQUENESS"`
}

// ApplyEnvOverrides applies environment variable overrides to the configuration.
//
// Supported environment variables:
//   - RBACDASH_THEME: overrides ui.theme
//   - RBACDASH_LOG_LEVEL: overrides log.level
//   - RBACDASH_LOG_PATH: overrides log.path
//   - RBACDASH_ID_STRATEGY: overrides rbac.id_strategy
//   - RBACDASH_ROLE_DELETE_POLICY: overrides rbac.role_delete_policy
//   - RBACDASH_EDIT_UNIQUENESS: overrides rbac.edit_uniqueness
func (c *Config) ApplyEnvOverrides() error {
	return c.applyEnv(envconfig.OsLookuper())
}

func (c *Config) applyEnv(l envconfig.Lookuper) error {
	var o envOverrides
	if err := envconfig.ProcessWith(context.Background(), &envconfig.Config{
		Target:   &o,
		Lookuper: l,
	}); err != nil {
		return fmt.Errorf("failed to read environment overrides: %w", err)
	}

	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&c.UI.Theme, o.Theme)
	set(&c.Log.Level, o.LogLevel)
	set(&c.Log.Path, o.LogPath)
	set(&c.RBAC.IDStrategy, o.IDStrategy)
	set(&c.RBAC.RoleDeletePolicy, o.RoleDeletePolicy)
	set(&c.RBAC.EditUniqueness, o.EditUniqueness)
	return nil
}

// =============================================================================
// DERIVED SETTINGS
// =============================================================================

// Policies returns the directory policies. Call on a validated config.
func (c *Config) Policies() rbac.Policies {
	ids, _ := rbac.ParseIDStrategy(c.RBAC.IDStrategy)
	del, _ := rbac.ParseDeletePolicy(c.RBAC.RoleDeletePolicy)
	return rbac.Policies{IDStrategy: ids, DeletePolicy: del}
}

// EditUniqueness returns the role-name uniqueness mode. Call on a validated config.
func (c *Config) EditUniqueness() rbac.EditUniqueness {
	mode, _ := rbac.ParseEditUniqueness(c.RBAC.EditUniqueness)
	return mode
}

// LogOptions returns the logger options for this config.
func (c *Config) LogOptions() logging.Options {
	return logging.Options{Enabled: c.Log.Enabled, Level: c.Log.Level, Path: c.Log.Path}
}

// Clone creates a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// String returns the config as indented JSON.
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
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
			cfg.SetDefaults()
		}
		globalConfigMu.Lock()
		if globalConfig == nil {
			globalConfig = cfg
		}
		globalConfigMu.Unlock()
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// ReloadGlobal reloads the global configuration from disk. Thread-safe.
// On error the previous configuration stays in place.
func ReloadGlobal() (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
	return cfg, nil
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigOnce.Do(func() {})
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state for testing.
// This should only be used in tests to reset state between test runs.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
