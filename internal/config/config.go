// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/jeranaias/ndu-tui/internal/util"
)

// CurrentVersion is the config file format version.
const CurrentVersion = "1"

// maxSuggestions is the number of prompts reachable with alt+1..alt+9.
const maxSuggestions = 9

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete ndu-tui configuration.
type Config struct {
	Version string `toml:"version"`

	Backend BackendConfig `toml:"backend"`
	Storage StorageConfig `toml:"storage"`
	UI      UIConfig      `toml:"ui"`
	Log     LogConfig     `toml:"log"`
}

// BackendConfig locates the assistant API.
type BackendConfig struct {
	// BaseURL is scheme and host of the API, e.g. https://apiconf.ng
	BaseURL string `toml:"base_url" env:"NDU_BASE_URL"`

	// ChatPath is the conversational endpoint path
	ChatPath string `toml:"chat_path" env:"NDU_CHAT_PATH"`

	// UserAgent overrides the User-Agent header
	UserAgent string `toml:"user_agent" env:"NDU_USER_AGENT"`
}

// StorageConfig selects the durable client storage.
type StorageConfig struct {
	// Backend is "file", "sqlite" or "memory"
	Backend string `toml:"backend" env:"NDU_STORAGE_BACKEND"`

	// Path is the storage file; empty uses ~/.ndu/storage.{json,db}
	Path string `toml:"path" env:"NDU_STORAGE_PATH"`
}

// UIConfig holds the chat widget's texts and timings.
type UIConfig struct {
	AssistantName string   `toml:"assistant_name" env:"NDU_ASSISTANT_NAME"`
	Title         string   `toml:"title" env:"NDU_TITLE"`
	WelcomeTitle  string   `toml:"welcome_title"`
	WelcomeText   string   `toml:"welcome_text"`
	Suggestions   []string `toml:"suggestions" env:"NDU_SUGGESTIONS" envSeparator:"|"`

	// TimeFormat is a Go time layout for message timestamps
	TimeFormat string `toml:"time_format" env:"NDU_TIME_FORMAT"`

	// BootstrapDelayMs delays the deep-link message after start-up
	BootstrapDelayMs int `toml:"bootstrap_delay_ms" env:"NDU_BOOTSTRAP_DELAY_MS"`

	// HomeURL is the address shown when no deep link was given
	HomeURL string `toml:"home_url" env:"NDU_HOME_URL"`
}

// BootstrapDelay returns BootstrapDelayMs as a duration.
func (u UIConfig) BootstrapDelay() time.Duration {
	return time.Duration(u.BootstrapDelayMs) * time.Millisecond
}

// LogConfig controls logging.
type LogConfig struct {
	// Level is a zerolog level name: trace, debug, info, warn, error, disabled
	Level string `toml:"level" env:"NDU_LOG_LEVEL"`

	// Path is the log file; empty uses ~/.ndu/ndu.log
	Path string `toml:"path" env:"NDU_LOG_PATH"`

	// Console writes human-readable logs to stderr instead of the file
	Console bool `toml:"console" env:"NDU_LOG_CONSOLE"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Version: CurrentVersion,
		Backend: BackendConfig{
			BaseURL:  "http://localhost:8000",
			ChatPath: "/api/v1/agents/chat",
		},
		Storage: StorageConfig{
			Backend: "file",
		},
		UI: UIConfig{
			AssistantName: "Ndu",
			WelcomeTitle:  "Welcome!",
			WelcomeText:   "Your friendly assistant for the API Conference 2025 in Lagos. Ask me about speakers, schedules, and more!",
			Suggestions: []string{
				"Who are the main speakers?",
				"What is the conference schedule?",
				"How do I get to the venue?",
			},
			TimeFormat:       "15:04",
			BootstrapDelayMs: 100,
			HomeURL:          "https://apiconf.ng/chat",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the ndu configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".ndu"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// DefaultLogPath returns ~/.ndu/ndu.log.
func DefaultLogPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "ndu.log"), nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads ~/.ndu/config.toml if present, then applies environment
// overrides, defaults and validation.
func Load() (*Config, error) {
	path, err := ConfigPathTOML()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from path. A missing file is not an
// error: defaults and environment overrides still apply.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, statErr := os.Stat(path); statErr == nil {
			if err := LoadTOML(cfg, path); err != nil {
				return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
			}
		} else if !os.IsNotExist(statErr) {
			return nil, fmt.Errorf("failed to stat config %s: %w", path, statErr)
		}
	}

	if err := cfg.ApplyEnvOverrides(); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes the TOML file at path over cfg.
func LoadTOML(cfg *Config, path string) error {
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

// LoadDotEnv loads a .env file into the process environment. Variables
// already set win. A missing file is not an error.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	existing := make([]string, 0, len(paths))
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

// ApplyEnvOverrides applies NDU_* environment variables over the current
// values. Unset variables leave fields untouched.
func (c *Config) ApplyEnvOverrides() error {
	return env.Parse(c)
}

// SetDefaults fills empty fields with built-in defaults.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.Version == "" {
		c.Version = defaults.Version
	}
	if c.Backend.BaseURL == "" {
		c.Backend.BaseURL = defaults.Backend.BaseURL
	}
	c.Backend.BaseURL = strings.TrimSuffix(c.Backend.BaseURL, "/")
	if c.Backend.ChatPath == "" {
		c.Backend.ChatPath = defaults.Backend.ChatPath
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = defaults.Storage.Backend
	}
	c.Storage.Backend = strings.ToLower(c.Storage.Backend)
	if c.UI.AssistantName == "" {
		c.UI.AssistantName = defaults.UI.AssistantName
	}
	if c.UI.Title == "" {
		c.UI.Title = "Chat with " + c.UI.AssistantName
	}
	if c.UI.WelcomeTitle == "" {
		c.UI.WelcomeTitle = defaults.UI.WelcomeTitle
	}
	if c.UI.WelcomeText == "" {
		c.UI.WelcomeText = defaults.UI.WelcomeText
	}
	if c.UI.Suggestions == nil {
		c.UI.Suggestions = defaults.UI.Suggestions
	}
	if c.UI.TimeFormat == "" {
		c.UI.TimeFormat = defaults.UI.TimeFormat
	}
	if c.UI.HomeURL == "" {
		c.UI.HomeURL = defaults.UI.HomeURL
	}
	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
	c.Log.Level = strings.ToLower(c.Log.Level)
}

// =============================================================================
// SAVE
// =============================================================================

// SaveTOML writes cfg to path with a header comment.
// RELIABILITY: Atomic write with fsync prevents data loss on crash
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	buf.WriteString("# ndu-tui configuration file\n")
	buf.WriteString("# Environment variables (NDU_*) override these values.\n\n")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// String returns the configuration as TOML.
func (c *Config) String() string {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Sprintf("<config: %v>", err)
	}
	return buf.String()
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

	if u, err := url.Parse(c.Backend.BaseURL); err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		errs = append(errs, ValidationError{
			Field:   "backend.base_url",
			Message: fmt.Sprintf("invalid URL '%s', must be an absolute http or https URL", c.Backend.BaseURL),
		})
	}
	if !strings.HasPrefix(c.Backend.ChatPath, "/") {
		errs = append(errs, ValidationError{
			Field:   "backend.chat_path",
			Message: "must start with '/'",
		})
	}

	validBackends := map[string]bool{"file": true, "sqlite": true, "memory": true}
	if !validBackends[c.Storage.Backend] {
		errs = append(errs, ValidationError{
			Field:   "storage.backend",
			Message: fmt.Sprintf("invalid backend '%s', must be one of: file, sqlite, memory", c.Storage.Backend),
		})
	}

	if len(c.UI.Suggestions) > maxSuggestions {
		errs = append(errs, ValidationError{
			Field:   "ui.suggestions",
			Message: fmt.Sprintf("at most %d suggestions are supported, got %d", maxSuggestions, len(c.UI.Suggestions)),
		})
	}
	for i, s := range c.UI.Suggestions {
		if strings.TrimSpace(s) == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("ui.suggestions[%d]", i),
				Message: "must not be blank",
			})
		}
	}
	if c.UI.BootstrapDelayMs < 0 || c.UI.BootstrapDelayMs > 60000 {
		errs = append(errs, ValidationError{
			Field:   "ui.bootstrap_delay_ms",
			Message: fmt.Sprintf("must be between 0 and 60000, got %d", c.UI.BootstrapDelayMs),
		})
	}
	if c.UI.HomeURL != "" {
		if _, err := url.Parse(c.UI.HomeURL); err != nil {
			errs = append(errs, ValidationError{
				Field:   "ui.home_url",
				Message: err.Error(),
			})
		}
	}

	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("invalid level '%s'", c.Log.Level),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
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
			// Log but don't fail - use defaults
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

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
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
