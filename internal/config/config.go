package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// APIConfig points at the plan store
type APIConfig struct {
	// BaseURL is the plan store root, e.g. "http://localhost:8081"
	BaseURL string `yaml:"base_url"`

	// Timeout bounds a single plan fetch
	Timeout time.Duration `yaml:"timeout"`
}

// LogConfig controls the debug log. The terminal belongs to the UI, so logs
// only go to a file.
type LogConfig struct {
	// File is the log file path; empty disables logging
	File string `yaml:"file"`

	// Level is one of DEBUG, INFO, WARN, ERROR
	Level string `yaml:"level"`
}

// Config holds the application configuration
type Config struct {
	// Theme is the catppuccin flavour to use (mocha, macchiato, frappe, latte)
	Theme string `yaml:"theme"`

	// API is the remote plan store
	API APIConfig `yaml:"api"`

	// PlansDir holds local plan files (<id>.yaml/.yml/.json), checked before the API
	PlansDir string `yaml:"plans_dir"`

	// HistoryDB is the SQLite file finished sessions are recorded in
	HistoryDB string `yaml:"history_db"`

	Log LogConfig `yaml:"log"`
}

// validThemes lists the supported catppuccin flavours
var validThemes = []string{"mocha", "macchiato", "frappe", "latte"}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Theme: "mocha",
		API: APIConfig{
			BaseURL: "http://localhost:8081",
			Timeout: 30 * time.Second,
		},
		PlansDir:  filepath.Join(configDir(), "plans"),
		HistoryDB: filepath.Join(configDir(), "history.db"),
		Log: LogConfig{
			Level: "INFO",
		},
	}
}

// configDir is ~/.config/workout_progress, or under XDG_CONFIG_HOME when set
func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "workout_progress")
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "workout_progress")
}

// Load reads the config from a YAML file, falling back to defaults, then
// applies environment overrides:
//
//	WORKOUT_API_URL, WORKOUT_API_TIMEOUT, WORKOUT_PLANS_DIR,
//	WORKOUT_HISTORY_DB, WORKOUT_THEME, WORKOUT_LOG_FILE, WORKOUT_LOG_LEVEL
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	cleanPath := filepath.Clean(path)
	data, err := os.ReadFile(cleanPath) //nolint:gosec // config path from known locations
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Use defaults if no config file
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// LoadFromDefaultPath attempts to load config from standard locations
func LoadFromDefaultPath() (*Config, error) {
	// Check in order: current dir, ~/.config/workout_progress/, XDG_CONFIG_HOME
	paths := []string{
		"config.yaml",
		filepath.Join(os.Getenv("HOME"), ".config", "workout_progress", "config.yaml"),
	}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "workout_progress", "config.yaml"))
	}

	for _, path := range paths {
		cleanPath := filepath.Clean(path)
		if _, err := os.Stat(cleanPath); err == nil { //nolint:gosec // config path from known locations
			return Load(cleanPath)
		}
	}

	cfg := DefaultConfig()
	applyEnvOverrides(cfg)
	return cfg, cfg.Validate()
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("WORKOUT_API_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("WORKOUT_API_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.API.Timeout = d
		}
	}
	if v := os.Getenv("WORKOUT_PLANS_DIR"); v != "" {
		cfg.PlansDir = v
	}
	if v := os.Getenv("WORKOUT_HISTORY_DB"); v != "" {
		cfg.HistoryDB = v
	}
	if v := os.Getenv("WORKOUT_THEME"); v != "" {
		cfg.Theme = v
	}
	if v := os.Getenv("WORKOUT_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	if v := os.Getenv("WORKOUT_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

// Validate checks the values a session depends on
func (c *Config) Validate() error {
	theme := strings.ToLower(c.Theme)
	valid := false
	for _, t := range validThemes {
		if theme == t {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("theme %q is not one of %s", c.Theme, strings.Join(validThemes, ", "))
	}
	c.Theme = theme

	if c.API.Timeout < 0 {
		return fmt.Errorf("api.timeout must not be negative")
	}
	return nil
}

// global config instance
var globalConfig *Config

// Global returns the global config instance, loading it if necessary
func Global() *Config {
	if globalConfig == nil {
		cfg, err := LoadFromDefaultPath()
		if err != nil {
			cfg = DefaultConfig()
		}
		globalConfig = cfg
	}
	return globalConfig
}

// SetGlobal sets the global config instance (useful for testing)
func SetGlobal(cfg *Config) {
	globalConfig = cfg
}
