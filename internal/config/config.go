// Package config provides functionality for loading, saving, and managing
// application configuration settings.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

// Duration is a time.Duration that reads and writes as a string ("5s") in JSON.
type Duration time.Duration

// MarshalJSON encodes the duration as its string form.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON accepts either a duration string or a number of milliseconds.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value) * time.Millisecond)
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", value, err)
		}
		*d = Duration(parsed)
	default:
		return fmt.Errorf("invalid duration: %s", string(b))
	}
	return nil
}

// Std returns the duration as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config represents the configuration settings for the application.
type Config struct {
	APIBaseURL              string   `json:"api_base_url"`
	RequestTimeout          Duration `json:"request_timeout"`
	InsecureSkipVerify      bool     `json:"insecure_skip_verify"`
	DatabaseDir             string   `json:"database_dir"`
	DatabaseFile            string   `json:"database_file"`
	LogFolder               string   `json:"log_folder"`
	CommandLog              string   `json:"command_log"`
	ErrorLog                string   `json:"error_log"`
	InfoLog                 string   `json:"info_log"`
	LogLevel                string   `json:"log_level"`
	NotificationAutoDismiss Duration `json:"notification_auto_dismiss"`
	RedirectDelay           Duration `json:"redirect_delay"`
	MaxInFlight             int      `json:"max_in_flight"`
	HistoryFile             string   `json:"history_file"`
	UseColor                bool     `json:"use_color"`
}

// Environment variables that override the config file.
const (
	EnvAPIBaseURL = "MAJI_API_BASE_URL"
	EnvLogLevel   = "MAJI_LOG_LEVEL"
	EnvDataDir    = "MAJI_DATA_DIR"
)

// Global variables to store the current configuration and its file path.
var (
	currentConfig *Config
	configPath    = "./data/config.json"
)

// Default returns the configuration written on first start.
func Default() *Config {
	return &Config{
		APIBaseURL:              "https://localhost:7166/api",
		RequestTimeout:          Duration(30 * time.Second),
		InsecureSkipVerify:      true,
		DatabaseDir:             "./data",
		DatabaseFile:            "maji.db",
		LogFolder:               "./logs",
		CommandLog:              "commands.log",
		ErrorLog:                "errors.log",
		InfoLog:                 "info.log",
		LogLevel:                "info",
		NotificationAutoDismiss: Duration(5 * time.Second),
		RedirectDelay:           Duration(2 * time.Second),
		MaxInFlight:             4,
		HistoryFile:             "./data/history",
		UseColor:                true,
	}
}

// SetPath changes the location of the config file. It must be called before ConfigLoad.
func SetPath(path string) {
	configPath = path
}

// ConfigLoad loads the configuration from the JSON file.
// If the file doesn't exist, it creates a default configuration.
// Values from a .env file and the process environment are applied on top.
func ConfigLoad() error {
	// Ensure the data directory exists
	dataDir := filepath.Dir(configPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %v", err)
	}

	// A missing .env is normal outside development
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("error reading .env file: %v", err)
	}

	// Check if the config file exists, if not create a default one
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		defaultConfig := Default()
		if err := ConfigSave(defaultConfig); err != nil {
			return fmt.Errorf("failed to create default config: %v", err)
		}
		currentConfig = applyEnv(defaultConfig)
		return nil
	}

	// Read and parse the existing config file
	file, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	// Unmarshal on top of the defaults so new fields get sensible values
	cfg := Default()
	if err := json.Unmarshal(file, cfg); err != nil {
		return fmt.Errorf("error parsing config file: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config file: %v", err)
	}

	currentConfig = applyEnv(cfg)
	return nil
}

// ConfigSave saves the provided configuration to the JSON file.
func ConfigSave(cfg *Config) error {
	// Marshal the config to JSON
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling config: %v", err)
	}

	// Write the JSON data to the config file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %v", err)
	}

	return nil
}

// ConfigGet returns a copy of the current configuration, or nil before
// ConfigLoad.
func ConfigGet() *Config {
	if currentConfig == nil {
		return nil
	}
	cfg := *currentConfig
	return &cfg
}

// Validate checks the values that would otherwise fail later in surprising ways.
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return errors.New("api_base_url is required")
	}
	if c.MaxInFlight < 1 {
		return errors.New("max_in_flight must be at least 1")
	}
	if c.RequestTimeout < 0 || c.RedirectDelay < 0 || c.NotificationAutoDismiss < 0 {
		return errors.New("durations must not be negative")
	}
	return nil
}

// DatabasePath returns the full path of the local state database.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DatabaseDir, c.DatabaseFile)
}

func applyEnv(cfg *Config) *Config {
	if v := os.Getenv(EnvAPIBaseURL); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv(EnvDataDir); v != "" {
		cfg.DatabaseDir = v
	}
	return cfg
}
