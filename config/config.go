package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// PlaceholderAPIKey is the key written by init when none is given
const PlaceholderAPIKey = "your-api-key-here"

// envBindings maps config keys to the environment variables that override them
var envBindings = map[string]string{
	"api.url":        "BAPTCTL_API_URL",
	"api.api_key":    "BAPTCTL_API_KEY",
	"api.timeout":    "BAPTCTL_API_TIMEOUT",
	"output.format":  "BAPTCTL_OUTPUT_FORMAT",
	"logging.level":  "BAPTCTL_LOGGING_LEVEL",
	"filter.default": "BAPTCTL_FILTER_DEFAULT",
}

// flagBindings maps config keys to the global command line flags
var flagBindings = map[string]string{
	"api.url":       "url",
	"api.api_key":   "api-key",
	"output.format": "output",
	"logging.level": "log-level",
}

// Load loads the configuration from file, environment and flags. Flags win
// over environment variables, which win over the file. A missing file is
// only an error when configPath names it explicitly.
func Load(configPath string, flags *pflag.FlagSet) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := viper.New()

	// Set default values
	setDefaults(v)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("error binding %s: %w", env, err)
		}
	}

	if flags != nil {
		for key, name := range flagBindings {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("error binding flag --%s: %w", name, err)
				}
			}
		}
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".baptctl"))
		}

		// Check /etc
		v.AddConfigPath("/etc/baptctl/")
	}

	// Read config file
	found := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
		found = false
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if found {
		cfg.File = v.ConfigFileUsed()
	}

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadDotEnv loads variables from a .env file without overriding the
// environment. A missing file is fine.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("error loading %s: %w", path, err)
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// API defaults
	v.SetDefault("api.url", "http://localhost:3001/api")
	v.SetDefault("api.timeout", "30s")

	// Output defaults
	v.SetDefault("output.format", "table")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.API.URL == "" {
		return fmt.Errorf("api.url is required")
	}

	if cfg.API.APIKey == "" || cfg.API.APIKey == PlaceholderAPIKey {
		return fmt.Errorf("api.api_key must be set to a valid API key (config file or BAPTCTL_API_KEY)")
	}

	if cfg.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive, got %s", cfg.API.Timeout)
	}

	// Validate output format
	validOutputs := map[string]bool{
		"table": true,
		"json":  true,
		"yaml":  true,
	}
	cfg.Output.Format = strings.ToLower(cfg.Output.Format)
	if !validOutputs[cfg.Output.Format] {
		return fmt.Errorf("invalid output format: %s (must be table, json or yaml)", cfg.Output.Format)
	}

	// Validate logging level
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	cfg.Logging.Level = strings.ToLower(cfg.Logging.Level)
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}

// Write saves a config file with the given connection details. An existing
// file is only replaced when overwrite is set.
func Write(path, url, apiKey string, overwrite bool) error {
	v := viper.New()
	setDefaults(v)
	v.Set("api.url", url)
	v.Set("api.api_key", apiKey)
	v.Set("filter.presets", map[string]string{
		"available": "Available",
		"weekend":   `weekday(Date) in ["Saturday", "Sunday"]`,
	})
	v.SetConfigType("yaml")

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("error creating config directory: %w", err)
		}
	}

	write := v.SafeWriteConfigAs
	if overwrite {
		write = v.WriteConfigAs
	}
	if err := write(path); err != nil {
		return fmt.Errorf("error writing config: %w", err)
	}
	return nil
}
