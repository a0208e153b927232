package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Output  OutputConfig  `mapstructure:"output"`
	Filter  FilterConfig  `mapstructure:"filter"`
	Logging LoggingConfig `mapstructure:"logging"`

	// File is the config file that was read, empty when none was found
	File string `mapstructure:"-"`
}

// APIConfig holds the booking API connection details
type APIConfig struct {
	URL     string        `mapstructure:"url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// OutputConfig controls how results are rendered
type OutputConfig struct {
	Format string `mapstructure:"format"`
}

// FilterConfig contains the default filter and named presets
type FilterConfig struct {
	Default string            `mapstructure:"default"`
	Presets map[string]string `mapstructure:"presets"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
