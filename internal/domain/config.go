package domain

import "time"

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Download DownloadConfig `mapstructure:"download"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig contains server-related configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// DatabaseConfig contains persistence configuration
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// DownloadConfig controls the simulated transfer and its retry policy
type DownloadConfig struct {
	CompletionDelay time.Duration `mapstructure:"completion_delay"` // total simulated transfer time
	ProgressSteps   int           `mapstructure:"progress_steps"`   // progress writes per transfer
	MaxRetries      int           `mapstructure:"max_retries"`
	RetryDelay      time.Duration `mapstructure:"retry_delay"`
}

// LoggingConfig contains logging-related configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, or file path
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "localhost",
			Port: 8080,
		},
		Database: DatabaseConfig{
			Path: "$HOME/.edu-offline/downloads.db",
		},
		Download: DownloadConfig{
			CompletionDelay: 5 * time.Second,
			ProgressSteps:   5,
			MaxRetries:      3,
			RetryDelay:      10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			OutputPath: "stdout",
		},
	}
}
