package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig        `mapstructure:"server"`
	Logging   LoggingConfig       `mapstructure:"logging"`
	Sandbox   SandboxConfig       `mapstructure:"sandbox"`
	Languages map[string]Language `mapstructure:"languages"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Transport string `mapstructure:"transport"`
	HTTPPort  int    `mapstructure:"http_port"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Mode  string `mapstructure:"mode"`
	Level string `mapstructure:"level"`
}

// SandboxConfig holds sandbox configuration. CPUTimeSec and MemoryMB are the
// process-wide resource ceilings applied to every execution; WallTimeSec is
// the orchestrator-side deadline backstopping them.
type SandboxConfig struct {
	Runtime      string `mapstructure:"runtime"`
	WorkspaceDir string `mapstructure:"workspace_dir"`
	CPUTimeSec   int    `mapstructure:"cpu_time_sec"`
	MemoryMB     int    `mapstructure:"memory_mb"`
	WallTimeSec  int    `mapstructure:"wall_time_sec"`
	MaxOutputKB  int    `mapstructure:"max_output_kb"`
}

// Language holds per-language overrides
type Language struct {
	Image       string            `mapstructure:"image"`
	Environment map[string]string `mapstructure:"environment"`
}

// New loads and validates the application configuration
func New() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Set default values
	viper.SetDefault("server.transport", "stdio")
	viper.SetDefault("server.http_port", 8080)
	viper.SetDefault("logging.mode", "production")
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("sandbox.runtime", "docker")
	viper.SetDefault("sandbox.workspace_dir", "")
	viper.SetDefault("sandbox.cpu_time_sec", 10)
	viper.SetDefault("sandbox.memory_mb", 512)
	viper.SetDefault("sandbox.wall_time_sec", 30)
	viper.SetDefault("sandbox.max_output_kb", 10240)

	// Language image defaults
	viper.SetDefault("languages.php.image", "php:8.3-cli-alpine")
	viper.SetDefault("languages.python.image", "python:3.11-slim")
	viper.SetDefault("languages.nodejs.image", "node:20-alpine")
	viper.SetDefault("languages.ruby.image", "ruby:3.3-alpine")
	viper.SetDefault("languages.go.image", "golang:1.23-alpine")
	viper.SetDefault("languages.cpp.image", "gcc:13")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// If config file not found, continue with defaults
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}

	return &config, nil
}

// validate ensures the configuration is valid
func (c *Config) validate() error {
	if c.Server.Transport != "stdio" && c.Server.Transport != "http" {
		return fmt.Errorf("invalid server.transport: %s, must be 'stdio' or 'http'", c.Server.Transport)
	}

	if c.Logging.Mode != "production" && c.Logging.Mode != "development" {
		return fmt.Errorf("invalid logging.mode: %s, must be 'production' or 'development'", c.Logging.Mode)
	}

	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("invalid logging.level: %s", c.Logging.Level)
	}

	if c.Sandbox.Runtime != "docker" && c.Sandbox.Runtime != "podman" {
		return fmt.Errorf("unsupported sandbox.runtime: %s, must be 'docker' or 'podman'", c.Sandbox.Runtime)
	}

	if c.Sandbox.CPUTimeSec <= 0 {
		return fmt.Errorf("sandbox.cpu_time_sec must be positive, got: %d", c.Sandbox.CPUTimeSec)
	}

	if c.Sandbox.MemoryMB <= 0 {
		return fmt.Errorf("sandbox.memory_mb must be positive, got: %d", c.Sandbox.MemoryMB)
	}

	if c.Sandbox.WallTimeSec < c.Sandbox.CPUTimeSec {
		return fmt.Errorf("sandbox.wall_time_sec must be at least sandbox.cpu_time_sec, got: %d < %d",
			c.Sandbox.WallTimeSec, c.Sandbox.CPUTimeSec)
	}

	if c.Sandbox.MaxOutputKB <= 0 {
		return fmt.Errorf("sandbox.max_output_kb must be positive, got: %d", c.Sandbox.MaxOutputKB)
	}

	return nil
}

// GetWallTimeout returns the orchestrator-side execution deadline as a duration
func (c *Config) GetWallTimeout() time.Duration {
	return time.Duration(c.Sandbox.WallTimeSec) * time.Second
}
