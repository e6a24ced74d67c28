// Package config provides configuration management for the devstack CLI.
//
// It implements the disciplined Viper pattern where Viper stays contained
// in this package and the rest of the codebase receives explicit Config
// structs. Configuration sources are resolved in this order:
// flags > env > config file > defaults.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config is the explicit configuration struct.
// This is what the rest of the codebase sees.
type Config struct {
	ComposeFile    string
	Project        string
	BackendService string
	DBService      string
	FrontendDir    string
	BackendDir     string
	Server         ServerConfig
}

// ServerConfig defines where the application server binds.
type ServerConfig struct {
	Host       string
	Port       int
	ReadyPath  string
	ReadyWaits int
}

// Init initializes viper with defaults and config file paths
func Init() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.AddConfigPath("$HOME/.devstack")
	viper.AddConfigPath(".")

	viper.SetDefault("compose-file", "docker-compose.yml")
	viper.SetDefault("project", "devstack")
	viper.SetDefault("backend-service", "web")
	viper.SetDefault("db-service", "db")
	viper.SetDefault("frontend-dir", "frontend")
	viper.SetDefault("backend-dir", ".")
	viper.SetDefault("server-host", "0.0.0.0")
	viper.SetDefault("server-port", 3000)
	viper.SetDefault("ready-path", "/")
	viper.SetDefault("ready-waits", 10)

	viper.SetEnvPrefix("DEVSTACK")
	viper.AutomaticEnv()

	// Read config file (ignore if not found)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return nil
}

// Load reads from all sources and returns explicit Config
func Load() (*Config, error) {
	cfg := &Config{
		ComposeFile:    viper.GetString("compose-file"),
		Project:        viper.GetString("project"),
		BackendService: viper.GetString("backend-service"),
		DBService:      viper.GetString("db-service"),
		FrontendDir:    viper.GetString("frontend-dir"),
		BackendDir:     viper.GetString("backend-dir"),
		Server: ServerConfig{
			Host:       viper.GetString("server-host"),
			Port:       viper.GetInt("server-port"),
			ReadyPath:  viper.GetString("ready-path"),
			ReadyWaits: viper.GetInt("ready-waits"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures config is sane
func (c *Config) Validate() error {
	if c.ComposeFile == "" {
		return fmt.Errorf("compose-file must not be empty")
	}

	if c.Project == "" {
		return fmt.Errorf("project must not be empty")
	}

	if c.BackendService == "" {
		return fmt.Errorf("backend-service must not be empty")
	}

	if c.DBService == "" {
		return fmt.Errorf("db-service must not be empty")
	}

	if c.Server.Host == "" {
		return fmt.Errorf("server-host must not be empty")
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	return nil
}
