// SPDX-License-Identifier: LGPL-3.0-or-later

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the top-level cojson-core CLI configuration.
type Config struct {
	Environment string        `yaml:"environment" json:"environment"`
	Logging     LoggingConfig `yaml:"logging" json:"logging"`
	Cache       CacheConfig   `yaml:"cache" json:"cache"`
	CLI         CLIConfig     `yaml:"cli" json:"cli"`
}

// CLIConfig holds the cojson-crypto binary's own defaults. The core this CLI
// drives is a pure library with no runtime configuration of its own — these
// are purely where the CLI looks when a flag is omitted.
type CLIConfig struct {
	DefaultKeyFile     string `yaml:"default_key_file" json:"default_key_file"`
	DefaultSessionFile string `yaml:"default_session_file" json:"default_session_file"`
}

// LoggingConfig represents logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
	Output string `yaml:"output" json:"output"`
}

// CacheConfig bounds the per-SessionLog decoded-secret cache.
type CacheConfig struct {
	KeySecretCapacity    int `yaml:"key_secret_capacity" json:"key_secret_capacity"`
	SignerSecretCapacity int `yaml:"signer_secret_capacity" json:"signer_secret_capacity"`
}

// LoadFromFile loads configuration from a file, trying YAML then JSON.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jsonErr := json.Unmarshal(data, cfg); jsonErr != nil {
			return nil, fmt.Errorf("failed to parse config file (tried YAML and JSON): %w", err)
		}
	}

	SubstituteEnvVarsInConfig(cfg)
	setDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromEnv builds a Config from COJSON_* environment variables.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Environment: getEnvOrDefault("COJSON_ENV", ""),
		Logging: LoggingConfig{
			Level:  getEnvOrDefault("COJSON_LOG_LEVEL", ""),
			Format: getEnvOrDefault("COJSON_LOG_FORMAT", ""),
			Output: getEnvOrDefault("COJSON_LOG_OUTPUT", ""),
		},
		Cache: CacheConfig{
			KeySecretCapacity:    getEnvInt("COJSON_CACHE_KEY_SECRET_CAPACITY", 0),
			SignerSecretCapacity: getEnvInt("COJSON_CACHE_SIGNER_SECRET_CAPACITY", 0),
		},
	}
	setDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveToFile saves configuration to a file, choosing format by extension.
func SaveToFile(cfg *Config, path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".json") {
		data, err = json.MarshalIndent(cfg, "", "  ")
	} else {
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Default returns a Config populated entirely from defaults.
func Default() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	return cfg
}

// setDefaults sets default values for configuration.
func setDefaults(cfg *Config) {
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
	if cfg.Cache.KeySecretCapacity == 0 {
		cfg.Cache.KeySecretCapacity = 2
	}
	if cfg.Cache.SignerSecretCapacity == 0 {
		cfg.Cache.SignerSecretCapacity = 2
	}
	if cfg.CLI.DefaultKeyFile == "" {
		cfg.CLI.DefaultKeyFile = "cojson-key.json"
	}
	if cfg.CLI.DefaultSessionFile == "" {
		cfg.CLI.DefaultSessionFile = "cojson-session.json"
	}
}

var validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
var validLogFormats = map[string]bool{"json": true, "text": true}

// Validate reports whether cfg's fields are all within the set of values
// the CLI supports.
func Validate(cfg *Config) error {
	if cfg.Environment == "" {
		return fmt.Errorf("config: environment is required")
	}
	if !validLogLevels[cfg.Logging.Level] {
		return fmt.Errorf("config: invalid log level %q", cfg.Logging.Level)
	}
	if !validLogFormats[cfg.Logging.Format] {
		return fmt.Errorf("config: invalid log format %q", cfg.Logging.Format)
	}
	if cfg.Cache.KeySecretCapacity < 0 || cfg.Cache.SignerSecretCapacity < 0 {
		return fmt.Errorf("config: cache capacity must not be negative")
	}
	return nil
}

// IsProduction reports whether cfg.Environment names production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}
