// Package config handles loading and parsing application configuration.
// It supports two sources for the config file path (in priority order):
//  1. A command-line flag:      --config=/path/to/config.yaml
//  2. An environment variable:  CONFIG_PATH=/path/to/config.yaml
//
// A config file is optional. Every field has an env-default, so the
// program runs with no file at all and individual values can still be
// overridden through the environment.
package config

import (
	"fmt"
	"log"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Storage drivers.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

// Config is the root configuration structure.
// Every field maps to a key in the YAML file AND can be overridden
// by the corresponding environment variable (env:"...").
type Config struct {
	// Env controls log format: "dev"/"local" for text, "prod" for JSON.
	Env string `yaml:"env" env:"ENV" env-default:"local"`

	// LogLevel is one of debug, info, warn, error. Logs go to stderr so
	// they stay out of the interactive screen.
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL" env-default:"warn"`

	// Prompt is printed in front of every line the user types.
	Prompt string `yaml:"prompt" env:"CMS_PROMPT" env-default:">> CMS: "`

	// Storage is embedded (not a pointer) so cfg.Storage.Path reads naturally.
	Storage `yaml:"storage"`
}

// Storage holds settings for the backing store.
// Nested under storage: in the YAML file.
type Storage struct {
	// Driver picks the backend: "file" (delimited text) or "sqlite".
	Driver string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"file"`

	// Path is the text file or SQLite database file.
	Path string `yaml:"path" env:"STORAGE_PATH" env-default:"P14_8-CMS.txt"`

	// DatabaseName is written into the text file header.
	DatabaseName string `yaml:"database_name" env:"DATABASE_NAME" env-default:"StudentRecords"`
}

// Load reads the config. With an empty path only the environment (and
// defaults) are used; otherwise the YAML file must exist.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = os.Getenv("CONFIG_PATH")
	}

	var cfg Config

	if configPath == "" {
		// cleanenv.ReadEnv fills the struct from env vars and env-default tags.
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config.Load: read env: %w", err)
		}
	} else {
		// Verify the file exists before trying to read it, for a clearer
		// message than a bare "open: no such file".
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("config.Load: config file does not exist: %s", configPath)
		}
		// cleanenv.ReadConfig reads the YAML file, then applies env vars.
		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			return nil, fmt.Errorf("config.Load: cannot read config: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// MustLoad reads, validates, and returns the application config, or
// terminates the program. If this function returns, the config is valid.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		log.Fatal(err)
	}
	return cfg
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case DriverFile, DriverSQLite:
	default:
		return fmt.Errorf("config: unknown storage driver %q (want %q or %q)", c.Storage.Driver, DriverFile, DriverSQLite)
	}
	if c.Storage.Path == "" {
		return fmt.Errorf("config: storage path is empty")
	}
	return nil
}
