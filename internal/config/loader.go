package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"terrateam-setup/pkg/logging"
)

const (
	userConfigDir  = ".config/terrateam-setup"
	configFileName = "config.yaml"
)

// osUserHomeDir is a package variable so tests can redirect it.
var osUserHomeDir = os.UserHomeDir

// GetDefaultConfigPath returns the user configuration directory.
func GetDefaultConfigPath() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine user config directory: %w", err)
	}
	return filepath.Join(homeDir, userConfigDir), nil
}

// Override adjusts a loaded configuration before validation, typically from
// command line flags.
type Override func(*SetupConfig)

// LoadConfig builds the configuration in layers: defaults, then config.yaml
// from configPath (if present), then environment variables, then overrides.
// The result is validated before it is returned.
func LoadConfig(configPath string, overrides ...Override) (SetupConfig, error) {
	cfg := GetDefaultConfig()

	if configPath != "" {
		if err := loadFile(filepath.Join(configPath, configFileName), &cfg); err != nil {
			return SetupConfig{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return SetupConfig{}, err
	}

	for _, override := range overrides {
		override(&cfg)
	}

	if err := Validate(cfg); err != nil {
		return SetupConfig{}, err
	}
	return cfg, nil
}

// loadFile merges a YAML file into cfg. A missing file is not an error.
func loadFile(path string, cfg *SetupConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Info("ConfigLoader", "No config.yaml found at %s, using defaults", path)
			return nil
		}
		return ConfigurationError{
			FilePath:  path,
			FileName:  filepath.Base(path),
			ErrorType: "io",
			Message:   err.Error(),
		}
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return ConfigurationError{
			FilePath:  path,
			FileName:  filepath.Base(path),
			ErrorType: "parse",
			Message:   err.Error(),
			Suggestions: []string{
				"Check the YAML syntax of the file",
				"Durations use Go syntax, e.g. 24h or 90m",
			},
		}
	}
	logging.Info("ConfigLoader", "Loaded configuration from %s", path)
	return nil
}

// applyEnv overrides cfg with any variables set in the process environment.
// DEV_MODE is accepted as an alias of TERRATEAM_DEV_MODE.
func applyEnv(cfg *SetupConfig) error {
	if err := env.Parse(cfg); err != nil {
		return ConfigurationError{
			ErrorType: "env",
			Message:   fmt.Sprintf("parse env: %v", err),
		}
	}

	var alias struct {
		DevMode *bool `env:"DEV_MODE"`
	}
	if err := env.Parse(&alias); err != nil {
		return ConfigurationError{
			ErrorType: "env",
			Message:   fmt.Sprintf("parse env: %v", err),
		}
	}
	if alias.DevMode != nil && *alias.DevMode {
		cfg.DevMode = true
	}
	return nil
}
