package app

import (
	"terrateam-setup/internal/config"
)

// Config holds the application configuration
type Config struct {
	// Debug settings
	Debug bool

	// Silent discards all log output
	Silent bool

	// DevMode forces development mode on top of the loaded configuration
	DevMode bool

	// Custom configuration path (optional)
	// When empty, the user configuration directory is used
	ConfigPath string

	// Listener overrides; zero values keep the configured address
	Host string
	Port int

	// Loaded setup configuration
	SetupConfig *config.SetupConfig
}

// NewConfig creates a new application configuration
func NewConfig(debug, devMode bool, configPath string) *Config {
	return &Config{
		Debug:      debug,
		DevMode:    devMode,
		ConfigPath: configPath,
	}
}

// overrides turns the command line settings into config overrides.
func (c *Config) overrides() config.Override {
	return func(sc *config.SetupConfig) {
		if c.DevMode {
			sc.DevMode = true
		}
		if c.Host != "" {
			sc.Server.Host = c.Host
		}
		if c.Port != 0 {
			sc.Server.Port = c.Port
		}
		if c.Debug {
			sc.Logging.Level = "debug"
		}
	}
}
