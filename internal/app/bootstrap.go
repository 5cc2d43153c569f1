package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"terrateam-setup/internal/config"
	"terrateam-setup/pkg/logging"
)

// Application bootstraps and runs the setup wizard.
//
// Example usage:
//
//	cfg := app.NewConfig(false, true, "")  // dev mode
//	application, err := app.NewApplication(cfg)
//	if err != nil {
//	    return fmt.Errorf("failed to create application: %w", err)
//	}
//	return application.Run(ctx)
type Application struct {
	config   *Config
	services *Services
}

// NewApplication loads configuration, initializes logging and wires all
// services. Configuration is read from cfg.ConfigPath, or from the user
// configuration directory when it is empty.
func NewApplication(cfg *Config) (*Application, error) {
	appLogLevel := logging.LevelInfo
	if cfg.Debug {
		appLogLevel = logging.LevelDebug
	}

	var logOutput io.Writer = os.Stdout
	if cfg.Silent {
		logOutput = io.Discard
	}
	logging.InitForCLI(appLogLevel, logOutput)

	configPath := cfg.ConfigPath
	if configPath == "" {
		defaultPath, err := config.GetDefaultConfigPath()
		if err != nil {
			logging.Warn("Bootstrap", "Could not determine user config directory: %v", err)
		}
		configPath = defaultPath
	}

	setupCfg, err := config.LoadConfig(configPath, cfg.overrides())
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to load configuration")
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg.SetupConfig = &setupCfg

	logging.Init(logging.ParseLevel(setupCfg.Logging.Level), logOutput, logging.Format(setupCfg.Logging.Format))
	logging.Info("Bootstrap", "Loaded configuration from %s", configPathLabel(configPath))

	services, err := InitializeServices(&setupCfg)
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to initialize services")
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	return &Application{
		config:   cfg,
		services: services,
	}, nil
}

// Services exposes the wired components.
func (a *Application) Services() *Services {
	return a.services
}

// Run serves the wizard until ctx is cancelled or a termination signal
// arrives.
func (a *Application) Run(ctx context.Context) error {
	return runServer(ctx, a.config.SetupConfig, a.services)
}

func configPathLabel(path string) string {
	if path == "" {
		return "defaults and environment"
	}
	return path
}
