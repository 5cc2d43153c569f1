package app

import (
	"net/http"

	"terrateam-setup/internal/config"
	"terrateam-setup/internal/envfile"
	"terrateam-setup/internal/exchange"
	"terrateam-setup/internal/server"
	"terrateam-setup/internal/session"
	"terrateam-setup/internal/wizard"
	"terrateam-setup/pkg/logging"
)

// Services holds the wired components of a running wizard.
type Services struct {
	Store   *session.Store
	Engine  *exchange.Engine
	EnvFile *envfile.File
	Wizard  *wizard.Handler
	Server  *server.Server
}

// InitializeServices wires the session store, exchange engine, wizard
// handler and HTTP server from the loaded configuration.
func InitializeServices(cfg *config.SetupConfig) (*Services, error) {
	store := session.NewStore(
		session.WithMaxAge(cfg.Sessions.MaxAge),
		session.WithSweepInterval(cfg.Sessions.SweepInterval),
	)

	httpClient := &http.Client{Timeout: cfg.HTTP.Timeout}

	github := exchange.NewGitHubClient(exchange.GitHubOptions{
		ClientID:     cfg.GitHub.ClientID,
		ClientSecret: cfg.GitHub.ClientSecret,
		APIBaseURL:   cfg.GitHub.APIBaseURL,
		WebBaseURL:   cfg.GitHub.WebBaseURL,
		UserAgent:    cfg.HTTP.UserAgent,
		HTTPClient:   httpClient,
	})

	var tunnel exchange.TunnelExchanger
	if cfg.Tunnel.ExchangeURL != "" {
		tunnel = exchange.NewTunnelClient(cfg.Tunnel.ExchangeURL, cfg.HTTP.UserAgent, httpClient)
	}

	engine := exchange.NewEngine(github, tunnel, store,
		exchange.WithDevMode(cfg.DevMode),
		exchange.WithTunnelEnabled(cfg.Tunnel.Enabled),
		exchange.WithStepTimeout(cfg.HTTP.Timeout),
	)

	envFile := envfile.New(cfg.EnvFile)

	handler := wizard.NewHandler(wizard.Options{
		Sessions:  store,
		Exchanger: engine,
		EnvFile:   envFile,
		Telemetry: wizard.NewTelemetry(cfg.Telemetry.URL, cfg.HTTP.UserAgent, cfg.Telemetry.Enabled, nil),
		DevMode:   cfg.DevMode,
		GitHubOrg: cfg.GitHubOrg,
	})

	logging.Debug("Bootstrap", "Services initialized (tunnel=%t, telemetry=%t, env file=%s)",
		cfg.Tunnel.Enabled, cfg.Telemetry.Enabled, cfg.EnvFile)

	// An exchange makes its outbound calls in sequence, each bounded by the
	// HTTP timeout; the response must be writable after the last one.
	srv := server.New(cfg.Addr(), handler,
		server.WithWriteTimeout(server.WriteTimeoutFor(cfg.HTTP.Timeout, exchange.MaxSteps())))

	return &Services{
		Store:   store,
		Engine:  engine,
		EnvFile: envFile,
		Wizard:  handler,
		Server:  srv,
	}, nil
}
