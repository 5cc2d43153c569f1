package config

import "time"

// SetupConfig is the top-level configuration structure for the setup wizard.
type SetupConfig struct {
	Server    ServerConfig    `yaml:"server"`
	GitHub    GitHubConfig    `yaml:"github"`
	Tunnel    TunnelConfig    `yaml:"tunnel"`
	Sessions  SessionsConfig  `yaml:"sessions"`
	HTTP      HTTPConfig      `yaml:"http"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Logging   LoggingConfig   `yaml:"logging"`

	// DevMode bypasses every outbound call and fabricates exchange results.
	// It is only ever enabled explicitly.
	DevMode bool `yaml:"devMode,omitempty" env:"TERRATEAM_DEV_MODE"`

	// EnvFile is the environment file discovered credentials are written to.
	EnvFile string `yaml:"envFile,omitempty" env:"SETUP_ENV_FILE"`

	// GitHubOrg pre-selects the organization the GitHub App is created in.
	GitHubOrg string `yaml:"githubOrg,omitempty" env:"GH_ORG"`
}

// ServerConfig controls the wizard's HTTP listener.
type ServerConfig struct {
	Host string `yaml:"host,omitempty" env:"SETUP_HOST"` // Host to bind to (default: localhost)
	Port int    `yaml:"port,omitempty" env:"SETUP_PORT"` // Port to listen on (default: 3000)
}

// GitHubConfig holds the OAuth client registration and the endpoints used
// during the code exchange. The base URLs are overridable for GitHub
// Enterprise and for tests.
type GitHubConfig struct {
	ClientID     string `yaml:"clientId,omitempty" env:"GITHUB_CLIENT_ID"`
	ClientSecret string `yaml:"clientSecret,omitempty" env:"GITHUB_CLIENT_SECRET"`
	APIBaseURL   string `yaml:"apiBaseUrl,omitempty" env:"GITHUB_API_BASE_URL"`
	WebBaseURL   string `yaml:"webBaseUrl,omitempty" env:"GITHUB_WEB_BASE_URL"`
}

// TunnelConfig controls the optional tunnel credential exchange.
type TunnelConfig struct {
	Enabled     bool   `yaml:"enabled" env:"TERRATUNNEL_ENABLED"`
	ExchangeURL string `yaml:"exchangeUrl,omitempty" env:"TERRATUNNEL_EXCHANGE_URL"`
}

// SessionsConfig bounds the lifetime of wizard sessions.
type SessionsConfig struct {
	MaxAge        time.Duration `yaml:"maxAge,omitempty" env:"SESSION_MAX_AGE"`
	SweepInterval time.Duration `yaml:"sweepInterval,omitempty" env:"SESSION_SWEEP_INTERVAL"`
}

// HTTPConfig bounds outbound calls.
type HTTPConfig struct {
	Timeout   time.Duration `yaml:"timeout,omitempty" env:"SETUP_HTTP_TIMEOUT"`
	UserAgent string        `yaml:"userAgent,omitempty"`
}

// TelemetryConfig controls the opt-in setup ping.
type TelemetryConfig struct {
	Enabled bool   `yaml:"enabled" env:"TELEMETRY_ENABLED"`
	URL     string `yaml:"url,omitempty" env:"TELEMETRY_URL"`
}

// LoggingConfig selects log verbosity and output format.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty" env:"LOG_LEVEL"`
	Format string `yaml:"format,omitempty" env:"LOG_FORMAT"`
}

// Addr returns the host:port the wizard listens on.
func (c SetupConfig) Addr() string {
	return joinHostPort(c.Server.Host, c.Server.Port)
}
