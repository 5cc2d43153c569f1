package config

import (
	"net"
	"strconv"
	"time"
)

const (
	// DefaultGitHubAPIBaseURL is the public GitHub REST API.
	DefaultGitHubAPIBaseURL = "https://api.github.com"

	// DefaultGitHubWebBaseURL hosts the OAuth token endpoint.
	DefaultGitHubWebBaseURL = "https://github.com"

	// DefaultTunnelExchangeURL is the Terratunnel token exchange endpoint.
	DefaultTunnelExchangeURL = "https://tunnel.terrateam.dev/api/auth/exchange"

	// DefaultTelemetryURL receives the opt-in setup event.
	DefaultTelemetryURL = "https://telemetry.terrateam.io/event/terrateam-setup/opt-in"

	// DefaultUserAgent is sent on every outbound request.
	DefaultUserAgent = "Terrateam-Setup"

	// DefaultHTTPTimeout bounds each outbound call.
	DefaultHTTPTimeout = 30 * time.Second
)

// GetDefaultConfig returns default configuration
func GetDefaultConfig() SetupConfig {
	return SetupConfig{
		Server: ServerConfig{
			Host: "localhost",
			Port: 3000,
		},
		GitHub: GitHubConfig{
			APIBaseURL: DefaultGitHubAPIBaseURL,
			WebBaseURL: DefaultGitHubWebBaseURL,
		},
		Tunnel: TunnelConfig{
			Enabled:     true,
			ExchangeURL: DefaultTunnelExchangeURL,
		},
		Sessions: SessionsConfig{
			MaxAge:        24 * time.Hour,
			SweepInterval: time.Hour,
		},
		HTTP: HTTPConfig{
			Timeout:   DefaultHTTPTimeout,
			UserAgent: DefaultUserAgent,
		},
		Telemetry: TelemetryConfig{
			Enabled: true,
			URL:     DefaultTelemetryURL,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		EnvFile: ".env",
	}
}

func joinHostPort(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}
