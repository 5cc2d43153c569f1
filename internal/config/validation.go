package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks a fully layered configuration.
func Validate(cfg SetupConfig) error {
	var errs ConfigurationErrorCollection

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		errs.AddField("server.port", fmt.Sprintf("must be between 1 and 65535, got %d", cfg.Server.Port))
	}

	validateURL(&errs, "github.apiBaseUrl", cfg.GitHub.APIBaseURL)
	validateURL(&errs, "github.webBaseUrl", cfg.GitHub.WebBaseURL)
	if cfg.Tunnel.Enabled {
		validateURL(&errs, "tunnel.exchangeUrl", cfg.Tunnel.ExchangeURL)
	}
	if cfg.Telemetry.Enabled {
		validateURL(&errs, "telemetry.url", cfg.Telemetry.URL)
	}

	if cfg.Sessions.MaxAge <= 0 {
		errs.AddField("sessions.maxAge", "must be a positive duration")
	}
	if cfg.Sessions.SweepInterval <= 0 {
		errs.AddField("sessions.sweepInterval", "must be a positive duration")
	}
	if cfg.HTTP.Timeout <= 0 {
		errs.AddField("http.timeout", "must be a positive duration")
	}

	// Without DevMode the token exchange needs a registered OAuth client.
	if !cfg.DevMode {
		if strings.TrimSpace(cfg.GitHub.ClientID) == "" {
			errs.AddField("github.clientId", "is required unless devMode is enabled")
		}
		if strings.TrimSpace(cfg.GitHub.ClientSecret) == "" {
			errs.AddField("github.clientSecret", "is required unless devMode is enabled")
		}
	}

	if strings.TrimSpace(cfg.EnvFile) == "" {
		errs.AddField("envFile", "must not be empty")
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

func validateURL(errs *ConfigurationErrorCollection, field, raw string) {
	if raw == "" {
		errs.AddField(field, "is required")
		return
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		errs.AddField(field, fmt.Sprintf("must be an absolute http(s) URL, got %q", raw))
	}
}
