// Package app provides application bootstrap and lifecycle management for
// the setup wizard.
//
// NewApplication loads configuration (defaults, config.yaml, environment,
// then command line overrides), initializes logging and wires the session
// store, exchange engine, wizard handler and HTTP server. Run starts the
// session sweeper and the server, reports readiness to systemd when
// available and shuts everything down on SIGINT, SIGTERM or context
// cancellation.
package app
