// Package logging provides subsystem-tagged structured logging for the
// setup wizard, built on Go's standard slog package.
//
// Every entry carries a subsystem attribute so that the output of the
// session store, the exchange engine and the HTTP layer can be filtered
// independently:
//
//	logging.Init(logging.LevelInfo, os.Stderr, logging.FormatText)
//
//	logging.Info("Bootstrap", "Listening on %s", addr)
//	logging.Debug("SessionStore", "Stored credentials for session=%s", id)
//	logging.WarnErr("Exchange", err, "Tunnel exchange failed, continuing without tunnel")
//	logging.Error("Server", err, "HTTP server stopped unexpectedly")
//
// Tokens and API keys must never be passed to these functions verbatim; use
// TruncateSecret when a value is needed for correlation.
package logging
