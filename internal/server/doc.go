// Package server runs the wizard's HTTP listener with bounded timeouts,
// per-request ids and graceful shutdown on context cancellation.
package server
