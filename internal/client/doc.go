// Package client is the HTTP client the command line uses to inspect and
// finalize sessions on a running setup wizard.
package client
