package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"

	"terrateam-setup/internal/envfile"
	"terrateam-setup/internal/exchange"
	"terrateam-setup/internal/session"
	"terrateam-setup/pkg/logging"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 64 << 10

// SessionStore is the part of the session store the wizard reads and clears.
type SessionStore interface {
	Get(sessionID string) (session.Record, bool)
	List() []session.Summary
	Clear(sessionID string) session.ClearResult
	Len() int
}

// Exchanger runs an authorization code exchange.
type Exchanger interface {
	Exchange(ctx context.Context, req exchange.Request) exchange.Result
}

// Options wires a Handler.
type Options struct {
	Sessions  SessionStore
	Exchanger Exchanger
	EnvFile   *envfile.File
	Telemetry *Telemetry
	DevMode   bool
	// GitHubOrg is the organization the GitHub App is created in, if preset.
	GitHubOrg string
}

// Handler serves the wizard's JSON API and helper pages.
type Handler struct {
	sessions  SessionStore
	exchanger Exchanger
	envFile   *envfile.File
	telemetry *Telemetry
	devMode   bool
	githubOrg string
	validate  *validator.Validate
	pages     *pages
	mux       *http.ServeMux
}

// NewHandler creates a wizard handler.
func NewHandler(opts Options) *Handler {
	h := &Handler{
		sessions:  opts.Sessions,
		exchanger: opts.Exchanger,
		envFile:   opts.EnvFile,
		telemetry: opts.Telemetry,
		devMode:   opts.DevMode,
		githubOrg: opts.GitHubOrg,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		pages:     newPages(),
	}
	h.mux = h.routes()
	return h
}

func (h *Handler) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", h.handleRoot)
	mux.HandleFunc("GET /healthz", h.handleHealth)

	mux.HandleFunc("GET /probot", h.handleIndex)
	mux.HandleFunc("GET /probot/dev", h.handleDev)
	mux.HandleFunc("GET /probot/telemetry", h.handleTelemetry)
	mux.HandleFunc("POST /probot/oauth-exchange", h.handleOAuthExchange)

	mux.HandleFunc("GET /probot/api/session-id", h.handleSessionID)
	mux.HandleFunc("GET /probot/api/sessions", h.handleListSessions)
	mux.HandleFunc("GET /probot/api/session/{id}", h.handleGetSession)
	mux.HandleFunc("DELETE /probot/api/session/{id}", h.handleClearSession)
	mux.HandleFunc("POST /probot/api/finalize", h.handleFinalize)

	return mux
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/probot", http.StatusFound)
}

type healthResponse struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Sessions: h.sessions.Len()})
}

// errorResponse is the failure shape of every JSON endpoint.
type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Warn("Wizard", "Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Success: false, Error: msg})
}

// decodeBody reads a JSON body into v. An empty body leaves v untouched.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// setSecurityHeaders sets recommended security headers for HTML responses.
func setSecurityHeaders(w http.ResponseWriter) {
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("X-Frame-Options", "DENY")
	w.Header().Set("Content-Security-Policy", "default-src 'none'; style-src 'unsafe-inline'")
	w.Header().Set("Referrer-Policy", "no-referrer")
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
}
