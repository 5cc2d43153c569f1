package wizard

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"terrateam-setup/pkg/logging"
)

// telemetryTimeout bounds one opt-in ping.
const telemetryTimeout = 5 * time.Second

// Telemetry sends opt-in pings. A nil or disabled Telemetry sends nothing.
type Telemetry struct {
	url        string
	userAgent  string
	enabled    bool
	httpClient *http.Client
}

// NewTelemetry creates a telemetry sender.
func NewTelemetry(endpoint, userAgent string, enabled bool, httpClient *http.Client) *Telemetry {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: telemetryTimeout}
	}
	return &Telemetry{url: endpoint, userAgent: userAgent, enabled: enabled, httpClient: httpClient}
}

// Enabled reports whether pings are sent.
func (t *Telemetry) Enabled() bool {
	return t != nil && t.enabled && t.url != ""
}

// OptIn sends one ping carrying params as the query string.
func (t *Telemetry) OptIn(ctx context.Context, params url.Values) error {
	if !t.Enabled() {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, telemetryTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.url+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create telemetry request: %w", err)
	}
	if t.userAgent != "" {
		req.Header.Set("User-Agent", t.userAgent)
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("telemetry request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 400 {
		return fmt.Errorf("telemetry request failed with status %d", resp.StatusCode)
	}
	return nil
}

type successResponse struct {
	Success bool `json:"success"`
}

// handleTelemetry forwards the opt-in and always reports success.
func (h *Handler) handleTelemetry(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	email := q.Get("email")
	github := q.Get("githubAccount")

	if email != "" || github != "" {
		params := url.Values{}
		if email != "" {
			params.Set("email", email)
		}
		if github != "" {
			params.Set("github", github)
		}
		if err := h.telemetry.OptIn(r.Context(), params); err != nil {
			logging.WarnErr("Telemetry", err, "Telemetry opt-in was not delivered")
		}
	}

	writeJSON(w, http.StatusOK, successResponse{Success: true})
}
