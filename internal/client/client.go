package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"terrateam-setup/internal/session"
	setupstrings "terrateam-setup/pkg/strings"
)

// DefaultTimeout bounds every CLI request.
const DefaultTimeout = 10 * time.Second

// Client talks to a running wizard's JSON API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the wizard at baseURL, e.g. http://localhost:3000.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{baseURL: strings.TrimSuffix(baseURL, "/"), httpClient: httpClient}
}

// SessionDetail is the full view of one session, API key included.
type SessionDetail struct {
	SessionID string                   `json:"sessionId"`
	User      session.UserIdentity     `json:"user"`
	Tunnel    session.TunnelCredential `json:"tunnel"`
}

// SessionList is the listing view returned by the wizard.
type SessionList struct {
	Sessions      []session.Summary `json:"sessions"`
	TotalSessions int               `json:"totalSessions"`
}

// ClearResult reports what the wizard removed.
type ClearResult struct {
	SessionID string              `json:"sessionId"`
	Cleared   session.ClearResult `json:"cleared"`
}

// FinalizeResult reports the env file update.
type FinalizeResult struct {
	SessionID string   `json:"sessionId"`
	TunnelURL string   `json:"tunnelUrl"`
	Keys      []string `json:"keys"`
}

// Health is the wizard's liveness report.
type Health struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
}

// ListSessions returns every live session.
func (c *Client) ListSessions(ctx context.Context) (*SessionList, error) {
	var out SessionList
	if err := c.do(ctx, http.MethodGet, "/probot/api/sessions", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetSession returns one session. A missing session is an *APIError with
// IsNotFound true.
func (c *Client) GetSession(ctx context.Context, sessionID string) (*SessionDetail, error) {
	var out SessionDetail
	if err := c.do(ctx, http.MethodGet, "/probot/api/session/"+url.PathEscape(sessionID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ClearSession removes a session.
func (c *Client) ClearSession(ctx context.Context, sessionID string) (*ClearResult, error) {
	var out ClearResult
	if err := c.do(ctx, http.MethodDelete, "/probot/api/session/"+url.PathEscape(sessionID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Finalize writes a session's credentials into the wizard's env file.
func (c *Client) Finalize(ctx context.Context, sessionID string) (*FinalizeResult, error) {
	var out FinalizeResult
	body := map[string]string{"sessionId": sessionID}
	if err := c.do(ctx, http.MethodPost, "/probot/api/finalize", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Health checks that the wizard is up.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var out Health
	if err := c.do(ctx, http.MethodGet, "/healthz", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type envelope struct {
	Success *bool  `json:"success"`
	Error   string `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = strings.NewReader(string(payload))
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &ConnectionError{URL: c.baseURL, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var env envelope
	_ = json.Unmarshal(data, &env)
	if resp.StatusCode >= 300 || (env.Success != nil && !*env.Success) {
		msg := env.Error
		if msg == "" {
			msg = setupstrings.Snippet(string(data), setupstrings.DefaultSnippetLen)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
