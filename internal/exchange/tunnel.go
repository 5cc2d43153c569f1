package exchange

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrEmptyTunnelCredential is returned when the tunnel provider answers 2xx
// without an API key.
var ErrEmptyTunnelCredential = errors.New("tunnel exchange returned no api key")

// TunnelUser identifies the account the tunnel is issued for.
type TunnelUser struct {
	Login string `json:"login"`
	ID    int64  `json:"id"`
	Email string `json:"email,omitempty"`
}

// TunnelExchanger trades an upstream token for tunnel credentials.
type TunnelExchanger interface {
	Exchange(ctx context.Context, upstreamToken string, user TunnelUser) (*Tunnel, error)
}

// TunnelClient calls the tunnel provider's exchange endpoint.
type TunnelClient struct {
	url        string
	userAgent  string
	httpClient *http.Client
}

// NewTunnelClient creates a tunnel client for the given exchange URL.
func NewTunnelClient(exchangeURL, userAgent string, httpClient *http.Client) *TunnelClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &TunnelClient{url: exchangeURL, userAgent: userAgent, httpClient: httpClient}
}

type tunnelRequest struct {
	GitHubToken string     `json:"github_token"`
	User        TunnelUser `json:"user"`
}

// Exchange posts the upstream token and user to the provider.
func (c *TunnelClient) Exchange(ctx context.Context, upstreamToken string, user TunnelUser) (*Tunnel, error) {
	var tunnel Tunnel
	err := doJSON(ctx, c.httpClient, call{
		method: http.MethodPost,
		url:    c.url,
		headers: map[string]string{
			"Accept":     "application/json",
			"User-Agent": c.userAgent,
		},
		body: tunnelRequest{GitHubToken: upstreamToken, User: user},
	}, &tunnel)
	if err != nil {
		return nil, fmt.Errorf("tunnel exchange failed: %w", err)
	}
	if tunnel.APIKey == "" {
		return nil, ErrEmptyTunnelCredential
	}
	return &tunnel, nil
}
