package session

import "time"

// TunnelCredential is a grant from the tunneling provider plus the upstream
// OAuth token that was used to obtain it.
type TunnelCredential struct {
	TunnelID  string    `json:"tunnel_id"`
	TunnelURL string    `json:"tunnel_url"`
	APIKey    string    `json:"api_key"`
	CreatedAt time.Time `json:"createdAt"`

	// UpstreamToken is the VCS access token. It is kept server-side only.
	UpstreamToken string `json:"-"`
}

// UserIdentity is the authenticated VCS-provider user.
type UserIdentity struct {
	Login     string    `json:"login"`
	ID        int64     `json:"id"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Record pairs the credential and identity of one session.
// Both are always present in a record returned by the store.
type Record struct {
	SessionID string
	Tunnel    TunnelCredential
	User      UserIdentity
}

// TunnelSummary is the listing view of a tunnel credential. The API key is
// reduced to a presence flag.
type TunnelSummary struct {
	TunnelID  string    `json:"tunnel_id"`
	TunnelURL string    `json:"tunnel_url"`
	HasAPIKey bool      `json:"hasApiKey"`
	CreatedAt time.Time `json:"createdAt"`
}

// Summary is one entry of List.
type Summary struct {
	SessionID string         `json:"sessionId"`
	User      UserIdentity   `json:"user"`
	Tunnel    *TunnelSummary `json:"tunnel"`
}

// ClearResult reports what Clear removed.
type ClearResult struct {
	HadCredential bool `json:"credentials"`
	HadSession    bool `json:"session"`
}

// Summarize reduces a credential to its listing view.
func (c TunnelCredential) Summarize() *TunnelSummary {
	return &TunnelSummary{
		TunnelID:  c.TunnelID,
		TunnelURL: c.TunnelURL,
		HasAPIKey: c.APIKey != "",
		CreatedAt: c.CreatedAt,
	}
}
