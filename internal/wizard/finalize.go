package wizard

import (
	"net/http"

	"terrateam-setup/internal/envfile"
	"terrateam-setup/internal/session"
	"terrateam-setup/pkg/logging"
)

type finalizeRequest struct {
	SessionID string          `json:"sessionId" validate:"omitempty,max=256,printascii"`
	Tunnel    *finalizeTunnel `json:"tunnel"`
}

// finalizeTunnel carries credentials the browser kept from the exchange.
// They still finalize after the session has been swept or the server
// restarted.
type finalizeTunnel struct {
	APIKey    string `json:"api_key" validate:"required,max=512,printascii"`
	TunnelURL string `json:"tunnel_url" validate:"omitempty,max=2048,printascii"`
}

type finalizeResponse struct {
	Success   bool     `json:"success"`
	SessionID string   `json:"sessionId"`
	TunnelURL string   `json:"tunnelUrl,omitempty"`
	Keys      []string `json:"keys"`
}

// handleFinalize writes tunnel credentials into the env file. Credentials in
// the request body take precedence over the stored session.
func (h *Handler) handleFinalize(w http.ResponseWriter, r *http.Request) {
	var body finalizeRequest
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validate.Struct(body); err != nil {
		if body.Tunnel != nil && body.Tunnel.APIKey == "" {
			writeError(w, http.StatusBadRequest, "Tunnel API key required")
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid finalize request")
		return
	}

	var tunnel session.TunnelCredential
	switch {
	case body.Tunnel != nil:
		tunnel = session.TunnelCredential{APIKey: body.Tunnel.APIKey, TunnelURL: body.Tunnel.TunnelURL}
	case body.SessionID == "":
		writeError(w, http.StatusBadRequest, "Session ID required")
		return
	default:
		rec, ok := h.sessions.Get(body.SessionID)
		if !ok {
			writeError(w, http.StatusNotFound, errSessionNotFound)
			return
		}
		tunnel = rec.Tunnel
	}

	updates := envfile.CredentialUpdates(tunnel)
	if err := h.envFile.Apply(updates); err != nil {
		logging.Error("Wizard", err, "Failed to write credentials (session=%s)", body.SessionID)
		writeError(w, http.StatusInternalServerError, "Failed to update environment file")
		return
	}

	writeJSON(w, http.StatusOK, finalizeResponse{
		Success:   true,
		SessionID: body.SessionID,
		TunnelURL: h.tunnelURL(tunnel.TunnelURL),
		Keys:      envfile.SortedKeys(updates),
	})
}

// tunnelURL prefers the session's URL and falls back to the UI base already
// recorded in the env file.
func (h *Handler) tunnelURL(fromSession string) string {
	if fromSession != "" {
		return fromSession
	}
	value, ok, err := h.envFile.Lookup(envfile.KeyUIBase)
	if err != nil {
		logging.WarnErr("Wizard", err, "Failed to read %s from env file", envfile.KeyUIBase)
		return ""
	}
	if !ok {
		return ""
	}
	return value
}
