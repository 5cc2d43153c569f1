package wizard

import (
	"net/http"

	"terrateam-setup/internal/exchange"
	"terrateam-setup/internal/session"
)

type exchangeRequest struct {
	Code      string `json:"code"`
	State     string `json:"state"`
	SessionID string `json:"sessionId"`
	Tunnel    *bool  `json:"tunnel"`
}

// handleOAuthExchange answers 200 for every outcome; callers inspect the
// success field.
func (h *Handler) handleOAuthExchange(w http.ResponseWriter, r *http.Request) {
	var body exchangeRequest
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if body.Code == "" {
		writeJSON(w, http.StatusOK, errorResponse{Success: false, Error: "No authorization code provided"})
		return
	}

	sessionID := body.SessionID
	if sessionID == "" {
		sessionID = r.Header.Get(session.HeaderSessionID)
	}

	result := h.exchanger.Exchange(r.Context(), exchange.Request{
		Code:       body.Code,
		SessionID:  sessionID,
		WantTunnel: body.Tunnel != nil && *body.Tunnel,
	})
	writeJSON(w, http.StatusOK, result)
}
