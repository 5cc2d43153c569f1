package wizard

import (
	"net/http"

	"terrateam-setup/internal/session"
	"terrateam-setup/pkg/logging"
)

const errSessionNotFound = "Session not found or expired"

type sessionResponse struct {
	Success   bool                     `json:"success"`
	SessionID string                   `json:"sessionId"`
	User      session.UserIdentity     `json:"user"`
	Tunnel    session.TunnelCredential `json:"tunnel"`
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "Session ID required")
		return
	}

	rec, ok := h.sessions.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, errSessionNotFound)
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{
		Success:   true,
		SessionID: id,
		User:      rec.User,
		Tunnel:    rec.Tunnel,
	})
}

type listResponse struct {
	Success       bool              `json:"success"`
	Sessions      []session.Summary `json:"sessions"`
	TotalSessions int               `json:"totalSessions"`
}

func (h *Handler) handleListSessions(w http.ResponseWriter, r *http.Request) {
	summaries := h.sessions.List()
	if summaries == nil {
		summaries = []session.Summary{}
	}
	writeJSON(w, http.StatusOK, listResponse{
		Success:       true,
		Sessions:      summaries,
		TotalSessions: len(summaries),
	})
}

type clearResponse struct {
	Success   bool                `json:"success"`
	SessionID string              `json:"sessionId"`
	Cleared   session.ClearResult `json:"cleared"`
}

func (h *Handler) handleClearSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "Session ID required")
		return
	}

	cleared := h.sessions.Clear(id)
	if cleared.HadSession {
		logging.Info("Wizard", "Cleared session %s", id)
	}
	writeJSON(w, http.StatusOK, clearResponse{Success: true, SessionID: id, Cleared: cleared})
}

type sessionIDResponse struct {
	SessionID string `json:"sessionId"`
	Generated bool   `json:"generated"`
}

// handleSessionID resolves the session id for the tunnel configuration step.
func (h *Handler) handleSessionID(w http.ResponseWriter, r *http.Request) {
	id, generated, err := session.IDFromRequest(r)
	if err != nil {
		logging.Error("Wizard", err, "Failed to generate session id")
		writeError(w, http.StatusInternalServerError, "Failed to generate session id")
		return
	}
	if generated {
		logging.Debug("Wizard", "Generated new session id")
	}
	writeJSON(w, http.StatusOK, sessionIDResponse{SessionID: id, Generated: generated})
}
