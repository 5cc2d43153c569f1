package session

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/http"
)

const (
	// HeaderSessionID carries the session id on API requests.
	HeaderSessionID = "X-Session-Id"

	// QueryParamSessionID is the query-string fallback for HeaderSessionID.
	QueryParamSessionID = "sessionId"

	idPrefix  = "session_"
	idEntropy = 32 // bytes
)

// NewID returns a new unguessable session id.
func NewID() (string, error) {
	b := make([]byte, idEntropy)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate session id: %w", err)
	}
	return idPrefix + base64.RawURLEncoding.EncodeToString(b), nil
}

// IDFromRequest returns the session id supplied by the client, or a freshly
// generated one when the request carries none. generated reports which.
func IDFromRequest(r *http.Request) (id string, generated bool, err error) {
	if id = r.Header.Get(HeaderSessionID); id != "" {
		return id, false, nil
	}
	if id = r.URL.Query().Get(QueryParamSessionID); id != "" {
		return id, false, nil
	}
	id, err = NewID()
	if err != nil {
		return "", false, err
	}
	return id, true, nil
}
