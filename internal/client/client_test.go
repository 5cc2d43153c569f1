package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", srv.Client())
}

func TestListSessions(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/probot/api/sessions", r.URL.Path)
		_, _ = w.Write([]byte(`{"success":true,"sessions":[{"sessionId":"s1","user":{"login":"octo","id":1},"tunnel":{"tunnel_id":"t1","hasApiKey":true}}],"totalSessions":1}`))
	})

	list, err := c.ListSessions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, list.TotalSessions)
	require.Len(t, list.Sessions, 1)
	assert.Equal(t, "octo", list.Sessions[0].User.Login)
	assert.True(t, list.Sessions[0].Tunnel.HasAPIKey)
}

func TestGetSession_NotFound(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success":false,"error":"Session not found or expired"}`))
	})

	_, err := c.GetSession(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "Session not found or expired")
}

func TestGetSession_EscapesID(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/probot/api/session/a%2Fb", r.URL.EscapedPath())
		_, _ = w.Write([]byte(`{"success":true,"sessionId":"a/b","user":{"login":"u","id":1},"tunnel":{"api_key":"k"}}`))
	})

	detail, err := c.GetSession(context.Background(), "a/b")
	require.NoError(t, err)
	assert.Equal(t, "k", detail.Tunnel.APIKey)
}

func TestClearSession(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		_, _ = w.Write([]byte(`{"success":true,"sessionId":"s1","cleared":{"credentials":true,"session":true}}`))
	})

	res, err := c.ClearSession(context.Background(), "s1")
	require.NoError(t, err)
	assert.True(t, res.Cleared.HadCredential)
	assert.True(t, res.Cleared.HadSession)
}

func TestFinalize(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "s1", body["sessionId"])
		_, _ = w.Write([]byte(`{"success":true,"sessionId":"s1","tunnelUrl":"t.example","keys":["TERRATUNNEL_API_KEY"]}`))
	})

	res, err := c.Finalize(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "t.example", res.TunnelURL)
	assert.Equal(t, []string{"TERRATUNNEL_API_KEY"}, res.Keys)
}

func TestFailureEnvelopeIsError(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"error":"nope"}`))
	})

	_, err := c.Health(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "nope", apiErr.Message)
}

func TestConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	_, err := New(srv.URL, nil).Health(context.Background())
	require.Error(t, err)
	assert.True(t, IsConnectionError(err))
	assert.False(t, IsNotFound(err))
}
