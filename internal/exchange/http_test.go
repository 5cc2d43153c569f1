package exchange

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoJSON(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		contentType string
		body        string
		wantErr     string
		wantValue   string
	}{
		{name: "json ok", status: 200, contentType: "application/json", body: `{"value":"x"}`, wantValue: "x"},
		{name: "non json ok", status: 200, contentType: "text/plain", body: "plain", wantErr: "malformed JSON response"},
		{name: "error with message", status: 404, contentType: "application/json", body: `{"message":"Not Found"}`, wantErr: "HTTP 404: Not Found"},
		{name: "error with raw body", status: 500, contentType: "text/plain", body: "boom", wantErr: "HTTP 500: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
				assert.Equal(t, "ua", r.Header.Get("User-Agent"))
				w.Header().Set("Content-Type", tt.contentType)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			var out struct {
				Value string `json:"value"`
			}
			err := doJSON(context.Background(), srv.Client(), call{
				method:  http.MethodPost,
				url:     srv.URL,
				headers: map[string]string{"User-Agent": "ua"},
				body:    map[string]string{"k": "v"},
			}, &out)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantValue, out.Value)
		})
	}
}

func TestDoJSON_HTTPErrorType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer srv.Close()

	err := doJSON(context.Background(), srv.Client(), call{method: http.MethodGet, url: srv.URL}, nil)

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusTeapot, httpErr.StatusCode)
}
