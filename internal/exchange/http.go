package exchange

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"terrateam-setup/pkg/strings"
)

// maxResponseBytes caps how much of a provider response is read.
const maxResponseBytes = 1 << 20

// ErrMalformedResponse is returned when a 2xx response is not the expected JSON.
var ErrMalformedResponse = errors.New("malformed JSON response")

// HTTPError is a non-2xx response from a provider.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// call describes one outbound JSON request.
type call struct {
	method  string
	url     string
	headers map[string]string
	body    any
}

// doJSON performs the call and decodes a 2xx JSON body into out. Non-2xx
// responses become *HTTPError carrying the provider's "message" field when
// the body is JSON, or the raw body otherwise.
func doJSON(ctx context.Context, client *http.Client, c call, out any) error {
	var reader io.Reader
	if c.body != nil {
		payload, err := json.Marshal(c.body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, c.method, c.url, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	if c.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", req.URL.Host, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &HTTPError{StatusCode: resp.StatusCode, Message: errorMessage(body)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v (body: %s)", ErrMalformedResponse, err, strings.Snippet(string(body), 128))
	}
	return nil
}

// errorMessage extracts a provider error message from a response body.
func errorMessage(body []byte) string {
	var parsed struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Message != "" {
		return parsed.Message
	}
	return strings.Snippet(string(body), strings.DefaultSnippetLen)
}
