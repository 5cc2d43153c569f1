package session

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id, err := NewID()
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(id, "session_"))
		// 32 random bytes, unpadded base64url.
		assert.Len(t, strings.TrimPrefix(id, "session_"), 43)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestIDFromRequest(t *testing.T) {
	t.Run("header wins over query", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/probot/tunnel-config?sessionId=from-query", nil)
		req.Header.Set(HeaderSessionID, "from-header")

		id, generated, err := IDFromRequest(req)
		require.NoError(t, err)
		assert.Equal(t, "from-header", id)
		assert.False(t, generated)
	})

	t.Run("query fallback", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/probot/tunnel-config?sessionId=from-query", nil)

		id, generated, err := IDFromRequest(req)
		require.NoError(t, err)
		assert.Equal(t, "from-query", id)
		assert.False(t, generated)
	})

	t.Run("generated when absent", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/probot/tunnel-config", nil)

		id, generated, err := IDFromRequest(req)
		require.NoError(t, err)
		assert.True(t, generated)
		assert.True(t, strings.HasPrefix(id, "session_"))
	})
}
