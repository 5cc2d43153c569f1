package exchange

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"terrateam-setup/pkg/logging"
)

// Development mode fixtures.
const (
	devUserLogin = "dev_user"
	devUserID    = 123456
	devUserName  = "Development User"
	devUserEmail = "dev@example.com"
	devTunnelDom = "tunnel.terrateam.dev"
)

// devExchange fabricates a successful run without any network call. The
// session store is still populated so later wizard steps behave as usual.
func (e *Engine) devExchange(req Request) Result {
	now := e.now().UnixMilli()

	user := &User{
		Login:     devUserLogin,
		ID:        devUserID,
		AvatarURL: "https://github.com/identicons/" + devUserLogin + ".png",
		Name:      devUserName,
		Email:     devUserEmail,
	}
	tunnel := &Tunnel{
		TunnelID:  fmt.Sprintf("dev_tunnel_%d", now),
		TunnelURL: fmt.Sprintf("dev-tunnel-%d.%s", now, devTunnelDom),
		APIKey:    "dev_api_key_" + randomSuffix(),
	}
	token := "mock_token_" + req.Code

	logging.Info("Exchange", "Development mode: returning mock credentials for code exchange")

	if req.SessionID != "" {
		e.store(req.SessionID, tunnel, user, token)
	}

	return Result{
		Success:     true,
		AccessToken: token,
		User:        user,
		Tunnel:      tunnel,
		SessionID:   req.SessionID,
	}
}

func randomSuffix() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "00000000"
	}
	return hex.EncodeToString(b)
}
