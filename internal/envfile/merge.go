package envfile

import (
	"regexp"
	"sort"
	"strings"

	"terrateam-setup/internal/session"
)

// Keys written by the finalize step.
const (
	KeyTunnelAPIKey = "TERRATUNNEL_API_KEY"
	KeyUIBase       = "TERRAT_UI_BASE"
)

var blankRun = regexp.MustCompile(`\n\s*\n`)

// Merge replaces every KEY=... line of existing whose key is in updates and
// appends the new values in sorted key order. Blank-line runs are collapsed
// and the result always ends with a newline. Unrelated lines keep their
// order.
func Merge(existing string, updates map[string]string) string {
	content := existing
	keys := make([]string, 0, len(updates))
	for key := range updates {
		keys = append(keys, key)
		content = keyLine(key).ReplaceAllString(content, "")
	}
	sort.Strings(keys)

	content = blankRun.ReplaceAllString(content, "\n")
	content = strings.TrimLeft(content, "\n")
	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}

	var b strings.Builder
	b.WriteString(content)
	for _, key := range keys {
		value := updates[key]
		if key == KeyUIBase {
			value = NormalizeURL(value)
		}
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(value)
		b.WriteByte('\n')
	}
	return b.String()
}

func keyLine(key string) *regexp.Regexp {
	return regexp.MustCompile(`(?m)^` + regexp.QuoteMeta(key) + `=.*$`)
}

// NormalizeURL prefixes https:// unless the value already carries an http
// or https scheme.
func NormalizeURL(raw string) string {
	if raw == "" || strings.HasPrefix(raw, "https://") || strings.HasPrefix(raw, "http://") {
		return raw
	}
	return "https://" + raw
}

// CredentialUpdates returns the env entries for a tunnel credential. The UI
// base is only set when the credential has a URL.
func CredentialUpdates(tunnel session.TunnelCredential) map[string]string {
	updates := map[string]string{KeyTunnelAPIKey: tunnel.APIKey}
	if tunnel.TunnelURL != "" {
		updates[KeyUIBase] = tunnel.TunnelURL
	}
	return updates
}

// SortedKeys returns the keys of updates in the order Merge writes them.
func SortedKeys(updates map[string]string) []string {
	keys := make([]string, 0, len(updates))
	for key := range updates {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
