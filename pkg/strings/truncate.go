package strings

import (
	"strings"
)

// DefaultSnippetLen bounds response bodies quoted in error messages.
const DefaultSnippetLen = 200

// MinTruncateLen is the minimum maxLen value for Snippet.
// Values smaller than this would not leave room for content plus "...".
const MinTruncateLen = 4

// Snippet reduces s to a single line of at most maxLen runes. Whitespace
// runs (including newlines) collapse to one space and truncation is marked
// with "...". maxLen is clamped to MinTruncateLen.
func Snippet(s string, maxLen int) string {
	if maxLen < MinTruncateLen {
		maxLen = MinTruncateLen
	}

	s = strings.Join(strings.Fields(s), " ")

	runes := []rune(s)
	if len(runes) > maxLen {
		return string(runes[:maxLen-3]) + "..."
	}
	return s
}
