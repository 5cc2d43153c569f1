package cli

import (
	"fmt"

	"terrateam-setup/internal/client"
)

// FriendlyError rewrites client errors into messages that tell the user
// what to do next.
func FriendlyError(endpoint string, err error) error {
	switch {
	case err == nil:
		return nil
	case client.IsConnectionError(err):
		return fmt.Errorf("%w\nIs the wizard running? Start it with 'terrateam-setup serve' or pass --endpoint", err)
	case client.IsNotFound(err):
		return fmt.Errorf("%w\nSessions expire after 24 hours; run 'terrateam-setup sessions list' against %s", err, endpoint)
	default:
		return err
	}
}
