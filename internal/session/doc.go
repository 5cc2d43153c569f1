// Package session holds the wizard's short-lived, server-side session
// records.
//
// A session pairs the tunnel credential obtained during the OAuth exchange
// with the identity of the user who authenticated. The two halves are always
// written and removed together, so a reader never sees one without the
// other.
//
// The Store is created once at process start and injected into the exchange
// engine and the HTTP layer. Sessions are evicted by a background sweeper
// once they are older than the configured maximum age (24h by default,
// checked every hour). Run blocks while sweeping; cancelling its context or
// calling Stop ends it:
//
//	store := session.NewStore(session.WithMaxAge(24*time.Hour))
//	go store.Run(ctx)
//	defer store.Stop()
//
// Nothing is persisted; a restart drops every session.
package session
