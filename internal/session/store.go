package session

import (
	"context"
	"sync"
	"time"

	"terrateam-setup/pkg/logging"
)

const (
	// DefaultMaxAge is how long a session lives after its first exchange.
	DefaultMaxAge = 24 * time.Hour

	// DefaultSweepInterval is how often expired sessions are evicted.
	DefaultSweepInterval = time.Hour
)

// entry holds both halves of a session so that readers see them together.
type entry struct {
	tunnel TunnelCredential
	user   UserIdentity
}

// Store provides thread-safe in-memory storage for wizard sessions.
// A single lock guards the whole map; expected load is one operator.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*entry
	order   []string // insertion order for List

	maxAge        time.Duration
	sweepInterval time.Duration
	now           func() time.Time

	startOnce sync.Once
	stopOnce  sync.Once
	stopSweep chan struct{}
	sweepDone chan struct{}
}

// Option configures a Store.
type Option func(*Store)

// WithMaxAge sets the age after which the sweeper evicts a session.
func WithMaxAge(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.maxAge = d
		}
	}
}

// WithSweepInterval sets how often the sweeper runs.
func WithSweepInterval(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.sweepInterval = d
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore creates an empty store. The sweeper does not run until Run.
func NewStore(opts ...Option) *Store {
	s := &Store{
		entries:       make(map[string]*entry),
		maxAge:        DefaultMaxAge,
		sweepInterval: DefaultSweepInterval,
		now:           time.Now,
		stopSweep:     make(chan struct{}),
		sweepDone:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MaxAge returns the configured session lifetime.
func (s *Store) MaxAge() time.Duration {
	return s.maxAge
}

// Put stores the credential and identity for a session in one step.
// CreatedAt is stamped only when the session is new; an overwrite keeps the
// original timestamps so the session's age counts from its first exchange.
func (s *Store) Put(sessionID string, tunnel TunnelCredential, user UserIdentity) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.entries[sessionID]; ok {
		tunnel.CreatedAt = existing.tunnel.CreatedAt
		user.CreatedAt = existing.user.CreatedAt
		s.entries[sessionID] = &entry{tunnel: tunnel, user: user}
		logging.Debug("SessionStore", "Updated credentials for session=%s key=%s", sessionID, logging.TruncateSecret(tunnel.APIKey))
		return
	}

	now := s.now()
	tunnel.CreatedAt = now
	user.CreatedAt = now
	s.entries[sessionID] = &entry{tunnel: tunnel, user: user}
	s.order = append(s.order, sessionID)
	logging.Debug("SessionStore", "Stored credentials for session=%s user=%s key=%s",
		sessionID, user.Login, logging.TruncateSecret(tunnel.APIKey))
}

// Get returns the record for a session, or false if there is none.
func (s *Store) Get(sessionID string) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[sessionID]
	if !ok {
		return Record{}, false
	}
	return Record{SessionID: sessionID, Tunnel: e.tunnel, User: e.user}, true
}

// List returns a snapshot of every session with the API key redacted.
func (s *Store) List() []Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Summary, 0, len(s.entries))
	for _, id := range s.order {
		e, ok := s.entries[id]
		if !ok {
			continue
		}
		out = append(out, Summary{
			SessionID: id,
			User:      e.user,
			Tunnel:    e.tunnel.Summarize(),
		})
	}
	return out
}

// Clear removes a session and reports what was present.
func (s *Store) Clear(sessionID string) ClearResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.entries[sessionID]
	if !ok {
		return ClearResult{}
	}
	s.removeLocked(sessionID)
	logging.Debug("SessionStore", "Cleared session=%s", sessionID)
	return ClearResult{HadCredential: true, HadSession: true}
}

// Len returns the number of sessions held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// SweepExpired removes every session whose credential is older than maxAge
// at now, and returns how many were removed.
func (s *Store) SweepExpired(now time.Time, maxAge time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var expired []string
	for id, e := range s.entries {
		if now.Sub(e.tunnel.CreatedAt) > maxAge {
			expired = append(expired, id)
		}
	}
	for _, id := range expired {
		s.removeLocked(id)
		logging.Info("SessionStore", "Cleaned up expired session: %s", id)
	}
	if len(expired) > 0 {
		logging.Info("SessionStore", "Cleaned up %d expired sessions", len(expired))
	}
	return len(expired)
}

// removeLocked deletes a session. The caller must hold the write lock.
func (s *Store) removeLocked(sessionID string) {
	delete(s.entries, sessionID)
	for i, id := range s.order {
		if id == sessionID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Run sweeps expired sessions until ctx is done or Stop is called. It
// returns at once when the sweeper is already running.
func (s *Store) Run(ctx context.Context) error {
	claimed := false
	s.startOnce.Do(func() {
		claimed = true
	})
	if !claimed {
		return nil
	}
	s.sweepLoop(ctx)
	return nil
}

// Stop halts the sweeper and waits for it to exit. Safe to call repeatedly
// and on a store that was never started.
func (s *Store) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopSweep)
	})
	started := true
	s.startOnce.Do(func() {
		started = false
		close(s.sweepDone)
	})
	if started {
		<-s.sweepDone
	}
}

// sweepLoop periodically evicts expired sessions.
func (s *Store) sweepLoop(ctx context.Context) {
	defer close(s.sweepDone)

	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	logging.Debug("SessionStore", "Sweeper started (interval=%s max_age=%s)", s.sweepInterval, s.maxAge)

	for {
		select {
		case <-ticker.C:
			s.SweepExpired(s.now(), s.maxAge)
		case <-s.stopSweep:
			return
		case <-ctx.Done():
			return
		}
	}
}
