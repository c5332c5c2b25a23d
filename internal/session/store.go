package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/rshade/emissionmission/internal/logging"
)

// Store errors.
var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionExpired   = errors.New("session expired")
	ErrInvalidSessionID = errors.New("invalid session id")
)

// Store is an in-memory map of session ID to snapshot with TTL expiry.
// Safe for concurrent use.
type Store struct {
	mu         sync.RWMutex
	entries    map[string]*Entry
	ttlSeconds int
	now        func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore creates a store whose entries live ttl.Seconds after their last write.
// A nil ttl uses DefaultTTLSeconds.
func NewStore(ttl *TTLConfig, opts ...Option) *Store {
	seconds := DefaultTTLSeconds
	if ttl != nil {
		seconds = ttl.Seconds
	}
	s := &Store{
		entries:    make(map[string]*Entry),
		ttlSeconds: seconds,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewID returns a fresh session ID.
func NewID() string {
	return ulid.Make().String()
}

// ValidID reports whether id has the shape of a session ID.
func ValidID(id string) bool {
	_, err := ulid.ParseStrict(id)
	return err == nil
}

// TTL returns the configured lifetime.
func (s *Store) TTL() time.Duration {
	return time.Duration(s.ttlSeconds) * time.Second
}

// Get returns the snapshot for id.
// Expired entries are removed and reported as ErrSessionExpired.
func (s *Store) Get(id string) (Snapshot, error) {
	if !ValidID(id) {
		return Snapshot{}, ErrInvalidSessionID
	}

	s.mu.RLock()
	entry, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok {
		return Snapshot{}, ErrSessionNotFound
	}

	now := s.now()
	if entry.IsExpired(now) {
		s.mu.Lock()
		if cur, still := s.entries[id]; still && cur.IsExpired(now) {
			delete(s.entries, id)
		}
		s.mu.Unlock()
		return Snapshot{}, ErrSessionExpired
	}
	return entry.Snapshot, nil
}

// Put stores snap under id and resets its expiry.
func (s *Store) Put(id string, snap Snapshot) error {
	if !ValidID(id) {
		return ErrInvalidSessionID
	}

	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.entries[id]; ok && !existing.IsExpired(now) {
		existing.Snapshot = snap
		existing.touch(now)
		return nil
	}
	s.entries[id] = newEntry(id, snap, s.ttlSeconds, now)
	return nil
}

// Update applies fn to the current snapshot (zero value if absent or expired)
// and stores the result atomically.
func (s *Store) Update(id string, fn func(Snapshot) Snapshot) (Snapshot, error) {
	if !ValidID(id) {
		return Snapshot{}, ErrInvalidSessionID
	}

	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()

	var current Snapshot
	entry, ok := s.entries[id]
	if ok && !entry.IsExpired(now) {
		current = entry.Snapshot
	}
	next := fn(current)
	if ok && !entry.IsExpired(now) {
		entry.Snapshot = next
		entry.touch(now)
	} else {
		s.entries[id] = newEntry(id, next, s.ttlSeconds, now)
	}
	return next, nil
}

// Delete removes id. Deleting an absent session is not an error.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
}

// Count returns the number of stored entries, expired ones included.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// CleanupExpired removes expired entries and returns how many were removed.
func (s *Store) CleanupExpired() int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, entry := range s.entries {
		if entry.IsExpired(now) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}

// RunJanitor calls CleanupExpired every interval until ctx is done.
func (s *Store) RunJanitor(ctx context.Context, interval time.Duration) error {
	log := logging.FromContext(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := s.CleanupExpired(); n > 0 {
				log.Debug().Ctx(ctx).Str("component", "session").
					Int("removed", n).Int("remaining", s.Count()).
					Msg("expired sessions removed")
			}
		}
	}
}
