package session

import "time"

// Entry is a stored snapshot with its expiry.
type Entry struct {
	ID         string
	Snapshot   Snapshot
	CreatedAt  time.Time
	ExpiresAt  time.Time
	TTLSeconds int
}

func newEntry(id string, snap Snapshot, ttlSeconds int, now time.Time) *Entry {
	return &Entry{
		ID:         id,
		Snapshot:   snap,
		CreatedAt:  now,
		ExpiresAt:  now.Add(time.Duration(ttlSeconds) * time.Second),
		TTLSeconds: ttlSeconds,
	}
}

// IsExpired reports whether now is past the expiry.
func (e *Entry) IsExpired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}

// touch extends the expiry by the entry's TTL from now.
func (e *Entry) touch(now time.Time) {
	e.ExpiresAt = now.Add(time.Duration(e.TTLSeconds) * time.Second)
}
