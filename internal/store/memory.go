package store

import (
	"context"
	"sync"
	"time"
)

// Revocations records session token ids that were logged out before they
// expired.
type Revocations interface {
	Revoke(ctx context.Context, id string, until time.Time) error
	IsRevoked(ctx context.Context, id string) (bool, error)
}

// MemoryRevocations is a concurrency-safe in-process revocation list.
type MemoryRevocations struct {
	mu sync.RWMutex

	// key: token id, value: token expiry
	data map[string]time.Time

	now func() time.Time
}

// NewMemoryRevocations creates an empty revocation list.
func NewMemoryRevocations() *MemoryRevocations {
	return &MemoryRevocations{
		data: make(map[string]time.Time),
		now:  time.Now,
	}
}

// Revoke marks id as revoked until the given expiry. Revoking an already
// expired id is a no-op.
func (s *MemoryRevocations) Revoke(_ context.Context, id string, until time.Time) error {
	if !until.After(s.now()) {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[id] = until
	return nil
}

// IsRevoked reports whether id is currently revoked.
func (s *MemoryRevocations) IsRevoked(_ context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	until, ok := s.data[id]
	return ok && until.After(s.now()), nil
}

// Purge drops entries whose tokens have expired anyway and returns how many
// were removed.
func (s *MemoryRevocations) Purge() int {
	cutoff := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, until := range s.data {
		if !until.After(cutoff) {
			delete(s.data, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked entries.
func (s *MemoryRevocations) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
