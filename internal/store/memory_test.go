package store

import (
	"context"
	"testing"
	"time"
)

func TestMemoryRevocations(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	s := NewMemoryRevocations()
	s.now = func() time.Time { return now }

	if err := s.Revoke(ctx, "a", now.Add(time.Hour)); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if err := s.Revoke(ctx, "b", now.Add(2*time.Hour)); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	// Already expired tokens are not tracked.
	if err := s.Revoke(ctx, "old", now.Add(-time.Minute)); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", s.Len())
	}

	if ok, _ := s.IsRevoked(ctx, "a"); !ok {
		t.Fatal("expected a to be revoked")
	}
	if ok, _ := s.IsRevoked(ctx, "unknown"); ok {
		t.Fatal("unknown id must not be revoked")
	}

	now = now.Add(90 * time.Minute)
	if ok, _ := s.IsRevoked(ctx, "a"); ok {
		t.Fatal("expired entry must not report revoked")
	}

	if removed := s.Purge(); removed != 1 {
		t.Fatalf("expected 1 purged entry, got %d", removed)
	}
	if ok, _ := s.IsRevoked(ctx, "b"); !ok {
		t.Fatal("expected b to survive purge")
	}
}
