package scheduler

import (
	"sync/atomic"
	"testing"
	"time"
)

type countingPurger struct {
	calls atomic.Int32
}

func (p *countingPurger) Purge() int {
	p.calls.Add(1)
	return 1
}

func TestSchedulerRunsPurge(t *testing.T) {
	p := &countingPurger{}
	s := New(p, 20*time.Millisecond, nil)
	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer s.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for p.calls.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if p.calls.Load() < 2 {
		t.Fatalf("expected at least 2 purge runs, got %d", p.calls.Load())
	}
}

func TestSchedulerWithoutPurger(t *testing.T) {
	s := New(nil, time.Minute, nil)
	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	s.Stop()
}
