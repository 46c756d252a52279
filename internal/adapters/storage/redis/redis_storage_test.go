package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func newTestStorage(t *testing.T) (*Storage, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	s, err := New(Config{Addr: mr.Addr()})
	if err != nil {
		t.Fatalf("failed to create redis storage: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func TestNew_RequiresAddr(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatalf("expected error for empty address")
	}
}

func TestStorage_RejectsAfterLimit(t *testing.T) {
	s, _ := newTestStorage(t)
	ctx := context.Background()
	now := time.UnixMilli(1_700_000_000_000)

	for i := 0; i < 5; i++ {
		state, err := s.Record(ctx, "ratelimit:10.0.0.1", now.Add(time.Duration(i)*time.Second), time.Minute, 5)
		if err != nil {
			t.Fatalf("unexpected error at attempt %d: %v", i+1, err)
		}
		if !state.Recorded {
			t.Fatalf("expected attempt %d to be recorded", i+1)
		}
	}

	state, err := s.Record(ctx, "ratelimit:10.0.0.1", now.Add(10*time.Second), time.Minute, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.Recorded {
		t.Fatalf("expected sixth attempt to be rejected")
	}
	if state.Count != 5 {
		t.Fatalf("expected count=5, got %d", state.Count)
	}
	if !state.Oldest.Equal(now) {
		t.Fatalf("expected oldest=%s, got %s", now, state.Oldest)
	}
}

func TestStorage_WindowSlides(t *testing.T) {
	s, _ := newTestStorage(t)
	ctx := context.Background()
	now := time.UnixMilli(1_700_000_000_000)

	if _, err := s.Record(ctx, "k", now, time.Minute, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state, _ := s.Record(ctx, "k", now.Add(30*time.Second), time.Minute, 1); state.Recorded {
		t.Fatalf("expected request inside the window to be rejected")
	}
	state, err := s.Record(ctx, "k", now.Add(time.Minute), time.Minute, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !state.Recorded || state.Count != 1 {
		t.Fatalf("expected request after the window to be recorded, got %+v", state)
	}
}

func TestStorage_KeyExpires(t *testing.T) {
	s, mr := newTestStorage(t)
	ctx := context.Background()

	if _, err := s.Record(ctx, "k", time.Now(), time.Minute, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !mr.Exists("k") {
		t.Fatalf("expected key to exist")
	}

	mr.FastForward(61 * time.Second)
	if mr.Exists("k") {
		t.Fatalf("expected idle key to expire")
	}
}
