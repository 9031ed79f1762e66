package ratelimit

import (
	"testing"
	"time"
)

// fakeClock lets tests move time forward without sleeping.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time {
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func newTestLimiter(max int, window time.Duration) (*Limiter, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	l := New(max, window)
	l.now = clock.now
	return l, clock
}

func TestAllowWithinWindow(t *testing.T) {
	l, _ := newTestLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !l.Allow("10.0.0.1") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if l.Allow("10.0.0.1") {
		t.Error("fourth request in window should be denied")
	}
}

func TestDenialDoesNotAffectOtherIdentities(t *testing.T) {
	l, _ := newTestLimiter(1, time.Minute)

	if !l.Allow("10.0.0.1") {
		t.Fatal("first request should be allowed")
	}
	if l.Allow("10.0.0.1") {
		t.Error("second request should be denied")
	}
	if !l.Allow("10.0.0.2") {
		t.Error("different identity should be allowed")
	}
}

func TestWindowRollover(t *testing.T) {
	l, clock := newTestLimiter(2, time.Minute)

	l.Allow("10.0.0.1")
	l.Allow("10.0.0.1")
	if l.Allow("10.0.0.1") {
		t.Fatal("third request in window should be denied")
	}

	clock.advance(time.Minute)
	if !l.Allow("10.0.0.1") {
		t.Error("request after window rollover should be allowed")
	}
	if !l.Allow("10.0.0.1") {
		t.Error("second request in fresh window should be allowed")
	}
	if l.Allow("10.0.0.1") {
		t.Error("third request in fresh window should be denied")
	}
}

func TestEmptyIdentityFallsBack(t *testing.T) {
	l, _ := newTestLimiter(1, time.Minute)

	if !l.Allow("") {
		t.Fatal("first anonymous request should be allowed")
	}
	// Empty identities share the fallback record.
	if l.Allow(UnknownIdentity) {
		t.Error("fallback record should be exhausted")
	}
}

func TestSweepRemovesStaleRecords(t *testing.T) {
	l, clock := newTestLimiter(5, time.Minute)

	l.Allow("10.0.0.1")
	l.Allow("10.0.0.2")
	if l.Size() != 2 {
		t.Fatalf("expected 2 tracked identities, got %d", l.Size())
	}

	clock.advance(30 * time.Second)
	l.Allow("10.0.0.3")
	clock.advance(30 * time.Second)

	l.Sweep()
	if l.Size() != 1 {
		t.Errorf("expected 1 tracked identity after sweep, got %d", l.Size())
	}
}
