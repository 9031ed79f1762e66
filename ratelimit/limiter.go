package ratelimit

import (
	"context"
	"sync"
	"time"

	"pixbatch/logger"
)

// UnknownIdentity is substituted when a caller's identity cannot be
// determined. Such callers share one admission record rather than being
// rejected outright.
const UnknownIdentity = "unknown"

// record tracks one caller identity inside the current fixed window.
type record struct {
	count       int
	windowStart time.Time
}

// Limiter admits or denies job submissions per caller identity using
// fixed-window counting. Races on the window reset are tolerated; this is
// soft admission control, not a security boundary.
type Limiter struct {
	mu      sync.Mutex
	max     int
	window  time.Duration
	records map[string]*record

	now func() time.Time // overridable in tests
}

// New creates a limiter allowing max submissions per identity per window.
func New(max int, window time.Duration) *Limiter {
	return &Limiter{
		max:     max,
		window:  window,
		records: make(map[string]*record),
		now:     time.Now,
	}
}

// Allow reports whether the identity may create another job right now.
// The first request from an identity opens a window; requests within the
// window count toward max; once the window has elapsed the record resets to
// a fresh window regardless of its previous count.
func (l *Limiter) Allow(identity string) bool {
	if identity == "" {
		identity = UnknownIdentity
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	rec, ok := l.records[identity]
	if !ok || now.Sub(rec.windowStart) >= l.window {
		l.records[identity] = &record{count: 1, windowStart: now}
		return true
	}
	if rec.count < l.max {
		rec.count++
		return true
	}
	return false
}

// Sweep drops records whose window has expired, bounding memory to
// identities active within the last window.
func (l *Limiter) Sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for identity, rec := range l.records {
		if now.Sub(rec.windowStart) >= l.window {
			delete(l.records, identity)
		}
	}
}

// StartSweeper runs Sweep on the given interval until the context is done.
func (l *Limiter) StartSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Debug("rate limiter sweeper stopped")
			return
		case <-ticker.C:
			l.Sweep()
		}
	}
}

// Size returns the number of tracked identities.
func (l *Limiter) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}
