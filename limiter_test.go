package labpress

import (
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLimiter(max int, window time.Duration) (*LoginLimiter, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	l := NewLoginLimiter(max, window)
	l.now = clock.now
	return l, clock
}

func TestLoginLimiterBlocksAfterMax(t *testing.T) {
	limiter, _ := newTestLimiter(2, time.Minute)
	ip := "203.0.113.10"

	for i := 0; i < 2; i++ {
		if !limiter.Check(ip) {
			t.Fatalf("expected attempt %d to be allowed", i+1)
		}
		limiter.Record(ip)
	}
	if limiter.Check(ip) {
		t.Fatalf("expected third attempt to be blocked")
	}
}

func TestLoginLimiterCheckDoesNotRecord(t *testing.T) {
	limiter, _ := newTestLimiter(1, time.Minute)
	for i := 0; i < 5; i++ {
		if !limiter.Check("203.0.113.11") {
			t.Fatalf("check %d blocked without any recorded failure", i+1)
		}
	}
}

func TestLoginLimiterResetsAfterWindow(t *testing.T) {
	limiter, clock := newTestLimiter(1, time.Minute)
	ip := "203.0.113.20"

	limiter.Record(ip)
	if limiter.Check(ip) {
		t.Fatalf("expected attempt inside window to be blocked")
	}

	clock.advance(time.Minute + time.Second)
	if !limiter.Check(ip) {
		t.Fatalf("expected attempt after window to be allowed")
	}
}

func TestLoginLimiterIsPerIP(t *testing.T) {
	limiter, _ := newTestLimiter(1, time.Minute)

	limiter.Record("203.0.113.30")
	if !limiter.Check("203.0.113.31") {
		t.Fatalf("expected second ip to be allowed independently")
	}
	if limiter.Check("203.0.113.30") {
		t.Fatalf("expected first ip to be blocked after max")
	}
}

func TestLoginLimiterReset(t *testing.T) {
	limiter, _ := newTestLimiter(1, time.Minute)
	ip := "203.0.113.40"

	limiter.Record(ip)
	limiter.Reset(ip)
	if !limiter.Check(ip) {
		t.Fatalf("expected ip to be allowed after reset")
	}
}
