package labpress

import (
	"sync"
	"time"
)

// LoginLimiter rate-limits failed login attempts per client IP.
type LoginLimiter struct {
	mu       sync.Mutex
	attempts map[string][]time.Time
	max      int
	window   time.Duration
	now      func() time.Time
}

// NewLoginLimiter creates a LoginLimiter that allows max failures per window.
func NewLoginLimiter(max int, window time.Duration) *LoginLimiter {
	return &LoginLimiter{
		attempts: make(map[string][]time.Time),
		max:      max,
		window:   window,
		now:      time.Now,
	}
}

// Check reports whether ip may try again. It does not record an attempt;
// call Record on failure.
func (l *LoginLimiter) Check(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.prune(ip)) < l.max
}

// Record registers a failed login attempt for ip.
func (l *LoginLimiter) Record(ip string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.attempts[ip] = append(l.prune(ip), l.now())
	l.sweep()
}

// Reset forgets ip's failures after a successful login.
func (l *LoginLimiter) Reset(ip string) {
	l.mu.Lock()
	delete(l.attempts, ip)
	l.mu.Unlock()
}

// prune drops attempts outside the window. Callers hold mu.
func (l *LoginLimiter) prune(ip string) []time.Time {
	cutoff := l.now().Add(-l.window)
	hits := l.attempts[ip]
	kept := hits[:0]
	for _, t := range hits {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	if len(kept) == 0 {
		delete(l.attempts, ip)
		return nil
	}
	l.attempts[ip] = kept
	return kept
}

// sweep bounds memory by dropping idle IPs once the map grows. Callers hold mu.
func (l *LoginLimiter) sweep() {
	if len(l.attempts) < 1024 {
		return
	}
	for ip := range l.attempts {
		l.prune(ip)
	}
}
