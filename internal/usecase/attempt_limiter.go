package usecase

import (
	"sync"
	"time"
)

// attemptState tracks failed password attempts for one client within the
// current window.
type attemptState struct {
	failures    int
	windowStart time.Time
}

// AttemptLimiter bounds failed password attempts per client identifier. It
// lives in process memory only; state is intentionally not persisted across
// restarts. The clock is injected so tests can drive window expiry.
type AttemptLimiter struct {
	mu       sync.Mutex
	attempts map[string]*attemptState

	maxFailures int
	window      time.Duration
	now         func() time.Time
}

// NewAttemptLimiter creates a limiter allowing maxFailures failed attempts
// per window. A nil clock falls back to time.Now.
func NewAttemptLimiter(maxFailures int, window time.Duration, clock func() time.Time) *AttemptLimiter {
	if clock == nil {
		clock = time.Now
	}
	return &AttemptLimiter{
		attempts:    make(map[string]*attemptState),
		maxFailures: maxFailures,
		window:      window,
		now:         clock,
	}
}

// Allow reports whether the client may attempt a password check. Expired
// windows are evicted lazily here.
func (l *AttemptLimiter) Allow(client string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	state, ok := l.attempts[client]
	if !ok {
		return true
	}
	if l.now().Sub(state.windowStart) >= l.window {
		delete(l.attempts, client)
		return true
	}
	return state.failures < l.maxFailures
}

// RecordFailure registers a failed attempt for the client.
func (l *AttemptLimiter) RecordFailure(client string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	state, ok := l.attempts[client]
	if !ok || now.Sub(state.windowStart) >= l.window {
		l.attempts[client] = &attemptState{failures: 1, windowStart: now}
		return
	}
	state.failures++
}

// Reset clears attempt state for the client after a successful check.
func (l *AttemptLimiter) Reset(client string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.attempts, client)
}
