package server

import (
	"sync"
	"time"

	"github.com/lawnchairsociety/spelunkicons/internal/config"
)

// RateLimiter counts requests per IP in fixed windows and locks out clients
// that exceed the window budget, doubling the lockout on each repeat.
type RateLimiter struct {
	mu                sync.Mutex
	clients           map[string]*windowInfo
	maxRequests       int
	window            time.Duration
	lockoutSeconds    int
	maxLockoutSeconds int
	cleanupInterval   time.Duration
	stopCleanup       chan struct{}
	stopOnce          sync.Once
	now               func() time.Time
}

type windowInfo struct {
	requests     int
	windowStart  time.Time
	lockedUntil  time.Time
	lockoutCount int // Number of times locked out (for exponential backoff)
}

// NewRateLimiter creates a rate limiter with the given config.
// MaxRequests of 0 disables limiting.
func NewRateLimiter(cfg config.RateLimitConfig) *RateLimiter {
	rl := &RateLimiter{
		clients:           make(map[string]*windowInfo),
		maxRequests:       cfg.MaxRequests,
		window:            time.Duration(cfg.WindowSeconds) * time.Second,
		lockoutSeconds:    cfg.LockoutSeconds,
		maxLockoutSeconds: cfg.MaxLockoutSeconds,
		cleanupInterval:   5 * time.Minute,
		stopCleanup:       make(chan struct{}),
		now:               time.Now,
	}

	// Use sensible defaults if not configured
	if rl.window <= 0 {
		rl.window = time.Minute
	}
	if rl.lockoutSeconds == 0 {
		rl.lockoutSeconds = 30
	}
	if rl.maxLockoutSeconds == 0 {
		rl.maxLockoutSeconds = 300
	}

	if rl.maxRequests > 0 {
		go rl.cleanupLoop()
	}

	return rl
}

// Stop stops the cleanup goroutine. It is safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCleanup) })
}

// Enabled reports whether requests are being counted.
func (rl *RateLimiter) Enabled() bool {
	return rl.maxRequests > 0
}

// Allow records one request from ip. It returns false, with the time left on
// the lockout, when the client is locked out or has just used up its window.
func (rl *RateLimiter) Allow(ip string) (bool, time.Duration) {
	if !rl.Enabled() {
		return true, 0
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	info, exists := rl.clients[ip]
	if !exists {
		info = &windowInfo{windowStart: now}
		rl.clients[ip] = info
	}

	if now.Before(info.lockedUntil) {
		return false, info.lockedUntil.Sub(now)
	}

	if now.Sub(info.windowStart) >= rl.window {
		info.requests = 0
		info.windowStart = now
	}

	info.requests++
	if info.requests > rl.maxRequests {
		info.lockoutCount++
		lockout := rl.lockoutFor(info.lockoutCount)
		info.lockedUntil = now.Add(lockout)
		info.requests = 0 // Fresh window once the lockout ends
		info.windowStart = info.lockedUntil
		return false, lockout
	}

	return true, 0
}

// lockoutFor doubles the base lockout for every previous lockout, up to max.
func (rl *RateLimiter) lockoutFor(count int) time.Duration {
	lockout := time.Duration(rl.lockoutSeconds) * time.Second
	maxDuration := time.Duration(rl.maxLockoutSeconds) * time.Second
	for i := 1; i < count; i++ {
		// Check before multiplication to prevent overflow
		if lockout >= maxDuration/2 {
			return maxDuration
		}
		lockout *= 2
	}
	if lockout > maxDuration {
		lockout = maxDuration
	}
	return lockout
}

// IsLocked checks if the given IP is currently locked out.
func (rl *RateLimiter) IsLocked(ip string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	info, exists := rl.clients[ip]
	if !exists {
		return false, 0
	}

	now := rl.now()
	if now.Before(info.lockedUntil) {
		return true, info.lockedUntil.Sub(now)
	}
	return false, 0
}

// GetRequests returns the request count in the current window for an IP.
func (rl *RateLimiter) GetRequests(ip string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if info, exists := rl.clients[ip]; exists {
		return info.requests
	}
	return 0
}

// cleanupLoop periodically removes expired entries.
func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stopCleanup:
			return
		case <-ticker.C:
			rl.cleanup()
		}
	}
}

// cleanup drops clients whose window and lockout both ended over ten minutes ago.
func (rl *RateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-10 * time.Minute)
	for ip, info := range rl.clients {
		if info.lockedUntil.Before(cutoff) && info.windowStart.Add(rl.window).Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}
