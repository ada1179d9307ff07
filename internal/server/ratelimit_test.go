package server

import (
	"testing"
	"time"

	"github.com/lawnchairsociety/spelunkicons/internal/config"
)

// fakeClock lets tests step a limiter through time.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLimiter(t *testing.T, cfg config.RateLimitConfig) (*RateLimiter, *fakeClock) {
	t.Helper()
	rl := NewRateLimiter(cfg)
	t.Cleanup(rl.Stop)
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	rl.now = clock.now
	return rl, clock
}

func TestRateLimiter_Basic(t *testing.T) {
	rl, _ := newTestLimiter(t, config.RateLimitConfig{
		MaxRequests:       3,
		WindowSeconds:     60,
		LockoutSeconds:    1,
		MaxLockoutSeconds: 10,
	})

	ip := "192.168.1.1"
	for i := 0; i < 3; i++ {
		if ok, _ := rl.Allow(ip); !ok {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}

	ok, lockout := rl.Allow(ip)
	if ok {
		t.Fatal("fourth request should be rejected")
	}
	if lockout != time.Second {
		t.Errorf("lockout = %v, want 1s", lockout)
	}

	if locked, _ := rl.IsLocked(ip); !locked {
		t.Error("IP should be locked")
	}

	// Other clients are unaffected
	if ok, _ := rl.Allow("192.168.1.2"); !ok {
		t.Error("different IP should be allowed")
	}
}

func TestRateLimiter_WindowResets(t *testing.T) {
	rl, clock := newTestLimiter(t, config.RateLimitConfig{
		MaxRequests:   2,
		WindowSeconds: 10,
	})

	ip := "192.168.1.1"
	rl.Allow(ip)
	rl.Allow(ip)
	if got := rl.GetRequests(ip); got != 2 {
		t.Errorf("GetRequests = %d, want 2", got)
	}

	clock.advance(10 * time.Second)
	if ok, _ := rl.Allow(ip); !ok {
		t.Error("request in a new window should be allowed")
	}
	if got := rl.GetRequests(ip); got != 1 {
		t.Errorf("GetRequests after reset = %d, want 1", got)
	}
}

func TestRateLimiter_LockoutExpires(t *testing.T) {
	rl, clock := newTestLimiter(t, config.RateLimitConfig{
		MaxRequests:       1,
		WindowSeconds:     60,
		LockoutSeconds:    5,
		MaxLockoutSeconds: 60,
	})

	ip := "192.168.1.1"
	rl.Allow(ip)
	if ok, _ := rl.Allow(ip); ok {
		t.Fatal("second request should trigger lockout")
	}

	clock.advance(2 * time.Second)
	ok, remaining := rl.Allow(ip)
	if ok {
		t.Error("request during lockout should be rejected")
	}
	if remaining != 3*time.Second {
		t.Errorf("remaining = %v, want 3s", remaining)
	}

	clock.advance(3 * time.Second)
	if locked, _ := rl.IsLocked(ip); locked {
		t.Error("lockout should have expired")
	}
	if ok, _ := rl.Allow(ip); !ok {
		t.Error("request after lockout should be allowed")
	}
}

func TestRateLimiter_ExponentialBackoff(t *testing.T) {
	rl, clock := newTestLimiter(t, config.RateLimitConfig{
		MaxRequests:       1,
		WindowSeconds:     60,
		LockoutSeconds:    10,
		MaxLockoutSeconds: 60,
	})

	ip := "192.168.1.1"
	want := []time.Duration{10 * time.Second, 20 * time.Second, 40 * time.Second, 60 * time.Second, 60 * time.Second}
	for i, expected := range want {
		rl.Allow(ip)
		ok, lockout := rl.Allow(ip)
		if ok {
			t.Fatalf("round %d: expected lockout", i+1)
		}
		if lockout != expected {
			t.Errorf("round %d: lockout = %v, want %v", i+1, lockout, expected)
		}
		clock.advance(lockout)
	}
}

func TestRateLimiter_Disabled(t *testing.T) {
	rl, _ := newTestLimiter(t, config.RateLimitConfig{MaxRequests: 0})
	if rl.Enabled() {
		t.Error("limiter with MaxRequests 0 should be disabled")
	}
	for i := 0; i < 1000; i++ {
		if ok, _ := rl.Allow("192.168.1.1"); !ok {
			t.Fatalf("request %d rejected while disabled", i)
		}
	}
}

func TestRateLimiter_Cleanup(t *testing.T) {
	rl, clock := newTestLimiter(t, config.RateLimitConfig{
		MaxRequests:   5,
		WindowSeconds: 60,
	})

	rl.Allow("192.168.1.1")
	clock.advance(5 * time.Minute)
	rl.Allow("192.168.1.2")

	clock.advance(7 * time.Minute)
	rl.cleanup()

	rl.mu.Lock()
	_, oldKept := rl.clients["192.168.1.1"]
	_, newKept := rl.clients["192.168.1.2"]
	rl.mu.Unlock()

	if oldKept {
		t.Error("stale client should be removed")
	}
	if !newKept {
		t.Error("recent client should be kept")
	}
}

func TestRateLimiter_StopTwice(t *testing.T) {
	rl := NewRateLimiter(config.RateLimitConfig{MaxRequests: 1})
	rl.Stop()
	rl.Stop()
}
