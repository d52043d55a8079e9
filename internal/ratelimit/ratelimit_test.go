package ratelimit

import (
	"testing"
	"time"
)

func TestLimiter(t *testing.T) {
	t.Run("AllowsBurstUpToConfiguredRate", func(t *testing.T) {
		l := New(60) // 1 req/sec, burst 60

		for i := 0; i < 60; i++ {
			if !l.Allow("client-a") {
				t.Fatalf("request %d should have been allowed within burst", i)
			}
		}
		if l.Allow("client-a") {
			t.Error("request beyond burst should have been denied")
		}
	})

	t.Run("PerClientIsolation", func(t *testing.T) {
		l := New(1)

		if !l.Allow("client-a") {
			t.Fatal("first request from client-a should be allowed")
		}
		if l.Allow("client-a") {
			t.Error("second immediate request from client-a should be denied")
		}
		if !l.Allow("client-b") {
			t.Error("client-b should have its own independent bucket")
		}
	})

	t.Run("ZeroRequestsPerMinuteStillAllowsOne", func(t *testing.T) {
		l := New(0)
		if !l.Allow("client-a") {
			t.Error("burst floor of 1 should allow a single request")
		}
	})
}

func TestCleanupIdle(t *testing.T) {
	l := New(60)
	l.Allow("stale-client")

	l.CleanupIdle(0) // everything seen before "now" is stale

	l.mu.RLock()
	_, exists := l.buckets["stale-client"]
	l.mu.RUnlock()
	if exists {
		t.Error("expected stale bucket to be removed")
	}
}

func TestStartCleanupRoutineStopsOnSignal(t *testing.T) {
	l := New(60)
	stop := make(chan struct{})
	l.StartCleanupRoutine(10*time.Millisecond, time.Millisecond, stop)
	close(stop)
	// No assertion beyond not hanging: the goroutine must observe stop and
	// return, which a leaked-goroutine detector in CI would otherwise catch.
}
