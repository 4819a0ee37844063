package chi

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiter_BurstThenReject(t *testing.T) {
	rl := NewRateLimiter(1, 2, time.Minute)
	now := time.Unix(1000, 0)
	rl.now = func() time.Time { return now }

	if !rl.Allow("10.0.0.1") || !rl.Allow("10.0.0.1") {
		t.Fatal("burst of 2 should be allowed")
	}
	if rl.Allow("10.0.0.1") {
		t.Fatal("third request within the same instant should be rejected")
	}
	if !rl.Allow("10.0.0.2") {
		t.Fatal("other clients have their own bucket")
	}

	now = now.Add(time.Second)
	if !rl.Allow("10.0.0.1") {
		t.Fatal("bucket should refill after one second")
	}
}

func TestRateLimiter_SweepsIdleClients(t *testing.T) {
	rl := NewRateLimiter(1, 1, time.Minute)
	now := time.Unix(1000, 0)
	rl.now = func() time.Time { return now }

	rl.Allow("10.0.0.1")
	now = now.Add(2 * time.Minute)
	rl.Allow("10.0.0.2")

	if _, ok := rl.limiters["10.0.0.1"]; ok {
		t.Error("idle client should have been swept")
	}
	if len(rl.limiters) != 1 {
		t.Errorf("limiters: got %d, want 1", len(rl.limiters))
	}
}

func TestRateLimitMiddleware_429(t *testing.T) {
	handler := RateLimitMiddleware(1, 1)(okHandler())

	codes := make([]int, 0, 2)
	for range 2 {
		req := httptest.NewRequest("GET", "/indexes", http.NoBody)
		req.RemoteAddr = "192.0.2.1:1234"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Errorf("codes: got %v, want [200 429]", codes)
	}
}

func TestRateLimitMiddleware_Disabled(t *testing.T) {
	handler := RateLimitMiddleware(0, 0)(okHandler())

	for range 5 {
		req := httptest.NewRequest("GET", "/indexes", http.NoBody)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("disabled limiter: got %d", rr.Code)
		}
	}
}

func TestRateLimitMiddleware_HealthExempt(t *testing.T) {
	handler := RateLimitMiddleware(1, 1)(okHandler())

	for range 3 {
		req := httptest.NewRequest("GET", "/health", http.NoBody)
		req.RemoteAddr = "192.0.2.1:1234"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("health: got %d", rr.Code)
		}
	}
}
