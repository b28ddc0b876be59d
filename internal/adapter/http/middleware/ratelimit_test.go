package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiterPerClient(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	h := rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	send := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/escrow-accounts", nil)
		req.RemoteAddr = addr
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr.Code
	}

	if code := send("10.0.0.1:5000"); code != http.StatusOK {
		t.Fatalf("first request: %d", code)
	}
	if code := send("10.0.0.1:5001"); code != http.StatusTooManyRequests {
		t.Fatalf("same host on another port should share a bucket, got %d", code)
	}
	if code := send("10.0.0.2:5000"); code != http.StatusOK {
		t.Fatalf("other host should not be throttled, got %d", code)
	}
}

func TestRateLimiterCleanup(t *testing.T) {
	rl := NewRateLimiter(10, 10)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.getLimiter("a")
	now = now.Add(2 * time.Hour)
	rl.getLimiter("b")

	if removed := rl.CleanupLimiters(time.Hour); removed != 1 {
		t.Fatalf("expected 1 idle visitor removed, got %d", removed)
	}
	if _, ok := rl.visitors["b"]; !ok {
		t.Fatal("recent visitor should be kept")
	}
}
