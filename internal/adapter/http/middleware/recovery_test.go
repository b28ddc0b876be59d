package middleware

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestRecoveryLogsThroughRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logging := NewLoggingMiddleware(zerolog.New(&buf))

	h := logging.Wrap(Recovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/escrow-accounts/acc-1", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	out := buf.String()
	if !strings.Contains(out, "panic recovered") || !strings.Contains(out, `"status":500`) {
		t.Fatalf("expected panic and request lines, got %s", out)
	}
}

func TestRecoveryWritesJSONError(t *testing.T) {
	h := Recovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(errors.New("nil escrow account"))
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/escrow-accounts/acc-1/payouts", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected json content type, got %q", ct)
	}
	if !strings.Contains(rr.Body.String(), `"message":"internal server error"`) {
		t.Fatalf("unexpected body %s", rr.Body.String())
	}
}

func TestRecoveryReraisesAbortHandler(t *testing.T) {
	h := Recovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	defer func() {
		if rec := recover(); rec != http.ErrAbortHandler {
			t.Fatalf("expected ErrAbortHandler to propagate, got %v", rec)
		}
	}()
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
}

func TestLoggingLevelsByStatus(t *testing.T) {
	tests := []struct {
		path   string
		status int
		level  string
	}{
		{"/api/v1/escrow-accounts/acc-1", http.StatusOK, `"level":"info"`},
		{"/api/v1/escrow-accounts/acc-1", http.StatusConflict, `"level":"warn"`},
		{"/api/v1/escrow-accounts/acc-1", http.StatusBadGateway, `"level":"error"`},
		{"/health", http.StatusOK, `"level":"debug"`},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		h := NewLoggingMiddleware(zerolog.New(&buf)).Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		}))
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, tt.path, nil))

		if !strings.Contains(buf.String(), tt.level) {
			t.Fatalf("%s %d: expected %s in %s", tt.path, tt.status, tt.level, buf.String())
		}
	}
}
