package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"qbhouse/internal/domain/auth"
	"qbhouse/internal/platform/metrics"
)

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if seen == "" || rec.Header().Get("X-Request-ID") != seen {
		t.Fatalf("expected minted request id in context and header, got %q / %q", seen, rec.Header().Get("X-Request-ID"))
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "caller-1")
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if seen != "caller-1" {
		t.Fatalf("expected caller id to be reused, got %q", seen)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", strings.Repeat("x", 200))
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if len(seen) > maxRequestIDLen {
		t.Fatalf("expected oversized id to be replaced, got %d chars", len(seen))
	}
}

func TestLoggerRecordsMetricsAndAccessLine(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	collector := metrics.New()
	handler := RequestID(Logger(logger, collector)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/records", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected one json line, got %q: %v", buf.String(), err)
	}
	if line["path"] != "/api/v1/records" || line["status"] != float64(http.StatusTeapot) || line["requestId"] == "" {
		t.Fatalf("unexpected access line: %+v", line)
	}
	if line["level"] != "WARN" {
		t.Fatalf("expected 4xx to log at warn, got %v", line["level"])
	}
	if got := collector.Snapshot()["requestsTotal"]; got != uint64(1) {
		t.Fatalf("expected one recorded request, got %v", got)
	}
}

func TestBodyLimitRejectsDeclaredOversize(t *testing.T) {
	called := false
	handler := BodyLimit(8)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"memo":"far too long"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusRequestEntityTooLarge || called {
		t.Fatalf("expected 413 without calling next, got %d (called=%v)", rec.Code, called)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if !called {
		t.Fatal("expected GET to pass through")
	}
}

func TestSecureHeadersNoStoreOnAPI(t *testing.T) {
	handler := SecureHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/records", nil))
	if rec.Header().Get("Cache-Control") != "no-store" || rec.Header().Get("X-Frame-Options") != "DENY" {
		t.Fatalf("unexpected headers: %v", rec.Header())
	}
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/index.html", nil))
	if rec.Header().Get("Cache-Control") != "" {
		t.Fatal("expected static files to stay cacheable")
	}
}

func TestUnlockMiddleware(t *testing.T) {
	unlocker, err := auth.NewUnlocker("0712", "test-secret", time.Hour)
	if err != nil {
		t.Fatalf("new unlocker: %v", err)
	}
	token, _, err := unlocker.Unlock("0712")
	if err != nil {
		t.Fatalf("unlock: %v", err)
	}

	protected := Unlock(unlocker)(RequireUnlock(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{name: "no token", want: http.StatusForbidden},
		{name: "wrong scheme", header: "Basic " + token, want: http.StatusForbidden},
		{name: "garbage token", header: "Bearer not-a-jwt", want: http.StatusForbidden},
		{name: "valid token", header: "Bearer " + token, want: http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPut, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			protected.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rec.Code)
			}
		})
	}
}

func TestRateLimitPerClientAndWindowReset(t *testing.T) {
	rl := newRateLimiter(1, time.Minute)
	now := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	send := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/unlock", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		rl.enforce(rec, req)
		return rec
	}

	if rec := send("192.0.2.20:1111"); rec.Code != http.StatusOK {
		t.Fatalf("expected first request to pass, got %d", rec.Code)
	}
	rec := send("192.0.2.20:2222")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected same host to be throttled, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatal("expected Retry-After header")
	}
	if rec := send("192.0.2.21:1111"); rec.Code != http.StatusOK {
		t.Fatalf("expected other host to pass, got %d", rec.Code)
	}

	now = now.Add(2 * time.Minute)
	if rec := send("192.0.2.20:1111"); rec.Code != http.StatusOK {
		t.Fatalf("expected request after window reset to pass, got %d", rec.Code)
	}
}
