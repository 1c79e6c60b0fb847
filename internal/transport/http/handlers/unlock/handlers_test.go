package unlockhandler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"qbhouse/internal/domain/auth"
	"qbhouse/internal/transport/http/middleware"
)

func TestUnlockFlow(t *testing.T) {
	unlocker, err := auth.NewUnlocker("0712", "test-secret", time.Hour)
	if err != nil {
		t.Fatalf("unlocker: %v", err)
	}
	router := chi.NewRouter()
	router.Use(middleware.Unlock(unlocker))
	router.Route("/api/v1", NewHandler(unlocker).RegisterRoutes)

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/unlock", bytes.NewBufferString(body))
		req.RemoteAddr = "192.0.2.1:1000"
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	if rec := post(`{"code":"1234"}`); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected wrong code to be rejected, got %d", rec.Code)
	}
	if rec := post(`{}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected missing code to be rejected, got %d", rec.Code)
	}

	rec := post(`{"code":"0712"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected unlock, got %d: %s", rec.Code, rec.Body.String())
	}
	var env struct {
		Data unlockResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil || env.Data.Token == "" {
		t.Fatalf("expected token, got %s (%v)", rec.Body.String(), err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/unlock", nil)
	req.Header.Set("Authorization", "Bearer "+env.Data.Token)
	status := httptest.NewRecorder()
	router.ServeHTTP(status, req)
	if !bytes.Contains(status.Body.Bytes(), []byte(`"unlocked":true`)) {
		t.Fatalf("expected unlocked status, got %s", status.Body.String())
	}

	for i := 0; i < unlockAttempts; i++ {
		post(`{"code":"0000"}`)
	}
	if rec := post(`{"code":"0712"}`); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected attempts to be rate limited, got %d", rec.Code)
	}
}
