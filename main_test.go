package main

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"schoolcms/internal/config"
	"schoolcms/internal/database"

	"go.uber.org/zap"
)

func testConfig() *config.Config {
	return &config.Config{
		Port:             "0",
		JWTSecret:        "main-test-secret-0123456789abcdef",
		JWTExpiry:        time.Hour,
		AdminUsername:    "admin",
		AdminPassword:    "password123",
		FrontendURL:      "http://localhost:3000",
		RateLimitMax:     1000,
		AuthRateLimitMax: 100,
		RateLimitWindow:  15 * time.Minute,
		MaxUploadBytes:   1 << 20,
	}
}

func newTestRouter(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()

	log := zap.NewNop()
	db, err := database.OpenSQLite(":memory:", log)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Seed(context.Background(), cfg.AdminUsername, cfg.AdminPassword); err != nil {
		t.Fatalf("seed: %v", err)
	}

	return newRouter(cfg, db, nil, log)
}

func send(t *testing.T, h http.Handler, method, target string, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func loginCookie(t *testing.T, h http.Handler) string {
	t.Helper()
	rec := send(t, h, http.MethodPost, "/api/auth/login",
		[]byte(`{"username":"admin","password":"password123"}`),
		map[string]string{"Content-Type": "application/json"})
	if rec.Code != http.StatusOK {
		t.Fatalf("login: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == "authToken" {
			return c.Name + "=" + c.Value
		}
	}
	t.Fatal("login response missing authToken cookie")
	return ""
}

func TestOversizedBodyRejected(t *testing.T) {
	cfg := testConfig()
	h := newTestRouter(t, cfg)
	cookie := loginCookie(t, h)

	// Twice the configured cap: each Arabic letter is two bytes.
	payload, err := json.Marshal(map[string]string{"name": strings.Repeat("م", 1<<20)})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	rec := send(t, h, http.MethodPost, "/api/classes", payload, map[string]string{
		"Content-Type": "application/json",
		"Cookie":       cookie,
	})
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", rec.Code)
	}

	rec = send(t, h, http.MethodGet, "/api/classes", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var classes []json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &classes); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(classes) != 0 {
		t.Fatalf("oversized request created %d classes", len(classes))
	}
}

func TestBodyWithinLimitAccepted(t *testing.T) {
	cfg := testConfig()
	h := newTestRouter(t, cfg)
	cookie := loginCookie(t, h)

	rec := send(t, h, http.MethodPost, "/api/classes",
		[]byte(`{"name":"الصف الأول"}`),
		map[string]string{"Content-Type": "application/json", "Cookie": cookie})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestResponsesCompressed(t *testing.T) {
	h := newTestRouter(t, testConfig())

	rec := send(t, h, http.MethodGet, "/api/classes", nil, map[string]string{
		"Accept-Encoding": "gzip",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Encoding"); got != "gzip" {
		t.Fatalf("Content-Encoding = %q, want gzip", got)
	}

	zr, err := gzip.NewReader(rec.Body)
	if err != nil {
		t.Fatalf("gzip reader: %v", err)
	}
	raw, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	var classes []json.RawMessage
	if err := json.Unmarshal(raw, &classes); err != nil {
		t.Fatalf("decompressed body is not JSON: %v", err)
	}
}

func TestSecurityHeaders(t *testing.T) {
	prod := testConfig()
	prod.Production = true
	h := newTestRouter(t, prod)

	rec := send(t, h, http.MethodGet, "/api/classes", nil, nil)
	if rec.Header().Get("Content-Security-Policy") == "" {
		t.Error("expected Content-Security-Policy in production")
	}
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}

	dev := newTestRouter(t, testConfig())
	rec = send(t, dev, http.MethodGet, "/api/classes", nil, nil)
	if got := rec.Header().Get("Content-Security-Policy"); got != "" {
		t.Errorf("unexpected CSP in development: %q", got)
	}
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
}

func TestLoginLimiterIgnoresSuccessfulLogins(t *testing.T) {
	cfg := testConfig()
	cfg.AuthRateLimitMax = 2
	h := newTestRouter(t, cfg)

	good := []byte(`{"username":"admin","password":"password123"}`)
	bad := []byte(`{"username":"admin","password":"wrong-password"}`)
	jsonHdr := map[string]string{"Content-Type": "application/json"}

	// Successful logins never consume the failure budget.
	for i := 0; i < 5; i++ {
		if rec := send(t, h, http.MethodPost, "/api/auth/login", good, jsonHdr); rec.Code != http.StatusOK {
			t.Fatalf("login %d: status = %d", i+1, rec.Code)
		}
	}

	for i := 0; i < 2; i++ {
		if rec := send(t, h, http.MethodPost, "/api/auth/login", bad, jsonHdr); rec.Code != http.StatusUnauthorized {
			t.Fatalf("bad login %d: status = %d, want 401", i+1, rec.Code)
		}
	}
	rec := send(t, h, http.MethodPost, "/api/auth/login", bad, jsonHdr)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status after exhausted budget = %d, want 429", rec.Code)
	}

	// A correct password is still locked out until the window lapses.
	rec = send(t, h, http.MethodPost, "/api/auth/login", good, jsonHdr)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("login during lockout = %d, want 429", rec.Code)
	}
}
