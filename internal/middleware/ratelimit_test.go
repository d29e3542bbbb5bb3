package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// loginStub responds 200 when the "ok" query parameter is set and 401 otherwise.
func loginStub() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("ok") == "1" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	})
}

func limitedStub(max int, window time.Duration) http.Handler {
	onLimit := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}
	return LoginRateLimit(max, window, onLimit)(loginStub())
}

func attempt(t *testing.T, h http.Handler, target string) int {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, target, nil)
	req.RemoteAddr = "203.0.113.7:4000"
	h.ServeHTTP(rec, req)
	return rec.Code
}

func TestLoginRateLimitBlocksAfterFailures(t *testing.T) {
	h := limitedStub(2, time.Minute)

	for i := 0; i < 2; i++ {
		if code := attempt(t, h, "/login"); code != http.StatusUnauthorized {
			t.Fatalf("failure %d: status = %d, want 401", i+1, code)
		}
	}
	if code := attempt(t, h, "/login"); code != http.StatusTooManyRequests {
		t.Fatalf("status after limit = %d, want 429", code)
	}
}

func TestLoginRateLimitSkipsSuccessfulAttempts(t *testing.T) {
	h := limitedStub(2, time.Minute)

	for i := 0; i < 10; i++ {
		if code := attempt(t, h, "/login?ok=1"); code != http.StatusOK {
			t.Fatalf("success %d: status = %d, want 200", i+1, code)
		}
	}

	// The budget is untouched, so two failures are still allowed.
	for i := 0; i < 2; i++ {
		if code := attempt(t, h, "/login"); code != http.StatusUnauthorized {
			t.Fatalf("failure %d: status = %d, want 401", i+1, code)
		}
	}
	if code := attempt(t, h, "/login"); code != http.StatusTooManyRequests {
		t.Fatalf("status after limit = %d, want 429", code)
	}
}

func TestLoginRateLimitWindowResets(t *testing.T) {
	h := limitedStub(1, 30*time.Millisecond)

	if code := attempt(t, h, "/login"); code != http.StatusUnauthorized {
		t.Fatalf("first failure: status = %d, want 401", code)
	}
	if code := attempt(t, h, "/login"); code != http.StatusTooManyRequests {
		t.Fatalf("status after limit = %d, want 429", code)
	}

	time.Sleep(50 * time.Millisecond)

	if code := attempt(t, h, "/login"); code != http.StatusUnauthorized {
		t.Fatalf("status after window reset = %d, want 401", code)
	}
}

func TestLoginRateLimitKeysByIP(t *testing.T) {
	h := limitedStub(1, time.Minute)

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "198.51.100.1:1000"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second failure from same IP = %d, want 429", rec.Code)
	}

	other := httptest.NewRequest(http.MethodPost, "/login", nil)
	other.RemoteAddr = "198.51.100.2:1000"
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, other)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("failure from different IP = %d, want 401", rec.Code)
	}
}
