package middleware

import (
	"net/http"
	"sync"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
)

type loginWindow struct {
	start time.Time
	count int
}

// LoginRateLimit caps failed login attempts per client IP over a fixed
// window. Only responses with a 4xx or 5xx status count against the
// budget, so an admin who signs in normally never trips the limit no
// matter how often they log in.
func LoginRateLimit(max int, window time.Duration, onLimit http.HandlerFunc) func(http.Handler) http.Handler {
	var mu sync.Mutex
	windows := make(map[string]*loginWindow)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key, err := httprate.KeyByIP(r)
			if err != nil {
				key = r.RemoteAddr
			}

			mu.Lock()
			win := windows[key]
			if win == nil || time.Since(win.start) > window {
				if len(windows) > 4096 {
					for k, v := range windows {
						if time.Since(v.start) > window {
							delete(windows, k)
						}
					}
				}
				win = &loginWindow{start: time.Now()}
				windows[key] = win
			}
			blocked := win.count >= max
			mu.Unlock()

			if blocked {
				onLimit(w, r)
				return
			}

			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			if ww.Status() >= http.StatusBadRequest {
				mu.Lock()
				win.count++
				mu.Unlock()
			}
		})
	}
}
