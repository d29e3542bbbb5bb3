package middleware

import (
	"net/http"
	"strings"
)

// contentSecurityPolicy allows the CDN-hosted fonts and scripts the admin
// panel loads alongside same-origin assets. Images stay permissive because
// lesson media may point at arbitrary external hosts.
var contentSecurityPolicy = strings.Join([]string{
	"default-src 'self'",
	"style-src 'self' 'unsafe-inline' https://cdnjs.cloudflare.com https://fonts.googleapis.com",
	"script-src 'self' 'unsafe-inline' https://cdnjs.cloudflare.com",
	"font-src 'self' https://fonts.gstatic.com https://cdnjs.cloudflare.com",
	"img-src 'self' data: https: http:",
	"connect-src 'self'",
}, "; ")

// SecureHeaders sets baseline security headers on every response. The
// Content-Security-Policy is only enforced in production so local tooling
// (hot reload, devtools extensions) keeps working during development.
func SecureHeaders(production bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "SAMEORIGIN")
			h.Set("Referrer-Policy", "no-referrer")
			if production {
				h.Set("Content-Security-Policy", contentSecurityPolicy)
				h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}
			next.ServeHTTP(w, r)
		})
	}
}
