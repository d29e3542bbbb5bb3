package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const (
	adminIDKey  contextKey = "adminID"
	usernameKey contextKey = "username"
)

// CookieName is the http-only session cookie carrying the signed token.
const CookieName = "authToken"

// RequireAuth gates admin routes. A missing token yields 401, an invalid or
// expired one 403 with the cookie cleared, so the admin client can
// distinguish "not logged in" from "session expired".
func RequireAuth(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := ""

			if c, err := r.Cookie(CookieName); err == nil {
				tokenStr = c.Value
			}
			if tokenStr == "" {
				if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
					tokenStr = strings.TrimPrefix(auth, "Bearer ")
				}
			}

			if tokenStr == "" {
				writeJSONError(w, http.StatusUnauthorized, "Authentication required")
				return
			}

			token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !token.Valid {
				ClearSessionCookie(w)
				writeJSONError(w, http.StatusForbidden, "Invalid or expired token")
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				ClearSessionCookie(w)
				writeJSONError(w, http.StatusForbidden, "Invalid or expired token")
				return
			}

			var adminID int64
			if v, ok := claims["sub"].(float64); ok {
				adminID = int64(v)
			}
			username, _ := claims["username"].(string)

			ctx := context.WithValue(r.Context(), adminIDKey, adminID)
			ctx = context.WithValue(ctx, usernameKey, username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClearSessionCookie expires the session cookie with the same attributes
// used when setting it.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

func GetAdminID(ctx context.Context) int64 {
	if id, ok := ctx.Value(adminIDKey).(int64); ok {
		return id
	}
	return 0
}

func GetUsername(ctx context.Context) string {
	if name, ok := ctx.Value(usernameKey).(string); ok {
		return name
	}
	return ""
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
