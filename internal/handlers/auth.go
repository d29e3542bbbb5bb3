package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"schoolcms/internal/middleware"
	"schoolcms/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

type AuthHandler struct {
	repo       *repository.AdminRepository
	jwtSecret  string
	jwtExpiry  time.Duration
	production bool
	log        *zap.Logger
}

func NewAuthHandler(repo *repository.AdminRepository, jwtSecret string, jwtExpiry time.Duration, production bool, log *zap.Logger) *AuthHandler {
	return &AuthHandler{repo: repo, jwtSecret: jwtSecret, jwtExpiry: jwtExpiry, production: production, log: log}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Username and password required", "")
		return
	}

	admin, err := h.repo.VerifyPassword(r.Context(), req.Username, req.Password)
	if errors.Is(err, repository.ErrInvalidCredentials) {
		respondError(w, http.StatusUnauthorized, "Invalid credentials", "")
		return
	}
	if err != nil {
		respondRepoError(w, err, h.production, h.log)
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      admin.ID,
		"username": admin.Username,
		"exp":      time.Now().Add(h.jwtExpiry).Unix(),
	})
	tokenStr, err := token.SignedString([]byte(h.jwtSecret))
	if err != nil {
		h.log.Error("sign token", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Server error", "")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.CookieName,
		Value:    tokenStr,
		Path:     "/",
		MaxAge:   int(h.jwtExpiry.Seconds()),
		HttpOnly: true,
		Secure:   h.production,
		SameSite: http.SameSiteStrictMode,
	})

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"admin":   map[string]any{"id": admin.ID, "username": admin.Username},
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	middleware.ClearSessionCookie(w)
	respondJSON(w, http.StatusOK, map[string]any{"success": true})
}

// Verify reports whether the caller holds a valid session, so the admin SPA
// can decide between the panel and the login page.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(middleware.CookieName)
	if err != nil || c.Value == "" {
		respondJSON(w, http.StatusUnauthorized, map[string]any{"authenticated": false})
		return
	}

	token, err := jwt.Parse(c.Value, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(h.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		middleware.ClearSessionCookie(w)
		respondJSON(w, http.StatusUnauthorized, map[string]any{"authenticated": false})
		return
	}

	claims, _ := token.Claims.(jwt.MapClaims)
	var id int64
	if v, ok := claims["sub"].(float64); ok {
		id = int64(v)
	}
	username, _ := claims["username"].(string)

	respondJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"admin":         map[string]any{"id": id, "username": username},
	})
}
