package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// SPAHandler serves the static frontend: real files from the public
// directory, admin.html for /admin/* paths, index.html for everything else.
// HTML is never cached; fingerprinted assets get a week in production.
type SPAHandler struct {
	publicDir  string
	production bool
}

func NewSPAHandler(publicDir string, production bool) *SPAHandler {
	return &SPAHandler{publicDir: publicDir, production: production}
}

func (h *SPAHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	if path == "/admin" || path == "/admin/" {
		http.Redirect(w, r, "/admin/login", http.StatusFound)
		return
	}
	if strings.HasPrefix(path, "/admin/") {
		noCache(w)
		http.ServeFile(w, r, filepath.Join(h.publicDir, "admin.html"))
		return
	}

	full := filepath.Join(h.publicDir, filepath.Clean(path))
	if info, err := os.Stat(full); err == nil && !info.IsDir() {
		h.setAssetCache(w, path)
		http.ServeFile(w, r, full)
		return
	}

	noCache(w)
	http.ServeFile(w, r, filepath.Join(h.publicDir, "index.html"))
}

func (h *SPAHandler) setAssetCache(w http.ResponseWriter, path string) {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".html") {
		noCache(w)
		return
	}
	maxAge := "0"
	if h.production {
		maxAge = "604800"
	}
	w.Header().Set("Cache-Control", "public, max-age="+maxAge)
}

func noCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")
}
