package handlers

import (
	"net/http"

	"schoolcms/internal/models"
	"schoolcms/internal/repository"

	"go.uber.org/zap"
)

type SettingsHandler struct {
	repo       *repository.IdentityRepository
	production bool
	log        *zap.Logger
}

func NewSettingsHandler(repo *repository.IdentityRepository, production bool, log *zap.Logger) *SettingsHandler {
	return &SettingsHandler{repo: repo, production: production, log: log}
}

// GetIdentity is public: both frontends read the school identity.
func (h *SettingsHandler) GetIdentity(w http.ResponseWriter, r *http.Request) {
	identity, err := h.repo.Get(r.Context())
	if err != nil {
		respondRepoError(w, err, h.production, h.log)
		return
	}
	respondJSON(w, http.StatusOK, identity)
}

func (h *SettingsHandler) UpdateIdentity(w http.ResponseWriter, r *http.Request) {
	var req models.IdentitySettings
	if !decodeJSON(w, r, &req) {
		return
	}
	identity, err := h.repo.Update(r.Context(), req)
	if err != nil {
		respondRepoError(w, err, h.production, h.log)
		return
	}
	respondJSON(w, http.StatusOK, identity)
}
