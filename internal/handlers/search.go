package handlers

import (
	"net/http"

	"schoolcms/internal/repository"

	"go.uber.org/zap"
)

type SearchHandler struct {
	repo       *repository.SearchRepository
	production bool
	log        *zap.Logger
}

func NewSearchHandler(repo *repository.SearchRepository, production bool, log *zap.Logger) *SearchHandler {
	return &SearchHandler{repo: repo, production: production, log: log}
}

func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	results, err := h.repo.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		respondRepoError(w, err, h.production, h.log)
		return
	}
	respondJSON(w, http.StatusOK, results)
}
