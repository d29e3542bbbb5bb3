package handlers

import (
	"net/http"

	"schoolcms/internal/repository"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ClassHandler struct {
	repo       *repository.ClassRepository
	production bool
	log        *zap.Logger
}

func NewClassHandler(repo *repository.ClassRepository, production bool, log *zap.Logger) *ClassHandler {
	return &ClassHandler{repo: repo, production: production, log: log}
}

func (h *ClassHandler) List(w http.ResponseWriter, r *http.Request) {
	classes, err := h.repo.List(r.Context())
	if err != nil {
		respondRepoError(w, err, h.production, h.log)
		return
	}
	respondJSON(w, http.StatusOK, classes)
}

// Dashboard serves the student home page's classes + units in one request.
func (h *ClassHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	data, err := h.repo.Dashboard(r.Context())
	if err != nil {
		respondRepoError(w, err, h.production, h.log)
		return
	}
	respondJSON(w, http.StatusOK, data)
}

func (h *ClassHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid class id", "")
		return
	}
	class, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		respondRepoError(w, err, h.production, h.log)
		return
	}
	respondJSON(w, http.StatusOK, class)
}

func (h *ClassHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	class, err := h.repo.Create(r.Context(), req.Name)
	if err != nil {
		respondRepoError(w, err, h.production, h.log)
		return
	}
	respondJSON(w, http.StatusCreated, class)
}

func (h *ClassHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid class id", "")
		return
	}
	var req struct {
		Name string `json:"name"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	class, err := h.repo.Update(r.Context(), id, req.Name)
	if err != nil {
		respondRepoError(w, err, h.production, h.log)
		return
	}
	respondJSON(w, http.StatusOK, class)
}

func (h *ClassHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid class id", "")
		return
	}
	if err := h.repo.Delete(r.Context(), id); err != nil {
		respondRepoError(w, err, h.production, h.log)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Class deleted"})
}

func (h *ClassHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Order []int64 `json:"order" validate:"required,min=1,dive,gt=0"`
	}
	if !decodeJSON(w, r, &req) || !checkStruct(w, &req) {
		return
	}
	if err := h.repo.Reorder(r.Context(), req.Order); err != nil {
		respondRepoError(w, err, h.production, h.log)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Classes reordered successfully"})
}
