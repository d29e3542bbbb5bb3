package handlers

import (
	"net/http"

	"schoolcms/internal/repository"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type UnitHandler struct {
	repo       *repository.UnitRepository
	production bool
	log        *zap.Logger
}

func NewUnitHandler(repo *repository.UnitRepository, production bool, log *zap.Logger) *UnitHandler {
	return &UnitHandler{repo: repo, production: production, log: log}
}

type unitRequest struct {
	Title    string `json:"title"`
	ClassID  int64  `json:"class_id"`
	Category string `json:"category" validate:"omitempty,oneof=P Z"`
	Term     string `json:"term" validate:"omitempty,oneof=1 2"`
}

func (h *UnitHandler) ListByClass(w http.ResponseWriter, r *http.Request) {
	classID, ok := parseID(chi.URLParam(r, "classId"))
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid class id", "")
		return
	}
	units, err := h.repo.ListByClass(r.Context(), classID)
	if err != nil {
		respondRepoError(w, err, h.production, h.log)
		return
	}
	respondJSON(w, http.StatusOK, units)
}

func (h *UnitHandler) ListRefs(w http.ResponseWriter, r *http.Request) {
	units, err := h.repo.ListRefs(r.Context())
	if err != nil {
		respondRepoError(w, err, h.production, h.log)
		return
	}
	respondJSON(w, http.StatusOK, units)
}

func (h *UnitHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid unit id", "")
		return
	}
	unit, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		respondRepoError(w, err, h.production, h.log)
		return
	}
	respondJSON(w, http.StatusOK, unit)
}

// ListAll serves the admin panel's unit table, joined with class names.
func (h *UnitHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	units, err := h.repo.ListAll(r.Context())
	if err != nil {
		respondRepoError(w, err, h.production, h.log)
		return
	}
	respondJSON(w, http.StatusOK, units)
}

func (h *UnitHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req unitRequest
	if !decodeJSON(w, r, &req) || !checkStruct(w, &req) {
		return
	}
	if req.ClassID < 1 {
		respondError(w, http.StatusBadRequest, "الصف الدراسي مطلوب", repository.CodeClassIDRequired)
		return
	}
	unit, err := h.repo.Create(r.Context(), repository.UnitInput{
		Title:    req.Title,
		ClassID:  req.ClassID,
		Category: req.Category,
		Term:     req.Term,
	})
	if err != nil {
		respondRepoError(w, err, h.production, h.log)
		return
	}
	respondJSON(w, http.StatusCreated, unit)
}

func (h *UnitHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid unit id", "")
		return
	}
	var req unitRequest
	if !decodeJSON(w, r, &req) || !checkStruct(w, &req) {
		return
	}
	if req.ClassID < 1 {
		respondError(w, http.StatusBadRequest, "الصف الدراسي مطلوب", repository.CodeClassIDRequired)
		return
	}
	unit, err := h.repo.Update(r.Context(), id, repository.UnitInput{
		Title:    req.Title,
		ClassID:  req.ClassID,
		Category: req.Category,
		Term:     req.Term,
	})
	if err != nil {
		respondRepoError(w, err, h.production, h.log)
		return
	}
	respondJSON(w, http.StatusOK, unit)
}

func (h *UnitHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid unit id", "")
		return
	}
	if err := h.repo.Delete(r.Context(), id); err != nil {
		respondRepoError(w, err, h.production, h.log)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Unit deleted"})
}

func (h *UnitHandler) Reorder(w http.ResponseWriter, r *http.Request) {
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
	respondJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Units reordered successfully"})
}
