package handlers

import (
	"net/http"

	"schoolcms/internal/repository"
	"schoolcms/internal/storage"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

type LessonHandler struct {
	repo           *repository.LessonRepository
	uploader       storage.Uploader
	maxUploadBytes int64
	production     bool
	log            *zap.Logger
}

func NewLessonHandler(repo *repository.LessonRepository, uploader storage.Uploader, maxUploadBytes int64, production bool, log *zap.Logger) *LessonHandler {
	return &LessonHandler{repo: repo, uploader: uploader, maxUploadBytes: maxUploadBytes, production: production, log: log}
}

type lessonRequest struct {
	Title   string                  `json:"title"`
	UnitID  int64                   `json:"unit_id"`
	Content string                  `json:"content"`
	Videos  []repository.VideoInput `json:"videos"`
	Images  []repository.ImageInput `json:"images"`
}

func (req *lessonRequest) input() repository.LessonInput {
	return repository.LessonInput{
		Title:   req.Title,
		UnitID:  req.UnitID,
		Content: req.Content,
		Videos:  req.Videos,
		Images:  req.Images,
	}
}

func (h *LessonHandler) ListByUnit(w http.ResponseWriter, r *http.Request) {
	unitID, ok := parseID(chi.URLParam(r, "unitId"))
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid unit id", "")
		return
	}
	lessons, err := h.repo.ListByUnit(r.Context(), unitID)
	if err != nil {
		respondRepoError(w, err, h.production, h.log)
		return
	}
	respondJSON(w, http.StatusOK, lessons)
}

// Get returns the full lesson including its videos and images.
func (h *LessonHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid lesson id", "")
		return
	}
	lesson, err := h.repo.Get(r.Context(), id)
	if err != nil {
		respondRepoError(w, err, h.production, h.log)
		return
	}
	respondJSON(w, http.StatusOK, lesson)
}

func (h *LessonHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	lessons, err := h.repo.ListAll(r.Context())
	if err != nil {
		respondRepoError(w, err, h.production, h.log)
		return
	}
	respondJSON(w, http.StatusOK, lessons)
}

func (h *LessonHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req lessonRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.UnitID < 1 {
		respondError(w, http.StatusBadRequest, "الوحدة الدراسية مطلوبة", repository.CodeUnitIDRequired)
		return
	}
	lesson, err := h.repo.Create(r.Context(), req.input())
	if err != nil {
		respondRepoError(w, err, h.production, h.log)
		return
	}
	respondJSON(w, http.StatusCreated, lesson)
}

func (h *LessonHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid lesson id", "")
		return
	}
	var req lessonRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.UnitID < 1 {
		respondError(w, http.StatusBadRequest, "الوحدة الدراسية مطلوبة", repository.CodeUnitIDRequired)
		return
	}
	lesson, err := h.repo.Update(r.Context(), id, req.input())
	if err != nil {
		respondRepoError(w, err, h.production, h.log)
		return
	}
	respondJSON(w, http.StatusOK, lesson)
}

func (h *LessonHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid lesson id", "")
		return
	}
	if err := h.repo.Delete(r.Context(), id); err != nil {
		respondRepoError(w, err, h.production, h.log)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Lesson deleted"})
}

// UploadImage receives a multipart image, stores it in the object store, and
// returns its public URL for embedding in a lesson.
func (h *LessonHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	if h.uploader == nil {
		h.log.Error("image upload requested but object storage is not configured")
		respondError(w, http.StatusInternalServerError, "خطأ في إعدادات الخادم", "CONFIG_ERROR")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, "لم يتم توفير ملف صورة", "NO_FILE")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		respondError(w, http.StatusBadRequest, "لم يتم توفير ملف صورة", "NO_FILE")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !allowedImageTypes[contentType] {
		respondError(w, http.StatusBadRequest, "Only image files are allowed", "")
		return
	}

	url, err := h.uploader.Upload(r.Context(), contentType, file)
	if err != nil {
		h.log.Error("image upload failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "فشل تحميل الصورة", "UPLOAD_ERROR")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"imagePath": url})
}
