package handlers

import (
	"net/http"
	"strings"

	"schoolcms/internal/repository"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type QuestionHandler struct {
	repo       *repository.QuestionRepository
	production bool
	log        *zap.Logger
}

func NewQuestionHandler(repo *repository.QuestionRepository, production bool, log *zap.Logger) *QuestionHandler {
	return &QuestionHandler{repo: repo, production: production, log: log}
}

type questionRequest struct {
	QuestionText  string `json:"question_text"`
	OptionA       string `json:"option_a"`
	OptionB       string `json:"option_b"`
	OptionC       string `json:"option_c"`
	OptionD       string `json:"option_d"`
	CorrectAnswer string `json:"correct_answer" validate:"omitempty,oneof=A B C D a b c d"`
}

func (req *questionRequest) input() repository.QuestionInput {
	return repository.QuestionInput{
		QuestionText:  req.QuestionText,
		OptionA:       req.OptionA,
		OptionB:       req.OptionB,
		OptionC:       req.OptionC,
		OptionD:       req.OptionD,
		CorrectAnswer: req.CorrectAnswer,
	}
}

// ListPublic serves quiz questions to students; correct answers are never
// included here.
func (h *QuestionHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	lessonID, ok := parseID(chi.URLParam(r, "lessonId"))
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid lesson id", "")
		return
	}
	questions, err := h.repo.ListPublic(r.Context(), lessonID)
	if err != nil {
		respondRepoError(w, err, h.production, h.log)
		return
	}
	respondJSON(w, http.StatusOK, questions)
}

// CheckAnswer grades one answer and reveals the correct letter.
func (h *QuestionHandler) CheckAnswer(w http.ResponseWriter, r *http.Request) {
	if _, ok := parseID(chi.URLParam(r, "lessonId")); !ok {
		respondError(w, http.StatusBadRequest, "Invalid lesson or question id", "")
		return
	}
	questionID, ok := parseID(chi.URLParam(r, "questionId"))
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid lesson or question id", "")
		return
	}
	var req struct {
		Answer string `json:"answer"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Answer) == "" {
		respondError(w, http.StatusBadRequest, "الإجابة مطلوبة", "")
		return
	}
	correct, correctAnswer, err := h.repo.CheckAnswer(r.Context(), questionID, req.Answer)
	if err != nil {
		respondRepoError(w, err, h.production, h.log)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"correct":       correct,
		"correctAnswer": correctAnswer,
	})
}

// ListAdmin includes correct answers for the editor.
func (h *QuestionHandler) ListAdmin(w http.ResponseWriter, r *http.Request) {
	lessonID, ok := parseID(chi.URLParam(r, "lessonId"))
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid lesson id", "")
		return
	}
	questions, err := h.repo.ListAdmin(r.Context(), lessonID)
	if err != nil {
		respondRepoError(w, err, h.production, h.log)
		return
	}
	respondJSON(w, http.StatusOK, questions)
}

func (h *QuestionHandler) Create(w http.ResponseWriter, r *http.Request) {
	lessonID, ok := parseID(chi.URLParam(r, "lessonId"))
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid lesson id", "")
		return
	}
	var req questionRequest
	if !decodeJSON(w, r, &req) || !checkStruct(w, &req) {
		return
	}
	question, err := h.repo.Create(r.Context(), lessonID, req.input())
	if err != nil {
		respondRepoError(w, err, h.production, h.log)
		return
	}
	respondJSON(w, http.StatusCreated, question)
}

func (h *QuestionHandler) Update(w http.ResponseWriter, r *http.Request) {
	questionID, ok := parseID(chi.URLParam(r, "questionId"))
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid question id", "")
		return
	}
	var req questionRequest
	if !decodeJSON(w, r, &req) || !checkStruct(w, &req) {
		return
	}
	question, err := h.repo.Update(r.Context(), questionID, req.input())
	if err != nil {
		respondRepoError(w, err, h.production, h.log)
		return
	}
	respondJSON(w, http.StatusOK, question)
}

func (h *QuestionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	questionID, ok := parseID(chi.URLParam(r, "questionId"))
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid question id", "")
		return
	}
	if err := h.repo.Delete(r.Context(), questionID); err != nil {
		respondRepoError(w, err, h.production, h.log)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true, "message": "تم حذف السؤال"})
}
