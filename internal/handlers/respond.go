package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"schoolcms/internal/repository"

	"go.uber.org/zap"
)

// errorBody is the structured error shape returned by every API failure.
type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

func respondError(w http.ResponseWriter, status int, message, code string) {
	respondJSON(w, status, errorBody{Error: message, Code: code})
}

// respondRepoError maps typed repository errors to their status codes and
// everything else to a 500 whose message is redacted in production.
func respondRepoError(w http.ResponseWriter, err error, production bool, log *zap.Logger) {
	var vErr *repository.ValidationError
	if errors.As(err, &vErr) {
		respondError(w, http.StatusBadRequest, vErr.Message, vErr.Code)
		return
	}
	var cErr *repository.ConflictError
	if errors.As(err, &cErr) {
		respondError(w, http.StatusConflict, cErr.Message, cErr.Code)
		return
	}
	var nErr *repository.NotFoundError
	if errors.As(err, &nErr) {
		respondError(w, http.StatusNotFound, nErr.Message, nErr.Code)
		return
	}

	log.Error("request failed", zap.Error(err))
	if production {
		respondError(w, http.StatusInternalServerError, "حدث خطأ في الخادم", "")
		return
	}
	respondError(w, http.StatusInternalServerError, err.Error(), "")
}

// parseID parses a positive integer path or body parameter.
func parseID(raw string) (int64, bool) {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondError(w, http.StatusRequestEntityTooLarge, "حجم الطلب كبير جداً", "")
			return false
		}
		respondError(w, http.StatusBadRequest, "Invalid request body", "")
		return false
	}
	return true
}
