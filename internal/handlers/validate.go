package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// checkStruct runs tag validation on a decoded request body and writes a 400
// when a constraint fails. Field-specific required rules with localized
// messages stay with the repositories; tags cover enums and shapes.
func checkStruct(w http.ResponseWriter, v any) bool {
	if err := validate.Struct(v); err != nil {
		respondError(w, http.StatusBadRequest, "بيانات الطلب غير صالحة", "")
		return false
	}
	return true
}
