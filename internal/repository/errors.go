package repository

// Error codes surfaced to clients alongside localized messages.
const (
	CodeNameRequired         = "NAME_REQUIRED"
	CodeTitleRequired        = "TITLE_REQUIRED"
	CodeClassIDRequired      = "CLASS_ID_REQUIRED"
	CodeUnitIDRequired       = "UNIT_ID_REQUIRED"
	CodeInvalidCharacters    = "INVALID_CHARACTERS"
	CodeInvalidOrder         = "INVALID_ORDER"
	CodeDuplicateClassName   = "DUPLICATE_CLASS_NAME"
	CodeDuplicateUnitTitle   = "DUPLICATE_UNIT_TITLE"
	CodeDuplicateLessonTitle = "DUPLICATE_LESSON_TITLE"
	CodeClassNotFound        = "CLASS_NOT_FOUND"
	CodeUnitNotFound         = "UNIT_NOT_FOUND"
)

// ValidationError maps to a 400 response.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ConflictError maps to a 409 response.
type ConflictError struct {
	Code    string
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// NotFoundError maps to a 404 response.
type NotFoundError struct {
	Code    string
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }
