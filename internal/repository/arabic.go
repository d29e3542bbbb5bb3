package repository

import (
	"strings"
	"unicode"
)

// isArabicText reports whether s consists only of Arabic-block letters
// (U+0600..U+06FF) and whitespace. Display names and titles are restricted
// to this set.
func isArabicText(s string) bool {
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		if r < 0x0600 || r > 0x06FF {
			return false
		}
	}
	return true
}

// validateTitle trims value and applies the required + Arabic-only rules,
// with field-specific codes and messages.
func validateTitle(value, requiredCode, requiredMsg, charsetMsg string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", &ValidationError{Code: requiredCode, Message: requiredMsg}
	}
	if !isArabicText(trimmed) {
		return "", &ValidationError{Code: CodeInvalidCharacters, Message: charsetMsg}
	}
	return trimmed, nil
}
