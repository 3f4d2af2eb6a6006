package errors

import (
	"strings"
	"unicode"
)

// maxPathLength bounds paths typed into the open and save prompts.
const maxPathLength = 4096

// ValidateFilePath validates a path entered for opening or saving a file.
//
// Validation rules:
//   - Path cannot be empty or whitespace only
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidateFilePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return New(ErrCodeInvalidInput, "path cannot be empty")
	}

	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "path contains invalid characters")
		}
	}

	return nil
}

// ValidateEditText validates the text of an edited value before it is
// parsed into an element. Text VRs such as LT and UT may carry CR, LF, FF
// and ESC, so only null bytes are refused here.
func ValidateEditText(text string) error {
	if strings.ContainsRune(text, '\x00') {
		return New(ErrCodeEditRejected, "value contains a null byte")
	}
	return nil
}
