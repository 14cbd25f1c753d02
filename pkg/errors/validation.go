package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// cycleTypeRegex matches cycle type tags: lowercase snake_case words.
var cycleTypeRegex = regexp.MustCompile(`^[a-z][a-z0-9]*(_[a-z0-9]+)*$`)

// ValidateCycleType validates a cycle type tag supplied by a user (CLI flag,
// config file or HTTP request). It only checks the shape of the name; whether
// a template is registered for it is the library's concern.
func ValidateCycleType(name string) error {
	if name == "" {
		return New(ErrCodeInvalidCycleType, "cycle type cannot be empty")
	}
	if len(name) > 64 {
		return New(ErrCodeInvalidCycleType, "cycle type too long (max 64 characters)")
	}
	if !cycleTypeRegex.MatchString(name) {
		return New(ErrCodeInvalidCycleType, "invalid cycle type: %q", name)
	}
	return nil
}

// ValidatePath validates a file path given on the command line or in a
// config file.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// ValidateRunID validates an archived run identifier taken from a URL path.
// Identifiers are UUID strings; anything else is rejected before it reaches
// a storage backend.
func ValidateRunID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "run id cannot be empty")
	}
	if len(id) != 36 || strings.Count(id, "-") != 4 {
		return New(ErrCodeInvalidInput, "invalid run id: %q", id)
	}
	for _, r := range id {
		if r != '-' && !unicode.Is(unicode.ASCII_Hex_Digit, r) {
			return New(ErrCodeInvalidInput, "invalid run id: %q", id)
		}
	}
	return nil
}

// ValidateMongoURI validates a MongoDB connection string scheme.
func ValidateMongoURI(uri string) error {
	if uri == "" {
		return New(ErrCodeInvalidConfig, "mongo URI cannot be empty")
	}
	if !strings.HasPrefix(uri, "mongodb://") && !strings.HasPrefix(uri, "mongodb+srv://") {
		return New(ErrCodeInvalidConfig, "mongo URI must use mongodb or mongodb+srv scheme")
	}
	return nil
}
