package errors

import (
	"strings"
	"unicode"
)

// ValidateSource validates an input source string (a local path or an
// HTTP(S) URL) for safety and correctness. It rejects values that could
// be used for injection attacks when echoed into logs or file names.
//
// The validation rules are intentionally conservative:
//   - No empty sources
//   - No control characters or null bytes
//   - Maximum length of 2048 characters
func ValidateSource(source string) error {
	if source == "" {
		return New(ErrCodeInvalidInput, "source cannot be empty")
	}

	if len(source) > 2048 {
		return New(ErrCodeInvalidInput, "source too long (max 2048 characters)")
	}

	for _, r := range source {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "source contains invalid control characters")
		}
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}

// ValidateImageName validates a derived image base name before it is used
// to build marked-output file names. It must be a simple name without
// path components.
func ValidateImageName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "image name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidInput, "image name too long (max 256 characters)")
	}

	// Must be a simple name, not a path
	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidInput, "image name cannot contain path separators")
	}

	// Check for path traversal and null bytes
	dangerousPatterns := []string{
		"..",   // Parent directory
		"\x00", // Null byte
	}
	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidInput, "image name contains invalid characters: %q", pattern)
		}
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "image name contains invalid control characters")
		}
	}

	return nil
}
