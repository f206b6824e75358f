package errors

import (
	"strings"
	"unicode"
)

// maxIDLength bounds canvas, user and object identifiers.
const maxIDLength = 128

// ValidateID validates a canvas, user or object identifier.
// Identifiers end up in store keys and URL paths, so the rules are strict:
//   - No empty ids
//   - No control characters or whitespace
//   - No path separators or traversal sequences
//   - Maximum length of 128 characters
func ValidateID(kind, id string) error {
	if id == "" {
		return New(ErrCodeInvalidID, "%s id cannot be empty", kind)
	}
	if len(id) > maxIDLength {
		return New(ErrCodeInvalidID, "%s id too long (max %d characters)", kind, maxIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidID, "%s id contains invalid characters", kind)
		}
	}
	if strings.ContainsAny(id, "/\\") || strings.Contains(id, "..") {
		return New(ErrCodeInvalidID, "%s id cannot contain path separators", kind)
	}
	return nil
}

// ValidateURL validates an asset URL string.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidURL, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidURL, "URL must use http or https scheme")
	}

	return nil
}
