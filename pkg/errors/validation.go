package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// maxKeyLength bounds document store keys.
const maxKeyLength = 256

// ValidateStoreKey validates a document store key for safety and correctness.
// Keys double as file names for the file store, so the rules reject anything
// that could escape the store directory:
//   - No empty keys
//   - No control characters or null bytes
//   - No path separators or traversal sequences
//   - Maximum length of 256 characters
func ValidateStoreKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidKey, "store key cannot be empty")
	}

	if len(key) > maxKeyLength {
		return New(ErrCodeInvalidKey, "store key too long (max %d characters)", maxKeyLength)
	}

	for _, r := range key {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidKey, "store key contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"/",    // Path separator
		"\\",   // Backslash (Windows path)
		"\x00", // Null byte
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(key, pattern) {
			return New(ErrCodeInvalidKey, "store key contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// aliasRegex matches script aliases: a letter followed by letters, digits, '_' or '-'.
var aliasRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)

// ValidateAlias validates a shape alias used by edit scripts.
func ValidateAlias(alias string) error {
	if alias == "" {
		return New(ErrCodeInvalidScript, "alias cannot be empty")
	}
	if len(alias) > 64 {
		return New(ErrCodeInvalidScript, "alias too long (max 64 characters): %q", alias)
	}
	if !aliasRegex.MatchString(alias) {
		return New(ErrCodeInvalidScript, "invalid alias: %q", alias)
	}
	return nil
}

// ValidateLabel validates node labels and text content.
// Newlines and tabs are allowed, other control characters are not.
func ValidateLabel(label string) error {
	if len(label) > 4096 {
		return New(ErrCodeInvalidInput, "label too long (max 4096 bytes)")
	}
	for _, r := range label {
		if r == '\n' || r == '\t' {
			continue
		}
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "label contains invalid control characters")
		}
	}
	return nil
}
