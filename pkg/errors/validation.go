package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateTokenName validates a dot-delimited token name.
//
// The rules are deliberately loose because token files come from design
// tools that allow almost anything in a key:
//   - No empty names
//   - No control characters
//   - No empty path segments (leading, trailing or doubled dots)
//   - No braces, which would make the name unusable inside a reference
//   - Maximum length of 512 characters
func ValidateTokenName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidToken, "token name cannot be empty")
	}

	if len(name) > 512 {
		return New(ErrCodeInvalidToken, "token name too long (max 512 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidToken, "token name contains invalid control characters")
		}
	}

	if strings.ContainsAny(name, "{}") {
		return New(ErrCodeInvalidToken, "token name cannot contain braces: %q", name)
	}

	for _, seg := range strings.Split(name, ".") {
		if seg == "" {
			return New(ErrCodeInvalidToken, "token name has an empty path segment: %q", name)
		}
	}

	return nil
}

// categoryNameRegex matches component category names as they appear in
// file names under components/ (e.g. "button", "form-field-label").
var categoryNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateCategoryName validates a category name. Category names become file
// names inside export bundles, so they must be simple basenames.
func ValidateCategoryName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidCategory, "category name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidCategory, "category name too long (max 128 characters)")
	}

	if strings.Contains(name, "..") {
		return New(ErrCodeInvalidCategory, "category name cannot contain path traversal sequences (..)")
	}

	if !categoryNameRegex.MatchString(name) {
		return New(ErrCodeInvalidCategory, "invalid category name: %q", name)
	}

	return nil
}

// ValidatePath validates a file path inside an export bundle for safety.
// It prevents path traversal attacks and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}

// ValidateSelector performs a shape check on a CSS selector list. It does
// not parse CSS; it only rejects input that would break out of the rule
// block the generator writes.
func ValidateSelector(selector string) error {
	if strings.TrimSpace(selector) == "" {
		return New(ErrCodeInvalidSelector, "selector cannot be empty")
	}

	if strings.ContainsAny(selector, "{};") {
		return New(ErrCodeInvalidSelector, "selector cannot contain '{', '}' or ';': %q", selector)
	}

	for _, r := range selector {
		if unicode.IsControl(r) && r != '\t' && r != '\n' {
			return New(ErrCodeInvalidSelector, "selector contains invalid control characters")
		}
	}

	return nil
}
