package errors

import (
	"strings"
	"unicode"
)

// maxColumnName bounds column display names accepted from data sources.
const maxColumnName = 256

// ValidateColumnName validates a column display name supplied by a data source.
//
// The validation rules are intentionally conservative:
//   - No empty names (after trimming whitespace)
//   - No control characters or null bytes
//   - Maximum length of 256 characters
func ValidateColumnName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidTable, "column name cannot be empty")
	}

	if len(name) > maxColumnName {
		return New(ErrCodeInvalidTable, "column name too long (max %d characters)", maxColumnName)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidTable, "column name %q contains invalid control characters", name)
		}
	}

	return nil
}

// ValidateColumnNames validates every name and rejects duplicates.
// Names are compared exactly; "Region" and "region" are distinct columns.
func ValidateColumnNames(names []string) error {
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if err := ValidateColumnName(name); err != nil {
			return err
		}
		if _, dup := seen[name]; dup {
			return New(ErrCodeInvalidTable, "duplicate column name %q", name)
		}
		seen[name] = struct{}{}
	}
	return nil
}

// ValidateQuery validates a raw SQL query used as a table source.
//
// Validation rules:
//   - Query cannot be empty
//   - Must be a single statement (a trailing semicolon is allowed)
//   - Must start with SELECT or WITH
func ValidateQuery(query string) error {
	q := strings.TrimSpace(query)
	if q == "" {
		return New(ErrCodeInvalidInput, "query cannot be empty")
	}

	q = strings.TrimSuffix(q, ";")
	if strings.Contains(q, ";") {
		return New(ErrCodeInvalidInput, "query must be a single statement")
	}

	head := strings.ToUpper(strings.Fields(q)[0])
	if head != "SELECT" && head != "WITH" {
		return New(ErrCodeInvalidInput, "query must start with SELECT or WITH, got %q", head)
	}

	return nil
}

// ValidatePath validates a slash-separated node path (e.g. "Europe/France")
// used to address a tree node from the command line or the HTTP API.
//
// Validation rules:
//   - No null bytes or control characters
//   - No empty segments ("a//b")
func ValidatePath(path string) error {
	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	if path == "" {
		return nil
	}
	for _, seg := range strings.Split(path, "/") {
		if seg == "" {
			return New(ErrCodeInvalidPath, "path %q has an empty segment", path)
		}
	}
	return nil
}
