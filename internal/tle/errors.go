package tle

import (
	"errors"
	"fmt"
)

// Sentinel causes carried by ParseError.Err.
var (
	ErrMissingLine     = errors.New("line missing")
	ErrShortLine       = errors.New("line too short")
	ErrLineNumber      = errors.New("wrong line number")
	ErrCatalogMismatch = errors.New("catalog numbers differ between lines")
	ErrChecksum        = errors.New("checksum mismatch")
)

// ParseError reports malformed or truncated TLE text. Callers are expected
// to fall back to showing the raw lines.
type ParseError struct {
	Line    int    // 1 or 2
	Field   string // Field being decoded, or "line" for structural errors
	Columns string // 1-based column range, e.g. "9-16"
	Value   string // Raw text that failed to decode
	Err     error
}

// Error returns the error message for ParseError.
func (e *ParseError) Error() string {
	if e.Columns == "" {
		return fmt.Sprintf("tle line %d: %s: %v", e.Line, e.Field, e.Err)
	}
	return fmt.Sprintf("tle line %d: %s (cols %s) %q: %v", e.Line, e.Field, e.Columns, e.Value, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ParseError) Unwrap() error {
	return e.Err
}
