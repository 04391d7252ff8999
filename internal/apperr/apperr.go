// Package apperr defines the error kinds surfaced to users of both tools.
//
// Expected user-input conditions (a duplicate contact, an unknown name) are
// not errors and never appear here.
package apperr

import "fmt"

// FormatError reports input with the wrong file-type marker or structure.
type FormatError struct {
	Path   string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s %s", e.Path, e.Reason)
}

// NotFoundError reports a path that does not resolve to a readable file.
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("file %s not found", e.Path)
	}
	return fmt.Sprintf("file %s not found: %v", e.Path, e.Err)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// ParseError reports persisted content that cannot be decoded.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
