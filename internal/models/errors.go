package models

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotFound is returned when no record carries the requested key
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a create would duplicate an existing key
	ErrConflict = errors.New("record already exists")
)

// ValidationError reports missing or malformed fields, keyed by JSON field name
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: reason}}
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s is %s", name, e.Fields[name]))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// StoreError wraps a failure of the backing database
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err carries a *ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
