package msg

import (
	"errors"
	"fmt"
)

// Sentinel errors classifying IR validation failures.
// Use errors.Is(err, ErrXxx) for typed assertions.
var (
	// ErrMissingField indicates a required key is absent.
	ErrMissingField = errors.New("missing required field")

	// ErrWrongType indicates a key is present with the wrong JSON type.
	ErrWrongType = errors.New("wrong JSON type")

	// ErrUnknownPrimitive indicates an unrecognized primitive type name.
	ErrUnknownPrimitive = errors.New("unknown primitive type")

	// ErrUnknownEndian indicates an unrecognized endianness name.
	ErrUnknownEndian = errors.New("unknown endianness")

	// ErrRange indicates a value outside its allowed range (packet id,
	// max_length, payload size limit).
	ErrRange = errors.New("value out of range")

	// ErrMalformed indicates a structurally invalid definition: a non-object
	// where an object is required, an empty struct, an empty catalog, a
	// duplicate packet id, or an undecodable field combination.
	ErrMalformed = errors.New("malformed definition")

	// ErrIO indicates the input file could not be read.
	ErrIO = errors.New("i/o failure")
)

// ParseError is a classified IR validation failure. Path is the dotted path
// from the message name down to the offending node.
type ParseError struct {
	Kind   error
	Path   string
	Detail string
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%v: %s", e.Kind, e.Detail)
	}
	return fmt.Sprintf("'%s': %v: %s", e.Path, e.Kind, e.Detail)
}

// Is reports whether the error matches the target sentinel.
func (e *ParseError) Is(target error) bool {
	return errors.Is(e.Kind, target)
}

func parseErrorf(kind error, path, format string, args ...any) *ParseError {
	return &ParseError{Kind: kind, Path: path, Detail: fmt.Sprintf(format, args...)}
}
