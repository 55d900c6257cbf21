package engine

import (
	"errors"
	"fmt"
)

// ErrEmptyPayload is wrapped by a ParseError when the upload holds no data.
var ErrEmptyPayload = errors.New("empty file")

// ErrUnsupportedFormat is wrapped by a ParseError when the file extension
// does not map to a known format.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// ParseError reports a payload that could not be turned into a table.
// Ingestion stops at the first ParseError and produces no partial result.
type ParseError struct {
	Format Format // Format being parsed, empty if it could not be determined
	Reason string // Short description of the failure
	Err    error  // Underlying cause, may be nil
}

func (e *ParseError) Error() string {
	prefix := "parse error"
	if e.Format != "" {
		prefix = fmt.Sprintf("parse %s", e.Format)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

// IsParseError reports whether err is or wraps a ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
