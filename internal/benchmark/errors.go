package benchmark

import (
	"errors"
	"fmt"
)

var (
	ErrHeaderTooShort     = errors.New("header block too short")
	ErrBlockTruncated     = errors.New("test file block truncated")
	ErrShortRow           = errors.New("result row has too few columns")
	ErrBadNumber          = errors.New("metric is not a number")
	ErrMissingMeasurement = errors.New("missing measurement")
	ErrVariantMismatch    = errors.New("row variant does not match header")
	ErrDuplicateFile      = errors.New("test file listed twice")
)

// ParseError reports where in the log parsing failed. Line is 1-based.
type ParseError struct {
	Line   int
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %v: %s", e.Line, e.Err, e.Reason)
	}
	return fmt.Sprintf("%v: %s", e.Err, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func parseErr(line int, err error, format string, args ...any) *ParseError {
	return &ParseError{Line: line, Err: err, Reason: fmt.Sprintf(format, args...)}
}
