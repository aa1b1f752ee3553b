package domain

import (
	"errors"
	"fmt"
)

// Render passes abort on any of these. Adapters wrap them with context;
// callers classify with errors.Is.
var (
	ErrAuthentication = errors.New("authentication failed")
	ErrQuery          = errors.New("query failed")
	ErrDataShape      = errors.New("unexpected data shape")
)

// SchemaError reports the first row that does not match the expected
// facility schema. Row is zero-based; -1 means the problem is not tied to a
// single row.
type SchemaError struct {
	Row    int
	Column string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("%s: column %s: %s", ErrDataShape, e.Column, e.Reason)
	}
	return fmt.Sprintf("%s: row %d: column %s: %s", ErrDataShape, e.Row, e.Column, e.Reason)
}

func (e *SchemaError) Unwrap() error { return ErrDataShape }

// ErrorKind names the taxonomy bucket of err for logs and metric labels.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrAuthentication):
		return "authentication"
	case errors.Is(err, ErrQuery):
		return "query"
	case errors.Is(err, ErrDataShape):
		return "data_shape"
	default:
		return "internal"
	}
}
