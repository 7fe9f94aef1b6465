package errors

import "fmt"

// RowError wraps a specific error with the input row and column it came from.
type RowError struct {
	Row   int
	Field string
	Err   error
}

func (e *RowError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("row %d: %v", e.Row, e.Err)
	}
	return fmt.Sprintf("row %d, column %q: %v", e.Row, e.Field, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// Define specific error types for better error handling
var (
	ErrNegativeHours      = fmt.Errorf("negative hours")
	ErrNoWorksheet        = fmt.Errorf("no worksheet found")
	ErrEmptyWorksheet     = fmt.Errorf("worksheet is empty")
	ErrMissingHeader      = fmt.Errorf("missing required header")
	ErrUnsupportedFormat  = fmt.Errorf("unsupported file format")
	ErrEmptyResponse      = fmt.Errorf("empty response from model")
	ErrRemoteStatus       = fmt.Errorf("remote store returned an error status")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrWorkPackNotFound   = fmt.Errorf("work pack not found")
	ErrInvalidStatus      = fmt.Errorf("invalid work pack status")
	ErrAdvisorUnavailable = fmt.Errorf("advisor not configured")
)
