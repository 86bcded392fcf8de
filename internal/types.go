// internal/types.go - Common types for internal packages
package internal

import (
	"errors"
	"time"
)

// SourceType represents the kind of GeoJSON data source
type SourceType string

const (
	SourceTypeAuto   SourceType = "auto"
	SourceTypeHTTP   SourceType = "http"
	SourceTypeFile   SourceType = "file"
	SourceTypeInline SourceType = "inline"
)

// ProcessingStats represents metrics for batch rendering operations
type ProcessingStats struct {
	TotalDocuments     int64
	ProcessedDocuments int64
	FailedDocuments    int64
	TotalFeatures      int64
	BytesWritten       int64
	StartTime          time.Time
	EndTime            time.Time
	Throughput         float64
}

// Error represents application-specific errors
type Error struct {
	Code    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap exposes the underlying cause to errors.Is and errors.As
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new application error
func NewError(code, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// HasCode reports whether any error in err's chain is an *Error with the given code
func HasCode(err error, code string) bool {
	for err != nil {
		var appErr *Error
		if !errors.As(err, &appErr) {
			return false
		}
		if appErr.Code == code {
			return true
		}
		err = appErr.Cause
	}
	return false
}

// ErrorCode constants for common error types
const (
	ErrorCodeLoad       = "LOAD_ERROR"
	ErrorCodeMalformed  = "MALFORMED_GEOMETRY"
	ErrorCodeNetwork    = "NETWORK_ERROR"
	ErrorCodeValidation = "VALIDATION_ERROR"
	ErrorCodeConfig     = "CONFIG_ERROR"
	ErrorCodeNotFound   = "NOT_FOUND"
	ErrorCodeFileSystem = "FILESYSTEM_ERROR"
	ErrorCodeState      = "STATE_ERROR"
	ErrorCodeRender     = "RENDER_ERROR"
)
