package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Extraction error taxonomy. All of these are handled per document and
// never abort the surrounding batch.
var (
	ErrExtractionFailed = errors.New("extraction failed")
	ErrOCRSubmission    = errors.New("ocr submission rejected")
	ErrOCRAnalysis      = errors.New("ocr analysis failed")
	ErrOCRTimeout       = errors.New("ocr poll budget exhausted")
	ErrInvalidInput     = errors.New("invalid input")
)

// NewAppError wraps a cause with a stable code and human message.
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
