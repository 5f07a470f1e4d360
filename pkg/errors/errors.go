package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode represents a unique error code
type ErrorCode int

// Common error codes
const (
	ErrValidation ErrorCode = iota + 1000
	ErrRecordNotFound
	ErrPersistence
	ErrAuthRequired
	ErrNotFound
	ErrInternal
)

// AppError represents an application error
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Fields  []string  `json:"fields,omitempty"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithMessage returns a copy of the error with a more specific message.
func (e *AppError) WithMessage(message string) *AppError {
	clone := *e
	clone.Message = message
	return &clone
}

// NewValidation reports one or more missing or invalid fields.
func NewValidation(fields ...string) *AppError {
	return &AppError{
		Code:    ErrValidation,
		Message: fmt.Sprintf("missing or invalid fields: %s", strings.Join(fields, ", ")),
		Fields:  fields,
	}
}

// NewRecordNotFound is returned when a completion is submitted without a
// resolved paired medical record.
func NewRecordNotFound(message string) *AppError {
	return &AppError{
		Code:    ErrRecordNotFound,
		Message: message,
	}
}

// NewPersistence wraps a failure from the backing store. The underlying
// error is preserved for callers that unwrap.
func NewPersistence(op string, err error) *AppError {
	return &AppError{
		Code:    ErrPersistence,
		Message: fmt.Sprintf("persistence failure during %s", op),
		Err:     err,
	}
}

// NewAuthRequired is returned when a workflow is invoked without an
// authenticated user.
func NewAuthRequired(err error) *AppError {
	return &AppError{
		Code:    ErrAuthRequired,
		Message: "authentication required",
		Err:     err,
	}
}

func NewNotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Err:     err,
	}
}

func NewInternal(err error) *AppError {
	return &AppError{
		Code:    ErrInternal,
		Message: "internal server error",
		Err:     err,
	}
}

// IsCode reports whether err is an AppError carrying the given code.
func IsCode(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
