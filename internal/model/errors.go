package model

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes failures surfaced to callers.
type ErrorCode string

const (
	// ErrCodeValidation indicates a missing or malformed input field.
	ErrCodeValidation ErrorCode = "VALIDATION"

	// ErrCodeDuplicate indicates a resident name already on record.
	ErrCodeDuplicate ErrorCode = "DUPLICATE"

	// ErrCodeNotFound indicates a referenced record does not exist.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeStore indicates a persistence failure.
	ErrCodeStore ErrorCode = "STORE"
)

// Error is the single error type returned by the shelter components.
//
// Validation, duplicate and not-found errors are user-visible and never
// retried. Store errors are fatal for the operation that produced them.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Field names the offending input (validation errors only).
	Field string

	// Err is the underlying cause (store errors only).
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Field != "":
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Field, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewValidationError reports a missing or malformed field.
func NewValidationError(field, message string) *Error {
	return &Error{Code: ErrCodeValidation, Field: field, Message: message}
}

// NewDuplicateError reports that first/last already names a resident.
func NewDuplicateError(first, last string) *Error {
	return &Error{
		Code:    ErrCodeDuplicate,
		Message: fmt.Sprintf("resident %q already exists", first+" "+last),
	}
}

// NewNotFoundError reports a missing record of the given kind.
func NewNotFoundError(kind string, id int64) *Error {
	return &Error{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s %d not found", kind, id),
	}
}

// WrapStoreError wraps a persistence failure from op.
func WrapStoreError(op string, err error) *Error {
	return &Error{Code: ErrCodeStore, Message: op, Err: err}
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool { return CodeOf(err) == ErrCodeValidation }

// IsDuplicate reports whether err is a duplicate-resident error.
func IsDuplicate(err error) bool { return CodeOf(err) == ErrCodeDuplicate }

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool { return CodeOf(err) == ErrCodeNotFound }

// IsStore reports whether err is a persistence error.
func IsStore(err error) bool { return CodeOf(err) == ErrCodeStore }
