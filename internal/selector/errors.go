package selector

import (
	"errors"
	"fmt"
)

// Error is a programmer error detected while building a selection.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Param names the offending parameter ("type", "types", "module",
	// "selector", ...).
	Param string

	// Message is a human-readable description.
	Message string
}

// ErrorCode categorizes selection errors.
type ErrorCode string

const (
	// ErrCodeInvalidInput indicates a required collector argument is absent
	// or unusable.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"

	// ErrCodeNullSelector indicates a method was invoked on a nil Selector.
	ErrCodeNullSelector ErrorCode = "NULL_SELECTOR"
)

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s (param=%s)", e.Code, e.Message, e.Param)
}

// IsInvalidInput returns true if err is an INVALID_INPUT selection error.
// Uses errors.As to handle wrapped errors.
func IsInvalidInput(err error) bool {
	var se *Error
	if errors.As(err, &se) {
		return se.Code == ErrCodeInvalidInput
	}
	return false
}

// IsNullSelector returns true if err is a NULL_SELECTOR selection error.
// Uses errors.As to handle wrapped errors.
func IsNullSelector(err error) bool {
	var se *Error
	if errors.As(err, &se) {
		return se.Code == ErrCodeNullSelector
	}
	return false
}

// NewInvalidInputError creates an Error for an absent or unusable argument.
func NewInvalidInputError(param, message string) *Error {
	return &Error{Code: ErrCodeInvalidInput, Param: param, Message: message}
}

// NewNullSelectorError creates an Error for a call on a nil Selector.
func NewNullSelectorError(param string) *Error {
	return &Error{
		Code:    ErrCodeNullSelector,
		Param:   param,
		Message: "selector is nil",
	}
}
