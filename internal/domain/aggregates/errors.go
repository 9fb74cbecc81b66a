package aggregates

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode standardizes aggregate failure semantics across the roadmap domain.
type ErrorCode string

const (
	CodeValidation         ErrorCode = "validation"
	CodeNotFound           ErrorCode = "not_found"
	CodeAlreadyDeleted     ErrorCode = "already_deleted"
	CodeConflict           ErrorCode = "conflict"
	CodeInvariantViolation ErrorCode = "invariant_violation"
	CodePreconditionFailed ErrorCode = "precondition_failed"
	CodeRetryable          ErrorCode = "retryable"
	CodeInternal           ErrorCode = "internal"
)

// FieldError attributes a validation failure to one input field or entity.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (f FieldError) String() string {
	if f.Field == "" {
		return f.Message
	}
	return f.Field + ": " + f.Message
}

// Error is the canonical aggregate error wrapper.
type Error struct {
	Code    ErrorCode
	Op      string
	Message string
	Fields  []FieldError
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	op := strings.TrimSpace(e.Op)
	msg := strings.TrimSpace(e.Message)
	switch {
	case op != "" && msg != "":
		return fmt.Sprintf("%s: %s (%s)", op, msg, e.Code)
	case op != "":
		return fmt.Sprintf("%s (%s)", op, e.Code)
	case msg != "":
		return fmt.Sprintf("%s (%s)", msg, e.Code)
	default:
		return string(e.Code)
	}
}

func (e *Error) Unwrap() error { return e.Cause }

// NewError builds an aggregate error with explicit code + operation.
func NewError(code ErrorCode, op, message string, cause error) error {
	return &Error{
		Code:    code,
		Op:      strings.TrimSpace(op),
		Message: strings.TrimSpace(message),
		Cause:   cause,
	}
}

// Wrap annotates an existing error with aggregate error semantics.
func Wrap(code ErrorCode, op string, err error) error {
	if err == nil {
		return nil
	}
	var aggErr *Error
	if errors.As(err, &aggErr) && len(aggErr.Fields) > 0 {
		return &Error{Code: code, Op: strings.TrimSpace(op), Message: aggErr.Message, Fields: aggErr.Fields, Cause: err}
	}
	return NewError(code, op, err.Error(), err)
}

// Validation builds a field-attributed validation failure.
func Validation(op string, fields ...FieldError) error {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f.String())
	}
	return &Error{
		Code:    CodeValidation,
		Op:      strings.TrimSpace(op),
		Message: strings.Join(parts, "; "),
		Fields:  fields,
	}
}

// NotFound reports a missing entity of the given kind.
func NotFound(op, kind string, id fmt.Stringer) error {
	return NewError(CodeNotFound, op, fmt.Sprintf("%s '%s' not found", kind, id), nil)
}

// AlreadyDeleted reports an operation against a soft-deleted root.
func AlreadyDeleted(op, kind string, id fmt.Stringer) error {
	return NewError(CodeAlreadyDeleted, op, fmt.Sprintf("%s '%s' has been deleted", kind, id), nil)
}

// IsCode checks whether err (or wrapped err) carries the given aggregate code.
func IsCode(err error, code ErrorCode) bool {
	var aggErr *Error
	if !errors.As(err, &aggErr) {
		return false
	}
	return aggErr.Code == code
}

// CodeOf extracts the aggregate error code when available.
func CodeOf(err error) ErrorCode {
	var aggErr *Error
	if !errors.As(err, &aggErr) {
		return ""
	}
	return aggErr.Code
}

// FieldsOf returns the field attributions carried by err, if any.
func FieldsOf(err error) []FieldError {
	var aggErr *Error
	if !errors.As(err, &aggErr) {
		return nil
	}
	return aggErr.Fields
}
