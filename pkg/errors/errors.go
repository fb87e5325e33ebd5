package errors

import "errors"

// Codes shared between the domain packages and the HTTP transport.
const (
	CodeInvalidInput = "invalid_input"
	CodeUnauthorized = "unauthorized"
	CodeInternal     = "internal_error"
)

// FieldError names an invalid request field and why it was rejected; it never carries the value.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// AppError encodes domain specific error details.
type AppError struct {
	Code    string
	Message string
	Details []FieldError
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Wrap produces a new AppError instance.
func Wrap(code, message string, err error) error {
	if err == nil {
		return &AppError{Code: code, Message: message}
	}
	return &AppError{Code: code, Message: message, Err: err}
}

// Invalid reports rejected input with per-field details.
func Invalid(message string, details ...FieldError) error {
	return &AppError{Code: CodeInvalidInput, Message: message, Details: details}
}

// DetailsOf returns field details carried by an AppError.
func DetailsOf(err error) []FieldError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Details
	}
	return nil
}

// IsCode helps handler differentiate failures.
func IsCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// MessageOf returns the client-safe message of an AppError, or "" for other errors.
func MessageOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return ""
}
