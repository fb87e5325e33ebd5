package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yanqian/outfit-advisor/pkg/errors"
)

// Response codes rendered in error bodies.
const (
	codeValidation      = "VALIDATION_ERROR"
	codeInvalidJSON     = "INVALID_JSON"
	codeUnauthorized    = "UNAUTHORIZED"
	codePayloadTooLarge = "PAYLOAD_TOO_LARGE"
	codeRateLimited     = "RATE_LIMITED"
	codeInternal        = "INTERNAL_ERROR"
)

// HTTPError captures the metadata required to serialize an error response consistently.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Details []apperrors.FieldError
	Err     error
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// Unwrap exposes the cause to errors.Is/As.
func (e *HTTPError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewHTTPError is a helper to build an HTTPError instance.
func NewHTTPError(status int, code, message string, err error) *HTTPError {
	return &HTTPError{Status: status, Code: code, Message: message, Err: err}
}

func asHTTPError(err error) *HTTPError {
	if err == nil {
		return nil
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return fromDomainError(err)
}

// fromDomainError maps service error codes onto transport errors. Internal
// failures never expose their cause.
func fromDomainError(err error) *HTTPError {
	switch {
	case apperrors.IsCode(err, apperrors.CodeInvalidInput):
		message := apperrors.MessageOf(err)
		if message == "" {
			message = "request validation failed"
		}
		return &HTTPError{
			Status:  http.StatusBadRequest,
			Code:    codeValidation,
			Message: message,
			Details: apperrors.DetailsOf(err),
			Err:     err,
		}
	case apperrors.IsCode(err, apperrors.CodeUnauthorized):
		return errUnauthorized(err)
	default:
		return &HTTPError{
			Status:  http.StatusInternalServerError,
			Code:    codeInternal,
			Message: "something went wrong",
			Err:     err,
		}
	}
}

func errUnauthorized(err error) *HTTPError {
	return NewHTTPError(http.StatusUnauthorized, codeUnauthorized, "authentication required", err)
}

func abortWithError(c *gin.Context, err *HTTPError) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}
