package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	apperrors "github.com/yanqian/outfit-advisor/pkg/errors"
)

var registerFieldNames sync.Once

// useJSONFieldNames makes validation errors report request paths such as
// outfits[0].score instead of Go field names.
func useJSONFieldNames() {
	registerFieldNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return field.Name
			}
			return name
		})
	})
}

// bindError classifies a ShouldBindJSON failure.
func bindError(err error) *HTTPError {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return NewHTTPError(http.StatusRequestEntityTooLarge, codePayloadTooLarge,
			fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit), err)
	}
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		details := make([]apperrors.FieldError, 0, len(validationErrs))
		for _, fe := range validationErrs {
			details = append(details, apperrors.FieldError{Field: fieldPath(fe), Reason: reasonFor(fe)})
		}
		return &HTTPError{
			Status:  http.StatusBadRequest,
			Code:    codeValidation,
			Message: "request validation failed",
			Details: details,
			Err:     err,
		}
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return &HTTPError{
			Status:  http.StatusBadRequest,
			Code:    codeValidation,
			Message: "request validation failed",
			Details: []apperrors.FieldError{{Field: typeErr.Field, Reason: "must be a " + typeErr.Type.Kind().String()}},
			Err:     err,
		}
	}
	return NewHTTPError(http.StatusBadRequest, codeInvalidJSON, "request body must be valid JSON", err)
}

// fieldPath drops the root struct name from the validator namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

// reasonFor describes the broken rule without echoing the submitted value.
func reasonFor(fe validator.FieldError) string {
	param := fe.Param()
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(param), ", ")
	case "datetime":
		return "must be formatted as " + param
	case "min", "max":
		return boundReason(fe.Tag(), fe.Kind(), param)
	default:
		return "failed " + fe.Tag() + " validation"
	}
}

func boundReason(tag string, kind reflect.Kind, param string) string {
	word := "at least"
	if tag == "max" {
		word = "at most"
	}
	switch kind {
	case reflect.String:
		return fmt.Sprintf("must be %s %s characters", word, param)
	case reflect.Slice, reflect.Array, reflect.Map:
		return fmt.Sprintf("must contain %s %s items", word, param)
	default:
		return fmt.Sprintf("must be %s %s", word, param)
	}
}
