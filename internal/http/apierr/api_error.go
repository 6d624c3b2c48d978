package apierr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tuanvumaihuynh/catalog-service/pkg/validator"
	"github.com/tuanvumaihuynh/catalog-service/pkg/zerror"
)

// FieldError describes a single invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorResponse is the error response for the API.
type ErrorResponse struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Details []FieldError `json:"details,omitempty"`

	// StatusCode is the status code for the error response.
	StatusCode int `json:"-"`
}

func New(err error) ErrorResponse {
	return errorToErrorResponse(err)
}

const internalServerErrorCode = "internalServerError"

func errorToErrorResponse(err error) ErrorResponse {
	var zErr zerror.ZError
	if errors.As(err, &zErr) {
		status := ZErrorStatusToHTTPStatus(zErr.Status())
		msg := zErr.Msg()
		if status >= http.StatusInternalServerError && zErr.Parent() != nil {
			msg = fmt.Sprintf("%s: %v", msg, zErr.Parent())
		}

		return ErrorResponse{
			Code:       zErr.Code(),
			Message:    msg,
			StatusCode: status,
		}
	}

	if validationErrs, ok := validator.AsValidationErrors(err); ok {
		details := make([]FieldError, len(validationErrs))
		for i, fe := range validationErrs {
			details[i] = FieldError{
				Field:   fe.Field(),
				Message: validator.ValidationErrorMessage(fe),
			}
		}

		return ErrorResponse{
			Code:       "validationError",
			Message:    "validation error",
			Details:    details,
			StatusCode: http.StatusBadRequest,
		}
	}

	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return ErrorResponse{
			Code:       "requestTooLarge",
			Message:    fmt.Sprintf("request body exceeds %d bytes", maxBytesErr.Limit),
			StatusCode: http.StatusRequestEntityTooLarge,
		}
	}

	return ErrorResponse{
		Code:       internalServerErrorCode,
		Message:    err.Error(),
		StatusCode: http.StatusInternalServerError,
	}
}

func ZErrorStatusToHTTPStatus(status zerror.Status) int {
	switch status {
	case zerror.StatusUnauthorized:
		return http.StatusUnauthorized
	case zerror.StatusForbidden:
		return http.StatusForbidden
	case zerror.StatusNotFound:
		return http.StatusNotFound
	case zerror.StatusUnprocessableEntity:
		return http.StatusUnprocessableEntity
	case zerror.StatusConflict:
		return http.StatusConflict
	case zerror.StatusTooManyRequests:
		return http.StatusTooManyRequests
	case zerror.StatusBadRequest:
		return http.StatusBadRequest
	case zerror.StatusValidationFailed:
		return http.StatusBadRequest
	case zerror.StatusUnknown, zerror.StatusInternalServerError:
		return http.StatusInternalServerError
	case zerror.StatusTimeout:
		return http.StatusGatewayTimeout
	case zerror.StatusNotImplemented:
		return http.StatusNotImplemented
	case zerror.StatusBadGateway:
		return http.StatusBadGateway
	case zerror.StatusServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
