package api

import (
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/yaqraapp/yaqra-server/internal/errors"
)

// APIError is a custom error type that implements huma.StatusError.
// It renders with the same shape as a failed result envelope.
type APIError struct { //nolint:revive // API prefix is intentional for clarity
	status       int
	Succeeded    bool   `json:"succeeded" doc:"Always false"`
	ErrorMessage string `json:"error_message" doc:"Human-readable error message"`
	Code         string `json:"code" doc:"Machine-readable error code"`
	Details      any    `json:"details,omitempty" doc:"Additional error details"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.ErrorMessage
}

// GetStatus implements huma.StatusError.
func (e *APIError) GetStatus() int {
	return e.status
}

// ContentType returns the content type for the error response.
func (e *APIError) ContentType(_ string) string {
	return "application/json"
}

// RegisterErrorHandler configures huma to use domain errors.
// Call this after creating the huma.API but before registering routes.
func RegisterErrorHandler() {
	huma.NewError = func(status int, message string, errs ...error) huma.StatusError {
		var details []string
		for _, err := range errs {
			var domainErr *domainerrors.Error
			if errors.As(err, &domainErr) && domainErr.Code.Expected() {
				return &APIError{
					status:       domainErr.HTTPStatus(),
					Code:         string(domainErr.Code),
					ErrorMessage: domainErr.Message,
					Details:      domainErr.Details,
				}
			}
			if err != nil {
				details = append(details, err.Error())
			}
		}

		apiErr := &APIError{
			status:       status,
			Code:         statusToCode(status),
			ErrorMessage: message,
		}
		// Validation details help clients; internal causes stay in the logs.
		if status < http.StatusInternalServerError && len(details) > 0 {
			apiErr.Details = details
		}
		return apiErr
	}
}

// statusToCode maps HTTP status codes to our domain error codes.
func statusToCode(status int) string {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return string(domainerrors.CodeValidation)
	case http.StatusUnauthorized:
		return string(domainerrors.CodeUnauthorized)
	case http.StatusForbidden:
		return string(domainerrors.CodeForbidden)
	case http.StatusNotFound:
		return string(domainerrors.CodeNotFound)
	case http.StatusConflict:
		return string(domainerrors.CodeConflict)
	case http.StatusTooManyRequests:
		return string(domainerrors.CodeRateLimited)
	default:
		return string(domainerrors.CodeInternal)
	}
}
