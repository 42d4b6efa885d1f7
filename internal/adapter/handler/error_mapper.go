package handler

import (
	"errors"
	"net/http"

	"agartha-hub/internal/domain"

	"github.com/labstack/echo/v4"
)

// errorBody is the structured error envelope API clients receive. Wrapped
// causes never leave the server; only the kind code and message do.
type errorBody struct {
	OK    bool        `json:"ok"`
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// statusFor maps each domain error kind to its HTTP status. The kind set is
// closed, so the mapping is exhaustive.
func statusFor(kind domain.Kind) int {
	switch kind {
	case domain.KindUnauthenticated:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindValidationFailed:
		return http.StatusBadRequest
	case domain.KindServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError renders err as a structured JSON error response.
func respondError(c echo.Context, err error) error {
	kind := domain.KindOf(err)

	message := "internal error"
	switch kind {
	case domain.KindUnauthenticated:
		message = "Authentication required"
	case domain.KindForbidden:
		message = "Not authorized"
	case domain.KindValidationFailed:
		message = "Validation failed"
		var de *domain.Error
		if errors.As(err, &de) {
			message = de.Message
		}
	case domain.KindServiceUnavailable:
		message = "Service temporarily unavailable, retry shortly"
	}

	return c.JSON(statusFor(kind), errorBody{
		OK:    false,
		Error: errorDetail{Code: kind.String(), Message: message},
	})
}
