// Package response contains response utility functions and types
package response

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ampweb/userdirapi/internal/apperrors"
)

// Response represents the standard API response structure
type Response struct {
	Status    string      `json:"status"`
	Data      interface{} `json:"data,omitempty"`
	ErrorType string      `json:"error_type,omitempty"`
	Message   string      `json:"message,omitempty"`
}

// SuccessResponse sends a successful JSON response
func SuccessResponse(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, Response{
		Status: "success",
		Data:   data,
	})
}

// ErrorResponse sends an error JSON response
func ErrorResponse(c echo.Context, httpStatus int, errorType, message string) error {
	return c.JSON(httpStatus, Response{
		Status:    "error",
		ErrorType: errorType,
		Message:   message,
	})
}

// ServiceErrorResponse maps a service error to the HTTP status and error
// type of its class and sends it
func ServiceErrorResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, apperrors.ErrParameter):
		return ErrorResponse(c, http.StatusBadRequest, "InputException", apperrors.Message(err))
	case errors.Is(err, apperrors.ErrAuthentication):
		return ErrorResponse(c, http.StatusUnauthorized, "AuthenticationException", apperrors.Message(err))
	case errors.Is(err, apperrors.ErrPermission):
		return ErrorResponse(c, http.StatusForbidden, "AuthorizationException", apperrors.Message(err))
	case errors.Is(err, apperrors.ErrIntegrity):
		return ErrorResponse(c, http.StatusConflict, "IntegrityException", apperrors.Message(err))
	default:
		return ErrorResponse(c, http.StatusInternalServerError, "ServerException", apperrors.Message(err))
	}
}
