package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"papertrade/internal/domain"
)

// Response represents a standardized API response
type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   interface{} `json:"error,omitempty"`
}

// SuccessResponse sends a success response
func SuccessResponse(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, Response{
		Status: "success",
		Data:   data,
	})
}

// CreatedResponse sends a 201 Created response
func CreatedResponse(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, Response{
		Status: "success",
		Data:   data,
	})
}

// ErrorResponse sends an error response
func ErrorResponse(c echo.Context, statusCode int, message string, err interface{}) error {
	return c.JSON(statusCode, Response{
		Status:  "error",
		Message: message,
		Error:   err,
	})
}

// BadRequestResponse sends a 400 Bad Request response
func BadRequestResponse(c echo.Context, message string) error {
	return ErrorResponse(c, http.StatusBadRequest, message, nil)
}

// UnauthorizedResponse sends a 401 Unauthorized response
func UnauthorizedResponse(c echo.Context, message string) error {
	return ErrorResponse(c, http.StatusUnauthorized, message, nil)
}

// InternalServerErrorResponse sends a 500 Internal Server Error response
func InternalServerErrorResponse(c echo.Context, message string, err error) error {
	errMsg := ""
	if err != nil {
		errMsg = err.Error()
	}
	return ErrorResponse(c, http.StatusInternalServerError, message, errMsg)
}

// DomainErrorResponse maps the expected error taxonomy to 4xx responses.
// Anything outside the taxonomy is an internal failure and stays opaque.
func DomainErrorResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidSymbol):
		return ErrorResponse(c, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrInsufficientShares):
		return ErrorResponse(c, http.StatusUnprocessableEntity, err.Error(), nil)
	case errors.Is(err, domain.ErrQuoteUnavailable):
		return ErrorResponse(c, http.StatusBadGateway, domain.ErrQuoteUnavailable.Error(), nil)
	case errors.Is(err, domain.ErrInvalidCredentials):
		return UnauthorizedResponse(c, err.Error())
	case errors.Is(err, domain.ErrDuplicateUsername):
		return ErrorResponse(c, http.StatusConflict, err.Error(), nil)
	default:
		return InternalServerErrorResponse(c, "Internal server error", nil)
	}
}
