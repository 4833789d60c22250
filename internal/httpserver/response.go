package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/dathuynh/watch-store-api/internal/logging"
	"github.com/dathuynh/watch-store-api/internal/service"
)

// Envelope is the shape of every API response.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Errors  any    `json:"errors,omitempty"`
}

func ok(c echo.Context, code int, message string, data any) error {
	return c.JSON(code, Envelope{Success: true, Message: message, Data: data})
}

func fail(c echo.Context, code int, message string) error {
	return c.JSON(code, Envelope{Success: false, Message: message})
}

// failFields reports per-field validation errors as a 422.
func failFields(c echo.Context, message string, fields map[string][]string) error {
	return c.JSON(http.StatusUnprocessableEntity, Envelope{
		Success: false,
		Message: message,
		Errors:  fields,
	})
}

// serviceError maps the service sentinels onto HTTP statuses. Anything
// unrecognized is a 500 and gets logged with full detail; the client
// only sees a generic message.
func serviceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrValidation):
		return fail(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, service.ErrNotFound):
		return fail(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		return fail(c, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, service.ErrEmailTaken):
		return failFields(c, "validation failed", map[string][]string{
			"email": {"email already registered"},
		})
	case errors.Is(err, service.ErrInvalidOTP):
		return fail(c, http.StatusBadRequest, "invalid or expired otp")
	case errors.Is(err, service.ErrCartEmpty):
		return fail(c, http.StatusBadRequest, "cart is empty")
	case errors.Is(err, service.ErrInsufficientStock):
		return fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidTransition):
		return fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotCancellable):
		return fail(c, http.StatusBadRequest, "order can no longer be cancelled")
	default:
		logging.FromContext(c.Request().Context()).Error("internal_error",
			"method", c.Request().Method,
			"path", c.Path(),
			"error", err,
		)
		return fail(c, http.StatusInternalServerError, "internal server error")
	}
}

func pathID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return uint(id), nil
}
