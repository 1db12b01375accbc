package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/showtime-booking/internal/model"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message,omitempty"`
	ID      string   `json:"id,omitempty"`
	Field   string   `json:"field,omitempty"`
	Seats   []string `json:"seats,omitempty"`
}

// StatusFor maps an error kind to an HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrSeatUnavailable), errors.Is(err, model.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, model.ErrAmountMismatch):
		return http.StatusUnprocessableEntity
	case errors.Is(err, model.ErrDuplicateSeatLabel), errors.Is(err, model.ErrEmptySeatSelection), errors.Is(err, model.ErrValidation):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// fail writes err as an ErrorResponse.  Unclassified errors are returned
// to Echo so ErrorHandler logs them and answers 500 without detail.
func fail(c echo.Context, err error) error {
	e, ok := model.AsError(err)
	if !ok {
		return err
	}
	return c.JSON(StatusFor(err), ErrorResponse{
		Error:   e.Kind.Error(),
		Message: e.Message,
		ID:      e.ID,
		Field:   e.Field,
		Seats:   e.Seats,
	})
}

func badRequest(c echo.Context, field, msg string) error {
	return fail(c, model.Invalid(field, msg))
}

// ErrorHandler renders framework errors (unknown routes, wrong methods,
// panics turned into errors) in the same shape as domain errors.
func ErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		var he *echo.HTTPError
		if errors.As(err, &he) {
			msg := http.StatusText(he.Code)
			if s, ok := he.Message.(string); ok {
				msg = s
			}
			_ = c.JSON(he.Code, ErrorResponse{Error: errorCode(he.Code), Message: msg})
			return
		}
		if _, ok := model.AsError(err); ok {
			_ = fail(c, err)
			return
		}
		log.Error("unhandled error", zap.String("path", c.Request().URL.Path), zap.Error(err))
		_ = c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal_error", Message: "internal server error"})
	}
}

func errorCode(status int) string {
	switch status {
	case http.StatusNotFound:
		return "not_found"
	case http.StatusMethodNotAllowed:
		return "method_not_allowed"
	case http.StatusTooManyRequests:
		return "too_many_requests"
	case http.StatusBadRequest:
		return "bad_request"
	}
	if status >= 500 {
		return "internal_error"
	}
	return "request_failed"
}
