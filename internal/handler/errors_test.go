package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/iliyamo/showtime-booking/internal/model"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{model.NotFound("booking", "b1"), http.StatusNotFound},
		{model.SeatUnavailable("st001", []string{"A1"}), http.StatusConflict},
		{model.InvalidState("booking", "b1", model.BookingConfirmed), http.StatusConflict},
		{model.AmountMismatch("b1", decimal.NewFromInt(37), decimal.NewFromInt(36)), http.StatusUnprocessableEntity},
		{model.DuplicateSeat("A1"), http.StatusBadRequest},
		{model.EmptySelection(), http.StatusBadRequest},
		{model.Invalid("user_id", "required"), http.StatusBadRequest},
		{fmt.Errorf("wrapped: %w", model.NotFound("payment", "p1")), http.StatusNotFound},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StatusFor(tc.err), tc.err.Error())
	}
}

func TestFailBody(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	_ = fail(c, model.SeatUnavailable("st001", []string{"A5", "A6"}))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"error":"seat_unavailable","message":"unavailable seats: A5, A6","id":"st001","seats":["A5","A6"]}`, rec.Body.String())
}

func TestUnclassifiedErrorsAreLoggedByErrorHandler(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler(zap.New(core))
	e.GET("/boom", func(c echo.Context) error {
		return fail(c, fmt.Errorf("save booking: %w", errors.New("secret detail")))
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error":"internal_error"`)
	assert.NotContains(t, rec.Body.String(), "secret detail")

	entries := logs.FilterMessage("unhandled error").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "/boom", entries[0].ContextMap()["path"])
	assert.Contains(t, entries[0].ContextMap()["error"], "secret detail")
}

func TestErrorHandlerRendersHTTPErrors(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler(zap.NewNop())

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error":"not_found"`)
}
