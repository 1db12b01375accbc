package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/showtime-booking/internal/booking"
	"github.com/iliyamo/showtime-booking/internal/middleware"
)

// BookingHandler exposes the booking lifecycle.
type BookingHandler struct {
	Bookings *booking.Manager
}

// CreateBookingRequest is the body of POST /v1/bookings.  UserID falls
// back to the X-User-ID header.
type CreateBookingRequest struct {
	ShowtimeID string   `json:"showtime_id"`
	Seats      []string `json:"seats"`
	UserID     string   `json:"user_id"`
}

func (h *BookingHandler) Create(c echo.Context) error {
	var req CreateBookingRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "body", "invalid JSON body")
	}
	req.ShowtimeID = strings.TrimSpace(req.ShowtimeID)
	if req.ShowtimeID == "" {
		return badRequest(c, "showtime_id", "showtime_id is required")
	}
	if req.UserID == "" {
		req.UserID = middleware.UserID(c)
	}
	for i := range req.Seats {
		req.Seats[i] = strings.ToUpper(strings.TrimSpace(req.Seats[i]))
	}

	b, err := h.Bookings.CreateBooking(c.Request().Context(), req.ShowtimeID, req.Seats, req.UserID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, b)
}

func (h *BookingHandler) Get(c echo.Context) error {
	b, err := h.Bookings.GetBooking(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

// ListByUser serves GET /v1/users/:id/bookings.
func (h *BookingHandler) ListByUser(c echo.Context) error {
	list, err := h.Bookings.ListBookings(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"bookings": list})
}

func (h *BookingHandler) Cancel(c echo.Context) error {
	b, err := h.Bookings.CancelBooking(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, b)
}
