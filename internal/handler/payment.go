package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/showtime-booking/internal/model"
	"github.com/iliyamo/showtime-booking/internal/payment"
)

// PaymentHandler exposes the payment processor.
type PaymentHandler struct {
	Payments *payment.Processor
}

// PaymentRequest is the body of POST /v1/payments.  Amount accepts a JSON
// number or string.
type PaymentRequest struct {
	BookingID     string           `json:"booking_id"`
	PaymentMethod string           `json:"payment_method"`
	Amount        *decimal.Decimal `json:"amount"`
}

// PaymentResponse flattens a receipt the way clients consume it.
type PaymentResponse struct {
	PaymentID     string                `json:"payment_id"`
	PaymentStatus model.PaymentStatus   `json:"payment_status"`
	BookingID     string                `json:"booking_id"`
	BookingStatus model.BookingStatus   `json:"booking_status"`
	Amount        decimal.Decimal       `json:"amount"`
	ReceiptURL    string                `json:"receipt_url,omitempty"`
	Confirmation  *payment.Confirmation `json:"confirmation,omitempty"`
}

// Create records one payment attempt.  A declined payment is still 201:
// the attempt was recorded and the booking expired.
func (h *PaymentHandler) Create(c echo.Context) error {
	var req PaymentRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "body", "invalid JSON body")
	}
	req.BookingID = strings.TrimSpace(req.BookingID)
	if req.BookingID == "" {
		return badRequest(c, "booking_id", "booking_id is required")
	}
	if req.Amount == nil {
		return badRequest(c, "amount", "amount is required")
	}

	r, err := h.Payments.ProcessPayment(c.Request().Context(), req.BookingID, req.PaymentMethod, *req.Amount)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, PaymentResponse{
		PaymentID:     r.Payment.ID,
		PaymentStatus: r.Payment.Status,
		BookingID:     r.Booking.ID,
		BookingStatus: r.Booking.Status,
		Amount:        r.Payment.Amount,
		ReceiptURL:    r.Payment.ReceiptURL,
		Confirmation:  r.Confirmation,
	})
}

func (h *PaymentHandler) Get(c echo.Context) error {
	p, err := h.Payments.GetPayment(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// ListByBooking serves GET /v1/bookings/:id/payments.
func (h *PaymentHandler) ListByBooking(c echo.Context) error {
	list, err := h.Payments.ListPayments(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"payments": list})
}
