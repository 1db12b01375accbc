package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus is the outcome of a (simulated) payment attempt.
type PaymentStatus string

const (
	PaymentSuccess PaymentStatus = "success"
	PaymentFailed  PaymentStatus = "failed"
)

// Payment is produced once per payment attempt that reaches a pending
// booking.  ReceiptURL is only set for successful payments.
type Payment struct {
	ID         string          `json:"payment_id"`
	BookingID  string          `json:"booking_id"`
	Amount     decimal.Decimal `json:"amount"`
	Method     string          `json:"payment_method"`
	Status     PaymentStatus   `json:"payment_status"`
	ReceiptURL string          `json:"receipt_url,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}
