package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// BookingStatus is the lifecycle state of a booking.  PENDING is the
// initial state; CONFIRMED, CANCELLED and EXPIRED are terminal.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingExpired   BookingStatus = "expired"
)

// Terminal reports whether no further transition is allowed from s.
func (s BookingStatus) Terminal() bool {
	return s == BookingConfirmed || s == BookingCancelled || s == BookingExpired
}

// CanTransitionTo reports whether s -> next is a legal booking transition.
// Only PENDING has outgoing edges.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	return s == BookingPending && next.Terminal()
}

// Booking records a user's claim on one or more seats of a single
// showtime.  TotalPrice is fixed when the seats are reserved and is never
// recomputed afterwards.
//
// Fields:
//
//	ID            – generated UUID.
//	ShowtimeID    – the showtime the seats belong to.
//	Seats         – ordered, distinct seat labels (at least one).
//	UserID        – caller supplied user identifier.
//	Status        – pending, confirmed, cancelled or expired.
//	TotalPrice    – sum of the seat prices at reservation time.
//	PaymentID     – the payment that settled the booking, if any.
//	ReservationID – inventory token holding the seats.
//	CreatedAt     – creation timestamp (UTC).
//	ExpiresAt     – when an unpaid hold becomes eligible for reclamation.
//	UpdatedAt     – last transition timestamp.
type Booking struct {
	ID            string          `json:"booking_id"`
	ShowtimeID    string          `json:"showtime_id"`
	Seats         []string        `json:"seats"`
	UserID        string          `json:"user_id"`
	Status        BookingStatus   `json:"status"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	PaymentID     string          `json:"payment_id,omitempty"`
	ReservationID string          `json:"-"`
	CreatedAt     time.Time       `json:"created_at"`
	ExpiresAt     time.Time       `json:"expires_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Clone returns a copy that shares no mutable state with b.
func (b Booking) Clone() Booking {
	out := b
	out.Seats = append([]string(nil), b.Seats...)
	return out
}
