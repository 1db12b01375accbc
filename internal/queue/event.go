// Package queue defines message payloads exchanged over the message broker
// and the consumer that audits them.
package queue

import "github.com/shopspring/decimal"

// BookingConfirmedQueue is the durable queue carrying BookingConfirmedEvent.
const BookingConfirmedQueue = "booking.confirmed"

// BookingConfirmedEvent is published when a payment confirms a booking.
// It carries enough for downstream consumers to log, notify or run
// analytics without calling back into the booking engine.
type BookingConfirmedEvent struct {
	BookingID   string          `json:"booking_id"`
	UserID      string          `json:"user_id"`
	ShowtimeID  string          `json:"showtime_id"`
	MovieTitle  string          `json:"movie_title"`
	TheaterName string          `json:"theater_name"`
	Date        string          `json:"date"`
	Time        string          `json:"time"`
	Seats       []string        `json:"seats"`
	Total       decimal.Decimal `json:"total"`
	PaymentID   string          `json:"payment_id"`
	ConfirmedAt string          `json:"confirmed_at"`
}
