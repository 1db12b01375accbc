package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Sentinel error kinds.  Every failure returned by the catalog, the seat
// inventory, the booking manager and the payment processor wraps exactly
// one of these, so callers can branch with errors.Is.
var (
	ErrNotFound           = errors.New("not_found")
	ErrSeatUnavailable    = errors.New("seat_unavailable")
	ErrDuplicateSeatLabel = errors.New("duplicate_seat_label")
	ErrEmptySeatSelection = errors.New("empty_seat_selection")
	ErrInvalidState       = errors.New("invalid_state")
	ErrAmountMismatch     = errors.New("amount_mismatch")
	ErrValidation         = errors.New("validation_failed")
)

// Error carries the kind of a failure together with the offending
// identifier or field so the caller can decide whether to retry with
// different input or abort.
type Error struct {
	Kind    error    // one of the sentinel kinds above
	Entity  string   // movie, theater, showtime, booking, payment, reservation
	ID      string   // offending identifier, if any
	Field   string   // offending request field, if any
	Seats   []string // offending seat labels, if any
	Message string   // human readable detail
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Kind.Error() + ": " + e.Message
	}
	return e.Kind.Error()
}

func (e *Error) Unwrap() error { return e.Kind }

// AsError extracts the structured error from err, if present.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// NotFound reports an unknown identifier.
func NotFound(entity, id string) error {
	return &Error{Kind: ErrNotFound, Entity: entity, ID: id, Message: fmt.Sprintf("%s %q not found", entity, id)}
}

// SeatUnavailable reports seats that are unknown or not AVAILABLE.
func SeatUnavailable(showtimeID string, labels []string) error {
	return &Error{
		Kind:    ErrSeatUnavailable,
		Entity:  "showtime",
		ID:      showtimeID,
		Seats:   append([]string(nil), labels...),
		Message: "unavailable seats: " + strings.Join(labels, ", "),
	}
}

// DuplicateSeat reports a label requested twice in one call.
func DuplicateSeat(label string) error {
	return &Error{Kind: ErrDuplicateSeatLabel, Field: "seats", Seats: []string{label}, Message: fmt.Sprintf("seat %q requested more than once", label)}
}

// EmptySelection reports a reservation request without seats.
func EmptySelection() error {
	return &Error{Kind: ErrEmptySeatSelection, Field: "seats", Message: "at least one seat is required"}
}

// InvalidState reports an operation that is illegal in the entity's
// current state.
func InvalidState(entity, id string, current any) error {
	return &Error{Kind: ErrInvalidState, Entity: entity, ID: id, Message: fmt.Sprintf("%s %s is %v", entity, id, current)}
}

// AmountMismatch reports a payment amount different from the booking total.
func AmountMismatch(bookingID string, expected, got decimal.Decimal) error {
	return &Error{
		Kind:    ErrAmountMismatch,
		Entity:  "booking",
		ID:      bookingID,
		Field:   "amount",
		Message: fmt.Sprintf("expected %s, got %s", expected.StringFixed(2), got.StringFixed(2)),
	}
}

// Invalid reports a malformed request field.
func Invalid(field, msg string) error {
	return &Error{Kind: ErrValidation, Field: field, Message: msg}
}
