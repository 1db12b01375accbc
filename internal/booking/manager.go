// Package booking implements the booking lifecycle.  A booking starts
// PENDING with its seats HELD in the inventory and ends CONFIRMED (seats
// BOOKED), CANCELLED or EXPIRED (seats released).  All transitions of one
// booking are serialized by a per-booking lock.
package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iliyamo/showtime-booking/internal/inventory"
	"github.com/iliyamo/showtime-booking/internal/metrics"
	"github.com/iliyamo/showtime-booking/internal/model"
)

// ShowtimeFinder resolves showtime ids against the catalog.
type ShowtimeFinder interface {
	FindShowtime(id string) (model.Showtime, error)
}

// SeatReserver is the subset of the seat inventory the manager drives.
type SeatReserver interface {
	Reserve(showtimeID string, labels []string) (inventory.Reservation, error)
	Commit(tok inventory.Token) error
	Release(tok inventory.Token) (int, error)
}

// Store persists bookings.
type Store interface {
	Create(ctx context.Context, b model.Booking) error
	GetByID(ctx context.Context, id string) (model.Booking, error)
	Update(ctx context.Context, b model.Booking) error
	ListByUser(ctx context.Context, userID string) ([]model.Booking, error)
	ListPendingCreatedBefore(ctx context.Context, cutoff time.Time) ([]string, error)
}

const DefaultHoldTTL = 10 * time.Minute

type Manager struct {
	showtimes ShowtimeFinder
	seats     SeatReserver
	store     Store
	locks     *keyedMutex

	holdTTL time.Duration
	now     func() time.Time
	newID   func() string
	log     *zap.Logger
	metrics *metrics.Metrics
}

type Option func(*Manager)

// WithHoldTTL sets how long an unpaid booking is advertised as valid.
// Non-positive values are ignored.
func WithHoldTTL(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.holdTTL = d
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Manager) { m.metrics = mt }
}

func NewManager(showtimes ShowtimeFinder, seats SeatReserver, store Store, opts ...Option) *Manager {
	m := &Manager{
		showtimes: showtimes,
		seats:     seats,
		store:     store,
		locks:     newKeyedMutex(),
		holdTTL:   DefaultHoldTTL,
		now:       time.Now,
		newID:     uuid.NewString,
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// HoldTTL reports the configured hold window.
func (m *Manager) HoldTTL() time.Duration { return m.holdTTL }

// CreateBooking reserves the seats and records a PENDING booking whose
// total is the sum of the reserved seats' current prices.  When the
// reservation fails no booking is created.
func (m *Manager) CreateBooking(ctx context.Context, showtimeID string, labels []string, userID string) (model.Booking, error) {
	if strings.TrimSpace(userID) == "" {
		return model.Booking{}, model.Invalid("user_id", "user_id is required")
	}
	if _, err := m.showtimes.FindShowtime(showtimeID); err != nil {
		return model.Booking{}, err
	}

	start := time.Now()
	res, err := m.seats.Reserve(showtimeID, labels)
	if err != nil {
		if errors.Is(err, model.ErrSeatUnavailable) {
			m.metrics.ReservationConflict(showtimeID)
		}
		return model.Booking{}, err
	}

	now := m.now().UTC()
	b := model.Booking{
		ID:            m.newID(),
		ShowtimeID:    showtimeID,
		Seats:         res.Labels,
		UserID:        userID,
		Status:        model.BookingPending,
		TotalPrice:    res.Total(),
		ReservationID: res.ID,
		CreatedAt:     now,
		ExpiresAt:     now.Add(m.holdTTL),
		UpdatedAt:     now,
	}
	if err := m.store.Create(ctx, b); err != nil {
		if _, rerr := m.seats.Release(res.Token); rerr != nil {
			m.log.Error("release after failed create", zap.String("reservation_id", res.ID), zap.Error(rerr))
		}
		return model.Booking{}, fmt.Errorf("store booking: %w", err)
	}
	m.metrics.BookingCreated()
	m.metrics.ObserveReservation(start)
	m.log.Info("booking created",
		zap.String("booking_id", b.ID),
		zap.String("showtime_id", showtimeID),
		zap.Strings("seats", b.Seats),
		zap.String("total", b.TotalPrice.StringFixed(2)),
	)
	return b.Clone(), nil
}

func (m *Manager) GetBooking(ctx context.Context, id string) (model.Booking, error) {
	return m.store.GetByID(ctx, id)
}

// ListBookings returns the user's bookings, newest first.
func (m *Manager) ListBookings(ctx context.Context, userID string) ([]model.Booking, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, model.Invalid("user_id", "user_id is required")
	}
	return m.store.ListByUser(ctx, userID)
}

// CancelBooking releases the seats of a PENDING booking and marks it
// CANCELLED.
func (m *Manager) CancelBooking(ctx context.Context, id string) (model.Booking, error) {
	unlock := m.locks.Lock(id)
	defer unlock()

	b, err := m.store.GetByID(ctx, id)
	if err != nil {
		return model.Booking{}, err
	}
	return m.releaseLocked(ctx, b, model.BookingCancelled)
}

// ConfirmBooking commits the held seats and marks the booking CONFIRMED.
// Confirming an already confirmed booking is a no-op.
func (m *Manager) ConfirmBooking(ctx context.Context, id string) (model.Booking, error) {
	unlock := m.locks.Lock(id)
	defer unlock()

	b, err := m.store.GetByID(ctx, id)
	if err != nil {
		return model.Booking{}, err
	}
	return m.confirmLocked(ctx, b, "")
}

// FailBooking releases the seats of a PENDING booking and marks it
// EXPIRED.
func (m *Manager) FailBooking(ctx context.Context, id string) (model.Booking, error) {
	unlock := m.locks.Lock(id)
	defer unlock()

	b, err := m.store.GetByID(ctx, id)
	if err != nil {
		return model.Booking{}, err
	}
	return m.releaseLocked(ctx, b, model.BookingExpired)
}

// ReclaimExpired expires every PENDING booking created more than
// olderThan ago and returns how many were expired.  A booking that
// changed state between the scan and its lock is skipped.
func (m *Manager) ReclaimExpired(ctx context.Context, olderThan time.Duration) (int, error) {
	cutoff := m.now().UTC().Add(-olderThan)
	ids, err := m.store.ListPendingCreatedBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("scan pending bookings: %w", err)
	}

	var errs []error
	reclaimed := 0
	for _, id := range ids {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		ok, err := m.reclaimOne(ctx, id, cutoff)
		if err != nil {
			errs = append(errs, fmt.Errorf("reclaim %s: %w", id, err))
			continue
		}
		if ok {
			reclaimed++
		}
	}
	m.metrics.Reclaimed(reclaimed)
	if reclaimed > 0 {
		m.log.Info("reclaimed expired bookings", zap.Int("count", reclaimed))
	}
	return reclaimed, errors.Join(errs...)
}

func (m *Manager) reclaimOne(ctx context.Context, id string, cutoff time.Time) (bool, error) {
	unlock := m.locks.Lock(id)
	defer unlock()

	b, err := m.store.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	if b.Status != model.BookingPending || !b.CreatedAt.Before(cutoff) {
		return false, nil
	}
	if _, err := m.releaseLocked(ctx, b, model.BookingExpired); err != nil {
		return false, err
	}
	return true, nil
}

// Settlement is the outcome reported by a SettleFunc.
type Settlement struct {
	Approved  bool
	PaymentID string
}

// SettleFunc runs while the booking lock is held and the booking is known
// to be PENDING.  Returning an error leaves the booking untouched.
type SettleFunc func(ctx context.Context, b model.Booking) (Settlement, error)

// Settle serializes a payment against the booking: it checks the booking
// is PENDING, runs fn and then confirms or expires the booking according
// to the settlement.  A second Settle on the same booking observes the
// first one's result and fails with InvalidState.
func (m *Manager) Settle(ctx context.Context, id string, fn SettleFunc) (model.Booking, error) {
	unlock := m.locks.Lock(id)
	defer unlock()

	b, err := m.store.GetByID(ctx, id)
	if err != nil {
		return model.Booking{}, err
	}
	if b.Status != model.BookingPending {
		return b, model.InvalidState("booking", id, b.Status)
	}
	s, err := fn(ctx, b.Clone())
	if err != nil {
		return b, err
	}
	b.PaymentID = s.PaymentID
	if s.Approved {
		return m.confirmLocked(ctx, b, s.PaymentID)
	}
	return m.releaseLocked(ctx, b, model.BookingExpired)
}

func token(b model.Booking) inventory.Token {
	return inventory.Token{ID: b.ReservationID, ShowtimeID: b.ShowtimeID, Labels: b.Seats}
}

// confirmLocked and releaseLocked expect the caller to hold the booking lock.
func (m *Manager) confirmLocked(ctx context.Context, b model.Booking, paymentID string) (model.Booking, error) {
	if b.Status == model.BookingConfirmed {
		return b, nil
	}
	if !b.Status.CanTransitionTo(model.BookingConfirmed) {
		return b, model.InvalidState("booking", b.ID, b.Status)
	}
	if err := m.seats.Commit(token(b)); err != nil {
		return b, err
	}
	if paymentID != "" {
		b.PaymentID = paymentID
	}
	return m.transition(ctx, b, model.BookingConfirmed)
}

func (m *Manager) releaseLocked(ctx context.Context, b model.Booking, to model.BookingStatus) (model.Booking, error) {
	if !b.Status.CanTransitionTo(to) {
		return b, model.InvalidState("booking", b.ID, b.Status)
	}
	if _, err := m.seats.Release(token(b)); err != nil {
		return b, err
	}
	return m.transition(ctx, b, to)
}

func (m *Manager) transition(ctx context.Context, b model.Booking, to model.BookingStatus) (model.Booking, error) {
	from := b.Status
	b.Status = to
	b.UpdatedAt = m.now().UTC()
	if err := m.store.Update(ctx, b); err != nil {
		return b, fmt.Errorf("update booking: %w", err)
	}
	m.metrics.BookingTransition(string(to))
	m.log.Info("booking transition",
		zap.String("booking_id", b.ID),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
	)
	return b.Clone(), nil
}
