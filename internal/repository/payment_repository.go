package repository

import (
	"context"
	"sync"

	"github.com/iliyamo/showtime-booking/internal/model"
)

// PaymentRepo stores payment records in memory.  Payments are write-once.
type PaymentRepo struct {
	mu        sync.RWMutex
	payments  map[string]model.Payment
	byBooking map[string][]string
}

// NewPaymentRepo returns an empty PaymentRepo.
func NewPaymentRepo() *PaymentRepo {
	return &PaymentRepo{
		payments:  make(map[string]model.Payment),
		byBooking: make(map[string][]string),
	}
}

// Create records a payment.  It returns ErrConflict when the ID is taken.
func (r *PaymentRepo) Create(_ context.Context, p model.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.payments[p.ID]; exists {
		return ErrConflict
	}
	r.payments[p.ID] = p
	r.byBooking[p.BookingID] = append(r.byBooking[p.BookingID], p.ID)
	return nil
}

// GetByID returns the payment or a NotFound error.
func (r *PaymentRepo) GetByID(_ context.Context, id string) (model.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.payments[id]
	if !ok {
		return model.Payment{}, model.NotFound("payment", id)
	}
	return p, nil
}

// ListByBooking returns every payment attempt for a booking in the order
// they were recorded.
func (r *PaymentRepo) ListByBooking(_ context.Context, bookingID string) ([]model.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := r.byBooking[bookingID]
	out := make([]model.Payment, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.payments[id])
	}
	return out, nil
}
