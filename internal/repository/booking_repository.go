package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/iliyamo/showtime-booking/internal/model"
)

// BookingRepo stores bookings in memory.  It does not enforce lifecycle
// rules; the booking manager serializes transitions per booking and only
// writes the final state here.
type BookingRepo struct {
	mu       sync.RWMutex
	bookings map[string]model.Booking
}

// NewBookingRepo returns an empty BookingRepo.
func NewBookingRepo() *BookingRepo {
	return &BookingRepo{bookings: make(map[string]model.Booking)}
}

// Create inserts a new booking.  It returns ErrConflict when the ID is
// already taken.
func (r *BookingRepo) Create(_ context.Context, b model.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.bookings[b.ID]; exists {
		return ErrConflict
	}
	r.bookings[b.ID] = b.Clone()
	return nil
}

// GetByID returns the booking or a NotFound error.
func (r *BookingRepo) GetByID(_ context.Context, id string) (model.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bookings[id]
	if !ok {
		return model.Booking{}, model.NotFound("booking", id)
	}
	return b.Clone(), nil
}

// Update replaces an existing booking.
func (r *BookingRepo) Update(_ context.Context, b model.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[b.ID]; !ok {
		return model.NotFound("booking", b.ID)
	}
	r.bookings[b.ID] = b.Clone()
	return nil
}

// ListByUser returns the user's bookings, newest first.
func (r *BookingRepo) ListByUser(_ context.Context, userID string) ([]model.Booking, error) {
	r.mu.RLock()
	out := make([]model.Booking, 0)
	for _, b := range r.bookings {
		if b.UserID == userID {
			out = append(out, b.Clone())
		}
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// ListPendingCreatedBefore returns the IDs of PENDING bookings created
// strictly before cutoff, oldest first.
func (r *BookingRepo) ListPendingCreatedBefore(_ context.Context, cutoff time.Time) ([]string, error) {
	r.mu.RLock()
	var stale []model.Booking
	for _, b := range r.bookings {
		if b.Status == model.BookingPending && b.CreatedAt.Before(cutoff) {
			stale = append(stale, b)
		}
	}
	r.mu.RUnlock()
	sort.Slice(stale, func(i, j int) bool { return stale[i].CreatedAt.Before(stale[j].CreatedAt) })
	ids := make([]string, len(stale))
	for i, b := range stale {
		ids[i] = b.ID
	}
	return ids, nil
}
