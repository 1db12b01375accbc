// Package inventory owns the live seat map of every showtime and
// mediates all availability changes.  Each showtime is its own
// mutual-exclusion domain: reservations, commits and releases on one
// showtime are serialized, while unrelated showtimes never contend.
package inventory

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/showtime-booking/internal/catalog"
	"github.com/iliyamo/showtime-booking/internal/model"
)

// Token identifies the exact seat set claimed by one successful Reserve.
// Commit and Release only touch seats still owned by the token.
type Token struct {
	ID         string
	ShowtimeID string
	Labels     []string
}

// Reservation is returned by Reserve.  Seats holds the price snapshot
// taken while the seats were transitioned to HELD.
type Reservation struct {
	Token
	Seats []model.Seat
}

// Total is the sum of the reserved seats' prices.
func (r Reservation) Total() decimal.Decimal {
	total := decimal.Zero
	for _, s := range r.Seats {
		total = total.Add(s.Price)
	}
	return total
}

// Layout seeds the seat map of one showtime.
type Layout struct {
	ShowtimeID string
	BasePrice  decimal.Decimal
	Seats      []model.SeatDefinition
}

type slot struct {
	seat   model.Seat
	holder string // token id owning the seat while HELD or BOOKED
}

type seatMap struct {
	mu    sync.Mutex
	order []string
	slots map[string]*slot
}

// Inventory is the authoritative seat state.  The showtime index is
// built once in New and never modified, so it is read without locking.
type Inventory struct {
	showtimes map[string]*seatMap
	newID     func() string
}

// New builds an inventory with every seat AVAILABLE.
func New(layouts ...Layout) (*Inventory, error) {
	inv := &Inventory{
		showtimes: make(map[string]*seatMap, len(layouts)),
		newID:     uuid.NewString,
	}
	for _, l := range layouts {
		if _, dup := inv.showtimes[l.ShowtimeID]; dup {
			return nil, fmt.Errorf("duplicate layout for showtime %q", l.ShowtimeID)
		}
		sm := &seatMap{slots: make(map[string]*slot, len(l.Seats))}
		for _, d := range l.Seats {
			if _, dup := sm.slots[d.Label]; dup {
				return nil, fmt.Errorf("showtime %q: duplicate seat %q", l.ShowtimeID, d.Label)
			}
			sm.order = append(sm.order, d.Label)
			sm.slots[d.Label] = &slot{seat: model.Seat{
				Label:  d.Label,
				Row:    d.Row,
				Column: d.Column,
				Tier:   d.Tier,
				Price:  d.PriceFor(l.BasePrice),
				State:  model.SeatAvailable,
			}}
		}
		inv.showtimes[l.ShowtimeID] = sm
	}
	return inv, nil
}

// FromCatalog seeds one seat map per catalog showtime.
func FromCatalog(c *catalog.Store) (*Inventory, error) {
	showtimes := c.ListShowtimes(catalog.ShowtimeFilter{})
	layouts := make([]Layout, 0, len(showtimes))
	for _, st := range showtimes {
		seats, err := c.SeatLayout(st.ID)
		if err != nil {
			return nil, err
		}
		layouts = append(layouts, Layout{ShowtimeID: st.ID, BasePrice: st.BasePrice, Seats: seats})
	}
	return New(layouts...)
}

func (inv *Inventory) lookup(showtimeID string) (*seatMap, error) {
	sm, ok := inv.showtimes[showtimeID]
	if !ok {
		return nil, model.NotFound("showtime", showtimeID)
	}
	return sm, nil
}

// SeatMap returns a snapshot of the showtime's seats in layout order.
func (inv *Inventory) SeatMap(showtimeID string) ([]model.Seat, error) {
	sm, err := inv.lookup(showtimeID)
	if err != nil {
		return nil, err
	}
	sm.mu.Lock()
	defer sm.mu.Unlock()
	out := make([]model.Seat, 0, len(sm.order))
	for _, label := range sm.order {
		out = append(out, sm.slots[label].seat)
	}
	return out, nil
}

// Reserve atomically moves every requested seat from AVAILABLE to HELD.
// Either all seats change state or none do.  Unknown labels are reported
// together with taken seats as SeatUnavailable.
func (inv *Inventory) Reserve(showtimeID string, labels []string) (Reservation, error) {
	if len(labels) == 0 {
		return Reservation{}, model.EmptySelection()
	}
	sm, err := inv.lookup(showtimeID)
	if err != nil {
		return Reservation{}, err
	}
	seen := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		if _, dup := seen[l]; dup {
			return Reservation{}, model.DuplicateSeat(l)
		}
		seen[l] = struct{}{}
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()

	var unavailable []string
	for _, l := range labels {
		s, ok := sm.slots[l]
		if !ok || !s.seat.State.CanTransitionTo(model.SeatHeld) {
			unavailable = append(unavailable, l)
		}
	}
	if len(unavailable) > 0 {
		return Reservation{}, model.SeatUnavailable(showtimeID, unavailable)
	}

	res := Reservation{
		Token: Token{ID: inv.newID(), ShowtimeID: showtimeID, Labels: append([]string(nil), labels...)},
		Seats: make([]model.Seat, 0, len(labels)),
	}
	for _, l := range labels {
		s := sm.slots[l]
		s.seat.State = model.SeatHeld
		s.holder = res.ID
		res.Seats = append(res.Seats, s.seat)
	}
	return res, nil
}

// Commit moves the token's HELD seats to BOOKED.  It fails without
// changing anything if any seat is no longer held by the token.
func (inv *Inventory) Commit(tok Token) error {
	sm, err := inv.lookup(tok.ShowtimeID)
	if err != nil {
		return err
	}
	sm.mu.Lock()
	defer sm.mu.Unlock()

	for _, l := range tok.Labels {
		s, ok := sm.slots[l]
		if !ok || s.holder != tok.ID || !s.seat.State.CanTransitionTo(model.SeatBooked) {
			return model.InvalidState("reservation", tok.ID, "no longer holding seat "+l)
		}
	}
	for _, l := range tok.Labels {
		sm.slots[l].seat.State = model.SeatBooked
	}
	return nil
}

// Release returns the token's HELD or BOOKED seats to AVAILABLE and
// reports how many seats changed.  Seats owned by another token are left
// alone, which makes Release idempotent.
func (inv *Inventory) Release(tok Token) (int, error) {
	sm, err := inv.lookup(tok.ShowtimeID)
	if err != nil {
		return 0, err
	}
	sm.mu.Lock()
	defer sm.mu.Unlock()

	released := 0
	for _, l := range tok.Labels {
		s, ok := sm.slots[l]
		if !ok || s.holder != tok.ID {
			continue
		}
		s.seat.State = model.SeatAvailable
		s.holder = ""
		released++
	}
	return released, nil
}

// Reprice changes the price future reservations of a seat will snapshot.
// Existing reservations keep the price they were created with.
func (inv *Inventory) Reprice(showtimeID, label string, price decimal.Decimal) error {
	if !price.IsPositive() {
		return model.Invalid("price", "price must be positive")
	}
	sm, err := inv.lookup(showtimeID)
	if err != nil {
		return err
	}
	sm.mu.Lock()
	defer sm.mu.Unlock()
	s, ok := sm.slots[label]
	if !ok {
		return model.NotFound("seat", label)
	}
	s.seat.Price = price
	return nil
}
