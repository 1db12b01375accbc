package model

import "github.com/shopspring/decimal"

// SeatState is the availability of a seat within one showtime's seat map.
// AVAILABLE is the initial state.  There is no terminal state: seats are
// recycled through the rollback edges for the lifetime of a showtime.
type SeatState string

const (
	SeatAvailable SeatState = "AVAILABLE"
	SeatHeld      SeatState = "HELD"
	SeatBooked    SeatState = "BOOKED"
)

// CanTransitionTo reports whether s -> next is an edge of the seat state
// machine: AVAILABLE -> HELD -> BOOKED plus the rollback edges
// HELD -> AVAILABLE and BOOKED -> AVAILABLE.
func (s SeatState) CanTransitionTo(next SeatState) bool {
	switch s {
	case SeatAvailable:
		return next == SeatHeld
	case SeatHeld:
		return next == SeatBooked || next == SeatAvailable
	case SeatBooked:
		return next == SeatAvailable
	}
	return false
}

// PriceTier classifies a seat for pricing.
type PriceTier string

const (
	TierStandard PriceTier = "Standard"
	TierPremium  PriceTier = "Premium"
	TierRecliner PriceTier = "Recliner"
)

// Surcharges added to a showtime's base price when a seat has no
// explicit catalog price.
var (
	premiumSurcharge  = decimal.RequireFromString("3.00")
	reclinerSurcharge = decimal.RequireFromString("5.00")
)

// Valid reports whether t is a known tier.
func (t PriceTier) Valid() bool {
	switch t {
	case TierStandard, TierPremium, TierRecliner:
		return true
	}
	return false
}

// Surcharge returns the amount added to the base price for this tier.
func (t PriceTier) Surcharge() decimal.Decimal {
	switch t {
	case TierPremium:
		return premiumSurcharge
	case TierRecliner:
		return reclinerSurcharge
	}
	return decimal.Zero
}

// SeatDefinition is the reference data for a single seat of a showtime's
// layout as loaded from the catalog.  Price is optional; when absent the
// seat's price is derived from the showtime base price and the tier.
type SeatDefinition struct {
	Label  string           `json:"seat_number"`
	Row    string           `json:"row"`
	Column int              `json:"column"`
	Tier   PriceTier        `json:"price_tier"`
	Price  *decimal.Decimal `json:"price,omitempty"`
}

// PriceFor returns the seat price given the showtime base price.
func (d SeatDefinition) PriceFor(base decimal.Decimal) decimal.Decimal {
	if d.Price != nil {
		return *d.Price
	}
	return base.Add(d.Tier.Surcharge())
}

// Seat is a point-in-time view of one seat in a seat map.
type Seat struct {
	Label  string          `json:"seat_number"`
	Row    string          `json:"row"`
	Column int             `json:"column"`
	Tier   PriceTier       `json:"price_tier"`
	Price  decimal.Decimal `json:"price"`
	State  SeatState       `json:"state"`
}

// Available reports whether the seat can currently be held.
func (s Seat) Available() bool { return s.State == SeatAvailable }
