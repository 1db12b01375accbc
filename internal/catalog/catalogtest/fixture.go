// Package catalogtest provides a small, valid catalog for tests of the
// packages built on top of the catalog.
package catalogtest

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/showtime-booking/internal/catalog"
	"github.com/iliyamo/showtime-booking/internal/model"
)

// Price returns a decimal parsed from s and panics on bad input.
func Price(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// Data returns the fixture reference data:
//
//	st001 (mv001 @ th001, IMAX, base 15.50): A1-A6 Premium at an explicit
//	18.50, B1-B4 Standard with derived price 15.50.
//	st002 (mv002 @ th002, Standard, base 12.00): A1-A3 Recliner, derived 17.00.
func Data() catalog.Data {
	premium := Price("18.50")
	var st001 []model.SeatDefinition
	for i := 1; i <= 6; i++ {
		p := premium
		st001 = append(st001, model.SeatDefinition{Label: fmt.Sprintf("A%d", i), Row: "A", Column: i, Tier: model.TierPremium, Price: &p})
	}
	for i := 1; i <= 4; i++ {
		st001 = append(st001, model.SeatDefinition{Label: fmt.Sprintf("B%d", i), Row: "B", Column: i, Tier: model.TierStandard})
	}
	var st002 []model.SeatDefinition
	for i := 1; i <= 3; i++ {
		st002 = append(st002, model.SeatDefinition{Label: fmt.Sprintf("A%d", i), Row: "A", Column: i, Tier: model.TierRecliner})
	}
	return catalog.Data{
		Movies: []model.Movie{
			{ID: "mv001", Title: "Dune: Part Two", Rating: "PG-13", DurationMinutes: 166, Genre: "Action, Sci-Fi", Description: "Epic desert war"},
			{ID: "mv002", Title: "Inside Out 2", Rating: "PG", DurationMinutes: 96, Genre: "Animation, Family", Description: "A funny and heartwarming story"},
		},
		Theaters: []model.Theater{
			{ID: "th001", Name: "AMC Boston Common 19", Address: "175 Tremont St", City: "Boston", State: "MA", ZipCode: "02111"},
			{ID: "th002", Name: "AMC Lincoln Square 13", Address: "1998 Broadway", City: "New York", State: "NY", ZipCode: "10023"},
		},
		Showtimes: []model.Showtime{
			{ID: "st001", MovieID: "mv001", TheaterID: "th001", Date: "2025-10-28", Time: "19:30", Format: model.FormatIMAX, BasePrice: Price("15.50")},
			{ID: "st002", MovieID: "mv002", TheaterID: "th002", Date: "2025-10-28", Time: "14:15", Format: model.FormatStandard, BasePrice: Price("12.00")},
		},
		Seats: map[string][]model.SeatDefinition{
			"st001": st001,
			"st002": st002,
		},
	}
}

// Store builds the fixture catalog and fails the test on error.
func Store(t testing.TB) *catalog.Store {
	t.Helper()
	s, err := catalog.New(Data())
	if err != nil {
		t.Fatalf("build fixture catalog: %v", err)
	}
	return s
}
