package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Format is the projection format of a showtime.
type Format string

const (
	FormatStandard Format = "Standard"
	FormatIMAX     Format = "IMAX"
	Format3D       Format = "3D"
	FormatDolby    Format = "Dolby"
)

// Valid reports whether f is one of the supported formats.
func (f Format) Valid() bool {
	switch f {
	case FormatStandard, FormatIMAX, Format3D, FormatDolby:
		return true
	}
	return false
}

// Showtime represents a scheduled screening of a movie at a theater.  It
// carries the base price that seats without an explicit price derive
// their price from.
//
// Fields:
//
//	ID        – catalog identifier (e.g. "st001").
//	MovieID   – movie being screened.
//	TheaterID – theater hosting the screening.
//	Date      – local date, YYYY-MM-DD.
//	Time      – local start time, HH:MM.
//	Format    – Standard, IMAX, 3D or Dolby.
//	BasePrice – default seat price.
type Showtime struct {
	ID        string          `json:"showtime_id"`
	MovieID   string          `json:"movie_id"`
	TheaterID string          `json:"theater_id"`
	Date      string          `json:"date"`
	Time      string          `json:"time"`
	Format    Format          `json:"format"`
	BasePrice decimal.Decimal `json:"price"`
}

// Layouts used for the date and time fields.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// StartsAt combines Date and Time in loc.
func (s Showtime) StartsAt(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation(DateLayout+" "+TimeLayout, s.Date+" "+s.Time, loc)
}
