package model

import "strings"

// Theater represents a movie theatre venue.  Theaters are immutable
// reference data; many showtimes reference the same theater.
type Theater struct {
	ID      string `json:"theater_id"` // catalog identifier (e.g. "th001")
	Name    string `json:"name"`       // display name
	Address string `json:"address"`    // street address
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
}

// Located reports whether the theater matches a free text location such
// as "Boston", "Boston, MA", "MA" or "02116".  Each comma separated part
// of the location must match the city, state or zip code.
func (t Theater) Located(location string) bool {
	location = strings.TrimSpace(location)
	if location == "" {
		return true
	}
	for _, part := range strings.Split(location, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if !strings.EqualFold(part, t.City) &&
			!strings.EqualFold(part, t.State) &&
			part != t.ZipCode {
			return false
		}
	}
	return true
}
