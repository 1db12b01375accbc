// Package catalog holds the read-only reference data of the booking
// engine: movies, theaters, showtimes and the seat layout of every
// showtime.  A Store is built once at startup by one of the loaders and
// is safe for concurrent use without coordination because nothing
// mutates it afterwards.
package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/iliyamo/showtime-booking/internal/model"
)

// Data is the raw reference data handed to New.  Seats maps a showtime
// ID to the ordered seat layout of that showtime.
type Data struct {
	Movies    []model.Movie
	Theaters  []model.Theater
	Showtimes []model.Showtime
	Seats     map[string][]model.SeatDefinition
}

// Store is the immutable, validated catalog.
type Store struct {
	movies        map[string]model.Movie
	movieOrder    []string
	theaters      map[string]model.Theater
	theaterOrder  []string
	showtimes     map[string]model.Showtime
	showtimeOrder []string
	layouts       map[string][]model.SeatDefinition
}

// ShowtimeFilter narrows ListShowtimes.  Empty fields match everything.
type ShowtimeFilter struct {
	MovieID   string
	TheaterID string
	Date      string
}

// New validates d and builds a Store.  Any referential or shape error in
// the reference data is returned; callers treat it as a boot failure.
func New(d Data) (*Store, error) {
	s := &Store{
		movies:    make(map[string]model.Movie, len(d.Movies)),
		theaters:  make(map[string]model.Theater, len(d.Theaters)),
		showtimes: make(map[string]model.Showtime, len(d.Showtimes)),
		layouts:   make(map[string][]model.SeatDefinition, len(d.Seats)),
	}
	for _, m := range d.Movies {
		if strings.TrimSpace(m.ID) == "" || strings.TrimSpace(m.Title) == "" {
			return nil, fmt.Errorf("movie %q: id and title are required", m.ID)
		}
		if _, dup := s.movies[m.ID]; dup {
			return nil, fmt.Errorf("movie %q: duplicate id", m.ID)
		}
		s.movies[m.ID] = m
		s.movieOrder = append(s.movieOrder, m.ID)
	}
	for _, t := range d.Theaters {
		if strings.TrimSpace(t.ID) == "" || strings.TrimSpace(t.Name) == "" {
			return nil, fmt.Errorf("theater %q: id and name are required", t.ID)
		}
		if _, dup := s.theaters[t.ID]; dup {
			return nil, fmt.Errorf("theater %q: duplicate id", t.ID)
		}
		s.theaters[t.ID] = t
		s.theaterOrder = append(s.theaterOrder, t.ID)
	}
	for _, st := range d.Showtimes {
		if err := s.addShowtime(st); err != nil {
			return nil, err
		}
	}
	for showtimeID, seats := range d.Seats {
		st, ok := s.showtimes[showtimeID]
		if !ok {
			return nil, fmt.Errorf("seat layout references unknown showtime %q", showtimeID)
		}
		layout, err := validateLayout(st, seats)
		if err != nil {
			return nil, err
		}
		s.layouts[showtimeID] = layout
	}
	return s, nil
}

func (s *Store) addShowtime(st model.Showtime) error {
	if strings.TrimSpace(st.ID) == "" {
		return fmt.Errorf("showtime with empty id")
	}
	if _, dup := s.showtimes[st.ID]; dup {
		return fmt.Errorf("showtime %q: duplicate id", st.ID)
	}
	if _, ok := s.movies[st.MovieID]; !ok {
		return fmt.Errorf("showtime %q: unknown movie %q", st.ID, st.MovieID)
	}
	if _, ok := s.theaters[st.TheaterID]; !ok {
		return fmt.Errorf("showtime %q: unknown theater %q", st.ID, st.TheaterID)
	}
	if !st.Format.Valid() {
		return fmt.Errorf("showtime %q: unknown format %q", st.ID, st.Format)
	}
	if !st.BasePrice.IsPositive() {
		return fmt.Errorf("showtime %q: base price must be positive", st.ID)
	}
	if _, err := st.StartsAt(nil); err != nil {
		return fmt.Errorf("showtime %q: bad date/time: %w", st.ID, err)
	}
	s.showtimes[st.ID] = st
	s.showtimeOrder = append(s.showtimeOrder, st.ID)
	return nil
}

func validateLayout(st model.Showtime, seats []model.SeatDefinition) ([]model.SeatDefinition, error) {
	seen := make(map[string]struct{}, len(seats))
	out := make([]model.SeatDefinition, 0, len(seats))
	for _, d := range seats {
		if strings.TrimSpace(d.Label) == "" {
			return nil, fmt.Errorf("showtime %q: seat with empty label", st.ID)
		}
		if _, dup := seen[d.Label]; dup {
			return nil, fmt.Errorf("showtime %q: duplicate seat %q", st.ID, d.Label)
		}
		seen[d.Label] = struct{}{}
		if d.Tier == "" {
			d.Tier = model.TierStandard
		}
		if !d.Tier.Valid() {
			return nil, fmt.Errorf("showtime %q: seat %q has unknown tier %q", st.ID, d.Label, d.Tier)
		}
		if d.Price != nil && !d.Price.IsPositive() {
			return nil, fmt.Errorf("showtime %q: seat %q price must be positive", st.ID, d.Label)
		}
		out = append(out, d)
	}
	return out, nil
}

// FindMovie returns the movie with the given id.
func (s *Store) FindMovie(id string) (model.Movie, error) {
	m, ok := s.movies[id]
	if !ok {
		return model.Movie{}, model.NotFound("movie", id)
	}
	return m, nil
}

// FindTheater returns the theater with the given id.
func (s *Store) FindTheater(id string) (model.Theater, error) {
	t, ok := s.theaters[id]
	if !ok {
		return model.Theater{}, model.NotFound("theater", id)
	}
	return t, nil
}

// FindShowtime returns the showtime with the given id.
func (s *Store) FindShowtime(id string) (model.Showtime, error) {
	st, ok := s.showtimes[id]
	if !ok {
		return model.Showtime{}, model.NotFound("showtime", id)
	}
	return st, nil
}

// ListMovies returns all movies in load order.
func (s *Store) ListMovies() []model.Movie {
	out := make([]model.Movie, 0, len(s.movieOrder))
	for _, id := range s.movieOrder {
		out = append(out, s.movies[id])
	}
	return out
}

// ListTheaters returns all theaters in load order.
func (s *Store) ListTheaters() []model.Theater {
	out := make([]model.Theater, 0, len(s.theaterOrder))
	for _, id := range s.theaterOrder {
		out = append(out, s.theaters[id])
	}
	return out
}

// ListShowtimes returns the showtimes matching f ordered by date, time
// and id.
func (s *Store) ListShowtimes(f ShowtimeFilter) []model.Showtime {
	out := make([]model.Showtime, 0)
	for _, id := range s.showtimeOrder {
		st := s.showtimes[id]
		if f.MovieID != "" && st.MovieID != f.MovieID {
			continue
		}
		if f.TheaterID != "" && st.TheaterID != f.TheaterID {
			continue
		}
		if f.Date != "" && st.Date != f.Date {
			continue
		}
		out = append(out, st)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		if out[i].Time != out[j].Time {
			return out[i].Time < out[j].Time
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// SeatLayout returns a copy of the seat layout of a showtime.  A known
// showtime without a layout yields an empty slice.
func (s *Store) SeatLayout(showtimeID string) ([]model.SeatDefinition, error) {
	if _, ok := s.showtimes[showtimeID]; !ok {
		return nil, model.NotFound("showtime", showtimeID)
	}
	return append([]model.SeatDefinition(nil), s.layouts[showtimeID]...), nil
}
