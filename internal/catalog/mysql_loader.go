package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/showtime-booking/internal/model"
)

// Queries used by LoadMySQL.  Dates and times are formatted by the
// server so the DSN's parseTime setting does not change their shape.
const (
	selectMovies = `SELECT id, title, rating, duration_minutes, genre, description, poster_url
                    FROM movies ORDER BY id`
	selectTheaters = `SELECT id, name, address, city, state, zip_code
                      FROM theaters ORDER BY id`
	selectShowtimes = `SELECT id, movie_id, theater_id,
                              DATE_FORMAT(show_date, '%Y-%m-%d'), TIME_FORMAT(show_time, '%H:%i'),
                              format, base_price
                       FROM showtimes ORDER BY id`
	selectShowtimeSeats = `SELECT showtime_id, seat_label, row_label, col_number, price_tier, price
                           FROM showtime_seats ORDER BY showtime_id, row_label, col_number`
)

// LoadMySQL reads the reference data from a MySQL schema with the tables
// movies, theaters, showtimes and showtime_seats and builds a Store.  The
// database is only read during the call; the returned Store holds no
// reference to db.
func LoadMySQL(ctx context.Context, db *sql.DB) (*Store, error) {
	var d Data
	var err error
	if d.Movies, err = queryMovies(ctx, db); err != nil {
		return nil, fmt.Errorf("load movies: %w", err)
	}
	if d.Theaters, err = queryTheaters(ctx, db); err != nil {
		return nil, fmt.Errorf("load theaters: %w", err)
	}
	if d.Showtimes, err = queryShowtimes(ctx, db); err != nil {
		return nil, fmt.Errorf("load showtimes: %w", err)
	}
	if d.Seats, err = querySeats(ctx, db); err != nil {
		return nil, fmt.Errorf("load seats: %w", err)
	}
	return New(d)
}

func queryMovies(ctx context.Context, db *sql.DB) ([]model.Movie, error) {
	rows, err := db.QueryContext(ctx, selectMovies)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Movie
	for rows.Next() {
		var m model.Movie
		var poster sql.NullString
		if err := rows.Scan(&m.ID, &m.Title, &m.Rating, &m.DurationMinutes, &m.Genre, &m.Description, &poster); err != nil {
			return nil, err
		}
		if poster.Valid {
			m.PosterURL = poster.String
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func queryTheaters(ctx context.Context, db *sql.DB) ([]model.Theater, error) {
	rows, err := db.QueryContext(ctx, selectTheaters)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Theater
	for rows.Next() {
		var t model.Theater
		if err := rows.Scan(&t.ID, &t.Name, &t.Address, &t.City, &t.State, &t.ZipCode); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func queryShowtimes(ctx context.Context, db *sql.DB) ([]model.Showtime, error) {
	rows, err := db.QueryContext(ctx, selectShowtimes)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Showtime
	for rows.Next() {
		var st model.Showtime
		var format string
		if err := rows.Scan(&st.ID, &st.MovieID, &st.TheaterID, &st.Date, &st.Time, &format, &st.BasePrice); err != nil {
			return nil, err
		}
		st.Format = model.Format(format)
		out = append(out, st)
	}
	return out, rows.Err()
}

func querySeats(ctx context.Context, db *sql.DB) (map[string][]model.SeatDefinition, error) {
	rows, err := db.QueryContext(ctx, selectShowtimeSeats)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string][]model.SeatDefinition)
	for rows.Next() {
		var showtimeID, tier string
		var d model.SeatDefinition
		var price decimal.NullDecimal
		if err := rows.Scan(&showtimeID, &d.Label, &d.Row, &d.Column, &tier, &price); err != nil {
			return nil, err
		}
		d.Tier = model.PriceTier(tier)
		if price.Valid {
			p := price.Decimal
			d.Price = &p
		}
		out[showtimeID] = append(out[showtimeID], d)
	}
	return out, rows.Err()
}
