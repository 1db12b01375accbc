package catalog_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/showtime-booking/internal/catalog"
	"github.com/iliyamo/showtime-booking/internal/model"
)

func TestLoadJSONDirShippedData(t *testing.T) {
	s, err := catalog.LoadJSONDir(filepath.Join("..", "..", "data"))
	require.NoError(t, err)

	st, err := s.FindShowtime("st001")
	require.NoError(t, err)
	assert.Equal(t, model.FormatIMAX, st.Format)

	layout, err := s.SeatLayout("st001")
	require.NoError(t, err)
	var a5 *model.SeatDefinition
	for i := range layout {
		if layout[i].Label == "A5" {
			a5 = &layout[i]
		}
	}
	require.NotNil(t, a5)
	assert.Equal(t, "18.50", a5.PriceFor(st.BasePrice).StringFixed(2))
}

func TestLoadJSONDirErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := catalog.LoadJSONDir(dir)
	assert.Error(t, err, "missing files")

	for _, name := range []string{catalog.MoviesFile, catalog.TheatersFile, catalog.ShowtimesFile} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(`[]`), 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, catalog.SeatsFile), []byte(`{not json`), 0o644))
	_, err = catalog.LoadJSONDir(dir)
	assert.Error(t, err, "malformed seats")

	require.NoError(t, os.WriteFile(filepath.Join(dir, catalog.SeatsFile), []byte(`{}`), 0o644))
	s, err := catalog.LoadJSONDir(dir)
	require.NoError(t, err)
	assert.Empty(t, s.ListMovies())
}

func TestLoadMySQL(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM movies").WillReturnRows(
		sqlmock.NewRows([]string{"id", "title", "rating", "duration_minutes", "genre", "description", "poster_url"}).
			AddRow("mv001", "Dune: Part Two", "PG-13", 166, "Action", "Desert war", nil))
	mock.ExpectQuery("FROM theaters").WillReturnRows(
		sqlmock.NewRows([]string{"id", "name", "address", "city", "state", "zip_code"}).
			AddRow("th001", "AMC Boston Common 19", "175 Tremont St", "Boston", "MA", "02111"))
	mock.ExpectQuery("FROM showtimes").WillReturnRows(
		sqlmock.NewRows([]string{"id", "movie_id", "theater_id", "show_date", "show_time", "format", "base_price"}).
			AddRow("st001", "mv001", "th001", "2025-10-28", "19:30", "IMAX", "15.50"))
	mock.ExpectQuery("FROM showtime_seats").WillReturnRows(
		sqlmock.NewRows([]string{"showtime_id", "seat_label", "row_label", "col_number", "price_tier", "price"}).
			AddRow("st001", "A5", "A", 5, "Premium", "18.50").
			AddRow("st001", "B1", "B", 1, "Standard", nil))

	s, err := catalog.LoadMySQL(context.Background(), db)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	st, err := s.FindShowtime("st001")
	require.NoError(t, err)
	assert.Equal(t, "15.50", st.BasePrice.StringFixed(2))

	layout, err := s.SeatLayout("st001")
	require.NoError(t, err)
	require.Len(t, layout, 2)
	require.NotNil(t, layout[0].Price)
	assert.Equal(t, "18.50", layout[0].Price.StringFixed(2))
	assert.Nil(t, layout[1].Price)
	assert.Equal(t, "15.50", layout[1].PriceFor(st.BasePrice).StringFixed(2))
}

func TestLoadMySQLQueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM movies").WillReturnError(assert.AnError)

	_, err = catalog.LoadMySQL(context.Background(), db)
	assert.ErrorIs(t, err, assert.AnError)
}
