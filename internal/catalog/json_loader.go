package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/iliyamo/showtime-booking/internal/model"
)

// Reference data file names expected in the data directory.
const (
	MoviesFile    = "movies.json"
	TheatersFile  = "theaters.json"
	ShowtimesFile = "showtimes.json"
	SeatsFile     = "seats.json"
)

// LoadJSONDir reads the four reference data files from dir and builds a
// Store.  movies, theaters and showtimes are JSON arrays; seats is an
// object keyed by showtime ID.  A missing or malformed file is an error.
func LoadJSONDir(dir string) (*Store, error) {
	var d Data
	if err := readJSON(filepath.Join(dir, MoviesFile), &d.Movies); err != nil {
		return nil, err
	}
	if err := readJSON(filepath.Join(dir, TheatersFile), &d.Theaters); err != nil {
		return nil, err
	}
	if err := readJSON(filepath.Join(dir, ShowtimesFile), &d.Showtimes); err != nil {
		return nil, err
	}
	d.Seats = make(map[string][]model.SeatDefinition)
	if err := readJSON(filepath.Join(dir, SeatsFile), &d.Seats); err != nil {
		return nil, err
	}
	return New(d)
}

func readJSON(path string, dst any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
