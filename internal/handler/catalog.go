// Package handler exposes the HTTP API.  Handlers translate requests into
// calls on the catalog, the seat inventory, the booking manager and the
// payment processor, and map their errors to status codes.
package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/showtime-booking/internal/catalog"
	"github.com/iliyamo/showtime-booking/internal/model"
)

// CatalogHandler serves the read-only reference data.
type CatalogHandler struct {
	Catalog *catalog.Store
}

// ShowtimeView is a showtime joined with its movie and theater.
type ShowtimeView struct {
	ShowtimeID     string          `json:"showtime_id"`
	MovieID        string          `json:"movie_id"`
	MovieTitle     string          `json:"movie_title"`
	TheaterID      string          `json:"theater_id"`
	TheaterName    string          `json:"theater_name"`
	TheaterAddress string          `json:"theater_address"`
	Date           string          `json:"date"`
	Time           string          `json:"time"`
	Format         model.Format    `json:"format"`
	Price          decimal.Decimal `json:"price"`
}

func (h *CatalogHandler) ListMovies(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"movies": h.Catalog.ListMovies()})
}

func (h *CatalogHandler) GetMovie(c echo.Context) error {
	m, err := h.Catalog.FindMovie(c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, m)
}

// ListTheaters lists theaters, optionally narrowed by ?location= (city,
// state or zip).
func (h *CatalogHandler) ListTheaters(c echo.Context) error {
	loc := strings.TrimSpace(c.QueryParam("location"))
	out := make([]model.Theater, 0)
	for _, t := range h.Catalog.ListTheaters() {
		if t.Located(loc) {
			out = append(out, t)
		}
	}
	return c.JSON(http.StatusOK, map[string]any{"theaters": out})
}

func (h *CatalogHandler) GetTheater(c echo.Context) error {
	t, err := h.Catalog.FindTheater(c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

// NowShowing lists movies playing near ?location= (city, state or zip).
func (h *CatalogHandler) NowShowing(c echo.Context) error {
	loc := strings.TrimSpace(c.QueryParam("location"))
	return c.JSON(http.StatusOK, map[string]any{
		"location": loc,
		"movies":   h.Catalog.NowShowing(loc),
	})
}

// Recommendations matches ?genre= first and ?mood= second.
func (h *CatalogHandler) Recommendations(c echo.Context) error {
	genre := strings.TrimSpace(c.QueryParam("genre"))
	mood := strings.TrimSpace(c.QueryParam("mood"))
	return c.JSON(http.StatusOK, map[string]any{
		"criteria":        map[string]string{"genre": genre, "mood": mood},
		"recommendations": h.Catalog.Recommend(genre, mood),
	})
}

// ListShowtimes filters by movie_id, theater_id, date (YYYY-MM-DD) and
// location.  Unknown movie or theater ids yield 404 rather than an empty
// list so typos are visible.
func (h *CatalogHandler) ListShowtimes(c echo.Context) error {
	f := catalog.ShowtimeFilter{
		MovieID:   strings.TrimSpace(c.QueryParam("movie_id")),
		TheaterID: strings.TrimSpace(c.QueryParam("theater_id")),
		Date:      strings.TrimSpace(c.QueryParam("date")),
	}
	location := strings.TrimSpace(c.QueryParam("location"))
	if f.Date != "" {
		if _, err := time.Parse(model.DateLayout, f.Date); err != nil {
			return badRequest(c, "date", "date must be YYYY-MM-DD")
		}
	}
	if f.MovieID != "" {
		if _, err := h.Catalog.FindMovie(f.MovieID); err != nil {
			return fail(c, err)
		}
	}
	if f.TheaterID != "" {
		if _, err := h.Catalog.FindTheater(f.TheaterID); err != nil {
			return fail(c, err)
		}
	}

	out := make([]ShowtimeView, 0)
	for _, st := range h.Catalog.ListShowtimes(f) {
		th, err := h.Catalog.FindTheater(st.TheaterID)
		if err != nil {
			return fail(c, err)
		}
		if !th.Located(location) {
			continue
		}
		mv, err := h.Catalog.FindMovie(st.MovieID)
		if err != nil {
			return fail(c, err)
		}
		out = append(out, ShowtimeView{
			ShowtimeID:     st.ID,
			MovieID:        mv.ID,
			MovieTitle:     mv.Title,
			TheaterID:      th.ID,
			TheaterName:    th.Name,
			TheaterAddress: th.Address,
			Date:           st.Date,
			Time:           st.Time,
			Format:         st.Format,
			Price:          st.BasePrice,
		})
	}
	return c.JSON(http.StatusOK, map[string]any{"showtimes": out})
}
