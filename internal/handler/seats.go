package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/showtime-booking/internal/catalog"
	"github.com/iliyamo/showtime-booking/internal/inventory"
	"github.com/iliyamo/showtime-booking/internal/model"
)

// SeatHandler serves live seat availability.
type SeatHandler struct {
	Catalog   *catalog.Store
	Inventory *inventory.Inventory
}

type seatView struct {
	model.Seat
	IsAvailable bool `json:"is_available"`
}

// SeatMapResponse is the body of GET /v1/showtimes/:id/seats.
type SeatMapResponse struct {
	ShowtimeID string       `json:"showtime_id"`
	Movie      string       `json:"movie"`
	Theater    string       `json:"theater"`
	Date       string       `json:"date"`
	Time       string       `json:"time"`
	Format     model.Format `json:"format"`
	Available  int          `json:"available"`
	SeatMap    []seatView   `json:"seat_map"`
}

func (h *SeatHandler) GetSeatMap(c echo.Context) error {
	id := c.Param("id")
	st, err := h.Catalog.FindShowtime(id)
	if err != nil {
		return fail(c, err)
	}
	seats, err := h.Inventory.SeatMap(id)
	if err != nil {
		return fail(c, err)
	}

	resp := SeatMapResponse{
		ShowtimeID: st.ID,
		Movie:      "Unknown",
		Theater:    "Unknown Theater",
		Date:       st.Date,
		Time:       st.Time,
		Format:     st.Format,
		SeatMap:    make([]seatView, 0, len(seats)),
	}
	if m, err := h.Catalog.FindMovie(st.MovieID); err == nil {
		resp.Movie = m.Title
	}
	if t, err := h.Catalog.FindTheater(st.TheaterID); err == nil {
		resp.Theater = t.Name
	}
	for _, s := range seats {
		if s.Available() {
			resp.Available++
		}
		resp.SeatMap = append(resp.SeatMap, seatView{Seat: s, IsAvailable: s.Available()})
	}
	return c.JSON(http.StatusOK, resp)
}
